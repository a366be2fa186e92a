package update

import (
	"github.com/Chepman32/Brio-sub001/internal/config"
)

type RuntimeConfig struct {
	DesktopNotifications bool
	ShowHints            bool
	AltScreen            bool
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DesktopNotifications: false,
		ShowHints:            true,
		AltScreen:            true,
	}
}

// FromAppConfig projects the file/env configuration onto the fields the
// UI cares about.
func FromAppConfig(cfg config.Config) RuntimeConfig {
	return RuntimeConfig{
		DesktopNotifications: cfg.Notifications.Desktop,
		ShowHints:            cfg.UI.ShowHints,
		AltScreen:            cfg.UI.AltScreen,
	}
}
