package model

import "fmt"

// ContextSnapshot is a point-in-time read of device signals used to bias
// "right now" suggestions. The planner never caches one.
type ContextSnapshot struct {
	DeepWorkPossible bool
	BatteryLevel     float64
	Charging         bool
	Commuting        bool
}

// NeutralContext is the fallback snapshot used when the provider fails
// or times out: nothing boosts, nothing penalizes.
func NeutralContext() ContextSnapshot {
	return ContextSnapshot{
		DeepWorkPossible: false,
		BatteryLevel:     1.0,
		Charging:         true,
		Commuting:        false,
	}
}

func (c ContextSnapshot) Validate() error {
	if c.BatteryLevel < 0 || c.BatteryLevel > 1 {
		return fmt.Errorf("model: battery level %v outside [0,1]", c.BatteryLevel)
	}
	return nil
}
