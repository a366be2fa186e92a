package device

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Chepman32/Brio-sub001/internal/model"
)

const DefaultTimeout = 750 * time.Millisecond

// Provider supplies a point-in-time device context snapshot.
type Provider interface {
	Snapshot(ctx context.Context) (model.ContextSnapshot, error)
}

// Static answers every call with the same snapshot. Used for
// config-driven defaults and as the base under live probes.
type Static struct {
	Context model.ContextSnapshot
}

func (s Static) Snapshot(ctx context.Context) (model.ContextSnapshot, error) {
	return s.Context, nil
}

// BatteryProbe layers live battery readings over a base snapshot. The
// probe reads the first BAT* supply under the sysfs root; on platforms
// without one, or when any read fails, the base values pass through
// unchanged.
type BatteryProbe struct {
	Base model.ContextSnapshot
	Root string
}

func (p BatteryProbe) Snapshot(ctx context.Context) (model.ContextSnapshot, error) {
	snap := p.Base
	root := p.Root
	if root == "" {
		root = "/sys/class/power_supply"
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return snap, nil
	}
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "BAT") {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if level, ok := readCapacity(filepath.Join(dir, "capacity")); ok {
			snap.BatteryLevel = level
		}
		if charging, ok := readStatus(filepath.Join(dir, "status")); ok {
			snap.Charging = charging
		}
		break
	}
	return snap, nil
}

func readCapacity(path string) (float64, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pct, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || pct < 0 || pct > 100 {
		return 0, false
	}
	return float64(pct) / 100, true
}

func readStatus(path string) (charging, ok bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, false
	}
	switch strings.TrimSpace(string(raw)) {
	case "Charging", "Full":
		return true, true
	case "Discharging", "Not charging":
		return false, true
	}
	return false, false
}

// Guard bounds the latency of a wrapped provider. A probe that errors
// or fails to answer within the timeout yields the neutral snapshot, so
// a stuck device read can never stall a suggestion.
type Guard struct {
	Inner   Provider
	Timeout time.Duration
	Logger  *slog.Logger
}

func (g Guard) Snapshot(ctx context.Context) (model.ContextSnapshot, error) {
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		snap model.ContextSnapshot
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		snap, err := g.Inner.Snapshot(ctx)
		ch <- result{snap: snap, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			g.logger().Warn("context probe failed, assuming neutral", slog.Any("error", res.err))
			return model.NeutralContext(), nil
		}
		return res.snap, nil
	case <-ctx.Done():
		g.logger().Warn("context probe timed out, assuming neutral",
			slog.Duration("timeout", timeout))
		return model.NeutralContext(), nil
	}
}

func (g Guard) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}
