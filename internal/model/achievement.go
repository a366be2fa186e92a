package model

import "time"

// AchievementState is the persisted slice of one achievement: how far
// along it is and whether it has been unlocked. Unlocks are permanent;
// UnlockedAt is set exactly once.
type AchievementState struct {
	ID         string
	Progress   float64
	Unlocked   bool
	UnlockedAt *time.Time
}
