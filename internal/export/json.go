// Package export writes planning history to JSON and CSV files.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/Chepman32/Brio-sub001/internal/model"
)

// Snapshot is the exportable slice of the completion history.
type Snapshot struct {
	Stats        model.CompletionStats
	Hourly       model.HourlyPattern
	Weekly       model.WeeklyPattern
	Achievements []model.AchievementState
}

type jsonExport struct {
	ExportedAt   string            `json:"exported_at"`
	Stats        jsonStats         `json:"stats"`
	Hourly       []jsonBucket      `json:"hourly"`
	Weekly       []jsonBucket      `json:"weekly"`
	Achievements []jsonAchievement `json:"achievements"`
}

type jsonStats struct {
	TotalCompleted    int    `json:"total_completed"`
	CurrentStreak     int    `json:"current_streak"`
	LongestStreak     int    `json:"longest_streak"`
	LastCompletionDay string `json:"last_completion_day,omitempty"`
}

type jsonBucket struct {
	Bucket int    `json:"bucket"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

type jsonAchievement struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Progress   float64 `json:"progress"`
	Unlocked   bool    `json:"unlocked"`
	UnlockedAt string  `json:"unlocked_at,omitempty"`
}

// ToJSON writes snap to path as indented JSON. names maps achievement
// IDs to display names; unknown IDs fall back to "Unknown".
func ToJSON(snap Snapshot, names map[string]string, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Stats: jsonStats{
			TotalCompleted: snap.Stats.TotalCompleted,
			CurrentStreak:  snap.Stats.CurrentStreak,
			LongestStreak:  snap.Stats.LongestStreak,
		},
		Hourly: bucketsOf(snap.Hourly, hourLabel),
		Weekly: bucketsOf(snap.Weekly, weekdayLabel),
	}
	if !snap.Stats.LastCompletionDay.IsZero() {
		out.Stats.LastCompletionDay = snap.Stats.LastCompletionDay.Format("2006-01-02")
	}

	for _, a := range snap.Achievements {
		entry := jsonAchievement{
			ID:       a.ID,
			Name:     achievementName(names, a.ID),
			Progress: a.Progress,
			Unlocked: a.Unlocked,
		}
		if a.UnlockedAt != nil {
			entry.UnlockedAt = a.UnlockedAt.Local().Format(time.RFC3339)
		}
		out.Achievements = append(out.Achievements, entry)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

func bucketsOf(counts map[int]int, label func(int) string) []jsonBucket {
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]jsonBucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, jsonBucket{Bucket: k, Label: label(k), Count: counts[k]})
	}
	return out
}

func achievementName(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return "Unknown"
}

func hourLabel(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

func weekdayLabel(d int) string {
	return time.Weekday(d).String()
}
