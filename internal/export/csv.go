package export

import (
	"encoding/csv"
	"fmt"
	"os"
)

// ToCSV writes the hourly and weekday completion counts to path. Every
// bucket is emitted, zero or not, so the output charts cleanly.
func ToCSV(snap Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Kind", "Bucket", "Count"}); err != nil {
		return err
	}

	for hour := 0; hour < 24; hour++ {
		row := []string{"hour", hourLabel(hour), fmt.Sprintf("%d", snap.Hourly[hour])}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	for day := 0; day < 7; day++ {
		row := []string{"weekday", weekdayLabel(day), fmt.Sprintf("%d", snap.Weekly[day])}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
