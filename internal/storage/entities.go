package storage

import "time"

// Task is the persisted row shape. Enum-like fields travel as plain
// strings here; the commands and update layers convert to and from the
// model types.
type Task struct {
	ID          string
	Title       string
	Notes       string
	DueDate     time.Time
	DueTime     *time.Time
	Category    string
	Priority    string
	RepeatKind  string
	RepeatDays  []int
	ReminderAt  *time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type TaskListFilter struct {
	Done      *bool
	Category  string
	Priority  string
	DueBefore *time.Time
	Limit     int
	Offset    int
}
