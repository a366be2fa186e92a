package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrMissingTitle    = errors.New("model: task title is required")
	ErrMissingDueDate  = errors.New("model: task due date is required")
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// TaskDraft is the planner's input: a task being created or edited,
// not yet persisted.
type TaskDraft struct {
	Title    string
	Notes    string
	DueDate  time.Time
	DueTime  *time.Time
	Category string
	Priority Priority
}

func (d TaskDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrMissingTitle
	}
	if d.DueDate.IsZero() {
		return ErrMissingDueDate
	}
	if !d.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, d.Priority)
	}
	return nil
}

type Task struct {
	ID          string
	Title       string
	Notes       string
	DueDate     time.Time
	DueTime     *time.Time
	Category    string
	Priority    Priority
	Repeat      RepeatRule
	ReminderAt  *time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func (t Task) Done() bool {
	return t.CompletedAt != nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrMissingTitle
	}
	if t.DueDate.IsZero() {
		return ErrMissingDueDate
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if err := t.Repeat.Validate(); err != nil {
		return err
	}
	return nil
}

// Draft returns the planner input for an existing task, used when
// re-planning after an edit.
func (t Task) Draft() TaskDraft {
	return TaskDraft{
		Title:    t.Title,
		Notes:    t.Notes,
		DueDate:  t.DueDate,
		DueTime:  t.DueTime,
		Category: t.Category,
		Priority: t.Priority,
	}
}
