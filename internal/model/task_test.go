package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskDraftValidateSuccess(t *testing.T) {
	draft := TaskDraft{
		Title:    "Write weekly review",
		DueDate:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Priority: PriorityMedium,
	}
	if err := draft.Validate(); err != nil {
		t.Fatalf("expected valid draft, got error: %v", err)
	}
}

func TestTaskDraftValidateMissingFields(t *testing.T) {
	draft := TaskDraft{Priority: PriorityLow}
	if err := draft.Validate(); !errors.Is(err, ErrMissingTitle) {
		t.Fatalf("expected ErrMissingTitle, got: %v", err)
	}

	draft.Title = "Buy groceries"
	if err := draft.Validate(); !errors.Is(err, ErrMissingDueDate) {
		t.Fatalf("expected ErrMissingDueDate, got: %v", err)
	}

	draft.DueDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	draft.Priority = Priority("urgent")
	if err := draft.Validate(); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}
}

func TestPriorityIsValid(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if !p.IsValid() {
			t.Fatalf("expected valid priority: %q", p)
		}
	}
	if Priority("critical").IsValid() {
		t.Fatal("expected invalid priority")
	}
}

func TestTaskValidateSuccess(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Implement model validation",
		DueDate:   now.AddDate(0, 0, 1),
		Priority:  PriorityHigh,
		CreatedAt: now,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
	if task.Done() {
		t.Fatal("expected task not done")
	}
}

func TestTaskValidateBadRepeat(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Morning run",
		DueDate:   now,
		Priority:  PriorityLow,
		CreatedAt: now,
		Repeat:    RepeatRule{Kind: RepeatKind("biweekly")},
	}
	if err := task.Validate(); !errors.Is(err, ErrInvalidRepeatKind) {
		t.Fatalf("expected ErrInvalidRepeatKind, got: %v", err)
	}
}

func TestTaskDraftRoundTrip(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	at := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	task := Task{
		ID:       "task-2",
		Title:    "Quarterly report",
		Notes:    "include churn numbers",
		DueDate:  due,
		DueTime:  &at,
		Category: "work",
		Priority: PriorityHigh,
	}
	draft := task.Draft()
	if draft.Title != task.Title || draft.Category != "work" || draft.Priority != PriorityHigh {
		t.Fatalf("unexpected draft: %#v", draft)
	}
	if draft.DueTime == nil || !draft.DueTime.Equal(at) {
		t.Fatalf("expected due time preserved, got: %v", draft.DueTime)
	}
}
