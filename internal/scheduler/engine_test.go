package scheduler

import (
	"errors"
	"testing"
	"time"
)

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(PlanEvent{ID: "later", Kind: KindDue, TriggerAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(PlanEvent{ID: "sooner", Kind: KindSuggested, TriggerAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.ID != "sooner" || second.ID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.ID, second.ID)
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	now := time.Now().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(PlanEvent{
			ID:        "evt",
			Kind:      KindDue,
			TriggerAt: now,
		}); err != nil {
			t.Fatalf("schedule event: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidatesEvents(t *testing.T) {
	engine := NewEngine(1)

	if err := engine.Schedule(PlanEvent{ID: "bad", Kind: KindDue}); !errors.Is(err, ErrInvalidTriggerTime) {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
	if err := engine.Schedule(PlanEvent{ID: "bad", Kind: "snooze", TriggerAt: time.Now()}); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestCancelTaskDropsPendingEvents(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	events := []PlanEvent{
		{ID: "r1", TaskID: "task-a", Kind: KindDue, TriggerAt: now.Add(40 * time.Millisecond)},
		{ID: "r2", TaskID: "task-a", Kind: KindSuggested, TriggerAt: now.Add(60 * time.Millisecond)},
		{ID: "keep", TaskID: "task-b", Kind: KindDue, TriggerAt: now.Add(50 * time.Millisecond)},
	}
	for _, ev := range events {
		if err := engine.Schedule(ev); err != nil {
			t.Fatalf("schedule %s: %v", ev.ID, err)
		}
	}

	if removed := engine.CancelTask("task-a"); removed != 2 {
		t.Fatalf("cancelled %d events, want 2", removed)
	}

	got := waitEvent(t, engine.C(), time.Second)
	if got.ID != "keep" {
		t.Fatalf("expected surviving event keep, got %s", got.ID)
	}

	select {
	case ev := <-engine.C():
		t.Fatalf("cancelled event fired: %+v", ev)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestCancelTaskUnknownTaskIsZero(t *testing.T) {
	engine := NewEngine(1)
	if removed := engine.CancelTask("nope"); removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
	if removed := engine.CancelTask(""); removed != 0 {
		t.Fatalf("removed = %d, want 0 for empty id", removed)
	}
}

func waitEvent(t *testing.T, ch <-chan PlanEvent, timeout time.Duration) PlanEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return PlanEvent{}
	}
}
