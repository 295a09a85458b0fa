package scheduler

import (
	"errors"
	"testing"

	"github.com/vitalframe/physiokernel/event"
	"github.com/vitalframe/physiokernel/kerr"
)

func TestAdvanceDeliversInFireTimeOrder(t *testing.T) {
	m := NewTimeManager()
	if _, err := m.ScheduleEvent(5, &event.HeartRate{BeatsPerMinute: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ScheduleEvent(2, &event.HeartRate{BeatsPerMinute: 2}); err != nil {
		t.Fatal(err)
	}
	fired := m.Advance()
	if len(fired) != 1 {
		t.Fatalf("expected 1 event at first fire time, got %d", len(fired))
	}
	if m.SimTime() != 2 {
		t.Fatalf("expected sim_time=2, got %v", m.SimTime())
	}
	hr := fired[0].(*event.HeartRate)
	if hr.BeatsPerMinute != 2 {
		t.Fatalf("expected earliest-scheduled event to fire first, got %+v", hr)
	}
}

func TestAdvanceByDrainsEverythingDue(t *testing.T) {
	m := NewTimeManager()
	m.ScheduleEvent(1, &event.HeartRate{BeatsPerMinute: 1})
	m.ScheduleEvent(1, &event.HeartRate{BeatsPerMinute: 2})
	m.ScheduleEvent(10, &event.HeartRate{BeatsPerMinute: 3})
	fired := m.AdvanceBy(5)
	if len(fired) != 2 {
		t.Fatalf("expected 2 events due by t=5, got %d", len(fired))
	}
	if m.SimTime() != 5 {
		t.Fatalf("expected sim_time=5, got %v", m.SimTime())
	}
}

func TestEqualFireTimeDeliversInInsertionOrder(t *testing.T) {
	m := NewTimeManager()
	m.ScheduleEvent(1, &event.HeartRate{BeatsPerMinute: 1})
	m.ScheduleEvent(1, &event.HeartRate{BeatsPerMinute: 2})
	m.ScheduleEvent(1, &event.HeartRate{BeatsPerMinute: 3})
	fired := m.Advance()
	if len(fired) != 3 {
		t.Fatalf("expected 3 events, got %d", len(fired))
	}
	for i, want := range []float64{1, 2, 3} {
		if fired[i].(*event.HeartRate).BeatsPerMinute != want {
			t.Fatalf("index %d: expected bpm=%v, got %+v", i, want, fired[i])
		}
	}
}

func TestUnscheduleBeforeFireCancelsDelivery(t *testing.T) {
	m := NewTimeManager()
	id, _ := m.ScheduleEvent(1, &event.HeartRate{BeatsPerMinute: 1})
	if err := m.UnscheduleEvent(id); err != nil {
		t.Fatalf("unschedule before fire should succeed: %v", err)
	}
	fired := m.Advance()
	if len(fired) != 0 {
		t.Fatalf("expected cancelled event not to fire, got %d events", len(fired))
	}
}

func TestUnscheduleAfterFireReportsAlreadyFired(t *testing.T) {
	m := NewTimeManager()
	id, _ := m.ScheduleEvent(1, &event.HeartRate{BeatsPerMinute: 1})
	m.Advance()
	if err := m.UnscheduleEvent(id); !errors.Is(err, kerr.ErrAlreadyFired) {
		t.Fatalf("expected ErrAlreadyFired, got %v", err)
	}
}

func TestScheduleRejectsNegativeWait(t *testing.T) {
	m := NewTimeManager()
	if _, err := m.ScheduleEvent(-1, &event.HeartRate{}); !errors.Is(err, kerr.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestTransformersApplyInRegistrationOrder(t *testing.T) {
	m := NewTimeManager()
	var order []int
	m.RegisterTransformer(event.TypeOfT[event.HeartRate](), func(event.Event) { order = append(order, 1) })
	m.RegisterTransformer(event.TypeOfT[event.HeartRate](), func(event.Event) { order = append(order, 2) })
	m.ScheduleEvent(1, &event.HeartRate{BeatsPerMinute: 60})
	m.Advance()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected transformers in registration order, got %v", order)
	}
}

func TestTransformerMutatesEventBeforeDelivery(t *testing.T) {
	m := NewTimeManager()
	m.RegisterTransformer(event.TypeOfT[event.HeartRate](), func(e event.Event) {
		e.(*event.HeartRate).BeatsPerMinute += 10
	})
	m.ScheduleEvent(1, &event.HeartRate{BeatsPerMinute: 60})
	fired := m.Advance()
	if got := fired[0].(*event.HeartRate).BeatsPerMinute; got != 70 {
		t.Fatalf("expected transformer to mutate in place to 70, got %v", got)
	}
}

func TestNonTransientEventPersistsInState(t *testing.T) {
	m := NewTimeManager()
	m.ScheduleEvent(1, &event.HeartRate{BeatsPerMinute: 72})
	m.Advance()
	v, ok := m.State(event.TypeOfT[event.HeartRate]())
	if !ok {
		t.Fatal("expected HeartRate to persist as state")
	}
	if v.(*event.HeartRate).BeatsPerMinute != 72 {
		t.Fatalf("unexpected persisted state: %+v", v)
	}
}
