package substance

import (
	"errors"
	"math"
	"testing"

	"github.com/vitalframe/physiokernel/boundfn"
	"github.com/vitalframe/physiokernel/kerr"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// TestShapeCorrectness mirrors spec.md §8 scenario 1.
func TestShapeCorrectness(t *testing.T) {
	s := NewStore()
	if _, err := s.ScheduleCustomChange(GLC, 1.0, 0, 1.0, boundfn.Linear); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	samples := []struct {
		at, want float64
	}{
		{0.0, 0.0},
		{0.25, 0.25},
		{0.5, 0.5},
		{0.75, 0.75},
		{1.0, 1.0},
		{1.5, 1.0},
	}
	for _, sample := range samples {
		s.Advance(sample.at)
		got := s.ConcentrationOf(GLC)
		if !approxEqual(got, sample.want, 1e-2) {
			t.Errorf("at t=%v: got %v want %v", sample.at, got, sample.want)
		}
	}
}

func TestScheduleRejectsBadDuration(t *testing.T) {
	s := NewStore()
	if _, err := s.ScheduleCustomChange(GLC, 1, 0, 0, boundfn.Linear); err == nil {
		t.Fatal("expected ErrInvalidDuration")
	} else if !errors.Is(err, kerr.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestScheduleRejectsPastTime(t *testing.T) {
	s := NewStore()
	s.Advance(10)
	if _, err := s.ScheduleCustomChange(GLC, 1, 5, 1, boundfn.Linear); err == nil {
		t.Fatal("expected ErrPastTime")
	} else if !errors.Is(err, kerr.ErrPastTime) {
		t.Fatalf("expected ErrPastTime, got %v", err)
	}
}

// TestSigmoidCompletion mirrors spec.md §8's sigmoid completion property.
func TestSigmoidCompletion(t *testing.T) {
	s := NewStore()
	if _, err := s.ScheduleCustomChange(GLC, 2.0, 0, 4.0, boundfn.Sigmoid); err != nil {
		t.Fatal(err)
	}
	s.Advance(4.0)
	got := s.ConcentrationOf(GLC)
	if !approxEqual(got, 2.0, 1e-6+1e-2) {
		t.Errorf("expected baseline+amount ~= 2.0, got %v", got)
	}
}

func TestUnscheduleChange(t *testing.T) {
	s := NewStore()
	id, err := s.ScheduleCustomChange(GLC, 5.0, 0, 10.0, boundfn.Linear)
	if err != nil {
		t.Fatal(err)
	}
	s.Advance(1.0)
	if got := s.ConcentrationOf(GLC); got <= 0 {
		t.Fatalf("expected nonzero partial contribution, got %v", got)
	}

	change, ok := s.UnscheduleChange(GLC, id)
	if !ok {
		t.Fatal("expected unschedule to find the change")
	}
	if change.Amount != 5.0 {
		t.Fatalf("unexpected returned change: %+v", change)
	}
	if got := s.ConcentrationOf(GLC); got != 0 {
		t.Fatalf("expected concentration to drop to 0 after unschedule, got %v", got)
	}

	// Advancing past the original end time must not double-apply the
	// change to baseline since it was already removed.
	s.Advance(20.0)
	if got := s.ConcentrationOf(GLC); got != 0 {
		t.Fatalf("expected baseline unaffected by unscheduled change, got %v", got)
	}

	if _, ok := s.UnscheduleChange(GLC, id); ok {
		t.Fatal("expected second unschedule to report not-found")
	}
}

func TestDrainNewChangesAtMostOnce(t *testing.T) {
	s := NewStore()
	if _, err := s.ScheduleCustomChange(GLC, 1, 0, 1, boundfn.Linear); err != nil {
		t.Fatal(err)
	}
	if !s.HasNewChanges() {
		t.Fatal("expected new changes to be pending")
	}
	drained := s.DrainNewChanges()
	if len(drained) != 1 {
		t.Fatalf("expected 1 drained change, got %d", len(drained))
	}
	if s.HasNewChanges() {
		t.Fatal("expected no new changes after drain")
	}
	if drained2 := s.DrainNewChanges(); len(drained2) != 0 {
		t.Fatal("expected second drain to be empty")
	}
}
