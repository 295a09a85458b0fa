package nervous

import (
	"testing"

	"github.com/vitalframe/physiokernel/event"
	"github.com/vitalframe/physiokernel/organism"
)

type testComponent struct {
	id   string
	conn *Connector
	init func(*Initializer)
}

func (c *testComponent) ID() string                    { return c.id }
func (c *testComponent) NervousInit(init *Initializer) { c.init(init) }
func (c *testComponent) NervousConnector() *Connector  { return c.conn }

func newTestComponent(id string, init func(*Initializer)) *testComponent {
	return &testComponent{id: id, conn: NewConnector(), init: init}
}

func TestSignalDeliveredToNotifiedComponent(t *testing.T) {
	l := NewLayer()
	c := newTestComponent("c1", func(init *Initializer) {
		NotifyOf[event.AcuteWound](init, "spinal")
	})
	l.AddComponent(c)

	l.ScheduleSignal(&NerveSignal{
		Path:     []organism.NerveID{"spinal"},
		SendTime: 0,
		Payload:  &event.AcuteWound{Kind: event.Puncture},
	})

	l.PreExec(0)
	if !l.CheckComponent(c) {
		t.Fatal("expected c to be triggered by the incoming signal")
	}
	l.PrepareComponent(c)
	if got := Incoming[event.AcuteWound](c.conn); len(got) != 1 {
		t.Fatalf("expected 1 signal delivered, got %d", len(got))
	}
}

func TestTransformerBlocksFurtherPropagation(t *testing.T) {
	l := NewLayer()
	upstream := newTestComponent("gate", func(init *Initializer) {})
	downstream := newTestComponent("receiver", func(init *Initializer) {
		NotifyOf[event.AcuteWound](init, "brain")
	})
	l.AddComponent(upstream)
	l.AddComponent(downstream)

	// Install a blocking transformer on the "spinal" hop via the gate's
	// Connector, the way a component would during its own run.
	AddTransform[event.AcuteWound](upstream.conn, "spinal", func(w *event.AcuteWound) bool { return false })
	l.ProcessComponent(upstream)

	l.ScheduleSignal(&NerveSignal{
		Path:     []organism.NerveID{"spinal", "brain"},
		SendTime: 0,
		Payload:  &event.AcuteWound{Kind: event.Puncture},
	})
	l.PreExec(0)

	if l.CheckComponent(downstream) {
		t.Fatal("expected the blocking transformer on 'spinal' to stop the signal before it reaches 'brain'")
	}
}

func TestMultiRecipientSignalStaysAvailableAfterFirstClaim(t *testing.T) {
	l := NewLayer()
	a := newTestComponent("a", func(init *Initializer) {
		NotifyOf[event.AcuteWound](init, "spinal")
	})
	b := newTestComponent("b", func(init *Initializer) {
		NotifyOf[event.AcuteWound](init, "spinal")
	})
	l.AddComponent(a)
	l.AddComponent(b)

	l.ScheduleSignal(&NerveSignal{
		Path:     []organism.NerveID{"spinal"},
		SendTime: 0,
		Payload:  &event.AcuteWound{Kind: event.Puncture},
	})
	l.PreExec(0)

	l.PrepareComponent(a)
	if len(Incoming[event.AcuteWound](a.conn)) != 1 {
		t.Fatal("expected a to receive the shared signal")
	}
	l.ProcessComponent(a)

	l.PrepareComponent(b)
	if len(Incoming[event.AcuteWound](b.conn)) != 1 {
		t.Fatal("expected b to also receive the same signal after a returned it to the pool")
	}
	l.ProcessComponent(b)
}

func TestRemoveTransformWithdrawsExactlyOne(t *testing.T) {
	l := NewLayer()
	c := newTestComponent("c1", func(init *Initializer) {
		NotifyOf[event.AcuteWound](init, "spinal")
	})
	other := newTestComponent("c2", func(init *Initializer) {})
	l.AddComponent(c)
	l.AddComponent(other)

	AddTransform[event.AcuteWound](c.conn, "spinal", func(w *event.AcuteWound) bool { return false })
	l.ProcessComponent(c)
	otherCalls := 0
	AddTransform[event.AcuteWound](other.conn, "spinal", func(w *event.AcuteWound) bool { otherCalls++; return true })
	l.ProcessComponent(other)

	c.conn.RemoveTransform("spinal", event.TypeOfT[event.AcuteWound]())
	l.ProcessComponent(c)

	// With c's blocking transformer withdrawn and other's pass-through one
	// still installed, a signal down the same path passes other's
	// transformer and reaches c.
	l.ScheduleSignal(&NerveSignal{
		Path:     []organism.NerveID{"spinal"},
		SendTime: 0,
		Payload:  &event.AcuteWound{Kind: event.Puncture},
	})
	l.PreExec(0)

	if !l.CheckComponent(c) {
		t.Fatal("expected the signal to reach c once its blocking transformer was withdrawn")
	}
	if otherCalls != 1 {
		t.Fatalf("expected the other component's transformer to remain installed and run once, ran %d times", otherCalls)
	}
}
