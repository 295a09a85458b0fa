package sim

import (
	"testing"

	"github.com/vitalframe/physiokernel/component"
	"github.com/vitalframe/physiokernel/event"
	"github.com/vitalframe/physiokernel/layer/core"
	"github.com/vitalframe/physiokernel/organism"
)

type heartComponent struct {
	id   string
	conn *core.Connector
}

func (c *heartComponent) ID() string { return c.id }
func (c *heartComponent) Run()       {}
func (c *heartComponent) CoreInit(init *core.Initializer) {
	core.Notify[event.HeartRate](init)
}
func (c *heartComponent) CoreConnector() *core.Connector { return c.conn }

func newHeartComponent(id string) *heartComponent {
	return &heartComponent{id: id, conn: core.NewConnector()}
}

func emptyDefinition() *organism.Definition {
	def := &organism.Definition{Name: "empty"}
	if err := def.Validate(); err != nil {
		panic(err)
	}
	return def
}

func TestNewAttachesRegisteredDefaults(t *testing.T) {
	factoryID := SetDefault(func() component.Component { return newHeartComponent("default-heart") })
	defer RemoveDefault(factoryID)

	s, err := New(emptyDefinition())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !s.HasComponent("default-heart") {
		t.Fatal("expected the registered default factory's component to be attached")
	}
}

func TestRemoveDefaultStopsFutureAttachment(t *testing.T) {
	factoryID := SetDefault(func() component.Component { return newHeartComponent("temp-default") })
	if err := RemoveDefault(factoryID); err != nil {
		t.Fatalf("RemoveDefault: %v", err)
	}

	s, err := New(emptyDefinition())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.HasComponent("temp-default") {
		t.Fatal("expected the withdrawn default factory not to attach its component")
	}
}

func TestScheduleEventAndAdvance(t *testing.T) {
	s, err := New(emptyDefinition())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.ScheduleEvent(5, &event.HeartRate{BeatsPerMinute: 72}); err != nil {
		t.Fatalf("ScheduleEvent: %v", err)
	}

	fired := s.Advance()
	if len(fired) != 1 {
		t.Fatalf("expected 1 event to fire, got %d", len(fired))
	}
	if s.Time() != 5 {
		t.Fatalf("expected sim time 5, got %v", s.Time())
	}
}

func TestAddAndRemoveComponent(t *testing.T) {
	s, err := New(emptyDefinition())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c := newHeartComponent("c1")
	if err := s.AddComponent(c); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	if !s.HasComponent("c1") {
		t.Fatal("expected c1 to be attached")
	}
	if _, err := s.RemoveComponent("c1"); err != nil {
		t.Fatalf("RemoveComponent: %v", err)
	}
	if s.HasComponent("c1") {
		t.Fatal("expected c1 to be detached")
	}
}

func TestStateReflectsNonTransientEvent(t *testing.T) {
	s, err := New(emptyDefinition())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	hr := &event.HeartRate{BeatsPerMinute: 80}
	s.ScheduleEvent(1, hr)
	s.Advance()

	got, ok := s.State(event.TypeOfT[event.HeartRate]())
	if !ok {
		t.Fatal("expected HeartRate to persist as queryable state")
	}
	if got.(*event.HeartRate).BeatsPerMinute != 80 {
		t.Fatalf("expected persisted state to reflect the fired value, got %+v", got)
	}
}
