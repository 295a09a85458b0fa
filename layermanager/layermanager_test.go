package layermanager

import (
	"testing"

	"github.com/vitalframe/physiokernel/connector"
	"github.com/vitalframe/physiokernel/layer/circulation"
	"github.com/vitalframe/physiokernel/layer/core"
	"github.com/vitalframe/physiokernel/organism"
)

// coreOnlyComponent participates only in the core layer, used to exercise
// Manager without needing a vessel/nerve graph.
type coreOnlyComponent struct {
	id      string
	conn    *core.Connector
	runs    int
	onInit  func(*core.Initializer)
}

func (c *coreOnlyComponent) ID() string                { return c.id }
func (c *coreOnlyComponent) Run()                      { c.runs++ }
func (c *coreOnlyComponent) CoreInit(init *core.Initializer) {
	if c.onInit != nil {
		c.onInit(init)
	}
}
func (c *coreOnlyComponent) CoreConnector() *core.Connector { return c.conn }

func newCoreOnlyComponent(id string) *coreOnlyComponent {
	return &coreOnlyComponent{id: id, conn: core.NewConnector()}
}

func emptyDefinition() *organism.Definition {
	def := &organism.Definition{Name: "empty"}
	if err := def.Validate(); err != nil {
		panic(err)
	}
	return def
}

func TestAddComponentRejectsDuplicateID(t *testing.T) {
	m := New(emptyDefinition())
	conn := connector.New()

	c1 := newCoreOnlyComponent("c1")
	if _, err := m.AddComponent(conn, c1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.AddComponent(conn, newCoreOnlyComponent("c1")); err == nil {
		t.Fatal("expected an error for a duplicate component id")
	}
}

func TestFirstTickRunsEveryComponent(t *testing.T) {
	m := New(emptyDefinition())
	conn := connector.New()

	c1 := newCoreOnlyComponent("c1")
	c2 := newCoreOnlyComponent("c2")
	m.AddComponent(conn, c1)
	m.AddComponent(conn, c2)

	m.Update(conn)

	if c1.runs != 1 || c2.runs != 1 {
		t.Fatalf("expected both components to run on the first tick, got c1=%d c2=%d", c1.runs, c2.runs)
	}
}

func TestSubsequentTickOnlyRunsTriggeredComponents(t *testing.T) {
	m := New(emptyDefinition())
	conn := connector.New()

	c1 := newCoreOnlyComponent("c1")
	m.AddComponent(conn, c1)
	m.Update(conn) // consume the first-tick trigger

	m.Update(conn)
	if c1.runs != 1 {
		t.Fatalf("expected c1 not to run again without a notified event, got runs=%d", c1.runs)
	}
}

// circComponent participates in both core and circulation, used to exercise
// WithoutLayers' rejection path.
type circComponent struct {
	*coreOnlyComponent
	circConn *circulation.Connector
}

func (c *circComponent) CirculationInit(*circulation.Initializer)        {}
func (c *circComponent) CirculationConnector() *circulation.Connector    { return c.circConn }

func newCircComponent(id string) *circComponent {
	return &circComponent{coreOnlyComponent: newCoreOnlyComponent(id), circConn: &circulation.Connector{}}
}

func TestWithoutLayersRejectsUnsupportedComponent(t *testing.T) {
	m := New(emptyDefinition(), WithoutLayers(Circulation))
	conn := connector.New()

	if _, err := m.AddComponent(conn, newCoreOnlyComponent("fine")); err != nil {
		t.Fatalf("a core-only component should still be accepted: %v", err)
	}
	if _, err := m.AddComponent(conn, newCircComponent("needs-circulation")); err == nil {
		t.Fatal("expected an error attaching a circulation component to a Manager without the circulation layer")
	}
}

func TestRemoveComponentUnknownID(t *testing.T) {
	m := New(emptyDefinition())
	conn := connector.New()
	if _, err := m.RemoveComponent(conn, "ghost"); err == nil {
		t.Fatal("expected an error removing an id that was never added")
	}
}

func TestParallelModeRunsEveryTriggeredComponent(t *testing.T) {
	m := New(emptyDefinition(), Parallel())
	conn := connector.New()

	components := make([]*coreOnlyComponent, 0, 5)
	for i := 0; i < 5; i++ {
		c := newCoreOnlyComponent(string(rune('a' + i)))
		components = append(components, c)
		m.AddComponent(conn, c)
	}

	m.Update(conn)

	for _, c := range components {
		if c.runs != 1 {
			t.Fatalf("expected component %s to run exactly once, got %d", c.id, c.runs)
		}
	}
}
