package component

import "testing"

func TestNewBaseComponentStartsActive(t *testing.T) {
	bc := NewBaseComponent("c1")
	if bc.ID() != "c1" {
		t.Errorf("expected id c1, got %s", bc.ID())
	}
	if !bc.IsActive() {
		t.Error("expected a freshly created component to be active")
	}
}

func TestStopThenStartRoundTrips(t *testing.T) {
	bc := NewBaseComponent("c1")
	if err := bc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if bc.IsActive() {
		t.Error("expected component to be stopped")
	}
	if err := bc.Stop(); err == nil {
		t.Error("expected an error stopping an already-stopped component")
	}
	if err := bc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !bc.IsActive() {
		t.Error("expected component to be active again")
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	bc := NewBaseComponent("c1")
	bc.SetMetadata("location", "left-ventricle")

	got := bc.Metadata()
	if got["location"] != "left-ventricle" {
		t.Fatalf("expected metadata to round-trip, got %v", got)
	}

	got["location"] = "mutated"
	if bc.Metadata()["location"] != "left-ventricle" {
		t.Fatal("expected Metadata() to return a defensive copy")
	}
}

type coreOnly struct {
	id string
}

func (c *coreOnly) ID() string { return c.id }
func (c *coreOnly) Run()       {}

func TestWrapWithoutLayerCapabilitiesIsInert(t *testing.T) {
	w := Wrap(&coreOnly{id: "c1"})
	if w.HasCore() || w.HasCirculation() || w.HasDigestion() || w.HasNervous() {
		t.Fatal("expected a component implementing none of the four layer interfaces to report no capabilities")
	}
	if w.ID() != "c1" {
		t.Fatalf("expected wrapper ID to delegate to the underlying component, got %s", w.ID())
	}
}
