package organism

import "testing"

const sampleYAML = `
name: test-organism
vessels: [Aorta, VenaCava, Capillary]
vessel_edges:
  - from: Aorta
    to: Capillary
    outgoing_pct: 1.0
    incoming_pct: 1.0
    hop_latency_seconds: 2.0
  - from: Capillary
    to: VenaCava
    outgoing_pct: 1.0
    incoming_pct: 1.0
    hop_latency_seconds: 2.0
pre_capillary: [Aorta]
post_capillary: [VenaCava]
max_arterial_depth: 2
max_venous_depth: 2
max_cycle: 1
nerves: [Vagus, Spinal]
nerve_edges:
  - from: Vagus
    to: Spinal
default_digestion_duration_seconds: 60
elimination_delay_seconds: 0
`

func TestParseDefinition(t *testing.T) {
	def, err := ParseDefinition([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}
	if !def.HasVessel("Aorta") || !def.HasVessel("VenaCava") {
		t.Fatal("expected declared vessels to be present")
	}
	if def.HasVessel("Nope") {
		t.Fatal("unexpected vessel found")
	}
	edges := def.DownstreamEdges("Aorta")
	if len(edges) != 1 || edges[0].To != "Capillary" {
		t.Fatalf("unexpected downstream edges: %+v", edges)
	}
	if !def.HasNerve("Vagus") {
		t.Fatal("expected Vagus nerve")
	}
	down := def.Downlinks("Vagus")
	if len(down) != 1 || down[0] != "Spinal" {
		t.Fatalf("unexpected downlinks: %+v", down)
	}
}

func TestParseDefinitionInvalidBridge(t *testing.T) {
	bad := `
name: bad
vessels: [Aorta]
vessel_edges:
  - from: Aorta
    to: Nowhere
    outgoing_pct: 1.0
    incoming_pct: 1.0
    hop_latency_seconds: 1.0
`
	if _, err := ParseDefinition([]byte(bad)); err == nil {
		t.Fatal("expected ErrInvalidBridge for undefined vessel reference")
	}
}
