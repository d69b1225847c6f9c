package routing

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	entry := PortEntry{
		Chassis:   1,
		Slot:      "A",
		Serial:    "SNP-0042",
		MAC:       "02:00:00:00:10:05",
		IP:        "10.80.1.5",
		RoutingID: 3,
	}

	resolved := entry.Resolve(5)
	if resolved.RoutingIndex != 3*PortsPerBoard+5 {
		t.Errorf("routing index = %d, want %d", resolved.RoutingIndex, 3*PortsPerBoard+5)
	}
	if resolved.ADCInput != "ADC1.1" {
		t.Errorf("ADC input = %q, want ADC1.1", resolved.ADCInput)
	}
	if resolved.Port != 5 {
		t.Errorf("port = %d, want 5", resolved.Port)
	}

	// Port 0 of routing id 0 is the origin of the index space.
	zero := PortEntry{RoutingID: 0}.Resolve(0)
	if zero.RoutingIndex != 0 || zero.ADCInput != "ADC0.0" {
		t.Errorf("zero port resolved to %+v", zero)
	}
}

func TestMemoryTableLookup(t *testing.T) {
	table := NewMemoryTable()
	table.Add(PortEntry{Chassis: 1, Slot: "A", RoutingID: 7})

	entry, ok := table.Lookup(1, "A")
	if !ok {
		t.Fatal("board not found")
	}
	if entry.RoutingID != 7 {
		t.Errorf("routing id = %d, want 7", entry.RoutingID)
	}
	if _, ok := table.Lookup(2, "A"); ok {
		t.Error("lookup found a board in an empty chassis")
	}
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routing.yaml")
	content := `
boards:
  - chassis: 1
    slot: A
    serial: SNP-0042
    mac: "02:00:00:00:10:05"
    ip: 10.80.1.5
    routingId: 3
  - chassis: 1
    slot: B
    serial: SNP-0043
    mac: "02:00:00:00:10:06"
    ip: 10.80.1.6
    routingId: 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable failed: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("loaded %d boards, want 2", table.Len())
	}
	entry, ok := table.Lookup(1, "B")
	if !ok || entry.Serial != "SNP-0043" {
		t.Errorf("chassis 1 slot B = (%+v, %v)", entry, ok)
	}
}

func TestLoadTableRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routing.yaml")
	content := `
boards:
  - {chassis: 1, slot: A, routingId: 1}
  - {chassis: 1, slot: A, routingId: 2}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTable(path); err == nil {
		t.Fatal("duplicate slot accepted")
	}
}
