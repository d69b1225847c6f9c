package routing

import (
	"fmt"
	"sync"
)

// PortsPerBoard is the number of signal inputs on one digitizer board. The
// routing index space is contiguous across boards in routing-id order.
const PortsPerBoard = 12

// adcInputsPerChip is the fan-in of each ADC chip on the board.
const adcInputsPerChip = 4

// PortEntry describes one digitizer board, keyed by its physical (chassis,
// slot) position. Reference data owned by the network provisioning system.
type PortEntry struct {
	Chassis   int    `yaml:"chassis" json:"chassis"`
	Slot      string `yaml:"slot" json:"slot"`
	Serial    string `yaml:"serial" json:"serial"`
	MAC       string `yaml:"mac" json:"mac"`
	IP        string `yaml:"ip" json:"ip"`
	RoutingID int    `yaml:"routingId" json:"routingId"`
}

// ResolvedPort is a board entry narrowed to a single input port, with the
// derived routing quantities downstream packet handling needs.
type ResolvedPort struct {
	PortEntry
	Port         int    `json:"port"`
	RoutingIndex int    `json:"routingIndex"`
	ADCInput     string `json:"adcInput"`
}

// Resolve narrows the entry to one port.
func (e PortEntry) Resolve(port int) ResolvedPort {
	return ResolvedPort{
		PortEntry:    e,
		Port:         port,
		RoutingIndex: e.RoutingID*PortsPerBoard + port,
		ADCInput:     fmt.Sprintf("ADC%d.%d", port/adcInputsPerChip, port%adcInputsPerChip),
	}
}

type slotKey struct {
	chassis int
	slot    string
}

// Table is the port routing catalog. Read-only to the engine.
type Table interface {
	Lookup(chassis int, slot string) (PortEntry, bool)
}

// MemoryTable is a map-backed Table.
type MemoryTable struct {
	mu      sync.RWMutex
	entries map[slotKey]PortEntry
}

func NewMemoryTable() *MemoryTable {
	return &MemoryTable{entries: make(map[slotKey]PortEntry)}
}

// Add registers a board entry, replacing any previous entry for the slot.
func (t *MemoryTable) Add(entry PortEntry) {
	t.mu.Lock()
	t.entries[slotKey{entry.Chassis, entry.Slot}] = entry
	t.mu.Unlock()
}

func (t *MemoryTable) Lookup(chassis int, slot string) (PortEntry, bool) {
	t.mu.RLock()
	entry, ok := t.entries[slotKey{chassis, slot}]
	t.mu.RUnlock()
	return entry, ok
}

// Len returns the number of registered boards.
func (t *MemoryTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
