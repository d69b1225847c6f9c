package routing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// tableFile is the on-disk shape of a routing table file.
type tableFile struct {
	Boards []PortEntry `yaml:"boards"`
}

// LoadTable reads a YAML routing table into a memory table. Duplicate
// (chassis, slot) entries are a provisioning error and fail the load.
func LoadTable(path string) (*MemoryTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routing table: %w", err)
	}

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse routing table %s: %w", path, err)
	}

	table := NewMemoryTable()
	for _, entry := range file.Boards {
		if _, exists := table.Lookup(entry.Chassis, entry.Slot); exists {
			return nil, fmt.Errorf("routing table %s: duplicate board at chassis %d slot %s",
				path, entry.Chassis, entry.Slot)
		}
		table.Add(entry)
	}
	return table, nil
}
