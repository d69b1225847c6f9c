package parts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the on-disk shape of a part catalog file.
type Catalog struct {
	Parts []string `yaml:"parts"`
}

// LoadCatalog reads a YAML part catalog and returns a populated registry.
// Every identifier in the file must parse; a single bad entry fails the load
// so a typo never silently drops a part.
func LoadCatalog(path string) (*MemoryRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read part catalog: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse part catalog %s: %w", path, err)
	}

	registry := NewMemoryRegistry()
	for _, id := range catalog.Parts {
		if err := registry.Add(id); err != nil {
			return nil, fmt.Errorf("part catalog %s: %w", path, err)
		}
	}
	return registry, nil
}
