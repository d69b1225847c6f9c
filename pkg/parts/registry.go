package parts

import (
	"context"
	"sync"
)

// Registry is the authoritative part catalog. The engine only reads it; part
// issuance and retirement happen elsewhere.
type Registry interface {
	// Lookup resolves a part identifier. The boolean is false when the
	// identifier is not in the catalog; the error is reserved for
	// infrastructure failures.
	Lookup(ctx context.Context, id string) (Part, bool, error)
}

// MemoryRegistry is a map-backed Registry. It is the test double and the
// backing store for catalogs loaded from file.
type MemoryRegistry struct {
	mu    sync.RWMutex
	parts map[string]Part
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{parts: make(map[string]Part)}
}

// Add registers a part by its canonical identifier. The identifier must
// parse; Add is how catalogs enforce the grammar at load time.
func (r *MemoryRegistry) Add(id string) error {
	part, err := ParseID(id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.parts[id] = part
	r.mu.Unlock()
	return nil
}

func (r *MemoryRegistry) Lookup(ctx context.Context, id string) (Part, bool, error) {
	r.mu.RLock()
	part, ok := r.parts[id]
	r.mu.RUnlock()
	return part, ok, nil
}

// Len returns the number of registered parts.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.parts)
}
