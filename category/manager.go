package category

import (
	"context"
	"fmt"
	"sync"

	"startime/backend"
	"startime/config"
)

// Backend is the part of the REST client the manager needs
type Backend interface {
	Categories(ctx context.Context, activeOnly bool) ([]backend.Category, error)
	UpdateCategory(ctx context.Context, c backend.Category) error
}

// LoadResult is the outcome of a load. Degraded means the built-in set is
// shown because the backend failed; Err carries that failure for a toast.
type LoadResult struct {
	Categories []backend.Category
	Degraded   bool
	Err        error
}

// SaveResult reports a save for the success/failure toast. The list is
// always the re-fetched one, never a locally patched copy.
type SaveResult struct {
	Saved    bool
	Err      error
	Reloaded LoadResult
}

// Manager lists and edits categories. The backend is the source of truth:
// every save is followed by a re-fetch.
type Manager struct {
	backend Backend

	mu         sync.RWMutex
	categories []backend.Category
	degraded   bool
}

func NewManager(b Backend) *Manager {
	return &Manager{backend: b}
}

// Load fetches categories, falling back to the built-in set on failure
func (m *Manager) Load(ctx context.Context) LoadResult {
	cats, err := m.backend.Categories(ctx, false)

	var result LoadResult
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Categories] load failed, using built-ins: %v", err)
		}
		result = LoadResult{Categories: Builtins(), Degraded: true, Err: err}
	} else {
		if cats == nil {
			cats = []backend.Category{}
		}
		result = LoadResult{Categories: cats}
	}

	m.mu.Lock()
	m.categories = result.Categories
	m.degraded = result.Degraded
	m.mu.Unlock()

	return result
}

// Save writes the full record and then reloads the list
func (m *Manager) Save(ctx context.Context, c backend.Category) SaveResult {
	if c.ID == "" {
		return SaveResult{Err: fmt.Errorf("category has no id"), Reloaded: m.current()}
	}

	if err := m.backend.UpdateCategory(ctx, c); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Categories] save %s failed: %v", c.ID, err)
		}
		return SaveResult{Err: err, Reloaded: m.Load(ctx)}
	}

	return SaveResult{Saved: true, Reloaded: m.Load(ctx)}
}

// Categories returns the last loaded list
func (m *Manager) Categories() []backend.Category {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]backend.Category, len(m.categories))
	copy(out, m.categories)
	return out
}

// Degraded reports whether the last load fell back to built-ins
func (m *Manager) Degraded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.degraded
}

func (m *Manager) current() LoadResult {
	return LoadResult{Categories: m.Categories(), Degraded: m.Degraded()}
}

// Find returns the category with the given id from the last load
func (m *Manager) Find(id backend.ID) (backend.Category, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.categories {
		if c.ID == id {
			return c, true
		}
	}
	return backend.Category{}, false
}

// Edit applies form values to a category, clamped to the input caps
func Edit(c backend.Category, title, description, prefix string, active bool) backend.Category {
	c.Title = Clamp(FieldTitle, title)
	c.Description = Clamp(FieldDescription, description)
	c.EventPrefix = Clamp(FieldPrefix, prefix)
	c.Active = active
	return c
}
