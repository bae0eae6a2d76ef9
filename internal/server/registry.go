package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/lazypower/atomspace/internal/engine"
	"github.com/lazypower/atomspace/internal/logger"
)

// DefaultSpaceID names the space that exists from server start.
const DefaultSpaceID = "default"

// EngineFactory builds the engine behind a newly created space.
type EngineFactory func() *engine.Engine

// Registry maps space ids to the engines that own them.
type Registry struct {
	mu      sync.RWMutex
	spaces  map[string]*engine.Engine
	factory EngineFactory
}

// NewRegistry creates a registry holding only the default space. A nil
// factory builds engines with default settings.
func NewRegistry(factory EngineFactory) *Registry {
	if factory == nil {
		factory = func() *engine.Engine {
			return engine.New(nil, engine.DefaultBridgeSettings())
		}
	}
	r := &Registry{
		spaces:  make(map[string]*engine.Engine),
		factory: factory,
	}
	r.spaces[DefaultSpaceID] = factory()
	return r
}

// Create makes a new empty space and returns its id.
func (r *Registry) Create() string {
	id := uuid.NewString()
	e := r.factory()

	r.mu.Lock()
	r.spaces[id] = e
	r.mu.Unlock()

	logger.Logger.Infow("space created", "space_id", id)
	return id
}

// Get returns the engine for id.
func (r *Registry) Get(id string) (*engine.Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.spaces[id]
	return e, ok
}

// Destroy stops the space's background work and releases its atoms.
// It reports whether id existed.
func (r *Registry) Destroy(id string) bool {
	r.mu.Lock()
	e, ok := r.spaces[id]
	delete(r.spaces, id)
	r.mu.Unlock()

	if !ok {
		return false
	}
	e.Close()
	logger.Logger.Infow("space destroyed", "space_id", id)
	return true
}

// IDs returns every registered space id.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.spaces))
	for id := range r.spaces {
		ids = append(ids, id)
	}
	return ids
}

// Close destroys every space.
func (r *Registry) Close() {
	for _, id := range r.IDs() {
		r.Destroy(id)
	}
}
