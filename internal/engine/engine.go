package engine

import (
	"sync"
	"time"

	"github.com/lazypower/atomspace/internal/logger"
	"github.com/lazypower/atomspace/internal/store"
)

// Engine owns one AtomSpace and the background work done on it: the
// numeric-state bridge and periodic consolidation.
type Engine struct {
	Space  *store.AtomSpace
	Bridge BridgeSettings

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates an Engine around space. A nil space gets a fresh one.
func New(space *store.AtomSpace, bridge BridgeSettings) *Engine {
	if space == nil {
		space = store.New()
	}
	return &Engine{
		Space:  space,
		Bridge: bridge.withDefaults(),
		stopCh: make(chan struct{}),
	}
}

// Consolidate runs one consolidation pass and logs the outcome.
func (e *Engine) Consolidate(threshold float64) (int, error) {
	merged, err := e.Space.Consolidate(threshold)
	if err != nil {
		return 0, err
	}
	if merged > 0 {
		logger.Logger.Infow("consolidation merged atoms", "merged", merged, "threshold", threshold)
	}
	return merged, nil
}

// StartConsolidationTimer consolidates the space every interval until Stop.
// A non-positive interval disables it.
func (e *Engine) StartConsolidationTimer(interval time.Duration, threshold float64) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := e.Consolidate(threshold); err != nil {
					logger.Logger.Errorw("consolidation failed", "error", err)
				}
			case <-e.stopCh:
				return
			}
		}
	}()
}

// Stop shuts down the engine's background goroutines. It is safe to call
// more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
}

// Close stops the engine and releases every atom in its space.
func (e *Engine) Close() {
	e.Stop()
	e.Space.Close()
}
