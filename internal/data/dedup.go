package data

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultDedupCapacity is how many handled ids are kept after a trim
	DefaultDedupCapacity = 100
	// DefaultDedupTrimInterval is how often the trim sweep runs
	DefaultDedupTrimInterval = 60 * time.Second
)

// DedupGuard is a bounded, insertion-ordered set of handled message ids.
// It may grow past its capacity between sweeps; Trim evicts the oldest ids.
type DedupGuard struct {
	mu    sync.RWMutex
	index map[string]*list.Element
	order *list.List // front = oldest

	capacity     int
	trimInterval time.Duration
	log          *slog.Logger

	runMu   sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewDedupGuard creates a new dedup guard. Non-positive values fall back to
// the defaults.
func NewDedupGuard(capacity int, trimInterval time.Duration, logger *slog.Logger) *DedupGuard {
	if capacity <= 0 {
		capacity = DefaultDedupCapacity
	}
	if trimInterval <= 0 {
		trimInterval = DefaultDedupTrimInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DedupGuard{
		index:        make(map[string]*list.Element),
		order:        list.New(),
		capacity:     capacity,
		trimInterval: trimInterval,
		log:          logger.With("component", "dedup"),
	}
}

// HasHandled reports whether id has been marked and not yet evicted
func (g *DedupGuard) HasHandled(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.index[id]
	return ok
}

// MarkHandled marks id. Marking an id twice keeps its original position.
func (g *DedupGuard) MarkHandled(id string) {
	g.TryMark(id)
}

// TryMark marks id and reports whether it was new
func (g *DedupGuard) TryMark(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.index[id]; ok {
		return false
	}
	g.index[id] = g.order.PushBack(id)
	return true
}

// Len returns the number of ids currently held
func (g *DedupGuard) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.index)
}

// Trim evicts the oldest ids beyond capacity and returns how many were removed
func (g *DedupGuard) Trim() int {
	g.mu.RLock()
	over := len(g.index) - g.capacity
	g.mu.RUnlock()
	if over <= 0 {
		return 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	removed := 0
	for len(g.index) > g.capacity {
		front := g.order.Front()
		if front == nil {
			break
		}
		g.order.Remove(front)
		delete(g.index, front.Value.(string))
		removed++
	}
	return removed
}

// Start runs the periodic trim until Stop is called or ctx is canceled
func (g *DedupGuard) Start(ctx context.Context) {
	g.runMu.Lock()
	defer g.runMu.Unlock()
	if g.running {
		return
	}
	g.running = true
	g.stopCh = make(chan struct{})
	g.wg.Add(1)
	go g.loop(ctx, g.stopCh)
	g.log.Info("trim loop started", "interval", g.trimInterval, "capacity", g.capacity)
}

// Stop stops the trim loop and waits for it to exit
func (g *DedupGuard) Stop() {
	g.runMu.Lock()
	if !g.running {
		g.runMu.Unlock()
		return
	}
	g.running = false
	close(g.stopCh)
	g.runMu.Unlock()

	g.wg.Wait()
	g.log.Info("trim loop stopped")
}

func (g *DedupGuard) loop(ctx context.Context, stopCh <-chan struct{}) {
	defer g.wg.Done()

	ticker := time.NewTicker(g.trimInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := g.Trim(); n > 0 {
				g.log.Debug("trimmed handled ids", "removed", n, "remaining", g.Len())
			}
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}
