package data

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDedupGuard_MarkIsIdempotent(t *testing.T) {
	g := NewDedupGuard(10, time.Minute, nil)

	if g.HasHandled("a") {
		t.Fatal("fresh guard should not know a")
	}
	g.MarkHandled("a")
	g.MarkHandled("a")

	if !g.HasHandled("a") {
		t.Error("expected a to be handled")
	}
	if g.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", g.Len())
	}
	if g.TryMark("a") {
		t.Error("TryMark should report an existing id as not new")
	}
	if !g.TryMark("b") {
		t.Error("TryMark should report a new id as new")
	}
}

func TestDedupGuard_TrimKeepsMostRecent(t *testing.T) {
	const capacity = 100
	const extra = 25
	g := NewDedupGuard(capacity, time.Minute, nil)

	for i := 0; i < capacity+extra; i++ {
		g.MarkHandled(fmt.Sprintf("msg-%d", i))
	}
	// Marking again must not refresh the position
	g.MarkHandled("msg-0")

	if removed := g.Trim(); removed != extra {
		t.Errorf("expected %d removed, got %d", extra, removed)
	}
	if g.Len() != capacity {
		t.Fatalf("expected %d entries, got %d", capacity, g.Len())
	}
	for i := 0; i < extra; i++ {
		if g.HasHandled(fmt.Sprintf("msg-%d", i)) {
			t.Errorf("msg-%d should have been evicted", i)
		}
	}
	for i := extra; i < capacity+extra; i++ {
		if !g.HasHandled(fmt.Sprintf("msg-%d", i)) {
			t.Errorf("msg-%d should have been kept", i)
		}
	}

	if removed := g.Trim(); removed != 0 {
		t.Errorf("second trim should be a no-op, removed %d", removed)
	}
}

func TestDedupGuard_ConcurrentTryMark(t *testing.T) {
	g := NewDedupGuard(10, time.Minute, nil)

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryMark("same") {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("expected exactly one winner, got %d", wins)
	}
}

func TestDedupGuard_StartStop(t *testing.T) {
	g := NewDedupGuard(2, 10*time.Millisecond, nil)
	for i := 0; i < 5; i++ {
		g.MarkHandled(fmt.Sprintf("m%d", i))
	}

	ctx := context.Background()
	g.Start(ctx)
	g.Start(ctx) // no-op

	deadline := time.Now().Add(2 * time.Second)
	for g.Len() > 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if g.Len() != 2 {
		t.Errorf("expected background trim to 2 entries, got %d", g.Len())
	}

	g.Stop()
	g.Stop() // no-op
}

func TestDedupGuard_StopsOnContextCancel(t *testing.T) {
	g := NewDedupGuard(1, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	g.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		g.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after cancel")
	}
}

func TestNewDedupGuard_Defaults(t *testing.T) {
	g := NewDedupGuard(0, 0, nil)
	if g.capacity != DefaultDedupCapacity {
		t.Errorf("expected capacity %d, got %d", DefaultDedupCapacity, g.capacity)
	}
	if g.trimInterval != DefaultDedupTrimInterval {
		t.Errorf("expected interval %v, got %v", DefaultDedupTrimInterval, g.trimInterval)
	}
}
