package sched

import (
	"testing"
	"time"
)

func TestCoreAndChunkRunEveryIteration(t *testing.T) {
	s := New(50*time.Millisecond, time.Second)
	var coreRuns, chunkRuns int
	s.AddCore(func() { coreRuns++ })
	s.AddChunk(func() { chunkRuns++ })

	base := time.Unix(0, 0)
	s.RunOnce(base)
	s.RunOnce(base.Add(time.Millisecond))
	s.RunOnce(base.Add(2 * time.Millisecond))

	if coreRuns != 3 || chunkRuns != 3 {
		t.Fatalf("expected 3 runs each, got core=%d chunk=%d", coreRuns, chunkRuns)
	}
}

func TestTickGatedOn50ms(t *testing.T) {
	s := New(50*time.Millisecond, time.Second)
	var tickRuns int
	s.AddTick(func() { tickRuns++ })

	base := time.Unix(0, 0)
	s.RunOnce(base)                          // first run always fires
	s.RunOnce(base.Add(10 * time.Millisecond)) // too soon
	s.RunOnce(base.Add(40 * time.Millisecond)) // still too soon
	s.RunOnce(base.Add(60 * time.Millisecond)) // >= 50ms since last tick

	if tickRuns != 2 {
		t.Fatalf("expected 2 tick runs, got %d", tickRuns)
	}
}

func TestSecondGatedOn1000ms(t *testing.T) {
	s := New(50*time.Millisecond, time.Second)
	var secondRuns int
	s.AddSecond(func() { secondRuns++ })

	base := time.Unix(0, 0)
	s.RunOnce(base)
	s.RunOnce(base.Add(500 * time.Millisecond))
	s.RunOnce(base.Add(1100 * time.Millisecond))

	if secondRuns != 2 {
		t.Fatalf("expected 2 second runs, got %d", secondRuns)
	}
}

func TestPostTickRunsLastEveryIteration(t *testing.T) {
	s := New(50*time.Millisecond, time.Second)
	var order []string
	s.AddCore(func() { order = append(order, "core") })
	s.AddTick(func() { order = append(order, "tick") })
	s.AddPostTick(func() { order = append(order, "post") })

	s.RunOnce(time.Unix(0, 0))

	if len(order) != 3 || order[2] != "post" {
		t.Fatalf("expected post-tick last, got %v", order)
	}
}
