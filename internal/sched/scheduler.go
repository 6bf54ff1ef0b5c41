// Package sched implements the tick-driven phase scheduler: a per-loop
// CORE phase, a CHUNK phase, a 50ms-gated TICK phase, a 1s-gated SECOND
// phase, and a serial POST-TICK phase that drains outbound events in
// deterministic order (spec §4.4).
package sched

import (
	"context"
	"time"
)

// System is one scheduler-registered unit of work. Systems never suspend;
// they run to completion within their phase.
type System func()

// Scheduler runs registered systems in the five named phases, at the
// cadence spec §4.4 assigns to each.
type Scheduler struct {
	core     []System
	chunk    []System
	tick     []System
	second   []System
	postTick []System

	tickInterval   time.Duration
	secondInterval time.Duration

	lastTick   time.Time
	lastSecond time.Time
}

// New returns a Scheduler with the given TICK and SECOND gate intervals
// (spec defaults: 50ms and 1000ms).
func New(tickInterval, secondInterval time.Duration) *Scheduler {
	return &Scheduler{tickInterval: tickInterval, secondInterval: secondInterval}
}

// AddCore registers systems that run every loop iteration, unconditionally.
func (s *Scheduler) AddCore(systems ...System) { s.core = append(s.core, systems...) }

// AddChunk registers systems that run every loop iteration, unconditionally.
func (s *Scheduler) AddChunk(systems ...System) { s.chunk = append(s.chunk, systems...) }

// AddTick registers systems gated on the TICK interval.
func (s *Scheduler) AddTick(systems ...System) { s.tick = append(s.tick, systems...) }

// AddSecond registers systems gated on the SECOND interval.
func (s *Scheduler) AddSecond(systems ...System) { s.second = append(s.second, systems...) }

// AddPostTick registers systems that run last, every iteration, serially.
func (s *Scheduler) AddPostTick(systems ...System) { s.postTick = append(s.postTick, systems...) }

// RunOnce executes exactly one loop iteration: CORE and CHUNK always run;
// TICK and SECOND run only once their interval has elapsed since their
// last run; POST-TICK always runs last.
func (s *Scheduler) RunOnce(now time.Time) {
	runAll(s.core)
	runAll(s.chunk)

	if s.lastTick.IsZero() || now.Sub(s.lastTick) >= s.tickInterval {
		runAll(s.tick)
		s.lastTick = now
	}
	if s.lastSecond.IsZero() || now.Sub(s.lastSecond) >= s.secondInterval {
		runAll(s.second)
		s.lastSecond = now
	}

	runAll(s.postTick)
}

func runAll(systems []System) {
	for _, sys := range systems {
		sys()
	}
}

// Run drives RunOnce forever, polling at pollInterval, until ctx is
// cancelled. A short poll interval keeps CORE/CHUNK responsive without
// busy-spinning the loop.
func (s *Scheduler) Run(ctx context.Context, pollInterval time.Duration) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.RunOnce(now)
		}
	}
}
