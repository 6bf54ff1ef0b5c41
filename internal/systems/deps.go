// Package systems implements the connection-lifecycle and gameplay
// systems that the scheduler runs each phase (spec §4.5, §4.6): accept,
// login, initializing, event-emit, send-packets, remove-invalid-players,
// and the TICK/SECOND/CHUNK gameplay systems.
package systems

import (
	"log/slog"

	"github.com/open-betalpha/server/internal/ecs"
	"github.com/open-betalpha/server/internal/events"
	"github.com/open-betalpha/server/internal/netio"
	"github.com/open-betalpha/server/internal/world"
)

// Deps bundles the shared state every system closure needs.
type Deps struct {
	World    *ecs.World
	Bus      *events.Bus
	Game     *world.World
	Listener *netio.Listener
	Log      *slog.Logger

	// RenderDistanceRadius is the half-width, in chunks, of the square
	// window loaded around each player (scenario S2's default of 4).
	RenderDistanceRadius int32
}

func playingEntities(w *ecs.World) []ecs.Entity {
	var out []ecs.Entity
	for e, tag := range ecs.Query[ecs.StateTag](w) {
		if tag.State == ecs.StatePlaying {
			out = append(out, e)
		}
	}
	return out
}

func setState(w *ecs.World, e ecs.Entity, state ecs.ConnState, reason string) {
	ecs.Insert(w, e, ecs.StateTag{State: state, Reason: reason})
}
