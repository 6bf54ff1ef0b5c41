package systems

import (
	"io"
	"log/slog"
	"testing"

	"github.com/open-betalpha/server/internal/ecs"
	"github.com/open-betalpha/server/internal/events"
)

func testDeps(t *testing.T) *Deps {
	t.Helper()
	return &Deps{
		World:                ecs.NewWorld(),
		Bus:                  events.NewBus(),
		Log:                  slog.New(slog.NewTextHandler(io.Discard, nil)),
		RenderDistanceRadius: 4,
	}
}

func TestPackAngleRoundTrip(t *testing.T) {
	if got := packAngle(0); got != 0 {
		t.Fatalf("packAngle(0) = %d, want 0", got)
	}
	// 90 degrees -> round(90/360*255) = round(63.75) = 64
	if got := packAngle(90); got != 64 {
		t.Fatalf("packAngle(90) = %d, want 64", got)
	}
	// -90 degrees -> -64
	if got := packAngle(-90); got != -64 {
		t.Fatalf("packAngle(-90) = %d, want -64", got)
	}
}

func TestScale32AndMaxAbs32(t *testing.T) {
	if got := scale32(1.5); got != 48 {
		t.Fatalf("scale32(1.5) = %d, want 48", got)
	}
	if got := maxAbs32(1, -5, 3); got != 5 {
		t.Fatalf("maxAbs32 = %d, want 5", got)
	}
}

func TestChunkOfAndMod16MatchScenarioS4(t *testing.T) {
	// spec scenario S4: block (10,60,-3) lies in chunk (0,-1) at in-chunk
	// position (10,60,13).
	cx, cz := chunkOf(10, -3)
	if cx != 0 || cz != -1 {
		t.Fatalf("chunkOf(10,-3) = (%d,%d), want (0,-1)", cx, cz)
	}
	if mod16(10) != 10 {
		t.Fatalf("mod16(10) = %d, want 10", mod16(10))
	}
	if mod16(-3) != 13 {
		t.Fatalf("mod16(-3) = %d, want 13", mod16(-3))
	}
}

func TestMovePlayerGatesOnOverflow(t *testing.T) {
	d := testDeps(t)
	a := d.World.Spawn(ecs.StateTag{State: ecs.StatePlaying})
	b := d.World.Spawn(ecs.StateTag{State: ecs.StatePlaying})

	dbA := ecs.NewPlayerEntityDB()
	dbA.Add(b)
	ecs.Insert(d.World, a, dbA)

	// Within gate: delta of 1 block (32 units) fits in int8.
	ecs.Insert(d.World, b, ecs.PreviousPosition{X: 0, Y: 64, Z: 0})
	ecs.Insert(d.World, b, ecs.Position{X: 1, Y: 64, Z: 0})
	ecs.Insert(d.World, b, ecs.Look{})

	MovePlayer(d)()
	pkts := events.Drain[events.SendPacket](d.Bus)
	if len(pkts) != 1 {
		t.Fatalf("expected 1 send packet, got %d", len(pkts))
	}

	// Overflowing: 5 blocks (160 units) does not fit in int8 (max 127).
	ecs.Insert(d.World, b, ecs.PreviousPosition{X: 0, Y: 64, Z: 0})
	ecs.Insert(d.World, b, ecs.Position{X: 5, Y: 64, Z: 0})
	MovePlayer(d)()
	pkts = events.Drain[events.SendPacket](d.Bus)
	if len(pkts) != 1 {
		t.Fatalf("expected 1 send packet for teleport case, got %d", len(pkts))
	}
}

func TestCalculateVisiblePlayersAddsAndRemoves(t *testing.T) {
	d := testDeps(t)
	a := d.World.Spawn(ecs.StateTag{State: ecs.StatePlaying})
	b := d.World.Spawn(ecs.StateTag{State: ecs.StatePlaying}, ecs.Named{Name: "bob"}, ecs.Look{})

	ecs.Insert(d.World, a, ecs.NewPlayerEntityDB())
	chunksA := ecs.NewPlayerChunkDB()
	chunksA.Chunks[ecs.ChunkCoord{X: 0, Z: 0}] = nil
	ecs.Insert(d.World, a, chunksA)

	ecs.Insert(d.World, b, ecs.Position{X: 1, Y: 64, Z: 1})

	CalculateVisiblePlayers(d)()
	dbA, _ := ecs.Get[*ecs.PlayerEntityDB](d.World, a)
	if !dbA.Contains(b) {
		t.Fatal("expected b to become visible to a")
	}
	events.Drain[events.SendPacket](d.Bus)

	// Move b far outside a's loaded chunk.
	ecs.Insert(d.World, b, ecs.Position{X: 1000, Y: 64, Z: 1000})
	CalculateVisiblePlayers(d)()
	dbA, _ = ecs.Get[*ecs.PlayerEntityDB](d.World, a)
	if dbA.Contains(b) {
		t.Fatal("expected b to be removed once out of range")
	}
}

func TestDiggingCompletedEmitsBlockChange(t *testing.T) {
	d := testDeps(t)
	e := d.World.Spawn(ecs.StateTag{State: ecs.StatePlaying})

	events.Publish(d.Bus, events.PlayerDigging{Entity: e, Kind: events.DiggingStarted, X: 10, Y: 60, Z: -3, Face: 1})
	Digging(d)()
	if _, ok := ecs.Get[ecs.Digging](d.World, e); !ok {
		t.Fatal("expected Digging component attached on Started")
	}

	events.Publish(d.Bus, events.PlayerDigging{Entity: e, Kind: events.DiggingCompleted, X: 10, Y: 60, Z: -3, Face: 1})
	Digging(d)()
	if _, ok := ecs.Get[ecs.Digging](d.World, e); ok {
		t.Fatal("expected Digging component removed on Completed")
	}

	changes := events.Drain[events.BlockChange](d.Bus)
	if len(changes) != 1 || changes[0].X != 10 || changes[0].Y != 60 || changes[0].Z != -3 {
		t.Fatalf("expected one BlockChange{10,60,-3}, got %+v", changes)
	}
}

func TestPlayerMovementCapturesPreviousPosition(t *testing.T) {
	d := testDeps(t)
	e := d.World.Spawn(ecs.StateTag{State: ecs.StatePlaying})
	ecs.Insert(d.World, e, ecs.Position{X: 1, Y: 64, Z: 1})
	ecs.Insert(d.World, e, ecs.Look{})

	events.Publish(d.Bus, events.PlayerPositionAndLook{Entity: e, Kind: events.KindPosition, X: 5, Y: 64, Z: 5})
	PlayerMovement(d)()

	prev, ok := ecs.Get[ecs.PreviousPosition](d.World, e)
	if !ok || prev.X != 1 {
		t.Fatalf("expected PreviousPosition{X:1,...}, got %+v ok=%v", prev, ok)
	}
	cur, ok := ecs.Get[ecs.Position](d.World, e)
	if !ok || cur.X != 5 {
		t.Fatalf("expected Position{X:5,...}, got %+v ok=%v", cur, ok)
	}
}
