package systems

import (
	"fmt"

	"github.com/open-betalpha/server/internal/ecs"
	"github.com/open-betalpha/server/internal/events"
	"github.com/open-betalpha/server/internal/packet"
)

// KeepAlive emits KeepAlive to every Playing entity (spec §4.6).
func KeepAlive(d *Deps) func() {
	return func() {
		for _, e := range playingEntities(d.World) {
			send(d, e, events.OrdDefault, packet.KeepAlive{})
		}
	}
}

// ChatMessage broadcasts each pending chat event to every Playing entity,
// formatted as "<from> message" (spec §4.6).
func ChatMessage(d *Deps) func() {
	return func() {
		for _, ev := range events.Drain[events.ChatMessage](d.Bus) {
			from := "?"
			if named, ok := ecs.Get[ecs.Named](d.World, ev.From); ok {
				from = named.Name
			}
			text := fmt.Sprintf("<%s> %s", from, ev.Message)
			for _, e := range playingEntities(d.World) {
				send(d, e, events.OrdDefault, packet.ChatMessage{Message: text})
			}
		}
	}
}

// SystemMessage broadcasts each pending system message verbatim to every
// Playing entity (spec §4.6).
func SystemMessage(d *Deps) func() {
	return func() {
		for _, ev := range events.Drain[events.SystemMessage](d.Bus) {
			for _, e := range playingEntities(d.World) {
				send(d, e, events.OrdDefault, packet.ChatMessage{Message: ev.Message})
			}
		}
	}
}

// Disconnecting emits Kick to entities tagged Disconnecting, broadcasts
// DestroyEntity to every other player that had them visible, and
// transitions them to Invalid for despawn (spec §4.5 state machine,
// scenario S6).
func Disconnecting(d *Deps) func() {
	return func() {
		for e, tag := range ecs.Query[ecs.StateTag](d.World) {
			if tag.State != ecs.StateDisconnecting {
				continue
			}
			send(d, e, events.OrdDefault, packet.Kick{Reason: tag.Reason})

			for other, db := range ecs.Query[*ecs.PlayerEntityDB](d.World) {
				if other == e || !db.Contains(e) {
					continue
				}
				db.Remove(e)
				send(d, other, events.OrdDefault, packet.DestroyEntity{EntityID: int32(e)})
			}

			setState(d.World, e, ecs.StateInvalid, tag.Reason)
		}
	}
}

// PlayerMovement applies each pending position/look event to the matching
// entity; PreviousPosition captures the Position held immediately before
// the event is applied (spec §4.6, invariant 5).
func PlayerMovement(d *Deps) func() {
	return func() {
		for _, ev := range events.Drain[events.PlayerPositionAndLook](d.Bus) {
			pos, hasPos := ecs.Get[ecs.Position](d.World, ev.Entity)
			look, hasLook := ecs.Get[ecs.Look](d.World, ev.Entity)
			if !hasPos || !hasLook {
				continue
			}

			switch ev.Kind {
			case events.KindPosition, events.KindFull:
				ecs.Insert(d.World, ev.Entity, ecs.PreviousPosition(pos))
				pos = ecs.Position{X: ev.X, Y: ev.Y, Z: ev.Z, Stance: ev.Stance, OnGround: ev.OnGround}
				ecs.Insert(d.World, ev.Entity, pos)
			}
			switch ev.Kind {
			case events.KindLook, events.KindFull:
				look = ecs.Look{Yaw: ev.Yaw, Pitch: ev.Pitch}
				ecs.Insert(d.World, ev.Entity, look)
			}
		}
	}
}

// MovePlayer emits a relative move or a teleport for every visible pair,
// depending on whether the ×32-scaled delta fits in an int8 (spec §4.6,
// Open Question resolution: gate on max(|dx|,|dy|,|dz|) ≤ 127 rather than
// a raw 4.0-block distance, which can silently overflow — see SPEC_FULL.md).
func MovePlayer(d *Deps) func() {
	return func() {
		for _, a := range playingEntities(d.World) {
			db, ok := ecs.Get[*ecs.PlayerEntityDB](d.World, a)
			if !ok {
				continue
			}
			for _, b := range db.Visible {
				cur, hasCur := ecs.Get[ecs.Position](d.World, b)
				prev, hasPrev := ecs.Get[ecs.PreviousPosition](d.World, b)
				look, hasLook := ecs.Get[ecs.Look](d.World, b)
				if !hasCur || !hasPrev || !hasLook {
					continue
				}

				dx := scale32(cur.X) - scale32(prev.X)
				dy := scale32(cur.Y) - scale32(prev.Y)
				dz := scale32(cur.Z) - scale32(prev.Z)
				yawByte := packAngle(look.Yaw)
				pitchByte := packAngle(look.Pitch)

				if maxAbs32(dx, dy, dz) <= 127 {
					send(d, a, events.OrdDefault, packet.EntityLookRelativeMove{
						EntityID: int32(b), DX: int8(dx), DY: int8(dy), DZ: int8(dz),
						Yaw: yawByte, Pitch: pitchByte,
					})
				} else {
					send(d, a, events.OrdDefault, packet.EntityTeleport{
						EntityID: int32(b), X: scale32(cur.X), Y: scale32(cur.Y), Z: scale32(cur.Z),
						Yaw: yawByte, Pitch: pitchByte,
					})
				}
			}
		}
	}
}

// CorrectPlayerPosition unconditionally emits EntityTeleport for every
// visible pair, as a periodic anti-drift corrective (spec §4.6, Open
// Question resolution: preserved as specified, no gating).
func CorrectPlayerPosition(d *Deps) func() {
	return func() {
		for _, a := range playingEntities(d.World) {
			db, ok := ecs.Get[*ecs.PlayerEntityDB](d.World, a)
			if !ok {
				continue
			}
			for _, b := range db.Visible {
				cur, hasCur := ecs.Get[ecs.Position](d.World, b)
				look, hasLook := ecs.Get[ecs.Look](d.World, b)
				if !hasCur || !hasLook {
					continue
				}
				send(d, a, events.OrdDefault, packet.EntityTeleport{
					EntityID: int32(b), X: scale32(cur.X), Y: scale32(cur.Y), Z: scale32(cur.Z),
					Yaw: packAngle(look.Yaw), Pitch: packAngle(look.Pitch),
				})
			}
		}
	}
}

// CalculateVisiblePlayers adds or removes entities from each player's
// visible list as they enter or leave the chunks that player has loaded
// (spec §4.6).
func CalculateVisiblePlayers(d *Deps) func() {
	return func() {
		players := playingEntities(d.World)
		for _, a := range players {
			dbA, ok := ecs.Get[*ecs.PlayerEntityDB](d.World, a)
			if !ok {
				continue
			}
			chunksA, ok := ecs.Get[*ecs.PlayerChunkDB](d.World, a)
			if !ok {
				continue
			}

			for _, b := range players {
				if a == b {
					continue
				}
				posB, ok := ecs.Get[ecs.Position](d.World, b)
				if !ok {
					continue
				}
				cx, cz := chunkOf(posB.X, posB.Z)
				coord := ecs.ChunkCoord{X: cx, Z: cz}
				_, visible := chunksA.Chunks[coord]

				switch {
				case visible && !dbA.Contains(b):
					dbA.Add(b)
					named, _ := ecs.Get[ecs.Named](d.World, b)
					look, _ := ecs.Get[ecs.Look](d.World, b)
					send(d, a, events.OrdDefault, packet.Entity{EntityID: int32(b)})
					send(d, a, events.OrdDefault, packet.NamedEntitySpawn{
						EntityID: int32(b), Name: named.Name,
						X: scale32(posB.X), Y: scale32(posB.Y), Z: scale32(posB.Z),
						Yaw: packAngle(look.Yaw), Pitch: packAngle(look.Pitch), CurrentItem: 0,
					})
				case !visible && dbA.Contains(b):
					dbA.Remove(b)
					send(d, a, events.OrdDefault, packet.DestroyEntity{EntityID: int32(b)})
				}
			}
		}
	}
}

// LoadChunks fetches chunks newly within render distance of each player
// and sends them (spec §4.6).
func LoadChunks(d *Deps) func() {
	return func() {
		for _, e := range playingEntities(d.World) {
			pos, ok := ecs.Get[ecs.Position](d.World, e)
			if !ok {
				continue
			}
			db, ok := ecs.Get[*ecs.PlayerChunkDB](d.World, e)
			if !ok {
				continue
			}

			centerX, centerZ := chunkOf(pos.X, pos.Z)

			for dx := -d.RenderDistanceRadius; dx <= d.RenderDistanceRadius; dx++ {
				for dz := -d.RenderDistanceRadius; dz <= d.RenderDistanceRadius; dz++ {
					cx, cz := centerX+dx, centerZ+dz
					coord := ecs.ChunkCoord{X: cx, Z: cz}
					if _, ok := db.Chunks[coord]; ok {
						continue
					}
					handle, err := d.Game.GetChunk(cx, cz)
					if err != nil {
						d.Log.Warn("load chunk", "x", cx, "z", cz, "error", err)
						continue
					}
					handle.Acquire()
					db.Chunks[coord] = handle
					send(d, e, events.OrdPreChunkLoad, packet.PreChunk{X: cx, Z: cz, Mode: true})
					sendMapChunk(d, e, handle)
				}
			}
		}
	}
}

// UnloadChunks removes chunks that have fallen outside a buffer square
// around each player and releases the player's reference (spec §4.6).
func UnloadChunks(d *Deps) func() {
	return func() {
		buffer := 2 * d.RenderDistanceRadius
		for _, e := range playingEntities(d.World) {
			pos, ok := ecs.Get[ecs.Position](d.World, e)
			if !ok {
				continue
			}
			db, ok := ecs.Get[*ecs.PlayerChunkDB](d.World, e)
			if !ok {
				continue
			}

			centerX, centerZ := chunkOf(pos.X, pos.Z)

			for coord, handle := range db.Chunks {
				if abs32(coord.X-centerX) <= buffer && abs32(coord.Z-centerZ) <= buffer {
					continue
				}
				delete(db.Chunks, coord)
				handle.Release()
				send(d, e, events.OrdPreChunkUnload, packet.PreChunk{X: coord.X, Z: coord.Z, Mode: false})

				if err := d.Game.UnloadChunk(coord.X, coord.Z); err != nil {
					d.Log.Debug("unload chunk deferred", "x", coord.X, "z", coord.Z, "error", err)
				}
			}
		}
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Digging attaches or clears the Digging component as dig events arrive,
// and emits a BlockChange when a dig completes (spec §4.6).
func Digging(d *Deps) func() {
	return func() {
		for _, ev := range events.Drain[events.PlayerDigging](d.Bus) {
			switch ev.Kind {
			case events.DiggingStarted:
				ecs.Insert(d.World, ev.Entity, ecs.Digging{X: ev.X, Y: ev.Y, Z: ev.Z, Face: ev.Face})
			case events.DiggingStopped:
				ecs.Remove[ecs.Digging](d.World, ev.Entity)
			case events.DiggingCompleted:
				dig, _ := ecs.Get[ecs.Digging](d.World, ev.Entity)
				ecs.Remove[ecs.Digging](d.World, ev.Entity)
				d.Log.Debug("dig completed", "entity", ev.Entity, "x", ev.X, "y", ev.Y, "z", ev.Z, "face", dig.Face)
				events.Publish(d.Bus, events.BlockChange{X: ev.X, Y: ev.Y, Z: ev.Z, Type: 0, Metadata: 0})
			}
		}
	}
}

// BlockChange mutates the target chunk's block and broadcasts the change
// to every Playing entity (spec §4.6, scenario S4).
func BlockChange(d *Deps) func() {
	return func() {
		for _, ev := range events.Drain[events.BlockChange](d.Bus) {
			chunkX := floorDiv16(ev.X)
			chunkZ := floorDiv16(ev.Z)
			handle, err := d.Game.GetChunk(chunkX, chunkZ)
			if err != nil {
				d.Log.Warn("block change: load chunk", "x", chunkX, "z", chunkZ, "error", err)
				continue
			}
			if _, err := handle.Chunk.SetBlock(mod16(ev.X), int(ev.Y), mod16(ev.Z), 0); err != nil {
				d.Log.Warn("block change: set block", "error", err)
				continue
			}

			for _, e := range playingEntities(d.World) {
				send(d, e, events.OrdDefault, packet.BlockChange{
					X: ev.X, Y: int8(ev.Y), Z: ev.Z, Type: int8(ev.Type), Metadata: int8(ev.Metadata),
				})
			}
		}
	}
}

// IncrementTime advances the world clock by 20 ticks (1 second at 20
// ticks/sec) and broadcasts the new time (spec §4.6).
func IncrementTime(d *Deps) func() {
	return func() {
		d.Game.SetTime(d.Game.Time() + 20)
		for _, e := range playingEntities(d.World) {
			send(d, e, events.OrdDefault, packet.TimeUpdate{Time: int64(d.Game.Time())})
		}
	}
}
