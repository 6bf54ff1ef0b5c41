package systems

import (
	"fmt"

	"github.com/open-betalpha/server/internal/ecs"
	"github.com/open-betalpha/server/internal/events"
	"github.com/open-betalpha/server/internal/netio"
	"github.com/open-betalpha/server/internal/packet"
	"github.com/open-betalpha/server/internal/world"
)

func send(d *Deps, e ecs.Entity, ord int, p packet.Packet) {
	events.Publish(d.Bus, events.SendPacket{Entity: e, Ord: ord, Bytes: packet.Encode(p)})
}

// Accept spawns a new entity with a ClientStream and the Login tag for
// each pending connection (spec §4.5 "accept").
func Accept(d *Deps) func() {
	return func() {
		for {
			conn, err := d.Listener.Accept()
			if err != nil {
				d.Log.Warn("accept", "error", err)
				return
			}
			if conn == nil {
				return
			}
			cs := netio.NewClientStream(conn)
			e := d.World.Spawn(cs, ecs.StateTag{State: ecs.StateLogin})
			d.Log.Info("player connecting", "entity", e, "addr", cs.RemoteAddr(), "players", ecs.Count[ecs.StateTag](d.World))
		}
	}
}

// Login drives the handshake + login packet sequence for every entity
// still tagged Login (spec §4.5 "login").
func Login(d *Deps) func() {
	return func() {
		for e, cs := range ecs.Query[*netio.ClientStream](d.World) {
			tag, ok := ecs.Get[ecs.StateTag](d.World, e)
			if !ok || tag.State != ecs.StateLogin {
				continue
			}

			pkts, err := drain(cs)
			if err != nil {
				setState(d.World, e, ecs.StateDisconnecting, err.Error())
				continue
			}

			for _, p := range pkts {
				switch v := p.(type) {
				case packet.KeepAlive:
					send(d, e, events.OrdDefault, packet.KeepAlive{})
				case packet.Handshake:
					send(d, e, events.OrdDefault, packet.Handshake{UsernameOrHash: "-"})
				case packet.Login:
					ecs.Insert(d.World, e, ecs.Named{Name: v.Username})
					send(d, e, events.OrdDefault, packet.Login{
						ProtocolVersion: int32(e),
						MapSeed:         d.Game.Seed(),
						Dimension:       0,
					})
					setState(d.World, e, ecs.StateInitializing, "")
				default:
					setState(d.World, e, ecs.StateDisconnecting, "unexpected packet during login")
				}
			}
		}
	}
}

// Initializing loads a square of radius RenderDistanceRadius/2 around the
// player's spawn chunk and sends the spawn packets, then transitions the
// entity to Playing (spec §4.5 "initializing"; the halved radius here is
// deliberate and distinct from load_chunks' full-radius square).
func Initializing(d *Deps) func() {
	return func() {
		for e, tag := range ecs.Query[ecs.StateTag](d.World) {
			if tag.State != ecs.StateInitializing {
				continue
			}

			spawn := d.Game.SpawnPoint()
			chunkX := floorDiv16(spawn.X)
			chunkZ := floorDiv16(spawn.Z)

			db := ecs.NewPlayerChunkDB()
			loadOK := true
			initRadius := d.RenderDistanceRadius / 2
			for dx := -initRadius; dx <= initRadius; dx++ {
				for dz := -initRadius; dz <= initRadius; dz++ {
					cx, cz := chunkX+dx, chunkZ+dz
					handle, err := d.Game.GetChunk(cx, cz)
					if err != nil {
						d.Log.Warn("load spawn chunk", "x", cx, "z", cz, "error", err)
						loadOK = false
						continue
					}
					handle.Acquire()
					db.Chunks[ecs.ChunkCoord{X: cx, Z: cz}] = handle
					send(d, e, events.OrdPreChunkLoad, packet.PreChunk{X: cx, Z: cz, Mode: true})
					sendMapChunk(d, e, handle)
				}
			}
			if !loadOK {
				continue
			}

			stance := float64(spawn.Y) + 1.65
			send(d, e, events.OrdDefault, packet.SpawnPosition{X: spawn.X, Y: spawn.Y, Z: spawn.Z})
			send(d, e, events.OrdDefault, packet.PlayerPositionLook{
				X: float64(spawn.X), Y: float64(spawn.Y), Stance: stance, Z: float64(spawn.Z),
				Yaw: 0, Pitch: 0, OnGround: false,
			})

			pos := ecs.Position{X: float64(spawn.X), Y: float64(spawn.Y), Z: float64(spawn.Z), Stance: stance}
			ecs.Insert(d.World, e, pos)
			ecs.Insert(d.World, e, ecs.PreviousPosition(pos))
			ecs.Insert(d.World, e, ecs.Look{})
			ecs.Insert(d.World, e, ecs.NewPlayerEntityDB())
			ecs.Insert(d.World, e, db)
			setState(d.World, e, ecs.StatePlaying, "")
		}
	}
}

func sendMapChunk(d *Deps, e ecs.Entity, handle *world.ChunkHandle) {
	_, buf, err := handle.Chunk.CompressedData()
	if err != nil {
		d.Log.Warn("compress chunk", "error", err)
		return
	}
	send(d, e, events.OrdMapChunk, packet.MapChunk{
		X: handle.Chunk.X * 16, Y: 0, Z: handle.Chunk.Z * 16,
		SizeX: 15, SizeY: 127, SizeZ: 15,
		CompressedData: buf,
	})
}

// EventEmit decodes inbound packets for every Playing entity and
// publishes the corresponding events (spec §4.5 "event-emit").
func EventEmit(d *Deps) func() {
	return func() {
		for e, cs := range ecs.Query[*netio.ClientStream](d.World) {
			tag, ok := ecs.Get[ecs.StateTag](d.World, e)
			if !ok || tag.State != ecs.StatePlaying {
				continue
			}

			pkts, err := drain(cs)
			if err != nil {
				switch err.(type) {
				case packet.InvalidPacketID, packet.InvalidInput:
					setState(d.World, e, ecs.StateDisconnecting, err.Error())
				default:
					setState(d.World, e, ecs.StateDisconnecting, fmt.Sprintf("connection error: %v", err))
				}
				continue
			}

			for _, p := range pkts {
				dispatchPlaying(d, e, p)
			}
		}
	}
}

func dispatchPlaying(d *Deps, e ecs.Entity, p packet.Packet) {
	switch v := p.(type) {
	case packet.ChatMessage:
		events.Publish(d.Bus, events.ChatMessage{From: e, Message: v.Message})
	case packet.PlayerPosition:
		events.Publish(d.Bus, events.PlayerPositionAndLook{
			Entity: e, Kind: events.KindPosition,
			X: v.X, Y: v.Y, Z: v.Z, Stance: v.Stance, OnGround: v.OnGround,
		})
	case packet.PlayerLook:
		events.Publish(d.Bus, events.PlayerPositionAndLook{
			Entity: e, Kind: events.KindLook,
			Yaw: v.Yaw, Pitch: v.Pitch, OnGround: v.OnGround,
		})
	case packet.PlayerPositionLook:
		events.Publish(d.Bus, events.PlayerPositionAndLook{
			Entity: e, Kind: events.KindFull,
			X: v.X, Y: v.Y, Z: v.Z, Stance: v.Stance, Yaw: v.Yaw, Pitch: v.Pitch, OnGround: v.OnGround,
		})
	case packet.PlayerDigging:
		kind, ok := diggingKind(v.Status)
		if !ok {
			d.Log.Warn("unknown digging status", "entity", e, "status", v.Status)
			return
		}
		events.Publish(d.Bus, events.PlayerDigging{Entity: e, Kind: kind, X: v.X, Y: int32(v.Y), Z: v.Z, Face: v.Face})
	case packet.Kick:
		setState(d.World, e, ecs.StateDisconnecting, v.Reason)
	case packet.ArmAnimation:
		events.Publish(d.Bus, events.Animation{Entity: e, Animation: v.Animation})
	case packet.KeepAlive, packet.Player:
		// consumed, no event published.
	default:
		setState(d.World, e, ecs.StateDisconnecting, "unexpected packet during play")
	}
}

func diggingKind(status int8) (events.DiggingKind, bool) {
	switch status {
	case 0:
		return events.DiggingStarted, true
	case 1:
		return events.DiggingInProgress, true
	case 2:
		return events.DiggingStopped, true
	case 3:
		return events.DiggingCompleted, true
	default:
		return 0, false
	}
}

// SendPackets collects every pending SendPacket event, stable-sorts by
// (entity, ord), and flushes each entity's outbound stream once (spec
// §4.5 "send-packets", POST-TICK).
func SendPackets(d *Deps) func() {
	return func() {
		flushSendPackets(d)
	}
}

// RemoveInvalidPlayers despawns every entity tagged Invalid (spec §4.5
// "remove-invalid-players", POST-TICK).
func RemoveInvalidPlayers(d *Deps) func() {
	return func() {
		var toDespawn []ecs.Entity
		for e, tag := range ecs.Query[ecs.StateTag](d.World) {
			if tag.State == ecs.StateInvalid {
				toDespawn = append(toDespawn, e)
			}
		}
		for _, e := range toDespawn {
			if cs, ok := ecs.Get[*netio.ClientStream](d.World, e); ok {
				cs.Close()
			}
			d.World.Despawn(e)
			d.Log.Info("player removed", "entity", e, "players", ecs.Count[ecs.StateTag](d.World))
		}
	}
}
