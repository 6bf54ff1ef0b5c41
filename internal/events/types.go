package events

import "github.com/open-betalpha/server/internal/ecs"

// Send ordinals: a lower ord is flushed first within one entity's outbound
// stream, guaranteeing a chunk's PreChunk always precedes its MapChunk.
const (
	OrdPreChunkLoad   = 1
	OrdMapChunk       = 2
	OrdPreChunkUnload = 3
	OrdDefault        = 5
)

// SendPacket queues encoded bytes for one entity's outbound stream.
type SendPacket struct {
	Entity ecs.Entity
	Ord    int
	Bytes  []byte
}

// ChatMessage is a raw chat line from one player, pending broadcast.
type ChatMessage struct {
	From    ecs.Entity
	Message string
}

// SystemMessage is a server-originated message, pending broadcast verbatim.
type SystemMessage struct {
	Message string
}

// PositionLookKind selects which fields of a PlayerPositionAndLook event
// are meaningful, mirroring the three C→S packets that can produce one.
type PositionLookKind int

const (
	KindFull PositionLookKind = iota
	KindPosition
	KindLook
)

// PlayerPositionAndLook is the decoded, tagged union over PlayerPosition,
// PlayerLook, and PlayerPositionLook client packets.
type PlayerPositionAndLook struct {
	Entity          ecs.Entity
	Kind            PositionLookKind
	X, Y, Z, Stance float64
	Yaw, Pitch      float32
	OnGround        bool
}

// DiggingKind mirrors the PlayerDigging packet's status byte.
type DiggingKind int

const (
	DiggingStarted DiggingKind = iota
	DiggingInProgress
	DiggingStopped
	DiggingCompleted
)

// PlayerDigging is the decoded dig-action event for one player.
type PlayerDigging struct {
	Entity  ecs.Entity
	Kind    DiggingKind
	X, Y, Z int32
	Face    int8
}

// BlockChange is a world mutation to broadcast and apply to the chunk
// store.
type BlockChange struct {
	X, Y, Z  int32
	Type     byte
	Metadata byte
}

// Animation is a visible arm/entity animation to broadcast.
type Animation struct {
	Entity    ecs.Entity
	Animation int8
}
