package ecs

import "github.com/open-betalpha/server/internal/world"

// ConnState is the connection-lifecycle tag. Exactly one StateTag is
// attached to a player entity at any time (spec's "state machine as
// type-tag vs enum" design note — a single tagged-variant component here).
type ConnState int

const (
	StateLogin ConnState = iota
	StateInitializing
	StatePlaying
	StateDisconnecting
	StateInvalid
)

func (s ConnState) String() string {
	switch s {
	case StateLogin:
		return "login"
	case StateInitializing:
		return "initializing"
	case StatePlaying:
		return "playing"
	case StateDisconnecting:
		return "disconnecting"
	case StateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// StateTag is the entity's single connection-state component.
type StateTag struct {
	State  ConnState
	Reason string
}

// Position is a player's world-space location plus eye-height offset.
type Position struct {
	X, Y, Z, Stance float64
	OnGround        bool
}

// PreviousPosition is captured before each movement event is applied.
type PreviousPosition Position

// Look is a player's facing direction in degrees.
type Look struct {
	Yaw, Pitch float32
}

// Named holds a player's chosen username.
type Named struct {
	Name string
}

// Slot is one optional inventory slot; ItemID == -1 means empty.
type Slot struct {
	ItemID   int16
	Count    uint8
	UsesLeft uint16
}

// Inventory holds the three fixed-length slot regions (spec §3).
type Inventory struct {
	Main     [36]Slot
	Armor    [4]Slot
	Crafting [4]Slot
}

// ChunkCoord addresses one chunk column.
type ChunkCoord struct{ X, Z int32 }

// PlayerChunkDB is the set of chunks a client currently has loaded,
// keyed by chunk coordinate, holding a reference on the shared handle.
type PlayerChunkDB struct {
	Chunks map[ChunkCoord]*world.ChunkHandle
}

// NewPlayerChunkDB returns an empty chunk set.
func NewPlayerChunkDB() *PlayerChunkDB {
	return &PlayerChunkDB{Chunks: make(map[ChunkCoord]*world.ChunkHandle)}
}

// PlayerEntityDB is the ordered list of foreign entities currently visible
// to a player, as tracked by calculate_visible_players.
type PlayerEntityDB struct {
	Visible []Entity
}

// NewPlayerEntityDB returns an empty visibility list.
func NewPlayerEntityDB() *PlayerEntityDB {
	return &PlayerEntityDB{}
}

// Contains reports whether e is already in the visible list.
func (db *PlayerEntityDB) Contains(e Entity) bool {
	for _, v := range db.Visible {
		if v == e {
			return true
		}
	}
	return false
}

// Add appends e to the visible list.
func (db *PlayerEntityDB) Add(e Entity) {
	db.Visible = append(db.Visible, e)
}

// Remove deletes e from the visible list, if present.
func (db *PlayerEntityDB) Remove(e Entity) {
	for i, v := range db.Visible {
		if v == e {
			db.Visible = append(db.Visible[:i], db.Visible[i+1:]...)
			return
		}
	}
}

// Digging is attached to a player entity while a dig action is in
// progress; it carries the target block and the face it was started on.
type Digging struct {
	X, Y, Z int32
	Face    int8
}
