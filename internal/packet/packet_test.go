package packet

import (
	"bytes"
	"testing"

	"github.com/open-betalpha/server/internal/codec"
)

func allSamples() []Packet {
	return []Packet{
		KeepAlive{},
		Login{ProtocolVersion: 14, Username: "name", MapSeed: 123456789, Dimension: 0},
		Handshake{UsernameOrHash: "-"},
		ChatMessage{Message: "hello world"},
		TimeUpdate{Time: 6000},
		PlayerInventory{InventoryType: -1, Slots: []InventorySlot{
			{ItemID: -1},
			{ItemID: 5, Count: 3, UsesLeft: 0},
		}},
		SpawnPosition{X: 0, Y: 64, Z: 0},
		Player{OnGround: true},
		PlayerPosition{X: 1.5, Y: 64, Stance: 65.65, Z: -1.5, OnGround: true},
		PlayerLook{Yaw: 90, Pitch: -12.5, OnGround: false},
		PlayerPositionLook{X: 1, Y: 64, Stance: 65.65, Z: 2, Yaw: 10, Pitch: 5, OnGround: true},
		PlayerDigging{Status: 2, X: 10, Y: 60, Z: -3, Face: 1},
		ArmAnimation{EntityID: 7, Animation: 1},
		NamedEntitySpawn{EntityID: 7, Name: "bob", X: 32, Y: 2048, Z: -32, Yaw: 10, Pitch: -5, CurrentItem: 0},
		DestroyEntity{EntityID: 7},
		Entity{EntityID: 7},
		EntityRelativeMove{EntityID: 7, DX: 48, DY: 0, DZ: -1},
		EntityLook{EntityID: 7, Yaw: 10, Pitch: -5},
		EntityLookRelativeMove{EntityID: 7, DX: 1, DY: 2, DZ: 3, Yaw: 4, Pitch: 5},
		EntityTeleport{EntityID: 7, X: 100, Y: 2048, Z: -100, Yaw: 10, Pitch: -5},
		PreChunk{X: 0, Z: 0, Mode: true},
		MapChunk{X: 0, Y: 0, Z: 0, SizeX: 15, SizeY: 127, SizeZ: 15, CompressedData: []byte{1, 2, 3, 4}},
		BlockChange{X: 10, Y: 60, Z: -3, Type: 0, Metadata: 0},
		Kick{Reason: "server closed"},
	}
}

// TestEncodeDecodeRoundTrip covers spec invariant 1.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, p := range allSamples() {
		encoded := Encode(p)
		r := codec.NewReader(encoded)
		decoded, err := Decode(r)
		if err != nil {
			t.Fatalf("%T: decode: %v", p, err)
		}
		reEncoded := Encode(decoded)
		if !bytes.Equal(encoded, reEncoded) {
			t.Fatalf("%T: round trip mismatch\n got: %v\nwant: %v", p, reEncoded, encoded)
		}
		if r.Remaining() != 0 {
			t.Fatalf("%T: %d bytes left unconsumed", p, r.Remaining())
		}
	}
}

// TestShortPrefixDoesNotAdvance covers spec invariant 2 for every packet
// type: any strict prefix of a complete packet must yield ErrShortBuffer
// without moving the reader's cursor.
func TestShortPrefixDoesNotAdvance(t *testing.T) {
	for _, p := range allSamples() {
		full := Encode(p)
		for n := 0; n < len(full); n++ {
			r := codec.NewReader(full[:n])
			if _, err := Decode(r); err != codec.ErrShortBuffer {
				t.Fatalf("%T: prefix %d/%d: expected ErrShortBuffer, got %v", p, n, len(full), err)
			}
			if r.Pos() != 0 {
				t.Fatalf("%T: prefix %d/%d: cursor advanced to %d on short read", p, n, len(full), r.Pos())
			}
		}
	}
}

func TestUnknownPacketID(t *testing.T) {
	r := codec.NewReader([]byte{0x99})
	_, err := Decode(r)
	if _, ok := err.(InvalidPacketID); !ok {
		t.Fatalf("expected InvalidPacketID, got %v", err)
	}
}
