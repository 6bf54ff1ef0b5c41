// Package packet implements the Beta 1.7.3 wire packet registry (spec §4.2):
// one struct per packet ID, each able to encode itself and decode from a
// codec.Reader. Decoding is transactional with the cursor — on
// codec.ErrShortBuffer the reader's position is left where it was before
// the attempt, so the partial packet can be retried once more bytes arrive
// (see internal/systems event-emit, which owns that retry loop).
package packet

import (
	"fmt"

	"github.com/open-betalpha/server/internal/codec"
)

// IDs recognized by this server, per spec §4.2.
const (
	IDKeepAlive              byte = 0x00
	IDLogin                  byte = 0x01
	IDHandshake              byte = 0x02
	IDChatMessage            byte = 0x03
	IDTimeUpdate             byte = 0x04
	IDPlayerInventory        byte = 0x05
	IDSpawnPosition          byte = 0x06
	IDPlayer                 byte = 0x0A
	IDPlayerPosition         byte = 0x0B
	IDPlayerLook             byte = 0x0C
	IDPlayerPositionLook     byte = 0x0D
	IDPlayerDigging          byte = 0x0E
	IDArmAnimation           byte = 0x12
	IDNamedEntitySpawn       byte = 0x14
	IDDestroyEntity          byte = 0x1D
	IDEntity                 byte = 0x1E
	IDEntityRelativeMove     byte = 0x1F
	IDEntityLook             byte = 0x20
	IDEntityLookRelativeMove byte = 0x21
	IDEntityTeleport         byte = 0x22
	IDPreChunk               byte = 0x32
	IDMapChunk               byte = 0x33
	IDBlockChange            byte = 0x35
	IDKick                   byte = 0xFF
)

// Packet is any decoded or encodable wire packet.
type Packet interface {
	ID() byte
	Encode(w *codec.Writer)
}

// InvalidPacketID is returned by Decode when id names no known packet.
// The connection handler that sees this error transitions the entity to
// Disconnecting per spec §4.2/§7.
type InvalidPacketID struct {
	ID byte
}

func (e InvalidPacketID) Error() string {
	return fmt.Sprintf("you sent a packet with id: %d (0x%02X)", e.ID, e.ID)
}

// InvalidInput marks a malformed field within an otherwise well-framed
// packet (spec §7).
type InvalidInput struct {
	Msg string
}

func (e InvalidInput) Error() string { return "invalid packet input: " + e.Msg }

// Encode serializes p as ID byte followed by its payload.
func Encode(p Packet) []byte {
	w := codec.NewWriter()
	w.U8(p.ID())
	p.Encode(w)
	return w.Bytes()
}

// Decode reads one packet's ID byte and decodes its payload from r. On
// codec.ErrShortBuffer r is left unadvanced, ID byte included, so the
// same Reader can be retried once more bytes are available.
func Decode(r *codec.Reader) (Packet, error) {
	attempt := codec.NewReader(r.Rest())
	p, err := decodeFrom(attempt)
	if err == codec.ErrShortBuffer {
		return nil, err
	}
	_ = r.Skip(attempt.Pos())
	return p, err
}

func decodeFrom(r *codec.Reader) (Packet, error) {
	id, err := r.U8()
	if err != nil {
		return nil, err
	}

	switch id {
	case IDKeepAlive:
		return decodeKeepAlive(r)
	case IDLogin:
		return decodeLogin(r)
	case IDHandshake:
		return decodeHandshake(r)
	case IDChatMessage:
		return decodeChatMessage(r)
	case IDTimeUpdate:
		return decodeTimeUpdate(r)
	case IDPlayerInventory:
		return decodePlayerInventory(r)
	case IDSpawnPosition:
		return decodeSpawnPosition(r)
	case IDPlayer:
		return decodePlayer(r)
	case IDPlayerPosition:
		return decodePlayerPosition(r)
	case IDPlayerLook:
		return decodePlayerLook(r)
	case IDPlayerPositionLook:
		return decodePlayerPositionLook(r)
	case IDPlayerDigging:
		return decodePlayerDigging(r)
	case IDArmAnimation:
		return decodeArmAnimation(r)
	case IDNamedEntitySpawn:
		return decodeNamedEntitySpawn(r)
	case IDDestroyEntity:
		return decodeDestroyEntity(r)
	case IDEntity:
		return decodeEntity(r)
	case IDEntityRelativeMove:
		return decodeEntityRelativeMove(r)
	case IDEntityLook:
		return decodeEntityLook(r)
	case IDEntityLookRelativeMove:
		return decodeEntityLookRelativeMove(r)
	case IDEntityTeleport:
		return decodeEntityTeleport(r)
	case IDPreChunk:
		return decodePreChunk(r)
	case IDMapChunk:
		return decodeMapChunk(r)
	case IDBlockChange:
		return decodeBlockChange(r)
	case IDKick:
		return decodeKick(r)
	default:
		return nil, InvalidPacketID{ID: id}
	}
}
