package packet

import "github.com/open-betalpha/server/internal/codec"

// KeepAlive (0x00) carries no payload in either direction.
type KeepAlive struct{}

func (KeepAlive) ID() byte             { return IDKeepAlive }
func (KeepAlive) Encode(w *codec.Writer) {}

func decodeKeepAlive(r *codec.Reader) (Packet, error) {
	return KeepAlive{}, nil
}

// Login (0x01). The same field layout is reused in both directions: a
// client fills ProtocolVersion/Username and zeroes the rest; the server
// reply reuses the first field as the assigned EntityID and fills
// MapSeed/Dimension.
type Login struct {
	ProtocolVersion int32
	Username        string
	MapSeed         int64
	Dimension       int8
}

func (p Login) ID() byte { return IDLogin }
func (p Login) Encode(w *codec.Writer) {
	w.I32(p.ProtocolVersion)
	w.String(p.Username)
	w.I64(p.MapSeed)
	w.I8(p.Dimension)
}

func decodeLogin(r *codec.Reader) (Packet, error) {
	protocolVersion, err := r.I32()
	if err != nil {
		return nil, err
	}
	username, err := r.String()
	if err != nil {
		return nil, err
	}
	mapSeed, err := r.I64()
	if err != nil {
		return nil, err
	}
	dimension, err := r.I8()
	if err != nil {
		return nil, err
	}
	return Login{ProtocolVersion: protocolVersion, Username: username, MapSeed: mapSeed, Dimension: dimension}, nil
}

// Handshake (0x02). Client sends its username; server replies with a
// connection hash ("-" when running in offline mode, per spec S1).
type Handshake struct {
	UsernameOrHash string
}

func (p Handshake) ID() byte { return IDHandshake }
func (p Handshake) Encode(w *codec.Writer) {
	w.String(p.UsernameOrHash)
}

func decodeHandshake(r *codec.Reader) (Packet, error) {
	s, err := r.String()
	if err != nil {
		return nil, err
	}
	return Handshake{UsernameOrHash: s}, nil
}

// ChatMessage (0x03).
type ChatMessage struct {
	Message string
}

func (p ChatMessage) ID() byte { return IDChatMessage }
func (p ChatMessage) Encode(w *codec.Writer) {
	w.String(p.Message)
}

func decodeChatMessage(r *codec.Reader) (Packet, error) {
	s, err := r.String()
	if err != nil {
		return nil, err
	}
	return ChatMessage{Message: s}, nil
}

// TimeUpdate (0x04).
type TimeUpdate struct {
	Time int64
}

func (p TimeUpdate) ID() byte { return IDTimeUpdate }
func (p TimeUpdate) Encode(w *codec.Writer) {
	w.I64(p.Time)
}

func decodeTimeUpdate(r *codec.Reader) (Packet, error) {
	t, err := r.I64()
	if err != nil {
		return nil, err
	}
	return TimeUpdate{Time: t}, nil
}

// InventorySlot is one optional slot in a PlayerInventory region.
// Empty is represented with ItemID == -1.
type InventorySlot struct {
	ItemID   int16
	Count    uint8
	UsesLeft uint16
}

// PlayerInventory (0x05) describes one of the three fixed-length slot
// regions (main=36, armor=4, crafting=4) selected by InventoryType
// (-1, -2, -3 respectively, per the Beta client convention).
type PlayerInventory struct {
	InventoryType int32
	Slots         []InventorySlot
}

func (p PlayerInventory) ID() byte { return IDPlayerInventory }
func (p PlayerInventory) Encode(w *codec.Writer) {
	w.I32(p.InventoryType)
	w.I16(int16(len(p.Slots)))
	for _, s := range p.Slots {
		w.I16(s.ItemID)
		if s.ItemID != -1 {
			w.U8(s.Count)
			w.I16(int16(s.UsesLeft))
		}
	}
}

func decodePlayerInventory(r *codec.Reader) (Packet, error) {
	invType, err := r.I32()
	if err != nil {
		return nil, err
	}
	count, err := r.I16()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, InvalidInput{Msg: "negative inventory slot count"}
	}
	slots := make([]InventorySlot, 0, count)
	for i := int16(0); i < count; i++ {
		itemID, err := r.I16()
		if err != nil {
			return nil, err
		}
		slot := InventorySlot{ItemID: itemID}
		if itemID != -1 {
			cnt, err := r.U8()
			if err != nil {
				return nil, err
			}
			uses, err := r.I16()
			if err != nil {
				return nil, err
			}
			slot.Count = cnt
			slot.UsesLeft = uint16(uses)
		}
		slots = append(slots, slot)
	}
	return PlayerInventory{InventoryType: invType, Slots: slots}, nil
}

// SpawnPosition (0x06).
type SpawnPosition struct {
	X, Y, Z int32
}

func (p SpawnPosition) ID() byte { return IDSpawnPosition }
func (p SpawnPosition) Encode(w *codec.Writer) {
	w.I32(p.X)
	w.I32(p.Y)
	w.I32(p.Z)
}

func decodeSpawnPosition(r *codec.Reader) (Packet, error) {
	x, err := r.I32()
	if err != nil {
		return nil, err
	}
	y, err := r.I32()
	if err != nil {
		return nil, err
	}
	z, err := r.I32()
	if err != nil {
		return nil, err
	}
	return SpawnPosition{X: x, Y: y, Z: z}, nil
}

// Player (0x0A) signals only the on-ground flag.
type Player struct {
	OnGround bool
}

func (p Player) ID() byte { return IDPlayer }
func (p Player) Encode(w *codec.Writer) {
	w.Bool(p.OnGround)
}

func decodePlayer(r *codec.Reader) (Packet, error) {
	g, err := r.Bool()
	if err != nil {
		return nil, err
	}
	return Player{OnGround: g}, nil
}

// PlayerPosition (0x0B).
type PlayerPosition struct {
	X, Y, Stance, Z float64
	OnGround        bool
}

func (p PlayerPosition) ID() byte { return IDPlayerPosition }
func (p PlayerPosition) Encode(w *codec.Writer) {
	w.F64(p.X)
	w.F64(p.Y)
	w.F64(p.Stance)
	w.F64(p.Z)
	w.Bool(p.OnGround)
}

func decodePlayerPosition(r *codec.Reader) (Packet, error) {
	x, err := r.F64()
	if err != nil {
		return nil, err
	}
	y, err := r.F64()
	if err != nil {
		return nil, err
	}
	stance, err := r.F64()
	if err != nil {
		return nil, err
	}
	z, err := r.F64()
	if err != nil {
		return nil, err
	}
	g, err := r.Bool()
	if err != nil {
		return nil, err
	}
	return PlayerPosition{X: x, Y: y, Stance: stance, Z: z, OnGround: g}, nil
}

// PlayerLook (0x0C).
type PlayerLook struct {
	Yaw, Pitch float32
	OnGround   bool
}

func (p PlayerLook) ID() byte { return IDPlayerLook }
func (p PlayerLook) Encode(w *codec.Writer) {
	w.F32(p.Yaw)
	w.F32(p.Pitch)
	w.Bool(p.OnGround)
}

func decodePlayerLook(r *codec.Reader) (Packet, error) {
	yaw, err := r.F32()
	if err != nil {
		return nil, err
	}
	pitch, err := r.F32()
	if err != nil {
		return nil, err
	}
	g, err := r.Bool()
	if err != nil {
		return nil, err
	}
	return PlayerLook{Yaw: yaw, Pitch: pitch, OnGround: g}, nil
}

// PlayerPositionLook (0x0D). Both directions share this layout.
type PlayerPositionLook struct {
	X, Y, Stance, Z float64
	Yaw, Pitch      float32
	OnGround        bool
}

func (p PlayerPositionLook) ID() byte { return IDPlayerPositionLook }
func (p PlayerPositionLook) Encode(w *codec.Writer) {
	w.F64(p.X)
	w.F64(p.Y)
	w.F64(p.Stance)
	w.F64(p.Z)
	w.F32(p.Yaw)
	w.F32(p.Pitch)
	w.Bool(p.OnGround)
}

func decodePlayerPositionLook(r *codec.Reader) (Packet, error) {
	x, err := r.F64()
	if err != nil {
		return nil, err
	}
	y, err := r.F64()
	if err != nil {
		return nil, err
	}
	stance, err := r.F64()
	if err != nil {
		return nil, err
	}
	z, err := r.F64()
	if err != nil {
		return nil, err
	}
	yaw, err := r.F32()
	if err != nil {
		return nil, err
	}
	pitch, err := r.F32()
	if err != nil {
		return nil, err
	}
	g, err := r.Bool()
	if err != nil {
		return nil, err
	}
	return PlayerPositionLook{X: x, Y: y, Stance: stance, Z: z, Yaw: yaw, Pitch: pitch, OnGround: g}, nil
}

// PlayerDigging (0x0E).
type PlayerDigging struct {
	Status  int8
	X       int32
	Y       int8
	Z       int32
	Face    int8
}

func (p PlayerDigging) ID() byte { return IDPlayerDigging }
func (p PlayerDigging) Encode(w *codec.Writer) {
	w.I8(p.Status)
	w.I32(p.X)
	w.I8(p.Y)
	w.I32(p.Z)
	w.I8(p.Face)
}

func decodePlayerDigging(r *codec.Reader) (Packet, error) {
	status, err := r.I8()
	if err != nil {
		return nil, err
	}
	x, err := r.I32()
	if err != nil {
		return nil, err
	}
	y, err := r.I8()
	if err != nil {
		return nil, err
	}
	z, err := r.I32()
	if err != nil {
		return nil, err
	}
	face, err := r.I8()
	if err != nil {
		return nil, err
	}
	return PlayerDigging{Status: status, X: x, Y: y, Z: z, Face: face}, nil
}

// ArmAnimation (0x12).
type ArmAnimation struct {
	EntityID  int32
	Animation int8
}

func (p ArmAnimation) ID() byte { return IDArmAnimation }
func (p ArmAnimation) Encode(w *codec.Writer) {
	w.I32(p.EntityID)
	w.I8(p.Animation)
}

func decodeArmAnimation(r *codec.Reader) (Packet, error) {
	id, err := r.I32()
	if err != nil {
		return nil, err
	}
	anim, err := r.I8()
	if err != nil {
		return nil, err
	}
	return ArmAnimation{EntityID: id, Animation: anim}, nil
}

// NamedEntitySpawn (0x14).
type NamedEntitySpawn struct {
	EntityID           int32
	Name               string
	X, Y, Z            int32
	Yaw, Pitch         int8
	CurrentItem        int16
}

func (p NamedEntitySpawn) ID() byte { return IDNamedEntitySpawn }
func (p NamedEntitySpawn) Encode(w *codec.Writer) {
	w.I32(p.EntityID)
	w.String(p.Name)
	w.I32(p.X)
	w.I32(p.Y)
	w.I32(p.Z)
	w.I8(p.Yaw)
	w.I8(p.Pitch)
	w.I16(p.CurrentItem)
}

func decodeNamedEntitySpawn(r *codec.Reader) (Packet, error) {
	id, err := r.I32()
	if err != nil {
		return nil, err
	}
	name, err := r.String()
	if err != nil {
		return nil, err
	}
	x, err := r.I32()
	if err != nil {
		return nil, err
	}
	y, err := r.I32()
	if err != nil {
		return nil, err
	}
	z, err := r.I32()
	if err != nil {
		return nil, err
	}
	yaw, err := r.I8()
	if err != nil {
		return nil, err
	}
	pitch, err := r.I8()
	if err != nil {
		return nil, err
	}
	item, err := r.I16()
	if err != nil {
		return nil, err
	}
	return NamedEntitySpawn{EntityID: id, Name: name, X: x, Y: y, Z: z, Yaw: yaw, Pitch: pitch, CurrentItem: item}, nil
}

// DestroyEntity (0x1D).
type DestroyEntity struct {
	EntityID int32
}

func (p DestroyEntity) ID() byte { return IDDestroyEntity }
func (p DestroyEntity) Encode(w *codec.Writer) {
	w.I32(p.EntityID)
}

func decodeDestroyEntity(r *codec.Reader) (Packet, error) {
	id, err := r.I32()
	if err != nil {
		return nil, err
	}
	return DestroyEntity{EntityID: id}, nil
}

// Entity (0x1E): a bare entity-exists marker, sent before relative-move or
// look updates so the client allocates the entity if it hasn't already.
type Entity struct {
	EntityID int32
}

func (p Entity) ID() byte { return IDEntity }
func (p Entity) Encode(w *codec.Writer) {
	w.I32(p.EntityID)
}

func decodeEntity(r *codec.Reader) (Packet, error) {
	id, err := r.I32()
	if err != nil {
		return nil, err
	}
	return Entity{EntityID: id}, nil
}

// EntityRelativeMove (0x1F).
type EntityRelativeMove struct {
	EntityID int32
	DX, DY, DZ int8
}

func (p EntityRelativeMove) ID() byte { return IDEntityRelativeMove }
func (p EntityRelativeMove) Encode(w *codec.Writer) {
	w.I32(p.EntityID)
	w.I8(p.DX)
	w.I8(p.DY)
	w.I8(p.DZ)
}

func decodeEntityRelativeMove(r *codec.Reader) (Packet, error) {
	id, err := r.I32()
	if err != nil {
		return nil, err
	}
	dx, err := r.I8()
	if err != nil {
		return nil, err
	}
	dy, err := r.I8()
	if err != nil {
		return nil, err
	}
	dz, err := r.I8()
	if err != nil {
		return nil, err
	}
	return EntityRelativeMove{EntityID: id, DX: dx, DY: dy, DZ: dz}, nil
}

// EntityLook (0x20).
type EntityLook struct {
	EntityID   int32
	Yaw, Pitch int8
}

func (p EntityLook) ID() byte { return IDEntityLook }
func (p EntityLook) Encode(w *codec.Writer) {
	w.I32(p.EntityID)
	w.I8(p.Yaw)
	w.I8(p.Pitch)
}

func decodeEntityLook(r *codec.Reader) (Packet, error) {
	id, err := r.I32()
	if err != nil {
		return nil, err
	}
	yaw, err := r.I8()
	if err != nil {
		return nil, err
	}
	pitch, err := r.I8()
	if err != nil {
		return nil, err
	}
	return EntityLook{EntityID: id, Yaw: yaw, Pitch: pitch}, nil
}

// EntityLookRelativeMove (0x21).
type EntityLookRelativeMove struct {
	EntityID   int32
	DX, DY, DZ int8
	Yaw, Pitch int8
}

func (p EntityLookRelativeMove) ID() byte { return IDEntityLookRelativeMove }
func (p EntityLookRelativeMove) Encode(w *codec.Writer) {
	w.I32(p.EntityID)
	w.I8(p.DX)
	w.I8(p.DY)
	w.I8(p.DZ)
	w.I8(p.Yaw)
	w.I8(p.Pitch)
}

func decodeEntityLookRelativeMove(r *codec.Reader) (Packet, error) {
	id, err := r.I32()
	if err != nil {
		return nil, err
	}
	dx, err := r.I8()
	if err != nil {
		return nil, err
	}
	dy, err := r.I8()
	if err != nil {
		return nil, err
	}
	dz, err := r.I8()
	if err != nil {
		return nil, err
	}
	yaw, err := r.I8()
	if err != nil {
		return nil, err
	}
	pitch, err := r.I8()
	if err != nil {
		return nil, err
	}
	return EntityLookRelativeMove{EntityID: id, DX: dx, DY: dy, DZ: dz, Yaw: yaw, Pitch: pitch}, nil
}

// EntityTeleport (0x22).
type EntityTeleport struct {
	EntityID   int32
	X, Y, Z    int32
	Yaw, Pitch int8
}

func (p EntityTeleport) ID() byte { return IDEntityTeleport }
func (p EntityTeleport) Encode(w *codec.Writer) {
	w.I32(p.EntityID)
	w.I32(p.X)
	w.I32(p.Y)
	w.I32(p.Z)
	w.I8(p.Yaw)
	w.I8(p.Pitch)
}

func decodeEntityTeleport(r *codec.Reader) (Packet, error) {
	id, err := r.I32()
	if err != nil {
		return nil, err
	}
	x, err := r.I32()
	if err != nil {
		return nil, err
	}
	y, err := r.I32()
	if err != nil {
		return nil, err
	}
	z, err := r.I32()
	if err != nil {
		return nil, err
	}
	yaw, err := r.I8()
	if err != nil {
		return nil, err
	}
	pitch, err := r.I8()
	if err != nil {
		return nil, err
	}
	return EntityTeleport{EntityID: id, X: x, Y: y, Z: z, Yaw: yaw, Pitch: pitch}, nil
}

// PreChunk (0x32). Mode true means "load", false means "unload".
type PreChunk struct {
	X, Z int32
	Mode bool
}

func (p PreChunk) ID() byte { return IDPreChunk }
func (p PreChunk) Encode(w *codec.Writer) {
	w.I32(p.X)
	w.I32(p.Z)
	w.Bool(p.Mode)
}

func decodePreChunk(r *codec.Reader) (Packet, error) {
	x, err := r.I32()
	if err != nil {
		return nil, err
	}
	z, err := r.I32()
	if err != nil {
		return nil, err
	}
	mode, err := r.Bool()
	if err != nil {
		return nil, err
	}
	return PreChunk{X: x, Z: z, Mode: mode}, nil
}

// MapChunk (0x33) ships a zlib-compressed blocks||data||blockLight||skyLight
// payload for one chunk column. SizeX/Y/Z are bounding-box sizes minus one,
// per the wire convention (§4.5: a full chunk is sent as 15,127,15).
type MapChunk struct {
	X              int32
	Y              int16
	Z              int32
	SizeX, SizeY, SizeZ uint8
	CompressedData []byte
}

func (p MapChunk) ID() byte { return IDMapChunk }
func (p MapChunk) Encode(w *codec.Writer) {
	w.I32(p.X)
	w.I16(p.Y)
	w.I32(p.Z)
	w.U8(p.SizeX)
	w.U8(p.SizeY)
	w.U8(p.SizeZ)
	w.I32(int32(len(p.CompressedData)))
	w.Raw(p.CompressedData)
}

func decodeMapChunk(r *codec.Reader) (Packet, error) {
	x, err := r.I32()
	if err != nil {
		return nil, err
	}
	y, err := r.I16()
	if err != nil {
		return nil, err
	}
	z, err := r.I32()
	if err != nil {
		return nil, err
	}
	sx, err := r.U8()
	if err != nil {
		return nil, err
	}
	sy, err := r.U8()
	if err != nil {
		return nil, err
	}
	sz, err := r.U8()
	if err != nil {
		return nil, err
	}
	size, err := r.I32()
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, InvalidInput{Msg: "negative chunk payload size"}
	}
	data, err := r.Bytes(int(size))
	if err != nil {
		return nil, err
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return MapChunk{X: x, Y: y, Z: z, SizeX: sx, SizeY: sy, SizeZ: sz, CompressedData: cp}, nil
}

// BlockChange (0x35).
type BlockChange struct {
	X        int32
	Y        int8
	Z        int32
	Type     int8
	Metadata int8
}

func (p BlockChange) ID() byte { return IDBlockChange }
func (p BlockChange) Encode(w *codec.Writer) {
	w.I32(p.X)
	w.I8(p.Y)
	w.I32(p.Z)
	w.I8(p.Type)
	w.I8(p.Metadata)
}

func decodeBlockChange(r *codec.Reader) (Packet, error) {
	x, err := r.I32()
	if err != nil {
		return nil, err
	}
	y, err := r.I8()
	if err != nil {
		return nil, err
	}
	z, err := r.I32()
	if err != nil {
		return nil, err
	}
	ty, err := r.I8()
	if err != nil {
		return nil, err
	}
	meta, err := r.I8()
	if err != nil {
		return nil, err
	}
	return BlockChange{X: x, Y: y, Z: z, Type: ty, Metadata: meta}, nil
}

// Kick (0xFF) is both the server's disconnect notice and the client's own
// disconnect request.
type Kick struct {
	Reason string
}

func (p Kick) ID() byte { return IDKick }
func (p Kick) Encode(w *codec.Writer) {
	w.String(p.Reason)
}

func decodeKick(r *codec.Reader) (Packet, error) {
	s, err := r.String()
	if err != nil {
		return nil, err
	}
	return Kick{Reason: s}, nil
}
