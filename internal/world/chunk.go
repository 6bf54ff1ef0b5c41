// Package world implements the chunked voxel world resource: the on-disk
// chunk loader, the in-memory shared-chunk cache, block access, wire-format
// compression, and level.dat/chunk persistence (spec §4.3, §4.4, §6).
package world

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/klauspost/compress/zlib"
)

// Chunk dimensions, per spec §3: a fixed 16×128×16 voxel column.
const (
	ChunkSizeX = 16
	ChunkSizeY = 128
	ChunkSizeZ = 16

	blocksLen = ChunkSizeX * ChunkSizeY * ChunkSizeZ
	nibbleLen = blocksLen / 2
	heightLen = ChunkSizeX * ChunkSizeZ
)

// OutOfRange is returned by GetBlock/SetBlock for coordinates outside the
// chunk's bounding box; it is reported rather than panicking, per spec §3.
type OutOfRange struct {
	X, Y, Z int
}

func (e OutOfRange) Error() string {
	return fmt.Sprintf("block (%d,%d,%d) out of chunk range", e.X, e.Y, e.Z)
}

// Chunk holds the five parallel byte arrays that make up one voxel column.
type Chunk struct {
	X, Z             int32
	TerrainPopulated bool
	LastUpdate       int64

	mu         sync.RWMutex
	blocks     [blocksLen]byte
	data       [nibbleLen]byte
	blockLight [nibbleLen]byte
	skyLight   [nibbleLen]byte
	heightMap  [heightLen]byte
}

func blockIndex(x, y, z int) (int, error) {
	if x < 0 || x >= ChunkSizeX || y < 0 || y >= ChunkSizeY || z < 0 || z >= ChunkSizeZ {
		return 0, OutOfRange{X: x, Y: y, Z: z}
	}
	return y + z*ChunkSizeY + x*ChunkSizeY*ChunkSizeZ, nil
}

// GetBlock returns the block type ID at the given in-chunk coordinates.
func (c *Chunk) GetBlock(x, y, z int) (byte, error) {
	idx, err := blockIndex(x, y, z)
	if err != nil {
		return 0, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[idx], nil
}

// SetBlock stores a new block type ID and returns the value it replaced.
func (c *Chunk) SetBlock(x, y, z int, v byte) (byte, error) {
	idx, err := blockIndex(x, y, z)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.blocks[idx]
	c.blocks[idx] = v
	return prev, nil
}

func nibbleGet(arr []byte, idx int) byte {
	b := arr[idx/2]
	if idx%2 == 0 {
		return b & 0x0F
	}
	return b >> 4
}

func nibbleSet(arr []byte, idx int, v byte) {
	v &= 0x0F
	if idx%2 == 0 {
		arr[idx/2] = (arr[idx/2] & 0xF0) | v
	} else {
		arr[idx/2] = (arr[idx/2] & 0x0F) | (v << 4)
	}
}

// GetData returns the data nibble at the given coordinates.
func (c *Chunk) GetData(x, y, z int) (byte, error) {
	idx, err := blockIndex(x, y, z)
	if err != nil {
		return 0, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return nibbleGet(c.data[:], idx), nil
}

// SetData stores a data nibble at the given coordinates.
func (c *Chunk) SetData(x, y, z int, v byte) error {
	idx, err := blockIndex(x, y, z)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	nibbleSet(c.data[:], idx, v)
	return nil
}

// CompressedData concatenates blocks||data||blockLight||skyLight and
// zlib-compresses it for the MapChunk wire payload (spec §4.3).
func (c *Chunk) CompressedData() (compressedLen int32, buf []byte, err error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw := make([]byte, 0, blocksLen+3*nibbleLen)
	raw = append(raw, c.blocks[:]...)
	raw = append(raw, c.data[:]...)
	raw = append(raw, c.blockLight[:]...)
	raw = append(raw, c.skyLight[:]...)

	var out bytes.Buffer
	zw, err := zlib.NewWriterLevel(&out, zlib.DefaultCompression)
	if err != nil {
		return 0, nil, err
	}
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return 0, nil, err
	}
	if err := zw.Close(); err != nil {
		return 0, nil, err
	}
	return int32(out.Len()), out.Bytes(), nil
}

// ChunkHandle is the shared, reference-counted handle to a Chunk. Its
// lifetime is the longer of: held by the world's chunk cache, or held by
// any player's PlayerChunkDB (spec §3 "Ownership").
type ChunkHandle struct {
	Chunk *Chunk
	refs  int32
}

// Acquire adds a reference, taken by a PlayerChunkDB when a chunk enters a
// player's loaded set.
func (h *ChunkHandle) Acquire() { atomic.AddInt32(&h.refs, 1) }

// Release removes a reference, taken when a chunk leaves a player's loaded
// set (spec §4.6 unload_chunks).
func (h *ChunkHandle) Release() { atomic.AddInt32(&h.refs, -1) }

// RefCount reports the current number of player-side references, used by
// World.UnloadChunk to decide whether eviction can persist immediately.
func (h *ChunkHandle) RefCount() int32 { return atomic.LoadInt32(&h.refs) }
