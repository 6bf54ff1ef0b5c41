package world

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// ErrChunkStillReferenced is returned by UnloadChunk when another holder
// (a player's PlayerChunkDB) still references the chunk; the caller should
// retry on a later tick (spec §4.3, §7 ChunkUnloadError).
var ErrChunkStillReferenced = errors.New("world: chunk still referenced")

type chunkKey struct{ x, z int32 }

// World is the global level resource: seed, spawn, time, on-disk size
// bookkeeping, and the chunk cache (spec §3 "World").
type World struct {
	path string

	mu       sync.Mutex
	seed     int64
	spawnX   int32
	spawnY   int32
	spawnZ   int32
	timeTicks uint64
	sizeOnDisk uint64
	lastPlayed uint64

	chunksMu sync.Mutex
	chunks   map[chunkKey]*ChunkHandle
}

// Spawn is the world's fixed spawn point.
type Spawn struct {
	X, Y, Z int32
}

// Open reads level.dat from the world directory and returns a ready World.
// It does not check that each of the Data compound's fields is present; a
// missing field is loaded as zero.
func Open(path string) (*World, error) {
	var root levelRoot
	if err := readGzipNBT(filepath.Join(path, "level.dat"), &root); err != nil {
		return nil, fmt.Errorf("open world %s: %w", path, err)
	}

	return &World{
		path:       path,
		seed:       root.Data.RandomSeed,
		spawnX:     root.Data.SpawnX,
		spawnY:     root.Data.SpawnY,
		spawnZ:     root.Data.SpawnZ,
		timeTicks:  uint64(root.Data.Time),
		sizeOnDisk: uint64(root.Data.SizeOnDisk),
		lastPlayed: uint64(root.Data.LastPlayed),
		chunks:     make(map[chunkKey]*ChunkHandle),
	}, nil
}

// Close rewrites level.dat with the current field values, a freshly
// computed on-disk directory size, and LastPlayed set to now (spec §4.3).
func (w *World) Close() error {
	w.mu.Lock()
	size, sizeErr := dirSize(w.path)
	if sizeErr == nil {
		w.sizeOnDisk = size
	}
	w.lastPlayed = uint64(time.Now().Unix())

	root := levelRoot{Data: levelFields{
		RandomSeed: w.seed,
		SpawnX:     w.spawnX,
		SpawnY:     w.spawnY,
		SpawnZ:     w.spawnZ,
		Time:       int64(w.timeTicks),
		SizeOnDisk: int64(w.sizeOnDisk),
		LastPlayed: int64(w.lastPlayed),
	}}
	w.mu.Unlock()

	return writeGzipNBT(filepath.Join(w.path, "level.dat"), &root)
}

func dirSize(root string) (uint64, error) {
	var total uint64
	err := filepath.Walk(root, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += uint64(info.Size())
		}
		return nil
	})
	return total, err
}

// Seed returns the world generation seed.
func (w *World) Seed() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.seed
}

// SpawnPoint returns the world's fixed spawn point.
func (w *World) SpawnPoint() Spawn {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Spawn{X: w.spawnX, Y: w.spawnY, Z: w.spawnZ}
}

// Time returns the current time-of-day tick counter.
func (w *World) Time() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.timeTicks
}

// SetTime stores t mod 24000, per spec invariant 7.
func (w *World) SetTime(t uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timeTicks = t % 24000
}

// chunkPath implements spec §6's on-disk naming convention:
// <world>/<h>/<l>/c.<xb36>.<zb36>.dat, where h/l = base36((coord as i8 as
// u8) % 64). Base-36 encoding is out of scope per spec §1 ("opaque
// filename encoder"), so the standard library's FormatInt covers it.
func chunkPath(root string, x, z int32) string {
	h := strconv.FormatInt(int64(byte(int8(x))%64), 36)
	l := strconv.FormatInt(int64(byte(int8(z))%64), 36)
	name := fmt.Sprintf("c.%s.%s.dat", strconv.FormatInt(int64(x), 36), strconv.FormatInt(int64(z), 36))
	return filepath.Join(root, h, l, name)
}

// GetChunk returns the cached handle for (x,z) or loads it from disk,
// inserting it into the cache before returning (spec §4.3).
func (w *World) GetChunk(x, z int32) (*ChunkHandle, error) {
	key := chunkKey{x, z}

	w.chunksMu.Lock()
	if h, ok := w.chunks[key]; ok {
		w.chunksMu.Unlock()
		return h, nil
	}
	w.chunksMu.Unlock()

	var root chunkRoot
	path := chunkPath(w.path, x, z)
	if err := readGzipNBT(path, &root); err != nil {
		return nil, fmt.Errorf("load chunk (%d,%d): %w", x, z, err)
	}
	chunk, err := chunkFromNBT(x, z, root)
	if err != nil {
		return nil, err
	}
	handle := &ChunkHandle{Chunk: chunk}

	w.chunksMu.Lock()
	if existing, ok := w.chunks[key]; ok {
		w.chunksMu.Unlock()
		return existing, nil
	}
	w.chunks[key] = handle
	w.chunksMu.Unlock()

	return handle, nil
}

// SaveChunk persists a chunk without evicting it from the cache.
func (w *World) SaveChunk(x, z int32) error {
	w.chunksMu.Lock()
	handle, ok := w.chunks[chunkKey{x, z}]
	w.chunksMu.Unlock()
	if !ok {
		return fmt.Errorf("save chunk (%d,%d): not loaded", x, z)
	}
	return persistChunk(w.path, handle.Chunk)
}

// UnloadChunk removes (x,z) from the cache and persists it, unless some
// other holder (a player's PlayerChunkDB) still references it — in which
// case it is reinserted and ErrChunkStillReferenced is returned so the
// caller can retry on a later tick (spec §4.3, §7).
func (w *World) UnloadChunk(x, z int32) error {
	key := chunkKey{x, z}

	w.chunksMu.Lock()
	handle, ok := w.chunks[key]
	if !ok {
		w.chunksMu.Unlock()
		return fmt.Errorf("unload chunk (%d,%d): not loaded", x, z)
	}
	if handle.RefCount() > 0 {
		w.chunksMu.Unlock()
		return ErrChunkStillReferenced
	}
	delete(w.chunks, key)
	w.chunksMu.Unlock()

	if err := persistChunk(w.path, handle.Chunk); err != nil {
		w.chunksMu.Lock()
		w.chunks[key] = handle
		w.chunksMu.Unlock()
		return err
	}
	return nil
}

func persistChunk(root string, c *Chunk) error {
	path := chunkPath(root, c.X, c.Z)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chunk dir for (%d,%d): %w", c.X, c.Z, err)
	}
	nbtRoot := chunkToNBT(c)
	return writeGzipNBT(path, &nbtRoot)
}
