package world

import "fmt"

// levelRoot mirrors level.dat's root compound: a single nested "Data" tag
// carrying world metadata (spec §6 "level.dat Data compound fields").
type levelRoot struct {
	Data levelFields `nbt:"Data"`
}

type levelFields struct {
	RandomSeed int64 `nbt:"RandomSeed"`
	SpawnX     int32 `nbt:"SpawnX"`
	SpawnY     int32 `nbt:"SpawnY"`
	SpawnZ     int32 `nbt:"SpawnZ"`
	Time       int64 `nbt:"Time"`
	SizeOnDisk int64 `nbt:"SizeOnDisk"`
	LastPlayed int64 `nbt:"LastPlayed"`
}

// chunkRoot mirrors a chunk file's root compound: a nested "Level" tag
// (spec §6 "Chunk Level compound fields").
type chunkRoot struct {
	Level chunkFields `nbt:"Level"`
}

type chunkFields struct {
	TerrainPopulated byte   `nbt:"TerrainPopulated"`
	LastUpdate       int64  `nbt:"LastUpdate"`
	Blocks           []byte `nbt:"Blocks"`
	Data             []byte `nbt:"Data"`
	BlockLight       []byte `nbt:"BlockLight"`
	SkyLight         []byte `nbt:"SkyLight"`
	HeightMap        []byte `nbt:"HeightMap"`
}

func chunkToNBT(c *Chunk) chunkRoot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	terrainPopulated := byte(0)
	if c.TerrainPopulated {
		terrainPopulated = 1
	}

	fields := chunkFields{
		TerrainPopulated: terrainPopulated,
		LastUpdate:       c.LastUpdate,
		Blocks:           append([]byte(nil), c.blocks[:]...),
		Data:             append([]byte(nil), c.data[:]...),
		BlockLight:       append([]byte(nil), c.blockLight[:]...),
		SkyLight:         append([]byte(nil), c.skyLight[:]...),
		HeightMap:        append([]byte(nil), c.heightMap[:]...),
	}
	return chunkRoot{Level: fields}
}

func chunkFromNBT(x, z int32, root chunkRoot) (*Chunk, error) {
	f := root.Level
	if len(f.Blocks) != blocksLen {
		return nil, fmt.Errorf("chunk (%d,%d): Blocks length %d, want %d", x, z, len(f.Blocks), blocksLen)
	}
	if len(f.Data) != nibbleLen {
		return nil, fmt.Errorf("chunk (%d,%d): Data length %d, want %d", x, z, len(f.Data), nibbleLen)
	}
	if len(f.BlockLight) != nibbleLen {
		return nil, fmt.Errorf("chunk (%d,%d): BlockLight length %d, want %d", x, z, len(f.BlockLight), nibbleLen)
	}
	if len(f.SkyLight) != nibbleLen {
		return nil, fmt.Errorf("chunk (%d,%d): SkyLight length %d, want %d", x, z, len(f.SkyLight), nibbleLen)
	}
	if len(f.HeightMap) != heightLen {
		return nil, fmt.Errorf("chunk (%d,%d): HeightMap length %d, want %d", x, z, len(f.HeightMap), heightLen)
	}

	c := &Chunk{X: x, Z: z, TerrainPopulated: f.TerrainPopulated != 0, LastUpdate: f.LastUpdate}
	copy(c.blocks[:], f.Blocks)
	copy(c.data[:], f.Data)
	copy(c.blockLight[:], f.BlockLight)
	copy(c.skyLight[:], f.SkyLight)
	copy(c.heightMap[:], f.HeightMap)
	return c, nil
}
