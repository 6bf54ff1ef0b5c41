package systems

import "math"

// packAngle implements spec §4.6's yaw/pitch packing: scale degrees into
// the protocol's 255-unit circle, then apply the two wrap adjustments
// that keep the result representable as a signed byte.
func packAngle(deg float32) int8 {
	short := int64(math.Round(float64(deg) / 360.0 * 255.0))
	if short != 0 {
		short %= 255
	}
	switch {
	case short < -128:
		short = 127 - abs64(short+128)
	case short > 128:
		short = -128 + abs64(short-128)
	}
	return int8(short)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// scale32 converts a world-space coordinate to the protocol's fixed-point
// representation (1 block = 32 units), rounding to the nearest unit.
func scale32(v float64) int32 {
	return int32(math.Round(v * 32))
}

func maxAbs32(vs ...int32) int32 {
	var m int32
	for _, v := range vs {
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}

func floorDiv16(v int32) int32 {
	return v >> 4
}

// blockFloor truncates a world-space coordinate down to its containing
// block, matching spec §4.6's floor(x).
func blockFloor(v float64) int32 {
	return int32(math.Floor(v))
}

// chunkOf returns the chunk coordinate containing world-space (x, z).
func chunkOf(x, z float64) (int32, int32) {
	return floorDiv16(blockFloor(x)), floorDiv16(blockFloor(z))
}

func mod16(v int32) int {
	return int(v & 15)
}
