package tactics

import "math/bits"

// Min returns the smaller of x or y.
func Min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

// Max returns the larger of x or y.
func Max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

// abs32 returns the absolute value of x.
func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

func popcount(bb uint64) int { return bits.OnesCount64(bb) }

func trailingZeros(bb uint64) int { return bits.TrailingZeros64(bb) }
