package tactics

const (
	bitboardFileA uint64 = 0x0101010101010101
	bitboardFileH uint64 = 0x8080808080808080
)

var PositionBB [64]uint64
var KingMasks [64]uint64
var KnightMasks [64]uint64

func init() {
	initPositionBB()
}

func initPositionBB() {
	for i := 0; i < 64; i++ {
		sqBB := uint64(1) << uint(i)
		PositionBB[i] = sqBB

		// King moves lookup table.
		top := sqBB << 8
		topRight := (sqBB << 8 << 1) & ^bitboardFileA
		topLeft := (sqBB << 8 >> 1) & ^bitboardFileH

		right := (sqBB << 1) & ^bitboardFileA
		left := (sqBB >> 1) & ^bitboardFileH

		bottom := sqBB >> 8
		bottomRight := (sqBB >> 8 << 1) & ^bitboardFileA
		bottomLeft := (sqBB >> 8 >> 1) & ^bitboardFileH

		KingMasks[i] = top | topRight | topLeft | right | left | bottom | bottomRight | bottomLeft

		// Knight moves lookup table, built from file/rank offsets so the
		// jumps can't wrap around the board edges.
		file := i % 8
		rank := i / 8
		offsets := [8][2]int{
			{1, 2}, {2, 1}, {2, -1}, {1, -2},
			{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
		}
		var knightBB uint64
		for _, off := range offsets {
			f := file + off[0]
			r := rank + off[1]
			if f >= 0 && f < 8 && r >= 0 && r < 8 {
				knightBB |= uint64(1) << uint(r*8+f)
			}
		}
		KnightMasks[i] = knightBB
	}
}

// Squares attacked by the given pawns, used both for attack maps and for
// finding pawns that attack a square (by shifting the target the other way).
func whitePawnAttacks(pawns uint64) uint64 {
	return ((pawns &^ bitboardFileA) << 7) | ((pawns &^ bitboardFileH) << 9)
}

func blackPawnAttacks(pawns uint64) uint64 {
	return ((pawns &^ bitboardFileH) >> 7) | ((pawns &^ bitboardFileA) >> 9)
}

func pawnAttackersOf(targetBB uint64, pawns uint64, byWhite bool) uint64 {
	if byWhite {
		return pawns & (((targetBB >> 7) &^ bitboardFileA) | ((targetBB >> 9) &^ bitboardFileH))
	}
	return pawns & (((targetBB << 7) &^ bitboardFileH) | ((targetBB << 9) &^ bitboardFileA))
}
