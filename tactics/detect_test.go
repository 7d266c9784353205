package tactics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, fen, move string, before, after int32, ctx *Context) *PatternRecord {
	t.Helper()
	rec, err := New(DefaultConfig(), nil).AnalyzeMove(fen, move, Eval{Total: before}, Eval{Total: after}, ctx)
	require.NoError(t, err)
	return rec
}

func hasMotif(rec *PatternRecord, m Motif) bool {
	if rec == nil {
		return false
	}
	for _, got := range rec.Motifs {
		if got == m {
			return true
		}
	}
	return false
}

func TestForkDetection(t *testing.T) {
	// Nd5+ hits the king on c7 and the rook on e7.
	rec := analyze(t, "8/2k1r3/8/8/8/4N3/8/4K3 w - - 0 1", "e3d5", 0, 0, nil)
	require.NotNil(t, rec)
	require.True(t, hasMotif(rec, MotifFork))

	var forker int
	var targets int
	targetSquares := map[uint8]bool{}
	for _, p := range rec.Participants {
		switch p.Role {
		case RoleAttacker:
			forker++
		case RoleTarget:
			targets++
			targetSquares[p.Piece.Square] = true
		}
	}
	assert.GreaterOrEqual(t, forker, 1, "fork must include the forking piece")
	assert.GreaterOrEqual(t, targets, 2, "fork must include at least two targets")
	assert.Equal(t, len(targetSquares), targets, "fork targets must be distinct pieces")
}

func TestNoForkWithSingleTarget(t *testing.T) {
	// Knight attacks only the rook; king is out of range.
	rec := analyze(t, "7k/4r3/8/8/8/4N3/8/4K3 w - - 0 1", "e3d5", 0, 0, nil)
	assert.False(t, hasMotif(rec, MotifFork))
}

func TestPinDetection(t *testing.T) {
	// Re1 pins the knight on e5 against the king on e8.
	rec := analyze(t, "4k3/8/8/4n3/8/8/8/R5K1 w - - 0 1", "a1e1", 0, 0, nil)
	require.NotNil(t, rec)
	require.True(t, hasMotif(rec, MotifPin))

	var pinned []PieceParticipant
	for _, p := range rec.Participants {
		if p.Role == RolePinned {
			pinned = append(pinned, p)
		}
	}
	require.Len(t, pinned, 1, "exactly one pinned piece")
	assert.Equal(t, uint8(36), pinned[0].Piece.Square, "pinned piece on e5")
	assert.False(t, pinned[0].Piece.White, "pinned piece must be enemy-colored")
}

func TestNoPinThroughTwoBlockers(t *testing.T) {
	// Knight on e5 and pawn on e7 both sit on the ray; no pin.
	rec := analyze(t, "4k3/4p3/8/4n3/8/8/8/R5K1 w - - 0 1", "a1e1", 0, 0, nil)
	assert.False(t, hasMotif(rec, MotifPin))
}

func TestNoPinOnDirectAttack(t *testing.T) {
	// Empty ray between rook and king is a check, not a pin.
	rec := analyze(t, "4k3/8/8/8/8/8/8/R5K1 w - - 0 1", "a1e1", 0, 0, nil)
	assert.False(t, hasMotif(rec, MotifPin))
}

func TestHangingPieceDetection(t *testing.T) {
	// After Qa3 the rook on a5 is attacked and has no defender.
	rec := analyze(t, "4k3/8/8/r7/8/8/8/Q3K3 w - - 0 1", "a1a3", 0, 0, nil)
	require.NotNil(t, rec)
	require.True(t, hasMotif(rec, MotifHangingPiece))

	var hangingSquares []uint8
	for _, p := range rec.Participants {
		if p.Role == RoleHanging {
			hangingSquares = append(hangingSquares, p.Piece.Square)
		}
	}
	assert.Equal(t, []uint8{4*8 + 0}, hangingSquares, "rook on a5 hangs")
}

func TestSacrificeDetection(t *testing.T) {
	// Bg6 walks into two pawn attacks with no defender while the eval says
	// the mover is better for it.
	rec := analyze(t, "4k3/5p1p/8/8/8/3B4/8/4K3 w - - 0 1", "d3g6", 0, 180, nil)
	require.NotNil(t, rec)
	assert.True(t, hasMotif(rec, MotifSacrifice))
	assert.True(t, hasMotif(rec, MotifTacticalMoment), "180cp swing is also a tactical moment")
}

func TestCaptureIsNeverSacrifice(t *testing.T) {
	// Qxd5 loses the queen for a pawn, but a capture is an exchange, not a
	// sacrifice.
	rec := analyze(t, "3k4/8/4p3/3p4/8/8/8/3QK3 w - - 0 1", "d1d5", 0, 180, nil)
	assert.False(t, hasMotif(rec, MotifSacrifice))
}

func TestOpeningTrickDetection(t *testing.T) {
	ctx := &Context{RecentOrigins: []uint8{6}} // g1 moved recently
	rec := analyze(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "g1f3", 0, 0, ctx)
	require.NotNil(t, rec)
	assert.True(t, hasMotif(rec, MotifOpeningTrick))
}

func TestOpeningTrickNeedsHistory(t *testing.T) {
	rec := analyze(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "g1f3", 0, 0, nil)
	assert.False(t, hasMotif(rec, MotifOpeningTrick))
}

func TestEndgameTechniqueDetection(t *testing.T) {
	rec := analyze(t, "8/8/8/3k4/8/3K4/4R3/8 w - - 0 1", "e2e5", 240, 250, nil)
	require.NotNil(t, rec)
	assert.True(t, hasMotif(rec, MotifEndgameTechnique))
	assert.True(t, rec.IsCheck)
}

func TestEndgameTechniqueRespectsPieceLimit(t *testing.T) {
	// A full board is no endgame no matter the eval.
	rec := analyze(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "e2e4", 0, 250, nil)
	assert.False(t, hasMotif(rec, MotifEndgameTechnique))
}

func TestCriticalDecisionDetection(t *testing.T) {
	ctx := &Context{AlternativesCount: 7}
	rec := analyze(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "e2e4", 0, 10, ctx)
	require.NotNil(t, rec)
	assert.True(t, hasMotif(rec, MotifCriticalDecision))
}

func TestCriticalDecisionNeedsContext(t *testing.T) {
	rec := analyze(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "e2e4", 0, 10, nil)
	assert.Nil(t, rec, "quiet opening move without context yields nothing")
}

// A quiet developing move with a small eval change produces no record.
func TestQuietMoveYieldsNothing(t *testing.T) {
	rec := analyze(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "e2e4", 0, 10, nil)
	assert.Nil(t, rec)
}

func TestAnalysisIsDeterministic(t *testing.T) {
	fen := "4k3/5p1p/8/8/8/3B4/8/4K3 w - - 0 1"
	a := analyze(t, fen, "d3g6", 0, 180, nil)
	b := analyze(t, fen, "d3g6", 0, 180, nil)
	require.NotNil(t, a)
	assert.Equal(t, a, b)
}

func TestIllegalMoveRejected(t *testing.T) {
	_, err := New(DefaultConfig(), nil).AnalyzeMove(
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"e2e5", Eval{}, Eval{}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
