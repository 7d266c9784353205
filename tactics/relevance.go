package tactics

import (
	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/slices"
)

// RelevanceResult names the squares that causally explain a move's
// detections, and the ones that don't.
type RelevanceResult struct {
	RelevantSquares   []uint8
	IrrelevantSquares []uint8
	// Score is the share of occupied squares that matter, in [0,1].
	Score float64
	// PerMotif maps each fired motif to the squares explaining just it.
	PerMotif map[Motif][]uint8
}

// FilterRelevance computes the minimal square set that explains the given
// detections. The move's endpoints are always relevant; participants and,
// for breakable motifs, the squares able to break them are unioned in,
// then the one-ply attackers and defenders of both endpoints.
func FilterRelevance(post *Snapshot, mv dragontoothmg.Move, detections []Detection) RelevanceResult {
	from := uint8(mv.From())
	to := uint8(mv.To())
	whiteMover := !post.WhiteToMove()

	relevant := PositionBB[from] | PositionBB[to]
	perMotif := make(map[Motif][]uint8, len(detections))
	kingsMatter := false

	for i := range detections {
		det := &detections[i]
		motifBB := PositionBB[from] | PositionBB[to]
		for _, p := range det.Participants {
			motifBB |= PositionBB[p.Piece.Square]
		}
		motifBB |= breakerSquares(post, det, mv, whiteMover)
		switch det.Motif {
		case MotifPin, MotifHangingPiece, MotifSacrifice:
			kingsMatter = true
		case MotifTacticalMoment, MotifFork, MotifOpeningTrick, MotifEndgameTechnique, MotifCriticalDecision:
		}
		relevant |= motifBB
		perMotif[det.Motif] = bbToSquares(motifBB)
	}

	// One ply of attackers and defenders of the move's endpoints, both
	// colors, no recursion.
	for _, sq := range [2]uint8{from, to} {
		relevant |= post.Attackers(true, sq)
		relevant |= post.Attackers(false, sq)
	}

	if kingsMatter {
		if k, ok := post.KingSquare(true); ok {
			relevant |= PositionBB[k]
		}
		if k, ok := post.KingSquare(false); ok {
			relevant |= PositionBB[k]
		}
	}

	occupied := post.Occupied()
	score := 0.0
	if occupied != 0 {
		// Relevant squares can be empty (the origin square always is), so
		// the ratio counts occupied ones only to stay within [0,1].
		score = float64(popcount(relevant&occupied)) / float64(popcount(occupied))
	}

	return RelevanceResult{
		RelevantSquares:   bbToSquares(relevant),
		IrrelevantSquares: bbToSquares(occupied &^ relevant),
		Score:             score,
		PerMotif:          perMotif,
	}
}

// breakerSquares finds pieces that could defuse a motif: capture the
// pinning or sacrificed piece, interpose on the pin ray, or trade on the
// contested square.
func breakerSquares(post *Snapshot, det *Detection, mv dragontoothmg.Move, whiteMover bool) uint64 {
	to := uint8(mv.To())
	var bb uint64
	switch det.Motif {
	case MotifTacticalMoment, MotifSacrifice:
		bb |= post.Attackers(true, to)
		bb |= post.Attackers(false, to)
	case MotifPin:
		var pinnedSq uint8
		var havePinned bool
		for _, p := range det.Participants {
			if p.Role == RolePinned {
				pinnedSq = p.Piece.Square
				havePinned = true
			}
		}
		if !havePinned {
			return 0
		}
		bb |= post.Attackers(whiteMover, pinnedSq)
		bb |= post.Attackers(!whiteMover, pinnedSq)
		if kingSq, ok := post.KingSquare(!whiteMover); ok {
			if ray, _, aligned := rayBetween(to, kingSq); aligned {
				// Interposers: the pinned side's pieces that can step onto
				// the ray. The pinned side is on move in the post position.
				for _, m := range post.LegalMoves() {
					if ray&PositionBB[uint8(m.To())] != 0 {
						bb |= PositionBB[uint8(m.From())]
					}
				}
			}
		}
	case MotifFork, MotifHangingPiece, MotifOpeningTrick, MotifEndgameTechnique, MotifCriticalDecision:
	}
	return bb
}

func bbToSquares(bb uint64) []uint8 {
	out := make([]uint8, 0, popcount(bb))
	for b := bb; b != 0; b &= b - 1 {
		out = append(out, uint8(trailingZeros(b)))
	}
	slices.Sort(out)
	return out
}
