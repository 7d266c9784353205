package tactics

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/slices"
)

// Valuable piece types a fork has to hit; pawns don't count as fork targets.
var forkTargetTypes = map[dragontoothmg.Piece]bool{
	dragontoothmg.King:   true,
	dragontoothmg.Queen:  true,
	dragontoothmg.Rook:   true,
	dragontoothmg.Bishop: true,
	dragontoothmg.Knight: true,
}

// Center squares d4, e4, d5, e5.
var centerSquares = [4]uint8{27, 28, 35, 36}

// detectInput bundles everything a detector may look at. All snapshots are
// private copies; detectors must not mutate anything reachable from here.
type detectInput struct {
	cfg        Config
	pre        *Snapshot
	post       *Snapshot
	move       dragontoothmg.Move
	evalBefore Eval
	evalAfter  Eval
	ctx        *Context
	whiteMover bool
	capture    bool
}

func (in *detectInput) from() uint8 { return uint8(in.move.From()) }
func (in *detectInput) to() uint8   { return uint8(in.move.To()) }

func (in *detectInput) evalChange() int32 { return in.evalAfter.Total - in.evalBefore.Total }

// moverGain is the evaluation change seen from the moving side, assuming
// the caller's totals are white-positive.
func (in *detectInput) moverGain() int32 {
	if in.whiteMover {
		return in.evalChange()
	}
	return -in.evalChange()
}

// movedPiece is the mover as it stands after the move (promotions show the
// promoted piece).
func (in *detectInput) movedPiece() (PieceRef, bool) {
	piece, ok := in.post.PieceAt(in.to())
	if !ok || piece.White != in.whiteMover {
		return PieceRef{}, false
	}
	return piece, true
}

// newlyAttacked lists enemy pieces the mover attacks from its destination
// but did not attack from its origin.
func (in *detectInput) newlyAttacked() []PieceRef {
	enemy := in.post.colorBB(!in.whiteMover).All
	now := in.post.AttacksFrom(in.to()) & enemy
	before := in.pre.AttacksFrom(in.from()) & in.pre.colorBB(!in.whiteMover).All
	fresh := now &^ before
	var out []PieceRef
	for bb := fresh; bb != 0; bb &= bb - 1 {
		sq := uint8(trailingZeros(bb))
		if piece, ok := in.post.PieceAt(sq); ok {
			out = append(out, piece)
		}
	}
	return out
}

// The detectors run in this order; it is fixed so analysis output is
// deterministic.
var detectors = []func(*detectInput) *Detection{
	detectTacticalMoment,
	detectFork,
	detectPin,
	detectHangingPiece,
	detectSacrifice,
	detectOpeningTrick,
	detectEndgameTechnique,
	detectCriticalDecision,
}

func detectTacticalMoment(in *detectInput) *Detection {
	if abs32(in.evalChange()) <= in.cfg.TacticalMomentThreshold {
		return nil
	}
	mover, ok := in.movedPiece()
	if !ok {
		return nil
	}
	participants := []PieceParticipant{{Piece: mover, Role: RoleMover, Importance: 1.0}}
	for bb := in.post.Attackers(in.whiteMover, in.to()); bb != 0; bb &= bb - 1 {
		if piece, ok := in.post.PieceAt(uint8(trailingZeros(bb))); ok {
			participants = append(participants, PieceParticipant{Piece: piece, Role: RoleDefender, Importance: 0.4})
		}
	}
	for bb := in.post.Attackers(!in.whiteMover, in.to()); bb != 0; bb &= bb - 1 {
		if piece, ok := in.post.PieceAt(uint8(trailingZeros(bb))); ok {
			participants = append(participants, PieceParticipant{Piece: piece, Role: RoleAttacker, Importance: 0.5})
		}
	}
	return &Detection{
		Motif:        MotifTacticalMoment,
		Description:  fmt.Sprintf("evaluation swings by %d centipawns after %s", in.evalChange(), in.move.String()),
		Participants: participants,
	}
}

func detectFork(in *detectInput) *Detection {
	mover, ok := in.movedPiece()
	if !ok {
		return nil
	}
	if mover.Type != dragontoothmg.Knight && mover.Type != dragontoothmg.Bishop {
		return nil
	}
	enemy := in.post.colorBB(!in.whiteMover).All
	attacked := in.post.AttacksFrom(in.to()) & enemy

	// Count distinct attacked pieces, not attacked squares.
	var targets []PieceRef
	for bb := attacked; bb != 0; bb &= bb - 1 {
		piece, ok := in.post.PieceAt(uint8(trailingZeros(bb)))
		if ok && forkTargetTypes[piece.Type] {
			targets = append(targets, piece)
		}
	}
	if len(targets) < 2 {
		return nil
	}

	participants := []PieceParticipant{{Piece: mover, Role: RoleAttacker, Importance: 0.9}}
	for i, t := range targets {
		if i == 3 {
			break
		}
		participants = append(participants, PieceParticipant{Piece: t, Role: RoleTarget, Importance: 0.8})
	}
	return &Detection{
		Motif:        MotifFork,
		Description:  fmt.Sprintf("%s forks %d pieces", mover, len(targets)),
		Participants: participants,
	}
}

func detectPin(in *detectInput) *Detection {
	mover, ok := in.movedPiece()
	if !ok {
		return nil
	}
	switch mover.Type {
	case dragontoothmg.Bishop, dragontoothmg.Rook, dragontoothmg.Queen:
	default:
		return nil
	}
	kingSq, ok := in.post.KingSquare(!in.whiteMover)
	if !ok {
		return nil
	}
	between, diagonal, aligned := rayBetween(in.to(), kingSq)
	if !aligned || !rayFitsPiece(mover.Type, diagonal) {
		return nil
	}
	// A pin needs exactly one piece between attacker and king, and it must
	// be an enemy one. Zero means the king is simply attacked, more than
	// one means the ray is blocked.
	occupiedBetween := between & in.post.Occupied()
	if popcount(occupiedBetween) != 1 {
		return nil
	}
	pinnedSq := uint8(trailingZeros(occupiedBetween))
	pinned, ok := in.post.PieceAt(pinnedSq)
	if !ok || pinned.White == in.whiteMover {
		return nil
	}
	king, _ := in.post.PieceAt(kingSq)
	return &Detection{
		Motif:       MotifPin,
		Description: fmt.Sprintf("%s pins %s against the king", mover, pinned),
		Participants: []PieceParticipant{
			{Piece: mover, Role: RoleAttacker, Importance: 0.9},
			{Piece: pinned, Role: RolePinned, Importance: 0.8},
			{Piece: king, Role: RoleTarget, Importance: 0.7},
		},
	}
}

func detectHangingPiece(in *detectInput) *Detection {
	var hanging []PieceRef
	enemyAll := in.post.colorBB(!in.whiteMover).All
	for bb := enemyAll; bb != 0; bb &= bb - 1 {
		sq := uint8(trailingZeros(bb))
		piece, ok := in.post.PieceAt(sq)
		if !ok || piece.Type == dragontoothmg.Pawn || piece.Type == dragontoothmg.King {
			// An attacked king with no defenders is a check, not a hang.
			continue
		}
		if in.post.AttackerCount(in.whiteMover, sq) > 0 && in.post.AttackerCount(!in.whiteMover, sq) == 0 {
			hanging = append(hanging, piece)
			if len(hanging) == 3 {
				break
			}
		}
	}
	if len(hanging) == 0 {
		return nil
	}
	participants := make([]PieceParticipant, 0, len(hanging))
	for _, piece := range hanging {
		participants = append(participants, PieceParticipant{Piece: piece, Role: RoleHanging, Importance: 0.8})
	}
	return &Detection{
		Motif:        MotifHangingPiece,
		Description:  fmt.Sprintf("%d undefended pieces under attack", len(hanging)),
		Participants: participants,
	}
}

// A capture is a material exchange, never a sacrifice, even when it nets a
// loss; the stricter of the source's two policies, recorded in DESIGN.md.
func detectSacrifice(in *detectInput) *Detection {
	if in.capture {
		return nil
	}
	mover, ok := in.movedPiece()
	if !ok {
		return nil
	}
	attackers := in.post.AttackerCount(!in.whiteMover, in.to())
	defenders := in.post.AttackerCount(in.whiteMover, in.to())
	if attackers <= defenders {
		return nil
	}
	if in.moverGain() <= 0 {
		return nil
	}
	participants := []PieceParticipant{{Piece: mover, Role: RoleMover, Importance: 1.0}}
	for _, piece := range in.newlyAttacked() {
		participants = append(participants, PieceParticipant{Piece: piece, Role: RoleBeneficiary, Importance: 0.6})
	}
	return &Detection{
		Motif:        MotifSacrifice,
		Description:  fmt.Sprintf("%s offered on %s (%d attackers vs %d defenders)", mover, squareName(in.to()), attackers, defenders),
		Participants: participants,
	}
}

func detectOpeningTrick(in *detectInput) *Detection {
	if in.pre.FullMove() > in.cfg.OpeningMoveLimit {
		return nil
	}
	if in.ctx == nil || !slices.Contains(in.ctx.RecentOrigins, in.from()) {
		return nil
	}
	mover, ok := in.movedPiece()
	if !ok {
		return nil
	}
	participants := []PieceParticipant{{Piece: mover, Role: RoleMover, Importance: 0.9}}
	for _, piece := range in.newlyAttacked() {
		participants = append(participants, PieceParticipant{Piece: piece, Role: RoleTarget, Importance: 0.6})
	}
	return &Detection{
		Motif:        MotifOpeningTrick,
		Description:  fmt.Sprintf("%s maneuvers again from %s in the opening", mover, squareName(in.from())),
		Participants: participants,
	}
}

func detectEndgameTechnique(in *detectInput) *Detection {
	board := in.post
	minorMajor := popcount(board.Occupied() &^
		(board.colorBB(true).Pawns | board.colorBB(false).Pawns |
			board.colorBB(true).Kings | board.colorBB(false).Kings))
	if minorMajor > in.cfg.EndgamePieceLimit {
		return nil
	}
	if abs32(in.evalAfter.Total) <= in.cfg.EndgameEvalThreshold {
		return nil
	}
	var participants []PieceParticipant
	nonPawns := board.Occupied() &^ (board.colorBB(true).Pawns | board.colorBB(false).Pawns)
	for bb := nonPawns; bb != 0 && len(participants) < 8; bb &= bb - 1 {
		if piece, ok := board.PieceAt(uint8(trailingZeros(bb))); ok {
			participants = append(participants, PieceParticipant{Piece: piece, Role: RoleEndgamePiece, Importance: 0.5})
		}
	}
	return &Detection{
		Motif:        MotifEndgameTechnique,
		Description:  fmt.Sprintf("decisive endgame position with %d pieces beyond kings and pawns", minorMajor),
		Participants: participants,
	}
}

// detectCriticalDecision consumes pre-computed context; it never searches
// alternatives itself.
func detectCriticalDecision(in *detectInput) *Detection {
	if in.ctx == nil || in.ctx.AlternativesCount <= in.cfg.CriticalAlternatives {
		return nil
	}
	mover, ok := in.movedPiece()
	if !ok {
		return nil
	}
	participants := []PieceParticipant{{Piece: mover, Role: RoleMover, Importance: 0.9}}
	for _, sq := range centerSquares {
		if piece, ok := in.post.PieceAt(sq); ok {
			participants = append(participants, PieceParticipant{Piece: piece, Role: RoleCenterControl, Importance: 0.4})
		}
	}
	return &Detection{
		Motif:        MotifCriticalDecision,
		Description:  fmt.Sprintf("chosen over %d alternatives", in.ctx.AlternativesCount),
		Participants: participants,
	}
}

// rayBetween returns the squares strictly between two aligned squares, plus
// whether the line is diagonal and whether the squares align at all.
func rayBetween(from, to uint8) (between uint64, diagonal, aligned bool) {
	if from == to {
		return 0, false, false
	}
	df := int(to%8) - int(from%8)
	dr := int(to/8) - int(from/8)
	switch {
	case df == 0 || dr == 0:
		diagonal = false
	case df == dr || df == -dr:
		diagonal = true
	default:
		return 0, false, false
	}
	step := sign(dr)*8 + sign(df)
	for sq := int(from) + step; sq != int(to); sq += step {
		between |= PositionBB[sq]
	}
	return between, diagonal, true
}

func rayFitsPiece(t dragontoothmg.Piece, diagonal bool) bool {
	switch t {
	case dragontoothmg.Bishop:
		return diagonal
	case dragontoothmg.Rook:
		return !diagonal
	case dragontoothmg.Queen:
		return true
	}
	return false
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
