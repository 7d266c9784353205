package tactics

import (
	"github.com/dylhunn/dragontoothmg"
)

// Exchange balances are kept in minor-piece units rather than centipawns:
// a traded knight and bishop cancel out exactly, and kings never count.
var ExchangeValue = [7]int{
	dragontoothmg.Pawn:   1,
	dragontoothmg.Knight: 3,
	dragontoothmg.Bishop: 3,
	dragontoothmg.Rook:   5,
	dragontoothmg.Queen:  9,
	dragontoothmg.King:   0,
}

// ExchangeSequence is the predicted forced-capture run on one square.
// MaterialBalance is signed toward the side that played the first move.
type ExchangeSequence struct {
	Moves           []dragontoothmg.Move `json:"-"`
	UCI             []string             `json:"moves"`
	MaterialBalance int                  `json:"material_balance"`
	PositionalGain  int                  `json:"positional_gain"`
	Forced          bool                 `json:"forced"`
	CapturePlies    int                  `json:"capture_plies"`
}

// EvaluateExchange runs a bounded greedy capture simulation: apply the
// move, then let the sides recapture on the destination square with their
// cheapest attacker until nobody can, up to maxPlies plies in total.
// It is best-effort: on any internal inconsistency it reports no exchange
// rather than failing, and it never mutates pre.
//
// Returns nil when fewer than two capture plies occur; a lone capture with
// no recapture is not an exchange worth reporting.
func EvaluateExchange(pre *Snapshot, mv dragontoothmg.Move, maxPlies int) (seq *ExchangeSequence) {
	defer func() {
		if r := recover(); r != nil {
			seq = nil
		}
	}()

	if maxPlies <= 0 {
		maxPlies = DefaultConfig().MaxExchangePlies
	}
	target := uint8(mv.To())
	whiteMover := pre.WhiteToMove()

	if _, ok := pre.PieceAt(uint8(mv.From())); !ok {
		return nil
	}

	balance := 0
	capturePlies := 0
	moves := []dragontoothmg.Move{mv}

	if pre.IsCapture(mv) {
		if victim, ok := pre.PieceAt(target); ok {
			balance = ExchangeValue[victim.Type]
		} else {
			// En passant: the destination square is empty, the victim is
			// always a pawn.
			balance = ExchangeValue[dragontoothmg.Pawn]
		}
		capturePlies = 1
	}

	cur := pre.Apply(mv)
	forced := true
	for ply := 1; ply < maxPlies; ply++ {
		recaptures := recapturesOn(cur, target)
		if len(recaptures) == 0 {
			break
		}
		if len(recaptures) > 1 {
			forced = false
		}
		victim, ok := cur.PieceAt(target)
		if !ok {
			break
		}
		gain := ExchangeValue[victim.Type]
		if cur.WhiteToMove() == whiteMover {
			balance += gain
		} else {
			balance -= gain
		}
		next := recaptures[0]
		moves = append(moves, next)
		cur = cur.Apply(next)
		capturePlies++
	}

	if capturePlies < 2 {
		return nil
	}

	uci := make([]string, len(moves))
	for i, m := range moves {
		uci[i] = m.String()
	}
	return &ExchangeSequence{
		Moves:           moves,
		UCI:             uci,
		MaterialBalance: balance,
		PositionalGain:  positionalGain(pre, cur, whiteMover),
		Forced:          forced,
		CapturePlies:    capturePlies,
	}
}

// recapturesOn lists the side-to-move's legal captures landing on the
// target square, cheapest moving piece first. Equal-value attackers are
// ordered by origin square in a1..h8 enumeration order; the tie-break is
// fixed so identical inputs always predict the identical sequence.
func recapturesOn(s *Snapshot, target uint8) []dragontoothmg.Move {
	var out []dragontoothmg.Move
	for _, m := range s.LegalMoves() {
		if uint8(m.To()) != target || !s.IsCapture(m) {
			continue
		}
		out = append(out, m)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && cheaperAttacker(s, out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func cheaperAttacker(s *Snapshot, a, b dragontoothmg.Move) bool {
	pa, _ := s.PieceAt(uint8(a.From()))
	pb, _ := s.PieceAt(uint8(b.From()))
	if ExchangeValue[pa.Type] != ExchangeValue[pb.Type] {
		return ExchangeValue[pa.Type] < ExchangeValue[pb.Type]
	}
	return a.From() < b.From()
}

// positionalGain is a coarse secondary signal for the whole simulated
// sequence: mobility delta weighted 2, king-safety delta weighted 5, both
// from the mover's point of view.
func positionalGain(before, after *Snapshot, whiteMover bool) int {
	mobility := after.movesFor(whiteMover) - before.movesFor(whiteMover)
	safety := kingSafety(after, whiteMover) - kingSafety(before, whiteMover)
	return mobility*2 + safety*5
}

// kingSafety counts friends minus enemies around each king: positive when
// the mover's king stands better guarded than the opponent's.
func kingSafety(s *Snapshot, whiteMover bool) int {
	return kingShelter(s, whiteMover) - kingShelter(s, !whiteMover)
}

func kingShelter(s *Snapshot, white bool) int {
	kingSq, ok := s.KingSquare(white)
	if !ok {
		return 0
	}
	zone := KingMasks[kingSq]
	defenders := popcount(zone & s.colorBB(white).All)
	attackers := popcount(zone & s.colorBB(!white).All)
	return defenders - attackers
}
