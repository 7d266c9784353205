package tactics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

// ErrInvalidInput marks errors caused by malformed positions or illegal
// moves. Callers can match it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// Snapshot is the position query facade. It owns a private board copy, so
// every query leaves the caller's state untouched; Apply returns a fresh
// snapshot instead of mutating the receiver.
type Snapshot struct {
	board dragontoothmg.Board
}

// NewSnapshot parses a FEN into a snapshot. Fails fast on malformed input
// or a board missing either king.
func NewSnapshot(fen string) (*Snapshot, error) {
	board, err := parseFEN(fen)
	if err != nil {
		return nil, err
	}
	s := &Snapshot{board: board}
	if s.board.White.Kings == 0 {
		return nil, fmt.Errorf("%w: no white king in %q", ErrInvalidInput, fen)
	}
	if s.board.Black.Kings == 0 {
		return nil, fmt.Errorf("%w: no black king in %q", ErrInvalidInput, fen)
	}
	return s, nil
}

// The underlying parser panics on garbage, so fence it off here.
func parseFEN(fen string) (board dragontoothmg.Board, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: malformed FEN %q: %v", ErrInvalidInput, fen, r)
		}
	}()
	if len(strings.Fields(fen)) < 4 {
		return board, fmt.Errorf("%w: malformed FEN %q", ErrInvalidInput, fen)
	}
	board = dragontoothmg.ParseFen(fen)
	return board, nil
}

func SnapshotFromBoard(board dragontoothmg.Board) *Snapshot {
	return &Snapshot{board: board}
}

func (s *Snapshot) Clone() *Snapshot {
	c := s.board
	return &Snapshot{board: c}
}

func (s *Snapshot) FEN() string {
	b := s.board
	return b.ToFen()
}

func (s *Snapshot) WhiteToMove() bool { return s.board.Wtomove }

func (s *Snapshot) FullMove() uint16 { return s.board.Fullmoveno }

func (s *Snapshot) Occupied() uint64 { return s.board.White.All | s.board.Black.All }

func (s *Snapshot) colorBB(white bool) *dragontoothmg.Bitboards {
	if white {
		return &s.board.White
	}
	return &s.board.Black
}

// PieceAt reports the piece on a square, if any.
func (s *Snapshot) PieceAt(sq uint8) (PieceRef, bool) {
	if pt, ok := pieceTypeOn(&s.board.White, sq); ok {
		return PieceRef{Square: sq, Type: pt, White: true}, true
	}
	if pt, ok := pieceTypeOn(&s.board.Black, sq); ok {
		return PieceRef{Square: sq, Type: pt, White: false}, true
	}
	return PieceRef{}, false
}

func pieceTypeOn(bb *dragontoothmg.Bitboards, sq uint8) (dragontoothmg.Piece, bool) {
	sqBB := PositionBB[sq]
	if bb.Pawns&sqBB > 0 {
		return dragontoothmg.Pawn, true
	} else if bb.Knights&sqBB > 0 {
		return dragontoothmg.Knight, true
	} else if bb.Bishops&sqBB > 0 {
		return dragontoothmg.Bishop, true
	} else if bb.Rooks&sqBB > 0 {
		return dragontoothmg.Rook, true
	} else if bb.Queens&sqBB > 0 {
		return dragontoothmg.Queen, true
	} else if bb.Kings&sqBB > 0 {
		return dragontoothmg.King, true
	}
	return 0, false
}

func (s *Snapshot) KingSquare(white bool) (uint8, bool) {
	kings := s.colorBB(white).Kings
	if kings == 0 {
		return 0, false
	}
	return uint8(trailingZeros(kings)), true
}

func (s *Snapshot) LegalMoves() []dragontoothmg.Move {
	b := s.board
	return b.GenerateLegalMoves()
}

func (s *Snapshot) IsCapture(m dragontoothmg.Move) bool {
	b := s.board
	return dragontoothmg.IsCapture(m, &b)
}

// Apply plays the move on a private copy and returns the resulting
// snapshot. The receiver is never touched.
func (s *Snapshot) Apply(m dragontoothmg.Move) *Snapshot {
	c := s.board
	c.Apply(m)
	return &Snapshot{board: c}
}

func (s *Snapshot) InCheck() bool {
	b := s.board
	return b.OurKingInCheck()
}

// GivesCheck reports whether the move leaves the opponent's king in check.
func (s *Snapshot) GivesCheck(m dragontoothmg.Move) bool {
	return s.Apply(m).InCheck()
}

// Attackers returns the bitboard of pieces of one side that attack the
// target square on the current occupancy. Sliders do not see through
// blockers; the exchange simulation gets xrays for free by recomputing
// after each capture.
func (s *Snapshot) Attackers(byWhite bool, target uint8) uint64 {
	us := s.colorBB(byWhite)
	occupancy := s.Occupied()
	targetBB := PositionBB[target]

	attackers := pawnAttackersOf(targetBB, us.Pawns, byWhite)
	attackers |= KnightMasks[target] & us.Knights
	attackers |= KingMasks[target] & us.Kings
	attackers |= dragontoothmg.CalculateRookMoveBitboard(target, occupancy) & (us.Rooks | us.Queens)
	attackers |= dragontoothmg.CalculateBishopMoveBitboard(target, occupancy) & (us.Bishops | us.Queens)
	return attackers
}

func (s *Snapshot) AttackerCount(byWhite bool, target uint8) int {
	return popcount(s.Attackers(byWhite, target))
}

// AttacksFrom returns the squares attacked by the piece on the given
// square, or 0 for an empty square.
func (s *Snapshot) AttacksFrom(sq uint8) uint64 {
	piece, ok := s.PieceAt(sq)
	if !ok {
		return 0
	}
	occupancy := s.Occupied()
	switch piece.Type {
	case dragontoothmg.Pawn:
		if piece.White {
			return whitePawnAttacks(PositionBB[sq])
		}
		return blackPawnAttacks(PositionBB[sq])
	case dragontoothmg.Knight:
		return KnightMasks[sq]
	case dragontoothmg.Bishop:
		return dragontoothmg.CalculateBishopMoveBitboard(sq, occupancy)
	case dragontoothmg.Rook:
		return dragontoothmg.CalculateRookMoveBitboard(sq, occupancy)
	case dragontoothmg.Queen:
		return dragontoothmg.CalculateRookMoveBitboard(sq, occupancy) |
			dragontoothmg.CalculateBishopMoveBitboard(sq, occupancy)
	case dragontoothmg.King:
		return KingMasks[sq]
	}
	return 0
}

// movesFor counts the legal moves a side would have if it were on turn.
// Used only for the coarse mobility delta in exchange prediction.
func (s *Snapshot) movesFor(white bool) int {
	b := s.board
	b.Wtomove = white
	return len(b.GenerateLegalMoves())
}

func squareName(sq uint8) string {
	return string([]byte{'a' + sq%8, '1' + sq/8})
}
