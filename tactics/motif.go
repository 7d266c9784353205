package tactics

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"
)

// Motif is the closed set of tactical patterns the detectors can report.
// The assembler switches over it exhaustively, so a new motif that is not
// handled everywhere fails to compile rather than falling through a string
// comparison.
type Motif uint8

const (
	MotifTacticalMoment Motif = iota
	MotifFork
	MotifPin
	MotifHangingPiece
	MotifSacrifice
	MotifOpeningTrick
	MotifEndgameTechnique
	MotifCriticalDecision
)

func (m Motif) String() string {
	switch m {
	case MotifTacticalMoment:
		return "tactical_moment"
	case MotifFork:
		return "fork"
	case MotifPin:
		return "pin"
	case MotifHangingPiece:
		return "hanging_piece"
	case MotifSacrifice:
		return "sacrifice"
	case MotifOpeningTrick:
		return "opening_trick"
	case MotifEndgameTechnique:
		return "endgame_technique"
	case MotifCriticalDecision:
		return "critical_decision"
	}
	return fmt.Sprintf("motif(%d)", uint8(m))
}

func (m Motif) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Role tags how a participant relates to the motif it appears in.
type Role uint8

const (
	RoleMover Role = iota
	RoleTarget
	RoleAttacker
	RoleDefender
	RolePinned
	RoleHanging
	RoleExchanger
	RoleExchanged
	RoleBeneficiary
	RoleCenterControl
	RoleEndgamePiece
)

func (r Role) String() string {
	switch r {
	case RoleMover:
		return "mover"
	case RoleTarget:
		return "target"
	case RoleAttacker:
		return "attacker"
	case RoleDefender:
		return "defender"
	case RolePinned:
		return "pinned"
	case RoleHanging:
		return "hanging"
	case RoleExchanger:
		return "exchanger"
	case RoleExchanged:
		return "exchanged"
	case RoleBeneficiary:
		return "beneficiary"
	case RoleCenterControl:
		return "center_control"
	case RoleEndgamePiece:
		return "endgame_piece"
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// PieceRef identifies a piece on a square. Read-only, derived from a
// snapshot.
type PieceRef struct {
	Square uint8
	Type   dragontoothmg.Piece
	White  bool
}

func (p PieceRef) String() string {
	return fmt.Sprintf("%s %s on %s", colorName(p.White), pieceName(p.Type), squareName(p.Square))
}

func (p PieceRef) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"square":%q,"piece":%q,"color":%q}`,
		squareName(p.Square), pieceName(p.Type), colorName(p.White))), nil
}

func pieceName(t dragontoothmg.Piece) string {
	switch t {
	case dragontoothmg.Pawn:
		return "pawn"
	case dragontoothmg.Knight:
		return "knight"
	case dragontoothmg.Bishop:
		return "bishop"
	case dragontoothmg.Rook:
		return "rook"
	case dragontoothmg.Queen:
		return "queen"
	case dragontoothmg.King:
		return "king"
	}
	return "none"
}

func colorName(white bool) string {
	if white {
		return "white"
	}
	return "black"
}

// PieceParticipant is a PieceRef plus the role it plays in a detection and
// a weight in [0,1]. Created by a detector, never mutated afterwards.
type PieceParticipant struct {
	Piece      PieceRef `json:"piece"`
	Role       Role     `json:"role"`
	Importance float64  `json:"importance"`
}

// Detection is one detector's finding for one move.
type Detection struct {
	Motif        Motif              `json:"motif"`
	Description  string             `json:"description"`
	Participants []PieceParticipant `json:"participants"`
	Exchange     *ExchangeSequence  `json:"exchange,omitempty"`
}

// Eval carries the externally supplied evaluation total in centipawns.
// The engine treats it opaquely: magnitudes and signs only, per detector.
type Eval struct {
	Total int32 `json:"total"`
}

// Context is the optional move-selection context. Without it the
// critical-decision and opening-trick detectors stay silent; nothing else
// changes.
type Context struct {
	// AlternativesCount is how many viable alternatives the caller's move
	// selection considered.
	AlternativesCount int
	// RecentOrigins holds the origin squares of the last three plies. The
	// engine is stateless, so move history has to come in from outside.
	RecentOrigins []uint8
	// Ply is the half-move number recorded in the assembled pattern.
	Ply int
}
