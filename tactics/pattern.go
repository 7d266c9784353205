package tactics

import (
	"math"
	"strings"

	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/slices"
)

// PatternRecord is the single immutable result of analyzing one move.
// The engine keeps no copy; whoever asked for the analysis owns it.
type PatternRecord struct {
	FEN            string             `json:"fen"`
	MoveUCI        string             `json:"move"`
	MoveSAN        string             `json:"san"`
	Motifs         []Motif            `json:"motifs"`
	Description    string             `json:"description"`
	Participants   []PieceParticipant `json:"participants"`
	EvalBefore     int32              `json:"eval_before"`
	EvalAfter      int32              `json:"eval_after"`
	EvalChange     int32              `json:"eval_change"`
	Ply            int                `json:"ply"`
	WhiteMoved     bool               `json:"white_moved"`
	IsCapture      bool               `json:"is_capture"`
	IsCheck        bool               `json:"is_check"`
	RelevanceScore float64            `json:"relevance_score"`
	Strength       float64            `json:"strength"`
	Exchange       *ExchangeSequence  `json:"exchange,omitempty"`
}

// Assemble merges the detections for one move into a record. Returns nil
// when no motif fired, so callers can tell "analyzed, nothing found" from
// "not analyzed".
func Assemble(pre *Snapshot, mv dragontoothmg.Move, evalBefore, evalAfter Eval,
	detections []Detection, relevance RelevanceResult, exchange *ExchangeSequence, ctx *Context) *PatternRecord {
	if len(detections) == 0 {
		return nil
	}

	motifs := make([]Motif, 0, len(detections))
	descriptions := make([]string, 0, len(detections))
	var participants []PieceParticipant
	for _, det := range detections {
		if !slices.Contains(motifs, det.Motif) {
			motifs = append(motifs, det.Motif)
		}
		if det.Description != "" {
			descriptions = append(descriptions, det.Description)
		}
		participants = mergeParticipants(participants, det.Participants)
	}
	slices.Sort(motifs)

	evalChange := evalAfter.Total - evalBefore.Total
	strength := math.Min(10.0, float64(abs32(evalChange))/100+float64(len(participants))*0.1)

	ply := 0
	if ctx != nil {
		ply = ctx.Ply
	}

	fen := pre.FEN()
	uci := mv.String()
	return &PatternRecord{
		FEN:            fen,
		MoveUCI:        uci,
		MoveSAN:        shortAlgebraic(fen, uci),
		Motifs:         motifs,
		Description:    strings.Join(descriptions, "; "),
		Participants:   participants,
		EvalBefore:     evalBefore.Total,
		EvalAfter:      evalAfter.Total,
		EvalChange:     evalChange,
		Ply:            ply,
		WhiteMoved:     pre.WhiteToMove(),
		IsCapture:      pre.IsCapture(mv),
		IsCheck:        pre.GivesCheck(mv),
		RelevanceScore: relevance.Score,
		Strength:       strength,
		Exchange:       exchange,
	}
}

// mergeParticipants appends new participants, collapsing duplicates on
// (square, role) and keeping the higher importance.
func mergeParticipants(into, add []PieceParticipant) []PieceParticipant {
	for _, p := range add {
		found := false
		for i := range into {
			if into[i].Piece.Square == p.Piece.Square && into[i].Role == p.Role {
				if p.Importance > into[i].Importance {
					into[i].Importance = p.Importance
				}
				found = true
				break
			}
		}
		if !found {
			into = append(into, p)
		}
	}
	return into
}
