package tactics

import (
	"fmt"
	"strings"

	"github.com/dylhunn/dragontoothmg"
	"go.uber.org/zap"
)

// Analyzer is the engine front door. It is stateless between calls: every
// analysis is a pure function of its inputs, so one Analyzer may serve any
// number of goroutines as long as each call gets its own snapshot.
type Analyzer struct {
	cfg Config
	log *zap.Logger
}

// New builds an analyzer. A nil logger is fine; it becomes a no-op.
func New(cfg Config, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{cfg: cfg.withDefaults(), log: log}
}

// AnalyzeMove analyzes one move given as a coordinate string ("e2e4",
// "e7e8q") against the position in fen. Malformed positions and illegal
// moves fail fast with ErrInvalidInput; everything past validation is
// best-effort and degrades to a smaller result instead of erroring.
func (a *Analyzer) AnalyzeMove(fen, uciMove string, evalBefore, evalAfter Eval, ctx *Context) (*PatternRecord, error) {
	pre, err := NewSnapshot(fen)
	if err != nil {
		return nil, err
	}
	mv, err := matchLegalMove(pre, uciMove)
	if err != nil {
		return nil, err
	}
	return a.Analyze(pre, mv, evalBefore, evalAfter, ctx)
}

// Analyze runs the full pipeline: detectors against the post-move
// snapshot, one exchange prediction for the destination square, the
// relevance filter, and assembly. Returns (nil, nil) when no motif fired.
func (a *Analyzer) Analyze(pre *Snapshot, mv dragontoothmg.Move, evalBefore, evalAfter Eval, ctx *Context) (*PatternRecord, error) {
	if !isLegal(pre, mv) {
		return nil, fmt.Errorf("%w: illegal move %s in %q", ErrInvalidInput, mv.String(), pre.FEN())
	}

	in := &detectInput{
		cfg:        a.cfg,
		pre:        pre,
		post:       pre.Apply(mv),
		move:       mv,
		evalBefore: evalBefore,
		evalAfter:  evalAfter,
		ctx:        ctx,
		whiteMover: pre.WhiteToMove(),
		capture:    pre.IsCapture(mv),
	}

	var detections []Detection
	for _, detect := range detectors {
		if det := a.runDetector(detect, in); det != nil {
			detections = append(detections, *det)
		}
	}

	exchange := EvaluateExchange(pre, mv, a.cfg.MaxExchangePlies)

	if len(detections) == 0 {
		a.log.Debug("no motif fired",
			zap.String("fen", pre.FEN()),
			zap.String("move", mv.String()))
		return nil, nil
	}

	// The predicted exchange belongs to the detections that argue about
	// the contested square.
	if exchange != nil {
		for i := range detections {
			switch detections[i].Motif {
			case MotifTacticalMoment, MotifSacrifice, MotifHangingPiece:
				detections[i].Exchange = exchange
			case MotifFork, MotifPin, MotifOpeningTrick, MotifEndgameTechnique, MotifCriticalDecision:
			}
		}
	}

	relevance := FilterRelevance(in.post, mv, detections)
	record := Assemble(pre, mv, evalBefore, evalAfter, detections, relevance, exchange, ctx)

	a.log.Debug("pattern assembled",
		zap.String("move", mv.String()),
		zap.Int("motifs", len(record.Motifs)),
		zap.Float64("strength", record.Strength),
		zap.Float64("relevance", record.RelevanceScore))
	return record, nil
}

// Detectors are independent; one blowing up on a degenerate position must
// not take the rest of the analysis with it.
func (a *Analyzer) runDetector(detect func(*detectInput) *Detection, in *detectInput) (det *Detection) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Debug("detector skipped", zap.Any("cause", r))
			det = nil
		}
	}()
	return detect(in)
}

// matchLegalMove resolves a coordinate string against the legal moves of
// the position, which both validates it and yields the move's full
// internal encoding (castling, en passant, promotion flags).
func matchLegalMove(s *Snapshot, uciMove string) (dragontoothmg.Move, error) {
	want := strings.ToLower(strings.TrimSpace(uciMove))
	for _, m := range s.LegalMoves() {
		if m.String() == want {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: move %q is not legal in %q", ErrInvalidInput, uciMove, s.FEN())
}

func isLegal(s *Snapshot, mv dragontoothmg.Move) bool {
	for _, m := range s.LegalMoves() {
		if m == mv {
			return true
		}
	}
	return false
}
