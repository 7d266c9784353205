package tactics

import "github.com/notnil/chess"

// shortAlgebraic renders a coordinate move in short algebraic notation.
// Notation generation lives in the rules ecosystem, not here; when the
// round trip fails for any reason the long coordinate form is good enough.
func shortAlgebraic(fen, uci string) string {
	fenOpt, err := chess.FEN(fen)
	if err != nil {
		return uci
	}
	pos := chess.NewGame(fenOpt).Position()
	mv, err := chess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return uci
	}
	return chess.AlgebraicNotation{}.Encode(pos, mv)
}
