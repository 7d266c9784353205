package tactics

// Config bounds the exchange search and sets the detector thresholds.
// Zero fields fall back to the defaults, so a partial config file is fine.
type Config struct {
	// MaxExchangePlies caps the simulated capture sequence, initial move
	// included.
	MaxExchangePlies int `mapstructure:"max_exchange_plies"`
	// TacticalMomentThreshold is the centipawn swing above which a move
	// counts as a tactical moment.
	TacticalMomentThreshold int32 `mapstructure:"tactical_moment_threshold"`
	// EndgameEvalThreshold is the centipawn magnitude the endgame-technique
	// detector requires.
	EndgameEvalThreshold int32 `mapstructure:"endgame_eval_threshold"`
	// EndgamePieceLimit is the most non-pawn, non-king pieces a position may
	// hold and still count as an endgame.
	EndgamePieceLimit int `mapstructure:"endgame_piece_limit"`
	// OpeningMoveLimit is the last full-move number the opening-trick
	// detector considers.
	OpeningMoveLimit uint16 `mapstructure:"opening_move_limit"`
	// CriticalAlternatives is the alternatives count above which a move is a
	// critical decision.
	CriticalAlternatives int `mapstructure:"critical_alternatives"`
}

func DefaultConfig() Config {
	return Config{
		MaxExchangePlies:        3,
		TacticalMomentThreshold: 150,
		EndgameEvalThreshold:    200,
		EndgamePieceLimit:       6,
		OpeningMoveLimit:        10,
		CriticalAlternatives:    5,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxExchangePlies <= 0 {
		c.MaxExchangePlies = d.MaxExchangePlies
	}
	if c.TacticalMomentThreshold <= 0 {
		c.TacticalMomentThreshold = d.TacticalMomentThreshold
	}
	if c.EndgameEvalThreshold <= 0 {
		c.EndgameEvalThreshold = d.EndgameEvalThreshold
	}
	if c.EndgamePieceLimit <= 0 {
		c.EndgamePieceLimit = d.EndgamePieceLimit
	}
	if c.OpeningMoveLimit == 0 {
		c.OpeningMoveLimit = d.OpeningMoveLimit
	}
	if c.CriticalAlternatives <= 0 {
		c.CriticalAlternatives = d.CriticalAlternatives
	}
	return c
}
