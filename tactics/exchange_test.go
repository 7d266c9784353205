package tactics

import "testing"

// A queen grabbing a pawn defended by a pawn must come out at
// +1 - 9 = -8 for the mover when only one recapture is available.
func TestExchangeSignOnDefendedPawn(t *testing.T) {
	s, err := NewSnapshot("3k4/8/4p3/3p4/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m := findMove(t, s, "d1d5")

	seq := EvaluateExchange(s, m, 3)
	if seq == nil {
		t.Fatalf("expected an exchange sequence")
	}
	if seq.MaterialBalance != -8 {
		t.Fatalf("material balance: got %d want -8", seq.MaterialBalance)
	}
	if len(seq.UCI) != 2 || seq.UCI[0] != "d1d5" || seq.UCI[1] != "e6d5" {
		t.Fatalf("unexpected sequence %v", seq.UCI)
	}
	if !seq.Forced {
		t.Fatalf("single recapture should be flagged forced")
	}
	if seq.CapturePlies != 2 {
		t.Fatalf("capture plies: got %d want 2", seq.CapturePlies)
	}
}

// Equal-value recapturers are picked by lowest origin square in a1..h8
// order; the tie-break is part of the contract because it decides which
// sequence gets reported.
func TestExchangeTieBreakOnEqualAttackers(t *testing.T) {
	s, err := NewSnapshot("3q4/8/8/8/3P4/2P1P3/8/4K2k b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m := findMove(t, s, "d8d4")

	seq := EvaluateExchange(s, m, 3)
	if seq == nil {
		t.Fatalf("expected an exchange sequence")
	}
	if seq.UCI[1] != "c3d4" {
		t.Fatalf("tie-break picked %s, want c3d4", seq.UCI[1])
	}
	if seq.MaterialBalance != -8 {
		t.Fatalf("material balance: got %d want -8", seq.MaterialBalance)
	}
	if seq.Forced {
		t.Fatalf("two recapturers should not be flagged forced")
	}
}

// A lone capture with no recapture is not an exchange.
func TestExchangeNeedsTwoCapturePlies(t *testing.T) {
	s, err := NewSnapshot("3k4/8/8/3p4/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if seq := EvaluateExchange(s, findMove(t, s, "d1d5"), 3); seq != nil {
		t.Fatalf("undefended grab reported as exchange: %+v", seq)
	}
}

// A quiet move nobody contests predicts nothing.
func TestExchangeQuietMove(t *testing.T) {
	s, err := NewSnapshot("3k4/8/8/8/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if seq := EvaluateExchange(s, findMove(t, s, "d1d3"), 3); seq != nil {
		t.Fatalf("quiet move reported as exchange: %+v", seq)
	}
}

// The ply cap truncates long capture chains instead of searching them out.
func TestExchangeRespectsPlyCap(t *testing.T) {
	// White and black pile rooks on the d-file around a pawn on d5.
	s, err := NewSnapshot("3rk3/3r4/8/3p4/8/3R4/3R4/3QK3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m := findMove(t, s, "d3d5")
	seq := EvaluateExchange(s, m, 3)
	if seq == nil {
		t.Fatalf("expected an exchange sequence")
	}
	if len(seq.Moves) > 3 {
		t.Fatalf("sequence exceeds ply cap: %v", seq.UCI)
	}
}

func TestExchangeDeterministic(t *testing.T) {
	s, err := NewSnapshot("3q4/8/8/8/3P4/2P1P3/8/4K2k b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m := findMove(t, s, "d8d4")
	a := EvaluateExchange(s, m, 3)
	b := EvaluateExchange(s, m, 3)
	if a == nil || b == nil {
		t.Fatalf("expected sequences")
	}
	if a.MaterialBalance != b.MaterialBalance || len(a.UCI) != len(b.UCI) {
		t.Fatalf("nondeterministic exchange: %+v vs %+v", a, b)
	}
	for i := range a.UCI {
		if a.UCI[i] != b.UCI[i] {
			t.Fatalf("nondeterministic move %d: %s vs %s", i, a.UCI[i], b.UCI[i])
		}
	}
}
