package search

import (
	"testing"
	"time"

	"github.com/gofish-engine/gofish/bitboard"
	"github.com/gofish-engine/gofish/clock"
	"github.com/gofish-engine/gofish/eval"
	"github.com/gofish-engine/gofish/movegen"
	"github.com/gofish-engine/gofish/position"
	"github.com/gofish-engine/gofish/ttable"
)

// TestFindsMateInOne checks that the searcher picks a forced mate when one
// is available, using the classic back-rank-mate shape.
func TestFindsMateInOne(t *testing.T) {
	// White: Ra1, Ke1. Black: Kh8 boxed in by its own pawns on f7/g7/h7, so
	// only g8 is a candidate escape from a back-rank check -- and that
	// square is itself swept by the rook's rank-8 ray. Ra1-a8 is mate.
	fen := "7k/5ppp/8/8/8/8/8/R3K3 w - - 0 1"
	pos, err := position.ParseFEN(fen, false)
	if err != nil {
		t.Fatalf("ParseFEN error: %v", err)
	}
	tt := ttable.New()
	clk := clock.New(true, clock.Limits{MoveTime: 2000}, 0)

	best := Run(pos, tt, clk, 100, 4, func(Info) {})

	pos.DoMove(best)
	if !pos.InCheck() {
		t.Fatalf("expected the chosen move %s to deliver check (mate)", best)
	}
	var replies []position.Move
	movegen.Generate(pos, &replies)
	if len(replies) != 0 {
		t.Fatalf("expected checkmate after %s, but black has %d replies", best, len(replies))
	}
}

func TestRunReturnsAMoveWithinTimeBudget(t *testing.T) {
	pos, err := position.ParseFEN(position.StartFEN, false)
	if err != nil {
		t.Fatalf("ParseFEN error: %v", err)
	}
	tt := ttable.New()
	clk := clock.New(true, clock.Limits{MoveTime: 50}, 0)

	start := time.Now()
	best := Run(pos, tt, clk, 100, MaxDepth, func(Info) {})
	elapsed := time.Since(start)

	if best.IsNull() {
		t.Fatal("expected a legal move from the starting position")
	}
	if elapsed > 2*time.Second {
		t.Fatalf("search overran its time budget by a wide margin: %v", elapsed)
	}
}

// TestKOTHSearchSelectsHillMoveAndReturnsTerminalScore covers
// SPEC_FULL.md's end-to-end scenario 6: with King of the Hill active and a
// position where white can step the king onto e4, a depth-2 search both
// picks that move and reports the true ±∞ KOTH terminal score internally
// (rootSearch's own score, before the outer UCI mate-distance conversion).
func TestKOTHSearchSelectsHillMoveAndReturnsTerminalScore(t *testing.T) {
	// White king f3 is one step from e4 (a King of the Hill square) and no
	// other square it can reach in one step; black king is far away.
	fen := "7k/8/8/8/8/5K2/8/8 w - - 0 1"
	pos, err := position.ParseFEN(fen, false)
	if err != nil {
		t.Fatalf("ParseFEN error: %v", err)
	}
	pos.KOTH = true
	wantTo := bitboard.NewSquare(4, 3) // e4

	tt := ttable.New()
	clk := clock.New(true, clock.Limits{MoveTime: 2000}, 0)
	best := Run(pos, tt, clk, 100, 2, func(Info) {})
	if best.To != wantTo {
		t.Fatalf("expected the king to step onto e4 (King of the Hill), got %s", best)
	}

	var moves []position.Move
	movegen.Generate(pos, &moves)
	s := &Searcher{pos: pos, tt: ttable.New(), clk: clock.New(true, clock.Limits{MoveTime: 2000}, 0)}
	s.qsDepth = 4
	move, score, ok := s.rootSearch(moves, 2)
	if !ok {
		t.Fatal("rootSearch aborted unexpectedly")
	}
	if move.To != wantTo {
		t.Fatalf("rootSearch chose %s, want a move onto e4", move)
	}
	if score < eval.Infinity/4 {
		t.Fatalf("expected a King of the Hill terminal score >= Infinity/4, got %d", score)
	}
}

func TestRunHandlesNoLegalMoves(t *testing.T) {
	// Stalemate: black king boxed in, not in check, no legal moves.
	fen := "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
	pos, err := position.ParseFEN(fen, false)
	if err != nil {
		t.Fatalf("ParseFEN error: %v", err)
	}
	tt := ttable.New()
	clk := clock.New(false, clock.Limits{MoveTime: 50}, 0)

	best := Run(pos, tt, clk, 100, 3, func(Info) {})
	if !best.IsNull() {
		t.Fatalf("expected no move from a position with no legal moves, got %s", best)
	}
}
