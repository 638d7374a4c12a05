// Package search implements iterative-deepening alpha-beta (negamax) over a
// position, generalizing the teacher's Searcher/rootNegamax/negamax/
// quiescence trio (algerbrex/Blunder core/search.go) into a single
// side-relative negamax routine with aspiration at the root, late-move
// reduction, check/single-reply extensions, and repetition detection.
package search

import (
	"time"

	"github.com/gofish-engine/gofish/clock"
	"github.com/gofish-engine/gofish/eval"
	"github.com/gofish-engine/gofish/movegen"
	"github.com/gofish-engine/gofish/position"
	"github.com/gofish-engine/gofish/ttable"
)

// MaxDepth is the outer iterative-deepening depth ceiling.
const MaxDepth = 30

const (
	killerBonus      int32 = 10000
	goodCaptureBonus int32 = 500
	quietHintBonus   int32 = 1000
)

// Info is one completed iteration's report, handed to the UCI layer to
// format as an `info depth ...` line.
type Info struct {
	Depth int
	Score int32
	Mate  bool
	Nodes uint64
	Time  time.Duration
	PV    []position.Move
}

// Searcher owns the mutable state a search run needs beyond the position
// itself: the transposition table, killer/history tables, and the
// repetition-window ring buffer.
type Searcher struct {
	pos *position.Position
	tt  *ttable.Table
	clk *clock.Clock

	level int

	nodes    uint64
	aborted  bool
	qsDepth  int
	repKeys  [100]uint64
	killers  [MaxDepth + 1][2]ttable.MoveKey
	history  [2][64][64]int32
}

// Run searches pos to find a best move under the given clock, calling
// infoFn after every completed depth. It never mutates pos beyond the
// symmetric DoMove/UndoMove pairs it performs internally.
func Run(pos *position.Position, tt *ttable.Table, clk *clock.Clock, level int, maxDepth int, infoFn func(Info)) position.Move {
	s := &Searcher{pos: pos, tt: tt, clk: clk, level: level}
	if maxDepth <= 0 || maxDepth > MaxDepth {
		maxDepth = MaxDepth
	}

	var rootMoves []position.Move
	movegen.Generate(pos, &rootMoves)
	if len(rootMoves) == 0 {
		return position.Move{}
	}

	defer restoreUnderpromotions()
	movegen.AllowUnderpromotions = false

	best := rootMoves[0]

	for depth := 1; depth <= maxDepth; depth++ {
		s.qsDepth = min(4+2*(depth-1), 12)
		move, score, ok := s.rootSearch(rootMoves, depth)
		if !ok {
			break
		}
		best = move
		promoteToFront(rootMoves, move)

		mateScore, isMate := mateDistance(score)
		infoFn(Info{
			Depth: depth,
			Score: pick(isMate, mateScore, score),
			Mate:  isMate,
			Nodes: s.nodes,
			Time:  s.clk.Elapsed(),
			PV:    []position.Move{best},
		})

		if isAbsoluteMate(score) {
			break
		}
		if s.clk.Expired() {
			break
		}
	}
	return best
}

func restoreUnderpromotions() { movegen.AllowUnderpromotions = true }

func pick(cond bool, a, b int32) int32 {
	if cond {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func promoteToFront(moves []position.Move, m position.Move) {
	for i, mv := range moves {
		if mv == m {
			moves[0], moves[i] = moves[i], moves[0]
			return
		}
	}
}

// mateDistance converts a mate-range score into "mate in N" (N full moves),
// matching the teacher's movesToMate arithmetic.
func mateDistance(score int32) (int32, bool) {
	if score > eval.Infinity-MaxDepth*2 {
		return (eval.Infinity - score + 1) / 2, true
	}
	if score < -eval.Infinity+MaxDepth*2 {
		return (-eval.Infinity - score - 1) / 2, true
	}
	return 0, false
}

func isAbsoluteMate(score int32) bool {
	return score > eval.Infinity-2 || score < -eval.Infinity+2
}

// rootSearch searches every root move at the given depth, using full width
// for the first move and a zero-width window around alpha for the rest,
// re-searching full width only when a later move beats alpha.
func (s *Searcher) rootSearch(moves []position.Move, depth int) (position.Move, int32, bool) {
	alpha, beta := -eval.Infinity, eval.Infinity

	best := moves[0]
	bestScore := int32(-eval.Infinity)

	for i, m := range moves {
		s.pos.DoMove(m)
		s.pushRep()

		var score int32
		if i == 0 {
			score = -s.negamax(depth-1, 1, -beta, -alpha)
		} else {
			score = -s.negamax(depth-1, 1, -alpha-1, -alpha)
			if score > alpha && score < beta {
				score = -s.negamax(depth-1, 1, -beta, -alpha)
			}
		}

		s.popRep()
		s.pos.UndoMove()

		if s.aborted {
			return best, bestScore, false
		}

		if score > bestScore {
			bestScore = score
			best = m
		}
		if score > alpha {
			alpha = score
		}
	}
	return best, bestScore, true
}

func (s *Searcher) pushRep() {
	idx := s.pos.HalfmoveClock % len(s.repKeys)
	s.repKeys[idx] = s.pos.Hash
}

func (s *Searcher) popRep() {
	// Nothing to restore: the slot belongs to the current halfmove-clock
	// depth and will be overwritten by the next move that reaches it.
}

func (s *Searcher) isRepetition() bool {
	idx := s.pos.HalfmoveClock % len(s.repKeys)
	seen := 0
	for i := idx - 2; i >= 0; i -= 2 {
		if s.repKeys[i] == s.pos.Hash {
			seen++
			if seen >= 2 {
				return true
			}
		}
	}
	return false
}

func (s *Searcher) negamax(depth, ply int, alpha, beta int32) int32 {
	s.nodes++
	if s.nodes%256 == 0 && s.clk.Expired() {
		s.aborted = true
	}
	if s.aborted {
		return 0
	}

	// King of the Hill is a hard terminal: once either king sits on a
	// center square the game is already decided, regardless of remaining
	// depth. The interior search uses the true ±∞ value here; eval.Evaluate
	// applies the damped ±Infinity/4 variant at leaf nodes (SPEC_FULL.md
	// §4.G/§4.I).
	if winner, ok := s.pos.KOTHWinner(); ok {
		if winner == s.pos.SideToMove() {
			return eval.Infinity - int32(ply)
		}
		return -eval.Infinity + int32(ply)
	}

	if depth <= 0 || ply >= MaxDepth {
		return s.quiescence(alpha, beta, s.qsDepth)
	}

	if s.pos.HalfmoveClock >= 100 || s.isRepetition() {
		return 0
	}

	var moves []position.Move
	movegen.Generate(s.pos, &moves)
	if len(moves) == 0 {
		if s.pos.InCheck() {
			return -eval.Infinity + int32(ply)
		}
		return 0
	}

	inCheck := s.pos.InCheck()
	if len(moves) == 1 || (ply < 5 && inCheck) {
		depth++
	}

	// sort_hash is a move-ordering hint only -- unlike the teacher's single
	// TTEntry, this cache never shortcuts the search with a cached bound;
	// it only biases which move gets tried first.
	var ttHint ttable.MoveKey
	if entry, ok := s.tt.ProbeSearch(s.pos.Hash); ok {
		ttHint = entry.Move
	}

	s.scoreMoves(moves, ply, ttHint)
	selectionSortByScore(moves)

	bound := ttable.BoundUpper
	bestScore := int32(-eval.Infinity)
	var bestMove position.Move
	allowLMR := true

	for i, m := range moves {
		s.pos.DoMove(m)
		s.pushRep()

		givesCheck := s.pos.InCheck()

		var score int32
		reduce := allowLMR && i >= 2 && depth >= 2 && !inCheck && !givesCheck && m.Captured == position.NoPiece && !m.IsPromotion()
		if reduce {
			reduction := 2 + min(1, i/23)
			score = -s.negamax(depth-reduction, ply+1, -alpha-1, -alpha)
			if score > alpha {
				score = -s.negamax(depth-1, ply+1, -beta, -alpha)
			}
		} else {
			score = -s.negamax(depth-1, ply+1, -beta, -alpha)
		}

		s.popRep()
		s.pos.UndoMove()

		if score > bestScore {
			bestScore = score
			bestMove = m
		}

		if score >= beta {
			s.tt.StoreSearch(s.pos.Hash, depth, beta, ttable.BoundLower, moveKey(m))
			if m.Captured == position.NoPiece && !m.IsPromotion() {
				s.storeKiller(ply, m)
			}
			return beta
		}
		if score > alpha {
			alpha = score
			bound = ttable.BoundExact
			if m.Captured == position.NoPiece && !m.IsPromotion() {
				s.history[m.Piece.Color()][m.From][m.To] += int32(depth * depth)
			}
			allowLMR = false
		}
	}

	s.tt.StoreSearch(s.pos.Hash, depth, alpha, bound, moveKey(bestMove))
	return alpha
}

func (s *Searcher) quiescence(alpha, beta int32, depth int) int32 {
	s.nodes++
	standPat := eval.Evaluate(s.pos, s.tt, s.level)
	if depth <= 0 {
		return standPat
	}
	if standPat >= beta {
		return beta
	}
	if alpha < standPat {
		alpha = standPat
	}

	var moves []position.Move
	movegen.GenerateTactical(s.pos, &moves)
	// Quiescence orders purely by the MVV/LVA-ish score movegen already
	// attached; no TT consultation, no killer/history bias here.
	selectionSortByScore(moves)

	for _, m := range moves {
		if m.Captured == position.NoPiece && !m.IsPromotion() {
			continue
		}
		s.pos.DoMove(m)
		score := -s.quiescence(-beta, -alpha, depth-1)
		s.pos.UndoMove()

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

func moveKey(m position.Move) ttable.MoveKey {
	return ttable.MoveKey{From: int8(m.From), To: int8(m.To), MoveType: uint8(m.Flag), Promotion: int8(m.Promotion)}
}

func (s *Searcher) storeKiller(ply int, m position.Move) {
	k := moveKey(m)
	if s.killers[ply][0] == k {
		return
	}
	s.killers[ply][1] = s.killers[ply][0]
	s.killers[ply][0] = k
}

// scoreMoves assigns move-ordering scores in place: killer +10000, good
// capture/promotion +500 on top of the move's own MVV/LVA value, quiet
// history hint +1000, matching the bias table in SPEC_FULL.md §4.I.
func (s *Searcher) scoreMoves(moves []position.Move, ply int, ttHint ttable.MoveKey) {
	for i := range moves {
		m := &moves[i]
		k := moveKey(*m)
		switch {
		case ttHint != (ttable.MoveKey{}) && k == ttHint:
			m.Score += killerBonus * 2
		case ply <= MaxDepth && (s.killers[ply][0] == k || s.killers[ply][1] == k):
			m.Score += killerBonus
		case m.Captured != position.NoPiece || m.IsPromotion():
			m.Score += goodCaptureBonus
		default:
			m.Score += quietHintBonus + s.history[m.Piece.Color()][m.From][m.To]
		}
	}
}

// selectionSortByScore sorts the nonzero-score prefix of moves descending
// by Score, the way the teacher's sortMoves insertion-sorts its
// moveScores slice, generalized to an in-place selection sort.
func selectionSortByScore(moves []position.Move) {
	n := len(moves)
	for i := 0; i < n-1; i++ {
		best := i
		for j := i + 1; j < n; j++ {
			if moves[j].Score > moves[best].Score {
				best = j
			}
		}
		if moves[best].Score == 0 {
			break
		}
		if best != i {
			moves[i], moves[best] = moves[best], moves[i]
		}
	}
}
