// Package movegen enumerates legal moves (or tactical-only moves) from a
// position, generalizing the teacher's pseudo-legal-then-mutate-and-check
// approach (algerbrex/Blunder core/movegen.go GenLegalMoves) to Chess960
// castling and magic-bitboard slider attacks.
package movegen

import (
	"fmt"

	"github.com/gofish-engine/gofish/attacks"
	"github.com/gofish-engine/gofish/bitboard"
	"github.com/gofish-engine/gofish/position"
)

// AllowUnderpromotions gates whether genPromotions emits knight/bishop/rook
// promotions in addition to queen. Search disables this to shrink the
// branching factor and restores it via defer on exit (SPEC_FULL.md §4.F);
// the root and UCI `position moves` application always see it enabled.
var AllowUnderpromotions = true

// mvvLvaValue orders captures by most-valuable-victim / least-valuable-
// attacker; indexed by Kind.
var mvvLvaValue = [6]int32{100, 320, 330, 500, 900, 20000}

const (
	scorePromoQueen  = 100
	scoreEnPassant   = 85
	scorePawnPush7th = 102
	scoreCaptureBase = 1000 // keeps every capture ranked above quiet moves
)

// Generate appends every legal move available to the side to move. If the
// side is in check this is identical to the tactical-only set union'd with
// quiet evasions; otherwise it is the full legal move list.
func Generate(pos *position.Position, out *[]position.Move) {
	generate(pos, false, out)
}

// GenerateTactical appends captures and promotions only, unless the side to
// move is in check, in which case it appends the full legal move list (an
// evasion requires all of it, per SPEC_FULL.md §4.F).
func GenerateTactical(pos *position.Position, out *[]position.Move) {
	if pos.InCheck() {
		generate(pos, false, out)
		return
	}
	generate(pos, true, out)
}

func generate(pos *position.Position, tacticalOnly bool, out *[]position.Move) {
	var pseudo []position.Move
	genPseudoLegal(pos, tacticalOnly, &pseudo)

	us := pos.SideToMove()
	for _, m := range pseudo {
		pos.DoMove(m)
		legal := !pos.Attacked(pos.KingSquare(us), us.Other())
		pos.UndoMove()
		if legal {
			*out = append(*out, m)
		}
	}
}

func genPseudoLegal(pos *position.Position, tacticalOnly bool, out *[]position.Move) {
	us := pos.SideToMove()
	own := pos.Occupied[us]
	enemy := pos.Occupied[us.Other()]
	occ := pos.All

	genPawnMoves(pos, us, tacticalOnly, out)

	genPieceMoves(pos, pos.Bitboards[us][position.Knight], own, enemy, tacticalOnly, func(sq bitboard.Square) bitboard.Bitboard {
		return attacks.Knight[sq]
	}, out, position.MakePiece(us, position.Knight))

	genPieceMoves(pos, pos.Bitboards[us][position.Bishop], own, enemy, tacticalOnly, func(sq bitboard.Square) bitboard.Bitboard {
		return attacks.Bishop(sq, occ)
	}, out, position.MakePiece(us, position.Bishop))

	genPieceMoves(pos, pos.Bitboards[us][position.Rook], own, enemy, tacticalOnly, func(sq bitboard.Square) bitboard.Bitboard {
		return attacks.Rook(sq, occ)
	}, out, position.MakePiece(us, position.Rook))

	genPieceMoves(pos, pos.Bitboards[us][position.Queen], own, enemy, tacticalOnly, func(sq bitboard.Square) bitboard.Bitboard {
		return attacks.Queen(sq, occ)
	}, out, position.MakePiece(us, position.Queen))

	genPieceMoves(pos, pos.Bitboards[us][position.King], own, enemy, tacticalOnly, func(sq bitboard.Square) bitboard.Bitboard {
		return attacks.King[sq]
	}, out, position.MakePiece(us, position.King))

	if !tacticalOnly {
		genCastling(pos, us, out)
	}
}

func genPieceMoves(pos *position.Position, fromBB, own, enemy bitboard.Bitboard, tacticalOnly bool, attacksFn func(bitboard.Square) bitboard.Bitboard, out *[]position.Move, piece position.Piece) {
	bb := fromBB
	for bb != 0 {
		from := bitboard.PopLSB(&bb)
		targets := attacksFn(from) &^ own
		if tacticalOnly {
			targets &= enemy
		}
		t := targets
		for t != 0 {
			to := bitboard.PopLSB(&t)
			m := position.Move{From: from, To: to, Piece: piece}
			if bitboard.Has(enemy, to) {
				m.Captured = pos.PieceAt(to)
				m.Score = scoreCaptureBase + mvvLvaValue[m.Captured.Kind()] - mvvLvaValue[piece.Kind()]
			}
			*out = append(*out, m)
		}
	}
}

func genPawnMoves(pos *position.Position, us position.Color, tacticalOnly bool, out *[]position.Move) {
	them := us.Other()
	occ := pos.All
	enemy := pos.Occupied[them]
	pawns := pos.Bitboards[us][position.Pawn]
	piece := position.MakePiece(us, position.Pawn)

	forward := 1
	startRank, promoRank, epRank := 1, 7, 4
	if us == position.Black {
		forward = -1
		startRank, promoRank, epRank = 6, 0, 3
	}

	bb := pawns
	for bb != 0 {
		from := bitboard.PopLSB(&bb)
		file, rank := from.File(), from.Rank()

		// Single and double pushes.
		if !tacticalOnly || rank+forward == promoRank {
			oneTo := bitboard.NewSquare(file, rank+forward)
			if !bitboard.Has(occ, oneTo) {
				if rank+forward == promoRank {
					genPromotions(from, oneTo, piece, position.NoPiece, out)
				} else {
					score := int32(0)
					if rank+forward == promoRank-forward {
						score = scorePawnPush7th
					}
					*out = append(*out, position.Move{From: from, To: oneTo, Piece: piece, Score: score})
					if rank == startRank && !tacticalOnly {
						twoTo := bitboard.NewSquare(file, rank+2*forward)
						if !bitboard.Has(occ, twoTo) {
							*out = append(*out, position.Move{From: from, To: twoTo, Piece: piece, Flag: position.DoublePawnPush, Score: 0})
						}
					}
				}
			}
		}

		// Captures (including en passant).
		atk := attacks.PawnAttacks(us == position.White, from)
		t := atk & enemy
		for t != 0 {
			to := bitboard.PopLSB(&t)
			captured := pos.PieceAt(to)
			if to.Rank() == promoRank {
				genPromotions(from, to, piece, captured, out)
			} else {
				*out = append(*out, position.Move{From: from, To: to, Piece: piece, Captured: captured, Score: mvvLvaValue[captured.Kind()] + scoreCaptureBase - mvvLvaValue[position.Pawn]})
			}
		}
		if pos.EPSquare != bitboard.NoSquare && rank == epRank && bitboard.Has(atk, pos.EPSquare) {
			capSq := bitboard.NewSquare(pos.EPSquare.File(), rank)
			*out = append(*out, position.Move{
				From: from, To: pos.EPSquare, Piece: piece,
				Captured: pos.PieceAt(capSq), Flag: position.EnPassant, Score: scoreEnPassant,
			})
		}
	}
}

func genPromotions(from, to bitboard.Square, piece, captured position.Piece, out *[]position.Move) {
	kinds := []position.Kind{position.Queen}
	if AllowUnderpromotions {
		kinds = append(kinds, position.Knight, position.Bishop, position.Rook)
	}
	for _, k := range kinds {
		score := int32(scorePromoQueen)
		if captured != position.NoPiece {
			score += mvvLvaValue[captured.Kind()]
		}
		*out = append(*out, position.Move{From: from, To: to, Piece: piece, Captured: captured, Promotion: k, Score: score})
	}
}

func genCastling(pos *position.Position, us position.Color, out *[]position.Move) {
	them := us.Other()
	occ := pos.All
	kingFrom := pos.KingFrom[us]

	tryOne := func(side int, rightBit uint8, flag position.MoveFlag) {
		if pos.CastleRights&rightBit == 0 {
			return
		}
		rookFrom := pos.RookFrom[us][side]
		if rookFrom == bitboard.NoSquare {
			return
		}
		kingTo, rookTo := castleDestinationsFor(us, side)

		// The set of squares that must be empty of every piece except the
		// castling king and rook themselves: the union of the king's and
		// rook's travel paths, minus their own origin squares.
		var must bitboard.Bitboard
		must = spanInclusive(kingFrom, kingTo) | spanInclusive(rookFrom, rookTo)
		must = bitboard.Clear(must, kingFrom)
		must = bitboard.Clear(must, rookFrom)
		if must&occ != 0 {
			return
		}

		// King's path (including origin and destination) must never be
		// attacked.
		path := spanInclusive(kingFrom, kingTo)
		p := path
		for p != 0 {
			sq := bitboard.PopLSB(&p)
			if pos.Attacked(sq, them) {
				return
			}
		}

		*out = append(*out, position.Move{
			From: kingFrom, To: kingTo, Piece: position.MakePiece(us, position.King), Flag: flag,
		})
	}

	tryOne(position.Kingside, kingsideBit(us), position.CastleShort)
	tryOne(position.Queenside, queensideBit(us), position.CastleLong)
}

func kingsideBit(c position.Color) uint8 {
	if c == position.White {
		return position.WhiteKingside
	}
	return position.BlackKingside
}

func queensideBit(c position.Color) uint8 {
	if c == position.White {
		return position.WhiteQueenside
	}
	return position.BlackQueenside
}

func castleDestinationsFor(c position.Color, side int) (kingTo, rookTo bitboard.Square) {
	rank := 0
	if c == position.Black {
		rank = 7
	}
	if side == position.Kingside {
		return bitboard.NewSquare(6, rank), bitboard.NewSquare(5, rank)
	}
	return bitboard.NewSquare(2, rank), bitboard.NewSquare(3, rank)
}

// spanInclusive returns every square on the same rank between a and b,
// including both endpoints.
func spanInclusive(a, b bitboard.Square) bitboard.Bitboard {
	lo, hi := a.File(), b.File()
	if lo > hi {
		lo, hi = hi, lo
	}
	rank := a.Rank()
	var bb bitboard.Bitboard
	for f := lo; f <= hi; f++ {
		bb = bitboard.Set(bb, bitboard.NewSquare(f, rank))
	}
	return bb
}

// ParseUCIMove resolves a long-algebraic UCI move string against the
// legal moves available in pos, the way the teacher's
// ConvertLongAlgebraicNotationToMove does, but validated against the
// actual legal list instead of re-deriving the move type by hand.
func ParseUCIMove(pos *position.Position, s string) (position.Move, error) {
	var legal []position.Move
	Generate(pos, &legal)
	for _, m := range legal {
		if matchesUCI(pos, m, s) {
			return m, nil
		}
	}
	return position.Move{}, fmt.Errorf("movegen: %q is not a legal move", s)
}

func matchesUCI(pos *position.Position, m position.Move, s string) bool {
	rookSq := m.To
	if (m.Flag == position.CastleShort || m.Flag == position.CastleLong) && pos.Chess960 {
		side := position.Kingside
		if m.Flag == position.CastleLong {
			side = position.Queenside
		}
		rookSq = pos.RookFrom[m.Piece.Color()][side]
	}
	return m.LongAlgebraic(pos.Chess960, rookSq) == s
}
