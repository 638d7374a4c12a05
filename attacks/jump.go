// Package attacks precomputes per-square attack bitboards for the jump
// pieces (king, knight, pawn) and provides magic-bitboard lookup for the
// sliding pieces (bishop, rook, queen).
package attacks

import "github.com/gofish-engine/gofish/bitboard"

var (
	King            [64]bitboard.Bitboard
	Knight          [64]bitboard.Bitboard
	WhitePawnPushes [64]bitboard.Bitboard
	BlackPawnPushes [64]bitboard.Bitboard
	WhitePawnAttack [64]bitboard.Bitboard
	BlackPawnAttack [64]bitboard.Bitboard
	KingRing        [64]bitboard.Bitboard
)

func init() {
	for sq := 0; sq < 64; sq++ {
		s := bitboard.Square(sq)
		King[sq] = kingAttacksSlow(s)
		Knight[sq] = knightAttacksSlow(s)
		KingRing[sq] = King[sq]

		file, rank := s.File(), s.Rank()
		if rank < 7 {
			WhitePawnPushes[sq] = bitboard.NewSquare(file, rank+1).BB()
		}
		if rank > 0 {
			BlackPawnPushes[sq] = bitboard.NewSquare(file, rank-1).BB()
		}
		WhitePawnAttack[sq] = pawnAttacksSlow(s, 1)
		BlackPawnAttack[sq] = pawnAttacksSlow(s, -1)
	}
	initMagics()
}

func onBoard(file, rank int) bool { return file >= 0 && file < 8 && rank >= 0 && rank < 8 }

func kingAttacksSlow(s bitboard.Square) bitboard.Bitboard {
	var b bitboard.Bitboard
	file, rank := s.File(), s.Rank()
	for df := -1; df <= 1; df++ {
		for dr := -1; dr <= 1; dr++ {
			if df == 0 && dr == 0 {
				continue
			}
			if onBoard(file+df, rank+dr) {
				b = bitboard.Set(b, bitboard.NewSquare(file+df, rank+dr))
			}
		}
	}
	return b
}

var knightDeltas = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}

func knightAttacksSlow(s bitboard.Square) bitboard.Bitboard {
	var b bitboard.Bitboard
	file, rank := s.File(), s.Rank()
	for _, d := range knightDeltas {
		if onBoard(file+d[0], rank+d[1]) {
			b = bitboard.Set(b, bitboard.NewSquare(file+d[0], rank+d[1]))
		}
	}
	return b
}

// pawnAttacksSlow computes the diagonal-capture squares for a pawn
// advancing in direction dir (+1 for white, -1 for black).
func pawnAttacksSlow(s bitboard.Square, dir int) bitboard.Bitboard {
	var b bitboard.Bitboard
	file, rank := s.File(), s.Rank()
	if onBoard(file-1, rank+dir) {
		b = bitboard.Set(b, bitboard.NewSquare(file-1, rank+dir))
	}
	if onBoard(file+1, rank+dir) {
		b = bitboard.Set(b, bitboard.NewSquare(file+1, rank+dir))
	}
	return b
}

// PawnAttacks returns the pawn-capture attack set from sq for a white pawn
// (white == true) or a black pawn (white == false).
func PawnAttacks(white bool, sq bitboard.Square) bitboard.Bitboard {
	if white {
		return WhitePawnAttack[sq]
	}
	return BlackPawnAttack[sq]
}
