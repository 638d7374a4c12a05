package eval

import "github.com/gofish-engine/gofish/position"

// Piece-square tables, one middlegame/endgame pair per kind, written as the
// board looks from White's side: the first row is rank 8, so table index 0
// is a8 and 63 is h1. A white piece's value is looked up at the vertically
// mirrored square (sq ^ 56) and a black piece's at its own square, so each
// side reads the table from its own point of view. Pawn, knight, bishop and
// the king's two phases are generalized directly from the teacher's
// PieceSquareTables (algerbrex/Blunder core/evaluate.go); rook and queen are
// new, in the same small-integer hand-tuned style. Pawns, knights and
// bishops use the same table in both phases.
var pstMG = [6][64]int32{
	pawnPST,
	knightPST,
	bishopPST,
	rookPSTMG,
	queenPSTMG,
	kingPSTMG,
}

var pstEG = [6][64]int32{
	pawnPST,
	knightPST,
	bishopPST,
	rookPSTEG,
	queenPSTEG,
	kingPSTEG,
}

var pawnPST = [64]int32{
	25, 25, 25, 25, 25, 25, 25, 25,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	-5, -5, -5, -5, -5, -5, -5, -5,
	-15, -2, 3, 15, 15, 3, -2, -15,
	-15, 2, 5, 5, 5, 5, 2, -15,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int32{
	-15, -15, -15, -15, -15, -15, -15, -15,
	-2, -2, -2, -2, -2, -2, -2, -2,
	-5, 0, 2, 2, 2, 2, 0, -5,
	-5, 0, 15, 25, 25, 15, 0, -5,
	-5, 0, 15, 25, 25, 15, 0, -5,
	-5, 0, 25, 25, 25, 25, 0, -5,
	-2, -2, -2, -2, -2, -2, -2, -2,
	-15, -15, -15, -15, -15, -15, -15, -15,
}

var bishopPST = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	2, 5, 5, 0, 0, 5, 5, 2,
	2, 15, 5, 0, 0, 5, 15, 2,
	2, -5, -25, 0, 0, -25, -5, 2,
}

var rookPSTMG = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var rookPSTEG = rookPSTMG

var queenPSTMG = [64]int32{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var queenPSTEG = queenPSTMG

var kingPSTMG = [64]int32{
	-75, -75, -75, -75, -75, -75, -75, -75,
	-75, -75, -75, -75, -75, -75, -75, -75,
	-75, -75, -75, -75, -75, -75, -75, -75,
	-75, -75, -75, -75, -75, -75, -75, -75,
	-75, -75, -75, -75, -75, -75, -75, -75,
	-75, -75, -75, -75, -75, -75, -75, -75,
	25, 25, -10, -50, -50, -10, 25, 25,
	75, 50, 0, 0, 0, 0, 50, 75,
}

var kingPSTEG = [64]int32{
	-10, -10, -10, -10, -10, -10, -10, -10,
	-10, -5, -5, -5, -5, -5, -5, -10,
	-10, 2, 5, 5, 5, 5, 2, -10,
	-10, 2, 5, 25, 25, 5, 2, -10,
	-10, 2, 5, 25, 25, 5, 2, -10,
	-10, 2, 5, 5, 5, 5, 2, -10,
	-10, -5, -5, -5, -5, -5, -5, -10,
	-10, -10, -10, -10, -10, -10, -10, -10,
}

func mirror(sq int) int { return sq ^ 56 }

func pstValue(table *[6][64]int32, c position.Color, k position.Kind, sq int) int32 {
	if c == position.White {
		sq = mirror(sq)
	}
	return table[k][sq]
}
