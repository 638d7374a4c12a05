package position

import (
	"fmt"

	"github.com/gofish-engine/gofish/bitboard"
)

// MoveFlag tags the special-case handling a move needs on top of the
// plain from/to/captured fields.
type MoveFlag uint8

const (
	Quiet MoveFlag = iota
	DoublePawnPush
	EnPassant
	CastleShort
	CastleLong
)

// Move is a move descriptor: enough to apply, unapply, and order the move
// without carrying a whole successor board (see SPEC_FULL.md §9 on why this
// reimplementation prefers delta/make-unmake over copy-per-move).
type Move struct {
	From      bitboard.Square
	To        bitboard.Square
	Piece     Piece // moving piece, including color
	Captured  Piece // NoPiece if none
	Promotion Kind  // zero value Pawn is used as "no promotion"; guarded by IsPromotion
	Flag      MoveFlag
	Score     int32 // move-ordering score, set at generation time
}

// IsPromotion reports whether m promotes a pawn. Promotion==Pawn is the
// sentinel for "no promotion" since a pawn can never promote to a pawn.
func (m Move) IsPromotion() bool { return m.Promotion != Pawn && m.Piece.Kind() == Pawn && (m.To.Rank() == 0 || m.To.Rank() == 7) }

// IsCapture reports whether m captures a piece (including en passant).
func (m Move) IsCapture() bool { return m.Captured != NoPiece }

// IsNull reports whether m is the zero-value sentinel for "no move".
func (m Move) IsNull() bool { return m == Move{} }

func squareString(sq bitboard.Square) string {
	return fmt.Sprintf("%c%c", 'a'+byte(sq.File()), '1'+byte(sq.Rank()))
}

// promoLetter returns the long-algebraic promotion suffix letter.
func promoLetter(k Kind) byte {
	switch k {
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	}
	return 0
}

// LongAlgebraic formats m the way UCI expects: source+destination squares
// plus an optional promotion letter. Castling in Chess960 mode is encoded
// as king-captures-own-rook (destination == rook's square); in orthodox
// mode it is king-to-destination. castleRookSquare lets the caller supply
// the rook's square to land the "king captures rook" encoding on.
func (m Move) LongAlgebraic(chess960 bool, castleRookSquare bitboard.Square) string {
	to := m.To
	if chess960 && (m.Flag == CastleShort || m.Flag == CastleLong) {
		to = castleRookSquare
	}
	s := squareString(m.From) + squareString(to)
	if m.IsPromotion() {
		s += string(promoLetter(m.Promotion))
	}
	return s
}

func (m Move) String() string { return m.LongAlgebraic(false, m.To) }
