// Package position holds the mutable board-state representation: piece
// bitboards, mailbox, side to move, castling rights, en-passant square, and
// the Zobrist hash, plus the make/unmake (DoMove/UndoMove) pair that
// mutates it in place -- generalized from the teacher's
// Board.DoMove/UndoMove (algerbrex/Blunder core/board.go) to support
// Chess960 rook-file bookkeeping and King-of-the-Hill scoring hooks.
package position

import (
	"github.com/gofish-engine/gofish/attacks"
	"github.com/gofish-engine/gofish/bitboard"
	"github.com/gofish-engine/gofish/zobrist"
)

// Castling-right bits, one per corner.
const (
	WhiteKingside uint8 = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside
)

// CastleSide indexes RookFrom: 0 = kingside (short), 1 = queenside (long).
const (
	Kingside  = 0
	Queenside = 1
)

// KOTHSquares are the four center squares that decide a King of the Hill
// game (d4, e4, d5, e5).
var KOTHSquares = [4]bitboard.Square{
	bitboard.NewSquare(3, 3), bitboard.NewSquare(4, 3),
	bitboard.NewSquare(3, 4), bitboard.NewSquare(4, 4),
}

// undoState is the information DoMove can't recompute cheaply on UndoMove:
// everything that a move might clobber other than the piece placement
// itself (which is restored move-by-move using the Move's own From/To/
// Captured/Promotion fields).
type undoState struct {
	castleRights  uint8
	epSquare      bitboard.Square
	halfmoveClock int
	hash          uint64
}

// Position is the mutable state of a game node (data model §3).
type Position struct {
	Bitboards [2][6]bitboard.Bitboard // [color][kind]
	Occupied  [2]bitboard.Bitboard    // derived: union of a color's pieces
	All       bitboard.Bitboard       // derived: Occupied[White] | Occupied[Black]
	Mailbox   [64]Piece

	WhiteToMove bool

	CastleRights  uint8
	EPSquare      bitboard.Square
	HalfmoveClock int
	FullmoveNumber int

	Hash uint64

	KingFrom [2]bitboard.Square    // initial king square per color
	RookFrom [2][2]bitboard.Square // [color][Kingside|Queenside] initial rook square
	Chess960 bool
	KOTH     bool // King of the Hill: center-square win condition active

	undoStack []undoState
	history   []Move
}

// SideToMove returns the color to move.
func (p *Position) SideToMove() Color {
	if p.WhiteToMove {
		return White
	}
	return Black
}

func colorIndex(c Color) int { return int(c) }

// PieceAt returns the piece occupying sq, or NoPiece.
func (p *Position) PieceAt(sq bitboard.Square) Piece { return p.Mailbox[sq] }

func (p *Position) put(c Color, k Kind, sq bitboard.Square) {
	p.Bitboards[c][k] = bitboard.Set(p.Bitboards[c][k], sq)
	p.Occupied[c] = bitboard.Set(p.Occupied[c], sq)
	p.All = bitboard.Set(p.All, sq)
	p.Mailbox[sq] = MakePiece(c, k)
	p.Hash ^= zobrist.PieceSquare[zobristIndex(c, k)][sq]
}

func (p *Position) remove(c Color, k Kind, sq bitboard.Square) {
	p.Bitboards[c][k] = bitboard.Clear(p.Bitboards[c][k], sq)
	p.Occupied[c] = bitboard.Clear(p.Occupied[c], sq)
	p.All = bitboard.Clear(p.All, sq)
	p.Mailbox[sq] = NoPiece
	p.Hash ^= zobrist.PieceSquare[zobristIndex(c, k)][sq]
}

func (p *Position) move(c Color, k Kind, from, to bitboard.Square) {
	p.remove(c, k, from)
	p.put(c, k, to)
}

func zobristIndex(c Color, k Kind) int { return int(c)*6 + int(k) }

// KingSquare returns the square of c's king.
func (p *Position) KingSquare(c Color) bitboard.Square {
	return bitboard.LSB(p.Bitboards[c][King])
}

// Attacked reports whether sq is attacked by any piece of color by, given
// the current board occupancy -- the same "super-piece" technique the
// teacher uses in squareIsAttacked/attackersOfSquare, with magic-bitboard
// slider lookup substituted for its Hyperbola Quintessence rays.
func (p *Position) Attacked(sq bitboard.Square, by Color) bool {
	occ := p.All
	bb := p.Bitboards[by]
	if attacks.Knight[sq]&bb[Knight] != 0 {
		return true
	}
	if attacks.King[sq]&bb[King] != 0 {
		return true
	}
	if attacks.Bishop(sq, occ)&(bb[Bishop]|bb[Queen]) != 0 {
		return true
	}
	if attacks.Rook(sq, occ)&(bb[Rook]|bb[Queen]) != 0 {
		return true
	}
	// A pawn of color `by` attacks sq iff sq is one of the diagonal
	// capture squares of a `by`-pawn sitting at sq -- i.e. look up the
	// reverse-color attack table from sq and intersect with by's pawns.
	if by == White {
		if attacks.BlackPawnAttack[sq]&bb[Pawn] != 0 {
			return true
		}
	} else {
		if attacks.WhitePawnAttack[sq]&bb[Pawn] != 0 {
			return true
		}
	}
	return false
}

// InCheck reports whether the side to move's king is currently attacked.
func (p *Position) InCheck() bool {
	stm := p.SideToMove()
	return p.Attacked(p.KingSquare(stm), stm.Other())
}

// KOTHWinner reports whether either king stands on a KOTHSquares center
// square, under the King of the Hill win condition. Always false when
// p.KOTH is disabled, even if a king happens to occupy a center square.
func (p *Position) KOTHWinner() (Color, bool) {
	if !p.KOTH {
		return White, false
	}
	for _, sq := range KOTHSquares {
		if bitboard.Has(p.Bitboards[White][King], sq) {
			return White, true
		}
		if bitboard.Has(p.Bitboards[Black][King], sq) {
			return Black, true
		}
	}
	return White, false
}

// DoMove applies m to the position in place, pushing enough undo state
// that UndoMove can restore the prior position exactly.
func (p *Position) DoMove(m Move) {
	us := p.SideToMove()
	them := us.Other()

	p.undoStack = append(p.undoStack, undoState{
		castleRights:  p.CastleRights,
		epSquare:      p.EPSquare,
		halfmoveClock: p.HalfmoveClock,
		hash:          p.Hash,
	})
	p.history = append(p.history, m)

	if p.EPSquare != bitboard.NoSquare {
		p.Hash ^= zobrist.EPFile[p.EPSquare.File()]
	}
	p.EPSquare = bitboard.NoSquare

	movingKind := m.Piece.Kind()

	switch m.Flag {
	case CastleShort, CastleLong:
		side := Kingside
		if m.Flag == CastleLong {
			side = Queenside
		}
		kingTo, rookTo := castleDestinations(us, side)
		rookFrom := p.RookFrom[us][side]
		// Lift king and rook off their origin squares first (Chess960
		// origins may coincide with destinations), then place both.
		p.remove(us, King, m.From)
		p.remove(us, Rook, rookFrom)
		p.put(us, King, kingTo)
		p.put(us, Rook, rookTo)
	case EnPassant:
		capSq := epCaptureSquare(us, m.To)
		p.remove(them, Pawn, capSq)
		p.move(us, Pawn, m.From, m.To)
	default:
		if m.Captured != NoPiece {
			p.remove(them, m.Captured.Kind(), m.To)
		}
		p.remove(us, movingKind, m.From)
		if m.IsPromotion() {
			p.put(us, m.Promotion, m.To)
		} else {
			p.put(us, movingKind, m.To)
		}
	}

	if movingKind == Pawn || m.Captured != NoPiece {
		p.HalfmoveClock = 0
	} else {
		p.HalfmoveClock++
	}

	if m.Flag == DoublePawnPush {
		p.EPSquare = midpoint(m.From, m.To)
		p.Hash ^= zobrist.EPFile[p.EPSquare.File()]
	}

	p.updateCastleRights(m, us)

	if !p.WhiteToMove {
		p.FullmoveNumber++
	}
	p.WhiteToMove = !p.WhiteToMove
	p.Hash ^= zobrist.SideToMove
}

// UndoMove reverses the most recent DoMove.
func (p *Position) UndoMove() {
	n := len(p.history)
	m := p.history[n-1]
	p.history = p.history[:n-1]
	st := p.undoStack[len(p.undoStack)-1]
	p.undoStack = p.undoStack[:len(p.undoStack)-1]

	p.WhiteToMove = !p.WhiteToMove
	if !p.WhiteToMove {
		p.FullmoveNumber--
	}
	us := p.SideToMove()
	them := us.Other()

	switch m.Flag {
	case CastleShort, CastleLong:
		side := Kingside
		if m.Flag == CastleLong {
			side = Queenside
		}
		kingTo, rookTo := castleDestinations(us, side)
		rookFrom := p.RookFrom[us][side]
		p.remove(us, King, kingTo)
		p.remove(us, Rook, rookTo)
		p.put(us, King, m.From)
		p.put(us, Rook, rookFrom)
	case EnPassant:
		p.move(us, Pawn, m.To, m.From)
		capSq := epCaptureSquare(us, m.To)
		p.put(them, Pawn, capSq)
	default:
		if m.IsPromotion() {
			p.remove(us, m.Promotion, m.To)
			p.put(us, Pawn, m.From)
		} else {
			p.move(us, m.Piece.Kind(), m.To, m.From)
		}
		if m.Captured != NoPiece {
			p.put(them, m.Captured.Kind(), m.To)
		}
	}

	p.CastleRights = st.castleRights
	p.EPSquare = st.epSquare
	p.HalfmoveClock = st.halfmoveClock
	p.Hash = st.hash
}

func midpoint(a, b bitboard.Square) bitboard.Square {
	return bitboard.NewSquare(a.File(), (a.Rank()+b.Rank())/2)
}

// epCaptureSquare returns the square of the pawn actually captured by an
// en-passant move landing on `to` for side `us`.
func epCaptureSquare(us Color, to bitboard.Square) bitboard.Square {
	if us == White {
		return bitboard.NewSquare(to.File(), to.Rank()-1)
	}
	return bitboard.NewSquare(to.File(), to.Rank()+1)
}

// castleDestinations returns the canonical post-castle king/rook squares:
// g/f-file for short, c/d-file for long, on the color's back rank --
// Chess960's rule that the distilled spec notes makes orthodox castling a
// degenerate case of it.
func castleDestinations(c Color, side int) (kingTo, rookTo bitboard.Square) {
	rank := 0
	if c == Black {
		rank = 7
	}
	if side == Kingside {
		return bitboard.NewSquare(6, rank), bitboard.NewSquare(5, rank)
	}
	return bitboard.NewSquare(2, rank), bitboard.NewSquare(3, rank)
}

func (p *Position) updateCastleRights(m Move, us Color) {
	old := p.CastleRights
	rights := old

	clear := func(mask uint8) { rights &^= mask }

	if us == White {
		if m.Piece.Kind() == King {
			clear(WhiteKingside | WhiteQueenside)
		}
		if m.From == p.RookFrom[White][Kingside] || m.To == p.RookFrom[White][Kingside] {
			clear(WhiteKingside)
		}
		if m.From == p.RookFrom[White][Queenside] || m.To == p.RookFrom[White][Queenside] {
			clear(WhiteQueenside)
		}
	} else {
		if m.Piece.Kind() == King {
			clear(BlackKingside | BlackQueenside)
		}
		if m.From == p.RookFrom[Black][Kingside] || m.To == p.RookFrom[Black][Kingside] {
			clear(BlackKingside)
		}
		if m.From == p.RookFrom[Black][Queenside] || m.To == p.RookFrom[Black][Queenside] {
			clear(BlackQueenside)
		}
	}
	// A capture landing on the opponent's rook home square also revokes
	// that right.
	if m.To == p.RookFrom[Black][Kingside] {
		clear(BlackKingside)
	}
	if m.To == p.RookFrom[Black][Queenside] {
		clear(BlackQueenside)
	}
	if m.To == p.RookFrom[White][Kingside] {
		clear(WhiteKingside)
	}
	if m.To == p.RookFrom[White][Queenside] {
		clear(WhiteQueenside)
	}

	if rights == old {
		return
	}
	for i, bit := range [4]uint8{WhiteKingside, WhiteQueenside, BlackKingside, BlackQueenside} {
		if old&bit != 0 && rights&bit == 0 {
			p.Hash ^= zobrist.Castle[i]
		}
	}
	p.CastleRights = rights
}

// Clone returns a deep copy suitable for search roots that must not alias
// the caller's position (e.g. "go" running in its own goroutine while UCI
// keeps reading "stop").
func (p *Position) Clone() *Position {
	cp := *p
	cp.undoStack = append([]undoState(nil), p.undoStack...)
	cp.history = append([]Move(nil), p.history...)
	return &cp
}

// MaterialSignature reports the popcount of each non-king piece kind for
// each color, used by the insufficient-material check -- a direct
// material-tuple comparison rather than the Zobrist-key composition the
// spec's open question flags as brittle (SPEC_FULL.md §12).
type MaterialSignature struct {
	Counts [2][5]int // [color][Pawn..Queen]
}

func (p *Position) Material() MaterialSignature {
	var sig MaterialSignature
	for c := White; c <= Black; c++ {
		for k := Pawn; k < King; k++ {
			sig.Counts[c][k] = bitboard.PopCount(p.Bitboards[c][k])
		}
	}
	return sig
}
