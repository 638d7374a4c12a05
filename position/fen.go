package position

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofish-engine/gofish/bitboard"
	"github.com/gofish-engine/gofish/zobrist"
)

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// KiwipeteFEN is the classic move-generator torture-test position (lifted
// verbatim from the teacher's core/board.go FENKiwiPete).
const KiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

var pieceLetters = map[byte]struct {
	c Color
	k Kind
}{
	'P': {White, Pawn}, 'N': {White, Knight}, 'B': {White, Bishop}, 'R': {White, Rook}, 'Q': {White, Queen}, 'K': {White, King},
	'p': {Black, Pawn}, 'n': {Black, Knight}, 'b': {Black, Bishop}, 'r': {Black, Rook}, 'q': {Black, Queen}, 'k': {Black, King},
}

// ParseFEN builds a Position from a Forsyth-Edwards string. The castling
// field may use orthodox KQkq letters or shredder-FEN rook-file letters
// (A-H/a-h) whatever chess960 is; chess960 sets Position.Chess960, which
// selects the king-onto-rook castling move encoding and the shredder form
// when the position is written back out with FEN.
func ParseFEN(fen string, chess960 bool) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("fen: need at least 4 fields, got %d: %q", len(fields), fen)
	}
	for len(fields) < 6 {
		fields = append(fields, "0")
	}

	p := &Position{Chess960: chess960}
	p.EPSquare = bitboard.NoSquare

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("fen: expected 8 ranks, got %d", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pc, ok := pieceLetters[ch]
			if !ok {
				return nil, fmt.Errorf("fen: bad piece letter %q", ch)
			}
			if file > 7 {
				return nil, fmt.Errorf("fen: rank %d overflows", i+1)
			}
			sq := bitboard.NewSquare(file, rank)
			p.put(pc.c, pc.k, sq)
			file++
		}
	}

	if bitboard.PopCount(p.Bitboards[White][King]) != 1 || bitboard.PopCount(p.Bitboards[Black][King]) != 1 {
		return nil, fmt.Errorf("fen: each side must have exactly one king")
	}
	p.KingFrom[White] = p.KingSquare(White)
	p.KingFrom[Black] = p.KingSquare(Black)

	switch fields[1] {
	case "w":
		p.WhiteToMove = true
	case "b":
		p.WhiteToMove = false
	default:
		return nil, fmt.Errorf("fen: bad side to move %q", fields[1])
	}

	if err := parseCastling(p, fields[2], chess960); err != nil {
		return nil, err
	}

	if fields[3] != "-" {
		sq, err := parseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("fen: bad en-passant square: %w", err)
		}
		p.EPSquare = sq
	}

	clock, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("fen: bad halfmove clock: %w", err)
	}
	p.HalfmoveClock = clock

	full, err := strconv.Atoi(fields[5])
	if err != nil {
		full = 1
	}
	p.FullmoveNumber = full

	p.Hash = computeHash(p)
	return p, nil
}

func parseSquare(s string) (bitboard.Square, error) {
	if len(s) != 2 {
		return bitboard.NoSquare, fmt.Errorf("bad square %q", s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return bitboard.NoSquare, fmt.Errorf("bad square %q", s)
	}
	return bitboard.NewSquare(file, rank), nil
}

// parseCastling accepts both orthodox KQkq and Chess960 shredder-FEN rook
// file letters (A-H upper for white, a-h lower for black), recording each
// side's rook home squares from whichever form is present.
func parseCastling(p *Position, s string, chess960 bool) error {
	for i := range p.RookFrom {
		p.RookFrom[i][Kingside] = bitboard.NoSquare
		p.RookFrom[i][Queenside] = bitboard.NoSquare
	}
	if s == "-" {
		return nil
	}

	wk, bk := p.KingFrom[White], p.KingFrom[Black]

	setRook := func(c Color, file int) {
		sq := bitboard.NewSquare(file, 0)
		if c == Black {
			sq = bitboard.NewSquare(file, 7)
		}
		kingFile := wk.File()
		if c == Black {
			kingFile = bk.File()
		}
		if file > kingFile {
			p.RookFrom[c][Kingside] = sq
			p.CastleRights |= kingsideBit(c)
		} else {
			p.RookFrom[c][Queenside] = sq
			p.CastleRights |= queensideBit(c)
		}
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == 'K':
			p.RookFrom[White][Kingside] = rightmostRookFile(p, White, true)
			p.CastleRights |= WhiteKingside
		case ch == 'Q':
			p.RookFrom[White][Queenside] = rightmostRookFile(p, White, false)
			p.CastleRights |= WhiteQueenside
		case ch == 'k':
			p.RookFrom[Black][Kingside] = rightmostRookFile(p, Black, true)
			p.CastleRights |= BlackKingside
		case ch == 'q':
			p.RookFrom[Black][Queenside] = rightmostRookFile(p, Black, false)
			p.CastleRights |= BlackQueenside
		case ch >= 'A' && ch <= 'H':
			setRook(White, int(ch-'A'))
		case ch >= 'a' && ch <= 'h':
			setRook(Black, int(ch-'a'))
		default:
			return fmt.Errorf("fen: bad castling letter %q", ch)
		}
	}
	return nil
}

func kingsideBit(c Color) uint8 {
	if c == White {
		return WhiteKingside
	}
	return BlackKingside
}

func queensideBit(c Color) uint8 {
	if c == White {
		return WhiteQueenside
	}
	return BlackQueenside
}

// rightmostRookFile finds the rook file implied by orthodox KQkq letters:
// the outermost friendly rook on the relevant side of the king (file > king
// file for kingside, < for queenside), which for standard chess is simply
// file h or a.
func rightmostRookFile(p *Position, c Color, kingside bool) bitboard.Square {
	rank := 0
	if c == Black {
		rank = 7
	}
	kingFile := p.KingFrom[c].File()
	rooks := p.Bitboards[c][Rook]
	best := bitboard.NoSquare
	for f := 0; f < 8; f++ {
		sq := bitboard.NewSquare(f, rank)
		if !bitboard.Has(rooks, sq) {
			continue
		}
		if kingside && f > kingFile {
			best = sq
		}
		if !kingside && f < kingFile && best == bitboard.NoSquare {
			best = sq
		}
	}
	return best
}

func computeHash(p *Position) uint64 {
	var h uint64
	for c := White; c <= Black; c++ {
		for k := Pawn; k <= King; k++ {
			bb := p.Bitboards[c][k]
			for bb != 0 {
				sq := bitboard.PopLSB(&bb)
				h ^= zobrist.PieceSquare[zobristIndex(c, k)][sq]
			}
		}
	}
	if !p.WhiteToMove {
		h ^= zobrist.SideToMove
	}
	for i, bit := range [4]uint8{WhiteKingside, WhiteQueenside, BlackKingside, BlackQueenside} {
		if p.CastleRights&bit != 0 {
			h ^= zobrist.Castle[i]
		}
	}
	if p.EPSquare != bitboard.NoSquare {
		h ^= zobrist.EPFile[p.EPSquare.File()]
	}
	return h
}

// FEN formats the position back into Forsyth-Edwards notation. Field 6
// (fullmove number) round-trips the value read at parse time.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := bitboard.NewSquare(file, rank)
			pc := p.PieceAt(sq)
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(pc.Letter())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.WhiteToMove {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.castlingFEN())

	sb.WriteByte(' ')
	if p.EPSquare == bitboard.NoSquare {
		sb.WriteByte('-')
	} else {
		sb.WriteString(squareString(p.EPSquare))
	}

	fmt.Fprintf(&sb, " %d %d", p.HalfmoveClock, p.FullmoveNumber)
	return sb.String()
}

func (p *Position) castlingFEN() string {
	if p.CastleRights == 0 {
		return "-"
	}
	var sb strings.Builder
	if p.Chess960 {
		if p.CastleRights&WhiteKingside != 0 {
			sb.WriteByte('A' + byte(p.RookFrom[White][Kingside].File()))
		}
		if p.CastleRights&WhiteQueenside != 0 {
			sb.WriteByte('A' + byte(p.RookFrom[White][Queenside].File()))
		}
		if p.CastleRights&BlackKingside != 0 {
			sb.WriteByte('a' + byte(p.RookFrom[Black][Kingside].File()))
		}
		if p.CastleRights&BlackQueenside != 0 {
			sb.WriteByte('a' + byte(p.RookFrom[Black][Queenside].File()))
		}
		return sb.String()
	}
	if p.CastleRights&WhiteKingside != 0 {
		sb.WriteByte('K')
	}
	if p.CastleRights&WhiteQueenside != 0 {
		sb.WriteByte('Q')
	}
	if p.CastleRights&BlackKingside != 0 {
		sb.WriteByte('k')
	}
	if p.CastleRights&BlackQueenside != 0 {
		sb.WriteByte('q')
	}
	return sb.String()
}
