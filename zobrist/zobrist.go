// Package zobrist precomputes the random 64-bit keys used to incrementally
// hash a position: one per (piece, square), one per side to move, one per
// castling-right bit, and one per en-passant file.
package zobrist

import "github.com/gofish-engine/gofish/bitboard"

// PieceSquare's first index is color*6 + kind: 0..5 are the white pawn
// through king, 6..11 the black pawn through king.
const (
	NumPieceKinds = 12
)

var (
	// PieceSquare[piece][square] is the key to XOR in/out when a piece of
	// that kind occupies that square.
	PieceSquare [NumPieceKinds][64]uint64

	// SideToMove is XORed in whenever the side to move changes.
	SideToMove uint64

	// Castle[right] is indexed by the four castling-right bits (white
	// kingside, white queenside, black kingside, black queenside).
	Castle [4]uint64

	// EPFile[file] is XORed in when an en-passant capture is available on
	// that file.
	EPFile [8]uint64
)

// splitmix64 is a fast, well-distributed deterministic PRNG used only to
// seed the Zobrist tables at init time -- the keys must be stable across
// runs for opening-book/test-fixture hashes to stay meaningful, so a
// seeded generator is used instead of crypto/rand.
type splitmix64 struct{ state uint64 }

func (s *splitmix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func init() {
	rng := &splitmix64{state: 0x9E3779B97F4A7C15}
	for p := 0; p < NumPieceKinds; p++ {
		for sq := 0; sq < 64; sq++ {
			PieceSquare[p][sq] = rng.next()
		}
	}
	SideToMove = rng.next()
	for i := range Castle {
		Castle[i] = rng.next()
	}
	for i := range EPFile {
		EPFile[i] = rng.next()
	}
}

// FileOf is a small convenience so callers hashing an en-passant square
// don't need to import bitboard just for this.
func FileOf(sq bitboard.Square) int { return sq.File() }
