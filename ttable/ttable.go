// Package ttable implements the transposition cache: a direct-mapped array
// indexed by the low bits of the Zobrist hash, generalizing the teacher's
// ttable[TTSize]TTEntry (algerbrex/Blunder core/search.go) to pack two
// independent sub-caches -- an evaluation cache and a move-ordering cache --
// into each slot, per the distilled spec's single combined table.
package ttable

// Bits is the number of low hash bits used to index the table: 2^22
// entries, matching the spec's fixed transposition cache budget.
const Bits = 22

const size = 1 << Bits
const mask = size - 1

// Bound classifies how a stored search score relates to the true value,
// mirroring the teacher's AlphaFlag/BetaFlag/ExactFlag.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundExact
	BoundLower // fail-high, score is a lower bound (beta cutoff)
	BoundUpper // fail-low, score is an upper bound (alpha)
)

// MoveKey identifies a move by its squares and move type rather than by
// position in a move list, so a stored hint survives reordering
// (SPEC_FULL.md §9 / §12 Open Question #1).
type MoveKey struct {
	From, To  int8
	MoveType  uint8
	Promotion int8
}

// entry packs the eval sub-cache and the search/move-ordering sub-cache for
// one Zobrist key. Both halves share the key slot; a collision between two
// different full hashes silently overwrites -- there is no generation
// counter or replacement scheme, matching the teacher's design.
type entry struct {
	key uint64

	evalValid bool
	evalScore int32

	sortValid bool
	sortDepth int
	sortScore int32
	sortBound Bound
	sortMove  MoveKey
}

// Table is the shared transposition cache. It is safe to read concurrently
// with the single search goroutine that owns writes; SPEC_FULL.md's
// concurrency model runs at most one search at a time.
type Table struct {
	entries []entry
}

// New allocates a table with the fixed 2^22-entry budget.
func New() *Table {
	return &Table{entries: make([]entry, size)}
}

func index(hash uint64) uint64 { return hash & mask }

// ProbeEval returns the cached evaluation for hash, if present.
func (t *Table) ProbeEval(hash uint64) (score int32, ok bool) {
	e := &t.entries[index(hash)]
	if e.key == hash && e.evalValid {
		return e.evalScore, true
	}
	return 0, false
}

// StoreEval caches an evaluation for hash.
func (t *Table) StoreEval(hash uint64, score int32) {
	e := &t.entries[index(hash)]
	if e.key != hash {
		*e = entry{}
		e.key = hash
	}
	e.evalValid = true
	e.evalScore = score
}

// SearchEntry is the move-ordering/search sub-cache's contents for a probe.
type SearchEntry struct {
	Depth int
	Score int32
	Bound Bound
	Move  MoveKey
}

// ProbeSearch returns the cached search entry for hash, if present.
func (t *Table) ProbeSearch(hash uint64) (SearchEntry, bool) {
	e := &t.entries[index(hash)]
	if e.key == hash && e.sortValid {
		return SearchEntry{Depth: e.sortDepth, Score: e.sortScore, Bound: e.sortBound, Move: e.sortMove}, true
	}
	return SearchEntry{}, false
}

// StoreSearch writes the move-ordering/search sub-cache entry for hash.
func (t *Table) StoreSearch(hash uint64, depth int, score int32, bound Bound, move MoveKey) {
	e := &t.entries[index(hash)]
	if e.key != hash {
		*e = entry{}
		e.key = hash
	}
	e.sortValid = true
	e.sortDepth = depth
	e.sortScore = score
	e.sortBound = bound
	e.sortMove = move
}

// Clear resets every slot, used on "ucinewgame".
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = entry{}
	}
}
