// Package uci implements the Universal Chess Interface text protocol over
// an arbitrary reader/writer pair, generalizing the teacher's
// RunUCIProtocol/*CommandResponse dispatch loop (algerbrex/Blunder
// interface/uci.go) to the expanded option table, Chess960/KOTH modes, and
// a real search instead of an opening-book lookup.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/gofish-engine/gofish/clock"
	"github.com/gofish-engine/gofish/engineopt"
	"github.com/gofish-engine/gofish/movegen"
	"github.com/gofish-engine/gofish/position"
	"github.com/gofish-engine/gofish/search"
	"github.com/gofish-engine/gofish/ttable"
)

const (
	engineName   = "gofish 1.0"
	engineAuthor = "gofish contributors"
)

// Engine drives the UCI protocol over in/out. Exactly one search goroutine
// runs at a time; stdout writes are serialized behind outMu so "info"
// lines from the search goroutine never interleave with replies written
// from the command-reading goroutine.
type Engine struct {
	in  *bufio.Reader
	out io.Writer

	outMu sync.Mutex

	opts engineopt.Options
	pos  *position.Position
	tt   *ttable.Table

	searchMu sync.Mutex
	clk      *clock.Clock
	wg       sync.WaitGroup
}

// NewEngine builds an Engine reading UCI commands from in and writing
// responses to out.
func NewEngine(in io.Reader, out io.Writer) *Engine {
	pos, _ := position.ParseFEN(position.StartFEN, false)
	return &Engine{
		in:   bufio.NewReader(in),
		out:  out,
		opts: engineopt.LoadDefaults(),
		pos:  pos,
		tt:   ttable.New(),
	}
}

// Run reads and dispatches commands until "quit" or EOF. It returns nil on
// a clean quit; an I/O error on stdin is treated as fatal by the caller
// (SPEC_FULL.md §7), which should exit nonzero after logging.
func (e *Engine) Run() error {
	for {
		line, readErr := e.in.ReadString('\n')

		if trimmed := strings.TrimSpace(line); trimmed != "" {
			quit, err := e.dispatch(trimmed)
			if err != nil {
				return err
			}
			if quit {
				e.wg.Wait()
				return nil
			}
		}

		if readErr != nil {
			return fmt.Errorf("uci: reading stdin: %w", readErr)
		}
	}
}

func (e *Engine) dispatch(line string) (quit bool, err error) {
	switch {
	case line == "uci":
		e.handleUCI()
	case line == "isready":
		e.writeLine("readyok")
	case strings.HasPrefix(line, "setoption"):
		e.handleSetOption(line)
	case line == "ucinewgame":
		e.tt.Clear()
	case strings.HasPrefix(line, "position"):
		if err := e.handlePosition(line); err != nil {
			return false, err
		}
	case strings.HasPrefix(line, "go"):
		e.handleGo(line)
	case line == "stop":
		e.searchMu.Lock()
		if e.clk != nil {
			e.clk.Stop()
		}
		e.searchMu.Unlock()
	case line == "quit":
		e.searchMu.Lock()
		if e.clk != nil {
			e.clk.Stop()
		}
		e.searchMu.Unlock()
		return true, nil
	default:
		// Unknown command: ignored per SPEC_FULL.md §7.
	}
	return false, nil
}

func (e *Engine) handleUCI() {
	e.writeLine(fmt.Sprintf("id name %s", engineName))
	e.writeLine(fmt.Sprintf("id author %s", engineAuthor))
	e.writeLine("option name UCI_Chess960 type check default false")
	e.writeLine("option name UCI_Kingofthehill type check default false")
	e.writeLine("option name Level type spin default 100 min 0 max 100")
	e.writeLine("option name MoveOverhead type spin default 15 min 0 max 5000")
	e.writeLine("option name Hash type spin default 32 min 1 max 1024")
	e.writeLine("uciok")
}

func (e *Engine) handleSetOption(line string) {
	rest := strings.TrimPrefix(line, "setoption ")
	nameIdx := strings.Index(rest, "name ")
	valueIdx := strings.Index(rest, " value ")
	if nameIdx != 0 {
		return
	}
	var name, value string
	if valueIdx == -1 {
		name = strings.TrimSpace(strings.TrimPrefix(rest, "name "))
	} else {
		name = strings.TrimSpace(rest[len("name "):valueIdx])
		value = strings.TrimSpace(rest[valueIdx+len(" value "):])
	}
	if err := e.opts.Set(name, value); err != nil {
		log.Println(err)
	}
}

func (e *Engine) handlePosition(line string) error {
	args := strings.TrimPrefix(line, "position ")
	var fenStr string
	var rest string

	switch {
	case strings.HasPrefix(args, "startpos"):
		fenStr = position.StartFEN
		rest = strings.TrimSpace(strings.TrimPrefix(args, "startpos"))
	case strings.HasPrefix(args, "fen"):
		args = strings.TrimSpace(strings.TrimPrefix(args, "fen"))
		fields := strings.Fields(args)
		if len(fields) < 6 {
			return fmt.Errorf("uci: position fen: need 6 fields, got %d", len(fields))
		}
		fenStr = strings.Join(fields[0:6], " ")
		rest = strings.Join(fields[6:], " ")
	default:
		return fmt.Errorf("uci: position: expected startpos or fen")
	}

	pos, err := position.ParseFEN(fenStr, e.opts.Chess960)
	if err != nil {
		return fmt.Errorf("uci: position: %w", err)
	}
	pos.KOTH = e.opts.KingOfTheHill

	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "moves") {
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "moves"))
		for _, moveStr := range strings.Fields(rest) {
			m, err := movegen.ParseUCIMove(pos, moveStr)
			if err != nil {
				return fmt.Errorf("uci: position moves: %w", err)
			}
			pos.DoMove(m)
		}
	}

	e.pos = pos
	return nil
}

func (e *Engine) handleGo(line string) {
	lim, depth := parseGoLimits(line)
	pos := e.pos.Clone()
	white := pos.WhiteToMove
	clk := clock.New(white, lim, e.opts.MoveOverhead)

	e.searchMu.Lock()
	e.clk = clk
	e.searchMu.Unlock()

	level := e.opts.Level
	tt := e.tt

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if level <= 0 {
			e.playRandomMove(pos)
			return
		}
		best := search.Run(pos, tt, clk, level, depth, func(info search.Info) {
			e.writeInfo(info)
		})
		e.writeBestMove(best, pos)
	}()
}

func (e *Engine) playRandomMove(pos *position.Position) {
	var moves []position.Move
	movegen.Generate(pos, &moves)
	if len(moves) == 0 {
		e.writeLine("bestmove 0000")
		return
	}
	idx := int(pos.Hash % uint64(len(moves)))
	e.writeBestMove(moves[idx], pos)
}

func (e *Engine) writeBestMove(m position.Move, pos *position.Position) {
	if m.IsNull() {
		e.writeLine("bestmove 0000")
		return
	}
	rookSq := m.To
	if pos.Chess960 && (m.Flag == position.CastleShort || m.Flag == position.CastleLong) {
		side := position.Kingside
		if m.Flag == position.CastleLong {
			side = position.Queenside
		}
		rookSq = pos.RookFrom[m.Piece.Color()][side]
	}
	e.writeLine(fmt.Sprintf("bestmove %s", m.LongAlgebraic(pos.Chess960, rookSq)))
}

func (e *Engine) writeInfo(info search.Info) {
	ms := info.Time.Milliseconds()
	nps := int64(0)
	if ms > 0 {
		nps = int64(info.Nodes) * 1000 / ms
	}
	var scoreField string
	if info.Mate {
		scoreField = fmt.Sprintf("mate %d", info.Score)
	} else {
		scoreField = fmt.Sprintf("cp %d", info.Score)
	}
	pv := ""
	if len(info.PV) > 0 {
		pv = info.PV[0].String()
	}
	e.writeLine(fmt.Sprintf("info depth %d nodes %d time %d nps %d score %s pv %s",
		info.Depth, info.Nodes, ms, nps, scoreField, pv))
}

func (e *Engine) writeLine(s string) {
	e.outMu.Lock()
	defer e.outMu.Unlock()
	fmt.Fprintln(e.out, s)
}

func parseGoLimits(line string) (clock.Limits, int) {
	fields := strings.Fields(strings.TrimPrefix(line, "go"))
	var lim clock.Limits
	depth := 0

	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "infinite":
			lim.Infinite = true
		case "wtime":
			lim.WhiteTime = intField(fields, i+1)
			i++
		case "btime":
			lim.BlackTime = intField(fields, i+1)
			i++
		case "winc":
			lim.WhiteIncrement = intField(fields, i+1)
			i++
		case "binc":
			lim.BlackIncrement = intField(fields, i+1)
			i++
		case "movestogo":
			lim.MovesToGo = intField(fields, i+1)
			i++
		case "movetime":
			lim.MoveTime = intField(fields, i+1)
			i++
		case "depth":
			depth = intField(fields, i+1)
			i++
		}
	}
	return lim, depth
}

func intField(fields []string, i int) int {
	if i >= len(fields) {
		return 0
	}
	v, err := strconv.Atoi(fields[i])
	if err != nil {
		return 0
	}
	return v
}
