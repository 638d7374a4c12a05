package uci

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"
)

// runCommands feeds the given commands (newline-joined, "quit" appended)
// through a fresh Engine and returns every line it wrote to stdout.
func runCommands(t *testing.T, commands ...string) []string {
	t.Helper()
	input := strings.Join(append(append([]string{}, commands...), "quit"), "\n") + "\n"
	var out bytes.Buffer
	e := NewEngine(strings.NewReader(input), &out)

	done := make(chan error, 1)
	go func() { done <- e.Run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return within the timeout")
	}

	var lines []string
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

func containsPrefix(lines []string, prefix string) bool {
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

func TestUCIHandshake(t *testing.T) {
	lines := runCommands(t, "uci")
	if !containsPrefix(lines, "id name") {
		t.Fatal("expected an `id name` line in response to uci")
	}
	if !containsPrefix(lines, "uciok") {
		t.Fatal("expected a uciok line in response to uci")
	}
}

func TestIsReady(t *testing.T) {
	lines := runCommands(t, "isready")
	if !containsPrefix(lines, "readyok") {
		t.Fatal("expected readyok in response to isready")
	}
}

func TestSetOptionThenPositionWithMoves(t *testing.T) {
	lines := runCommands(t,
		"uci",
		"setoption name Level value 100",
		"position startpos moves e2e4 e7e5",
		"isready",
	)
	if !containsPrefix(lines, "readyok") {
		t.Fatal("expected readyok after applying moves")
	}
}

func TestGoMoveTimeProducesBestMove(t *testing.T) {
	lines := runCommands(t,
		"position startpos",
		"go movetime 50",
	)
	if !containsPrefix(lines, "bestmove") {
		t.Fatalf("expected a bestmove line, got: %v", lines)
	}
}

func TestGoThenStopProducesBestMovePromptly(t *testing.T) {
	input := "position startpos\ngo infinite\nstop\nquit\n"
	var out bytes.Buffer
	e := NewEngine(strings.NewReader(input), &out)

	done := make(chan error, 1)
	go func() { done <- e.Run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stop did not cause the engine to quit promptly")
	}

	var lines []string
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if !containsPrefix(lines, "bestmove") {
		t.Fatalf("expected a bestmove line after stop, got: %v", lines)
	}
}

func TestBadFenReturnsError(t *testing.T) {
	input := "position fen not-a-fen\n"
	var out bytes.Buffer
	e := NewEngine(strings.NewReader(input), &out)
	if err := e.Run(); err == nil {
		t.Fatal("expected Run to return an error for a malformed fen")
	}
}

func TestEOFIsFatal(t *testing.T) {
	// No trailing newline, no quit: stdin simply closes.
	input := "uci"
	var out bytes.Buffer
	e := NewEngine(strings.NewReader(input), &out)
	if err := e.Run(); err == nil {
		t.Fatal("expected Run to return an error when stdin hits EOF without quit")
	}
}

func TestUnknownCommandIsIgnored(t *testing.T) {
	lines := runCommands(t, "notarealcommand", "isready")
	if !containsPrefix(lines, "readyok") {
		t.Fatal("an unknown command should be silently ignored, not break the session")
	}
}

func TestChess960OptionAffectsPositionParsing(t *testing.T) {
	lines := runCommands(t,
		"setoption name UCI_Chess960 value true",
		"position fen rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w AHah - 0 1",
		"isready",
	)
	if !containsPrefix(lines, "readyok") {
		t.Fatal("expected readyok after loading a shredder-FEN position under UCI_Chess960")
	}
}
