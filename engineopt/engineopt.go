// Package engineopt holds the engine's UCI-configurable options and a
// BurntSushi/toml-backed persistence layer for their defaults, generalizing
// Mgrdich-TermChess's internal/config/config.go (display Config/ConfigFile
// split, ~/.<app>/config.toml load/save) from a TUI's display settings to a
// UCI engine's search/strength knobs.
package engineopt

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Options holds the live, UCI-settable engine options (SPEC_FULL.md §6).
type Options struct {
	Chess960      bool
	KingOfTheHill bool
	Level         int // 0..100, 100 = full strength
	MoveOverhead  int // ms, 0..5000
	HashMB        int // MiB, 1..1024 -- recorded only, see Set
}

// Default returns the option table at its documented defaults.
func Default() Options {
	return Options{
		Chess960:      false,
		KingOfTheHill: false,
		Level:         100,
		MoveOverhead:  15,
		HashMB:        32,
	}
}

// Set applies a `setoption name <X> value <Y>` pair, clamping spin values
// to their documented ranges and ignoring unknown option names the way the
// teacher's setoption handler ignores everything (interface/uci.go).
func (o *Options) Set(name, value string) error {
	switch name {
	case "UCI_Chess960":
		o.Chess960 = value == "true"
	case "UCI_Kingofthehill":
		o.KingOfTheHill = value == "true"
	case "Level":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("engineopt: bad Level value %q: %w", value, err)
		}
		o.Level = clamp(v, 0, 100)
	case "MoveOverhead":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("engineopt: bad MoveOverhead value %q: %w", value, err)
		}
		o.MoveOverhead = clamp(v, 0, 5000)
	case "Hash":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("engineopt: bad Hash value %q: %w", value, err)
		}
		// Recorded only: the transposition cache stays at the
		// fixed 2^22-entry budget (ttable.Bits); resizing is out of scope.
		o.HashMB = clamp(v, 1, 1024)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// fileConfig is the on-disk TOML shape for persisted defaults, separate
// from Options the way TermChess's ConfigFile is kept separate from its
// in-memory Config.
type fileConfig struct {
	Engine struct {
		Chess960      bool `toml:"uci_chess960"`
		KingOfTheHill bool `toml:"uci_kingofthehill"`
		Level         int  `toml:"level"`
		MoveOverhead  int  `toml:"move_overhead"`
		HashMB        int  `toml:"hash_mb"`
	} `toml:"engine"`
}

// configDir returns ~/.gofish, creating nothing.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gofish"), nil
}

func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gofish.toml"), nil
}

// LoadDefaults reads ~/.gofish/gofish.toml over the documented defaults.
// It never fails the caller: a missing or unparsable file just yields the
// defaults, matching LoadConfig's "never returns an error" contract.
func LoadDefaults() Options {
	opts := Default()

	path, err := configPath()
	if err != nil {
		return opts
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return opts
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return opts
	}

	opts.Chess960 = fc.Engine.Chess960
	opts.KingOfTheHill = fc.Engine.KingOfTheHill
	if fc.Engine.Level != 0 {
		opts.Level = clamp(fc.Engine.Level, 0, 100)
	}
	if fc.Engine.MoveOverhead != 0 {
		opts.MoveOverhead = clamp(fc.Engine.MoveOverhead, 0, 5000)
	}
	if fc.Engine.HashMB != 0 {
		opts.HashMB = clamp(fc.Engine.HashMB, 1, 1024)
	}
	return opts
}

// SaveDefaults persists opts to ~/.gofish/gofish.toml, creating the
// directory (0755) if needed, matching TermChess's SaveConfig permissions.
func SaveDefaults(opts Options) error {
	dir, err := configDir()
	if err != nil {
		return fmt.Errorf("engineopt: config dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("engineopt: creating config dir: %w", err)
	}

	path, err := configPath()
	if err != nil {
		return fmt.Errorf("engineopt: config path: %w", err)
	}

	var fc fileConfig
	fc.Engine.Chess960 = opts.Chess960
	fc.Engine.KingOfTheHill = opts.KingOfTheHill
	fc.Engine.Level = opts.Level
	fc.Engine.MoveOverhead = opts.MoveOverhead
	fc.Engine.HashMB = opts.HashMB

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("engineopt: creating config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(fc); err != nil {
		return fmt.Errorf("engineopt: encoding config: %w", err)
	}
	return nil
}
