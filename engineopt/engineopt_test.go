package engineopt

import "testing"

func TestDefaultValues(t *testing.T) {
	o := Default()
	if o.Chess960 || o.KingOfTheHill {
		t.Fatal("Chess960 and KingOfTheHill should default to false")
	}
	if o.Level != 100 {
		t.Fatalf("Level default = %d, want 100", o.Level)
	}
	if o.MoveOverhead != 15 {
		t.Fatalf("MoveOverhead default = %d, want 15", o.MoveOverhead)
	}
	if o.HashMB != 32 {
		t.Fatalf("HashMB default = %d, want 32", o.HashMB)
	}
}

func TestSetBooleans(t *testing.T) {
	o := Default()
	if err := o.Set("UCI_Chess960", "true"); err != nil {
		t.Fatalf("Set UCI_Chess960 error: %v", err)
	}
	if !o.Chess960 {
		t.Fatal("UCI_Chess960 should be true after Set")
	}
	if err := o.Set("UCI_Kingofthehill", "true"); err != nil {
		t.Fatalf("Set UCI_Kingofthehill error: %v", err)
	}
	if !o.KingOfTheHill {
		t.Fatal("UCI_Kingofthehill should be true after Set")
	}
}

func TestSetLevelClampsToRange(t *testing.T) {
	o := Default()
	if err := o.Set("Level", "500"); err != nil {
		t.Fatalf("Set Level error: %v", err)
	}
	if o.Level != 100 {
		t.Fatalf("Level should clamp to 100, got %d", o.Level)
	}
	if err := o.Set("Level", "-5"); err != nil {
		t.Fatalf("Set Level error: %v", err)
	}
	if o.Level != 0 {
		t.Fatalf("Level should clamp to 0, got %d", o.Level)
	}
}

func TestSetMoveOverheadClampsToRange(t *testing.T) {
	o := Default()
	if err := o.Set("MoveOverhead", "999999"); err != nil {
		t.Fatalf("Set MoveOverhead error: %v", err)
	}
	if o.MoveOverhead != 5000 {
		t.Fatalf("MoveOverhead should clamp to 5000, got %d", o.MoveOverhead)
	}
}

func TestSetHashAcceptedButDoesNotResizeTable(t *testing.T) {
	o := Default()
	if err := o.Set("Hash", "128"); err != nil {
		t.Fatalf("Set Hash error: %v", err)
	}
	if o.HashMB != 128 {
		t.Fatalf("HashMB should record the requested value, got %d", o.HashMB)
	}
}

func TestSetBadIntegerReturnsError(t *testing.T) {
	o := Default()
	if err := o.Set("Level", "not-a-number"); err == nil {
		t.Fatal("expected an error for a non-numeric Level value")
	}
}

func TestSetUnknownNameIsIgnored(t *testing.T) {
	o := Default()
	before := o
	if err := o.Set("SomeUnknownOption", "true"); err != nil {
		t.Fatalf("unknown option names should be ignored without error, got: %v", err)
	}
	if o != before {
		t.Fatal("unknown option should leave Options unchanged")
	}
}

func TestSaveThenLoadDefaultsRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	want := Default()
	want.Chess960 = true
	want.KingOfTheHill = true
	want.Level = 42
	want.MoveOverhead = 250
	want.HashMB = 64

	if err := SaveDefaults(want); err != nil {
		t.Fatalf("SaveDefaults error: %v", err)
	}

	got := LoadDefaults()
	if got != want {
		t.Fatalf("LoadDefaults() = %+v, want %+v", got, want)
	}
}

func TestLoadDefaultsNeverFails(t *testing.T) {
	// LoadDefaults must never error out regardless of whether a config file
	// is present; its result should always be within the documented ranges.
	got := LoadDefaults()
	if got.Level < 0 || got.Level > 100 {
		t.Fatalf("LoadDefaults().Level = %d, out of [0,100]", got.Level)
	}
	if got.MoveOverhead < 0 || got.MoveOverhead > 5000 {
		t.Fatalf("LoadDefaults().MoveOverhead = %d, out of [0,5000]", got.MoveOverhead)
	}
	if got.HashMB < 1 || got.HashMB > 1024 {
		t.Fatalf("LoadDefaults().HashMB = %d, out of [1,1024]", got.HashMB)
	}
}
