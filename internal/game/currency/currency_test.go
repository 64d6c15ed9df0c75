package currency

import (
	"testing"

	"pgregory.net/rapid"
)

func TestDecompose_Zero(t *testing.T) {
	gold, silver, copper := Decompose(0)
	if gold != 0 || silver != 0 || copper != 0 {
		t.Fatalf("expected 0,0,0 got %d,%d,%d", gold, silver, copper)
	}
}

func TestDecompose_ExactGold(t *testing.T) {
	gold, silver, copper := Decompose(20000)
	if gold != 2 || silver != 0 || copper != 0 {
		t.Fatalf("expected 2,0,0 got %d,%d,%d", gold, silver, copper)
	}
}

func TestDecompose_Mixed(t *testing.T) {
	gold, silver, copper := Decompose(54321)
	if gold != 5 || silver != 43 || copper != 21 {
		t.Fatalf("expected 5,43,21 got %d,%d,%d", gold, silver, copper)
	}
}

func TestFormat_Zero(t *testing.T) {
	if got := Format(0); got != "0c" {
		t.Fatalf("expected %q got %q", "0c", got)
	}
}

func TestFormat_OnlyCopper(t *testing.T) {
	if got := Format(42); got != "42c" {
		t.Fatalf("expected %q got %q", "42c", got)
	}
}

func TestFormat_Mixed(t *testing.T) {
	got := Format(54321)
	want := "5g 43s 21c"
	if got != want {
		t.Fatalf("expected %q got %q", want, got)
	}
}

func TestFormat_NoGold(t *testing.T) {
	got := Format(1205)
	want := "12s 5c"
	if got != want {
		t.Fatalf("expected %q got %q", want, got)
	}
}

func TestFormat_GoldNoSilver(t *testing.T) {
	got := Format(50000)
	want := "5g"
	if got != want {
		t.Fatalf("expected %q got %q", want, got)
	}
}

func TestDecompose_Roundtrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.Int64Range(0, 1_000_000_000).Draw(t, "total")
		gold, silver, copper := Decompose(total)
		if silver < 0 || silver >= 100 || copper < 0 || copper >= 100 {
			t.Fatalf("tiers out of range: %d,%d,%d", gold, silver, copper)
		}
		if gold*CopperPerGold+silver*CopperPerSilver+copper != total {
			t.Fatalf("decompose not lossless for %d", total)
		}
	})
}
