package metrics

import (
	"math"
	"testing"
)

func TestBLEU_SelfComparisonIsPerfect(t *testing.T) {
	for _, s := range []string{
		"The quick brown fox",
		"hello",
		"one two",
		"Los mejores brokers de divisas en [country]",
	} {
		got := BLEU(s, s)
		if math.Abs(got-1.0) > 1e-9 {
			t.Errorf("BLEU(%q, %q) = %v, expected 1.0", s, s, got)
		}
	}
}

func TestBLEU_EmptyCandidate(t *testing.T) {
	if got := BLEU("", "The quick brown fox"); got != 0 {
		t.Errorf("expected 0 for empty candidate, got %v", got)
	}
}

func TestBLEU_EmptyReference(t *testing.T) {
	if got := BLEU("The quick brown fox", ""); got != 0 {
		t.Errorf("expected 0 for empty reference, got %v", got)
	}
}

func TestBLEU_NoOverlap(t *testing.T) {
	if got := BLEU("alpha beta gamma", "uno dos tres"); got != 0 {
		t.Errorf("expected 0 for disjoint texts, got %v", got)
	}
}

func TestBLEU_PartialOverlapBounded(t *testing.T) {
	got := BLEU("the quick brown dog", "the quick brown fox")
	if got <= 0 || got >= 1 {
		t.Errorf("expected score in (0,1), got %v", got)
	}
}

func TestBLEU_BrevityPenaltyApplies(t *testing.T) {
	full := BLEU("the quick brown fox jumps", "the quick brown fox jumps")
	short := BLEU("the quick", "the quick brown fox jumps")
	if short >= full {
		t.Errorf("expected truncated candidate to score below full match: %v >= %v", short, full)
	}
	if short <= 0 {
		t.Errorf("expected positive score for matching prefix, got %v", short)
	}
}

func TestBLEU_OrderSensitive(t *testing.T) {
	inOrder := BLEU("the quick brown fox", "the quick brown fox")
	scrambled := BLEU("fox brown quick the", "the quick brown fox")
	if scrambled >= inOrder {
		t.Errorf("expected scrambled candidate to score lower: %v >= %v", scrambled, inOrder)
	}
}

func TestBLEU_AlwaysWithinBounds(t *testing.T) {
	cases := [][2]string{
		{"a", "a a a a a a"},
		{"a a a a a a", "a"},
		{"the the the the", "the cat"},
		{"x", "x"},
	}
	for _, c := range cases {
		got := BLEU(c[0], c[1])
		if got < 0 || got > 1 {
			t.Errorf("BLEU(%q, %q) = %v out of [0,1]", c[0], c[1], got)
		}
	}
}

func TestClippedMatches_ClipsRepeats(t *testing.T) {
	// "the" appears 4x in the candidate but only 1x in the reference.
	cand := []string{"the", "the", "the", "the"}
	ref := []string{"the", "cat"}
	if got := clippedMatches(cand, ref, 1); got != 1 {
		t.Errorf("expected 1 clipped match, got %d", got)
	}
}
