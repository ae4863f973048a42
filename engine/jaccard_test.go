package engine

import "testing"

func TestJaccard_IdenticalSetsScoreOne(t *testing.T) {
	if got := jaccard([]string{"a", "b"}, []string{"b", "a"}); got != 1.0 {
		t.Fatalf("expected 1.0, got %v", got)
	}
}

func TestJaccard_BothEmptyScoresOne(t *testing.T) {
	if got := jaccard(nil, nil); got != 1.0 {
		t.Fatalf("expected 1.0 for two empty sets, got %v", got)
	}
}

func TestJaccard_DisjointSetsScoreZero(t *testing.T) {
	if got := jaccard([]string{"a"}, []string{"b"}); got != 0.0 {
		t.Fatalf("expected 0.0, got %v", got)
	}
}

func TestJaccard_PartialOverlap(t *testing.T) {
	got := jaccard([]string{"a", "b", "c"}, []string{"b", "c", "d"})
	want := 2.0 / 4.0
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestJaccard_DuplicatesInOneSetDoNotSkewTheUnion(t *testing.T) {
	got := jaccard([]string{"a", "a", "b"}, []string{"a"})
	want := 1.0 / 2.0
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestStringSliceEqual(t *testing.T) {
	if !stringSliceEqual([]string{"a", "b"}, []string{"a", "b"}) {
		t.Fatal("expected equal slices to compare equal")
	}
	if stringSliceEqual([]string{"a", "b"}, []string{"b", "a"}) {
		t.Fatal("order matters for stringSliceEqual, expected mismatch")
	}
	if stringSliceEqual([]string{"a"}, []string{"a", "b"}) {
		t.Fatal("expected different-length slices to compare unequal")
	}
}
