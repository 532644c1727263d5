package app

import (
	"math/rand"
	"slices"
	"testing"
)

func TestShuffleIsPermutation(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for n := 0; n <= 12; n++ {
		in := make([]int, n)
		for i := range in {
			in[i] = i * 7
		}
		original := slices.Clone(in)

		out := Shuffle(rnd, in)
		if !slices.Equal(in, original) {
			t.Fatalf("input mutated for n=%d", n)
		}
		sorted := slices.Clone(out)
		slices.Sort(sorted)
		if !slices.Equal(sorted, original) {
			t.Fatalf("n=%d: %v is not a permutation of %v", n, out, original)
		}
	}
}

func TestShuffleSmallInputsUnchanged(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	if out := Shuffle(rnd, []string{}); len(out) != 0 {
		t.Fatalf("expected empty, got %v", out)
	}
	if out := Shuffle(rnd, []string{"only"}); len(out) != 1 || out[0] != "only" {
		t.Fatalf("expected single element unchanged, got %v", out)
	}
}

func TestShuffleRoughlyUniform(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	const trials = 60000
	counts := make(map[[3]int]int)
	for i := 0; i < trials; i++ {
		out := Shuffle(rnd, []int{0, 1, 2})
		counts[[3]int{out[0], out[1], out[2]}]++
	}
	if len(counts) != 6 {
		t.Fatalf("expected all 6 permutations, saw %d", len(counts))
	}
	expected := trials / 6
	for perm, c := range counts {
		if c < expected*9/10 || c > expected*11/10 {
			t.Fatalf("permutation %v drawn %d times, expected about %d", perm, c, expected)
		}
	}
}

func TestSampleLimits(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	items := []int{1, 2, 3, 4, 5}
	if got := Sample(rnd, items, 3); len(got) != 3 {
		t.Fatalf("expected 3, got %d", len(got))
	}
	if got := Sample(rnd, items, 10); len(got) != 5 {
		t.Fatalf("expected all 5, got %d", len(got))
	}
	if got := Sample(rnd, items, 0); len(got) != 5 {
		t.Fatalf("expected all 5 for zero limit, got %d", len(got))
	}
}
