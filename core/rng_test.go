package core

import (
	"slices"
	"testing"
)

func TestSeededRng(t *testing.T) {
	seed := int64(42)
	rng := NewRng(&seed, knockoutSeedLabel)

	expected := []float64{0.8234605963807553, 0.8396710327360779, 0.8427096991799772}
	for i, e := range expected {
		if v := rng(); v != e {
			t.Fatalf("Value %d of the seeded stream is %v, expected %v", i, v, e)
		}
	}

	seed = 1
	a := NewRng(&seed, "abc")
	b := NewRng(&seed, "abc")
	c := NewRng(&seed, "abd")
	eq1 := true
	eq2 := true
	for range 100 {
		va, vb, vc := a(), b(), c()
		eq1 = eq1 && va == vb
		eq2 = eq2 && va == vc
		if va < 0 || va >= 1 {
			t.Fatal("The rng produced a value outside of [0, 1)")
		}
	}
	if !eq1 {
		t.Fatal("Two streams with the same seed and discriminator differ")
	}
	if eq2 {
		t.Fatal("Two streams with different discriminators are the same")
	}
}

func TestSeededShuffle(t *testing.T) {
	seed := int64(5)
	ids := participantIds(ParticipantSlice(16))

	shuffled1 := SeededShuffle(ids, &seed, groupsSeedLabel)
	shuffled2 := SeededShuffle(ids, &seed, groupsSeedLabel)

	eq1 := slices.Equal(shuffled1, shuffled2)
	eq2 := !slices.Equal(ids, shuffled1)
	if !eq1 || !eq2 {
		t.Fatal("The seeded shuffle is not reproducible or did not shuffle")
	}

	sorted := slices.Clone(shuffled1)
	slices.Sort(sorted)
	expected := slices.Clone(ids)
	slices.Sort(expected)
	if !slices.Equal(sorted, expected) {
		t.Fatal("The shuffle lost or duplicated entries")
	}

	if ids[0] != "p0" || ids[15] != "p15" {
		t.Fatal("The shuffle changed its input")
	}
}
