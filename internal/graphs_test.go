package internal

import (
	"slices"
	"testing"
)

func TestRoundGraphDownstream(t *testing.T) {
	g := NewRoundGraph()
	ko4 := RoundNode{Stage: "KNOCKOUT", Round: 4}
	ko5 := RoundNode{Stage: "KNOCKOUT", Round: 5}
	for round := 1; round <= 3; round += 1 {
		if err := g.Link(RoundNode{Stage: "GROUP", Round: round}, ko4); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Link(ko4, ko5); err != nil {
		t.Fatal(err)
	}
	// Linking twice is fine
	if err := g.Link(ko4, ko5); err != nil {
		t.Fatal(err)
	}

	downstream := g.Downstream(RoundNode{Stage: "GROUP", Round: 2})
	eq1 := len(downstream) == 2
	eq2 := slices.Contains(downstream, ko4) && slices.Contains(downstream, ko5)
	if !eq1 || !eq2 {
		t.Fatal("The knockout rounds are not downstream of a group round")
	}

	if len(g.Downstream(ko5)) != 0 {
		t.Fatal("The final round has dependants")
	}
	if g.Downstream(RoundNode{Stage: "SWISS", Round: 1}) != nil {
		t.Fatal("An unknown round has dependants")
	}

	downstream = g.Downstream(ko4)
	if len(downstream) != 1 || downstream[0] != ko5 {
		t.Fatal("The first knockout round is downstream of itself or misses the final")
	}
}

func TestRoundGraphRejectsCycles(t *testing.T) {
	g := NewRoundGraph()
	a := RoundNode{Stage: "SWISS", Round: 1}
	b := RoundNode{Stage: "SWISS", Round: 2}
	if err := g.Link(a, b); err != nil {
		t.Fatal(err)
	}
	if err := g.Link(b, a); err == nil {
		t.Fatal("A cycle was accepted")
	}
	if err := g.Link(b, b); err == nil {
		t.Fatal("A round depending on itself was accepted")
	}

	downstream := g.Downstream(a)
	if len(downstream) != 1 || downstream[0] != b {
		t.Fatal("A rejected link changed the graph")
	}
}
