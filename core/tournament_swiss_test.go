package core

import "testing"

func TestSwissAvoidsRematches(t *testing.T) {
	tournament := newTestTournament(FormatSwiss, 4, 1)
	for i, id := range []string{"a", "b", "c", "d"} {
		tournament.Participants[i].Id = id
	}
	tournament.Status = StatusInProgress
	tournament.Matches = []Match{
		playedMatch("sw-r1-m1", "a", "b", "a", 1, StageSwiss),
		playedMatch("sw-r1-m2", "c", "d", "c", 1, StageSwiss),
	}

	next := NextSwissRound(tournament)
	second := matchList(next.Matches).InRound(2)
	if len(second) != 2 {
		t.Fatal("The second swiss round was not generated")
	}
	for _, m := range second {
		if m.Pairs("a", "b") || m.Pairs("c", "d") {
			t.Fatal("The second round repeats a pairing of the first round")
		}
	}
	if next.Standings["a"].Points != 3 {
		t.Fatal("The standings were not refreshed with the new round")
	}
}

func TestSwissByeRotation(t *testing.T) {
	ranked := ParticipantSlice(3)
	previous := []Match{
		NewMatch("sw-r1-m1", NewPlayerSlot("p2"), NewByeSlot(), 1, StageSwiss),
		playedMatch("sw-r1-m2", "p0", "p1", "p0", 1, StageSwiss),
	}
	previous[0].Played = true
	previous[0].Winner = "p2"

	round := SwissRound(ranked, previous, 1, 2)
	eq1 := len(round) == 2
	eq2 := round[0].Slot1.Is("p1") && round[0].Slot2.IsBye()
	eq3 := round[1].Pairs("p0", "p2")
	if !eq1 || !eq2 || !eq3 {
		t.Fatal("The bye did not go to the lowest ranked participant without a bye")
	}

	previous = append(previous,
		NewMatch("sw-r2-m1", NewPlayerSlot("p1"), NewByeSlot(), 2, StageSwiss),
		NewMatch("sw-r2-m2", NewPlayerSlot("p0"), NewByeSlot(), 2, StageSwiss),
	)
	round = SwissRound(ranked, previous, 1, 3)
	if !round[0].Slot1.Is("p2") {
		t.Fatal("The lowest ranked participant did not get the bye after everyone had one")
	}
}

func TestSwissFallbackPairing(t *testing.T) {
	ranked := ParticipantSlice(2)
	previous := []Match{
		playedMatch("sw-r1-m1", "p0", "p1", "p0", 1, StageSwiss),
	}

	round := SwissRound(ranked, previous, 1, 2)
	if len(round) != 1 || !round[0].Pairs("p0", "p1") {
		t.Fatal("The unavoidable rematch was not paired")
	}
}

func TestSwissCompletion(t *testing.T) {
	tournament := newTestTournament(FormatSwiss, 4, 1)
	tournament.Settings.Rounds = 2
	tournament = GenerateFixtures(tournament)

	tournament, err := SimulateRound(tournament, 1)
	if err != nil {
		t.Fatal(err)
	}
	if tournament.Status == StatusCompleted || len(tournament.Matches) != 4 {
		t.Fatal("The tournament did not continue with the second round")
	}

	tournament, err = SimulateRound(tournament, 2)
	if err != nil {
		t.Fatal(err)
	}
	eq1 := tournament.Status == StatusCompleted
	eq2 := len(tournament.Matches) == 4
	if !eq1 || !eq2 {
		t.Fatal("The tournament was not completed after the configured rounds")
	}
}
