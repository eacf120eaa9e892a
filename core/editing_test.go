package core

import (
	"fmt"
	"testing"
)

func stageMatch(round int, played bool, stage Stage) Match {
	m := NewMatch(fmt.Sprintf("%d-%v", round, played), NewPlayerSlot("a"), NewPlayerSlot("b"), round, stage)
	m.Played = played
	return m
}

func TestManualRoundEditRules(t *testing.T) {
	stageMatches := []Match{
		stageMatch(1, true, StageKnockout),
		stageMatch(1, true, StageKnockout),
		stageMatch(2, false, StageKnockout),
		stageMatch(2, false, StageKnockout),
	}

	ctx := NewStageEditContext(stageMatches)
	eq1 := ctx.AllowedRound == 2
	eq2 := !ctx.CurrentRoundStarted
	if !eq1 || !eq2 {
		t.Fatal("The open round is not the unstarted second round")
	}

	eq1 = IsManualRoundEditAllowed(stageMatches, 2)
	eq2 = IsManualRoundEditAllowed(stageMatches, 1)
	eq3 := !IsManualRoundEditAllowed(stageMatches, 0)
	if !eq1 || !eq2 || !eq3 {
		t.Fatal("Only the open round and the one before it should be editable")
	}

	stageMatches[2].Played = true
	eq1 = IsManualRoundEditAllowed(stageMatches, 2)
	eq2 = !IsManualRoundEditAllowed(stageMatches, 1)
	if !eq1 || !eq2 {
		t.Fatal("The previous round is still editable after the open round started")
	}
}

func TestGroupRoundEditRules(t *testing.T) {
	groupMatches := []Match{
		stageMatch(1, true, StageGroup),
		stageMatch(2, true, StageGroup),
		stageMatch(3, true, StageGroup),
	}
	knockoutMatches := []Match{
		stageMatch(4, false, StageKnockout),
		stageMatch(4, false, StageKnockout),
	}

	eq1 := IsGroupRoundEditAllowed(groupMatches, nil, 1)
	eq2 := IsGroupRoundEditAllowed(groupMatches, nil, 3)
	if !eq1 || !eq2 {
		t.Fatal("Group rounds are not editable before the knockout exists")
	}

	eq1 = IsGroupRoundEditAllowed(groupMatches, knockoutMatches, 3)
	eq2 = !IsGroupRoundEditAllowed(groupMatches, knockoutMatches, 2)
	if !eq1 || !eq2 {
		t.Fatal("Only the last group round should be editable with an unstarted knockout")
	}

	knockoutMatches[0].Played = true
	if IsGroupRoundEditAllowed(groupMatches, knockoutMatches, 3) {
		t.Fatal("The group stage is still editable after the knockout started")
	}
}

func TestSwissEditRebuildsNextRound(t *testing.T) {
	tournament := GenerateFixtures(newTestTournament(FormatSwiss, 4, 1))
	tournament = SetMatchResult(tournament, "sw-r1-m1", "p0")
	tournament = SetMatchResult(tournament, "sw-r1-m2", "p2")

	second := matchList(tournament.Matches).InRound(2)
	if len(second) != 2 || !second[0].Pairs("p0", "p2") {
		t.Fatal("The second swiss round does not pair the two winners")
	}

	edited := SetMatchResult(tournament, "sw-r1-m1", "p1")
	second = matchList(edited.Matches).InRound(2)
	eq1 := len(edited.Matches) == 4
	eq2 := len(second) == 2 && second[0].Pairs("p1", "p2") && second[1].Pairs("p0", "p3")
	eq3 := !matchList(second).MatchesStarted()
	if !eq1 || !eq2 || !eq3 {
		t.Fatal("The second round was not paired again after the first round changed")
	}

	started := SetMatchResult(edited, "sw-r2-m1", "p1")
	rejected := SetMatchResult(started, "sw-r1-m1", "p0")
	index := rejected.MatchIndex("sw-r1-m1")
	if rejected.Matches[index].Winner != "p1" {
		t.Fatal("A result of the previous round was changed after the open round started")
	}
}

func TestGroupEditRebuildsKnockout(t *testing.T) {
	tournament := GenerateFixtures(newTestTournament(FormatGroupKnockout, 8, 5))
	for round := 1; round <= 3; round += 1 {
		var err error
		tournament, err = SimulateRound(tournament, round)
		if err != nil {
			t.Fatal(err)
		}
	}

	lastRound := filterMatches(tournament.Matches, func(m Match) bool {
		return m.Stage == StageGroup && m.Round == 3
	})
	earlierRound := filterMatches(tournament.Matches, func(m Match) bool {
		return m.Stage == StageGroup && m.Round == 2
	})

	eq1 := CanEditMatch(tournament, lastRound[0])
	eq2 := !CanEditMatch(tournament, earlierRound[0])
	if !eq1 || !eq2 {
		t.Fatal("Only the last group round should be editable once the knockout is drawn")
	}

	target := lastRound[0]
	loser, _ := target.Loser()
	edited := SetMatchResult(tournament, target.Id, loser)

	knockout := matchList(edited.StageMatches(StageKnockout))
	eq1 = edited.Matches[edited.MatchIndex(target.Id)].Winner == loser
	eq2 = len(knockout) == 2 && !knockout.MatchesStarted()
	if !eq1 || !eq2 {
		t.Fatal("The knockout was not drawn again after a group result changed")
	}

	started := SetMatchResult(edited, knockout[0].Id, knockout[0].Slot1.ParticipantId)
	if CanEditMatch(started, started.Matches[started.MatchIndex(target.Id)]) {
		t.Fatal("The group stage is still editable after a knockout match was played")
	}
}

func TestByeMatchesAreNotEditable(t *testing.T) {
	tournament := GenerateFixtures(newTestTournament(FormatSwiss, 3, 1))

	bye := matchList(tournament.Matches).InRound(1)[0]
	eq1 := bye.HasBye() && bye.Played && bye.Winner == bye.Slot1.ParticipantId
	eq2 := !CanEditMatch(tournament, bye)
	if !eq1 || !eq2 {
		t.Fatal("The bye match was not resolved automatically or is editable")
	}

	regular := matchList(tournament.Matches).InRound(1)[1]
	tournament = SetMatchResult(tournament, regular.Id, regular.Slot1.ParticipantId)
	if len(matchList(tournament.Matches).InRound(2)) != 2 {
		t.Fatal("The second round was not generated")
	}

	regular = tournament.Matches[tournament.MatchIndex(regular.Id)]
	if !CanEditMatch(tournament, regular) {
		t.Fatal("A round with only a resolved bye counts as started")
	}
}

func TestSetMatchResultDraw(t *testing.T) {
	tournament := GenerateFixtures(newTestTournament(FormatLeague, 4, 1))
	id := tournament.Matches[0].Id
	tournament = SetMatchResult(tournament, id, "nobody")

	m := tournament.Matches[tournament.MatchIndex(id)]
	eq1 := m.IsDraw()
	eq2 := tournament.Standings[m.Slot1.ParticipantId].Draws == 1
	eq3 := tournament.Status == StatusInProgress
	if !eq1 || !eq2 || !eq3 {
		t.Fatal("A winner outside of the match did not record a draw")
	}
}

func TestKnockoutFinalEdit(t *testing.T) {
	tournament, err := SimulateAll(GenerateFixtures(newTestTournament(FormatKnockout, 4, 7)))
	if err != nil {
		t.Fatal(err)
	}

	final := tournament.Matches[tournament.MatchIndex("ko-r2-m1")]
	if !CanEditMatch(tournament, final) {
		t.Fatal("The final of a completed knockout is not editable")
	}

	loser, _ := final.Loser()
	edited := SetMatchResult(tournament, final.Id, loser)

	placement, ok := ResolvePlacement(edited)
	eq1 := len(edited.Matches) == 3
	eq2 := edited.Matches[edited.MatchIndex(final.Id)].Winner == loser
	eq3 := edited.Status == StatusCompleted
	eq4 := ok && placement.ChampionId == loser && placement.RunnerUpId == final.Winner
	if !eq1 || !eq2 || !eq3 || !eq4 {
		t.Fatal("Changing the final did not change the champion")
	}
}

func TestKnockoutEditRedrawsNextRound(t *testing.T) {
	tournament, err := SimulateRound(GenerateFixtures(newTestTournament(FormatKnockout, 4, 7)), 1)
	if err != nil {
		t.Fatal(err)
	}

	first := tournament.Matches[tournament.MatchIndex("ko-r1-m1")]
	second := tournament.Matches[tournament.MatchIndex("ko-r1-m2")]
	final := tournament.Matches[tournament.MatchIndex("ko-r2-m1")]
	if !final.Pairs(first.Winner, second.Winner) || final.Played {
		t.Fatal("The final was not drawn from the first round winners")
	}

	loser, _ := first.Loser()
	edited := SetMatchResult(tournament, first.Id, loser)

	final = edited.Matches[edited.MatchIndex("ko-r2-m1")]
	eq1 := len(edited.Matches) == 3
	eq2 := edited.Matches[edited.MatchIndex(first.Id)].Winner == loser
	eq3 := final.Pairs(loser, second.Winner) && !final.Played
	if !eq1 || !eq2 || !eq3 {
		t.Fatal("The final was not drawn again after a first round result changed")
	}
}
