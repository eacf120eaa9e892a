package core

import (
	"slices"

	"github.com/ezBadminton/tourneymgr/internal"
)

// The open round of a stage. AllowedRound is the round of the first
// unplayed match or the latest round when everything is played.
type StageEditContext struct {
	AllowedRound        int
	CurrentRoundStarted bool
}

// Returns the edit context of the matches of one stage.
//
// A round counts as started once one of its matches is played out.
// Byes and walkovers are resolved automatically and do not start a
// round.
func NewStageEditContext(stageMatches []Match) StageEditContext {
	matches := matchList(stageMatches)

	allowedRound := matches.MaxRound()
	if i := slices.IndexFunc(stageMatches, func(m Match) bool { return !m.Played }); i != -1 {
		allowedRound = stageMatches[i].Round
	}

	return StageEditContext{
		AllowedRound:        allowedRound,
		CurrentRoundStarted: anyContested(matches.InRound(allowedRound)),
	}
}

// Returns true when a result in the targetRound of a knockout or
// swiss stage may be set. That is the open round or the one before it
// as long as the open round has not started.
func IsManualRoundEditAllowed(stageMatches []Match, targetRound int) bool {
	ctx := NewStageEditContext(stageMatches)
	if targetRound == ctx.AllowedRound {
		return true
	}
	return targetRound == ctx.AllowedRound-1 && !ctx.CurrentRoundStarted
}

// Returns true when a result in the targetRound of the group stage
// may be set.
//
// Without a knockout stage every group round is open. Once the
// knockout draw exists only the last group round stays open and
// as soon as a knockout match is played the groups are frozen.
func IsGroupRoundEditAllowed(groupMatches, knockoutMatches []Match, targetRound int) bool {
	if len(knockoutMatches) == 0 {
		return true
	}
	if anyContested(knockoutMatches) {
		return false
	}
	return targetRound == matchList(groupMatches).MaxRound()
}

// Returns true when the result of the match may be set manually
func CanEditMatch(t Tournament, m Match) bool {
	if m.HasBye() || m.Walkover {
		return false
	}

	switch m.Stage {
	case StageLeague:
		return true
	case StageGroup:
		return IsGroupRoundEditAllowed(
			t.StageMatches(StageGroup),
			t.StageMatches(StageKnockout),
			m.Round,
		)
	default:
		return IsManualRoundEditAllowed(t.StageMatches(m.Stage), m.Round)
	}
}

// Returns the comprehensive list of matches whose result
// may currently be set
func EditableMatches(t Tournament) []Match {
	return filterMatches(t.Matches, func(m Match) bool { return CanEditMatch(t, m) })
}

// Records a result for the match. A winnerId that is not one of the
// two sides records a draw.
//
// The edit is rejected without an error when the match does not
// exist or may not be edited. Rounds that were derived from the
// edited round are discarded and generated again by the progression.
func SetMatchResult(t Tournament, matchId, winnerId string) Tournament {
	index := t.MatchIndex(matchId)
	if index == -1 {
		return t
	}

	target := t.Matches[index]
	if !CanEditMatch(t, target) {
		return t
	}

	winner := ""
	if winnerId != "" && target.ContainsPlayer(winnerId) {
		winner = winnerId
	}
	if target.Played && target.Winner == winner {
		return t
	}

	stale := make(map[internal.RoundNode]bool)
	for _, node := range buildRoundGraph(t).Downstream(roundNodeOf(target)) {
		stale[node] = true
	}

	next := t.Clone()
	next.Matches = filterMatches(next.Matches, func(m Match) bool {
		return !stale[roundNodeOf(m)]
	})

	index = next.MatchIndex(matchId)
	if index == -1 {
		return t
	}
	next.Matches[index] = Outcome{Played: true, Winner: winner}.applyTo(next.Matches[index])
	next.Status = StatusInProgress

	return Progress(next)
}

// Builds the dependencies between the rounds of the tournament.
//
// Each swiss and knockout round is derived from the round before it
// and the first knockout round of a GROUP_KO tournament is derived
// from every group round. Group and league rounds are generated
// upfront and depend on nothing.
func buildRoundGraph(t Tournament) *internal.RoundGraph {
	g := internal.NewRoundGraph()

	for _, stage := range []Stage{StageSwiss, StageKnockout} {
		rounds := roundNumbers(t.StageMatches(stage))
		for i := 1; i < len(rounds); i += 1 {
			_ = g.Link(
				internal.RoundNode{Stage: string(stage), Round: rounds[i-1]},
				internal.RoundNode{Stage: string(stage), Round: rounds[i]},
			)
		}
	}

	knockoutRounds := roundNumbers(t.StageMatches(StageKnockout))
	if len(knockoutRounds) == 0 {
		return g
	}
	firstKnockout := internal.RoundNode{Stage: string(StageKnockout), Round: knockoutRounds[0]}
	for _, round := range roundNumbers(t.StageMatches(StageGroup)) {
		_ = g.Link(internal.RoundNode{Stage: string(StageGroup), Round: round}, firstKnockout)
	}

	return g
}

func roundNodeOf(m Match) internal.RoundNode {
	return internal.RoundNode{Stage: string(m.Stage), Round: m.Round}
}

// Returns the distinct round numbers of the matches in ascending order
func roundNumbers(matches []Match) []int {
	rounds := make([]int, 0, len(matches))
	for _, m := range matches {
		rounds = append(rounds, m.Round)
	}
	slices.Sort(rounds)
	return slices.Compact(rounds)
}

func anyContested(matches []Match) bool {
	return slices.ContainsFunc(matches, func(m Match) bool { return m.Contested() })
}
