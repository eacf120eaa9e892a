package core

import "math"

const (
	// Chance of a draw in each rollout when draws are allowed
	DrawChance = 0.05
	// Number of independent rollouts that vote on a simulated result
	SimulationRollouts = 25

	ratingScale = 20
)

// Probability that a participant rated ratingA beats one rated
// ratingB. Equal ratings give 0.5, a 20 point edge about 0.91.
func WinProbability(ratingA, ratingB float64) float64 {
	return 1 / (1 + math.Pow(10, (ratingB-ratingA)/ratingScale))
}

// The result of a match. A played outcome without a winner
// is a draw.
type Outcome struct {
	Played   bool
	Winner   string
	Walkover bool
}

func (o Outcome) applyTo(m Match) Match {
	m.Played = o.Played
	m.Winner = o.Winner
	m.Walkover = o.Walkover
	return m
}

// Resolves a match that involves a bye. The participant facing a
// bye wins, two byes make a played match without a winner.
// Returns false when no bye is involved.
func ResolveBye(m Match) (Outcome, bool) {
	bye1 := m.Slot1.IsBye()
	bye2 := m.Slot2.IsBye()

	switch {
	case bye1 && bye2:
		return Outcome{Played: true}, true
	case bye1:
		return Outcome{Played: true, Winner: m.Slot2.ParticipantId}, true
	case bye2:
		return Outcome{Played: true, Winner: m.Slot1.ParticipantId}, true
	}
	return Outcome{}, false
}

// Simulates the result of a match.
//
// The match id is the rng discriminator so each match has its own
// stream and the result does not depend on the order in which
// matches are simulated. The result is decided by a majority vote
// of SimulationRollouts rollouts: the second participant needs
// strictly more rollout wins than the first, a draw needs strictly
// more drawn rollouts than the better of the two.
func SimulateMatchResult(t Tournament, m Match) (Outcome, error) {
	if outcome, ok := ResolveBye(m); ok {
		return outcome, nil
	}

	a, okA := t.Participant(m.Slot1.ParticipantId)
	b, okB := t.Participant(m.Slot2.ParticipantId)
	if !okA || !okB {
		return Outcome{}, ErrUnknownParticipant
	}

	drawChance := 0.0
	if t.Settings.AllowDraws {
		drawChance = DrawChance
	}
	pA := WinProbability(a.Rating, b.Rating)
	rng := NewRng(t.Settings.RandomSeed, m.Id)

	aWins, bWins, draws := 0, 0, 0
	for range SimulationRollouts {
		switch rollout(rng, pA, drawChance) {
		case 0:
			aWins += 1
		case 1:
			bWins += 1
		default:
			draws += 1
		}
	}

	winner := a.Id
	maxWins := aWins
	if bWins > maxWins {
		winner = b.Id
		maxWins = bWins
	}
	if draws > maxWins {
		winner = ""
	}

	return Outcome{Played: true, Winner: winner}, nil
}

// One simulated game. Returns 0 or 1 for the winning side
// and -1 for a draw. The draw roll is taken even when draws
// are disabled so the stream layout stays the same.
func rollout(rng Rng, pA, drawChance float64) int {
	if rng() < drawChance {
		return -1
	}
	if rng() < pA {
		return 0
	}
	return 1
}
