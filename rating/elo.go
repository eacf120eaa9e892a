package rating

import (
	"errors"
	"math"

	"github.com/ezBadminton/tourneymgr/core"
)

var (
	ErrScaleZero    = errors.New("rating scale is zero or less")
	ErrKFactorZero  = errors.New("k factor is zero or less")
	ErrInvalidRange = errors.New("max rating is not above min rating")
	ErrInvalidScore = errors.New("score is not one of 0, 0.5 and 1")
)

const (
	DefaultRating = 50
	MinRating     = 0
	MaxRating     = 100
)

type Settings struct {
	Scale float64
	// K factor once a participant is established
	KBase float64
	// K factor while a participant has played less
	// than ProvisionalMatches matches
	KProvisional       float64
	ProvisionalMatches int
	Min, Max           float64
}

// The settings of the rating scale used by the match simulation
func DefaultSettings() Settings {
	return Settings{
		Scale:              20,
		KBase:              24,
		KProvisional:       32,
		ProvisionalMatches: 20,
		Min:                MinRating,
		Max:                MaxRating,
	}
}

func NewSettings(
	scale, kBase, kProvisional float64,
	provisionalMatches int,
	minRating, maxRating float64,
) (Settings, error) {
	settings := Settings{
		scale, kBase, kProvisional, provisionalMatches, minRating, maxRating,
	}

	if scale <= 0 {
		return settings, ErrScaleZero
	}
	if kBase <= 0 || kProvisional <= 0 {
		return settings, ErrKFactorZero
	}
	if maxRating <= minRating {
		return settings, ErrInvalidRange
	}

	return settings, nil
}

// The new ratings of two opponents after a match
type Result struct {
	RatingA, RatingB float64
}

// Returns the expected score of a against b
func (s Settings) ExpectedScore(ratingA, ratingB float64) float64 {
	return 1 / (1 + math.Pow(10, (ratingB-ratingA)/s.Scale))
}

func (s Settings) KFactor(matchesPlayed int) float64 {
	if matchesPlayed < s.ProvisionalMatches {
		return s.KProvisional
	}
	return s.KBase
}

func (s Settings) Clamp(rating float64) float64 {
	return max(s.Min, min(s.Max, rating))
}

// Updates the ratings of two opponents. scoreA is 1 for a win of a,
// 0.5 for a draw and 0 for a loss. The new ratings are clamped to the
// rating range and rounded to two decimals.
func (s Settings) Update(
	ratingA, ratingB, scoreA float64,
	matchesPlayedA, matchesPlayedB int,
) (Result, error) {
	if scoreA != 0 && scoreA != 0.5 && scoreA != 1 {
		return Result{ratingA, ratingB}, ErrInvalidScore
	}

	expectedA := s.ExpectedScore(ratingA, ratingB)
	expectedB := 1 - expectedA
	scoreB := 1 - scoreA

	nextA := s.Clamp(ratingA + s.KFactor(matchesPlayedA)*(scoreA-expectedA))
	nextB := s.Clamp(ratingB + s.KFactor(matchesPlayedB)*(scoreB-expectedB))

	return Result{round2(nextA), round2(nextB)}, nil
}

// Update with the default settings
func Update(
	ratingA, ratingB, scoreA float64,
	matchesPlayedA, matchesPlayedB int,
) (Result, error) {
	return DefaultSettings().Update(ratingA, ratingB, scoreA, matchesPlayedA, matchesPlayedB)
}

// Replays the decided and drawn matches of the tournament in their
// stored order and returns the resulting rating of every participant.
//
// The starting ratings are the participants' current ratings. The
// played map holds the number of rated matches each participant had
// before this tournament and is keyed by participant id. Byes and
// walkovers are not rated.
func Replay(s Settings, t core.Tournament, played map[string]int) map[string]float64 {
	ratings := make(map[string]float64, len(t.Participants))
	counts := make(map[string]int, len(t.Participants))
	for _, p := range t.Participants {
		ratings[p.Id] = p.Rating
		counts[p.Id] = played[p.Id]
	}

	for _, m := range t.Matches {
		if !m.Contested() {
			continue
		}
		a, b := m.Slot1.ParticipantId, m.Slot2.ParticipantId
		ratingA, okA := ratings[a]
		ratingB, okB := ratings[b]
		if !okA || !okB {
			continue
		}

		scoreA := 0.5
		switch m.Winner {
		case a:
			scoreA = 1
		case b:
			scoreA = 0
		}

		result, _ := s.Update(ratingA, ratingB, scoreA, counts[a], counts[b])
		ratings[a] = result.RatingA
		ratings[b] = result.RatingB
		counts[a] += 1
		counts[b] += 1
	}

	return ratings
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
