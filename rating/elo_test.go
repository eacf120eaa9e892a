package rating

import (
	"math"
	"testing"

	"github.com/ezBadminton/tourneymgr/core"
)

func TestSettings(t *testing.T) {
	_, err := NewSettings(0, 24, 32, 20, 0, 100)
	if err != ErrScaleZero {
		t.Fatal("zero scale did not error")
	}

	_, err = NewSettings(20, 0, 32, 20, 0, 100)
	if err != ErrKFactorZero {
		t.Fatal("zero k factor did not error")
	}

	_, err = NewSettings(20, 24, 32, 20, 100, 100)
	if err != ErrInvalidRange {
		t.Fatal("empty rating range did not error")
	}

	settings, err := NewSettings(20, 24, 32, 20, 0, 100)
	if err != nil || settings != DefaultSettings() {
		t.Fatal("the default settings did not validate")
	}
}

func TestUpsetGain(t *testing.T) {
	expectedWin, err := Update(80, 20, 1, 50, 50)
	if err != nil {
		t.Fatal(err)
	}
	upsetWin, err := Update(20, 80, 1, 50, 50)
	if err != nil {
		t.Fatal(err)
	}

	if upsetWin.RatingA-20 <= expectedWin.RatingA-80 {
		t.Fatal("an upset win did not gain more than an expected win")
	}
}

func TestSymmetry(t *testing.T) {
	aWins, _ := Update(DefaultRating, DefaultRating, 1, 0, 0)
	bWins, _ := Update(DefaultRating, DefaultRating, 0, 0, 0)

	gain := aWins.RatingA - DefaultRating
	loss := DefaultRating - bWins.RatingA
	if math.Abs(gain-loss) > 1e-6 || gain != 16 {
		t.Fatal("equal ratings with opposite outcomes are not symmetric")
	}

	draw, _ := Update(DefaultRating, DefaultRating, 0.5, 10, 10)
	if draw.RatingA != DefaultRating || draw.RatingB != DefaultRating {
		t.Fatal("a draw between equal ratings changed the ratings")
	}
}

func TestClampAndScore(t *testing.T) {
	result, _ := Update(99, 100, 1, 0, 0)
	if result.RatingA != MaxRating || result.RatingB < MinRating {
		t.Fatal("the ratings left the rating range")
	}

	_, err := Update(50, 50, 0.3, 0, 0)
	if err != ErrInvalidScore {
		t.Fatal("an invalid score did not error")
	}
}

func TestReplay(t *testing.T) {
	tournament := core.Tournament{
		Format: core.FormatLeague,
		Participants: []core.Participant{
			{Id: "a", Name: "A", Rating: 50},
			{Id: "b", Name: "B", Rating: 50},
		},
	}
	win := core.NewMatch("m1", core.NewPlayerSlot("a"), core.NewPlayerSlot("b"), 1, core.StageLeague)
	win.Played = true
	win.Winner = "a"
	bye := core.NewMatch("m2", core.NewPlayerSlot("a"), core.NewByeSlot(), 2, core.StageLeague)
	bye.Played = true
	bye.Winner = "a"
	tournament.Matches = []core.Match{win, bye}

	ratings := Replay(DefaultSettings(), tournament, map[string]int{"b": 30})

	eq1 := ratings["a"] == 66
	eq2 := ratings["b"] == 38
	if !eq1 || !eq2 {
		t.Fatalf("unexpected ratings after replay: %v", ratings)
	}
}
