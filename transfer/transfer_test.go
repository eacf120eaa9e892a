package transfer

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ezBadminton/tourneymgr/core"
	"github.com/ezBadminton/tourneymgr/history"
	"github.com/ezBadminton/tourneymgr/storage"
)

func TestExportImport(t *testing.T) {
	tournament := core.Tournament{
		Id:           "t1",
		Name:         "Cup",
		Format:       core.FormatLeague,
		Participants: []core.Participant{{Id: "a", Name: "Alice", Rating: 50}, {Id: "b", Name: "Bob", Rating: 50}},
		Matches:      []core.Match{},
		Status:       core.StatusNotStarted,
	}
	tournament, err := core.SimulateAll(core.GenerateFixtures(tournament))
	if err != nil {
		t.Fatal(err)
	}

	state := storage.EmptyState()
	state.Tournaments = []core.Tournament{tournament}
	state.CurrentTournamentId = "t1"
	// A stale aggregate that must not survive the import
	state.ParticipantHistory = history.History{"alice": {Name: "Alice", Played: 99}}

	file := Export(state, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	data, err := json.Marshal(file)
	if err != nil {
		t.Fatal(err)
	}

	result := Import(data)
	if !result.Ok {
		t.Fatal(result.Error)
	}

	alice, _ := result.State.ParticipantHistory.Get("alice")
	eq1 := len(result.State.Tournaments) == 1
	eq2 := result.State.CurrentTournamentId == "t1"
	eq3 := alice.Played == 1
	if !eq1 || !eq2 || !eq3 {
		t.Fatal("the imported state differs from the exported state")
	}
}

func TestImportValidation(t *testing.T) {
	cases := []struct {
		data string
		err  error
	}{
		{`[]`, ErrNotObject},
		{`not json`, ErrNotObject},
		{`{}`, ErrTournamentsList},
		{`{"tournaments": {}}`, ErrTournamentsList},
		{`{"tournaments": [], "participantHistory": []}`, ErrHistoryMap},
		{`{"tournaments": [], "participantHistory": null}`, ErrHistoryMap},
		{`{"tournaments": []}`, ErrHistoryMap},
		{`{"tournaments": [], "participantHistory": {}, "currentTournamentId": 4}`, ErrCurrentTournament},
		{`{"tournaments": [{"id": "t1", "format": "ROUND_ROBIN"}]}`, ErrTournamentShape},
		{`{"tournaments": [{"id": 5}]}`, ErrTournamentShape},
	}

	for _, c := range cases {
		result := Import([]byte(c.data))
		if result.Ok || !strings.HasPrefix(result.Error, c.err.Error()) {
			t.Fatalf("importing %s did not fail with %q but with %q", c.data, c.err, result.Error)
		}
	}
}

func TestImportKeepsHistoryWithoutTournaments(t *testing.T) {
	data := `{
		"schemaVersion": 1,
		"tournaments": [],
		"participantHistory": {"x": {"name": "Zed", "played": 3, "wins": 3}},
		"currentTournamentId": null
	}`

	result := Import([]byte(data))
	if !result.Ok {
		t.Fatal(result.Error)
	}

	zed, ok := result.State.ParticipantHistory.Get("zed")
	if !ok || zed.Played != 3 || result.State.CurrentTournamentId != "" {
		t.Fatal("the transferred history was not kept")
	}
}
