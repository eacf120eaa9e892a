package backup

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ezBadminton/tourneymgr/core"
	"github.com/ezBadminton/tourneymgr/storage"
	"github.com/ezBadminton/tourneymgr/transfer"
)

type fixedExporter struct {
	state storage.State
	at    time.Time
}

func (e fixedExporter) Export() transfer.File {
	return transfer.Export(e.state, e.at)
}

func TestRunOnce(t *testing.T) {
	state := storage.EmptyState()
	state.Tournaments = []core.Tournament{{
		Id:           "t1",
		Name:         "Cup",
		Format:       core.FormatLeague,
		Participants: []core.Participant{{Id: "a", Name: "Ann", Rating: 50}},
		Matches:      []core.Match{},
	}}
	state.CurrentTournamentId = "t1"

	dir := t.TempDir()
	exporter := fixedExporter{state, time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)}
	s, err := New("0 3 * * *", exporter, DirUploader{Dir: dir}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}

	key, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if key != "backups/tourney-20260304-050607.json" {
		t.Fatalf("Unexpected backup key %s", key)
	}

	data, err := os.ReadFile(filepath.Join(dir, "backups", "tourney-20260304-050607.json"))
	if err != nil {
		t.Fatal(err)
	}
	result := transfer.Import(data)
	if !result.Ok || len(result.State.Tournaments) != 1 || result.State.CurrentTournamentId != "t1" {
		t.Fatal("The backup cannot be imported again")
	}
}

func TestInvalidSchedule(t *testing.T) {
	_, err := New("every night", fixedExporter{}, DirUploader{Dir: t.TempDir()}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err == nil {
		t.Fatal("An invalid cron spec was accepted")
	}
}

func TestStartStop(t *testing.T) {
	s, err := New("@every 1h", fixedExporter{}, DirUploader{Dir: t.TempDir()}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	s.Stop()
}
