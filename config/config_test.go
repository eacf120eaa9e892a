package config

import (
	"log/slog"
	"testing"

	"github.com/ezBadminton/tourneymgr/storage"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"TOURNEY_HTTP_PORT", "TOURNEY_STORE_DRIVER", "TOURNEY_STORE_PATH", "LOG_LEVEL",
		"TOURNEY_BACKUP_CRON", "TOURNEY_BACKUP_DIR", "R2_ACCOUNT_ID", "R2_BUCKET",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	eq1 := cfg.ServerPort == 8080
	eq2 := cfg.StoreDriver == storage.DriverBolt && cfg.StorePath == "data/tourney.db"
	eq3 := cfg.LogLevel == slog.LevelInfo && cfg.BackupCron == ""
	eq4 := !cfg.R2.Complete()
	if !eq1 || !eq2 || !eq3 || !eq4 {
		t.Fatal("The defaults were not applied")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TOURNEY_HTTP_PORT", "9000")
	t.Setenv("TOURNEY_STORE_DRIVER", "SQLite")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerPort != 9000 || cfg.StoreDriver != storage.DriverSQLite || cfg.LogLevel != slog.LevelDebug {
		t.Fatal("The environment did not override the defaults")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		key, value string
	}{
		{"TOURNEY_HTTP_PORT", "http"},
		{"TOURNEY_HTTP_PORT", "70000"},
		{"TOURNEY_STORE_DRIVER", "postgres"},
		{"LOG_LEVEL", "loud"},
	}

	for _, c := range cases {
		t.Run(c.key+"="+c.value, func(t *testing.T) {
			t.Setenv(c.key, c.value)
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%s was accepted", c.key, c.value)
			}
		})
	}
}
