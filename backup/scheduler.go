// Package backup periodically exports the application state and
// uploads the transfer file.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ezBadminton/tourneymgr/transfer"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 2 * time.Minute

// Exporter produces the transfer file of the current state
type Exporter interface {
	Export() transfer.File
}

type Scheduler struct {
	c        *cron.Cron
	spec     string
	exporter Exporter
	uploader Uploader
	logger   *slog.Logger
}

// New schedules a backup for the standard five field cron spec
func New(spec string, exporter Exporter, uploader Uploader, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		c:        cron.New(),
		spec:     spec,
		exporter: exporter,
		uploader: uploader,
		logger:   logger,
	}

	_, err := s.c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("backup failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("starting backup scheduler", slog.String("cron", s.spec))
	s.c.Start()
}

// Stops the scheduler and waits for a running backup
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}

// Exports the state and uploads it. Returns the key of the backup.
func (s *Scheduler) RunOnce(ctx context.Context) (string, error) {
	file := s.exporter.Export()
	data, err := json.Marshal(file)
	if err != nil {
		return "", fmt.Errorf("failed to marshal backup: %w", err)
	}

	key := Key(file.ExportedAt)
	if err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(data)); err != nil {
		return "", err
	}

	s.logger.Info("backup uploaded",
		slog.String("key", key),
		slog.Int("tournaments", len(file.Tournaments)),
	)
	return key, nil
}

// Returns the object key of a backup taken at the given time
func Key(at time.Time) string {
	return fmt.Sprintf("backups/tourney-%s.json", at.UTC().Format("20060102-150405"))
}
