// Package loader parses partition files from the raw data lake and performs
// deduplicated batch inserts into the raw store. Each file is one isolation
// boundary: a failure in file N never affects files N-1 or N+1.
package loader

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rkata-ai/tg-pipeline/internal/lake"
	"github.com/rkata-ai/tg-pipeline/internal/stats"
	"github.com/rkata-ai/tg-pipeline/internal/storage"
)

// Loader loads discovered partition files file-sequentially.
type Loader struct {
	store   storage.RawStore
	scanner *lake.Scanner
	stats   *stats.LoadStats
	log     *slog.Logger

	now func() time.Time
}

func New(store storage.RawStore, scanner *lake.Scanner, st *stats.LoadStats, log *slog.Logger) *Loader {
	return &Loader{
		store:   store,
		scanner: scanner,
		stats:   st,
		log:     log,
		now:     time.Now,
	}
}

// Run discovers partition files (optionally for one date) and loads them.
// An unreachable store is fatal; per-file failures are recorded and skipped.
func (l *Loader) Run(ctx context.Context, dateFilter string) error {
	if err := l.store.Ping(ctx); err != nil {
		return fmt.Errorf("store is unreachable: %w", err)
	}

	files, err := l.scanner.Find(dateFilter)
	if err != nil {
		return fmt.Errorf("failed to scan for partition files: %w", err)
	}
	l.log.Info("starting load run", "files", len(files), "date_filter", dateFilter)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.processFile(ctx, path)
	}
	return nil
}

func (l *Loader) processFile(ctx context.Context, path string) {
	log := l.log.With("file", path)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("failed to read partition file", "err", err)
		l.stats.AddError()
		return
	}

	var records []lake.Record
	if err := json.Unmarshal(data, &records); err != nil {
		log.Error("failed to parse partition file", "err", err)
		l.stats.AddError()
		return
	}

	rows := make([]storage.RawMessage, 0, len(records))
	for _, rec := range records {
		rows = append(rows, l.normalize(rec))
	}

	inserted, err := l.store.InsertMessages(ctx, rows)
	if err != nil {
		log.Error("failed to insert batch", "rows", len(rows), "err", err)
		l.stats.AddError()
		return
	}

	l.stats.AddFile()
	l.stats.AddLoaded(int64(inserted))
	l.stats.AddDuplicates(int64(len(rows) - inserted))
	log.Info("file loaded", "rows", len(rows), "inserted", inserted, "duplicates", len(rows)-inserted)
}

// Accepted message_date layouts. RFC 3339 first; the bare layout covers
// timestamps serialized without a zone.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// normalize turns a raw record into a load-ready row, substituting an
// explicit default for every absent optional field. Normalization never
// fails: a missing or unparsable date becomes the load time.
func (l *Loader) normalize(rec lake.Record) storage.RawMessage {
	now := l.now().UTC()

	messageDate := now
	if rec.MessageDate != nil {
		if t, ok := parseDate(*rec.MessageDate); ok {
			messageDate = t
		}
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	return storage.RawMessage{
		MessageID:    rec.MessageID,
		ChannelID:    rec.ChannelID,
		ChannelName:  rec.ChannelName,
		ChannelTitle: nullString(stringPtrOrNil(rec.ChannelTitle)),
		SenderID:     nullInt64(rec.SenderID),
		MessageText:  rec.MessageText,
		MessageDate:  messageDate,
		HasMedia:     rec.HasMedia,
		MediaType:    nullString(rec.MediaType),
		FilePath:     nullString(rec.FilePath),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

func stringPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
