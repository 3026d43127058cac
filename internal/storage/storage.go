package storage

import "context"

// RawStore is the destination for normalized channel messages. Inserts are
// conflict-tolerant: a row whose (message_id, channel_id) pair already exists
// is skipped, never overwritten.
type RawStore interface {
	// InsertMessages writes one batch in a single transaction and reports how
	// many rows were actually inserted; submitted minus inserted is the number
	// of duplicates skipped.
	InsertMessages(ctx context.Context, rows []RawMessage) (int, error)

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Migrate creates the raw schema and messages table if they do not exist.
	Migrate(ctx context.Context) error

	Close() error
}
