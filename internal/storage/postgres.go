package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/rkata-ai/tg-pipeline/internal/config"
)

// PostgresStore implements RawStore for PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool and verifies connectivity once.
// An unreachable store is a fatal error for the caller.
func NewPostgresStore(cfg *config.DatabaseConfig) (RawStore, error) {
	db, err := sql.Open("postgres", ConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// ConnString builds the DSN from the database section. An explicit
// connection string wins over the discrete fields.
func ConnString(cfg *config.DatabaseConfig) string {
	if cfg.ConnectionString != "" {
		return cfg.ConnectionString
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Migrate creates the raw schema and the messages table. Idempotent; the
// unique (message_id, channel_id) constraint is what the loader's
// conflict-skip behavior depends on.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	schema := `
	    CREATE SCHEMA IF NOT EXISTS raw;

	    CREATE TABLE IF NOT EXISTS raw.telegram_messages (
	        id UUID PRIMARY KEY,
	        message_id BIGINT NOT NULL,
	        channel_id BIGINT NOT NULL,
	        channel_name TEXT,
	        channel_title TEXT,
	        sender_id BIGINT,
	        message_text TEXT NOT NULL DEFAULT '',
	        message_date TIMESTAMP WITH TIME ZONE NOT NULL,
	        has_media BOOLEAN NOT NULL DEFAULT FALSE,
	        media_type TEXT,
	        file_path TEXT,
	        created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	        updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	        UNIQUE (message_id, channel_id)
	    );

	    CREATE INDEX IF NOT EXISTS idx_raw_messages_channel_id ON raw.telegram_messages (channel_id);
	    CREATE INDEX IF NOT EXISTS idx_raw_messages_message_date ON raw.telegram_messages (message_date DESC);
	`

	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute migration script: %w", err)
	}
	return nil
}

const insertMessageQuery = `
	INSERT INTO raw.telegram_messages (
	    id, message_id, channel_id, channel_name, channel_title, sender_id,
	    message_text, message_date, has_media, media_type, file_path,
	    created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (message_id, channel_id) DO NOTHING
`

// InsertMessages writes the batch inside one transaction so a file is either
// fully applied (with per-row conflict skipping) or fully rolled back.
func (p *PostgresStore) InsertMessages(ctx context.Context, rows []RawMessage) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertMessageQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, row := range rows {
		res, err := stmt.ExecContext(ctx, insertArgs(row)...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert message %d/%d: %w", row.MessageID, row.ChannelID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read insert result: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return inserted, nil
}

// insertArgs returns the placeholder values for insertMessageQuery, in order.
func insertArgs(row RawMessage) []any {
	id := row.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return []any{
		id,
		row.MessageID,
		row.ChannelID,
		row.ChannelName,
		row.ChannelTitle,
		row.SenderID,
		row.MessageText,
		row.MessageDate,
		row.HasMedia,
		row.MediaType,
		row.FilePath,
		row.CreatedAt,
		row.UpdatedAt,
	}
}
