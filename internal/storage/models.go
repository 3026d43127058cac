package storage

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// RawMessage is one load-ready row for raw.telegram_messages.
type RawMessage struct {
	ID           uuid.UUID      `db:"id"`
	MessageID    int64          `db:"message_id"`
	ChannelID    int64          `db:"channel_id"`
	ChannelName  string         `db:"channel_name"`
	ChannelTitle sql.NullString `db:"channel_title"`
	SenderID     sql.NullInt64  `db:"sender_id"`
	MessageText  string         `db:"message_text"`
	MessageDate  time.Time      `db:"message_date"`
	HasMedia     bool           `db:"has_media"`
	MediaType    sql.NullString `db:"media_type"`
	FilePath     sql.NullString `db:"file_path"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}
