// Package lake owns the partition file format of the raw data lake: one JSON
// array per (ingestion date, channel) pair under
// <root>/<YYYY-MM-DD>/<channel>.json. The scraper writes partitions through
// Writer and the loader discovers them through Scanner; the two sides share
// only the Record layout.
package lake

import "time"

// Record is one serialized channel message as stored in a partition file.
// Optional fields are pointers so a missing value survives a round trip as
// null instead of a zero value. MessageDate stays a string on purpose: the
// loader substitutes a fallback for unparsable dates instead of failing the
// whole file.
type Record struct {
	MessageID    int64     `json:"message_id"`
	ChannelID    int64     `json:"channel_id"`
	ChannelName  string    `json:"channel_name"`
	ChannelTitle string    `json:"channel_title,omitempty"`
	SenderID     *int64    `json:"sender_id"`
	MessageText  string    `json:"message_text"`
	MessageDate  *string   `json:"message_date"`
	HasMedia     bool      `json:"has_media"`
	MediaType    *string   `json:"media_type"`
	FilePath     *string   `json:"file_path"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
