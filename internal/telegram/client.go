// Package telegram wraps the MTProto API as a rate-limited channel client:
// handle resolution, paged message iteration and media download, with API
// failures translated into a small typed taxonomy (flood wait, forbidden,
// not found). Retry policy belongs to the caller.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/tg"
	"golang.org/x/time/rate"

	"github.com/rkata-ai/tg-pipeline/internal/config"
)

// Requests per second allowed through the proactive limiter. Listing calls
// are the rate-limit-sensitive ones; one per second stays well under the
// aggregate limits even across long runs.
const apiRate = 1

// Channel is a resolved public broadcast channel. Resolved fresh at the start
// of each run, never cached across runs.
type Channel struct {
	ID         int64
	AccessHash int64
	Handle     string
	Title      string
}

// MediaKind is the explicit classification of a message's media attachment.
type MediaKind string

const (
	MediaNone     MediaKind = ""
	MediaPhoto    MediaKind = "photo"
	MediaDocument MediaKind = "document"
	MediaVideo    MediaKind = "video"
	MediaAudio    MediaKind = "audio"
	MediaUnknown  MediaKind = "unknown"
)

// Message is one channel message as observed during iteration.
type Message struct {
	ID       int64
	SenderID int64 // 0 when the sender is not exposed
	Text     string
	Date     time.Time
	Media    MediaKind // MediaNone when the message has no attachment

	raw tg.MessageMediaClass // attachment handle for DownloadMedia
}

// MessageIterator walks a channel's history newest-first, up to the limit it
// was created with. Restartable from the beginning only; after a flood wait
// the same iterator resumes from its cursor without re-emitting messages.
type MessageIterator interface {
	// Next advances to the next message. It returns false at the end of the
	// sequence or on error; Err distinguishes the two.
	Next(ctx context.Context) bool
	Message() Message
	Err() error
}

// ChannelReader is the surface the extractor drives.
type ChannelReader interface {
	Resolve(ctx context.Context, handle string) (*Channel, error)
	Messages(channel *Channel, limit int) MessageIterator
	DownloadMedia(ctx context.Context, channel *Channel, msg Message) (string, error)
}

type Client struct {
	client    *telegram.Client
	api       *tg.Client
	limiter   *rate.Limiter
	dl        *downloader.Downloader
	phone     string
	imagesDir string
	log       *slog.Logger
}

var _ ChannelReader = (*Client)(nil)

// NewClient validates credentials and builds the MTProto client. It fails
// fast when the API identifier, secret or phone number is absent.
func NewClient(cfg config.TelegramConfig, imagesDir string, log *slog.Logger) (*Client, error) {
	if cfg.APIID == "" || cfg.APIHash == "" || cfg.Phone == "" {
		return nil, fmt.Errorf("telegram: api_id, api_hash and phone are required")
	}
	apiID, err := strconv.Atoi(cfg.APIID)
	if err != nil {
		return nil, fmt.Errorf("telegram: invalid API ID: %w", err)
	}

	opts := telegram.Options{}
	if cfg.SessionFile != "" {
		opts.SessionStorage = &session.FileStorage{Path: cfg.SessionFile}
	}

	c := &Client{
		limiter:   rate.NewLimiter(rate.Limit(apiRate), 1),
		dl:        downloader.NewDownloader(),
		phone:     cfg.Phone,
		imagesDir: imagesDir,
		log:       log,
	}
	c.client = telegram.NewClient(apiID, cfg.APIHash, opts)
	c.api = c.client.API()
	return c, nil
}

// Run connects, authenticates if necessary and invokes f while the client is
// live. Everything that talks to the API must happen inside f.
func (c *Client) Run(ctx context.Context, f func(ctx context.Context) error) error {
	return c.client.Run(ctx, func(ctx context.Context) error {
		flow := auth.NewFlow(termAuth{phone: c.phone}, auth.SendCodeOptions{})
		if err := c.client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("telegram: auth failed: %w", err)
		}
		c.log.Info("telegram client authenticated")
		return f(ctx)
	})
}

// Resolve looks up a public channel by handle.
func (c *Client) Resolve(ctx context.Context, handle string) (*Channel, error) {
	handle = strings.TrimPrefix(handle, "@")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	res, err := c.api.ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{
		Username: handle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", handle, classify(err))
	}

	peer, ok := res.Peer.(*tg.PeerChannel)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a broadcast channel", ErrChannelNotFound, handle)
	}

	for _, chat := range res.Chats {
		ch, ok := chat.(*tg.Channel)
		if !ok || ch.ID != peer.ChannelID {
			continue
		}
		return &Channel{
			ID:         ch.ID,
			AccessHash: ch.AccessHash,
			Handle:     handle,
			Title:      ch.Title,
		}, nil
	}
	return nil, fmt.Errorf("%w: %s missing from resolve result", ErrChannelNotFound, handle)
}

// Messages returns a history iterator for the channel, capped at limit.
func (c *Client) Messages(channel *Channel, limit int) MessageIterator {
	return &historyIterator{
		client: c,
		peer:   &tg.InputPeerChannel{ChannelID: channel.ID, AccessHash: channel.AccessHash},
		handle: channel.Handle,
		limit:  limit,
	}
}

// parseMessage converts an API message into the client's representation.
// Service and empty messages carry nothing worth persisting and are skipped.
func parseMessage(mc tg.MessageClass) (Message, bool) {
	m, ok := mc.(*tg.Message)
	if !ok {
		return Message{}, false
	}

	msg := Message{
		ID:    int64(m.ID),
		Text:  m.Message,
		Date:  time.Unix(int64(m.Date), 0).UTC(),
		Media: classifyMedia(m.Media),
		raw:   m.Media,
	}
	if from, ok := m.GetFromID(); ok {
		if user, ok := from.(*tg.PeerUser); ok {
			msg.SenderID = user.UserID
		}
	}
	return msg, true
}
