// Package scraper drives the channel client across the configured channels
// and hands each channel's batch to the partitioned writer. Channels are
// processed strictly sequentially: the external rate limit is a shared
// resource and concurrent listing would only multiply flood waits.
package scraper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rkata-ai/tg-pipeline/internal/config"
	"github.com/rkata-ai/tg-pipeline/internal/lake"
	"github.com/rkata-ai/tg-pipeline/internal/stats"
	"github.com/rkata-ai/tg-pipeline/internal/telegram"
)

// BatchWriter persists one channel's batch per run.
type BatchWriter interface {
	Write(date time.Time, handle string, records []lake.Record) (string, error)
}

// Extractor scrapes the configured channels one by one. Per-channel and
// per-message failures are recorded in the statistics and never abort the
// run; only context cancellation stops it early.
type Extractor struct {
	client telegram.ChannelReader
	writer BatchWriter
	stats  *stats.ScrapeStats
	cfg    config.ScraperConfig
	log    *slog.Logger

	now func() time.Time
}

func New(client telegram.ChannelReader, writer BatchWriter, st *stats.ScrapeStats, cfg config.ScraperConfig, log *slog.Logger) *Extractor {
	if cfg.MediaConcurrency < 1 {
		cfg.MediaConcurrency = 1
	}
	return &Extractor{
		client: client,
		writer: writer,
		stats:  st,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// Run scrapes every configured channel. The returned error is non-nil only
// when the run was cancelled; everything else ends up in the statistics.
func (e *Extractor) Run(ctx context.Context) error {
	e.log.Info("starting scrape run", "channels", len(e.cfg.Channels), "limit", e.cfg.Limit)

	for i, handle := range e.cfg.Channels {
		if err := ctx.Err(); err != nil {
			return err
		}

		e.scrapeChannel(ctx, handle)

		// Fixed pause between channels keeps the aggregate request rate
		// below the flood threshold even when every call succeeds.
		if i < len(e.cfg.Channels)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.cfg.ChannelPause):
			}
		}
	}
	return nil
}

func (e *Extractor) scrapeChannel(ctx context.Context, handle string) {
	log := e.log.With("channel", handle)
	log.Info("scraping channel")

	channel, err := e.client.Resolve(ctx, handle)
	if err != nil {
		switch {
		case telegram.IsForbidden(err):
			log.Error("channel is not accessible", "err", err)
		case telegram.IsNotFound(err):
			log.Error("channel not found", "err", err)
		default:
			log.Error("failed to resolve channel", "err", err)
		}
		e.stats.AddError()
		return
	}

	messages := e.iterate(ctx, channel)
	paths := e.downloadMedia(ctx, channel, messages)

	records := make([]lake.Record, 0, len(messages))
	now := e.now().UTC()
	for i, msg := range messages {
		records = append(records, recordFromMessage(channel, msg, paths[i], now))
	}

	path, err := e.writer.Write(now, channel.Handle, records)
	if err != nil {
		log.Error("failed to write partition", "err", err)
		e.stats.AddError()
		return
	}

	e.stats.AddChannel()
	log.Info("channel scraped", "messages", len(records), "partition", path)
}

// iterate walks the channel history up to the configured limit. A flood wait
// suspends the walk for the server-specified duration and resumes from the
// iterator's cursor; any other failure abandons the remainder of the channel.
func (e *Extractor) iterate(ctx context.Context, channel *telegram.Channel) []telegram.Message {
	var messages []telegram.Message

	it := e.client.Messages(channel, e.cfg.Limit)
	for {
		if it.Next(ctx) {
			messages = append(messages, it.Message())
			e.stats.AddMessage()
			continue
		}

		err := it.Err()
		if err == nil {
			return messages // history exhausted or limit reached
		}
		if wait, ok := telegram.AsFloodWait(err); ok {
			e.log.Warn("rate limited, suspending", "channel", channel.Handle, "wait", wait)
			select {
			case <-ctx.Done():
				return messages
			case <-time.After(wait):
			}
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return messages
		}

		e.log.Error("iteration failed, abandoning channel", "channel", channel.Handle, "err", err)
		e.stats.AddError()
		return messages
	}
}

// downloadMedia fetches attachments with a bounded worker pool. Results land
// by index so the written order always equals iteration order. A failed
// download leaves the path empty and is recorded; the message survives.
func (e *Extractor) downloadMedia(ctx context.Context, channel *telegram.Channel, messages []telegram.Message) []string {
	paths := make([]string, len(messages))

	g := new(errgroup.Group)
	g.SetLimit(e.cfg.MediaConcurrency)
	for i, msg := range messages {
		if msg.Media == telegram.MediaNone {
			continue
		}
		g.Go(func() error {
			path, err := e.client.DownloadMedia(ctx, channel, msg)
			if err != nil {
				e.log.Error("failed to download media", "channel", channel.Handle, "message_id", msg.ID, "err", err)
				e.stats.AddError()
				return nil
			}
			if path != "" {
				paths[i] = path
				e.stats.AddImage()
			}
			return nil
		})
	}
	g.Wait()

	return paths
}

// recordFromMessage serializes a message into the canonical partition record.
func recordFromMessage(channel *telegram.Channel, msg telegram.Message, mediaPath string, now time.Time) lake.Record {
	rec := lake.Record{
		MessageID:    msg.ID,
		ChannelID:    channel.ID,
		ChannelName:  channel.Handle,
		ChannelTitle: channel.Title,
		MessageText:  msg.Text,
		HasMedia:     msg.Media != telegram.MediaNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if msg.SenderID != 0 {
		sender := msg.SenderID
		rec.SenderID = &sender
	}
	if !msg.Date.IsZero() {
		date := msg.Date.UTC().Format(time.RFC3339)
		rec.MessageDate = &date
	}
	if msg.Media != telegram.MediaNone {
		mediaType := string(msg.Media)
		rec.MediaType = &mediaType
	}
	if mediaPath != "" {
		rec.FilePath = &mediaPath
	}
	return rec
}
