// Package stats holds the run counters reported at the end of a scrape or
// load run. Counters are owned by the component that created them and are
// incremented with atomics so bounded worker pools can update them safely.
package stats

import (
	"log/slog"
	"sync/atomic"
)

// ScrapeStats counts the outcomes of one extraction run.
type ScrapeStats struct {
	channelsScraped  atomic.Int64
	messagesScraped  atomic.Int64
	imagesDownloaded atomic.Int64
	errors           atomic.Int64
}

func NewScrapeStats() *ScrapeStats { return &ScrapeStats{} }

func (s *ScrapeStats) AddChannel() { s.channelsScraped.Add(1) }
func (s *ScrapeStats) AddMessage() { s.messagesScraped.Add(1) }
func (s *ScrapeStats) AddImage()   { s.imagesDownloaded.Add(1) }
func (s *ScrapeStats) AddError()   { s.errors.Add(1) }

// ScrapeSnapshot is a point-in-time copy of the scrape counters.
type ScrapeSnapshot struct {
	ChannelsScraped  int64 `json:"channels_scraped"`
	MessagesScraped  int64 `json:"messages_scraped"`
	ImagesDownloaded int64 `json:"images_downloaded"`
	Errors           int64 `json:"errors"`
}

func (s *ScrapeStats) Snapshot() ScrapeSnapshot {
	return ScrapeSnapshot{
		ChannelsScraped:  s.channelsScraped.Load(),
		MessagesScraped:  s.messagesScraped.Load(),
		ImagesDownloaded: s.imagesDownloaded.Load(),
		Errors:           s.errors.Load(),
	}
}

// LogTo reports the final scrape counters.
func (s ScrapeSnapshot) LogTo(log *slog.Logger) {
	log.Info("scraping statistics",
		"channels_scraped", s.ChannelsScraped,
		"messages_scraped", s.MessagesScraped,
		"images_downloaded", s.ImagesDownloaded,
		"errors", s.Errors,
	)
}

// LoadStats counts the outcomes of one loading run.
type LoadStats struct {
	filesProcessed    atomic.Int64
	messagesLoaded    atomic.Int64
	duplicatesSkipped atomic.Int64
	errors            atomic.Int64
}

func NewLoadStats() *LoadStats { return &LoadStats{} }

func (s *LoadStats) AddFile()              { s.filesProcessed.Add(1) }
func (s *LoadStats) AddLoaded(n int64)     { s.messagesLoaded.Add(n) }
func (s *LoadStats) AddDuplicates(n int64) { s.duplicatesSkipped.Add(n) }
func (s *LoadStats) AddError()             { s.errors.Add(1) }

// LoadSnapshot is a point-in-time copy of the load counters.
type LoadSnapshot struct {
	FilesProcessed    int64 `json:"files_processed"`
	MessagesLoaded    int64 `json:"messages_loaded"`
	DuplicatesSkipped int64 `json:"duplicates_skipped"`
	Errors            int64 `json:"errors"`
}

func (s *LoadStats) Snapshot() LoadSnapshot {
	return LoadSnapshot{
		FilesProcessed:    s.filesProcessed.Load(),
		MessagesLoaded:    s.messagesLoaded.Load(),
		DuplicatesSkipped: s.duplicatesSkipped.Load(),
		Errors:            s.errors.Load(),
	}
}

// LogTo reports the final load counters.
func (s LoadSnapshot) LogTo(log *slog.Logger) {
	log.Info("loading statistics",
		"files_processed", s.FilesProcessed,
		"messages_loaded", s.MessagesLoaded,
		"duplicates_skipped", s.DuplicatesSkipped,
		"errors", s.Errors,
	)
}
