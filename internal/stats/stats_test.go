package stats

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrapeStatsSnapshot(t *testing.T) {
	s := NewScrapeStats()
	s.AddChannel()
	s.AddChannel()
	for i := 0; i < 30; i++ {
		s.AddMessage()
	}
	s.AddImage()
	s.AddError()

	snap := s.Snapshot()
	assert.Equal(t, int64(2), snap.ChannelsScraped)
	assert.Equal(t, int64(30), snap.MessagesScraped)
	assert.Equal(t, int64(1), snap.ImagesDownloaded)
	assert.Equal(t, int64(1), snap.Errors)
}

func TestLoadStatsSnapshot(t *testing.T) {
	s := NewLoadStats()
	s.AddFile()
	s.AddLoaded(5)
	s.AddDuplicates(3)

	snap := s.Snapshot()
	assert.Equal(t, int64(1), snap.FilesProcessed)
	assert.Equal(t, int64(5), snap.MessagesLoaded)
	assert.Equal(t, int64(3), snap.DuplicatesSkipped)
	assert.Equal(t, int64(0), snap.Errors)
}

func TestScrapeStatsConcurrentIncrements(t *testing.T) {
	s := NewScrapeStats()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.AddImage()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(800), s.Snapshot().ImagesDownloaded)
}
