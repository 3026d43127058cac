package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Scraper.Limit)
	assert.Equal(t, 2*time.Second, cfg.Scraper.ChannelPause)
	assert.Equal(t, 3, cfg.Scraper.MediaConcurrency)
	assert.Equal(t, "data/raw/telegram_messages", cfg.Lake.RawDataDir)
	assert.Equal(t, "data/images", cfg.Lake.ImagesDir)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
telegram:
  api_id: "12345"
  api_hash: "abcdef"
  phone: "+251900000000"
scraper:
  channels:
    - chemed
    - tikvahpharma
  limit: 200
  channel_pause: 5s
database:
  host: db.internal
  dbname: telegram_data
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "12345", cfg.Telegram.APIID)
	assert.Equal(t, []string{"chemed", "tikvahpharma"}, cfg.Scraper.Channels)
	assert.Equal(t, 200, cfg.Scraper.Limit)
	assert.Equal(t, 5*time.Second, cfg.Scraper.ChannelPause)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestLoadBindsEnvironment(t *testing.T) {
	t.Setenv("TELEGRAM_API_ID", "999")
	t.Setenv("TELEGRAM_API_HASH", "hash-from-env")
	t.Setenv("TELEGRAM_PHONE", "+251911111111")
	t.Setenv("DATABASE_URL", "postgres://u:p@host:5432/db")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "999", cfg.Telegram.APIID)
	assert.Equal(t, "hash-from-env", cfg.Telegram.APIHash)
	assert.Equal(t, "+251911111111", cfg.Telegram.Phone)
	assert.Equal(t, "postgres://u:p@host:5432/db", cfg.Database.ConnectionString)
}

func TestLoadMissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestTelegramValidate(t *testing.T) {
	valid := TelegramConfig{APIID: "1", APIHash: "h", Phone: "+1"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, TelegramConfig{APIHash: "h", Phone: "+1"}.Validate())
	assert.Error(t, TelegramConfig{APIID: "1", Phone: "+1"}.Validate())
	assert.Error(t, TelegramConfig{APIID: "1", APIHash: "h"}.Validate())
}

func TestDatabaseValidate(t *testing.T) {
	assert.NoError(t, DatabaseConfig{Host: "h", DBName: "d"}.Validate())
	assert.NoError(t, DatabaseConfig{ConnectionString: "postgres://"}.Validate())
	assert.Error(t, DatabaseConfig{Host: "h"}.Validate())
	assert.Error(t, DatabaseConfig{}.Validate())
}
