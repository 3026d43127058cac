// Package config builds the pipeline configuration once at process start.
// Components receive the value by reference; nothing reads ambient state.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Database DatabaseConfig `mapstructure:"database"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	Lake     LakeConfig     `mapstructure:"lake"`
}

type TelegramConfig struct {
	APIID       string `mapstructure:"api_id"`
	APIHash     string `mapstructure:"api_hash"`
	Phone       string `mapstructure:"phone"`
	SessionFile string `mapstructure:"session_file"`
}

type DatabaseConfig struct {
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	User             string `mapstructure:"user"`
	Password         string `mapstructure:"password"`
	DBName           string `mapstructure:"dbname"`
	SSLMode          string `mapstructure:"sslmode"`
	ConnectionString string `mapstructure:"connection_string"`
}

type ScraperConfig struct {
	Channels         []string      `mapstructure:"channels"`
	Limit            int           `mapstructure:"limit"`
	ChannelPause     time.Duration `mapstructure:"channel_pause"`
	MediaConcurrency int           `mapstructure:"media_concurrency"`
}

type LakeConfig struct {
	RawDataDir string `mapstructure:"raw_data_dir"`
	ImagesDir  string `mapstructure:"images_dir"`
}

// Load reads the optional config file, applies defaults and binds environment
// variables. A missing file path is fine; missing credentials are caught later
// by the validators of the components that need them.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	bindEnvs(v)
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.session_file", "telegram.session")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "telegram_data")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("scraper.channels", []string{})
	v.SetDefault("scraper.limit", 1000)
	v.SetDefault("scraper.channel_pause", "2s")
	v.SetDefault("scraper.media_concurrency", 3)

	v.SetDefault("lake.raw_data_dir", "data/raw/telegram_messages")
	v.SetDefault("lake.images_dir", "data/images")
}

func bindEnvs(v *viper.Viper) {
	// Telegram
	v.BindEnv("telegram.api_id", "TELEGRAM_API_ID")
	v.BindEnv("telegram.api_hash", "TELEGRAM_API_HASH")
	v.BindEnv("telegram.phone", "TELEGRAM_PHONE")
	v.BindEnv("telegram.session_file", "TELEGRAM_SESSION_FILE")

	// Database
	v.BindEnv("database.connection_string", "DATABASE_URL")
	v.BindEnv("database.host", "POSTGRES_HOST")
	v.BindEnv("database.port", "POSTGRES_PORT")
	v.BindEnv("database.user", "POSTGRES_USER")
	v.BindEnv("database.password", "POSTGRES_PASSWORD")
	v.BindEnv("database.dbname", "POSTGRES_DB")

	// Lake
	v.BindEnv("lake.raw_data_dir", "RAW_DATA_DIR")
	v.BindEnv("lake.images_dir", "IMAGES_DIR")
}

// Validate checks the credentials the channel client needs. The client also
// fails fast on its own, but checking here keeps dry runs meaningful.
func (c TelegramConfig) Validate() error {
	if c.APIID == "" {
		return fmt.Errorf("telegram API ID is required")
	}
	if c.APIHash == "" {
		return fmt.Errorf("telegram API hash is required")
	}
	if c.Phone == "" {
		return fmt.Errorf("telegram phone number is required")
	}
	return nil
}

// Validate checks that the database section can produce a usable DSN.
func (c DatabaseConfig) Validate() error {
	if c.ConnectionString != "" {
		return nil
	}
	if c.Host == "" || c.DBName == "" {
		return fmt.Errorf("database host and dbname are required")
	}
	return nil
}
