package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type GSheetConfig struct {
	CredentialsPath string `toml:"credentials_path"`
	SheetID         string `toml:"sheet_id"`
	SheetName       string `toml:"sheet_name"`
	Schedule        string `toml:"schedule"`
	Metric          string `toml:"metric"`
	TimestampCell   string `toml:"timestamp_cell"`
}

type Config struct {
	Server struct {
		Port string `toml:"port"`
	} `toml:"server"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Versions struct {
		RedisURL string `toml:"redis_url"`
	} `toml:"versions"`

	Catalog struct {
		GlobalIDs []string `toml:"global_ids"`
		SeedDir   string   `toml:"seed_dir"`
	} `toml:"catalog"`

	Leaderboard struct {
		DefaultMetric string `toml:"default_metric"`
	} `toml:"leaderboard"`

	Display struct {
		TimestampFormat string `toml:"timestamp_format"`
	} `toml:"display"`

	GSheet        []GSheetConfig `toml:"gsheet"`
	EmojiVariants []string       `toml:"emoji_variants"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}

	if config.Leaderboard.DefaultMetric == "" {
		config.Leaderboard.DefaultMetric = "gnar"
	}
	if config.Display.TimestampFormat == "" {
		config.Display.TimestampFormat = "2006-01-02 15:04:05"
	}

	logger.Debug.Printf("Loaded catalog config: %+v", config.Catalog)

	return &config, nil
}
