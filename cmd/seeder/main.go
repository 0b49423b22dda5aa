package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/gnarhq/gnarscore/internal/app"
	"github.com/gnarhq/gnarscore/internal/catalog"
)

// Seeds every mountain JSON file from the configured seed directory.
// Versioned payloads already on record are skipped; everything else is
// imported all-or-nothing, one mountain per file.
func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	var seedDir = flag.String("seeds", "", "Override the seed directory from config")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	dir := service.Config.Catalog.SeedDir
	if *seedDir != "" {
		dir = *seedDir
	}
	if dir == "" {
		logger.Error.Fatalf("No seed directory configured, set catalog.seed_dir or pass -seeds")
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		logger.Error.Fatalf("Failed to read seed directory %s: %v", dir, err)
	}

	ctx := context.Background()
	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, file.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error.Fatalf("Failed to read seed %s: %v", path, err)
		}

		var payload catalog.Payload
		if err := json.Unmarshal(data, &payload); err != nil {
			logger.Error.Fatalf("Failed to parse seed %s: %v", path, err)
		}

		mountain, imported, err := service.ImportCatalog(ctx, &payload)
		if err != nil {
			logger.Error.Fatalf("Seed %s failed, nothing imported: %v", path, err)
		}
		if !imported {
			logger.Info.Printf("Skipping %s: version %s already imported", payload.ID, payload.Version)
			continue
		}

		logger.Info.Printf(
			"Imported %s: %d lines, %d tricks, %d ecps, %d penalties",
			mountain.ID,
			len(mountain.LineWorths),
			len(mountain.TrickBonuses),
			len(mountain.ECPs),
			len(mountain.Penalties),
		)
	}
}
