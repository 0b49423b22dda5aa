package export

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-co-op/gocron"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/gnarhq/gnarscore/internal/app"
	"github.com/gnarhq/gnarscore/internal/leaderboard"
)

// GSheetExporter periodically publishes every session's leaderboard to a
// spreadsheet, one block of rows per session.
type GSheetExporter struct {
	config        *app.Config
	service       *app.Service
	scheduler     *gocron.Scheduler
	sheetsService *sheets.Service
}

func NewGSheetExporter(config *app.Config, service *app.Service) (*GSheetExporter, error) {
	ctx := context.Background()
	scheduler := gocron.NewScheduler(time.UTC)

	for _, cfg := range config.GSheet {
		svc, err := sheets.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath))
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets service: %w", err)
		}

		exporter := &GSheetExporter{
			config:        config,
			service:       service,
			scheduler:     scheduler,
			sheetsService: svc,
		}

		cfg := cfg
		_, err = scheduler.Cron(cfg.Schedule).Do(func() {
			if err := exporter.Export(&cfg); err != nil {
				logger.Error.Printf("Leaderboard export failed: %v", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("failed to schedule export: %w", err)
		}
	}

	scheduler.StartAsync()
	return nil, nil
}

func (e *GSheetExporter) Export(cfg *app.GSheetConfig) error {
	metric, err := leaderboard.ParseMetric(cfg.Metric, e.service.DefaultMetric())
	if err != nil {
		return fmt.Errorf("bad export metric: %w", err)
	}

	sessions, err := e.service.Store.ListSessions()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	rows := [][]interface{}{
		{"Game", "Mountain", "Rank", "Player", "Pro", "GNAR"},
	}
	for _, session := range sessions {
		entries, err := e.service.Leaderboard(session.ID, metric)
		if err != nil {
			logger.Error.Printf("Skipping session %s in export: %v", session.ID, err)
			continue
		}
		for _, entry := range entries {
			rows = append(rows, []interface{}{
				session.StartDate.Format(e.config.Display.TimestampFormat),
				session.MountainName,
				entry.Rank,
				entry.PlayerName,
				entry.ProScore,
				entry.GnarScore,
			})
		}
	}

	writeRange := fmt.Sprintf("%s!A1", cfg.SheetName)
	_, err = e.sheetsService.Spreadsheets.Values.Update(cfg.SheetID, writeRange,
		&sheets.ValueRange{Values: rows}).ValueInputOption("RAW").Do()
	if err != nil {
		return fmt.Errorf("failed to write leaderboard rows: %w", err)
	}

	// Update timestamp
	stamp := fmt.Sprintf("UPD: %s", time.Now().Format("2 January 15:04"))
	if len(e.config.EmojiVariants) > 0 {
		emoji := e.config.EmojiVariants[rand.Intn(len(e.config.EmojiVariants))]
		stamp = fmt.Sprintf("%s %s", stamp, emoji)
	}

	updateRange := fmt.Sprintf("%s!%s", cfg.SheetName, cfg.TimestampCell)
	_, err = e.sheetsService.Spreadsheets.Values.Update(cfg.SheetID, updateRange,
		&sheets.ValueRange{Values: [][]interface{}{{stamp}}}).ValueInputOption("RAW").Do()

	return err
}
