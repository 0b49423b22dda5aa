package app

import (
	"context"
	"fmt"

	"github.com/gnarhq/gnarscore/internal/catalog"
	"github.com/gnarhq/gnarscore/internal/leaderboard"
	"github.com/gnarhq/gnarscore/internal/ledger"
	"github.com/gnarhq/gnarscore/internal/models"
	"github.com/gnarhq/gnarscore/internal/seedversion"
	"github.com/gnarhq/gnarscore/internal/store"
)

type Service struct {
	Config   *Config
	Store    store.Store
	Versions seedversion.Tracker
	Importer *catalog.Importer
	Ledger   *ledger.Ledger
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	var versions seedversion.Tracker
	if config.Versions.RedisURL != "" {
		versions, err = seedversion.NewRedisTracker(config.Versions.RedisURL)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to init seed version tracker: %w", err)
		}
	} else {
		versions = seedversion.NewMemoryTracker()
	}

	return &Service{
		Config:   config,
		Store:    st,
		Versions: versions,
		Importer: catalog.NewImporter(config.Catalog.GlobalIDs),
		Ledger:   ledger.NewLedger(st),
	}, nil
}

// ImportCatalog runs the full seeding path for one payload: the version
// check, the all-or-nothing import, the atomic save and the version
// bookkeeping. Returns the saved mountain and false when the version was
// already imported and nothing happened.
func (s *Service) ImportCatalog(ctx context.Context, payload *catalog.Payload) (*models.Mountain, bool, error) {
	if payload.Version != "" {
		should, err := s.Versions.ShouldImport(ctx, payload.ID, payload.Version)
		if err != nil {
			return nil, false, fmt.Errorf("failed to check seed version: %w", err)
		}
		if !should {
			return nil, false, nil
		}
	}

	mountain, version, err := s.Importer.Import(payload)
	if err != nil {
		return nil, false, err
	}

	if err := s.Store.SaveMountain(mountain); err != nil {
		return nil, false, fmt.Errorf("failed to persist mountain %s: %w", mountain.ID, err)
	}

	if version != "" {
		if err := s.Versions.MarkImported(ctx, mountain.ID, version); err != nil {
			return nil, false, fmt.Errorf("failed to mark seed version: %w", err)
		}
	}

	return mountain, true, nil
}

// DefaultMetric is the deployment's house choice for leaderboard ordering.
func (s *Service) DefaultMetric() leaderboard.Metric {
	metric, err := leaderboard.ParseMetric(s.Config.Leaderboard.DefaultMetric, leaderboard.MetricGnar)
	if err != nil {
		return leaderboard.MetricGnar
	}
	return metric
}

// Leaderboard computes the ranked board for a session.
func (s *Service) Leaderboard(sessionID string, metric leaderboard.Metric) ([]models.LeaderboardEntry, error) {
	if _, err := s.Ledger.Session(sessionID); err != nil {
		return nil, err
	}

	totals, err := s.Store.FetchSessionTotals(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session totals: %w", err)
	}

	return leaderboard.Rank(totals, metric), nil
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Versions.Close(); err != nil {
		errs = append(errs, fmt.Errorf("versions: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
