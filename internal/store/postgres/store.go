package postgres

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/gnarhq/gnarscore/internal/store"
)

type PostgresStore struct {
	store.BaseStore
}

func NewPostgresStore(dsn, migrationsDir string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			out := query
			for i := 1; strings.Contains(out, "?"); i++ {
				out = strings.Replace(out, "?", fmt.Sprintf("$%d", i), 1)
			}
			return out
		},
	}}

	if err := s.ApplyMigrations(migrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

func (s *PostgresStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, nil)
}

// FetchSessionTotals aggregates both score metrics per session member.
// Players with no scores yet still appear, with zero totals.
func (s *PostgresStore) FetchSessionTotals(sessionID string) ([]store.PlayerTotals, error) {
	query := `
        WITH player_scores AS (
            SELECT
                player_id,
                COUNT(*) AS score_count,
                SUM(pro_score) AS pro_score,
                SUM(gnar_score) AS gnar_score
            FROM scores
            WHERE session_id = $1
            GROUP BY player_id
        )
        SELECT
            p.id AS player_id,
            p.name AS player_name,
            COALESCE(ps.score_count, 0) AS score_count,
            COALESCE(ps.pro_score, 0) AS pro_score,
            COALESCE(ps.gnar_score, 0) AS gnar_score
        FROM session_players sp
        JOIN players p ON p.id = sp.player_id
        LEFT JOIN player_scores ps ON ps.player_id = p.id
        WHERE sp.session_id = $1
        ORDER BY sp.position
    `

	var totals []store.PlayerTotals
	err := s.DB.Select(&totals, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session totals: %w", err)
	}

	return totals, nil
}
