// internal/store/sqlite/store.go
package sqlite

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/gnarhq/gnarscore/internal/store"
)

type SQLiteStore struct {
	store.BaseStore
}

func NewSQLiteStore(dsn, migrationsDir string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			return query
		},
	}}

	if err := s.ApplyMigrations(migrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, translateToSQLite)
}

// translateToSQLite converts Postgres SQL to SQLite dialect
func translateToSQLite(sql string) string {
	replacements := map[string]string{
		"BIGSERIAL":   "INTEGER PRIMARY KEY AUTOINCREMENT",
		"SERIAL":      "INTEGER PRIMARY KEY AUTOINCREMENT",
		"BIGINT":      "INTEGER",
		"TIMESTAMPTZ": "DATETIME",
		"BOOLEAN":     "INTEGER",
		"TRUE":        "1",
		"FALSE":       "0",
		"now()":       "CURRENT_TIMESTAMP",
	}
	result := sql
	for from, to := range replacements {
		result = strings.ReplaceAll(result, from, to)
	}
	return result
}

// FetchSessionTotals aggregates both score metrics per session member.
// Players with no scores yet still appear, with zero totals.
func (s *SQLiteStore) FetchSessionTotals(sessionID string) ([]store.PlayerTotals, error) {
	query := `
		WITH player_scores AS (
			SELECT
				player_id,
				COUNT(*) AS score_count,
				SUM(pro_score) AS pro_score,
				SUM(gnar_score) AS gnar_score
			FROM scores
			WHERE session_id = ?
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
		WHERE sp.session_id = ?
		ORDER BY sp.position
	`

	var totals []store.PlayerTotals
	err := s.DB.Select(&totals, query, sessionID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session totals: %w", err)
	}

	return totals, nil
}
