package store

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/gnarhq/gnarscore/internal/models"
)

// Store is the persistence surface the rest of the app talks to. Mountain
// writes are atomic: SaveMountain either persists the whole catalog graph
// or nothing.
type Store interface {
	Close() error
	ApplyMigrations(dir string) error

	SaveMountain(m *models.Mountain) error
	GetMountain(id string) (*models.Mountain, error)
	ListMountains() ([]models.Mountain, error)
	ListGlobalMountains() ([]models.Mountain, error)

	CreatePlayer(p *models.Player) error
	GetPlayer(id string) (*models.Player, error)
	ListPlayers() ([]models.Player, error)

	CreateSession(s *models.GameSession) error
	GetSession(id string) (*models.GameSession, error)
	ListSessions() ([]models.GameSession, error)
	AddSessionPlayer(sessionID, playerID string) error

	CreateScore(score *models.Score) error
	GetScore(id string) (*models.Score, error)
	ListScores(sessionID string) ([]models.Score, error)
	UpdateScore(score *models.Score) error
	DeleteScore(id string) error

	FetchSessionTotals(sessionID string) ([]PlayerTotals, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

// SaveMountain replaces the stored catalog for the mountain inside one
// transaction. Re-importing an id drops the previous graph first, and a
// failure anywhere rolls the whole thing back.
func (s *BaseStore) SaveMountain(m *models.Mountain) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin mountain save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"line_worths", "trick_bonuses", "ecps", "penalties"} {
		query := s.Converter(fmt.Sprintf("DELETE FROM %s WHERE mountain_id = ?", table))
		if _, err := tx.Exec(query, m.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if _, err := tx.Exec(s.Converter(`DELETE FROM mountains WHERE id = ?`), m.ID); err != nil {
		return fmt.Errorf("failed to clear mountain: %w", err)
	}

	if _, err := tx.NamedExec(`
		INSERT INTO mountains (id, name, is_global)
		VALUES (:id, :name, :is_global)
	`, m); err != nil {
		return fmt.Errorf("failed to insert mountain: %w", err)
	}

	for i := range m.LineWorths {
		if _, err := tx.NamedExec(`
			INSERT INTO line_worths (id, mountain_id, name, area, point_source, base_low, base_medium, base_high)
			VALUES (:id, :mountain_id, :name, :area, :point_source, :base_low, :base_medium, :base_high)
		`, &m.LineWorths[i]); err != nil {
			return fmt.Errorf("failed to insert line worth %q: %w", m.LineWorths[i].Name, err)
		}
	}

	for i := range m.TrickBonuses {
		if _, err := tx.NamedExec(`
			INSERT INTO trick_bonuses (id, mountain_id, name, description_text, points)
			VALUES (:id, :mountain_id, :name, :description_text, :points)
		`, &m.TrickBonuses[i]); err != nil {
			return fmt.Errorf("failed to insert trick bonus %s: %w", m.TrickBonuses[i].ID, err)
		}
	}

	for i := range m.ECPs {
		if _, err := tx.NamedExec(`
			INSERT INTO ecps (id, mountain_id, name, description_text, points, frequency, abbreviation)
			VALUES (:id, :mountain_id, :name, :description_text, :points, :frequency, :abbreviation)
		`, &m.ECPs[i]); err != nil {
			return fmt.Errorf("failed to insert ecp %s: %w", m.ECPs[i].ID, err)
		}
	}

	for i := range m.Penalties {
		if _, err := tx.NamedExec(`
			INSERT INTO penalties (id, mountain_id, name, description_text, points, abbreviation)
			VALUES (:id, :mountain_id, :name, :description_text, :points, :abbreviation)
		`, &m.Penalties[i]); err != nil {
			return fmt.Errorf("failed to insert penalty %s: %w", m.Penalties[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mountain save: %w", err)
	}
	return nil
}

func (s *BaseStore) GetMountain(id string) (*models.Mountain, error) {
	var mountain models.Mountain
	err := s.DB.Get(&mountain, s.Converter(`
		SELECT id, name, is_global
		FROM mountains
		WHERE id = ?
	`), id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mountain: %w", err)
	}

	if err := s.loadCatalogItems(&mountain); err != nil {
		return nil, err
	}
	return &mountain, nil
}

func (s *BaseStore) loadCatalogItems(m *models.Mountain) error {
	err := s.DB.Select(&m.LineWorths, s.Converter(`
		SELECT id, mountain_id, name, area, point_source, base_low, base_medium, base_high
		FROM line_worths
		WHERE mountain_id = ?
		ORDER BY area, name
	`), m.ID)
	if err != nil {
		return fmt.Errorf("failed to load line worths: %w", err)
	}

	err = s.DB.Select(&m.TrickBonuses, s.Converter(`
		SELECT id, mountain_id, name, description_text, points
		FROM trick_bonuses
		WHERE mountain_id = ?
		ORDER BY name
	`), m.ID)
	if err != nil {
		return fmt.Errorf("failed to load trick bonuses: %w", err)
	}

	err = s.DB.Select(&m.ECPs, s.Converter(`
		SELECT id, mountain_id, name, description_text, points, frequency, abbreviation
		FROM ecps
		WHERE mountain_id = ?
		ORDER BY name
	`), m.ID)
	if err != nil {
		return fmt.Errorf("failed to load ecps: %w", err)
	}

	err = s.DB.Select(&m.Penalties, s.Converter(`
		SELECT id, mountain_id, name, description_text, points, abbreviation
		FROM penalties
		WHERE mountain_id = ?
		ORDER BY name
	`), m.ID)
	if err != nil {
		return fmt.Errorf("failed to load penalties: %w", err)
	}

	return nil
}

func (s *BaseStore) ListMountains() ([]models.Mountain, error) {
	var mountains []models.Mountain
	err := s.DB.Select(&mountains, `
		SELECT id, name, is_global
		FROM mountains
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list mountains: %w", err)
	}
	return mountains, nil
}

// ListGlobalMountains returns the universal catalogs, items included.
func (s *BaseStore) ListGlobalMountains() ([]models.Mountain, error) {
	var mountains []models.Mountain
	err := s.DB.Select(&mountains, s.Converter(`
		SELECT id, name, is_global
		FROM mountains
		WHERE is_global = ?
		ORDER BY name
	`), true)
	if err != nil {
		return nil, fmt.Errorf("failed to list global mountains: %w", err)
	}

	for i := range mountains {
		if err := s.loadCatalogItems(&mountains[i]); err != nil {
			return nil, err
		}
	}
	return mountains, nil
}

func (s *BaseStore) CreatePlayer(p *models.Player) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO players (id, name)
		VALUES (:id, :name)
	`, p)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (s *BaseStore) GetPlayer(id string) (*models.Player, error) {
	var player models.Player
	err := s.DB.Get(&player, s.Converter(`
		SELECT id, name
		FROM players
		WHERE id = ?
	`), id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &player, nil
}

func (s *BaseStore) ListPlayers() ([]models.Player, error) {
	var players []models.Player
	err := s.DB.Select(&players, `
		SELECT id, name
		FROM players
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

func (s *BaseStore) CreateSession(session *models.GameSession) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin session create: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExec(`
		INSERT INTO game_sessions (id, mountain_id, mountain_name, start_date)
		VALUES (:id, :mountain_id, :mountain_name, :start_date)
	`, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	insert := s.Converter(`
		INSERT INTO session_players (session_id, player_id, position)
		VALUES (?, ?, ?)
	`)
	for i, p := range session.Players {
		if _, err := tx.Exec(insert, session.ID, p.ID, i); err != nil {
			return fmt.Errorf("failed to add session player %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session create: %w", err)
	}
	return nil
}

func (s *BaseStore) GetSession(id string) (*models.GameSession, error) {
	var session models.GameSession
	err := s.DB.Get(&session, s.Converter(`
		SELECT id, mountain_id, mountain_name, start_date
		FROM game_sessions
		WHERE id = ?
	`), id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	err = s.DB.Select(&session.Players, s.Converter(`
		SELECT p.id, p.name
		FROM players p
		JOIN session_players sp ON sp.player_id = p.id
		WHERE sp.session_id = ?
		ORDER BY sp.position
	`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session players: %w", err)
	}

	return &session, nil
}

func (s *BaseStore) ListSessions() ([]models.GameSession, error) {
	var sessions []models.GameSession
	err := s.DB.Select(&sessions, `
		SELECT id, mountain_id, mountain_name, start_date
		FROM game_sessions
		ORDER BY start_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *BaseStore) AddSessionPlayer(sessionID, playerID string) error {
	var next int
	err := s.DB.Get(&next, s.Converter(`
		SELECT COUNT(*)
		FROM session_players
		WHERE session_id = ?
	`), sessionID)
	if err != nil {
		return fmt.Errorf("failed to count session players: %w", err)
	}

	_, err = s.DB.Exec(s.Converter(`
		INSERT INTO session_players (session_id, player_id, position)
		VALUES (?, ?, ?)
	`), sessionID, playerID, next)
	if err != nil {
		return fmt.Errorf("failed to add session player: %w", err)
	}
	return nil
}

func (s *BaseStore) CreateScore(score *models.Score) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO scores (id, session_id, player_id, timestamp, line_worth_id, snow_level, trick_ids, ecp_ids, penalty_ids, pro_score, gnar_score)
		VALUES (:id, :session_id, :player_id, :timestamp, :line_worth_id, :snow_level, :trick_ids, :ecp_ids, :penalty_ids, :pro_score, :gnar_score)
	`, score)
	if err != nil {
		return fmt.Errorf("failed to create score: %w", err)
	}
	return nil
}

func (s *BaseStore) GetScore(id string) (*models.Score, error) {
	var score models.Score
	err := s.DB.Get(&score, s.Converter(`
		SELECT id, session_id, player_id, timestamp, line_worth_id, snow_level, trick_ids, ecp_ids, penalty_ids, pro_score, gnar_score
		FROM scores
		WHERE id = ?
	`), id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}
	return &score, nil
}

func (s *BaseStore) ListScores(sessionID string) ([]models.Score, error) {
	var scores []models.Score
	err := s.DB.Select(&scores, s.Converter(`
		SELECT id, session_id, player_id, timestamp, line_worth_id, snow_level, trick_ids, ecp_ids, penalty_ids, pro_score, gnar_score
		FROM scores
		WHERE session_id = ?
		ORDER BY timestamp ASC, id ASC
	`), sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	return scores, nil
}

// UpdateScore replaces the selections together with both cached totals.
// Totals are never written without the selections that produced them.
func (s *BaseStore) UpdateScore(score *models.Score) error {
	res, err := s.DB.NamedExec(`
		UPDATE scores SET
			line_worth_id = :line_worth_id,
			snow_level = :snow_level,
			trick_ids = :trick_ids,
			ecp_ids = :ecp_ids,
			penalty_ids = :penalty_ids,
			pro_score = :pro_score,
			gnar_score = :gnar_score
		WHERE id = :id
	`, score)
	if err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("score %s not found", score.ID)
	}
	return nil
}

func (s *BaseStore) DeleteScore(id string) error {
	_, err := s.DB.Exec(s.Converter(`DELETE FROM scores WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete score: %w", err)
	}
	return nil
}
