package store

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

type DBConfig struct {
	DSN  string
	Type DatabaseType
}

// PlayerTotals is the per-player aggregate row the dialect stores compute
// for leaderboard and stats endpoints.
type PlayerTotals struct {
	PlayerID   string `db:"player_id"`
	PlayerName string `db:"player_name"`
	ScoreCount int64  `db:"score_count"`
	ProScore   int    `db:"pro_score"`
	GnarScore  int    `db:"gnar_score"`
}
