package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// IDList is a list of catalog item ids stored as a JSON array in a single
// TEXT column.
type IDList []string

func (l IDList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal id list: %w", err)
	}
	return string(data), nil
}

func (l *IDList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into IDList", src)
	}
}

// LineSelection is the line part of a score: which line was ridden and at
// which snow level.
type LineSelection struct {
	LineWorthID string    `db:"line_worth_id" json:"line_worth_id"`
	SnowLevel   SnowLevel `db:"snow_level" json:"snow_level"`
}

// Selections holds everything a single scoring event is made of.
type Selections struct {
	Line       *LineSelection `json:"line,omitempty"`
	TrickIDs   IDList         `json:"trick_ids,omitempty"`
	ECPIDs     IDList         `json:"ecp_ids,omitempty"`
	PenaltyIDs IDList         `json:"penalty_ids,omitempty"`
}

// Score is one scoring event for one player within one session.
//
// ProScore and GnarScore are cached aggregates: they are always recomputed
// together from the selections that produced them and never set
// independently.
type Score struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	PlayerID  string    `db:"player_id" json:"player_id"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`

	LineWorthID *string    `db:"line_worth_id" json:"line_worth_id,omitempty"`
	SnowLevel   *SnowLevel `db:"snow_level" json:"snow_level,omitempty"`
	TrickIDs    IDList     `db:"trick_ids" json:"trick_ids"`
	ECPIDs      IDList     `db:"ecp_ids" json:"ecp_ids"`
	PenaltyIDs  IDList     `db:"penalty_ids" json:"penalty_ids"`

	ProScore  int `db:"pro_score" json:"pro_score"`
	GnarScore int `db:"gnar_score" json:"gnar_score"`
}

// Selections reconstructs the selection set the cached totals were computed
// from.
func (s *Score) Selections() Selections {
	sel := Selections{
		TrickIDs:   s.TrickIDs,
		ECPIDs:     s.ECPIDs,
		PenaltyIDs: s.PenaltyIDs,
	}
	if s.LineWorthID != nil && s.SnowLevel != nil {
		sel.Line = &LineSelection{
			LineWorthID: *s.LineWorthID,
			SnowLevel:   *s.SnowLevel,
		}
	}
	return sel
}

// LeaderboardEntry is derived on demand from the score ledger and never
// persisted.
type LeaderboardEntry struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Rank       int    `json:"rank"`
	ProScore   int    `json:"pro_score"`
	GnarScore  int    `json:"gnar_score"`
}
