package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Player participates in zero or more game sessions.
type Player struct {
	ID   string `db:"id" json:"id" validate:"required"`
	Name string `db:"name" json:"name" validate:"required"`
}

// GameSession ties a mountain, a set of players and a time-ordered score
// ledger together. Players may be added before or during play; there is no
// mid-session removal.
type GameSession struct {
	ID           string    `db:"id" json:"id" validate:"required"`
	MountainID   string    `db:"mountain_id" json:"mountain_id" validate:"required"`
	MountainName string    `db:"mountain_name" json:"mountain_name"`
	StartDate    time.Time `db:"start_date" json:"start_date"`

	Players []Player `json:"players,omitempty"`
}

// HasPlayer reports whether the player is a member of the session.
func (s *GameSession) HasPlayer(playerID string) bool {
	for _, p := range s.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

func (p *Player) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

func (s *GameSession) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}
