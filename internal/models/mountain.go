package models

import (
	"github.com/go-playground/validator/v10"
)

// PointSource tells how a LineWorth's base points were declared in the
// catalog payload: a single flat value or independent per-snow-level tiers.
type PointSource string

const (
	PointSourceFlat   PointSource = "flat"
	PointSourceTiered PointSource = "tiered"
)

// SnowLevel is the condition tier chosen for a line attempt.
type SnowLevel string

const (
	SnowLow    SnowLevel = "low"
	SnowMedium SnowLevel = "medium"
	SnowHigh   SnowLevel = "high"
)

// Valid reports whether s is one of the three known tiers.
func (s SnowLevel) Valid() bool {
	return s == SnowLow || s == SnowMedium || s == SnowHigh
}

// Mountain is the root of one imported catalog: every line, trick bonus,
// ECP and penalty belongs to exactly one mountain. Mountains with IsGlobal
// set hold the universal catalog shared by every game session.
type Mountain struct {
	ID       string `db:"id" json:"id" validate:"required"`
	Name     string `db:"name" json:"name" validate:"required"`
	IsGlobal bool   `db:"is_global" json:"is_global"`

	LineWorths   []LineWorth  `json:"line_worths,omitempty"`
	TrickBonuses []TrickBonus `json:"trick_bonuses,omitempty"`
	ECPs         []ECP        `json:"ecps,omitempty"`
	Penalties    []Penalty    `json:"penalties,omitempty"`
}

// LineWorth is a named descent with snow-condition-dependent worth.
// Tier values are pointers so an absent tier is distinguishable from zero.
type LineWorth struct {
	ID          string      `db:"id" json:"id" validate:"required"`
	MountainID  string      `db:"mountain_id" json:"mountain_id"`
	Name        string      `db:"name" json:"name" validate:"required"`
	Area        string      `db:"area" json:"area"`
	PointSource PointSource `db:"point_source" json:"point_source" validate:"required,oneof=flat tiered"`
	BaseLow     *int        `db:"base_low" json:"base_low,omitempty"`
	BaseMedium  *int        `db:"base_medium" json:"base_medium,omitempty"`
	BaseHigh    *int        `db:"base_high" json:"base_high,omitempty"`
}

func (m *Mountain) Validate() error {
	validate := validator.New()
	return validate.Struct(m)
}

func (l *LineWorth) Validate() error {
	validate := validator.New()
	return validate.Struct(l)
}
