package models

import "github.com/go-playground/validator/v10"

// TrickBonus is a flat bonus for a performed trick.
type TrickBonus struct {
	ID              string `db:"id" json:"id" validate:"required"`
	MountainID      string `db:"mountain_id" json:"mountain_id"`
	Name            string `db:"name" json:"name" validate:"required"`
	DescriptionText string `db:"description_text" json:"description_text"`
	Points          int    `db:"points" json:"points" validate:"gte=0"`
}

// ECP is an extra-credit item (a dare). Frequency is informational:
// daily, yearly or unlimited.
type ECP struct {
	ID              string `db:"id" json:"id" validate:"required"`
	MountainID      string `db:"mountain_id" json:"mountain_id"`
	Name            string `db:"name" json:"name" validate:"required"`
	DescriptionText string `db:"description_text" json:"description_text"`
	Points          int    `db:"points" json:"points" validate:"gte=0"`
	Frequency       string `db:"frequency" json:"frequency"`
	Abbreviation    string `db:"abbreviation" json:"abbreviation"`
}

// Penalty subtracts from the pro score but still adds to the GNAR score.
type Penalty struct {
	ID              string `db:"id" json:"id" validate:"required"`
	MountainID      string `db:"mountain_id" json:"mountain_id"`
	Name            string `db:"name" json:"name" validate:"required"`
	DescriptionText string `db:"description_text" json:"description_text"`
	Points          int    `db:"points" json:"points" validate:"gte=0"`
	Abbreviation    string `db:"abbreviation" json:"abbreviation"`
}

// PointValue implementations let the scoring engine sum mixed catalog item
// lists without caring which kind they are.

func (t TrickBonus) PointValue() int { return t.Points }
func (e ECP) PointValue() int        { return e.Points }
func (p Penalty) PointValue() int    { return p.Points }

func (t *TrickBonus) Validate() error {
	validate := validator.New()
	return validate.Struct(t)
}

func (e *ECP) Validate() error {
	validate := validator.New()
	return validate.Struct(e)
}

func (p *Penalty) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
