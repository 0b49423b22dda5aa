package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Payload is one parsed mountain catalog, as delivered by a seed file or the
// import endpoint. Every item list is optional.
type Payload struct {
	ID           string           `json:"id" validate:"required"`
	Version      string           `json:"version,omitempty"`
	Name         string           `json:"name" validate:"required"`
	TrickBonuses []TrickPayload   `json:"trickBonuses,omitempty"`
	Penalties    []PenaltyPayload `json:"penalties,omitempty"`
	ECPs         []ECPPayload     `json:"ecps,omitempty"`
	LineWorths   []LinePayload    `json:"lineWorths,omitempty"`
}

type TrickPayload struct {
	ID     string `json:"id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Points int    `json:"points" validate:"gte=0"`
}

type PenaltyPayload struct {
	ID              string `json:"id" validate:"required"`
	Name            string `json:"name" validate:"required"`
	DescriptionText string `json:"descriptionText"`
	Points          int    `json:"points" validate:"gte=0"`
	Abbreviation    string `json:"abbreviation"`
}

type ECPPayload struct {
	ID              string `json:"id" validate:"required"`
	Name            string `json:"name" validate:"required"`
	DescriptionText string `json:"descriptionText"`
	Points          int    `json:"points" validate:"gte=0"`
	Frequency       string `json:"frequency"`
	Abbreviation    string `json:"abbreviation"`
}

type LinePayload struct {
	ID         string     `json:"id"`
	Name       string     `json:"name" validate:"required"`
	Area       string     `json:"area"`
	BasePoints BasePoints `json:"basePoints"`
}

// BasePoints is the polymorphic worth of a line: either a bare integer
// (flat, one value for every snow level) or an object with independent
// low/medium/high tiers. The shape is decided at parse time; anything else
// is a parse error, not a silent default.
type BasePoints struct {
	Flat   *int
	Low    *int
	Medium *int
	High   *int

	tiered bool
}

// IsTiered reports whether the payload declared a tier object, even an
// empty one.
func (b BasePoints) IsTiered() bool {
	return b.tiered
}

// IsFlat reports whether the payload declared a single flat value.
func (b BasePoints) IsFlat() bool {
	return b.Flat != nil
}

type tieredBasePoints struct {
	Low    *int `json:"low"`
	Medium *int `json:"medium"`
	High   *int `json:"high"`
}

func (b *BasePoints) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("%w: basePoints is missing", ErrMalformedBasePoints)
	}

	if trimmed[0] == '{' {
		var tiers tieredBasePoints
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&tiers); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedBasePoints, err)
		}
		b.Low = tiers.Low
		b.Medium = tiers.Medium
		b.High = tiers.High
		b.tiered = true
		return nil
	}

	var flat int
	if err := json.Unmarshal(trimmed, &flat); err != nil {
		return fmt.Errorf("%w: basePoints must be an integer or a {low,medium,high} object", ErrMalformedBasePoints)
	}
	b.Flat = &flat
	return nil
}

func (b BasePoints) MarshalJSON() ([]byte, error) {
	if b.Flat != nil {
		return json.Marshal(*b.Flat)
	}
	return json.Marshal(tieredBasePoints{Low: b.Low, Medium: b.Medium, High: b.High})
}
