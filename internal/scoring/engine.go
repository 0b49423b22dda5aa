// Package scoring holds the pure point computations: line worth resolution,
// component sums and the pro/GNAR aggregation. Nothing in here touches
// storage, so every function is safe to call from anywhere, repeatedly.
package scoring

import (
	"github.com/gnarhq/gnarscore/internal/models"
)

// Totals is the pair of aggregates cached on every score. The two are only
// ever produced together.
type Totals struct {
	ProScore  int `json:"pro_score"`
	GnarScore int `json:"gnar_score"`
}

// PointsForLine resolves a line's worth at the requested snow level.
//
// Flat lines have all three tiers set to the same value, so any tier
// resolves to it. Tiered lines return the requested tier when present and
// otherwise fall back medium, then low, then high, then 0. The fallback
// order is carried over from the original rule set on purpose; do not
// "fix" it to nearest-neighbor without product sign-off.
func PointsForLine(line *models.LineWorth, level models.SnowLevel) int {
	if line == nil {
		return 0
	}

	var requested *int
	switch level {
	case models.SnowLow:
		requested = line.BaseLow
	case models.SnowMedium:
		requested = line.BaseMedium
	case models.SnowHigh:
		requested = line.BaseHigh
	}

	if requested != nil {
		return *requested
	}

	for _, fallback := range []*int{line.BaseMedium, line.BaseLow, line.BaseHigh} {
		if fallback != nil {
			return *fallback
		}
	}
	return 0
}

// Pointed is anything in the catalog that carries a flat point value.
type Pointed interface {
	PointValue() int
}

// SumPoints adds up the point values of a component list. Empty lists sum
// to zero.
func SumPoints[T Pointed](items []T) int {
	total := 0
	for _, item := range items {
		total += item.PointValue()
	}
	return total
}

// Aggregate folds the four component sums into the two score metrics.
//
// The pro score is the competitive net: penalties subtract. The GNAR score
// counts every component positively, penalties included; doing something
// penalty-worthy is still notable.
func Aggregate(linePoints, trickPoints, ecpPoints, penaltyPoints int) Totals {
	return Totals{
		ProScore:  linePoints + trickPoints + ecpPoints - penaltyPoints,
		GnarScore: abs(linePoints) + abs(trickPoints) + abs(ecpPoints) + abs(penaltyPoints),
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
