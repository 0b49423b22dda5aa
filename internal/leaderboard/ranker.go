// Package leaderboard ranks session members by one of the two score
// metrics. Ranking is derived on demand and never stored.
package leaderboard

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gnarhq/gnarscore/internal/models"
	"github.com/gnarhq/gnarscore/internal/store"
)

// Metric picks which aggregate the board is ordered by.
type Metric string

const (
	MetricPro  Metric = "pro"
	MetricGnar Metric = "gnar"
)

var ErrUnknownMetric = errors.New("unknown leaderboard metric")

// ParseMetric maps a query-string value onto a Metric. The empty string
// resolves to the fallback so deployments can pick their house rules.
func ParseMetric(raw string, fallback Metric) (Metric, error) {
	switch Metric(strings.ToLower(raw)) {
	case MetricPro:
		return MetricPro, nil
	case MetricGnar:
		return MetricGnar, nil
	case "":
		return fallback, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, raw)
	}
}

// Rank orders per-player totals descending by the chosen metric. Ties break
// ascending by case-insensitive player name, which makes the order strict:
// ranks are 1-based positions and never shared. Players without scores rank
// last, tied at zero, and still get distinct ranks. Calling Rank twice over
// the same totals yields the same board.
func Rank(totals []store.PlayerTotals, metric Metric) []models.LeaderboardEntry {
	ranked := make([]store.PlayerTotals, len(totals))
	copy(ranked, totals)

	value := func(t store.PlayerTotals) int {
		if metric == MetricPro {
			return t.ProScore
		}
		return t.GnarScore
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		vi, vj := value(ranked[i]), value(ranked[j])
		if vi != vj {
			return vi > vj
		}
		ni := strings.ToLower(ranked[i].PlayerName)
		nj := strings.ToLower(ranked[j].PlayerName)
		if ni != nj {
			return ni < nj
		}
		return ranked[i].PlayerID < ranked[j].PlayerID
	})

	entries := make([]models.LeaderboardEntry, len(ranked))
	for i, t := range ranked {
		entries[i] = models.LeaderboardEntry{
			PlayerID:   t.PlayerID,
			PlayerName: t.PlayerName,
			Rank:       i + 1,
			ProScore:   t.ProScore,
			GnarScore:  t.GnarScore,
		}
	}
	return entries
}
