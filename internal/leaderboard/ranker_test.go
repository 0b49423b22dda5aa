package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnarhq/gnarscore/internal/models"
	"github.com/gnarhq/gnarscore/internal/store"
)

func TestParseMetric(t *testing.T) {

	testCases := []struct {
		name     string
		raw      string
		fallback Metric
		expected Metric
		wantErr  bool
	}{
		{name: "pro", raw: "pro", fallback: MetricGnar, expected: MetricPro},
		{name: "gnar", raw: "gnar", fallback: MetricPro, expected: MetricGnar},
		{name: "uppercase is accepted", raw: "PRO", fallback: MetricGnar, expected: MetricPro},
		{name: "empty falls back", raw: "", fallback: MetricGnar, expected: MetricGnar},
		{name: "unknown value errors", raw: "vibes", fallback: MetricGnar, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseMetric(tc.raw, tc.fallback)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnknownMetric)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestRank(t *testing.T) {

	t.Run("orders descending by the chosen metric", func(t *testing.T) {
		totals := []store.PlayerTotals{
			{PlayerID: "p1", PlayerName: "Alice", ProScore: 100, GnarScore: 900},
			{PlayerID: "p2", PlayerName: "Bob", ProScore: 300, GnarScore: 400},
			{PlayerID: "p3", PlayerName: "Cara", ProScore: 200, GnarScore: 600},
		}

		byPro := Rank(totals, MetricPro)
		require.Len(t, byPro, 3)
		assert.Equal(t, []string{"Bob", "Cara", "Alice"}, names(byPro))
		assert.Equal(t, []int{1, 2, 3}, ranks(byPro))

		byGnar := Rank(totals, MetricGnar)
		assert.Equal(t, []string{"Alice", "Cara", "Bob"}, names(byGnar))
		assert.Equal(t, []int{1, 2, 3}, ranks(byGnar))
	})

	t.Run("ties break ascending by case-insensitive name", func(t *testing.T) {
		totals := []store.PlayerTotals{
			{PlayerID: "p1", PlayerName: "cara", ProScore: 200},
			{PlayerID: "p2", PlayerName: "Alice", ProScore: 200},
			{PlayerID: "p3", PlayerName: "Bob", ProScore: 200},
		}

		board := Rank(totals, MetricPro)
		assert.Equal(t, []string{"Alice", "Bob", "cara"}, names(board))
		assert.Equal(t, []int{1, 2, 3}, ranks(board))
	})

	t.Run("ranks are strict, never shared", func(t *testing.T) {
		totals := []store.PlayerTotals{
			{PlayerID: "p1", PlayerName: "Alice", GnarScore: 500},
			{PlayerID: "p2", PlayerName: "Bob", GnarScore: 500},
		}

		board := Rank(totals, MetricGnar)
		assert.Equal(t, 1, board[0].Rank)
		assert.Equal(t, 2, board[1].Rank)
	})

	t.Run("players without scores rank last at zero", func(t *testing.T) {
		totals := []store.PlayerTotals{
			{PlayerID: "p1", PlayerName: "Zoe", ScoreCount: 0},
			{PlayerID: "p2", PlayerName: "Alice", ScoreCount: 3, ProScore: 150, GnarScore: 150},
		}

		board := Rank(totals, MetricPro)
		assert.Equal(t, "Alice", board[0].PlayerName)
		assert.Equal(t, "Zoe", board[1].PlayerName)
		assert.Equal(t, 2, board[1].Rank)
		assert.Zero(t, board[1].ProScore)
	})

	t.Run("negative pro totals sort below zero totals", func(t *testing.T) {
		totals := []store.PlayerTotals{
			{PlayerID: "p1", PlayerName: "Alice", ProScore: -500, GnarScore: 500},
			{PlayerID: "p2", PlayerName: "Bob", ProScore: 0, GnarScore: 0},
		}

		board := Rank(totals, MetricPro)
		assert.Equal(t, "Bob", board[0].PlayerName)
		assert.Equal(t, "Alice", board[1].PlayerName)
	})

	t.Run("ranking twice yields the same board", func(t *testing.T) {
		totals := []store.PlayerTotals{
			{PlayerID: "p1", PlayerName: "Alice", GnarScore: 500},
			{PlayerID: "p2", PlayerName: "alice", GnarScore: 500},
			{PlayerID: "p3", PlayerName: "Bob", GnarScore: 700},
		}

		first := Rank(totals, MetricGnar)
		second := Rank(totals, MetricGnar)
		assert.Equal(t, first, second)
	})

	t.Run("does not mutate its input", func(t *testing.T) {
		totals := []store.PlayerTotals{
			{PlayerID: "p1", PlayerName: "Bob", ProScore: 100},
			{PlayerID: "p2", PlayerName: "Alice", ProScore: 200},
		}

		Rank(totals, MetricPro)
		assert.Equal(t, "Bob", totals[0].PlayerName)
	})

	t.Run("empty board", func(t *testing.T) {
		assert.Empty(t, Rank(nil, MetricPro))
	})
}

func names(entries []models.LeaderboardEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.PlayerName
	}
	return out
}

func ranks(entries []models.LeaderboardEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Rank
	}
	return out
}
