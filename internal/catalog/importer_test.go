package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnarhq/gnarscore/internal/models"
)

const squallywoodJSON = `{
	"id": "Squallywood",
	"version": "2.0",
	"name": "Squallywood",
	"lineWorths": [
		{
			"name": "Main Air",
			"area": "Palisades",
			"basePoints": {"low": 100, "medium": 150, "high": 200}
		},
		{
			"name": "The Fingers",
			"area": "KT-22",
			"basePoints": 75
		},
		{
			"name": "Sketchy Traverse",
			"area": "KT-22",
			"basePoints": {"low": 50}
		}
	],
	"trickBonuses": [
		{"id": "trick-backflip", "name": "Backflip", "points": 500}
	],
	"ecps": [
		{
			"id": "ecp-first-chair",
			"name": "First Chair",
			"descriptionText": "Be on the first chair of the day",
			"points": 500,
			"frequency": "daily",
			"abbreviation": "FC"
		}
	],
	"penalties": [
		{
			"id": "pen-yard-sale",
			"name": "Yard Sale",
			"descriptionText": "Lose two or more pieces of equipment",
			"points": 500,
			"abbreviation": "YS"
		}
	]
}`

func parsePayload(t *testing.T, raw string) *Payload {
	t.Helper()
	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return &payload
}

func TestBasePointsShapes(t *testing.T) {

	testCases := []struct {
		name       string
		raw        string
		wantFlat   bool
		wantTiered bool
		wantErr    bool
	}{
		{
			name:     "bare integer is flat",
			raw:      `75`,
			wantFlat: true,
		},
		{
			name:       "tier object is tiered",
			raw:        `{"low": 100, "medium": 150, "high": 200}`,
			wantTiered: true,
		},
		{
			name:       "partial tier object is tiered",
			raw:        `{"low": 50}`,
			wantTiered: true,
		},
		{
			name:       "empty object is a valid tiered shape",
			raw:        `{}`,
			wantTiered: true,
		},
		{
			name:    "string is malformed",
			raw:     `"high"`,
			wantErr: true,
		},
		{
			name:    "array is malformed",
			raw:     `[100, 150]`,
			wantErr: true,
		},
		{
			name:    "unknown tier key is malformed",
			raw:     `{"low": 100, "powder": 500}`,
			wantErr: true,
		},
		{
			name:    "null is malformed",
			raw:     `null`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var bp BasePoints
			err := json.Unmarshal([]byte(tc.raw), &bp)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedBasePoints)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantFlat, bp.IsFlat())
			assert.Equal(t, tc.wantTiered, bp.IsTiered())
		})
	}
}

func TestImport(t *testing.T) {
	importer := NewImporter(nil)

	t.Run("builds the full linked graph", func(t *testing.T) {
		payload := parsePayload(t, squallywoodJSON)

		mountain, version, err := importer.Import(payload)
		require.NoError(t, err)
		require.NotNil(t, mountain)

		assert.Equal(t, "Squallywood", mountain.ID)
		assert.Equal(t, "2.0", version)
		assert.False(t, mountain.IsGlobal)
		assert.Len(t, mountain.LineWorths, 3)
		assert.Len(t, mountain.TrickBonuses, 1)
		assert.Len(t, mountain.ECPs, 1)
		assert.Len(t, mountain.Penalties, 1)

		for _, line := range mountain.LineWorths {
			assert.Equal(t, "Squallywood", line.MountainID)
			assert.NotEmpty(t, line.ID)
		}
		assert.Equal(t, "Squallywood", mountain.TrickBonuses[0].MountainID)
		assert.Equal(t, "FC", mountain.ECPs[0].Abbreviation)
		assert.Equal(t, "daily", mountain.ECPs[0].Frequency)
	})

	t.Run("flat line fans out to all three tiers", func(t *testing.T) {
		payload := parsePayload(t, squallywoodJSON)

		mountain, _, err := importer.Import(payload)
		require.NoError(t, err)

		var flat *models.LineWorth
		for i := range mountain.LineWorths {
			if mountain.LineWorths[i].Name == "The Fingers" {
				flat = &mountain.LineWorths[i]
			}
		}
		require.NotNil(t, flat)
		assert.Equal(t, models.PointSourceFlat, flat.PointSource)
		require.NotNil(t, flat.BaseLow)
		require.NotNil(t, flat.BaseMedium)
		require.NotNil(t, flat.BaseHigh)
		assert.Equal(t, 75, *flat.BaseLow)
		assert.Equal(t, 75, *flat.BaseMedium)
		assert.Equal(t, 75, *flat.BaseHigh)
	})

	t.Run("tiered line keeps absent tiers absent", func(t *testing.T) {
		payload := parsePayload(t, squallywoodJSON)

		mountain, _, err := importer.Import(payload)
		require.NoError(t, err)

		var partial *models.LineWorth
		for i := range mountain.LineWorths {
			if mountain.LineWorths[i].Name == "Sketchy Traverse" {
				partial = &mountain.LineWorths[i]
			}
		}
		require.NotNil(t, partial)
		assert.Equal(t, models.PointSourceTiered, partial.PointSource)
		require.NotNil(t, partial.BaseLow)
		assert.Equal(t, 50, *partial.BaseLow)
		assert.Nil(t, partial.BaseMedium)
		assert.Nil(t, partial.BaseHigh)
	})

	t.Run("same payload imports to the same graph", func(t *testing.T) {
		first, _, err := importer.Import(parsePayload(t, squallywoodJSON))
		require.NoError(t, err)
		second, _, err := importer.Import(parsePayload(t, squallywoodJSON))
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("empty version passes through empty", func(t *testing.T) {
		payload := parsePayload(t, `{"id": "Tiny", "name": "Tiny Hill"}`)

		mountain, version, err := importer.Import(payload)
		require.NoError(t, err)
		assert.Empty(t, version)
		assert.Empty(t, mountain.LineWorths)
	})

	t.Run("global id flags the mountain", func(t *testing.T) {
		payload := parsePayload(t, `{"id": "Global", "name": "Global"}`)

		mountain, _, err := importer.Import(payload)
		require.NoError(t, err)
		assert.True(t, mountain.IsGlobal)
	})

	t.Run("custom global ids override the default", func(t *testing.T) {
		custom := NewImporter([]string{"Universal"})

		mountain, _, err := custom.Import(parsePayload(t, `{"id": "Global", "name": "Global"}`))
		require.NoError(t, err)
		assert.False(t, mountain.IsGlobal)

		mountain, _, err = custom.Import(parsePayload(t, `{"id": "Universal", "name": "Universal"}`))
		require.NoError(t, err)
		assert.True(t, mountain.IsGlobal)
	})
}

func TestImportRejections(t *testing.T) {
	importer := NewImporter(nil)

	t.Run("missing mountain id", func(t *testing.T) {
		_, _, err := importer.Import(parsePayload(t, `{"name": "No ID"}`))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("malformed basePoints aborts the whole import", func(t *testing.T) {
		var payload Payload
		err := json.Unmarshal([]byte(`{
			"id": "Broken",
			"name": "Broken",
			"lineWorths": [
				{"name": "Fine", "area": "A", "basePoints": 100},
				{"name": "Broken", "area": "A", "basePoints": "lots"}
			]
		}`), &payload)
		assert.ErrorIs(t, err, ErrMalformedBasePoints)
	})

	t.Run("negative flat points", func(t *testing.T) {
		payload := parsePayload(t, `{
			"id": "Neg",
			"name": "Neg",
			"lineWorths": [{"name": "Bad", "area": "A", "basePoints": -10}]
		}`)

		_, _, err := importer.Import(payload)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("negative tier points", func(t *testing.T) {
		payload := parsePayload(t, `{
			"id": "Neg",
			"name": "Neg",
			"lineWorths": [{"name": "Bad", "area": "A", "basePoints": {"medium": -1}}]
		}`)

		_, _, err := importer.Import(payload)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("trick without a name", func(t *testing.T) {
		payload := parsePayload(t, `{
			"id": "M",
			"name": "M",
			"trickBonuses": [{"id": "t1", "points": 100}]
		}`)

		_, _, err := importer.Import(payload)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("line without a name", func(t *testing.T) {
		payload := parsePayload(t, `{
			"id": "M",
			"name": "M",
			"lineWorths": [{"area": "A", "basePoints": 10}]
		}`)

		_, _, err := importer.Import(payload)
		assert.ErrorIs(t, err, ErrValidation)
	})
}
