package catalog

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/gnarhq/gnarscore/internal/models"
)

// Import error kinds. Either one aborts the whole mountain import: the
// caller must not persist any partial graph.
var (
	ErrValidation          = errors.New("catalog validation failed")
	ErrMalformedBasePoints = errors.New("malformed basePoints")
)

// DefaultGlobalIDs is the reserved set of mountain ids whose catalog is
// shared across all sessions.
var DefaultGlobalIDs = []string{"Global"}

// Importer turns parsed payloads into validated mountain graphs.
type Importer struct {
	validate  *validator.Validate
	globalIDs map[string]bool
}

// NewImporter builds an importer. globalIDs may be nil, in which case
// DefaultGlobalIDs is used.
func NewImporter(globalIDs []string) *Importer {
	if globalIDs == nil {
		globalIDs = DefaultGlobalIDs
	}
	ids := make(map[string]bool, len(globalIDs))
	for _, id := range globalIDs {
		ids[id] = true
	}
	return &Importer{
		validate:  validator.New(),
		globalIDs: ids,
	}
}

// Import validates the payload and builds the fully-linked mountain graph.
// It returns the graph and the payload's version string (empty when absent)
// so the caller can update its seed-version bookkeeping; the importer itself
// never touches that state. Import has no side effects: all-or-nothing
// persistence is the caller's transaction.
func (i *Importer) Import(payload *Payload) (*models.Mountain, string, error) {
	if err := i.validate.Struct(payload); err != nil {
		return nil, "", fmt.Errorf("%w: mountain %q: %v", ErrValidation, payload.ID, err)
	}

	mountain := &models.Mountain{
		ID:       payload.ID,
		Name:     payload.Name,
		IsGlobal: i.globalIDs[payload.ID],
	}

	for _, t := range payload.TrickBonuses {
		if err := i.validate.Struct(t); err != nil {
			return nil, "", fmt.Errorf("%w: trick bonus %q: %v", ErrValidation, t.ID, err)
		}
		mountain.TrickBonuses = append(mountain.TrickBonuses, models.TrickBonus{
			ID:         t.ID,
			MountainID: mountain.ID,
			Name:       t.Name,
			Points:     t.Points,
		})
	}

	for _, p := range payload.Penalties {
		if err := i.validate.Struct(p); err != nil {
			return nil, "", fmt.Errorf("%w: penalty %q: %v", ErrValidation, p.ID, err)
		}
		mountain.Penalties = append(mountain.Penalties, models.Penalty{
			ID:              p.ID,
			MountainID:      mountain.ID,
			Name:            p.Name,
			DescriptionText: p.DescriptionText,
			Points:          p.Points,
			Abbreviation:    p.Abbreviation,
		})
	}

	for _, e := range payload.ECPs {
		if err := i.validate.Struct(e); err != nil {
			return nil, "", fmt.Errorf("%w: ecp %q: %v", ErrValidation, e.ID, err)
		}
		mountain.ECPs = append(mountain.ECPs, models.ECP{
			ID:              e.ID,
			MountainID:      mountain.ID,
			Name:            e.Name,
			DescriptionText: e.DescriptionText,
			Points:          e.Points,
			Frequency:       e.Frequency,
			Abbreviation:    e.Abbreviation,
		})
	}

	for _, l := range payload.LineWorths {
		if err := i.validate.Struct(l); err != nil {
			return nil, "", fmt.Errorf("%w: line %q: %v", ErrValidation, l.Name, err)
		}
		line, err := buildLineWorth(mountain.ID, l)
		if err != nil {
			return nil, "", err
		}
		mountain.LineWorths = append(mountain.LineWorths, line)
	}

	return mountain, payload.Version, nil
}

// buildLineWorth classifies the basePoints shape. A bare integer becomes a
// flat line with all three tiers set to that value; an object becomes a
// tiered line with possibly absent tiers. Seed files do not carry line ids,
// so a deterministic one is minted from the mountain, area and name:
// importing the same payload twice yields the same graph.
func buildLineWorth(mountainID string, l LinePayload) (models.LineWorth, error) {
	id := l.ID
	if id == "" {
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(mountainID+"/"+l.Area+"/"+l.Name)).String()
	}

	line := models.LineWorth{
		ID:         id,
		MountainID: mountainID,
		Name:       l.Name,
		Area:       l.Area,
	}

	bp := l.BasePoints
	switch {
	case bp.IsFlat():
		if *bp.Flat < 0 {
			return models.LineWorth{}, fmt.Errorf("%w: line %q: negative basePoints", ErrValidation, l.Name)
		}
		v := *bp.Flat
		line.PointSource = models.PointSourceFlat
		line.BaseLow = intPtr(v)
		line.BaseMedium = intPtr(v)
		line.BaseHigh = intPtr(v)
	case bp.IsTiered():
		for _, tier := range []*int{bp.Low, bp.Medium, bp.High} {
			if tier != nil && *tier < 0 {
				return models.LineWorth{}, fmt.Errorf("%w: line %q: negative basePoints tier", ErrValidation, l.Name)
			}
		}
		line.PointSource = models.PointSourceTiered
		line.BaseLow = copyIntPtr(bp.Low)
		line.BaseMedium = copyIntPtr(bp.Medium)
		line.BaseHigh = copyIntPtr(bp.High)
	default:
		return models.LineWorth{}, fmt.Errorf("%w: line %q", ErrMalformedBasePoints, l.Name)
	}

	return line, nil
}

func intPtr(v int) *int {
	return &v
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
