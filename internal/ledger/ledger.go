// Package ledger owns game sessions and their time-ordered score records.
// All point math is delegated to the scoring package; the ledger's job is
// resolving selections against the session's catalog and keeping the two
// cached totals consistent with the selections that produced them.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gnarhq/gnarscore/internal/models"
	"github.com/gnarhq/gnarscore/internal/scoring"
	"github.com/gnarhq/gnarscore/internal/store"
)

var (
	// ErrNotFound is returned when a session or score id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnknownReference is returned when a selection references a
	// catalog item the session's catalog does not contain. The attempted
	// write is rejected without mutating anything.
	ErrUnknownReference = errors.New("unknown catalog reference")
	// ErrInvalidSnowLevel is returned for a line selection outside
	// low/medium/high.
	ErrInvalidSnowLevel = errors.New("invalid snow level")
)

type Ledger struct {
	store store.Store
	now   func() time.Time
}

func NewLedger(s store.Store) *Ledger {
	return &Ledger{
		store: s,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// CreateSession starts a game on the given mountain. Players without an id
// are created on the fly. Callers are expected to supply at least one
// player; the ledger stores whatever it is given.
func (l *Ledger) CreateSession(mountainID string, players []models.Player) (*models.GameSession, error) {
	mountain, err := l.store.GetMountain(mountainID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mountain: %w", err)
	}
	if mountain == nil {
		return nil, fmt.Errorf("%w: mountain %s", ErrNotFound, mountainID)
	}

	members := make([]models.Player, 0, len(players))
	for _, p := range players {
		if p.ID == "" {
			p.ID = uuid.NewString()
			if err := l.store.CreatePlayer(&p); err != nil {
				return nil, fmt.Errorf("failed to create player %q: %w", p.Name, err)
			}
		} else {
			existing, err := l.store.GetPlayer(p.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve player: %w", err)
			}
			if existing == nil {
				return nil, fmt.Errorf("%w: player %s", ErrUnknownReference, p.ID)
			}
			p = *existing
		}
		members = append(members, p)
	}

	session := &models.GameSession{
		ID:           uuid.NewString(),
		MountainID:   mountain.ID,
		MountainName: mountain.Name,
		StartDate:    l.now(),
		Players:      members,
	}

	if err := l.store.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// AddPlayer joins a player to a running session.
func (l *Ledger) AddPlayer(sessionID string, player models.Player) (*models.Player, error) {
	session, err := l.session(sessionID)
	if err != nil {
		return nil, err
	}

	if player.ID == "" {
		player.ID = uuid.NewString()
		if err := l.store.CreatePlayer(&player); err != nil {
			return nil, fmt.Errorf("failed to create player %q: %w", player.Name, err)
		}
	} else {
		existing, err := l.store.GetPlayer(player.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve player: %w", err)
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: player %s", ErrUnknownReference, player.ID)
		}
		player = *existing
	}

	if session.HasPlayer(player.ID) {
		return &player, nil
	}

	if err := l.store.AddSessionPlayer(session.ID, player.ID); err != nil {
		return nil, fmt.Errorf("failed to add player to session: %w", err)
	}
	return &player, nil
}

// Session returns the session with its member list.
func (l *Ledger) Session(sessionID string) (*models.GameSession, error) {
	return l.session(sessionID)
}

// RecordScore appends one scoring event to the session's ledger. Both
// totals are computed here, together, from the selections; previously
// recorded scores are never touched.
func (l *Ledger) RecordScore(sessionID, playerID string, sel models.Selections) (*models.Score, error) {
	session, err := l.session(sessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasPlayer(playerID) {
		return nil, fmt.Errorf("%w: player %s is not in session %s", ErrUnknownReference, playerID, sessionID)
	}

	idx, err := l.catalogFor(session)
	if err != nil {
		return nil, err
	}
	totals, err := idx.computeTotals(sel)
	if err != nil {
		return nil, err
	}

	score := &models.Score{
		ID:         uuid.NewString(),
		SessionID:  session.ID,
		PlayerID:   playerID,
		Timestamp:  l.now(),
		TrickIDs:   sel.TrickIDs,
		ECPIDs:     sel.ECPIDs,
		PenaltyIDs: sel.PenaltyIDs,
		ProScore:   totals.ProScore,
		GnarScore:  totals.GnarScore,
	}
	if sel.Line != nil {
		lineID := sel.Line.LineWorthID
		level := sel.Line.SnowLevel
		score.LineWorthID = &lineID
		score.SnowLevel = &level
	}

	if err := l.store.CreateScore(score); err != nil {
		return nil, fmt.Errorf("failed to save score: %w", err)
	}
	return score, nil
}

// EditScore replaces an existing score's selections and recomputes both
// totals from scratch. There is no incremental update path: recomputing
// keeps the cached totals from drifting away from the selections.
func (l *Ledger) EditScore(sessionID, scoreID string, sel models.Selections) (*models.Score, error) {
	session, err := l.session(sessionID)
	if err != nil {
		return nil, err
	}

	score, err := l.store.GetScore(scoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to load score: %w", err)
	}
	if score == nil || score.SessionID != session.ID {
		return nil, fmt.Errorf("%w: score %s in session %s", ErrNotFound, scoreID, sessionID)
	}

	idx, err := l.catalogFor(session)
	if err != nil {
		return nil, err
	}
	totals, err := idx.computeTotals(sel)
	if err != nil {
		return nil, err
	}

	score.LineWorthID = nil
	score.SnowLevel = nil
	if sel.Line != nil {
		lineID := sel.Line.LineWorthID
		level := sel.Line.SnowLevel
		score.LineWorthID = &lineID
		score.SnowLevel = &level
	}
	score.TrickIDs = sel.TrickIDs
	score.ECPIDs = sel.ECPIDs
	score.PenaltyIDs = sel.PenaltyIDs
	score.ProScore = totals.ProScore
	score.GnarScore = totals.GnarScore

	if err := l.store.UpdateScore(score); err != nil {
		return nil, fmt.Errorf("failed to update score: %w", err)
	}
	return score, nil
}

// DeleteScore removes one record. Other records are left untouched.
func (l *Ledger) DeleteScore(sessionID, scoreID string) error {
	session, err := l.session(sessionID)
	if err != nil {
		return err
	}

	score, err := l.store.GetScore(scoreID)
	if err != nil {
		return fmt.Errorf("failed to load score: %w", err)
	}
	if score == nil || score.SessionID != session.ID {
		return fmt.Errorf("%w: score %s in session %s", ErrNotFound, scoreID, sessionID)
	}

	if err := l.store.DeleteScore(scoreID); err != nil {
		return fmt.Errorf("failed to delete score: %w", err)
	}
	return nil
}

// Scores lists the session's ledger in record order.
func (l *Ledger) Scores(sessionID string) ([]models.Score, error) {
	if _, err := l.session(sessionID); err != nil {
		return nil, err
	}
	scores, err := l.store.ListScores(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	return scores, nil
}

// TotalsForPlayer sums both metrics across the player's scores in the
// session. A player with no scores totals zero.
func (l *Ledger) TotalsForPlayer(sessionID, playerID string) (scoring.Totals, error) {
	scores, err := l.Scores(sessionID)
	if err != nil {
		return scoring.Totals{}, err
	}

	var totals scoring.Totals
	for _, s := range scores {
		if s.PlayerID != playerID {
			continue
		}
		totals.ProScore += s.ProScore
		totals.GnarScore += s.GnarScore
	}
	return totals, nil
}

func (l *Ledger) session(sessionID string) (*models.GameSession, error) {
	session, err := l.store.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}
	return session, nil
}

// catalogIndex is the id-resolvable view of everything scoreable in a
// session: the session's own mountain plus every global catalog.
type catalogIndex struct {
	lines     map[string]models.LineWorth
	tricks    map[string]models.TrickBonus
	ecps      map[string]models.ECP
	penalties map[string]models.Penalty
}

func (l *Ledger) catalogFor(session *models.GameSession) (*catalogIndex, error) {
	idx := &catalogIndex{
		lines:     make(map[string]models.LineWorth),
		tricks:    make(map[string]models.TrickBonus),
		ecps:      make(map[string]models.ECP),
		penalties: make(map[string]models.Penalty),
	}

	mountains, err := l.store.ListGlobalMountains()
	if err != nil {
		return nil, fmt.Errorf("failed to load global catalogs: %w", err)
	}

	home, err := l.store.GetMountain(session.MountainID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session catalog: %w", err)
	}
	if home != nil {
		mountains = append(mountains, *home)
	}

	for _, m := range mountains {
		for _, line := range m.LineWorths {
			idx.lines[line.ID] = line
		}
		for _, trick := range m.TrickBonuses {
			idx.tricks[trick.ID] = trick
		}
		for _, ecp := range m.ECPs {
			idx.ecps[ecp.ID] = ecp
		}
		for _, penalty := range m.Penalties {
			idx.penalties[penalty.ID] = penalty
		}
	}
	return idx, nil
}

// computeTotals resolves every selected id and folds the components into
// the two metrics. A score with no selections at all is valid and totals
// zero.
func (idx *catalogIndex) computeTotals(sel models.Selections) (scoring.Totals, error) {
	linePoints := 0
	if sel.Line != nil {
		if !sel.Line.SnowLevel.Valid() {
			return scoring.Totals{}, fmt.Errorf("%w: %q", ErrInvalidSnowLevel, sel.Line.SnowLevel)
		}
		line, ok := idx.lines[sel.Line.LineWorthID]
		if !ok {
			return scoring.Totals{}, fmt.Errorf("%w: line %s", ErrUnknownReference, sel.Line.LineWorthID)
		}
		linePoints = scoring.PointsForLine(&line, sel.Line.SnowLevel)
	}

	tricks := make([]models.TrickBonus, 0, len(sel.TrickIDs))
	for _, id := range sel.TrickIDs {
		trick, ok := idx.tricks[id]
		if !ok {
			return scoring.Totals{}, fmt.Errorf("%w: trick %s", ErrUnknownReference, id)
		}
		tricks = append(tricks, trick)
	}

	ecps := make([]models.ECP, 0, len(sel.ECPIDs))
	for _, id := range sel.ECPIDs {
		ecp, ok := idx.ecps[id]
		if !ok {
			return scoring.Totals{}, fmt.Errorf("%w: ecp %s", ErrUnknownReference, id)
		}
		ecps = append(ecps, ecp)
	}

	penalties := make([]models.Penalty, 0, len(sel.PenaltyIDs))
	for _, id := range sel.PenaltyIDs {
		penalty, ok := idx.penalties[id]
		if !ok {
			return scoring.Totals{}, fmt.Errorf("%w: penalty %s", ErrUnknownReference, id)
		}
		penalties = append(penalties, penalty)
	}

	return scoring.Aggregate(
		linePoints,
		scoring.SumPoints(tricks),
		scoring.SumPoints(ecps),
		scoring.SumPoints(penalties),
	), nil
}
