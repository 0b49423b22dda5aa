package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/gnarhq/gnarscore/internal/app"
	"github.com/gnarhq/gnarscore/internal/leaderboard"
	"github.com/gnarhq/gnarscore/internal/ledger"
	"github.com/gnarhq/gnarscore/internal/metrics"
	"github.com/gnarhq/gnarscore/internal/models"
)

func httpStatusLabel(status int) string {
	return strconv.Itoa(status)
}

type GameHandler struct {
	service *app.Service
}

func NewGameHandler(service *app.Service) *GameHandler {
	return &GameHandler{
		service: service,
	}
}

type createGameRequest struct {
	MountainID string          `json:"mountain_id"`
	Players    []models.Player `json:"players"`
}

func (h *GameHandler) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.MountainID == "" {
		http.Error(w, "mountain_id is required", http.StatusBadRequest)
		return
	}
	if len(req.Players) == 0 {
		http.Error(w, "at least one player is required", http.StatusBadRequest)
		return
	}

	session, err := h.service.Ledger.CreateSession(req.MountainID, req.Players)
	if err != nil {
		logger.Error.Printf("Failed to create session: %v", err)
		writeLedgerError(w, err, "Failed to create game")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(session)
}

func (h *GameHandler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.Store.ListSessions()
	if err != nil {
		logger.Error.Printf("Failed to list sessions: %v", err)
		http.Error(w, "Failed to list games", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"games": sessions,
	}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (h *GameHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Ledger.Session(r.PathValue("game"))
	if err != nil {
		writeLedgerError(w, err, "Failed to get game")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

func (h *GameHandler) HandleAddPlayer(w http.ResponseWriter, r *http.Request) {
	var player models.Player
	if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	added, err := h.service.Ledger.AddPlayer(r.PathValue("game"), player)
	if err != nil {
		logger.Error.Printf("Failed to add player: %v", err)
		writeLedgerError(w, err, "Failed to add player")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(added)
}

type recordScoreRequest struct {
	PlayerID   string            `json:"player_id"`
	Selections models.Selections `json:"selections"`
}

func (h *GameHandler) HandleRecordScore(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusCreated
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			httpStatusLabel(status),
		).Observe(duration)
	}()

	var req recordScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = http.StatusBadRequest
		http.Error(w, "Invalid request body", status)
		return
	}

	sessionID := r.PathValue("game")
	score, err := h.service.Ledger.RecordScore(sessionID, req.PlayerID, req.Selections)
	if err != nil {
		logger.Error.Printf("Failed to record score in %s: %v", sessionID, err)
		status = ledgerErrorStatus(err)
		writeLedgerError(w, err, "Failed to record score")
		return
	}

	session, sessErr := h.service.Ledger.Session(sessionID)
	mountainLabel := sessionID
	if sessErr == nil {
		mountainLabel = session.MountainName
	}
	metrics.ScoresRecordedTotal.WithLabelValues(mountainLabel).Inc()
	metrics.ScorePointsHistogram.WithLabelValues(mountainLabel, "pro").Observe(float64(score.ProScore))
	metrics.ScorePointsHistogram.WithLabelValues(mountainLabel, "gnar").Observe(float64(score.GnarScore))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(score)
}

func (h *GameHandler) HandleListScores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.service.Ledger.Scores(r.PathValue("game"))
	if err != nil {
		writeLedgerError(w, err, "Failed to list scores")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"scores": scores,
	}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (h *GameHandler) HandleEditScore(w http.ResponseWriter, r *http.Request) {
	var sel models.Selections
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	score, err := h.service.Ledger.EditScore(r.PathValue("game"), r.PathValue("score"), sel)
	if err != nil {
		logger.Error.Printf("Failed to edit score: %v", err)
		writeLedgerError(w, err, "Failed to edit score")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(score)
}

func (h *GameHandler) HandleDeleteScore(w http.ResponseWriter, r *http.Request) {
	err := h.service.Ledger.DeleteScore(r.PathValue("game"), r.PathValue("score"))
	if err != nil {
		logger.Error.Printf("Failed to delete score: %v", err)
		writeLedgerError(w, err, "Failed to delete score")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	metric, err := leaderboard.ParseMetric(r.URL.Query().Get("metric"), h.service.DefaultMetric())
	if err != nil {
		http.Error(w, "Unknown metric, use pro or gnar", http.StatusBadRequest)
		return
	}

	entries, err := h.service.Leaderboard(r.PathValue("game"), metric)
	if err != nil {
		logger.Error.Printf("Failed to build leaderboard: %v", err)
		writeLedgerError(w, err, "Failed to build leaderboard")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"metric":  metric,
		"entries": entries,
	}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func ledgerErrorStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrUnknownReference), errors.Is(err, ledger.ErrInvalidSnowLevel):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeLedgerError(w http.ResponseWriter, err error, fallback string) {
	status := ledgerErrorStatus(err)
	switch status {
	case http.StatusNotFound:
		http.Error(w, "Not found", status)
	case http.StatusUnprocessableEntity:
		http.Error(w, "Selection references an unknown catalog item", status)
	default:
		http.Error(w, fallback, status)
	}
}
