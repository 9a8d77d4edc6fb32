package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/quinielago/quiniela-api/internal/domain/match"
	"github.com/quinielago/quiniela-api/internal/domain/prediction"
	"github.com/quinielago/quiniela-api/internal/usecase"
)

type predictionRequest struct {
	MatchID   string `json:"matchId"`
	HomeGoals int    `json:"homeGoals"`
	AwayGoals int    `json:"awayGoals"`
}

type predictionDTO struct {
	ID        string     `json:"id"`
	LeagueID  string     `json:"leagueId"`
	MatchID   string     `json:"matchId"`
	HomeGoals int        `json:"homeGoals"`
	AwayGoals int        `json:"awayGoals"`
	Points    *int       `json:"points,omitempty"`
	ScoredAt  *time.Time `json:"scoredAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type matchDTO struct {
	ID          string    `json:"id"`
	Competition string    `json:"competition"`
	Season      string    `json:"season"`
	Round       string    `json:"round"`
	HomeTeam    string    `json:"homeTeam"`
	AwayTeam    string    `json:"awayTeam"`
	HomeScore   *int      `json:"homeScore"`
	AwayScore   *int      `json:"awayScore"`
	Status      string    `json:"status"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue,omitempty"`
}

func predictionToDTO(p prediction.Prediction) predictionDTO {
	return predictionDTO{
		ID:        p.ID,
		LeagueID:  p.LeagueID,
		MatchID:   p.MatchID,
		HomeGoals: p.HomeGoals,
		AwayGoals: p.AwayGoals,
		Points:    p.Points,
		ScoredAt:  p.ScoredAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:          m.ID,
		Competition: m.CompetitionID,
		Season:      m.Season,
		Round:       m.Round,
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
		Status:      string(m.Status),
		Date:        m.KickoffAt,
		Venue:       m.Venue,
	}
}

func (h *Handler) ListLeagueMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueMatches")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	matches, err := h.matchService.ListLeagueMatches(ctx, principal.UserID, r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePrediction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req predictionRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	p, err := h.predictionService.CreatePrediction(ctx, principal.UserID, usecase.CreatePredictionInput{
		LeagueID:  r.PathValue("leagueID"),
		MatchID:   req.MatchID,
		HomeGoals: req.HomeGoals,
		AwayGoals: req.AwayGoals,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create prediction failed", "user_id", principal.UserID, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, predictionToDTO(p))
}

func (h *Handler) UpdatePrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePrediction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req predictionRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	p, err := h.predictionService.UpdatePrediction(ctx, principal.UserID, usecase.UpdatePredictionInput{
		LeagueID:     r.PathValue("leagueID"),
		PredictionID: r.PathValue("predictionID"),
		HomeGoals:    req.HomeGoals,
		AwayGoals:    req.AwayGoals,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update prediction failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(p))
}

func (h *Handler) ListMyPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPredictions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	predictions, err := h.predictionService.ListMyPredictions(ctx, principal.UserID, r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]predictionDTO, 0, len(predictions))
	for _, p := range predictions {
		items = append(items, predictionToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
