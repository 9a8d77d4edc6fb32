// Package httpapi exposes the REST surface of the quiniela service.
package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/quinielago/quiniela-api/internal/platform/logging"
	"github.com/quinielago/quiniela-api/internal/usecase"
)

type Handler struct {
	authService       *usecase.AuthService
	leagueService     *usecase.LeagueService
	matchService      *usecase.MatchService
	predictionService *usecase.PredictionService
	scoringService    *usecase.ScoringService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	authService *usecase.AuthService,
	leagueService *usecase.LeagueService,
	matchService *usecase.MatchService,
	predictionService *usecase.PredictionService,
	scoringService *usecase.ScoringService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		authService:       authService,
		leagueService:     leagueService,
		matchService:      matchService,
		predictionService: predictionService,
		scoringService:    scoringService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
