package httpapi

import (
	"net/http"
)

type scoringResultDTO struct {
	MatchesProcessed  int `json:"matchesProcessed"`
	PredictionsScored int `json:"predictionsScored"`
	PointsAwarded     int `json:"pointsAwarded"`
	Failed            int `json:"failed"`
}

// RunScoringJob scores all pending predictions of finished matches.
// Reached only through the internal job token middleware.
func (h *Handler) RunScoringJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScoringJob")
	defer span.End()

	result, err := h.scoringService.ScoreFinishedMatches(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "scoring job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoringResultDTO{
		MatchesProcessed:  result.MatchesProcessed,
		PredictionsScored: result.PredictionsScored,
		PointsAwarded:     result.PointsAwarded,
		Failed:            result.Failed,
	})
}
