package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.HandleFunc("POST /auth/register", handler.Register)
	mux.HandleFunc("POST /auth/login", handler.Login)
	mux.Handle("GET /auth/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMe)))
	mux.Handle("PUT /auth/update", RequireAuth(verifier, http.HandlerFunc(handler.UpdateProfile)))
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /leagues", RequireAuth(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("GET /leagues/my-leagues", RequireAuth(verifier, http.HandlerFunc(handler.ListMyLeagues)))
	mux.Handle("POST /leagues/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("GET /leagues/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.GetLeague)))
	mux.Handle("DELETE /leagues/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteLeague)))
	mux.Handle("GET /leagues/{leagueID}/standings", RequireAuth(verifier, http.HandlerFunc(handler.GetLeagueStandings)))
	mux.Handle("GET /leagues/{leagueID}/matches", RequireAuth(verifier, http.HandlerFunc(handler.ListLeagueMatches)))
	mux.Handle("GET /leagues/{leagueID}/my-predictions", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPredictions)))
	mux.Handle("POST /leagues/{leagueID}/predictions", RequireAuth(verifier, http.HandlerFunc(handler.CreatePrediction)))
	mux.Handle("PUT /leagues/{leagueID}/predictions/{predictionID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdatePrediction)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /internal/jobs/score", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunScoringJob)))
}
