package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/quinielago/quiniela-api/internal/usecase"
)

type createLeagueRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Competition string `json:"competition"`
	Type        string `json:"type"`
	TeamName    string `json:"teamName"`
}

type joinLeagueRequest struct {
	InviteCode string `json:"inviteCode"`
	TeamName   string `json:"teamName"`
}

type leagueSummaryDTO struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Competition       string    `json:"competition"`
	Type              string    `json:"type"`
	InviteCode        string    `json:"inviteCode"`
	IsAdmin           bool      `json:"isAdmin"`
	ParticipantsCount int       `json:"participantsCount"`
	MaxParticipants   int       `json:"maxParticipants"`
	MyTeamName        string    `json:"myTeamName,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

type leagueMemberDTO struct {
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	TeamName string    `json:"teamName"`
	JoinedAt time.Time `json:"joinedAt"`
	Points   int       `json:"points"`
}

type leagueSettingsDTO struct {
	MaxParticipants        int `json:"maxParticipants"`
	PointsPerExactScore    int `json:"pointsPerExactScore"`
	PointsPerCorrectResult int `json:"pointsPerCorrectResult"`
}

type leagueDetailDTO struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Competition  string            `json:"competition"`
	Type         string            `json:"type"`
	InviteCode   string            `json:"inviteCode"`
	InviteLink   string            `json:"inviteLink"`
	AdminUserID  string            `json:"adminUserId"`
	IsAdmin      bool              `json:"isAdmin"`
	Participants []leagueMemberDTO `json:"participants"`
	Settings     leagueSettingsDTO `json:"settings"`
	CreatedAt    time.Time         `json:"createdAt"`
}

type standingRowDTO struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	TeamName string `json:"teamName"`
	Points   int    `json:"points"`
}

func leagueSummaryToDTO(item usecase.LeagueSummary) leagueSummaryDTO {
	return leagueSummaryDTO{
		ID:                item.ID,
		Name:              item.Name,
		Description:       item.Description,
		Competition:       item.CompetitionID,
		Type:              string(item.Visibility),
		InviteCode:        item.InviteCode,
		IsAdmin:           item.IsAdmin,
		ParticipantsCount: item.ParticipantsCount,
		MaxParticipants:   item.MaxParticipants,
		MyTeamName:        item.MyTeamName,
		CreatedAt:         item.CreatedAt,
	}
}

func leagueDetailToDTO(detail usecase.LeagueDetail) leagueDetailDTO {
	members := make([]leagueMemberDTO, 0, len(detail.Members))
	for _, m := range detail.Members {
		members = append(members, leagueMemberDTO{
			UserID:   m.UserID,
			Name:     m.Name,
			Email:    m.Email,
			TeamName: m.TeamName,
			JoinedAt: m.JoinedAt,
			Points:   m.Points,
		})
	}

	l := detail.League
	return leagueDetailDTO{
		ID:           l.ID,
		Name:         l.Name,
		Description:  l.Description,
		Competition:  string(l.CompetitionID),
		Type:         string(l.Visibility),
		InviteCode:   l.InviteCode,
		InviteLink:   detail.InviteLink,
		AdminUserID:  l.AdminUserID,
		IsAdmin:      detail.IsAdmin,
		Participants: members,
		Settings: leagueSettingsDTO{
			MaxParticipants:        l.Settings.MaxParticipants,
			PointsPerExactScore:    l.Settings.PointsPerExactScore,
			PointsPerCorrectResult: l.Settings.PointsPerCorrectResult,
		},
		CreatedAt: l.CreatedAt,
	}
}

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createLeagueRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	created, err := h.leagueService.CreateLeague(ctx, principal.UserID, usecase.CreateLeagueInput{
		Name:          req.Name,
		Description:   req.Description,
		CompetitionID: req.Competition,
		TeamName:      req.TeamName,
		Visibility:    req.Type,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create league failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, leagueDetailToDTO(usecase.LeagueDetail{
		League:     created.League,
		IsAdmin:    true,
		InviteLink: created.InviteLink,
	}))
}

func (h *Handler) ListMyLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyLeagues")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagues, err := h.leagueService.ListUserLeagues(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list my leagues failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueSummaryDTO, 0, len(leagues))
	for _, item := range leagues {
		items = append(items, leagueSummaryToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	detail, err := h.leagueService.GetLeague(ctx, principal.UserID, r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueDetailToDTO(detail))
}

func (h *Handler) JoinLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req joinLeagueRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	summary, err := h.leagueService.JoinLeague(ctx, principal.UserID, req.InviteCode, req.TeamName)
	if err != nil {
		h.logger.WarnContext(ctx, "join league failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueSummaryToDTO(summary))
}

func (h *Handler) DeleteLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := r.PathValue("leagueID")
	if err := h.leagueService.DeleteLeague(ctx, principal.UserID, leagueID); err != nil {
		h.logger.WarnContext(ctx, "delete league failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"deleted": true})
}

func (h *Handler) GetLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueStandings")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	rows, err := h.leagueService.GetStandings(ctx, principal.UserID, r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]standingRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, standingRowDTO{
			Rank:     row.Rank,
			UserID:   row.UserID,
			Name:     row.Name,
			TeamName: row.TeamName,
			Points:   row.Points,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
