package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/quinielago/quiniela-api/internal/domain/league"
	"github.com/quinielago/quiniela-api/internal/domain/user"
	idgen "github.com/quinielago/quiniela-api/internal/platform/id"
)

const (
	leagueNameMinLen  = 3
	leagueNameMaxLen  = 50
	descriptionMaxLen = 200
	teamNameMinLen    = 2
	teamNameMaxLen    = 30
)

type inviteCodeGenerator interface {
	Generate(ctx context.Context) (string, error)
}

type CreateLeagueInput struct {
	Name          string
	Description   string
	CompetitionID string
	TeamName      string
	Visibility    string
}

// CreatedLeague is the create response: the stored league plus the
// shareable join link.
type CreatedLeague struct {
	League     league.League
	InviteLink string
}

// LeagueSummary is the caller-relative list item for my-leagues and
// join responses.
type LeagueSummary struct {
	ID                string
	Name              string
	Description       string
	CompetitionID     string
	Visibility        league.Visibility
	InviteCode        string
	IsAdmin           bool
	ParticipantsCount int
	MaxParticipants   int
	MyTeamName        string
	CreatedAt         time.Time
}

// LeagueMember is a participant enriched with profile data.
type LeagueMember struct {
	UserID   string
	Name     string
	Email    string
	TeamName string
	JoinedAt time.Time
	Points   int
}

type LeagueDetail struct {
	League     league.League
	Members    []LeagueMember
	IsAdmin    bool
	InviteLink string
}

type StandingRow struct {
	Rank     int
	UserID   string
	Name     string
	TeamName string
	Points   int
}

type LeagueService struct {
	leagueRepo      league.Repository
	userRepo        user.Repository
	codes           inviteCodeGenerator
	idGen           idgen.Generator
	frontendBaseURL string
	now             func() time.Time
}

func NewLeagueService(
	leagueRepo league.Repository,
	userRepo user.Repository,
	codes inviteCodeGenerator,
	idGen idgen.Generator,
	frontendBaseURL string,
) *LeagueService {
	return &LeagueService{
		leagueRepo:      leagueRepo,
		userRepo:        userRepo,
		codes:           codes,
		idGen:           idGen,
		frontendBaseURL: strings.TrimRight(strings.TrimSpace(frontendBaseURL), "/"),
		now:             time.Now,
	}
}

// CreateLeague stores a new league with the caller as its admin and
// first participant. Every violated field is reported at once.
func (s *LeagueService) CreateLeague(ctx context.Context, callerID string, input CreateLeagueInput) (CreatedLeague, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.CreateLeague")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return CreatedLeague{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.CompetitionID = strings.TrimSpace(input.CompetitionID)
	input.TeamName = strings.TrimSpace(input.TeamName)
	input.Visibility = strings.TrimSpace(strings.ToLower(input.Visibility))

	var v violations
	if n := len([]rune(input.Name)); n < leagueNameMinLen || n > leagueNameMaxLen {
		v.add("name", fmt.Sprintf("must be between %d and %d characters", leagueNameMinLen, leagueNameMaxLen))
	}
	if len([]rune(input.Description)) > descriptionMaxLen {
		v.add("description", fmt.Sprintf("must be at most %d characters", descriptionMaxLen))
	}
	if !league.IsSupportedCompetition(league.CompetitionID(input.CompetitionID)) {
		v.add("competitionId", "unsupported competition")
	}
	if reason, ok := teamNameViolation(input.TeamName); !ok {
		v.add("teamName", reason)
	}
	visibility := league.VisibilityPrivate
	switch input.Visibility {
	case "", string(league.VisibilityPrivate):
	case string(league.VisibilityPublic):
		visibility = league.VisibilityPublic
	default:
		v.add("type", "must be public or private")
	}
	if err := v.err(); err != nil {
		return CreatedLeague{}, err
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return CreatedLeague{}, fmt.Errorf("generate league id: %w", err)
	}
	code, err := s.codes.Generate(ctx)
	if err != nil {
		return CreatedLeague{}, fmt.Errorf("generate invite code: %w", err)
	}

	now := s.now().UTC()
	item := league.League{
		ID:            leagueID,
		Name:          input.Name,
		Description:   input.Description,
		CompetitionID: league.CompetitionID(input.CompetitionID),
		Visibility:    visibility,
		InviteCode:    code,
		AdminUserID:   callerID,
		Participants: []league.Participant{{
			UserID:   callerID,
			TeamName: input.TeamName,
			JoinedAt: now,
		}},
		Settings:  league.DefaultSettings(),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.leagueRepo.Create(ctx, item); err != nil {
		return CreatedLeague{}, fmt.Errorf("create league: %w", err)
	}

	return CreatedLeague{League: item, InviteLink: s.inviteLink(code)}, nil
}

// JoinLeague adds the caller to the league behind an invite code.
// Joining twice is a conflict, not a no-op, and capacity is decided by
// the storage append so concurrent joins cannot overfill the league.
func (s *LeagueService) JoinLeague(ctx context.Context, callerID, inviteCode, teamName string) (LeagueSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.JoinLeague")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return LeagueSummary{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}

	inviteCode = strings.ToUpper(strings.TrimSpace(inviteCode))
	teamName = strings.TrimSpace(teamName)

	var v violations
	if inviteCode == "" {
		v.add("inviteCode", "is required")
	}
	if reason, ok := teamNameViolation(teamName); !ok {
		v.add("teamName", reason)
	}
	if err := v.err(); err != nil {
		return LeagueSummary{}, err
	}

	item, exists, err := s.leagueRepo.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		return LeagueSummary{}, fmt.Errorf("get league by invite code: %w", err)
	}
	if !exists || !item.IsActive {
		return LeagueSummary{}, fmt.Errorf("%w: invite code not found", ErrNotFound)
	}

	participant := league.Participant{
		UserID:   callerID,
		TeamName: teamName,
		JoinedAt: s.now().UTC(),
	}
	if err := s.leagueRepo.AddParticipant(ctx, item.ID, participant); err != nil {
		if errors.Is(err, league.ErrAlreadyParticipant) {
			return LeagueSummary{}, fmt.Errorf("%w: already a member of this league", ErrConflict)
		}
		return LeagueSummary{}, fmt.Errorf("add participant: %w", err)
	}

	item, exists, err = s.leagueRepo.GetByID(ctx, item.ID)
	if err != nil || !exists {
		if err == nil {
			err = fmt.Errorf("league disappeared after join")
		}
		return LeagueSummary{}, fmt.Errorf("reload league after join: %w", err)
	}

	return s.summarize(item, callerID), nil
}

// GetLeague returns the full detail of a league the caller belongs to.
// Existence is checked before membership so outsiders cannot probe for
// league ids.
func (s *LeagueService) GetLeague(ctx context.Context, callerID, leagueID string) (LeagueDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.GetLeague")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	leagueID = strings.TrimSpace(leagueID)
	if callerID == "" {
		return LeagueDetail{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if leagueID == "" {
		return LeagueDetail{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, err := s.activeLeague(ctx, leagueID)
	if err != nil {
		return LeagueDetail{}, err
	}
	if !item.IsParticipant(callerID) {
		return LeagueDetail{}, fmt.Errorf("%w: not a member of this league", ErrForbidden)
	}

	members, err := s.enrichMembers(ctx, item)
	if err != nil {
		return LeagueDetail{}, err
	}

	return LeagueDetail{
		League:     item,
		Members:    members,
		IsAdmin:    item.IsAdmin(callerID),
		InviteLink: s.inviteLink(item.InviteCode),
	}, nil
}

// ListUserLeagues returns the caller's active leagues, newest first.
func (s *LeagueService) ListUserLeagues(ctx context.Context, callerID string) ([]LeagueSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.ListUserLeagues")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}

	leagues, err := s.leagueRepo.ListByParticipant(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list leagues by participant: %w", err)
	}

	sort.SliceStable(leagues, func(i, j int) bool {
		return leagues[i].CreatedAt.After(leagues[j].CreatedAt)
	})

	items := make([]LeagueSummary, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, s.summarize(l, callerID))
	}
	return items, nil
}

// DeleteLeague deactivates a league. Only the admin may do it, and the
// league afterwards reads as absent everywhere.
func (s *LeagueService) DeleteLeague(ctx context.Context, callerID, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.DeleteLeague")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	leagueID = strings.TrimSpace(leagueID)
	if callerID == "" {
		return fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if leagueID == "" {
		return fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, err := s.activeLeague(ctx, leagueID)
	if err != nil {
		return err
	}
	if !item.IsAdmin(callerID) {
		return fmt.Errorf("%w: only the league admin can delete it", ErrForbidden)
	}

	if err := s.leagueRepo.SoftDelete(ctx, leagueID); err != nil {
		return fmt.Errorf("soft delete league: %w", err)
	}
	return nil
}

// GetStandings ranks the league's participants by points. Equal points
// share a rank (dense ranking).
func (s *LeagueService) GetStandings(ctx context.Context, callerID, leagueID string) ([]StandingRow, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.GetStandings")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	leagueID = strings.TrimSpace(leagueID)
	if callerID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, err := s.activeLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if !item.IsParticipant(callerID) {
		return nil, fmt.Errorf("%w: not a member of this league", ErrForbidden)
	}

	members, err := s.enrichMembers(ctx, item)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Points > members[j].Points
	})

	rows := make([]StandingRow, 0, len(members))
	lastPoints := 0
	currentRank := 0
	for idx, m := range members {
		if idx == 0 || m.Points != lastPoints {
			currentRank++
			lastPoints = m.Points
		}
		rows = append(rows, StandingRow{
			Rank:     currentRank,
			UserID:   m.UserID,
			Name:     m.Name,
			TeamName: m.TeamName,
			Points:   m.Points,
		})
	}
	return rows, nil
}

func (s *LeagueService) activeLeague(ctx context.Context, leagueID string) (league.League, error) {
	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by id: %w", err)
	}
	if !exists || !item.IsActive {
		return league.League{}, fmt.Errorf("%w: league not found", ErrNotFound)
	}
	return item, nil
}

func (s *LeagueService) enrichMembers(ctx context.Context, item league.League) ([]LeagueMember, error) {
	userIDs := make([]string, 0, len(item.Participants))
	for _, p := range item.Participants {
		userIDs = append(userIDs, p.UserID)
	}

	users, err := s.userRepo.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list league member users: %w", err)
	}
	byID := make(map[string]user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	members := make([]LeagueMember, 0, len(item.Participants))
	for _, p := range item.Participants {
		member := LeagueMember{
			UserID:   p.UserID,
			TeamName: p.TeamName,
			JoinedAt: p.JoinedAt,
			Points:   p.Points,
		}
		if u, ok := byID[p.UserID]; ok {
			member.Name = u.Name
			member.Email = u.Email
		}
		members = append(members, member)
	}
	return members, nil
}

func (s *LeagueService) summarize(item league.League, callerID string) LeagueSummary {
	summary := LeagueSummary{
		ID:                item.ID,
		Name:              item.Name,
		Description:       item.Description,
		CompetitionID:     string(item.CompetitionID),
		Visibility:        item.Visibility,
		InviteCode:        item.InviteCode,
		IsAdmin:           item.IsAdmin(callerID),
		ParticipantsCount: len(item.Participants),
		MaxParticipants:   item.Settings.MaxParticipants,
		CreatedAt:         item.CreatedAt,
	}
	if p, ok := item.ParticipantByUser(callerID); ok {
		summary.MyTeamName = p.TeamName
	}
	return summary
}

func (s *LeagueService) inviteLink(code string) string {
	return s.frontendBaseURL + "/join/" + code
}

func teamNameViolation(teamName string) (string, bool) {
	if n := len([]rune(teamName)); n < teamNameMinLen || n > teamNameMaxLen {
		return fmt.Sprintf("must be between %d and %d characters", teamNameMinLen, teamNameMaxLen), false
	}
	return "", true
}
