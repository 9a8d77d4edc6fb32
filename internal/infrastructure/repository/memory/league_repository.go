// Package memory holds in-memory repository implementations used as
// test doubles.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/quinielago/quiniela-api/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	leagues map[string]league.League
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{leagues: make(map[string]league.League)}
}

func (r *LeagueRepository) Create(_ context.Context, item league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.leagues {
		if existing.InviteCode == item.InviteCode {
			return league.ErrDuplicateCode
		}
	}
	r.leagues[item.ID] = cloneLeague(item)
	return nil
}

// Put stores the league unconditionally, bypassing the invite code
// uniqueness check. Intended for seeding fixtures.
func (r *LeagueRepository) Put(item league.League) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leagues[item.ID] = cloneLeague(item)
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.leagues[leagueID]
	if !ok {
		return league.League{}, false, nil
	}
	return cloneLeague(item), true, nil
}

func (r *LeagueRepository) GetByInviteCode(_ context.Context, code string) (league.League, bool, error) {
	code = strings.ToUpper(code)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.leagues {
		if item.InviteCode == code {
			return cloneLeague(item), true, nil
		}
	}
	return league.League{}, false, nil
}

func (r *LeagueRepository) CodeExists(_ context.Context, code string) (bool, error) {
	code = strings.ToUpper(code)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.leagues {
		if item.InviteCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *LeagueRepository) ListByParticipant(_ context.Context, userID string) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []league.League
	for _, item := range r.leagues {
		if !item.IsActive {
			continue
		}
		if item.IsParticipant(userID) {
			out = append(out, cloneLeague(item))
		}
	}
	return out, nil
}

// AddParticipant appends under the repository lock so the capacity and
// membership checks and the write are one atomic step, like the locked
// transaction in the SQL implementation.
func (r *LeagueRepository) AddParticipant(_ context.Context, leagueID string, p league.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.leagues[leagueID]
	if !ok || !item.IsActive {
		return league.ErrLeagueFull
	}
	if item.IsParticipant(p.UserID) {
		return league.ErrAlreadyParticipant
	}
	if item.IsFull() {
		return league.ErrLeagueFull
	}

	item.Participants = append(append([]league.Participant(nil), item.Participants...), p)
	item.UpdatedAt = p.JoinedAt
	r.leagues[leagueID] = item
	return nil
}

func (r *LeagueRepository) SoftDelete(_ context.Context, leagueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.leagues[leagueID]
	if !ok {
		return nil
	}
	item.IsActive = false
	r.leagues[leagueID] = item
	return nil
}

func (r *LeagueRepository) UpdateParticipantPoints(_ context.Context, leagueID, userID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.leagues[leagueID]
	if !ok {
		return nil
	}
	participants := append([]league.Participant(nil), item.Participants...)
	for i := range participants {
		if participants[i].UserID == userID {
			participants[i].Points += delta
			break
		}
	}
	item.Participants = participants
	r.leagues[leagueID] = item
	return nil
}

func cloneLeague(item league.League) league.League {
	item.Participants = append([]league.Participant(nil), item.Participants...)
	return item
}
