// Package cache decorates repositories with an in-process TTL cache.
// Reads go through GetOrLoad so a cold key is loaded once across
// concurrent callers; writes pass through and invalidate.
package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/quinielago/quiniela-api/internal/domain/league"
	"github.com/quinielago/quiniela-api/internal/domain/match"
	basecache "github.com/quinielago/quiniela-api/internal/platform/cache"
)

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "match:id:"+matchID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return cachedMatchByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatchByID)
	return cached.value, cached.exists, nil
}

func (r *MatchRepository) ListByCompetition(ctx context.Context, competitionID string) ([]match.Match, error) {
	key := "match:list:" + competitionID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByCompetition(ctx, competitionID)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) ListByIDs(ctx context.Context, matchIDs []string) ([]match.Match, error) {
	ids := append([]string(nil), matchIDs...)
	sort.Strings(ids)
	key := "match:ids:" + strings.Join(ids, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByIDs(ctx, matchIDs)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

// ListFinished is not cached: the scoring job must see results the
// moment they land, and it already runs off the hot path.
func (r *MatchRepository) ListFinished(ctx context.Context, competitionID string) ([]match.Match, error) {
	return r.next.ListFinished(ctx, competitionID)
}

func (r *MatchRepository) Upsert(ctx context.Context, m match.Match) error {
	if err := r.next.Upsert(ctx, m); err != nil {
		return err
	}
	r.cache.Delete(ctx, "match:id:"+m.ID)
	r.cache.Delete(ctx, "match:list:"+m.CompetitionID)
	r.cache.DeletePrefix(ctx, "match:ids:")
	return nil
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}

type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	if err := r.next.Create(ctx, l); err != nil {
		return err
	}
	r.cache.Delete(ctx, leagueByIDKey(l.ID))
	r.cache.Delete(ctx, leagueByInviteKey(l.InviteCode))
	r.cache.Delete(ctx, leagueListByUserKey(l.AdminUserID))
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueByIDKey(leagueID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: cloneLeague(item), exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cloneLeague(cached.value), cached.exists, nil
}

func (r *LeagueRepository) GetByInviteCode(ctx context.Context, inviteCode string) (league.League, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueByInviteKey(inviteCode), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByInviteCode(ctx, inviteCode)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: cloneLeague(item), exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cloneLeague(cached.value), cached.exists, nil
}

// CodeExists bypasses the cache. Code generation relies on it to
// guarantee uniqueness and a stale miss would hand out a taken code.
func (r *LeagueRepository) CodeExists(ctx context.Context, inviteCode string) (bool, error) {
	return r.next.CodeExists(ctx, inviteCode)
}

func (r *LeagueRepository) ListByParticipant(ctx context.Context, userID string) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueListByUserKey(userID), func(ctx context.Context) (any, error) {
		items, err := r.next.ListByParticipant(ctx, userID)
		if err != nil {
			return nil, err
		}
		out := make([]league.League, 0, len(items))
		for _, item := range items {
			out = append(out, cloneLeague(item))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	out := make([]league.League, 0, len(items))
	for _, item := range items {
		out = append(out, cloneLeague(item))
	}
	return out, nil
}

// AddParticipant passes straight through. The capacity and membership
// checks happen inside the storage layer's atomic write, so the cache
// must never sit between two racing joins.
func (r *LeagueRepository) AddParticipant(ctx context.Context, leagueID string, p league.Participant) error {
	if err := r.next.AddParticipant(ctx, leagueID, p); err != nil {
		return err
	}
	r.invalidateLeague(ctx, leagueID)
	r.cache.Delete(ctx, leagueListByUserKey(p.UserID))
	return nil
}

func (r *LeagueRepository) SoftDelete(ctx context.Context, leagueID string) error {
	if err := r.next.SoftDelete(ctx, leagueID); err != nil {
		return err
	}
	r.invalidateLeague(ctx, leagueID)
	r.cache.DeletePrefix(ctx, leagueListByUserPrefix)
	return nil
}

func (r *LeagueRepository) UpdateParticipantPoints(ctx context.Context, leagueID, userID string, delta int) error {
	if err := r.next.UpdateParticipantPoints(ctx, leagueID, userID, delta); err != nil {
		return err
	}
	r.invalidateLeague(ctx, leagueID)
	r.cache.Delete(ctx, leagueListByUserKey(userID))
	return nil
}

// invalidateLeague drops every entry derived from the league row. The
// invite-code keys cannot be rebuilt from the ID alone, so they go by
// prefix.
func (r *LeagueRepository) invalidateLeague(ctx context.Context, leagueID string) {
	r.cache.Delete(ctx, leagueByIDKey(leagueID))
	r.cache.DeletePrefix(ctx, leagueByInvitePrefix)
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}

func cloneLeague(item league.League) league.League {
	out := item
	out.Participants = append([]league.Participant(nil), item.Participants...)
	return out
}

const (
	leagueByInvitePrefix   = "league:invite:"
	leagueListByUserPrefix = "league:list:user:"
)

func leagueByIDKey(leagueID string) string {
	return "league:id:" + leagueID
}

func leagueByInviteKey(inviteCode string) string {
	return leagueByInvitePrefix + strings.ToUpper(strings.TrimSpace(inviteCode))
}

func leagueListByUserKey(userID string) string {
	return leagueListByUserPrefix + userID
}
