package cache

import (
	"context"
	"testing"
	"time"

	"github.com/quinielago/quiniela-api/internal/domain/league"
	"github.com/quinielago/quiniela-api/internal/domain/match"
	"github.com/quinielago/quiniela-api/internal/infrastructure/repository/memory"
	basecache "github.com/quinielago/quiniela-api/internal/platform/cache"
)

func TestMatchRepositoryCachesListByCompetition(t *testing.T) {
	ctx := context.Background()
	next := memory.NewMatchRepository()
	repo := NewMatchRepository(next, basecache.NewStore(time.Minute))

	seed := match.Match{
		ID:            "m1",
		CompetitionID: "premier-league",
		Status:        match.StatusScheduled,
		KickoffAt:     time.Now().Add(time.Hour),
	}
	if err := next.Upsert(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	first, err := repo.ListByCompetition(ctx, "premier-league")
	if err != nil || len(first) != 1 {
		t.Fatalf("first list: %v %v", first, err)
	}

	// Write behind the decorator's back: the cached list must still be served.
	if err := next.Upsert(ctx, match.Match{
		ID:            "m2",
		CompetitionID: "premier-league",
		Status:        match.StatusScheduled,
		KickoffAt:     time.Now().Add(2 * time.Hour),
	}); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	cached, err := repo.ListByCompetition(ctx, "premier-league")
	if err != nil || len(cached) != 1 {
		t.Fatalf("cached list: %v %v", cached, err)
	}

	// Writing through the decorator invalidates.
	seed.Venue = "Emirates"
	if err := repo.Upsert(ctx, seed); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	fresh, err := repo.ListByCompetition(ctx, "premier-league")
	if err != nil || len(fresh) != 2 {
		t.Fatalf("fresh list: %v %v", fresh, err)
	}
}

func TestLeagueRepositoryInvalidatesOnJoin(t *testing.T) {
	ctx := context.Background()
	next := memory.NewLeagueRepository()
	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))

	now := time.Now().UTC()
	seed := league.League{
		ID:            "l1",
		Name:          "Office Quiniela",
		CompetitionID: "premier-league",
		Visibility:    league.VisibilityPrivate,
		InviteCode:    "ABC123",
		AdminUserID:   "u1",
		Settings:      league.DefaultSettings(),
		IsActive:      true,
		Participants: []league.Participant{
			{UserID: "u1", TeamName: "Admins", JoinedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, seed); err != nil {
		t.Fatalf("create: %v", err)
	}

	item, exists, err := repo.GetByID(ctx, "l1")
	if err != nil || !exists || len(item.Participants) != 1 {
		t.Fatalf("get: %+v %v %v", item, exists, err)
	}

	if err := repo.AddParticipant(ctx, "l1", league.Participant{
		UserID:   "u2",
		TeamName: "Joiners",
		JoinedAt: now,
	}); err != nil {
		t.Fatalf("add participant: %v", err)
	}

	item, exists, err = repo.GetByID(ctx, "l1")
	if err != nil || !exists || len(item.Participants) != 2 {
		t.Fatalf("get after join: %+v %v %v", item, exists, err)
	}

	byCode, exists, err := repo.GetByInviteCode(ctx, "ABC123")
	if err != nil || !exists || len(byCode.Participants) != 2 {
		t.Fatalf("get by code after join: %+v %v %v", byCode, exists, err)
	}
}

func TestLeagueRepositoryCodeExistsBypassesCache(t *testing.T) {
	ctx := context.Background()
	next := memory.NewLeagueRepository()
	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))

	exists, err := repo.CodeExists(ctx, "ZZZ999")
	if err != nil || exists {
		t.Fatalf("CodeExists = %v %v", exists, err)
	}

	now := time.Now().UTC()
	if err := next.Create(ctx, league.League{
		ID:          "l1",
		Name:        "Late",
		InviteCode:  "ZZZ999",
		AdminUserID: "u1",
		Settings:    league.DefaultSettings(),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	exists, err = repo.CodeExists(ctx, "ZZZ999")
	if err != nil || !exists {
		t.Fatalf("CodeExists after create = %v %v", exists, err)
	}
}
