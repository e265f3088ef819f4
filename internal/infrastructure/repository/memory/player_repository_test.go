package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
)

func TestPlayerRepository_ListByEdition(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	legacy := player.New("p0", "Legacy", nil, now)
	repo := NewPlayerRepository([]player.Player{
		player.New("p2", "Sam", []edition.ID{"2"}, now),
		player.New("p1", "Alex", []edition.ID{edition.Default, "2"}, now),
		legacy,
	})

	got, err := repo.ListByEdition(ctx, edition.Default)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "p0" || got[1].ID != "p1" {
		t.Fatalf("unexpected players: %+v", got)
	}
}

func TestPlayerRepository_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewPlayerRepository(nil)
	p := player.New("p1", "Alex", nil, time.Now())
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, p); !errors.Is(err, player.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestPlayerRepository_UpdateLivesDerivesStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewPlayerRepository([]player.Player{player.New("p1", "Alex", nil, time.Now())})

	if err := repo.UpdateLives(ctx, "p1", -3); err != nil {
		t.Fatalf("update lives: %v", err)
	}
	p, _, _ := repo.GetByID(ctx, "p1")
	if p.Lives != 0 || p.Status != player.StatusEliminated {
		t.Fatalf("unexpected player: %+v", p)
	}

	if err := repo.UpdateLives(ctx, "p1", 1); err != nil {
		t.Fatalf("update lives: %v", err)
	}
	p, _, _ = repo.GetByID(ctx, "p1")
	if p.Status != player.StatusActive {
		t.Fatalf("expected active after restore, got %s", p.Status)
	}
}

func TestPlayerRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewPlayerRepository([]player.Player{player.New("p1", "Alex", nil, time.Now())})

	p, _, _ := repo.GetByID(ctx, "p1")
	p.Picks["edition1_gw1"] = "Woking"

	again, _, _ := repo.GetByID(ctx, "p1")
	if len(again.Picks) != 0 {
		t.Fatalf("stored picks were mutated through a copy: %+v", again.Picks)
	}
}
