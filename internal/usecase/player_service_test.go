package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/audit"
	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
	"github.com/riskibarqy/last-man-standing/internal/domain/survival"
	"github.com/stretchr/testify/require"
)

func pickList() fixture.List {
	kicked := testNow.Add(-time.Hour)
	return fixture.List{
		Key: edition.NewKey(edition.Default, 6),
		Fixtures: []fixture.Fixture{
			upcoming("gw6-01", "Woking", "York City"),
			{ID: "gw6-02", HomeTeam: "Barnet", AwayTeam: "Altrincham", Status: fixture.StatusFirstHalf, KickoffAt: &kicked},
			{ID: "gw6-03", HomeTeam: "Dagenham", AwayTeam: "Wealdstone", Status: fixture.StatusNotStarted, KickoffAt: &kicked},
		},
	}
}

func TestPlayerService_Register(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, survival.DefaultRules(), nil)

	created, err := env.playerSvc.Register(ctx, RegisterPlayerInput{Name: "  Alex  "})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Alex", created.Name)
	require.Equal(t, player.MaxLives, created.Lives)
	require.Equal(t, player.StatusActive, created.Status)
	require.Equal(t, []edition.ID{edition.Default}, created.Registrations)

	_, err = env.playerSvc.Register(ctx, RegisterPlayerInput{Name: ""})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.playerSvc.Register(ctx, RegisterPlayerInput{Name: "Sam", Editions: []edition.ID{"9"}})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPlayerService_Register_WindowClosed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, survival.DefaultRules(), nil)
	closed := testNow.Add(-time.Hour)
	require.NoError(t, env.editions.Upsert(ctx, edition.Edition{
		ID:                   "2",
		Name:                 "Edition 2",
		Active:               true,
		RegistrationClosesAt: &closed,
	}))
	require.NoError(t, env.editions.Upsert(ctx, edition.Edition{ID: edition.Test, Name: "Test", RegistrationClosesAt: &closed}))

	_, err := env.playerSvc.Register(ctx, RegisterPlayerInput{Name: "Alex", Editions: []edition.ID{"2"}})
	require.ErrorIs(t, err, ErrConflict)

	created, err := env.playerSvc.Register(ctx, RegisterPlayerInput{Name: "Alex", Editions: []edition.ID{edition.Test}})
	require.NoError(t, err, "test edition ignores the registration window")
	require.Equal(t, edition.Test, created.ResolveEdition())
}

func TestPlayerService_RegisterEditionAndDefault(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, survival.DefaultRules(), []player.Player{newPlayer("p1", "Alex", edition.Default)})

	_, err := env.playerSvc.SetDefaultEdition(ctx, "p1", edition.Test)
	require.ErrorIs(t, err, ErrInvalidInput)

	updated, err := env.playerSvc.RegisterEdition(ctx, "p1", edition.Test)
	require.NoError(t, err)
	require.True(t, updated.RegisteredFor(edition.Test))
	require.Equal(t, edition.Default, updated.ResolveEdition())

	updated, err = env.playerSvc.SetDefaultEdition(ctx, "p1", edition.Test)
	require.NoError(t, err)
	require.Equal(t, edition.Test, updated.ResolveEdition())
}

func TestPlayerService_SubmitPick(t *testing.T) {
	ctx := context.Background()
	eliminated := newPlayer("p-out", "Out", edition.Default)
	eliminated.Lives = 0
	eliminated.Status = player.StatusEliminated

	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		withPicks(newPlayer("p1", "Alex", edition.Default), map[string]string{"edition1_gw6": "Woking"}),
		newPlayer("p2", "Blair", "2"),
		withPicks(newPlayer("p3", "Casey", edition.Default), map[string]string{"edition1_gw6": "Barnet"}),
		eliminated,
	}, pickList())

	key, err := env.playerSvc.SubmitPick(ctx, SubmitPickInput{PlayerID: "p1", Edition: edition.Default, Gameweek: 6, Team: "york city"})
	require.NoError(t, err)
	require.Equal(t, "edition1_gw6", key.String())
	pick, ok := env.player(t, "p1").PickFor(key)
	require.True(t, ok)
	require.Equal(t, "York City", pick, "pick is stored with the fixture's team name and overwrites the earlier one")

	tests := []struct {
		name  string
		input SubmitPickInput
		want  error
	}{
		{name: "team not playing", input: SubmitPickInput{PlayerID: "p1", Edition: edition.Default, Gameweek: 6, Team: "Wrexham"}, want: ErrInvalidInput},
		{name: "fixture live", input: SubmitPickInput{PlayerID: "p1", Edition: edition.Default, Gameweek: 6, Team: "Barnet"}, want: ErrConflict},
		{name: "kickoff passed", input: SubmitPickInput{PlayerID: "p1", Edition: edition.Default, Gameweek: 6, Team: "Dagenham"}, want: ErrConflict},
		{name: "current pick live", input: SubmitPickInput{PlayerID: "p3", Edition: edition.Default, Gameweek: 6, Team: "Woking"}, want: ErrConflict},
		{name: "not registered", input: SubmitPickInput{PlayerID: "p2", Edition: edition.Default, Gameweek: 6, Team: "Woking"}, want: ErrInvalidInput},
		{name: "eliminated player", input: SubmitPickInput{PlayerID: "p-out", Edition: edition.Default, Gameweek: 6, Team: "Woking"}, want: ErrConflict},
		{name: "no fixtures", input: SubmitPickInput{PlayerID: "p1", Edition: edition.Default, Gameweek: 7, Team: "Woking"}, want: ErrNotFound},
		{name: "unknown player", input: SubmitPickInput{PlayerID: "nobody", Edition: edition.Default, Gameweek: 6, Team: "Woking"}, want: ErrNotFound},
		{name: "bad gameweek", input: SubmitPickInput{PlayerID: "p1", Edition: edition.Default, Gameweek: 0, Team: "Woking"}, want: ErrInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.playerSvc.SubmitPick(ctx, tc.input)
			require.ErrorIs(t, err, tc.want)
		})
	}

	locked, ok := env.player(t, "p3").PickFor(key)
	require.True(t, ok)
	require.Equal(t, "Barnet", locked)
}

func TestPlayerService_PickHistory(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		withPicks(newPlayer("p1", "Alex", edition.Default), map[string]string{
			"edition1_gw5": "Woking",
			"gw6":          "York City",
			"edition1_gw7": "Wrexham",
		}),
	}, gw5List(), pickList())

	history, err := env.playerSvc.PickHistory(ctx, "p1", edition.Default)
	require.NoError(t, err)
	require.Len(t, history, 3)

	require.Equal(t, "Woking", history[0].Pick)
	require.Equal(t, "York City", history[0].Opponent)
	require.Equal(t, survival.OutcomeWin, history[0].Outcome)
	require.Equal(t, 2, *history[0].HomeScore)

	require.Equal(t, "York City", history[1].Pick)
	require.Equal(t, "Woking", history[1].Opponent)
	require.Equal(t, survival.OutcomePending, history[1].Outcome)

	require.Equal(t, edition.Gameweek(7), history[2].Key.Gameweek)
	require.Equal(t, survival.OutcomePending, history[2].Outcome)
}

func TestPlayerService_AdjustLivesAndArchive(t *testing.T) {
	ctx := context.Background()
	out := newPlayer("p1", "Alex", edition.Default)
	out.Lives = 0
	out.Status = player.StatusEliminated
	env := newTestEnv(t, survival.DefaultRules(), []player.Player{out})

	_, err := env.playerSvc.AdjustLives(ctx, AdjustLivesInput{PlayerID: "p1", Lives: 3})
	require.ErrorIs(t, err, ErrInvalidInput)

	restored, err := env.playerSvc.AdjustLives(ctx, AdjustLivesInput{PlayerID: "p1", Lives: 2, Reason: "appeal upheld"})
	require.NoError(t, err)
	require.Equal(t, 2, restored.Lives)
	require.Equal(t, player.StatusActive, restored.Status)

	archived, err := env.playerSvc.Archive(ctx, "p1", "left the league")
	require.NoError(t, err)
	require.Equal(t, player.StatusArchived, archived.Status)

	unarchived, err := env.playerSvc.Unarchive(ctx, "p1", "")
	require.NoError(t, err)
	require.Equal(t, player.StatusActive, unarchived.Status)

	trail, err := env.playerSvc.AuditTrail(ctx, "p1", 0)
	require.NoError(t, err)
	require.Len(t, trail, 3)
	require.Equal(t, audit.ActionUnarchive, trail[0].Action)
	require.Equal(t, audit.ActionAdminAdjust, trail[2].Action)
	require.Equal(t, 0, trail[2].OldLives)
	require.Equal(t, 2, trail[2].NewLives)
	require.Equal(t, "appeal upheld", trail[2].Reason)
}

func TestPlayerService_Delete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, survival.DefaultRules(), []player.Player{newPlayer("p1", "Alex", edition.Default)})

	require.NoError(t, env.playerSvc.Delete(ctx, "p1", "duplicate entry"))
	_, err := env.playerSvc.Get(ctx, "p1")
	require.True(t, errors.Is(err, ErrNotFound))

	err = env.playerSvc.Delete(ctx, "p1", "")
	require.ErrorIs(t, err, ErrNotFound)

	entries := env.audits.All()
	require.Len(t, entries, 1)
	require.Equal(t, audit.ActionDelete, entries[0].Action)
}
