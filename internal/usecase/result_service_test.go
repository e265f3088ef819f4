package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/riskibarqy/last-man-standing/internal/domain/audit"
	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
	"github.com/riskibarqy/last-man-standing/internal/domain/survival"
	"github.com/stretchr/testify/require"
)

var gw5 = edition.NewKey(edition.Default, 5)

func gw5List() fixture.List {
	return fixture.List{
		Key: gw5,
		Fixtures: []fixture.Fixture{
			finished("gw5-01", "Altrincham", "Barnet", 0, 3),
			finished("gw5-02", "Braintree Town", "Boston United", 2, 0),
			finished("gw5-03", "Woking", "York City", 2, 1),
		},
	}
}

func TestResultService_ProcessResults_Scenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		withPicks(newPlayer("p-alt", "Alex", edition.Default), map[string]string{"edition1_gw5": "Altrincham"}),
		withPicks(newPlayer("p-bra", "Blair", edition.Default), map[string]string{"edition1_gw5": "Braintree Town"}),
		newPlayer("p-none", "Casey", edition.Default),
	}, gw5List())

	report, err := env.results.ProcessResults(ctx, edition.Default, 5)
	require.NoError(t, err)
	require.Equal(t, ProcessStatusProcessed, report.Status)
	require.Equal(t, 3, report.FixturesEligible)
	require.Equal(t, 3, report.FixturesSettled)
	require.Equal(t, 3, report.PlayersScanned)
	require.Equal(t, 1, report.Succeeded)
	require.Empty(t, report.Failed)
	require.Equal(t, "processed 1/1 players successfully", report.Message)

	require.Equal(t, 1, env.player(t, "p-alt").Lives)
	require.Equal(t, player.StatusActive, env.player(t, "p-alt").Status)
	require.Equal(t, 2, env.player(t, "p-bra").Lives)
	require.Equal(t, 2, env.player(t, "p-none").Lives)

	again, err := env.results.ProcessResults(ctx, edition.Default, 5)
	require.NoError(t, err)
	require.Equal(t, ProcessStatusAlreadyProcessed, again.Status)
	require.Empty(t, again.Changes)
	require.Equal(t, 1, env.player(t, "p-alt").Lives)

	entries := env.audits.All()
	require.Len(t, entries, 1)
	require.Equal(t, audit.ActionResultProcessed, entries[0].Action)
	require.Equal(t, "p-alt", entries[0].PlayerID)
	require.Equal(t, 2, entries[0].OldLives)
	require.Equal(t, 1, entries[0].NewLives)
	require.Equal(t, "Altrincham", entries[0].Pick)
}

func TestResultService_ProcessResults_OutcomeCorrectness(t *testing.T) {
	tests := []struct {
		name      string
		pick      string
		wantLives int
	}{
		{name: "home winner survives", pick: "Woking", wantLives: 2},
		{name: "away loser loses a life", pick: "York City", wantLives: 1},
		{name: "pick matched case-insensitively", pick: "york city", wantLives: 1},
		{name: "team not in any fixture", pick: "Dagenham", wantLives: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, survival.DefaultRules(), []player.Player{
				withPicks(newPlayer("p1", "Alex", edition.Default), map[string]string{"edition1_gw5": tc.pick}),
			}, gw5List())

			_, err := env.results.ProcessResults(context.Background(), edition.Default, 5)
			require.NoError(t, err)
			require.Equal(t, tc.wantLives, env.player(t, "p1").Lives)
		})
	}
}

func TestResultService_ProcessResults_DrawRule(t *testing.T) {
	drawList := fixture.List{
		Key:      gw5,
		Fixtures: []fixture.Fixture{finished("gw5-01", "Woking", "York City", 1, 1)},
	}

	for _, tc := range []struct {
		name      string
		rules     survival.Rules
		wantLives int
	}{
		{name: "draw costs a life", rules: survival.Rules{DrawCostsLife: true}, wantLives: 1},
		{name: "draw survives", rules: survival.Rules{DrawCostsLife: false}, wantLives: 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t, tc.rules, []player.Player{
				withPicks(newPlayer("p1", "Alex", edition.Default), map[string]string{"edition1_gw5": "Woking"}),
			}, drawList)

			projected, err := env.standings.ProjectStandings(ctx, edition.Default, 5, "")
			require.NoError(t, err)
			require.Len(t, projected.Rows, 1)

			_, err = env.results.ProcessResults(ctx, edition.Default, 5)
			require.NoError(t, err)
			require.Equal(t, tc.wantLives, env.player(t, "p1").Lives)

			after, err := env.standings.ProjectStandings(ctx, edition.Default, 5, "")
			require.NoError(t, err)
			require.Equal(t, projected.Rows[0].Lives, after.Rows[0].Lives, "projection before processing must match committed lives")
			require.Equal(t, tc.wantLives, after.Rows[0].Lives)
			require.False(t, after.Rows[0].Provisional)
		})
	}
}

func TestResultService_ProcessResults_PickPrecedence(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		// qualified key wins over the legacy one
		withPicks(newPlayer("p-both", "Alex", edition.Default), map[string]string{
			"edition1_gw5": "Altrincham",
			"gw5":          "Braintree Town",
		}),
		withPicks(newPlayer("p-legacy", "Blair", edition.Default), map[string]string{"gw5": "Altrincham"}),
		withPicks(newPlayer("p-blank", "Casey", edition.Default), map[string]string{
			"edition1_gw5": "  ",
			"gw5":          "Altrincham",
		}),
	}, gw5List())

	_, err := env.results.ProcessResults(ctx, edition.Default, 5)
	require.NoError(t, err)
	require.Equal(t, 1, env.player(t, "p-both").Lives)
	require.Equal(t, 1, env.player(t, "p-legacy").Lives)
	require.Equal(t, 1, env.player(t, "p-blank").Lives)
}

func TestResultService_ProcessResults_FloorAndConservation(t *testing.T) {
	ctx := context.Background()
	eliminated := withPicks(newPlayer("p-out", "Alex", edition.Default), map[string]string{"edition1_gw5": "Altrincham"})
	eliminated.Lives = 0
	eliminated.Status = player.StatusEliminated
	lastLife := withPicks(newPlayer("p-last", "Blair", edition.Default), map[string]string{"edition1_gw5": "Altrincham"})
	lastLife.Lives = 1

	// Altrincham appears twice so a single pick can owe two lives.
	list := gw5List()
	list.Fixtures = append(list.Fixtures, finished("gw5-04", "Altrincham", "Dagenham", 0, 1))

	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		eliminated,
		lastLife,
		withPicks(newPlayer("p-win", "Casey", edition.Default), map[string]string{"edition1_gw5": "Barnet"}),
	}, list)

	before := map[string]int{"p-out": 0, "p-last": 1, "p-win": 2}
	_, err := env.results.ProcessResults(ctx, edition.Default, 5)
	require.NoError(t, err)

	for id, lives := range before {
		p := env.player(t, id)
		require.GreaterOrEqual(t, p.Lives, 0, id)
		require.LessOrEqual(t, p.Lives, lives, id)
	}
	require.Equal(t, 0, env.player(t, "p-last").Lives)
	require.Equal(t, player.StatusEliminated, env.player(t, "p-last").Status)
	require.Equal(t, 0, env.player(t, "p-out").Lives)
	require.Equal(t, 2, env.player(t, "p-win").Lives)
}

func TestResultService_ProcessResults_EditionIsolation(t *testing.T) {
	ctx := context.Background()
	other := edition.ID("2")
	multi := withPicks(newPlayer("p-multi", "Alex", edition.Default, other), map[string]string{"edition1_gw5": "Altrincham"})
	multi.DefaultEdition = other

	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		withPicks(newPlayer("p-two", "Blair", other), map[string]string{"edition2_gw5": "Altrincham", "gw5": "Altrincham"}),
		multi,
		withPicks(newPlayer("p-one", "Casey", edition.Default), map[string]string{"edition1_gw5": "Altrincham"}),
	}, gw5List())

	report, err := env.results.ProcessResults(ctx, edition.Default, 5)
	require.NoError(t, err)
	require.Equal(t, 1, report.PlayersScanned)
	require.Equal(t, 1, env.player(t, "p-one").Lives)
	require.Equal(t, 2, env.player(t, "p-two").Lives)
	require.Equal(t, 2, env.player(t, "p-multi").Lives)
}

func TestResultService_ProcessResults_SkipsArchivedPlayers(t *testing.T) {
	ctx := context.Background()
	archived := withPicks(newPlayer("p1", "Alex", edition.Default), map[string]string{"edition1_gw5": "Altrincham"})
	archived.Status = player.StatusArchived
	env := newTestEnv(t, survival.DefaultRules(), []player.Player{archived}, gw5List())

	report, err := env.results.ProcessResults(ctx, edition.Default, 5)
	require.NoError(t, err)
	require.Equal(t, 0, report.PlayersScanned)
	require.Equal(t, 2, env.player(t, "p1").Lives)
}

func TestResultService_ProcessResults_PartialFailureAndRetry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		withPicks(newPlayer("p1", "Alex", edition.Default), map[string]string{"edition1_gw5": "Altrincham"}),
		withPicks(newPlayer("p2", "Blair", edition.Default), map[string]string{"edition1_gw5": "York City"}),
	}, gw5List())
	env.lives.failWrites("p2", 2)

	report, err := env.results.ProcessResults(ctx, edition.Default, 5)
	require.NoError(t, err)
	require.Equal(t, ProcessStatusProcessed, report.Status)
	require.Equal(t, 1, report.Succeeded)
	require.Len(t, report.Failed, 1)
	require.Equal(t, "p2", report.Failed[0].PlayerID)
	require.Equal(t, 2, report.Failed[0].Attempts)
	require.Equal(t, "processed 1/2 players successfully", report.Message)
	require.Equal(t, 1, env.player(t, "p1").Lives)
	require.Equal(t, 2, env.player(t, "p2").Lives)

	retry, err := env.results.ProcessResults(ctx, edition.Default, 5)
	require.NoError(t, err)
	require.Equal(t, ProcessStatusProcessed, retry.Status)
	require.Equal(t, 1, retry.Retried)
	require.Equal(t, 1, retry.Succeeded)
	require.Empty(t, retry.Failed)
	require.Equal(t, 1, env.player(t, "p1").Lives)
	require.Equal(t, 1, env.player(t, "p2").Lives)

	final, err := env.results.ProcessResults(ctx, edition.Default, 5)
	require.NoError(t, err)
	require.Equal(t, ProcessStatusAlreadyProcessed, final.Status)
}

func TestResultService_ProcessResults_LaterFixturesSettleLater(t *testing.T) {
	ctx := context.Background()
	list := fixture.List{
		Key: gw5,
		Fixtures: []fixture.Fixture{
			finished("gw5-01", "Altrincham", "Barnet", 0, 3),
			upcoming("gw5-02", "Woking", "York City"),
		},
	}
	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		withPicks(newPlayer("p1", "Alex", edition.Default), map[string]string{"edition1_gw5": "York City"}),
	}, list)

	first, err := env.results.ProcessResults(ctx, edition.Default, 5)
	require.NoError(t, err)
	require.Equal(t, 1, first.FixturesSettled)
	require.Equal(t, 2, env.player(t, "p1").Lives)

	list.Fixtures[1] = finished("gw5-02", "Woking", "York City", 2, 1)
	require.NoError(t, env.fixtures.SaveList(ctx, list))

	second, err := env.results.ProcessResults(ctx, edition.Default, 5)
	require.NoError(t, err)
	require.Equal(t, ProcessStatusProcessed, second.Status)
	require.Equal(t, 1, second.FixturesSettled)
	require.Equal(t, 1, second.FixturesSkipped)
	require.Equal(t, 1, env.player(t, "p1").Lives)
}

func TestResultService_ProcessResults_LegacyFixtureList(t *testing.T) {
	ctx := context.Background()
	legacy := gw5List()
	legacy.Key = gw5.Legacy()
	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		withPicks(newPlayer("p1", "Alex", edition.Default), map[string]string{"gw5": "Altrincham"}),
	}, legacy)

	report, err := env.results.ProcessResults(ctx, edition.Default, 5)
	require.NoError(t, err)
	require.Equal(t, ProcessStatusProcessed, report.Status)
	require.Equal(t, 1, env.player(t, "p1").Lives)
}

func TestResultService_ProcessResults_NotFoundAndInvalid(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, survival.DefaultRules(), nil, fixture.List{
		Key: edition.NewKey(edition.Default, 6),
		Fixtures: []fixture.Fixture{
			finished("bad", "Woking", "Woking", 1, 0),
			finished("ok", "Barnet", "Boston United", 1, 0),
		},
	})

	report, err := env.results.ProcessResults(ctx, edition.Default, 5)
	require.NoError(t, err)
	require.Equal(t, ProcessStatusNotFound, report.Status)

	report, err = env.results.ProcessResults(ctx, edition.Default, 6)
	require.NoError(t, err)
	require.Equal(t, 1, report.FixturesInvalid)
	require.Equal(t, 1, report.FixturesEligible)

	_, err = env.results.ProcessResults(ctx, edition.Default, 12)
	require.True(t, errors.Is(err, ErrInvalidInput))
	_, err = env.results.ProcessResults(ctx, "", 5)
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestResultService_ProcessResults_AuditFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		withPicks(newPlayer("p1", "Alex", edition.Default), map[string]string{"edition1_gw5": "Altrincham"}),
	}, gw5List())
	env.audits.FailAppends(errors.New("audit store down"))

	report, err := env.results.ProcessResults(ctx, edition.Default, 5)
	require.NoError(t, err)
	require.Equal(t, 1, report.Succeeded)
	require.Equal(t, 1, env.player(t, "p1").Lives)
	require.Empty(t, env.audits.All())
}

func TestResultService_ProcessResults_ConcurrentCallsChargeOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		withPicks(newPlayer("p1", "Alex", edition.Default), map[string]string{"edition1_gw5": "Altrincham"}),
	}, gw5List())

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.results.ProcessResults(ctx, edition.Default, 5)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, 1, env.player(t, "p1").Lives)
}
