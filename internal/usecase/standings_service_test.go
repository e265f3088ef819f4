package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
	"github.com/riskibarqy/last-man-standing/internal/domain/settlement"
	"github.com/riskibarqy/last-man-standing/internal/domain/standing"
	"github.com/riskibarqy/last-man-standing/internal/domain/survival"
	"github.com/riskibarqy/last-man-standing/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/last-man-standing/internal/platform/cache"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
)

func TestStandingsService_ProjectStandings_RowsAndOrder(t *testing.T) {
	ctx := context.Background()
	eliminated := newPlayer("p-zed", "Zed", edition.Default)
	eliminated.Lives = 0
	eliminated.Status = player.StatusEliminated
	archived := newPlayer("p-arc", "Archie", edition.Default)
	archived.Status = player.StatusArchived

	list := gw5List()
	list.Fixtures = append(list.Fixtures, upcoming("gw5-04", "Dagenham", "Solihull Moors"))

	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		withPicks(newPlayer("p-bra", "blair", edition.Default), map[string]string{"edition1_gw5": "Braintree Town"}),
		withPicks(newPlayer("p-alt", "Alex", edition.Default), map[string]string{"edition1_gw5": "Altrincham"}),
		withPicks(newPlayer("p-dag", "Casey", edition.Default), map[string]string{"edition1_gw5": "Dagenham"}),
		withPicks(newPlayer("p-ghost", "Drew", edition.Default), map[string]string{"edition1_gw5": "Wrexham"}),
		newPlayer("p-none", "Ellis", edition.Default),
		eliminated,
		archived,
	}, list)

	snapshot, err := env.standings.ProjectStandings(ctx, edition.Default, 5, standing.ViewAll)
	if err != nil {
		t.Fatalf("project standings: %v", err)
	}

	wantOrder := []string{"p-bra", "p-dag", "p-ghost", "p-none", "p-alt", "p-zed"}
	if len(snapshot.Rows) != len(wantOrder) {
		t.Fatalf("unexpected row count: got=%d want=%d", len(snapshot.Rows), len(wantOrder))
	}
	for i, id := range wantOrder {
		if snapshot.Rows[i].PlayerID != id {
			t.Fatalf("row %d: got=%s want=%s", i, snapshot.Rows[i].PlayerID, id)
		}
	}

	byID := make(map[string]standing.Row, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		byID[row.PlayerID] = row
	}
	checks := map[string]standing.Result{
		"p-bra":   standing.ResultWin,
		"p-alt":   standing.ResultLoss,
		"p-dag":   standing.ResultPending,
		"p-ghost": standing.ResultFixtureNotFound,
		"p-none":  standing.ResultNoPick,
	}
	for id, want := range checks {
		if byID[id].Result != want {
			t.Fatalf("%s: result got=%s want=%s", id, byID[id].Result, want)
		}
	}

	alt := byID["p-alt"]
	if alt.Lives != 1 || !alt.Provisional {
		t.Fatalf("expected provisional loss to show 1 life, got %+v", alt)
	}
	if env.player(t, "p-alt").Lives != 2 {
		t.Fatalf("projection must not write lives")
	}

	if snapshot.Summary.Total != 6 || snapshot.Summary.Survivors != 5 || snapshot.Summary.Eliminated != 1 {
		t.Fatalf("unexpected summary: %+v", snapshot.Summary)
	}
}

func TestStandingsService_ProjectStandings_Views(t *testing.T) {
	ctx := context.Background()
	out := newPlayer("p-out", "Out", edition.Default)
	out.Lives = 0
	out.Status = player.StatusEliminated

	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		newPlayer("p-in", "In", edition.Default),
		out,
	}, gw5List())

	survivors, err := env.standings.ProjectStandings(ctx, edition.Default, 5, standing.ViewSurvivors)
	if err != nil {
		t.Fatalf("project survivors: %v", err)
	}
	if len(survivors.Rows) != 1 || survivors.Rows[0].PlayerID != "p-in" {
		t.Fatalf("unexpected survivors: %+v", survivors.Rows)
	}
	if survivors.Summary.Total != 2 {
		t.Fatalf("summary must cover every row, got %+v", survivors.Summary)
	}

	eliminated, err := env.standings.ProjectStandings(ctx, edition.Default, 5, standing.ViewEliminated)
	if err != nil {
		t.Fatalf("project eliminated: %v", err)
	}
	if len(eliminated.Rows) != 1 || eliminated.Rows[0].PlayerID != "p-out" {
		t.Fatalf("unexpected eliminated: %+v", eliminated.Rows)
	}

	if _, err := env.standings.ProjectStandings(ctx, edition.Default, 5, "losers"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown view, got %v", err)
	}
}

func TestStandingsService_ProjectStandings_EditionIsolation(t *testing.T) {
	ctx := context.Background()
	other := edition.ID("2")
	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		newPlayer("p1", "Alex", edition.Default),
		newPlayer("p2", "Blair", other),
	}, gw5List())

	snapshot, err := env.standings.ProjectStandings(ctx, other, 5, standing.ViewAll)
	if err != nil {
		t.Fatalf("project standings: %v", err)
	}
	if len(snapshot.Rows) != 1 || snapshot.Rows[0].PlayerID != "p2" {
		t.Fatalf("unexpected rows: %+v", snapshot.Rows)
	}
	if snapshot.Rows[0].Result != standing.ResultNoPick {
		t.Fatalf("expected no pick, got %s", snapshot.Rows[0].Result)
	}
}

func TestStandingsService_ProjectStandings_CountsOwedCharges(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		withPicks(newPlayer("p1", "Alex", edition.Default), map[string]string{"edition1_gw5": "Altrincham"}),
	}, gw5List())
	env.lives.failWrites("p1", 2)

	if _, err := env.results.ProcessResults(ctx, edition.Default, 5); err != nil {
		t.Fatalf("process results: %v", err)
	}

	snapshot, err := env.standings.ProjectStandings(ctx, edition.Default, 5, standing.ViewAll)
	if err != nil {
		t.Fatalf("project standings: %v", err)
	}
	row := snapshot.Rows[0]
	if row.Lives != 1 || !row.Provisional {
		t.Fatalf("owed charge should be projected, got %+v", row)
	}
}

func TestStandingsService_ProjectStandings_CacheInvalidatedBySave(t *testing.T) {
	ctx := context.Background()
	list := fixture.List{
		Key:      gw5,
		Fixtures: []fixture.Fixture{upcoming("gw5-01", "Altrincham", "Barnet")},
	}
	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		withPicks(newPlayer("p1", "Alex", edition.Default), map[string]string{"edition1_gw5": "Altrincham"}),
	}, list)

	first, err := env.standings.ProjectStandings(ctx, edition.Default, 5, standing.ViewAll)
	if err != nil {
		t.Fatalf("project standings: %v", err)
	}
	if first.Rows[0].Result != standing.ResultPending {
		t.Fatalf("expected pending, got %s", first.Rows[0].Result)
	}

	_, err = env.fixtureSvc.SaveList(ctx, SaveFixturesInput{
		Edition:  edition.Default,
		Gameweek: 5,
		Fixtures: []fixture.Fixture{finished("gw5-01", "Altrincham", "Barnet", 0, 3)},
	})
	if err != nil {
		t.Fatalf("save fixtures: %v", err)
	}

	second, err := env.standings.ProjectStandings(ctx, edition.Default, 5, standing.ViewAll)
	if err != nil {
		t.Fatalf("project standings: %v", err)
	}
	if second.Rows[0].Result != standing.ResultLoss || second.Rows[0].Lives != 1 {
		t.Fatalf("expected fresh projection after save, got %+v", second.Rows[0])
	}
}

func TestStandingsService_ProjectStandings_DrawMatchesSettlement(t *testing.T) {
	drawList := fixture.List{
		Key:      gw5,
		Fixtures: []fixture.Fixture{finished("gw5-01", "Woking", "York City", 1, 1)},
	}

	tests := []struct {
		name            string
		rules           survival.Rules
		wantResult      standing.Result
		wantLives       int
		wantProvisional bool
	}{
		{name: "draw costs a life", rules: survival.Rules{DrawCostsLife: true}, wantResult: standing.ResultDrawEliminating, wantLives: 1, wantProvisional: true},
		{name: "draw survives", rules: survival.Rules{DrawCostsLife: false}, wantResult: standing.ResultDraw, wantLives: 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t, tc.rules, []player.Player{
				withPicks(newPlayer("p1", "Alex", edition.Default), map[string]string{"edition1_gw5": "York City"}),
			}, drawList)

			before, err := env.standings.ProjectStandings(ctx, edition.Default, 5, standing.ViewAll)
			if err != nil {
				t.Fatalf("project standings: %v", err)
			}
			row := before.Rows[0]
			if row.Result != tc.wantResult || row.Lives != tc.wantLives || row.Provisional != tc.wantProvisional {
				t.Fatalf("unexpected projection: %+v", row)
			}

			if _, err := env.results.ProcessResults(ctx, edition.Default, 5); err != nil {
				t.Fatalf("process results: %v", err)
			}
			if got := env.player(t, "p1").Lives; got != row.Lives {
				t.Fatalf("stored lives %d differ from projected %d", got, row.Lives)
			}

			after, err := env.standings.ProjectStandings(ctx, edition.Default, 5, standing.ViewAll)
			if err != nil {
				t.Fatalf("project standings after settle: %v", err)
			}
			settled := after.Rows[0]
			if settled.Result != tc.wantResult || settled.Lives != tc.wantLives || settled.Provisional {
				t.Fatalf("unexpected settled row: %+v", settled)
			}
		})
	}
}

func TestStandingsService_ProjectStandings_SettleRefreshesOtherEditions(t *testing.T) {
	ctx := context.Background()
	other := edition.ID("2")
	env := newTestEnv(t, survival.DefaultRules(), []player.Player{
		withPicks(newPlayer("p1", "Alex", edition.Default, other), map[string]string{"edition1_gw5": "Altrincham"}),
	}, gw5List())

	cached, err := env.standings.ProjectStandings(ctx, other, 5, standing.ViewAll)
	if err != nil {
		t.Fatalf("project standings: %v", err)
	}
	if cached.Rows[0].Lives != 2 {
		t.Fatalf("expected 2 lives before settling, got %+v", cached.Rows[0])
	}

	if _, err := env.results.ProcessResults(ctx, edition.Default, 5); err != nil {
		t.Fatalf("process results: %v", err)
	}

	fresh, err := env.standings.ProjectStandings(ctx, other, 5, standing.ViewAll)
	if err != nil {
		t.Fatalf("project standings after settle: %v", err)
	}
	if fresh.Rows[0].Lives != 1 {
		t.Fatalf("expected the other edition to show the deducted life, got %+v", fresh.Rows[0])
	}
}

// churningLedgers reports a new ledger revision on its first churn reads.
type churningLedgers struct {
	*memory.SettlementRepository
	churn int
	gets  int
}

func (c *churningLedgers) Get(ctx context.Context, key edition.Key) (settlement.Ledger, bool, error) {
	c.gets++
	if c.gets <= c.churn {
		ledger := settlement.NewLedger(key)
		ledger.UpdatedAt = testNow.Add(time.Duration(c.gets) * time.Second)
		return ledger, true, nil
	}
	return c.SettlementRepository.Get(ctx, key)
}

func TestStandingsService_ProjectStandings_ReadsStableLedger(t *testing.T) {
	tests := []struct {
		name     string
		churn    int
		wantErr  error
		wantGets int
	}{
		{name: "settles down", churn: 2, wantGets: 4},
		{name: "keeps changing", churn: 100, wantErr: ErrConflict, wantGets: 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t, survival.DefaultRules(), []player.Player{
				newPlayer("p1", "Alex", edition.Default),
			}, gw5List())
			ledgers := &churningLedgers{SettlementRepository: env.ledgers, churn: tc.churn}
			svc := NewStandingsService(env.players, env.fixtures, ledgers, survival.DefaultRules(), cache.NewStore(time.Minute), logging.NewNop())

			_, err := svc.ProjectStandings(ctx, edition.Default, 5, standing.ViewAll)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("project standings: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if ledgers.gets != tc.wantGets {
				t.Fatalf("expected %d ledger reads, got %d", tc.wantGets, ledgers.gets)
			}
		})
	}
}
