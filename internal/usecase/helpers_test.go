package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
	"github.com/riskibarqy/last-man-standing/internal/domain/survival"
	"github.com/riskibarqy/last-man-standing/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/last-man-standing/internal/platform/cache"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
)

var testNow = time.Date(2026, 10, 3, 18, 0, 0, 0, time.UTC)

type testEnv struct {
	editions   *memory.EditionRepository
	fixtures   *memory.FixtureRepository
	players    *memory.PlayerRepository
	lives      *flakyLives
	ledgers    *memory.SettlementRepository
	audits     *memory.AuditRepository
	cache      *cache.Store
	results    *ResultService
	standings  *StandingsService
	playerSvc  *PlayerService
	fixtureSvc *FixtureService
}

func newTestEnv(t *testing.T, rules survival.Rules, players []player.Player, lists ...fixture.List) *testEnv {
	t.Helper()

	env := &testEnv{
		editions: memory.NewEditionRepository(memory.SeedEditions()),
		fixtures: memory.NewFixtureRepository(lists),
		players:  memory.NewPlayerRepository(players),
		audits:   memory.NewAuditRepository(),
		cache:    cache.NewStore(time.Minute),
	}
	env.lives = &flakyLives{PlayerRepository: env.players, failures: map[string]int{}}
	env.ledgers = memory.NewSettlementRepository(env.lives)

	logger := logging.NewNop()
	sink := NewAuditSink(env.audits, nil, nil, logger)
	env.results = NewResultService(env.fixtures, env.players, env.ledgers, sink, env.cache, ResultServiceConfig{Rules: rules, MaxAttempts: 2}, logger)
	env.results.now = func() time.Time { return testNow }
	env.standings = NewStandingsService(env.players, env.fixtures, env.ledgers, rules, env.cache, logger)
	env.standings.now = func() time.Time { return testNow }
	env.playerSvc = NewPlayerService(env.players, env.editions, env.fixtures, sink, nil, rules, env.cache)
	env.playerSvc.now = func() time.Time { return testNow }
	env.fixtureSvc = NewFixtureService(env.fixtures, env.ledgers, env.results, env.cache)
	env.fixtureSvc.now = func() time.Time { return testNow }
	return env
}

var errLivesWrite = errors.New("lives write failed")

// flakyLives fails the next lives writes of chosen players before handing
// the rest to the wrapped repository.
type flakyLives struct {
	*memory.PlayerRepository

	mu       sync.Mutex
	failures map[string]int
}

func (f *flakyLives) failWrites(playerID string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[playerID] = n
}

func (f *flakyLives) DeductLives(ctx context.Context, playerID string, lives int) (int, int, error) {
	f.mu.Lock()
	if f.failures[playerID] > 0 {
		f.failures[playerID]--
		f.mu.Unlock()
		return 0, 0, fmt.Errorf("%w: player %s", errLivesWrite, playerID)
	}
	f.mu.Unlock()
	return f.PlayerRepository.DeductLives(ctx, playerID, lives)
}

func (e *testEnv) player(t *testing.T, id string) player.Player {
	t.Helper()

	p, ok, err := e.players.GetByID(t.Context(), id)
	if err != nil || !ok {
		t.Fatalf("get player %s: ok=%v err=%v", id, ok, err)
	}
	return p
}

func score(v int) *int {
	return &v
}

func finished(id, home, away string, homeScore, awayScore int) fixture.Fixture {
	return fixture.Fixture{
		ID:        id,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: score(homeScore),
		AwayScore: score(awayScore),
		Status:    fixture.StatusFullTime,
		Completed: true,
	}
}

func upcoming(id, home, away string) fixture.Fixture {
	kickoff := testNow.Add(24 * time.Hour)
	return fixture.Fixture{
		ID:        id,
		HomeTeam:  home,
		AwayTeam:  away,
		Status:    fixture.StatusNotStarted,
		KickoffAt: &kickoff,
	}
}

func withPicks(p player.Player, picks map[string]string) player.Player {
	for k, v := range picks {
		p.Picks[k] = v
	}
	return p
}

func newPlayer(id, name string, editions ...edition.ID) player.Player {
	return player.New(id, name, editions, testNow.Add(-30*24*time.Hour))
}
