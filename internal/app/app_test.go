package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/config"
	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
	"github.com/riskibarqy/last-man-standing/internal/domain/survival"
	"github.com/riskibarqy/last-man-standing/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
	"github.com/riskibarqy/last-man-standing/internal/usecase"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:                 config.EnvDev,
		HTTPAddr:               ":0",
		StorageDriver:          config.StorageMemory,
		CacheEnabled:           true,
		CacheTTL:               time.Minute,
		ReadTimeout:            time.Second,
		WriteTimeout:           time.Second,
		AdminToken:             "admin",
		DrawCostsLife:          true,
		SettleWriteRetries:     2,
		SettleScheduleInterval: time.Minute,
		SettleMaxWorkers:       2,
	}
}

func TestNewHTTPServer_Memory(t *testing.T) {
	srv, err := NewHTTPServer(memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players/plr-alex", nil))
	require.Equal(t, http.StatusOK, rec.Code, "memory storage is seeded")
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""

	_, err := NewHTTPServer(cfg, nil)
	require.Error(t, err)
}

func TestNewHTTPServer_SchedulerIntervalValidated(t *testing.T) {
	cfg := memoryConfig()
	cfg.SettleScheduleEnabled = true
	cfg.SettleScheduleInterval = 0

	_, err := NewHTTPServer(cfg, nil)
	require.Error(t, err)
}

func TestSettlementScheduler_RunsJob(t *testing.T) {
	logger := logging.NewNop()
	rules := survival.DefaultRules()
	home, away := 0, 1

	picker := player.New("p1", "Alex", []edition.ID{edition.Default}, time.Now())
	picker.Picks[edition.NewKey(edition.Default, 3).String()] = "Woking"

	editions := memory.NewEditionRepository(memory.SeedEditions())
	fixtures := memory.NewFixtureRepository([]fixture.List{{
		Key: edition.NewKey(edition.Default, 3),
		Fixtures: []fixture.Fixture{{
			ID:        "gw3-01",
			HomeTeam:  "Woking",
			AwayTeam:  "York City",
			HomeScore: &home,
			AwayScore: &away,
			Status:    fixture.StatusFullTime,
			Completed: true,
		}},
	}})
	players := memory.NewPlayerRepository([]player.Player{picker})
	ledgers := memory.NewSettlementRepository(players)
	results := usecase.NewResultService(fixtures, players, ledgers, nil, nil, usecase.ResultServiceConfig{Rules: rules}, logger)
	job := usecase.NewSettlementJobService(editions, fixtures, ledgers, results, 1, logger)

	sched, err := newSettlementScheduler(job, time.Hour, logger)
	require.NoError(t, err)
	sched.Start()
	t.Cleanup(func() { _ = sched.Shutdown() })

	require.Eventually(t, func() bool {
		p, ok, err := players.GetByID(context.Background(), "p1")
		return err == nil && ok && p.Lives == 1
	}, 2*time.Second, 10*time.Millisecond)
}
