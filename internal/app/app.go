package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/last-man-standing/internal/config"
	"github.com/riskibarqy/last-man-standing/internal/domain/survival"
	"github.com/riskibarqy/last-man-standing/internal/interfaces/httpapi"
	"github.com/riskibarqy/last-man-standing/internal/platform/cache"
	idgen "github.com/riskibarqy/last-man-standing/internal/platform/id"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
	"github.com/riskibarqy/last-man-standing/internal/platform/resilience"
	"github.com/riskibarqy/last-man-standing/internal/usecase"
)

// Server is the HTTP server together with the storage and background
// scheduler it owns.
type Server struct {
	*http.Server
	repos     repositories
	scheduler *settlementScheduler
	logger    *logging.Logger
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, err := newRepositories(cfg)
	if err != nil {
		return nil, err
	}

	rules := survival.Rules{DrawCostsLife: cfg.DrawCostsLife}
	var standingsCache *cache.Store
	if cfg.CacheEnabled {
		standingsCache = cache.NewStore(cfg.CacheTTL)
	}

	auditBreaker := resilience.NewOptionalCircuitBreaker(resilience.CircuitBreakerConfig{
		Enabled:          cfg.AuditCircuitEnabled,
		FailureThreshold: cfg.AuditCircuitFailureCount,
		OpenTimeout:      cfg.AuditCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.AuditCircuitHalfOpenMaxReq,
	})
	auditSink := usecase.NewAuditSink(repos.audits, idgen.NewUUIDGenerator(), auditBreaker, logger)

	resultSvc := usecase.NewResultService(
		repos.fixtures,
		repos.players,
		repos.ledgers,
		auditSink,
		standingsCache,
		usecase.ResultServiceConfig{Rules: rules, MaxAttempts: cfg.SettleWriteRetries},
		logger,
	)
	standingsSvc := usecase.NewStandingsService(repos.players, repos.fixtures, repos.ledgers, rules, standingsCache, logger)
	fixtureSvc := usecase.NewFixtureService(repos.fixtures, repos.ledgers, resultSvc, standingsCache)
	playerSvc := usecase.NewPlayerService(
		repos.players,
		repos.editions,
		repos.fixtures,
		auditSink,
		idgen.NewNanoGenerator("plr"),
		rules,
		standingsCache,
	)
	settlementSvc := usecase.NewSettlementJobService(repos.editions, repos.fixtures, repos.ledgers, resultSvc, cfg.SettleMaxWorkers, logger)

	var scheduler *settlementScheduler
	if cfg.SettleScheduleEnabled {
		scheduler, err = newSettlementScheduler(settlementSvc, cfg.SettleScheduleInterval, logger)
		if err != nil {
			_ = repos.Close()
			return nil, err
		}
	}

	handler := httpapi.NewHandler(resultSvc, standingsSvc, fixtureSvc, playerSvc, settlementSvc, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminToken:         cfg.AdminToken,
		InternalJobToken:   cfg.InternalJobToken,
		DocsEnabled:        cfg.SwaggerEnabled,
	})

	return &Server{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		repos:     repos,
		scheduler: scheduler,
		logger:    logger,
	}, nil
}

// StartBackground starts the settlement scheduler when it is enabled.
func (s *Server) StartBackground() {
	if s.scheduler == nil {
		return
	}
	s.scheduler.Start()
	s.logger.Info("settlement scheduler started")
}

// Shutdown stops accepting requests, then stops the scheduler and closes
// storage.
func (s *Server) Shutdown(ctx context.Context) error {
	httpErr := s.Server.Shutdown(ctx)
	schedErr := s.scheduler.Shutdown()
	dbErr := s.repos.Close()
	return errors.Join(httpErr, schedErr, dbErr)
}
