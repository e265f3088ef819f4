package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/last-man-standing/internal/config"
	"github.com/riskibarqy/last-man-standing/internal/domain/audit"
	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
	"github.com/riskibarqy/last-man-standing/internal/domain/settlement"
	cacherepo "github.com/riskibarqy/last-man-standing/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/last-man-standing/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/last-man-standing/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/last-man-standing/internal/platform/cache"
	"github.com/riskibarqy/last-man-standing/internal/platform/pgdsn"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const dbPingTimeout = 5 * time.Second

type repositories struct {
	editions edition.Repository
	fixtures fixture.Repository
	players  player.Repository
	ledgers  settlement.Repository
	audits   audit.Repository
	db       *sqlx.DB
}

func newRepositories(cfg config.Config) (repositories, error) {
	var repos repositories
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openPostgres(cfg)
		if err != nil {
			return repositories{}, err
		}
		repos = repositories{
			editions: postgres.NewEditionRepository(db),
			fixtures: postgres.NewFixtureRepository(db),
			players:  postgres.NewPlayerRepository(db),
			ledgers:  postgres.NewSettlementRepository(db),
			audits:   postgres.NewAuditRepository(db),
			db:       db,
		}
	default:
		players := memory.NewPlayerRepository(memory.SeedPlayers())
		repos = repositories{
			editions: memory.NewEditionRepository(memory.SeedEditions()),
			fixtures: memory.NewFixtureRepository(memory.SeedFixtures()),
			players:  players,
			ledgers:  memory.NewSettlementRepository(players),
			audits:   memory.NewAuditRepository(),
		}
	}

	if cfg.CacheEnabled {
		readCache := cache.NewStore(cfg.CacheTTL)
		repos.editions = cacherepo.NewEditionRepository(repos.editions, readCache)
		repos.fixtures = cacherepo.NewFixtureRepository(repos.fixtures, readCache)
	}
	return repos, nil
}

func (r repositories) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func openPostgres(cfg config.Config) (*sqlx.DB, error) {
	dsn := pgdsn.Parse(cfg.DBURL)
	if cfg.DBDisablePreparedBinary {
		dsn = dsn.WithBinaryResultsDisabled()
	}
	db, err := otelsqlx.Open("postgres", dsn.String(),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dsn.DatabaseName()),
		otelsql.WithQueryFormatter(compactStatement),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres %s: %w", dsn.Redacted(), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres %s: %w", dsn.Redacted(), err)
	}
	return db, nil
}
