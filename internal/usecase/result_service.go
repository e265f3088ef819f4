package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/audit"
	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
	"github.com/riskibarqy/last-man-standing/internal/domain/settlement"
	"github.com/riskibarqy/last-man-standing/internal/domain/survival"
	"github.com/riskibarqy/last-man-standing/internal/platform/cache"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
	"github.com/riskibarqy/last-man-standing/internal/platform/resilience"
)

const (
	ProcessStatusProcessed        = "processed"
	ProcessStatusAlreadyProcessed = "already_processed"
	ProcessStatusNotFound         = "not_found"
)

// ProcessReport summarises one ProcessResults call.
type ProcessReport struct {
	Key              edition.Key
	Status           string
	FixturesEligible int
	FixturesSettled  int
	FixturesSkipped  int
	FixturesInvalid  int
	PlayersScanned   int
	PlayersAffected  int
	Succeeded        int
	Retried          int
	Failed           []settlement.Failure
	Changes          []settlement.LifeChange
	Message          string
}

type ResultServiceConfig struct {
	Rules       survival.Rules
	MaxAttempts int
}

type ResultService struct {
	fixtureRepo fixture.Repository
	playerRepo  player.Repository
	ledgerRepo  settlement.Repository
	audit       *AuditSink
	cache       *cache.Store
	rules       survival.Rules
	maxAttempts int
	logger      *logging.Logger
	flight      resilience.Group[ProcessReport]
	now         func() time.Time
}

func NewResultService(
	fixtureRepo fixture.Repository,
	playerRepo player.Repository,
	ledgerRepo settlement.Repository,
	auditSink *AuditSink,
	standingsCache *cache.Store,
	cfg ResultServiceConfig,
	logger *logging.Logger,
) *ResultService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = settlement.DefaultMaxAttempts
	}

	return &ResultService{
		fixtureRepo: fixtureRepo,
		playerRepo:  playerRepo,
		ledgerRepo:  ledgerRepo,
		audit:       auditSink,
		cache:       standingsCache,
		rules:       cfg.Rules,
		maxAttempts: cfg.MaxAttempts,
		logger:      logger,
		now:         time.Now,
	}
}

// ProcessResults applies the completed fixtures of one gameweek to player
// lives. Fixtures are settled at most once, so repeated calls are safe. Errors
// are returned only when the fixture list, players or ledger cannot be read;
// per-player write failures are reported in the result.
func (s *ResultService) ProcessResults(ctx context.Context, editionID edition.ID, gameweek edition.Gameweek) (ProcessReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.ProcessResults", keyAttributes(editionID, gameweek)...)
	defer span.End()

	key, err := qualifiedKey(editionID, gameweek)
	if err != nil {
		return ProcessReport{}, err
	}

	report, err, _ := s.flight.Do(key.String(), func() (ProcessReport, error) {
		return s.process(ctx, key)
	})
	return report, err
}

func (s *ResultService) process(ctx context.Context, key edition.Key) (ProcessReport, error) {
	report := ProcessReport{Key: key}

	list, found, err := loadFixtureList(ctx, s.fixtureRepo, key)
	if err != nil {
		return ProcessReport{}, err
	}
	if !found {
		report.Status = ProcessStatusNotFound
		report.Message = fmt.Sprintf("no fixtures found for %s", key)
		return report, nil
	}

	eligible, invalid := list.Eligible()
	report.FixturesEligible = len(eligible)
	report.FixturesInvalid = len(invalid)
	for _, reason := range invalid {
		s.logger.WarnContext(ctx, "skip malformed fixture", "key", key.String(), "error", reason)
	}

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return ProcessReport{}, fmt.Errorf("list players: %w", err)
	}

	var charges []settlement.Charge
	for _, p := range players {
		if p.Archived() || p.ResolveEdition() != key.Edition {
			continue
		}
		report.PlayersScanned++

		pick, ok := p.PickFor(key)
		if !ok {
			continue
		}
		for _, verdict := range s.rules.EvaluateAll(eligible, pick) {
			if !verdict.Outcome.CostsLife() {
				continue
			}
			charges = append(charges, settlement.Charge{
				PlayerID:   p.ID,
				FixtureRef: verdict.Fixture.Ref(),
				Pick:       pick,
				Outcome:    string(verdict.Outcome),
			})
		}
	}

	refs := make([]string, 0, len(eligible))
	for _, f := range eligible {
		refs = append(refs, f.Ref())
	}

	result, err := s.ledgerRepo.Settle(ctx, settlement.Batch{
		Key:         key,
		Fixtures:    refs,
		Charges:     charges,
		MaxAttempts: s.maxAttempts,
		At:          s.now().UTC(),
	})
	if err != nil {
		return ProcessReport{}, fmt.Errorf("settle %s: %w", key, err)
	}

	report.FixturesSettled = len(result.NewlySettled)
	report.FixturesSkipped = len(result.Skipped)
	report.Retried = result.Retried
	report.Changes = result.Changes
	report.Failed = result.Failures
	report.Succeeded = len(result.Changes)
	report.PlayersAffected = len(result.Changes) + len(result.Failures)

	if result.NoOp() && len(result.Skipped) > 0 {
		report.Status = ProcessStatusAlreadyProcessed
		report.Message = fmt.Sprintf("%s already processed", key)
		return report, nil
	}

	report.Status = ProcessStatusProcessed
	report.Message = fmt.Sprintf("processed %d/%d players successfully", report.Succeeded, report.PlayersAffected)

	s.audit.Record(ctx, auditEntriesForChanges(key, result.Changes)...)
	if report.FixturesSettled > 0 || report.Succeeded > 0 {
		invalidateStandings(ctx, s.cache, key.Edition)
		changed := make(map[string]struct{}, len(result.Changes))
		for _, change := range result.Changes {
			changed[change.PlayerID] = struct{}{}
		}
		for _, p := range players {
			if _, ok := changed[p.ID]; ok {
				invalidatePlayerStandings(ctx, s.cache, p)
			}
		}
	}

	for _, failure := range result.Failures {
		s.logger.WarnContext(ctx, "player lives write failed",
			"key", key.String(),
			"player_id", failure.PlayerID,
			"attempts", failure.Attempts,
			"error", failure.Error,
		)
	}
	s.logger.InfoContext(ctx, "results processed",
		"key", key.String(),
		"fixtures_settled", report.FixturesSettled,
		"fixtures_skipped", report.FixturesSkipped,
		"players_scanned", report.PlayersScanned,
		"succeeded", report.Succeeded,
		"failed", len(report.Failed),
	)

	return report, nil
}

func auditEntriesForChanges(key edition.Key, changes []settlement.LifeChange) []audit.Entry {
	entries := make([]audit.Entry, 0, len(changes))
	for _, change := range changes {
		var (
			pick     string
			outcomes []string
			refs     []string
		)
		for _, c := range change.Charges {
			if pick == "" {
				pick = c.Pick
			}
			outcomes = append(outcomes, c.Outcome)
			refs = append(refs, c.FixtureRef)
		}
		entries = append(entries, audit.Entry{
			Action:   audit.ActionResultProcessed,
			PlayerID: change.PlayerID,
			OldLives: change.OldLives,
			NewLives: change.NewLives,
			Edition:  key.Edition,
			Gameweek: key.Gameweek,
			Pick:     pick,
			Result:   strings.Join(outcomes, ","),
			Reason:   "fixtures: " + strings.Join(refs, ", "),
		})
	}
	return entries
}
