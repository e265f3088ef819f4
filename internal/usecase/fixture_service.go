package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/settlement"
	"github.com/riskibarqy/last-man-standing/internal/platform/cache"
)

type SaveFixturesInput struct {
	Edition          edition.ID
	Gameweek         edition.Gameweek
	Fixtures         []fixture.Fixture
	ProcessAfterSave bool
}

type SaveFixturesResult struct {
	List   fixture.List
	Report *ProcessReport
}

type FixtureService struct {
	fixtureRepo fixture.Repository
	ledgerRepo  settlement.Repository
	results     *ResultService
	cache       *cache.Store
	now         func() time.Time
}

func NewFixtureService(
	fixtureRepo fixture.Repository,
	ledgerRepo settlement.Repository,
	results *ResultService,
	standingsCache *cache.Store,
) *FixtureService {
	return &FixtureService{
		fixtureRepo: fixtureRepo,
		ledgerRepo:  ledgerRepo,
		results:     results,
		cache:       standingsCache,
		now:         time.Now,
	}
}

// GetList returns the fixture list of a key, reading the legacy key when the
// edition-qualified list does not exist.
func (s *FixtureService) GetList(ctx context.Context, editionID edition.ID, gameweek edition.Gameweek) (fixture.List, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.GetList", keyAttributes(editionID, gameweek)...)
	defer span.End()

	key, err := qualifiedKey(editionID, gameweek)
	if err != nil {
		return fixture.List{}, err
	}

	list, found, err := loadFixtureList(ctx, s.fixtureRepo, key)
	if err != nil {
		return fixture.List{}, err
	}
	if !found {
		return fixture.List{}, fmt.Errorf("%w: fixtures=%s", ErrNotFound, key)
	}
	return list, nil
}

func (s *FixtureService) ListKeys(ctx context.Context, editionID edition.ID) ([]edition.Key, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListKeys")
	defer span.End()

	if !editionID.Valid() {
		return nil, fmt.Errorf("%w: invalid edition %q", ErrInvalidInput, editionID)
	}
	keys, err := s.fixtureRepo.ListKeys(ctx, editionID)
	if err != nil {
		return nil, fmt.Errorf("list fixture keys: %w", err)
	}
	return keys, nil
}

// SaveList replaces the fixture list of a key. Fixtures that were already
// settled keep their teams and score.
func (s *FixtureService) SaveList(ctx context.Context, input SaveFixturesInput) (SaveFixturesResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.SaveList", keyAttributes(input.Edition, input.Gameweek)...)
	defer span.End()

	key, err := qualifiedKey(input.Edition, input.Gameweek)
	if err != nil {
		return SaveFixturesResult{}, err
	}

	list := fixture.List{Key: key, UpdatedAt: s.now().UTC()}
	seen := make(map[string]struct{}, len(input.Fixtures))
	for _, item := range input.Fixtures {
		item.Status = fixture.NormalizeStatus(string(item.Status))
		if err := item.Validate(); err != nil {
			return SaveFixturesResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, dup := seen[item.Ref()]; dup {
			return SaveFixturesResult{}, fmt.Errorf("%w: duplicate fixture %q", ErrInvalidInput, item.Ref())
		}
		seen[item.Ref()] = struct{}{}
		list.Fixtures = append(list.Fixtures, item)
	}

	// The settled check and the write share the ledger lock, so a pass that
	// settles this key cannot commit between them.
	err = s.ledgerRepo.Guard(ctx, key, func(ledger settlement.Ledger) error {
		if err := s.checkSettled(ctx, ledger, list); err != nil {
			return err
		}
		if err := s.fixtureRepo.SaveList(ctx, list); err != nil {
			return fmt.Errorf("save fixture list: %w", err)
		}
		return nil
	})
	if err != nil {
		return SaveFixturesResult{}, err
	}
	invalidateStandings(ctx, s.cache, key.Edition)

	result := SaveFixturesResult{List: list}
	if input.ProcessAfterSave && s.results != nil {
		report, err := s.results.ProcessResults(ctx, key.Edition, key.Gameweek)
		if err != nil {
			return SaveFixturesResult{}, fmt.Errorf("process results after save: %w", err)
		}
		result.Report = &report
	}
	return result, nil
}

func (s *FixtureService) checkSettled(ctx context.Context, ledger settlement.Ledger, next fixture.List) error {
	if len(ledger.Settled) == 0 {
		return nil
	}

	current, found, err := loadFixtureList(ctx, s.fixtureRepo, next.Key)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	updated := make(map[string]fixture.Fixture, len(next.Fixtures))
	for _, f := range next.Fixtures {
		updated[f.Ref()] = f
	}
	for _, old := range current.Fixtures {
		if !ledger.IsSettled(old.Ref()) {
			continue
		}
		f, ok := updated[old.Ref()]
		if !ok || !fixture.SameResult(old, f) || !f.Eligible() {
			return fmt.Errorf("%w: fixture %q is already settled", ErrConflict, old.Ref())
		}
	}
	return nil
}

// loadFixtureList reads key and falls back to its legacy form.
func loadFixtureList(ctx context.Context, repo fixture.Repository, key edition.Key) (fixture.List, bool, error) {
	list, found, err := repo.GetList(ctx, key)
	if err != nil {
		return fixture.List{}, false, fmt.Errorf("get fixture list %s: %w", key, err)
	}
	if found || key.IsLegacy() {
		return list, found, nil
	}

	legacy := key.Legacy()
	list, found, err = repo.GetList(ctx, legacy)
	if err != nil {
		return fixture.List{}, false, fmt.Errorf("get fixture list %s: %w", legacy, err)
	}
	return list, found, nil
}

func qualifiedKey(editionID edition.ID, gameweek edition.Gameweek) (edition.Key, error) {
	key := edition.NewKey(editionID, gameweek)
	if key.IsLegacy() {
		return edition.Key{}, fmt.Errorf("%w: edition is required", ErrInvalidInput)
	}
	if err := key.Validate(); err != nil {
		return edition.Key{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return key, nil
}
