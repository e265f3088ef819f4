package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
	"github.com/riskibarqy/last-man-standing/internal/domain/settlement"
	"github.com/riskibarqy/last-man-standing/internal/domain/standing"
	"github.com/riskibarqy/last-man-standing/internal/domain/survival"
	"github.com/riskibarqy/last-man-standing/internal/platform/cache"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const (
	standingsCachePrefix = "standings:"
	maxSnapshotReads     = 3
)

// StandingsService projects leaderboards. It never writes player state.
type StandingsService struct {
	playerRepo  player.Repository
	fixtureRepo fixture.Repository
	ledgerRepo  settlement.Repository
	rules       survival.Rules
	cache       *cache.Store
	logger      *logging.Logger
	now         func() time.Time
}

func NewStandingsService(
	playerRepo player.Repository,
	fixtureRepo fixture.Repository,
	ledgerRepo settlement.Repository,
	rules survival.Rules,
	standingsCache *cache.Store,
	logger *logging.Logger,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		playerRepo:  playerRepo,
		fixtureRepo: fixtureRepo,
		ledgerRepo:  ledgerRepo,
		rules:       rules,
		cache:       standingsCache,
		logger:      logger,
		now:         time.Now,
	}
}

// ProjectStandings returns the leaderboard of one edition key. Lives start
// from stored lives; results that are final but not yet settled are
// subtracted and the row is marked provisional.
func (s *StandingsService) ProjectStandings(ctx context.Context, editionID edition.ID, gameweek edition.Gameweek, view standing.View) (standing.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ProjectStandings", keyAttributes(editionID, gameweek)...)
	defer span.End()

	key, err := qualifiedKey(editionID, gameweek)
	if err != nil {
		return standing.Snapshot{}, err
	}
	view, err = standing.ParseView(string(view))
	if err != nil {
		return standing.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	loaded, err := s.cache.GetOrLoad(ctx, standingsCachePrefix+key.String(), func(ctx context.Context) (any, error) {
		return s.project(ctx, key)
	})
	if err != nil {
		return standing.Snapshot{}, err
	}
	snapshot, ok := loaded.(standing.Snapshot)
	if !ok {
		return standing.Snapshot{}, fmt.Errorf("unexpected standings cache value %T", loaded)
	}

	return filterSnapshot(snapshot, view), nil
}

func (s *StandingsService) project(ctx context.Context, key edition.Key) (standing.Snapshot, error) {
	var (
		players []player.Player
		list    fixture.List
		found   bool
		ledger  settlement.Ledger
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		ledger, players, err = s.loadLedgerAndPlayers(ctx, key)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		list, found, err = loadFixtureList(ctx, s.fixtureRepo, key)
		return err
	})
	if err := p.Wait(); err != nil {
		return standing.Snapshot{}, err
	}

	var fixtures []fixture.Fixture
	if found {
		fixtures = validFixtures(list)
	}

	owed := make(map[string]int, len(ledger.Pending))
	for _, c := range ledger.Pending {
		owed[c.PlayerID]++
	}

	rows := make([]standing.Row, 0, len(players))
	for _, p := range players {
		if p.Archived() {
			continue
		}
		rows = append(rows, s.projectRow(p, key, found, fixtures, ledger, owed[p.ID]))
	}
	sort.SliceStable(rows, func(i, j int) bool { return standing.Less(rows[i], rows[j]) })

	return standing.Snapshot{
		Key:         key,
		View:        standing.ViewAll,
		Rows:        rows,
		Summary:     standing.Summarize(rows),
		GeneratedAt: s.now().UTC(),
	}, nil
}

// loadLedgerAndPlayers reads players between two ledger reads and accepts the
// pair only when no settlement committed in between, so stored lives and the
// settled set describe the same moment.
func (s *StandingsService) loadLedgerAndPlayers(ctx context.Context, key edition.Key) (settlement.Ledger, []player.Player, error) {
	ledger, err := s.loadLedger(ctx, key)
	if err != nil {
		return settlement.Ledger{}, nil, err
	}
	for attempt := 1; ; attempt++ {
		players, err := s.playerRepo.ListByEdition(ctx, key.Edition)
		if err != nil {
			return settlement.Ledger{}, nil, fmt.Errorf("list players by edition: %w", err)
		}
		after, err := s.loadLedger(ctx, key)
		if err != nil {
			return settlement.Ledger{}, nil, err
		}
		if after.SameRevision(ledger) {
			return after, players, nil
		}
		if attempt == maxSnapshotReads {
			return settlement.Ledger{}, nil, fmt.Errorf("%w: settlement of %s in progress", ErrConflict, key)
		}
		ledger = after
	}
}

func (s *StandingsService) loadLedger(ctx context.Context, key edition.Key) (settlement.Ledger, error) {
	ledger, exists, err := s.ledgerRepo.Get(ctx, key)
	if err != nil {
		return settlement.Ledger{}, fmt.Errorf("get settlement ledger: %w", err)
	}
	if !exists {
		return settlement.NewLedger(key), nil
	}
	return ledger, nil
}

func (s *StandingsService) projectRow(
	p player.Player,
	key edition.Key,
	listFound bool,
	fixtures []fixture.Fixture,
	ledger settlement.Ledger,
	owed int,
) standing.Row {
	row := standing.Row{
		PlayerID: p.ID,
		Name:     p.Name,
		Lives:    p.Lives,
		Status:   p.Status,
	}

	pick, ok := p.PickFor(key)
	var verdicts []survival.Verdict
	switch {
	case !ok:
		row.Result = standing.ResultNoPick
	case !listFound:
		row.Pick = pick
		row.Result = standing.ResultFixtureNotFound
	default:
		row.Pick = pick
		verdicts = s.rules.EvaluateAll(fixtures, pick)
		if len(verdicts) == 0 {
			row.Result = standing.ResultFixtureNotFound
		} else {
			row.Result = standing.Result(verdicts[0].Outcome)
		}
	}

	// Only results the engine would apply to this player are projected.
	if p.ResolveEdition() != key.Edition {
		return row
	}
	pending := owed
	for _, v := range verdicts {
		if v.Outcome.CostsLife() && !ledger.IsSettled(v.Fixture.Ref()) {
			pending++
		}
	}
	if pending > 0 {
		row.Lives = player.ClampLives(p.Lives - pending)
		row.Status = player.DeriveStatus(p.Status, row.Lives)
		row.Provisional = true
	}
	return row
}

func validFixtures(list fixture.List) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(list.Fixtures))
	for _, f := range list.Fixtures {
		if f.Validate() != nil {
			continue
		}
		out = append(out, f)
	}
	return out
}

func filterSnapshot(snapshot standing.Snapshot, view standing.View) standing.Snapshot {
	out := snapshot
	out.View = view
	out.Rows = make([]standing.Row, 0, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		if view.Includes(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

func invalidateStandings(ctx context.Context, store *cache.Store, editionID edition.ID) {
	store.DeletePrefix(ctx, standingsCachePrefix+editionID.Segment()+"_")
}

// invalidatePlayerStandings drops every edition the player is listed in. Lives
// are shared across editions, so a lives change makes all of them stale.
func invalidatePlayerStandings(ctx context.Context, store *cache.Store, item player.Player) {
	editions := item.Registrations
	if len(editions) == 0 {
		editions = []edition.ID{edition.Default}
	}
	for _, editionID := range editions {
		invalidateStandings(ctx, store, editionID)
	}
}
