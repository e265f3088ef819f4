package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
	"github.com/riskibarqy/last-man-standing/internal/domain/settlement"
)

var errLivesWrite = errors.New("lives write failed")

// scriptedLives wraps a PlayerRepository, failing queued writes and calling
// afterWrite once each successful write is stored.
type scriptedLives struct {
	*PlayerRepository

	mu         sync.Mutex
	failures   map[string]int
	afterWrite func(playerID string)
}

func (s *scriptedLives) DeductLives(ctx context.Context, playerID string, lives int) (int, int, error) {
	s.mu.Lock()
	if s.failures[playerID] > 0 {
		s.failures[playerID]--
		s.mu.Unlock()
		return 0, 0, errLivesWrite
	}
	after := s.afterWrite
	s.mu.Unlock()

	oldLives, newLives, err := s.PlayerRepository.DeductLives(ctx, playerID, lives)
	if err == nil && after != nil {
		after(playerID)
	}
	return oldLives, newLives, err
}

func newSettlementFixture(t *testing.T) (*scriptedLives, *SettlementRepository) {
	t.Helper()

	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	players := &scriptedLives{
		PlayerRepository: NewPlayerRepository([]player.Player{
			player.New("p1", "Alex", []edition.ID{edition.Default}, now),
			player.New("p2", "Sam", []edition.ID{edition.Default}, now),
		}),
		failures: map[string]int{},
	}
	return players, NewSettlementRepository(players)
}

func charge(playerID, ref string) settlement.Charge {
	return settlement.Charge{PlayerID: playerID, FixtureRef: ref, Pick: "Altrincham", Outcome: "loss"}
}

func TestSettlementRepository_SettleIsIdempotent(t *testing.T) {
	ctx := context.Background()
	players, repo := newSettlementFixture(t)
	key := edition.NewKey(edition.Default, 5)
	batch := settlement.Batch{
		Key:      key,
		Fixtures: []string{"f1"},
		Charges:  []settlement.Charge{charge("p1", "f1")},
		At:       time.Now(),
	}

	first, err := repo.Settle(ctx, batch)
	if err != nil {
		t.Fatalf("first settle: %v", err)
	}
	if len(first.Changes) != 1 || first.Changes[0].OldLives != 2 || first.Changes[0].NewLives != 1 {
		t.Fatalf("unexpected first result: %+v", first)
	}

	second, err := repo.Settle(ctx, batch)
	if err != nil {
		t.Fatalf("second settle: %v", err)
	}
	if !second.NoOp() || len(second.Changes) != 0 {
		t.Fatalf("expected no-op second pass, got %+v", second)
	}

	p, _, _ := players.GetByID(ctx, "p1")
	if p.Lives != 1 {
		t.Fatalf("expected 1 life after two passes, got %d", p.Lives)
	}
}

func TestSettlementRepository_FloorsAtZero(t *testing.T) {
	ctx := context.Background()
	players, repo := newSettlementFixture(t)
	_, err := repo.Settle(ctx, settlement.Batch{
		Key:      edition.NewKey(edition.Default, 5),
		Fixtures: []string{"f1", "f2", "f3"},
		Charges:  []settlement.Charge{charge("p1", "f1"), charge("p1", "f2"), charge("p1", "f3")},
		At:       time.Now(),
	})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	p, _, _ := players.GetByID(ctx, "p1")
	if p.Lives != 0 || p.Status != player.StatusEliminated {
		t.Fatalf("expected eliminated with 0 lives, got %d %s", p.Lives, p.Status)
	}
}

func TestSettlementRepository_RetriesThenKeepsPending(t *testing.T) {
	ctx := context.Background()
	players, repo := newSettlementFixture(t)
	key := edition.NewKey(edition.Default, 5)
	players.failures["p2"] = 3

	result, err := repo.Settle(ctx, settlement.Batch{
		Key:         key,
		Fixtures:    []string{"f1"},
		Charges:     []settlement.Charge{charge("p1", "f1"), charge("p2", "f1")},
		MaxAttempts: 2,
		At:          time.Now(),
	})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if len(result.Changes) != 1 || len(result.Failures) != 1 {
		t.Fatalf("expected one change and one failure, got %+v", result)
	}
	if result.Failures[0].PlayerID != "p2" || result.Failures[0].Attempts != 2 {
		t.Fatalf("unexpected failure: %+v", result.Failures[0])
	}

	ledger, ok, err := repo.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("get ledger: ok=%v err=%v", ok, err)
	}
	if !ledger.IsSettled("f1") || len(ledger.Pending) != 1 {
		t.Fatalf("unexpected ledger: %+v", ledger)
	}

	// One injected failure left; the next pass retries it within budget.
	retry, err := repo.Settle(ctx, settlement.Batch{Key: key, Fixtures: []string{"f1"}, MaxAttempts: 2, At: time.Now()})
	if err != nil {
		t.Fatalf("retry settle: %v", err)
	}
	if retry.Retried != 1 || len(retry.Changes) != 1 || len(retry.Failures) != 0 {
		t.Fatalf("unexpected retry result: %+v", retry)
	}

	p2, _, _ := players.GetByID(ctx, "p2")
	if p2.Lives != 1 {
		t.Fatalf("expected p2 charged once, got %d lives", p2.Lives)
	}
	ledger, _, _ = repo.Get(ctx, key)
	if len(ledger.Pending) != 0 {
		t.Fatalf("expected no pending charges, got %+v", ledger.Pending)
	}
}

func TestSettlementRepository_DeletedPlayerOwesNothing(t *testing.T) {
	ctx := context.Background()
	players, repo := newSettlementFixture(t)
	if err := players.Delete(ctx, "p2"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	result, err := repo.Settle(ctx, settlement.Batch{
		Key:      edition.NewKey(edition.Default, 5),
		Fixtures: []string{"f1"},
		Charges:  []settlement.Charge{charge("p2", "f1")},
		At:       time.Now(),
	})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if len(result.Changes) != 0 || len(result.Failures) != 0 || len(result.NewlySettled) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSettlementRepository_CancelledMidPassChargesOnce(t *testing.T) {
	players, repo := newSettlementFixture(t)
	key := edition.NewKey(edition.Default, 5)
	batch := settlement.Batch{
		Key:      key,
		Fixtures: []string{"f1"},
		Charges:  []settlement.Charge{charge("p1", "f1"), charge("p2", "f1")},
		At:       time.Now(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	players.afterWrite = func(string) { cancel() }
	first, err := repo.Settle(ctx, batch)
	if err != nil {
		t.Fatalf("cancelled settle: %v", err)
	}
	if len(first.Changes) != 1 || first.Changes[0].PlayerID != "p1" {
		t.Fatalf("expected only p1 charged before cancel, got %+v", first)
	}
	if len(first.Failures) != 1 || first.Failures[0].PlayerID != "p2" {
		t.Fatalf("expected p2 kept owed, got %+v", first.Failures)
	}

	players.afterWrite = nil
	second, err := repo.Settle(context.Background(), batch)
	if err != nil {
		t.Fatalf("second settle: %v", err)
	}
	if second.Retried != 1 || len(second.Changes) != 1 || second.Changes[0].PlayerID != "p2" {
		t.Fatalf("expected only the owed charge retried, got %+v", second)
	}

	bg := context.Background()
	p1, _, _ := players.GetByID(bg, "p1")
	p2, _, _ := players.GetByID(bg, "p2")
	if p1.Lives != 1 || p2.Lives != 1 {
		t.Fatalf("expected one life each, got p1=%d p2=%d", p1.Lives, p2.Lives)
	}

	third, err := repo.Settle(bg, batch)
	if err != nil {
		t.Fatalf("third settle: %v", err)
	}
	if !third.NoOp() {
		t.Fatalf("expected no-op third pass, got %+v", third)
	}
	p1, _, _ = players.GetByID(bg, "p1")
	if p1.Lives != 1 {
		t.Fatalf("p1 charged twice: %d lives", p1.Lives)
	}
}

func TestSettlementRepository_CancelledBeforeWritesChangesNothing(t *testing.T) {
	players, repo := newSettlementFixture(t)
	key := edition.NewKey(edition.Default, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.Settle(ctx, settlement.Batch{
		Key:      key,
		Fixtures: []string{"f1"},
		Charges:  []settlement.Charge{charge("p1", "f1")},
		At:       time.Now(),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	bg := context.Background()
	if _, ok, _ := repo.Get(bg, key); ok {
		t.Fatalf("ledger must not be written")
	}
	p1, _, _ := players.GetByID(bg, "p1")
	if p1.Lives != player.MaxLives {
		t.Fatalf("expected untouched lives, got %d", p1.Lives)
	}
}

func TestSettlementRepository_GuardBlocksSettle(t *testing.T) {
	ctx := context.Background()
	_, repo := newSettlementFixture(t)
	key := edition.NewKey(edition.Default, 5)

	entered := make(chan struct{})
	release := make(chan struct{})
	guardDone := make(chan error, 1)
	go func() {
		guardDone <- repo.Guard(ctx, key, func(ledger settlement.Ledger) error {
			if ledger.IsSettled("f1") {
				t.Errorf("f1 settled before guard released")
			}
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	settled := make(chan error, 1)
	go func() {
		_, err := repo.Settle(ctx, settlement.Batch{
			Key:      key,
			Fixtures: []string{"f1"},
			Charges:  []settlement.Charge{charge("p1", "f1")},
			At:       time.Now(),
		})
		settled <- err
	}()

	select {
	case err := <-settled:
		t.Fatalf("settle finished while guard held the key: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	if err := <-guardDone; err != nil {
		t.Fatalf("guard: %v", err)
	}
	if err := <-settled; err != nil {
		t.Fatalf("settle: %v", err)
	}
	ledger, _, _ := repo.Get(ctx, key)
	if !ledger.IsSettled("f1") {
		t.Fatalf("expected f1 settled after guard released")
	}
}
