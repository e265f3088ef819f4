package settlement

import (
	"sort"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
)

// DefaultMaxAttempts bounds how many times one player write is tried per pass.
const DefaultMaxAttempts = 2

// Charge is one life owed by a player for one settled fixture.
type Charge struct {
	PlayerID   string `json:"player_id"`
	FixtureRef string `json:"fixture_ref"`
	Pick       string `json:"pick"`
	Outcome    string `json:"outcome"`
	Attempts   int    `json:"attempts,omitempty"`
	LastError  string `json:"last_error,omitempty"`
}

// Ledger is the durable record of which fixtures of one edition key have
// already been applied to lives, plus charges whose write is still owed.
type Ledger struct {
	Key       edition.Key
	Settled   map[string]time.Time
	Pending   []Charge
	UpdatedAt time.Time
}

func NewLedger(key edition.Key) Ledger {
	return Ledger{Key: key, Settled: map[string]time.Time{}}
}

func (l Ledger) IsSettled(fixtureRef string) bool {
	_, ok := l.Settled[fixtureRef]
	return ok
}

func (l Ledger) Clone() Ledger {
	out := Ledger{Key: l.Key, UpdatedAt: l.UpdatedAt}
	out.Settled = make(map[string]time.Time, len(l.Settled))
	for k, v := range l.Settled {
		out.Settled[k] = v
	}
	out.Pending = append([]Charge(nil), l.Pending...)
	return out
}

// SameRevision reports whether l and other record the same settlement state.
// Every committed Settle that moves lives changes UpdatedAt or the size of
// the settled or pending sets.
func (l Ledger) SameRevision(other Ledger) bool {
	return l.UpdatedAt.Equal(other.UpdatedAt) &&
		len(l.Settled) == len(other.Settled) &&
		len(l.Pending) == len(other.Pending)
}

// Batch is one processing pass over the eligible fixtures of a key.
type Batch struct {
	Key         edition.Key
	Fixtures    []string
	Charges     []Charge
	MaxAttempts int
	At          time.Time
}

// PlayerCharges groups the charges applied to one player in a single write.
type PlayerCharges struct {
	PlayerID string
	Charges  []Charge
}

func (p PlayerCharges) Lives() int {
	return len(p.Charges)
}

// Plan is what a batch still has to do once the ledger is locked.
type Plan struct {
	Fresh   []string
	Skipped []string
	Players []PlayerCharges
	Retried int
}

// Empty reports a pass with nothing left to apply.
func (p Plan) Empty() bool {
	return len(p.Fresh) == 0 && p.Retried == 0
}

// NewPlan drops fixtures the ledger already settled and folds in owed charges.
func NewPlan(ledger Ledger, batch Batch) Plan {
	var plan Plan
	fresh := make(map[string]struct{}, len(batch.Fixtures))
	for _, ref := range batch.Fixtures {
		if _, dup := fresh[ref]; dup {
			continue
		}
		if ledger.IsSettled(ref) {
			plan.Skipped = append(plan.Skipped, ref)
			continue
		}
		fresh[ref] = struct{}{}
		plan.Fresh = append(plan.Fresh, ref)
	}

	byPlayer := make(map[string][]Charge)
	for _, c := range ledger.Pending {
		byPlayer[c.PlayerID] = append(byPlayer[c.PlayerID], c)
		plan.Retried++
	}
	for _, c := range batch.Charges {
		if _, ok := fresh[c.FixtureRef]; !ok {
			continue
		}
		byPlayer[c.PlayerID] = append(byPlayer[c.PlayerID], c)
	}

	plan.Players = make([]PlayerCharges, 0, len(byPlayer))
	for playerID, charges := range byPlayer {
		plan.Players = append(plan.Players, PlayerCharges{PlayerID: playerID, Charges: charges})
	}
	sort.Slice(plan.Players, func(i, j int) bool {
		return plan.Players[i].PlayerID < plan.Players[j].PlayerID
	})
	return plan
}

// Next returns the ledger after plan ran. Charges of failed players stay owed.
func (l Ledger) Next(plan Plan, failures []Failure, at time.Time) Ledger {
	out := l.Clone()
	if out.Settled == nil {
		out.Settled = map[string]time.Time{}
	}
	for _, ref := range plan.Fresh {
		out.Settled[ref] = at
	}

	failedBy := make(map[string]Failure, len(failures))
	for _, f := range failures {
		failedBy[f.PlayerID] = f
	}
	out.Pending = nil
	for _, pc := range plan.Players {
		f, failed := failedBy[pc.PlayerID]
		if !failed {
			continue
		}
		for _, c := range pc.Charges {
			c.Attempts += f.Attempts
			c.LastError = f.Error
			out.Pending = append(out.Pending, c)
		}
	}
	out.UpdatedAt = at
	return out
}

// LifeChange is a committed lives write for one player.
type LifeChange struct {
	PlayerID string
	OldLives int
	NewLives int
	Charges  []Charge
}

// Failure is a player whose write did not succeed within the attempt budget.
type Failure struct {
	PlayerID string
	Attempts int
	Error    string
}

// Result reports what a Settle call committed.
type Result struct {
	Key          edition.Key
	NewlySettled []string
	Skipped      []string
	Retried      int
	Changes      []LifeChange
	Failures     []Failure
}

// NoOp reports a pass that found every fixture already settled.
func (r Result) NoOp() bool {
	return len(r.NewlySettled) == 0 && r.Retried == 0
}
