package survival

import (
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
)

// Outcome is what a completed or pending fixture means for one pick.
type Outcome string

const (
	OutcomeWin             Outcome = "win"
	OutcomeDraw            Outcome = "draw"
	OutcomeDrawEliminating Outcome = "draw_eliminating"
	OutcomeLoss            Outcome = "loss"
	OutcomePending         Outcome = "pending"
	OutcomeNotInvolved     Outcome = "not_involved"
)

// CostsLife reports whether the outcome removes a life.
func (o Outcome) CostsLife() bool {
	return o == OutcomeLoss || o == OutcomeDrawEliminating
}

func (o Outcome) Decided() bool {
	switch o {
	case OutcomeWin, OutcomeDraw, OutcomeDrawEliminating, OutcomeLoss:
		return true
	default:
		return false
	}
}

// Rules holds the survival parameters shared by settlement and projection.
type Rules struct {
	// DrawCostsLife makes a drawn pick lose a life: only a win survives.
	DrawCostsLife bool
}

func DefaultRules() Rules {
	return Rules{DrawCostsLife: true}
}

// Winner returns the winning team of an eligible fixture. draw is true when
// the scores are level. ok is false when the fixture is not eligible.
func Winner(f fixture.Fixture) (team string, draw bool, ok bool) {
	if !f.Eligible() {
		return "", false, false
	}
	switch {
	case *f.HomeScore > *f.AwayScore:
		return f.HomeTeam, false, true
	case *f.AwayScore > *f.HomeScore:
		return f.AwayTeam, false, true
	default:
		return "", true, true
	}
}

// Evaluate decides what f means for a player who picked team.
func (r Rules) Evaluate(f fixture.Fixture, team string) Outcome {
	if team == "" || !f.Involves(team) {
		return OutcomeNotInvolved
	}

	winner, draw, ok := Winner(f)
	if !ok {
		return OutcomePending
	}
	if draw {
		if r.DrawCostsLife {
			return OutcomeDrawEliminating
		}
		return OutcomeDraw
	}
	if fixture.SameTeam(winner, team) {
		return OutcomeWin
	}
	return OutcomeLoss
}

// Verdict is the evaluation of one fixture against a pick.
type Verdict struct {
	Fixture fixture.Fixture
	Outcome Outcome
}

// EvaluateAll evaluates every fixture in fixtures that involves team, in list order.
func (r Rules) EvaluateAll(fixtures []fixture.Fixture, team string) []Verdict {
	var out []Verdict
	for _, f := range fixtures {
		outcome := r.Evaluate(f, team)
		if outcome == OutcomeNotInvolved {
			continue
		}
		out = append(out, Verdict{Fixture: f, Outcome: outcome})
	}
	return out
}

// LivesLost counts the verdicts that cost a life.
func LivesLost(verdicts []Verdict) int {
	n := 0
	for _, v := range verdicts {
		if v.Outcome.CostsLife() {
			n++
		}
	}
	return n
}
