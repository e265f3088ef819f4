package fixture

import "testing"

func intPtr(v int) *int { return &v }

func TestFixtureEligible(t *testing.T) {
	tests := []struct {
		name string
		in   Fixture
		want bool
	}{
		{name: "full time", in: Fixture{Completed: true, Status: StatusFullTime, HomeScore: intPtr(1), AwayScore: intPtr(0)}, want: true},
		{name: "penalties", in: Fixture{Completed: true, Status: StatusPenalties, HomeScore: intPtr(1), AwayScore: intPtr(1)}, want: true},
		{name: "completed but live status", in: Fixture{Completed: true, Status: StatusSecondHalf, HomeScore: intPtr(1), AwayScore: intPtr(0)}},
		{name: "final status not completed", in: Fixture{Status: StatusFullTime, HomeScore: intPtr(1), AwayScore: intPtr(0)}},
		{name: "missing away score", in: Fixture{Completed: true, Status: StatusFullTime, HomeScore: intPtr(1)}},
		{name: "comp is not final", in: Fixture{Completed: true, Status: StatusCompleted, HomeScore: intPtr(1), AwayScore: intPtr(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Eligible(); got != tt.want {
				t.Fatalf("Eligible()=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestListEligible_SkipsMalformed(t *testing.T) {
	list := List{Fixtures: []Fixture{
		{HomeTeam: "Woking", AwayTeam: "York City", Completed: true, Status: StatusFullTime, HomeScore: intPtr(2), AwayScore: intPtr(1)},
		{HomeTeam: "Woking", AwayTeam: "woking", Completed: true, Status: StatusFullTime, HomeScore: intPtr(2), AwayScore: intPtr(1)},
		{HomeTeam: "Altrincham", AwayTeam: "", Completed: true, Status: StatusFullTime, HomeScore: intPtr(0), AwayScore: intPtr(3)},
		{HomeTeam: "Boston United", AwayTeam: "Braintree Town", Status: StatusNotStarted},
		{HomeTeam: "Hartlepool", AwayTeam: "Aldershot", Completed: true, Status: StatusFullTime, HomeScore: intPtr(-1), AwayScore: intPtr(0)},
	}}

	eligible, invalid := list.Eligible()
	if len(eligible) != 1 || eligible[0].HomeTeam != "Woking" {
		t.Fatalf("unexpected eligible fixtures: %+v", eligible)
	}
	if len(invalid) != 3 {
		t.Fatalf("expected 3 invalid fixtures, got %d (%v)", len(invalid), invalid)
	}
}

func TestFixtureRefAndOpponent(t *testing.T) {
	f := Fixture{HomeTeam: "Woking", AwayTeam: "York City"}
	if f.Ref() != "Woking v York City" {
		t.Fatalf("unexpected ref %q", f.Ref())
	}
	f.ID = "fx-1"
	if f.Ref() != "fx-1" {
		t.Fatalf("expected explicit id ref, got %q", f.Ref())
	}
	if got := f.Opponent("york city"); got != "Woking" {
		t.Fatalf("unexpected opponent %q", got)
	}
	if got := f.Opponent("Altrincham"); got != "" {
		t.Fatalf("expected no opponent, got %q", got)
	}
}

func TestSameResult(t *testing.T) {
	a := Fixture{HomeTeam: "Woking", AwayTeam: "York City", HomeScore: intPtr(2), AwayScore: intPtr(1)}
	b := a.clone()
	b.Status = StatusFullTime
	b.HomeScoreHT = intPtr(1)
	if !SameResult(a, b) {
		t.Fatalf("expected same result when only status and half-time differ")
	}
	b.AwayScore = intPtr(2)
	if SameResult(a, b) {
		t.Fatalf("expected different result after score change")
	}
	b.AwayScore = nil
	if SameResult(a, b) {
		t.Fatalf("expected nil score to differ from set score")
	}
}

func TestNormalizeStatus(t *testing.T) {
	if got := NormalizeStatus(" ft "); got != StatusFullTime {
		t.Fatalf("unexpected status %q", got)
	}
	if got := NormalizeStatus(""); got != StatusNotStarted {
		t.Fatalf("expected NS for empty status, got %q", got)
	}
	if !StatusPostponed.IsPickable() || StatusHalfTime.IsPickable() {
		t.Fatalf("unexpected pickable statuses")
	}
}
