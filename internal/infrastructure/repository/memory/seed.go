package memory

import (
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
)

func SeedEditions() []edition.Edition {
	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return []edition.Edition{
		{
			ID:        edition.Default,
			Name:      "Edition 1",
			Active:    true,
			CreatedAt: created,
			UpdatedAt: created,
		},
		{
			ID:        edition.Test,
			Name:      "Test edition",
			Active:    true,
			CreatedAt: created,
			UpdatedAt: created,
		},
	}
}

func SeedPlayers() []player.Player {
	created := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	alex := player.New("plr-alex", "Alex", []edition.ID{edition.Default}, created)
	alex.Picks[edition.NewKey(edition.Default, 1).String()] = "Woking"

	sam := player.New("plr-sam", "Sam", []edition.ID{edition.Default}, created)
	sam.Picks[edition.NewKey(edition.Default, 1).String()] = "Barnet"

	tester := player.New("plr-tester", "Tester", []edition.ID{edition.Test}, created)
	tester.DefaultEdition = edition.Test

	return []player.Player{alex, sam, tester}
}

func SeedFixtures() []fixture.List {
	kickoff := time.Date(2026, 8, 15, 15, 0, 0, 0, time.UTC)
	return []fixture.List{
		{
			Key: edition.NewKey(edition.Default, 1),
			Fixtures: []fixture.Fixture{
				{ID: "e1-gw1-01", HomeTeam: "Woking", AwayTeam: "York City", Status: fixture.StatusNotStarted, KickoffAt: &kickoff},
				{ID: "e1-gw1-02", HomeTeam: "Barnet", AwayTeam: "Altrincham", Status: fixture.StatusNotStarted, KickoffAt: &kickoff},
				{ID: "e1-gw1-03", HomeTeam: "Braintree Town", AwayTeam: "Solihull Moors", Status: fixture.StatusNotStarted, KickoffAt: &kickoff},
			},
			UpdatedAt: kickoff.Add(-7 * 24 * time.Hour),
		},
	}
}
