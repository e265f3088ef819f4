package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
)

type fixtureListTableModel struct {
	ListKey   string         `db:"list_key"`
	EditionID sql.NullString `db:"edition_id"`
	Gameweek  int            `db:"gameweek"`
	Fixtures  []byte         `db:"fixtures"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type fixtureListInsertModel struct {
	ListKey   string         `db:"list_key"`
	EditionID sql.NullString `db:"edition_id"`
	Gameweek  int            `db:"gameweek"`
	Fixtures  []byte         `db:"fixtures"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// fixtureDocument is the JSONB shape of one fixture inside a list row.
type fixtureDocument struct {
	ID          string     `json:"id,omitempty"`
	HomeTeam    string     `json:"home_team"`
	AwayTeam    string     `json:"away_team"`
	HomeScore   *int       `json:"home_score,omitempty"`
	AwayScore   *int       `json:"away_score,omitempty"`
	HomeScoreHT *int       `json:"home_score_ht,omitempty"`
	AwayScoreHT *int       `json:"away_score_ht,omitempty"`
	Status      string     `json:"status"`
	Completed   bool       `json:"completed"`
	KickoffAt   *time.Time `json:"kickoff_at,omitempty"`
}

func newFixtureDocuments(items []fixture.Fixture) []fixtureDocument {
	out := make([]fixtureDocument, 0, len(items))
	for _, f := range items {
		out = append(out, fixtureDocument{
			ID:          f.ID,
			HomeTeam:    f.HomeTeam,
			AwayTeam:    f.AwayTeam,
			HomeScore:   f.HomeScore,
			AwayScore:   f.AwayScore,
			HomeScoreHT: f.HomeScoreHT,
			AwayScoreHT: f.AwayScoreHT,
			Status:      string(f.Status),
			Completed:   f.Completed,
			KickoffAt:   f.KickoffAt,
		})
	}
	return out
}

func (row fixtureListTableModel) toDomain() (fixture.List, error) {
	key, err := edition.ParseKey(row.ListKey)
	if err != nil {
		return fixture.List{}, err
	}

	var docs []fixtureDocument
	if err := decodeJSON(row.Fixtures, &docs); err != nil {
		return fixture.List{}, err
	}

	out := fixture.List{
		Key:       key,
		Fixtures:  make([]fixture.Fixture, 0, len(docs)),
		UpdatedAt: row.UpdatedAt,
	}
	for _, doc := range docs {
		out.Fixtures = append(out.Fixtures, fixture.Fixture{
			ID:          doc.ID,
			HomeTeam:    doc.HomeTeam,
			AwayTeam:    doc.AwayTeam,
			HomeScore:   doc.HomeScore,
			AwayScore:   doc.AwayScore,
			HomeScoreHT: doc.HomeScoreHT,
			AwayScoreHT: doc.AwayScoreHT,
			Status:      fixture.NormalizeStatus(doc.Status),
			Completed:   doc.Completed,
			KickoffAt:   doc.KickoffAt,
		})
	}
	return out, nil
}
