package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
)

type playerTableModel struct {
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	Lives          int            `db:"lives"`
	Status         string         `db:"status"`
	Registrations  pq.StringArray `db:"registrations"`
	DefaultEdition sql.NullString `db:"default_edition"`
	Picks          []byte         `db:"picks"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type playerInsertModel struct {
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	Lives          int            `db:"lives"`
	Status         string         `db:"status"`
	Registrations  pq.StringArray `db:"registrations"`
	DefaultEdition sql.NullString `db:"default_edition"`
	Picks          []byte         `db:"picks"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func newPlayerInsertModel(item player.Player) (playerInsertModel, error) {
	picks := item.Picks
	if picks == nil {
		picks = map[string]string{}
	}
	payload, err := encodeJSON(picks)
	if err != nil {
		return playerInsertModel{}, err
	}

	registrations := make(pq.StringArray, 0, len(item.Registrations))
	for _, id := range item.Registrations {
		registrations = append(registrations, string(id))
	}

	return playerInsertModel{
		ID:             item.ID,
		Name:           item.Name,
		Lives:          item.Lives,
		Status:         string(item.Status),
		Registrations:  registrations,
		DefaultEdition: stringToNullString(string(item.DefaultEdition)),
		Picks:          payload,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}, nil
}

func (row playerTableModel) toDomain() (player.Player, error) {
	picks := map[string]string{}
	if err := decodeJSON(row.Picks, &picks); err != nil {
		return player.Player{}, err
	}
	if picks == nil {
		picks = map[string]string{}
	}

	registrations := make([]edition.ID, 0, len(row.Registrations))
	for _, raw := range row.Registrations {
		registrations = append(registrations, edition.ID(raw))
	}

	status, err := player.ParseStatus(row.Status)
	if err != nil {
		status = player.DeriveStatus(player.StatusActive, row.Lives)
	}

	return player.Player{
		ID:             row.ID,
		Name:           row.Name,
		Lives:          player.ClampLives(row.Lives),
		Status:         status,
		Registrations:  registrations,
		DefaultEdition: edition.ID(row.DefaultEdition.String),
		Picks:          picks,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}
