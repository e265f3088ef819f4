package postgres

import (
	"database/sql"
	"time"
)

type editionTableModel struct {
	ID                   string       `db:"id"`
	Name                 string       `db:"name"`
	Active               bool         `db:"active"`
	RegistrationOpensAt  sql.NullTime `db:"registration_opens_at"`
	RegistrationClosesAt sql.NullTime `db:"registration_closes_at"`
	CreatedAt            time.Time    `db:"created_at"`
	UpdatedAt            time.Time    `db:"updated_at"`
}

type editionInsertModel struct {
	ID                   string       `db:"id"`
	Name                 string       `db:"name"`
	Active               bool         `db:"active"`
	RegistrationOpensAt  sql.NullTime `db:"registration_opens_at"`
	RegistrationClosesAt sql.NullTime `db:"registration_closes_at"`
	UpdatedAt            time.Time    `db:"updated_at"`
}
