package edition

import (
	"context"
	"time"
)

// Edition is one independent run of the competition.
type Edition struct {
	ID                   ID
	Name                 string
	Active               bool
	RegistrationOpensAt  *time.Time
	RegistrationClosesAt *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// RegistrationOpen reports whether new players may enrol at now.
// Unset bounds are treated as open-ended; the test edition is always open.
func (e Edition) RegistrationOpen(now time.Time) bool {
	if e.ID.IsTest() {
		return true
	}
	if !e.Active {
		return false
	}
	if e.RegistrationOpensAt != nil && now.Before(*e.RegistrationOpensAt) {
		return false
	}
	if e.RegistrationClosesAt != nil && !now.Before(*e.RegistrationClosesAt) {
		return false
	}
	return true
}

// Repository describes edition persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Edition, error)
	GetByID(ctx context.Context, id ID) (Edition, bool, error)
	Upsert(ctx context.Context, item Edition) error
}
