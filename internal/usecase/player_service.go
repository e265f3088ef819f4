package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/audit"
	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/player"
	"github.com/riskibarqy/last-man-standing/internal/domain/survival"
	"github.com/riskibarqy/last-man-standing/internal/platform/cache"
	"github.com/riskibarqy/last-man-standing/internal/platform/id"
)

const defaultAuditLimit = 50

type RegisterPlayerInput struct {
	Name     string
	Editions []edition.ID
}

type SubmitPickInput struct {
	PlayerID string
	Edition  edition.ID
	Gameweek edition.Gameweek
	Team     string
}

type AdjustLivesInput struct {
	PlayerID string
	Lives    int
	Reason   string
}

// PickHistoryEntry is one gameweek of a player's pick history.
type PickHistoryEntry struct {
	Key       edition.Key
	Pick      string
	Opponent  string
	HomeTeam  string
	AwayTeam  string
	HomeScore *int
	AwayScore *int
	Outcome   survival.Outcome
}

type PlayerService struct {
	playerRepo  player.Repository
	editionRepo edition.Repository
	fixtureRepo fixture.Repository
	audit       *AuditSink
	ids         id.Generator
	rules       survival.Rules
	cache       *cache.Store
	now         func() time.Time
}

func NewPlayerService(
	playerRepo player.Repository,
	editionRepo edition.Repository,
	fixtureRepo fixture.Repository,
	auditSink *AuditSink,
	ids id.Generator,
	rules survival.Rules,
	standingsCache *cache.Store,
) *PlayerService {
	if ids == nil {
		ids = id.NewNanoGenerator("plr")
	}
	return &PlayerService{
		playerRepo:  playerRepo,
		editionRepo: editionRepo,
		fixtureRepo: fixtureRepo,
		audit:       auditSink,
		ids:         ids,
		rules:       rules,
		cache:       standingsCache,
		now:         time.Now,
	}
}

func (s *PlayerService) Get(ctx context.Context, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Get", playerAttribute(playerID))
	defer span.End()

	return s.getPlayer(ctx, playerID)
}

func (s *PlayerService) ListByEdition(ctx context.Context, editionID edition.ID) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListByEdition")
	defer span.End()

	if !editionID.Valid() {
		return nil, fmt.Errorf("%w: invalid edition %q", ErrInvalidInput, editionID)
	}
	players, err := s.playerRepo.ListByEdition(ctx, editionID)
	if err != nil {
		return nil, fmt.Errorf("list players by edition: %w", err)
	}
	return players, nil
}

// Register creates a player with full lives in the given editions. Editions
// default to edition 1 and must have an open registration window.
func (s *PlayerService) Register(ctx context.Context, input RegisterPlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Register")
	defer span.End()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return player.Player{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	editions := input.Editions
	if len(editions) == 0 {
		editions = []edition.ID{edition.Default}
	}
	seen := make(map[edition.ID]struct{}, len(editions))
	registrations := make([]edition.ID, 0, len(editions))
	for _, editionID := range editions {
		if _, dup := seen[editionID]; dup {
			continue
		}
		seen[editionID] = struct{}{}
		if err := s.ensureRegistrationOpen(ctx, editionID); err != nil {
			return player.Player{}, err
		}
		registrations = append(registrations, editionID)
	}

	playerID, err := s.ids.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}

	item := player.New(playerID, name, registrations, s.now().UTC())
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.playerRepo.Create(ctx, item); err != nil {
		if errors.Is(err, player.ErrAlreadyExists) {
			return player.Player{}, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	for _, editionID := range registrations {
		invalidateStandings(ctx, s.cache, editionID)
	}
	return item, nil
}

func (s *PlayerService) RegisterEdition(ctx context.Context, playerID string, editionID edition.ID) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.RegisterEdition")
	defer span.End()

	item, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return player.Player{}, err
	}
	if len(item.Registrations) > 0 && item.RegisteredFor(editionID) {
		return item, nil
	}
	if err := s.ensureRegistrationOpen(ctx, editionID); err != nil {
		return player.Player{}, err
	}

	if err := s.playerRepo.AddRegistration(ctx, item.ID, editionID); err != nil {
		return player.Player{}, fmt.Errorf("add registration: %w", err)
	}
	invalidateStandings(ctx, s.cache, editionID)
	return s.getPlayer(ctx, item.ID)
}

// SetDefaultEdition chooses the edition results are processed in for a
// player registered in several.
func (s *PlayerService) SetDefaultEdition(ctx context.Context, playerID string, editionID edition.ID) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.SetDefaultEdition")
	defer span.End()

	item, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return player.Player{}, err
	}
	if !editionID.Valid() {
		return player.Player{}, fmt.Errorf("%w: invalid edition %q", ErrInvalidInput, editionID)
	}
	if !item.RegisteredFor(editionID) {
		return player.Player{}, fmt.Errorf("%w: player %s is not registered for edition %s", ErrInvalidInput, item.ID, editionID)
	}

	previous := item.ResolveEdition()
	if err := s.playerRepo.SetDefaultEdition(ctx, item.ID, editionID); err != nil {
		return player.Player{}, fmt.Errorf("set default edition: %w", err)
	}
	invalidateStandings(ctx, s.cache, previous)
	invalidateStandings(ctx, s.cache, editionID)
	return s.getPlayer(ctx, item.ID)
}

// SubmitPick stores the team a player backs for one gameweek. The team must
// play in that gameweek and neither its fixture nor the fixture of the pick
// it replaces may have started.
func (s *PlayerService) SubmitPick(ctx context.Context, input SubmitPickInput) (edition.Key, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.SubmitPick",
		append(keyAttributes(input.Edition, input.Gameweek), playerAttribute(input.PlayerID))...)
	defer span.End()

	key, err := qualifiedKey(input.Edition, input.Gameweek)
	if err != nil {
		return edition.Key{}, err
	}
	team := strings.TrimSpace(input.Team)
	if team == "" {
		return edition.Key{}, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	item, err := s.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return edition.Key{}, err
	}
	if item.Status != player.StatusActive {
		return edition.Key{}, fmt.Errorf("%w: player %s is %s", ErrConflict, item.ID, item.Status)
	}
	if !item.RegisteredFor(key.Edition) {
		return edition.Key{}, fmt.Errorf("%w: player %s is not registered for edition %s", ErrInvalidInput, item.ID, key.Edition)
	}

	list, found, err := loadFixtureList(ctx, s.fixtureRepo, key)
	if err != nil {
		return edition.Key{}, err
	}
	if !found {
		return edition.Key{}, fmt.Errorf("%w: fixtures=%s", ErrNotFound, key)
	}
	match, ok := list.Find(team)
	if !ok {
		return edition.Key{}, fmt.Errorf("%w: %s does not play in %s", ErrInvalidInput, team, key)
	}
	if err := s.checkPickOpen(match); err != nil {
		return edition.Key{}, err
	}
	// A pick whose fixture is under way is locked in.
	if current, ok := item.PickFor(key); ok {
		if locked, found := list.Find(current); found {
			if err := s.checkPickOpen(locked); err != nil {
				return edition.Key{}, fmt.Errorf("current pick %s: %w", current, err)
			}
		}
	}

	canonical := match.HomeTeam
	if fixture.SameTeam(match.AwayTeam, team) {
		canonical = match.AwayTeam
	}
	if err := s.playerRepo.SavePick(ctx, item.ID, key, canonical); err != nil {
		return edition.Key{}, fmt.Errorf("save pick: %w", err)
	}
	invalidateStandings(ctx, s.cache, key.Edition)
	return key, nil
}

func (s *PlayerService) checkPickOpen(match fixture.Fixture) error {
	if !match.Status.IsPickable() || match.Completed {
		return fmt.Errorf("%w: fixture %q has already started", ErrConflict, match.Ref())
	}
	if match.KickoffAt != nil && !s.now().Before(*match.KickoffAt) {
		return fmt.Errorf("%w: fixture %q has already kicked off", ErrConflict, match.Ref())
	}
	return nil
}

// PickHistory lists the player's picks across every gameweek of an edition
// with the outcome each pick has so far.
func (s *PlayerService) PickHistory(ctx context.Context, playerID string, editionID edition.ID) ([]PickHistoryEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.PickHistory")
	defer span.End()

	if !editionID.Valid() {
		return nil, fmt.Errorf("%w: invalid edition %q", ErrInvalidInput, editionID)
	}
	item, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	out := make([]PickHistoryEntry, 0)
	for _, gw := range edition.AllGameweeks() {
		key := edition.NewKey(editionID, gw)
		pick, ok := item.PickFor(key)
		if !ok {
			continue
		}

		entry := PickHistoryEntry{Key: key, Pick: pick, Outcome: survival.OutcomePending}
		list, found, err := loadFixtureList(ctx, s.fixtureRepo, key)
		if err != nil {
			return nil, err
		}
		if found {
			if match, ok := list.Find(pick); ok {
				entry.Opponent = match.Opponent(pick)
				entry.HomeTeam = match.HomeTeam
				entry.AwayTeam = match.AwayTeam
				entry.HomeScore = match.HomeScore
				entry.AwayScore = match.AwayScore
				entry.Outcome = s.rules.Evaluate(match, pick)
			} else {
				entry.Outcome = survival.OutcomeNotInvolved
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// AdjustLives sets a player's lives directly. It is the only path that can
// raise lives.
func (s *PlayerService) AdjustLives(ctx context.Context, input AdjustLivesInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.AdjustLives", playerAttribute(input.PlayerID))
	defer span.End()

	if input.Lives < 0 || input.Lives > player.MaxLives {
		return player.Player{}, fmt.Errorf("%w: lives must be between 0 and %d", ErrInvalidInput, player.MaxLives)
	}
	item, err := s.getPlayer(ctx, input.PlayerID)
	if err != nil {
		return player.Player{}, err
	}

	if err := s.playerRepo.UpdateLives(ctx, item.ID, input.Lives); err != nil {
		return player.Player{}, fmt.Errorf("update lives: %w", err)
	}
	s.audit.Record(ctx, s.adminEntry(item, audit.ActionAdminAdjust, input.Lives, input.Reason))
	invalidatePlayerStandings(ctx, s.cache, item)
	return s.getPlayer(ctx, item.ID)
}

func (s *PlayerService) Archive(ctx context.Context, playerID, reason string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Archive", playerAttribute(playerID))
	defer span.End()

	item, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return player.Player{}, err
	}
	if item.Archived() {
		return item, nil
	}

	if err := s.playerRepo.UpdateStatus(ctx, item.ID, player.StatusArchived); err != nil {
		return player.Player{}, fmt.Errorf("archive player: %w", err)
	}
	s.audit.Record(ctx, s.adminEntry(item, audit.ActionArchive, item.Lives, reason))
	invalidatePlayerStandings(ctx, s.cache, item)
	return s.getPlayer(ctx, item.ID)
}

// Unarchive restores the status implied by the player's lives.
func (s *PlayerService) Unarchive(ctx context.Context, playerID, reason string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Unarchive", playerAttribute(playerID))
	defer span.End()

	item, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return player.Player{}, err
	}
	if !item.Archived() {
		return item, nil
	}

	status := player.DeriveStatus(player.StatusActive, item.Lives)
	if err := s.playerRepo.UpdateStatus(ctx, item.ID, status); err != nil {
		return player.Player{}, fmt.Errorf("unarchive player: %w", err)
	}
	s.audit.Record(ctx, s.adminEntry(item, audit.ActionUnarchive, item.Lives, reason))
	invalidatePlayerStandings(ctx, s.cache, item)
	return s.getPlayer(ctx, item.ID)
}

func (s *PlayerService) Delete(ctx context.Context, playerID, reason string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Delete", playerAttribute(playerID))
	defer span.End()

	item, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	if err := s.playerRepo.Delete(ctx, item.ID); err != nil {
		if errors.Is(err, player.ErrNotFound) {
			return fmt.Errorf("%w: player=%s", ErrNotFound, item.ID)
		}
		return fmt.Errorf("delete player: %w", err)
	}
	s.audit.Record(ctx, s.adminEntry(item, audit.ActionDelete, 0, reason))
	invalidatePlayerStandings(ctx, s.cache, item)
	return nil
}

func (s *PlayerService) AuditTrail(ctx context.Context, playerID string, limit int) ([]audit.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.AuditTrail")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	entries, err := s.audit.ListByPlayer(ctx, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

func (s *PlayerService) getPlayer(ctx context.Context, playerID string) (player.Player, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	return item, nil
}

func (s *PlayerService) ensureRegistrationOpen(ctx context.Context, editionID edition.ID) error {
	if !editionID.Valid() {
		return fmt.Errorf("%w: invalid edition %q", ErrInvalidInput, editionID)
	}
	item, exists, err := s.editionRepo.GetByID(ctx, editionID)
	if err != nil {
		return fmt.Errorf("get edition: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: edition=%s", ErrNotFound, editionID)
	}
	if !item.RegistrationOpen(s.now()) {
		return fmt.Errorf("%w: registration for edition %s is closed", ErrConflict, editionID)
	}
	return nil
}

func (s *PlayerService) adminEntry(item player.Player, action string, newLives int, reason string) audit.Entry {
	return audit.Entry{
		Action:   action,
		PlayerID: item.ID,
		OldLives: item.Lives,
		NewLives: newLives,
		Edition:  item.ResolveEdition(),
		Reason:   strings.TrimSpace(reason),
	}
}
