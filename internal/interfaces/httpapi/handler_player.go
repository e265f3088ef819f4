package httpapi

import (
	"net/http"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/player"
	"github.com/riskibarqy/last-man-standing/internal/usecase"
)

func (h *Handler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterPlayer")
	defer span.End()

	var req registerPlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	editions, err := parseEditionIDs(req.Editions)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.playerService.Register(ctx, usecase.RegisterPlayerInput{
		Name:     req.Name,
		Editions: editions,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register player failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(created))
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()
	annotatePath(span, r)

	playerID := playerIDFromPath(r)
	item, err := h.playerService.Get(ctx, playerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) ListPlayersByEdition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayersByEdition")
	defer span.End()
	annotatePath(span, r)

	editionID, err := editionFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.playerService.ListByEdition(ctx, editionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "edition", editionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, item := range players {
		items = append(items, playerToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) SubmitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPick")
	defer span.End()
	annotatePath(span, r)

	editionID, gameweek, err := keyFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req submitPickRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	playerID := playerIDFromPath(r)
	key, err := h.playerService.SubmitPick(ctx, usecase.SubmitPickInput{
		PlayerID: playerID,
		Edition:  editionID,
		Gameweek: gameweek,
		Team:     req.Team,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit pick failed", "player_id", playerID, "edition", editionID, "gameweek", gameweek.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	item, err := h.playerService.Get(ctx, playerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	pick, _ := item.PickFor(key)
	writeSuccess(ctx, w, http.StatusOK, pickDTO{Key: key.String(), Team: pick})
}

func (h *Handler) GetPickHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPickHistory")
	defer span.End()
	annotatePath(span, r)

	editionID, err := editionFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	playerID := playerIDFromPath(r)
	history, err := h.playerService.PickHistory(ctx, playerID, editionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get pick history failed", "player_id", playerID, "edition", editionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]pickHistoryDTO, 0, len(history))
	for _, entry := range history {
		items = append(items, pickHistoryDTO{
			Key:       entry.Key.String(),
			Gameweek:  entry.Key.Gameweek.Key(),
			Pick:      entry.Pick,
			Opponent:  entry.Opponent,
			HomeTeam:  entry.HomeTeam,
			AwayTeam:  entry.AwayTeam,
			HomeScore: entry.HomeScore,
			AwayScore: entry.AwayScore,
			Outcome:   string(entry.Outcome),
		})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RegisterPlayerEdition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterPlayerEdition")
	defer span.End()
	annotatePath(span, r)

	editionID, err := editionFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.playerService.RegisterEdition(ctx, playerIDFromPath(r), editionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(updated))
}

func (h *Handler) SetPlayerDefaultEdition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetPlayerDefaultEdition")
	defer span.End()
	annotatePath(span, r)

	var req defaultEditionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	editions, err := parseEditionIDs([]string{req.Edition})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.playerService.SetDefaultEdition(ctx, playerIDFromPath(r), editions[0])
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(updated))
}

type registerPlayerRequest struct {
	Name     string   `json:"name" validate:"required,max=100"`
	Editions []string `json:"editions" validate:"omitempty,dive,required"`
}

type submitPickRequest struct {
	Team string `json:"team" validate:"required,max=100"`
}

type defaultEditionRequest struct {
	Edition string `json:"edition" validate:"required"`
}

type playerDTO struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Lives          int               `json:"lives"`
	Status         string            `json:"status"`
	Registrations  []string          `json:"registrations"`
	DefaultEdition string            `json:"default_edition"`
	Picks          map[string]string `json:"picks"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`
}

type pickDTO struct {
	Key  string `json:"key"`
	Team string `json:"team"`
}

type pickHistoryDTO struct {
	Key       string `json:"key"`
	Gameweek  string `json:"gameweek"`
	Pick      string `json:"pick"`
	Opponent  string `json:"opponent,omitempty"`
	HomeTeam  string `json:"home_team,omitempty"`
	AwayTeam  string `json:"away_team,omitempty"`
	HomeScore *int   `json:"home_score"`
	AwayScore *int   `json:"away_score"`
	Outcome   string `json:"outcome"`
}

func playerToDTO(item player.Player) playerDTO {
	registrations := make([]string, 0, len(item.Registrations))
	for _, id := range item.Registrations {
		registrations = append(registrations, id.String())
	}
	picks := make(map[string]string, len(item.Picks))
	for key, team := range item.Picks {
		picks[key] = team
	}

	return playerDTO{
		ID:             item.ID,
		Name:           item.Name,
		Lives:          item.Lives,
		Status:         string(item.Status),
		Registrations:  registrations,
		DefaultEdition: item.ResolveEdition().String(),
		Picks:          picks,
		CreatedAt:      item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
