package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/audit"
	"github.com/riskibarqy/last-man-standing/internal/usecase"
)

func (h *Handler) AdjustPlayerLives(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdjustPlayerLives")
	defer span.End()
	annotatePath(span, r)

	var req adjustLivesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	playerID := playerIDFromPath(r)
	updated, err := h.playerService.AdjustLives(ctx, usecase.AdjustLivesInput{
		PlayerID: playerID,
		Lives:    *req.Lives,
		Reason:   req.Reason,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "adjust lives failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "player lives adjusted", "player_id", playerID, "lives", updated.Lives)
	writeSuccess(ctx, w, http.StatusOK, playerToDTO(updated))
}

func (h *Handler) ArchivePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ArchivePlayer")
	defer span.End()
	annotatePath(span, r)

	req, err := decodeOptionalReason(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.playerService.Archive(ctx, playerIDFromPath(r), req.Reason)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(updated))
}

func (h *Handler) UnarchivePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnarchivePlayer")
	defer span.End()
	annotatePath(span, r)

	req, err := decodeOptionalReason(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.playerService.Unarchive(ctx, playerIDFromPath(r), req.Reason)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(updated))
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePlayer")
	defer span.End()
	annotatePath(span, r)

	playerID := playerIDFromPath(r)
	reason := strings.TrimSpace(r.URL.Query().Get("reason"))
	if err := h.playerService.Delete(ctx, playerID, reason); err != nil {
		h.logger.WarnContext(ctx, "delete player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "player deleted", "player_id", playerID)
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": playerID})
}

func (h *Handler) GetPlayerAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerAuditTrail")
	defer span.End()
	annotatePath(span, r)

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	entries, err := h.playerService.AuditTrail(ctx, playerIDFromPath(r), limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]auditEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, auditEntryToDTO(entry))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

type adjustLivesRequest struct {
	Lives  *int   `json:"lives" validate:"required,min=0"`
	Reason string `json:"reason" validate:"required,max=500"`
}

type reasonRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type auditEntryDTO struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	PlayerID  string `json:"player_id"`
	OldLives  int    `json:"old_lives"`
	NewLives  int    `json:"new_lives"`
	Edition   string `json:"edition,omitempty"`
	Gameweek  string `json:"gameweek,omitempty"`
	Pick      string `json:"pick,omitempty"`
	Result    string `json:"result,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp"`
}

// decodeOptionalReason accepts an empty body.
func decodeOptionalReason(r *http.Request) (reasonRequest, error) {
	var req reasonRequest
	if r.ContentLength == 0 {
		return req, nil
	}
	if err := decodeJSON(r, &req); err != nil {
		return reasonRequest{}, err
	}
	return req, nil
}

func auditEntryToDTO(entry audit.Entry) auditEntryDTO {
	out := auditEntryDTO{
		ID:        entry.ID,
		Action:    entry.Action,
		PlayerID:  entry.PlayerID,
		OldLives:  entry.OldLives,
		NewLives:  entry.NewLives,
		Edition:   entry.Edition.String(),
		Pick:      entry.Pick,
		Result:    entry.Result,
		Reason:    entry.Reason,
		Timestamp: entry.Timestamp.UTC().Format(time.RFC3339),
	}
	if entry.Gameweek.Valid() {
		out.Gameweek = entry.Gameweek.Key()
	}
	return out
}
