package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/usecase"
)

func (h *Handler) GetFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixtures")
	defer span.End()
	annotatePath(span, r)

	editionID, gameweek, err := keyFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	list, err := h.fixtureService.GetList(ctx, editionID, gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "get fixtures failed", "edition", editionID, "gameweek", gameweek.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureListToDTO(list))
}

func (h *Handler) ListFixtureKeys(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtureKeys")
	defer span.End()
	annotatePath(span, r)

	editionID, err := editionFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	keys, err := h.fixtureService.ListKeys(ctx, editionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixture keys failed", "edition", editionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]string, 0, len(keys))
	for _, key := range keys {
		items = append(items, key.String())
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) SaveFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveFixtures")
	defer span.End()
	annotatePath(span, r)

	editionID, gameweek, err := keyFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req saveFixturesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtures, err := fixturesFromRequest(ctx, req.Fixtures)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.fixtureService.SaveList(ctx, usecase.SaveFixturesInput{
		Edition:          editionID,
		Gameweek:         gameweek,
		Fixtures:         fixtures,
		ProcessAfterSave: req.ProcessResults,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save fixtures failed", "edition", editionID, "gameweek", gameweek.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	resp := saveFixturesResponse{Fixtures: fixtureListToDTO(result.List)}
	if result.Report != nil {
		report := processReportToDTO(*result.Report)
		resp.Report = &report
	}
	writeSuccess(ctx, w, http.StatusOK, resp)
}

type saveFixturesRequest struct {
	Fixtures       []fixtureRequest `json:"fixtures" validate:"required,dive"`
	ProcessResults bool             `json:"process_results"`
}

type fixtureRequest struct {
	ID          string `json:"id" validate:"max=64"`
	HomeTeam    string `json:"home_team" validate:"required,max=100"`
	AwayTeam    string `json:"away_team" validate:"required,max=100"`
	HomeScore   *int   `json:"home_score" validate:"omitempty,min=0"`
	AwayScore   *int   `json:"away_score" validate:"omitempty,min=0"`
	HomeScoreHT *int   `json:"home_score_ht" validate:"omitempty,min=0"`
	AwayScoreHT *int   `json:"away_score_ht" validate:"omitempty,min=0"`
	Status      string `json:"status"`
	Completed   bool   `json:"completed"`
	KickoffAt   string `json:"kickoff_at"`
}

type fixtureListDTO struct {
	Key       string       `json:"key"`
	Edition   string       `json:"edition,omitempty"`
	Gameweek  string       `json:"gameweek"`
	Fixtures  []fixtureDTO `json:"fixtures"`
	UpdatedAt string       `json:"updated_at,omitempty"`
}

type fixtureDTO struct {
	ID          string `json:"id"`
	HomeTeam    string `json:"home_team"`
	AwayTeam    string `json:"away_team"`
	HomeScore   *int   `json:"home_score"`
	AwayScore   *int   `json:"away_score"`
	HomeScoreHT *int   `json:"home_score_ht,omitempty"`
	AwayScoreHT *int   `json:"away_score_ht,omitempty"`
	Status      string `json:"status"`
	Completed   bool   `json:"completed"`
	KickoffAt   string `json:"kickoff_at,omitempty"`
}

type saveFixturesResponse struct {
	Fixtures fixtureListDTO    `json:"fixtures"`
	Report   *processReportDTO `json:"report,omitempty"`
}

func fixturesFromRequest(ctx context.Context, items []fixtureRequest) ([]fixture.Fixture, error) {
	_, span := startSpan(ctx, "httpapi.fixturesFromRequest")
	defer span.End()

	out := make([]fixture.Fixture, 0, len(items))
	for i, item := range items {
		f := fixture.Fixture{
			ID:          strings.TrimSpace(item.ID),
			HomeTeam:    strings.TrimSpace(item.HomeTeam),
			AwayTeam:    strings.TrimSpace(item.AwayTeam),
			HomeScore:   item.HomeScore,
			AwayScore:   item.AwayScore,
			HomeScoreHT: item.HomeScoreHT,
			AwayScoreHT: item.AwayScoreHT,
			Status:      fixture.NormalizeStatus(item.Status),
			Completed:   item.Completed,
		}
		if raw := strings.TrimSpace(item.KickoffAt); raw != "" {
			kickoff, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return nil, fmt.Errorf("%w: fixtures[%d].kickoff_at must be RFC3339", usecase.ErrInvalidInput, i)
			}
			kickoff = kickoff.UTC()
			f.KickoffAt = &kickoff
		}
		out = append(out, f)
	}
	return out, nil
}

func fixtureListToDTO(list fixture.List) fixtureListDTO {
	items := make([]fixtureDTO, 0, len(list.Fixtures))
	for _, f := range list.Fixtures {
		item := fixtureDTO{
			ID:          f.Ref(),
			HomeTeam:    f.HomeTeam,
			AwayTeam:    f.AwayTeam,
			HomeScore:   f.HomeScore,
			AwayScore:   f.AwayScore,
			HomeScoreHT: f.HomeScoreHT,
			AwayScoreHT: f.AwayScoreHT,
			Status:      string(f.Status),
			Completed:   f.Completed,
		}
		if f.KickoffAt != nil {
			item.KickoffAt = f.KickoffAt.UTC().Format(time.RFC3339)
		}
		items = append(items, item)
	}

	out := fixtureListDTO{
		Key:      list.Key.String(),
		Edition:  list.Key.Edition.String(),
		Gameweek: list.Key.Gameweek.Key(),
		Fixtures: items,
	}
	if !list.UpdatedAt.IsZero() {
		out.UpdatedAt = list.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}
