package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/standing"
	"github.com/riskibarqy/last-man-standing/internal/usecase"
)

func (h *Handler) ProcessResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProcessResults")
	defer span.End()
	annotatePath(span, r)

	editionID, gameweek, err := keyFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.resultService.ProcessResults(ctx, editionID, gameweek)
	if err != nil {
		h.logger.ErrorContext(ctx, "process results failed", "edition", editionID, "gameweek", gameweek.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, processReportToDTO(report))
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()
	annotatePath(span, r)

	editionID, gameweek, err := keyFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	view, err := standing.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	snapshot, err := h.standingsService.ProjectStandings(ctx, editionID, gameweek, view)
	if err != nil {
		h.logger.WarnContext(ctx, "project standings failed", "edition", editionID, "gameweek", gameweek.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(snapshot))
}

type processReportDTO struct {
	Key              string            `json:"key"`
	Status           string            `json:"status"`
	FixturesEligible int               `json:"fixtures_eligible"`
	FixturesSettled  int               `json:"fixtures_settled"`
	FixturesSkipped  int               `json:"fixtures_skipped"`
	FixturesInvalid  int               `json:"fixtures_invalid"`
	PlayersScanned   int               `json:"players_scanned"`
	PlayersAffected  int               `json:"players_affected"`
	Succeeded        int               `json:"succeeded"`
	Retried          int               `json:"retried"`
	Failed           []failedPlayerDTO `json:"failed"`
	Changes          []lifeChangeDTO   `json:"changes"`
	Message          string            `json:"message,omitempty"`
}

type failedPlayerDTO struct {
	PlayerID string `json:"player_id"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error"`
}

type lifeChangeDTO struct {
	PlayerID string `json:"player_id"`
	OldLives int    `json:"old_lives"`
	NewLives int    `json:"new_lives"`
}

type standingsDTO struct {
	Key         string             `json:"key"`
	View        string             `json:"view"`
	Rows        []standingRowDTO   `json:"rows"`
	Summary     standingSummaryDTO `json:"summary"`
	GeneratedAt string             `json:"generated_at"`
}

type standingRowDTO struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	Lives       int    `json:"lives"`
	Pick        string `json:"pick,omitempty"`
	Result      string `json:"result"`
	Status      string `json:"status"`
	Provisional bool   `json:"provisional"`
}

type standingSummaryDTO struct {
	Total        int     `json:"total"`
	Survivors    int     `json:"survivors"`
	Eliminated   int     `json:"eliminated"`
	AverageLives float64 `json:"average_lives"`
}

func processReportToDTO(report usecase.ProcessReport) processReportDTO {
	failed := make([]failedPlayerDTO, 0, len(report.Failed))
	for _, item := range report.Failed {
		failed = append(failed, failedPlayerDTO{
			PlayerID: item.PlayerID,
			Attempts: item.Attempts,
			Error:    item.Error,
		})
	}
	changes := make([]lifeChangeDTO, 0, len(report.Changes))
	for _, item := range report.Changes {
		changes = append(changes, lifeChangeDTO{
			PlayerID: item.PlayerID,
			OldLives: item.OldLives,
			NewLives: item.NewLives,
		})
	}

	return processReportDTO{
		Key:              report.Key.String(),
		Status:           report.Status,
		FixturesEligible: report.FixturesEligible,
		FixturesSettled:  report.FixturesSettled,
		FixturesSkipped:  report.FixturesSkipped,
		FixturesInvalid:  report.FixturesInvalid,
		PlayersScanned:   report.PlayersScanned,
		PlayersAffected:  report.PlayersAffected,
		Succeeded:        report.Succeeded,
		Retried:          report.Retried,
		Failed:           failed,
		Changes:          changes,
		Message:          report.Message,
	}
}

func snapshotToDTO(snapshot standing.Snapshot) standingsDTO {
	rows := make([]standingRowDTO, 0, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		rows = append(rows, standingRowDTO{
			PlayerID:    row.PlayerID,
			Name:        row.Name,
			Lives:       row.Lives,
			Pick:        row.Pick,
			Result:      string(row.Result),
			Status:      string(row.Status),
			Provisional: row.Provisional,
		})
	}

	return standingsDTO{
		Key:  snapshot.Key.String(),
		View: string(snapshot.View),
		Rows: rows,
		Summary: standingSummaryDTO{
			Total:        snapshot.Summary.Total,
			Survivors:    snapshot.Summary.Survivors,
			Eliminated:   snapshot.Summary.Eliminated,
			AverageLives: snapshot.Summary.AverageLives,
		},
		GeneratedAt: snapshot.GeneratedAt.UTC().Format(time.RFC3339),
	}
}
