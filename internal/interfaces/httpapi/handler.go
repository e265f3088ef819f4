package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/last-man-standing/internal/domain/edition"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
	"github.com/riskibarqy/last-man-standing/internal/usecase"
)

type Handler struct {
	resultService     *usecase.ResultService
	standingsService  *usecase.StandingsService
	fixtureService    *usecase.FixtureService
	playerService     *usecase.PlayerService
	settlementService *usecase.SettlementJobService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	resultService *usecase.ResultService,
	standingsService *usecase.StandingsService,
	fixtureService *usecase.FixtureService,
	playerService *usecase.PlayerService,
	settlementService *usecase.SettlementJobService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		resultService:     resultService,
		standingsService:  standingsService,
		fixtureService:    fixtureService,
		playerService:     playerService,
		settlementService: settlementService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSON rejects unknown fields so typos in admin payloads are not
// silently dropped.
func decodeJSON(r *http.Request, out any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func editionFromPath(r *http.Request) (edition.ID, error) {
	id, err := edition.ParseID(r.PathValue("edition"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return id, nil
}

func keyFromPath(r *http.Request) (edition.ID, edition.Gameweek, error) {
	id, err := editionFromPath(r)
	if err != nil {
		return "", 0, err
	}
	gw, err := edition.ParseGameweek(r.PathValue("gameweek"))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return id, gw, nil
}

func parseEditionIDs(raw []string) ([]edition.ID, error) {
	out := make([]edition.ID, 0, len(raw))
	for _, item := range raw {
		id, err := edition.ParseID(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func playerIDFromPath(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("playerID"))
}
