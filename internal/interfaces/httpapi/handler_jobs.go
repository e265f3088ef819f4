package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/last-man-standing/internal/usecase"
)

func (h *Handler) RunSettlementJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSettlementJob")
	defer span.End()

	if h.settlementService == nil {
		writeError(ctx, w, fmt.Errorf("%w: settlement job is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.settlementService.Run(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run settlement job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "settlement job completed",
		"target_count", result.TargetCount,
		"success_count", result.SuccessCount,
		"failed_count", result.FailedCount,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}
