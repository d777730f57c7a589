package handlers

import (
	"Inventaris/internal/service"
	"net/http"

	"go.uber.org/zap"
)

type AuditHandler struct {
	Auditor *service.Auditor
	Logger  *zap.SugaredLogger
}

func NewAuditHandler(auditor *service.Auditor, logger *zap.SugaredLogger) *AuditHandler {
	return &AuditHandler{Auditor: auditor, Logger: logger}
}

// Check запускает сверку остатков и отдаёт нарушения.
func (h *AuditHandler) Check(w http.ResponseWriter, r *http.Request) {
	violations, err := h.Auditor.Report(r.Context(), caller(r))
	if err != nil {
		writeServiceError(w, r, h.Logger, "Audit", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         len(violations) == 0,
		"violations": violations,
	})
}
