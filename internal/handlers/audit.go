package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListAuditLogs — последние записи журнала, ?limit= не больше 200.
func (h *Handler) ListAuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	logs, err := h.svc.ListAuditLogs(adminCtx(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, logs)
}
