package handlers

import (
	"net/http"

	"agency-portal/internal/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Index — какие слоты входа сейчас заняты; публичный сайт решает, что показывать.
func (h *Handler) Index(c *gin.Context) {
	sess := sessions.Default(c)
	_, isClient := session.CurrentClientID(sess)

	respond(c, http.StatusOK, gin.H{
		"is_admin":  session.IsAdminAuthenticated(sess),
		"is_client": isClient,
	})
}
