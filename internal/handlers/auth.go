package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type adminLoginForm struct {
	Secret string `json:"secret" form:"secret" binding:"required"`
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var form adminLoginForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "secret is required")
		return
	}

	sess := sessions.Default(c)
	ok := h.auth.LoginAdmin(sess, form.Secret)
	_ = sess.Save()

	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid secret"})
		return
	}
	respond(c, http.StatusOK, gin.H{"is_admin": true})
}

func (h *Handler) AdminLogout(c *gin.Context) {
	sess := sessions.Default(c)
	h.auth.LogoutAdmin(sess)
	_ = sess.Save()
	c.Status(http.StatusNoContent)
}

type clientLoginForm struct {
	Code string `json:"code" form:"code" binding:"required"`
}

func (h *Handler) ClientLogin(c *gin.Context) {
	var form clientLoginForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "code is required")
		return
	}

	sess := sessions.Default(c)
	client, err := h.auth.LoginClient(c.Request.Context(), sess, form.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = sess.Save()

	if client == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown client code"})
		return
	}
	respond(c, http.StatusOK, client)
}

func (h *Handler) ClientLogout(c *gin.Context) {
	sess := sessions.Default(c)
	h.auth.LogoutClient(sess)
	_ = sess.Save()
	c.Status(http.StatusNoContent)
}
