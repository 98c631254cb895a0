package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"agency-portal/internal/middleware"
	"agency-portal/internal/service"
	"agency-portal/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc  *service.Service
	auth *session.Authenticator
}

func New(svc *service.Service, auth *session.Authenticator) *Handler {
	return &Handler{svc: svc, auth: auth}
}

// respond — успешный ответ в обёртке {"data": ...}.
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// respondError переводит ошибки сервиса в HTTP-статусы.
func respondError(c *gin.Context, err error) {
	var (
		ve *service.ValidationError
		nf *service.NotFoundError
		ce *service.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, gin.H{"error": ce.Error()})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func adminCtx(c *gin.Context) context.Context {
	return service.WithActor(c.Request.Context(), service.ActorAdmin)
}

// clientCtx — контекст и ID клиента, положенный middleware.RequireClient.
func clientCtx(c *gin.Context) (context.Context, string) {
	id := c.GetString(middleware.ClientIDKey)
	return service.WithActor(c.Request.Context(), id), id
}
