package handlers

import (
	"encoding/json"
	"net/http"

	"agency-portal/internal/models"

	"github.com/gin-gonic/gin"
)

type submissionForm struct {
	Type models.SubmissionType `json:"type" binding:"required"`
	Data json.RawMessage       `json:"data"`
}

type submissionStatusForm struct {
	Status models.SubmissionStatus `json:"status" binding:"required"`
}

//
// ЗАЯВКИ (админка)
//

func (h *Handler) ListSubmissions(c *gin.Context) {
	subs, err := h.svc.ListSubmissions(adminCtx(c), c.Query("client_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, subs)
}

func (h *Handler) ChangeSubmissionStatus(c *gin.Context) {
	var form submissionStatusForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "status is required")
		return
	}

	sub, err := h.svc.SetSubmissionStatus(adminCtx(c), c.Param("id"), form.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, sub)
}

//
// ПОРТАЛ
//

func (h *Handler) MySubmissions(c *gin.Context) {
	ctx, clientID := clientCtx(c)
	subs, err := h.svc.ListSubmissions(ctx, clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, subs)
}

func (h *Handler) CreateSubmission(c *gin.Context) {
	var form submissionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "type is required")
		return
	}

	ctx, clientID := clientCtx(c)
	sub, err := h.svc.CreateSubmission(ctx, clientID, form.Type, form.Data)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, sub)
}
