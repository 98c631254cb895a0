package handlers

import (
	"net/http"

	"agency-portal/internal/models"
	"agency-portal/internal/service"

	"github.com/gin-gonic/gin"
)

type ticketForm struct {
	ProjectID string                `json:"project_id"`
	Subject   string                `json:"subject"`
	Message   string                `json:"message"`
	Priority  models.TicketPriority `json:"priority"`
}

type ticketStatusForm struct {
	Status models.TicketStatus `json:"status" binding:"required"`
}

type ticketResponseForm struct {
	Response string `json:"response" binding:"required"`
}

//
// ТИКЕТЫ (админка)
//

func (h *Handler) ListTickets(c *gin.Context) {
	tickets, err := h.svc.ListTickets(adminCtx(c), c.Query("client_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, tickets)
}

func (h *Handler) ChangeTicketStatus(c *gin.Context) {
	var form ticketStatusForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "status is required")
		return
	}

	ticket, err := h.svc.SetTicketStatus(adminCtx(c), c.Param("id"), form.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, ticket)
}

func (h *Handler) RespondToTicket(c *gin.Context) {
	var form ticketResponseForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "response is required")
		return
	}

	ticket, err := h.svc.RespondToTicket(adminCtx(c), c.Param("id"), form.Response)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, ticket)
}

//
// ПОРТАЛ
//

func (h *Handler) MyTickets(c *gin.Context) {
	ctx, clientID := clientCtx(c)
	tickets, err := h.svc.ListTickets(ctx, clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, tickets)
}

func (h *Handler) CreateTicket(c *gin.Context) {
	var form ticketForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx, clientID := clientCtx(c)
	ticket, err := h.svc.CreateTicket(ctx, clientID, service.CreateTicketInput{
		ProjectID: form.ProjectID,
		Subject:   form.Subject,
		Message:   form.Message,
		Priority:  form.Priority,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, ticket)
}
