package handlers

import (
	"net/http"

	"agency-portal/internal/middleware"
	"agency-portal/internal/models"
	"agency-portal/internal/service"

	"github.com/gin-gonic/gin"
)

//
// КЛИЕНТЫ (админка)
//

type clientForm struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Company    string `json:"company"`
	AssignedID string `json:"assigned_id"`
}

type clientPatch struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Company *string `json:"company"`
}

func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.svc.ListClients(adminCtx(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, clients)
}

func (h *Handler) CreateClient(c *gin.Context) {
	var form clientForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	client, err := h.svc.CreateClient(adminCtx(c), service.CreateClientInput{
		Name:       form.Name,
		Email:      form.Email,
		Company:    form.Company,
		AssignedID: form.AssignedID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, client)
}

func (h *Handler) ShowClient(c *gin.Context) {
	client, err := h.svc.GetClient(adminCtx(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, client)
}

func (h *Handler) UpdateClient(c *gin.Context) {
	var patch clientPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	client, err := h.svc.UpdateClient(adminCtx(c), c.Param("id"), service.UpdateClientInput{
		Name:    patch.Name,
		Email:   patch.Email,
		Company: patch.Company,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, client)
}

func (h *Handler) DeleteClient(c *gin.Context) {
	if err := h.svc.DeleteClient(adminCtx(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

//
// ПОРТАЛ
//

// Me — карточка вошедшего клиента (кладёт middleware.InjectClient).
func (h *Handler) Me(c *gin.Context) {
	v, ok := c.Get(middleware.CurrentClientKey)
	client, _ := v.(*models.Client)
	if !ok || client == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "client login required"})
		return
	}
	respond(c, http.StatusOK, client)
}
