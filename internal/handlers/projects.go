package handlers

import (
	"net/http"
	"time"

	"agency-portal/internal/service"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

//
// ПРОЕКТЫ (админка)
//

type projectForm struct {
	ClientID    string `json:"client_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Lead        string `json:"lead"`
	StartDate   string `json:"start_date"` // YYYY-MM-DD или RFC 3339
}

type stageForm struct {
	Stage                string `json:"stage" binding:"required"`
	CompletionPercentage *int   `json:"completion_percentage" binding:"required"`
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ListProjects — все проекты или только клиента из ?client_id=.
func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.svc.ListProjects(adminCtx(c), c.Query("client_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, projects)
}

func (h *Handler) CreateProject(c *gin.Context) {
	var form projectForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	var start time.Time
	if form.StartDate != "" {
		t, err := parseDate(form.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date: must be a valid date", "field": "start_date"})
			return
		}
		start = t
	}

	project, err := h.svc.CreateProject(adminCtx(c), service.CreateProjectInput{
		ClientID:    form.ClientID,
		Title:       form.Title,
		Description: form.Description,
		Lead:        form.Lead,
		StartDate:   start,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, project)
}

func (h *Handler) ShowProject(c *gin.Context) {
	project, err := h.svc.GetProject(adminCtx(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, project)
}

func (h *Handler) UpdateStage(c *gin.Context) {
	var form stageForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "stage and completion_percentage are required")
		return
	}

	project, err := h.svc.UpdateStageProgress(adminCtx(c), c.Param("id"), form.Stage, *form.CompletionPercentage)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, project)
}

func (h *Handler) CompleteProject(c *gin.Context) {
	project, err := h.svc.MarkProjectComplete(adminCtx(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, project)
}

//
// ПОРТАЛ
//

func (h *Handler) MyProjects(c *gin.Context) {
	ctx, clientID := clientCtx(c)
	projects, err := h.svc.ListProjects(ctx, clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, projects)
}

func (h *Handler) MyProject(c *gin.Context) {
	ctx, clientID := clientCtx(c)
	project, err := h.svc.GetClientProject(ctx, clientID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, project)
}
