package server

import (
	"net/http"

	"agency-portal/internal/handlers"
	"agency-portal/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	sessionName   = "agency_session"
	sessionMaxAge = 7 * 24 * 60 * 60
)

type Options struct {
	SessionSecret string
	// SecureCookie — отдавать cookie только по HTTPS.
	SecureCookie bool
}

func NewRouter(opts Options, h *handlers.Handler, clients middleware.ClientGetter) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.Use(middleware.InjectClient(clients))

	// ГЛАВНАЯ
	r.GET("/", h.Index)

	// АДМИНКА
	r.POST("/admin/login", h.AdminLogin)
	r.POST("/admin/logout", h.AdminLogout)

	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/clients", h.ListClients)
	admin.POST("/clients", h.CreateClient)
	admin.GET("/clients/:id", h.ShowClient)
	admin.PATCH("/clients/:id", h.UpdateClient)
	admin.DELETE("/clients/:id", h.DeleteClient)

	admin.GET("/projects", h.ListProjects)
	admin.POST("/projects", h.CreateProject)
	admin.GET("/projects/:id", h.ShowProject)
	admin.PUT("/projects/:id/stages", h.UpdateStage)
	admin.POST("/projects/:id/complete", h.CompleteProject)

	admin.GET("/tickets", h.ListTickets)
	admin.PATCH("/tickets/:id/status", h.ChangeTicketStatus)
	admin.POST("/tickets/:id/response", h.RespondToTicket)

	admin.GET("/submissions", h.ListSubmissions)
	admin.PATCH("/submissions/:id/status", h.ChangeSubmissionStatus)

	admin.GET("/audit", h.ListAuditLogs)

	// ПОРТАЛ КЛИЕНТА
	r.POST("/portal/login", h.ClientLogin)
	r.POST("/portal/logout", h.ClientLogout)

	portal := r.Group("/portal")
	portal.Use(middleware.RequireClient())

	portal.GET("/me", h.Me)
	portal.GET("/projects", h.MyProjects)
	portal.GET("/projects/:id", h.MyProject)
	portal.GET("/tickets", h.MyTickets)
	portal.POST("/tickets", h.CreateTicket)
	portal.GET("/submissions", h.MySubmissions)
	portal.POST("/submissions", h.CreateSubmission)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
