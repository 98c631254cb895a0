package middleware

import (
	"net/http"

	"agency-portal/internal/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const ClientIDKey = "ClientID"

// RequireAdmin пропускает только сессии с флагом администратора.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.IsAdminAuthenticated(sessions.Default(c)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin login required"})
			return
		}
		c.Next()
	}
}

// RequireClient пропускает только сессии с вошедшим клиентом и кладёт его ID в контекст.
func RequireClient() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, ok := session.CurrentClientID(sessions.Default(c))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "client login required"})
			return
		}
		c.Set(ClientIDKey, clientID)
		c.Next()
	}
}
