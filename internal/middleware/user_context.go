package middleware

import (
	"context"
	"errors"
	"log"

	"agency-portal/internal/models"
	"agency-portal/internal/service"
	"agency-portal/internal/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CurrentClientKey = "CurrentClient"

type ClientGetter interface {
	GetClient(ctx context.Context, id string) (*models.Client, error)
}

// InjectClient подгружает запись вошедшего клиента. Если клиента уже удалили,
// слот клиента в сессии очищается.
func InjectClient(clients ClientGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if id, ok := session.CurrentClientID(sess); ok {
			client, err := clients.GetClient(c.Request.Context(), id)
			var nf *service.NotFoundError
			switch {
			case err == nil:
				c.Set(CurrentClientKey, client)
			case errors.As(err, &nf):
				sess.Delete(session.KeyClientID)
				_ = sess.Save()
			default:
				log.Printf("failed to load current client %s: %v", id, err)
			}
		}

		c.Next()
	}
}
