package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"agency-portal/internal/models"
	"agency-portal/internal/service"
	"agency-portal/internal/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubClients map[string]*models.Client

func (s stubClients) GetClient(_ context.Context, id string) (*models.Client, error) {
	if c, ok := s[id]; ok {
		return c, nil
	}
	if id == "broken" {
		return nil, errors.New("db down")
	}
	return nil, &service.NotFoundError{Entity: "client", ID: id}
}

// newEngine поднимает роутер с cookie-сессией; /set/:key кладёт значение в слот.
func newEngine(clients ClientGetter) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("test", cookie.NewStore([]byte("secret"))))
	r.GET("/set/admin", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set(session.KeyAdmin, true)
		_ = s.Save()
	})
	r.GET("/set/client/:id", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set(session.KeyClientID, c.Param("id"))
		_ = s.Save()
	})

	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/portal", InjectClient(clients), RequireClient(), func(c *gin.Context) {
		v, _ := c.Get(CurrentClientKey)
		client, _ := v.(*models.Client)
		name := ""
		if client != nil {
			name = client.Name
		}
		c.String(http.StatusOK, c.GetString(ClientIDKey)+"|"+name)
	})
	return r
}

func get(r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAdmin(t *testing.T) {
	r := newEngine(stubClients{})

	assert.Equal(t, http.StatusUnauthorized, get(r, "/admin", nil).Code)

	cookies := get(r, "/set/admin", nil).Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, http.StatusOK, get(r, "/admin", cookies).Code)
}

func TestRequireClient(t *testing.T) {
	r := newEngine(stubClients{"c-1": {ID: "c-1", Name: "Red"}})

	assert.Equal(t, http.StatusUnauthorized, get(r, "/portal", nil).Code)

	cookies := get(r, "/set/client/c-1", nil).Result().Cookies()
	w := get(r, "/portal", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c-1|Red", w.Body.String())

	// админский флаг не даёт доступа к порталу
	adminOnly := get(r, "/set/admin", nil).Result().Cookies()
	assert.Equal(t, http.StatusUnauthorized, get(r, "/portal", adminOnly).Code)
}

func TestInjectClient_DeletedClientDropsSlot(t *testing.T) {
	r := newEngine(stubClients{})

	cookies := get(r, "/set/client/gone", nil).Result().Cookies()
	assert.Equal(t, http.StatusUnauthorized, get(r, "/portal", cookies).Code)
}

func TestInjectClient_StoreErrorKeepsSlot(t *testing.T) {
	r := newEngine(stubClients{})

	cookies := get(r, "/set/client/broken", nil).Result().Cookies()
	w := get(r, "/portal", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "broken|", w.Body.String())
}
