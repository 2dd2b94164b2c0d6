package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("wallets", "/wallets")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/wallets/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("wallets", "/wallets")
		assert.Equal(t, "wallets", g.Name())
		assert.Equal(t, "/wallets", g.Prefix())
	})

	t.Run("methods are kept apart", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("wallets", "/wallets")
		g.GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, "get") })
		g.POST("/:id", func(c *gin.Context) { c.String(http.StatusCreated, "post") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/wallets/1", nil))
		assert.Equal(t, "get", w.Body.String())

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/wallets/1", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "post", w.Body.String())
	})

	t.Run("middleware applies to the group only", func(t *testing.T) {
		engine := gin.New()
		api := engine.Group("/api/v1")

		guarded := NewDomainGroup("outbox", "/outbox").Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusForbidden)
		})
		guarded.GET("/stats", func(c *gin.Context) { c.Status(http.StatusOK) })
		guarded.RegisterRoutes(api)

		open := NewDomainGroup("wallets", "/wallets")
		open.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
		open.RegisterRoutes(api)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/outbox/stats", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/wallets", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("subgroups nest under the parent prefix", func(t *testing.T) {
		engine := gin.New()
		system := NewDomainGroup("system", "/system")
		system.Group("outbox", "/outbox").GET("/dead", func(c *gin.Context) {
			c.String(http.StatusOK, "dead")
		})
		system.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/outbox/dead", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "dead", w.Body.String())
	})
}
