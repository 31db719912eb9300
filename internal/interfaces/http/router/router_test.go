package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRouterSetup(t *testing.T) {
	tests := []struct {
		name     string
		opts     []RouterOption
		wantBase string
	}{
		{"default version", nil, "/api/v1"},
		{"custom version", []RouterOption{WithAPIVersion("v2")}, "/api/v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			g := NewDomainGroup("uom", "/uom")
			g.GET("/units", func(c *gin.Context) { c.String(http.StatusOK, "units") })

			base := NewRouter(engine, tt.opts...).Register(g).Setup()

			assert.Equal(t, tt.wantBase, base)
			w := serve(t, engine, http.MethodGet, tt.wantBase+"/uom/units")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "units", w.Body.String())
		})
	}
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("uom", "/uom")
	ok := func(body string) gin.HandlerFunc {
		return func(c *gin.Context) { c.String(http.StatusOK, body) }
	}
	g.GET("/units", ok("get")).
		POST("/resolve", ok("post")).
		PUT("/units/:code", ok("put")).
		DELETE("/units/:code", ok("delete"))
	NewRouter(engine).Register(g).Setup()

	tests := []struct {
		method string
		target string
		want   string
	}{
		{http.MethodGet, "/api/v1/uom/units", "get"},
		{http.MethodPost, "/api/v1/uom/resolve", "post"},
		{http.MethodPut, "/api/v1/uom/units/KG", "put"},
		{http.MethodDelete, "/api/v1/uom/units/KG", "delete"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := serve(t, engine, tt.method, tt.target)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}

	assert.Equal(t, http.StatusNotFound, serve(t, engine, http.MethodGet, "/api/v1/uom/missing").Code)
}

func TestDomainGroup_Middleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("uom", "/uom").Use(func(c *gin.Context) {
		c.Header("X-Group", "uom")
		c.Next()
	})
	g.GET("/units", func(c *gin.Context) { c.Status(http.StatusOK) })
	NewRouter(engine).Register(g).Setup()

	w := serve(t, engine, http.MethodGet, "/api/v1/uom/units")
	assert.Equal(t, "uom", w.Header().Get("X-Group"))
}

func TestDomainGroup_Routes(t *testing.T) {
	g := NewDomainGroup("products", "/uom")
	g.GET("/products", nil).DELETE("/tiers/:id", nil)

	assert.Equal(t, "products", g.Name())
	assert.Equal(t, "/uom", g.Prefix())
	assert.Equal(t, []Route{
		{Method: http.MethodGet, Path: "/uom/products"},
		{Method: http.MethodDelete, Path: "/uom/tiers/:id"},
	}, g.Routes())
}

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine(EngineConfig{
		Mode:         gin.TestMode,
		ServiceName:  "uom-test",
		MaxBodyBytes: 16,
		CORSOrigins:  []string{"https://app.example.com"},
	}, zap.NewNop())
	require.NoError(t, err)

	engine.GET("/panic", func(c *gin.Context) { panic("boom") })
	engine.POST("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("recovers panics", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, serve(t, engine, http.MethodGet, "/panic").Code)
	})

	t.Run("echoes request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/echo", nil)
		req.Header.Set("X-Request-ID", "abc")
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
	})

	t.Run("answers preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/echo", nil)
		req.Header.Set("Origin", "https://app.example.com")
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("limits body size", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/echo", nil)
		req.ContentLength = 64
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
