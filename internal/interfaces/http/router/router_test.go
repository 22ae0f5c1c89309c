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

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("numbering", "/document-numbers").
		POST("", func(c *gin.Context) { c.String(http.StatusCreated, "issued") }).
		POST("/preview", func(c *gin.Context) { c.String(http.StatusOK, "preview") })
	r.Register(group)
	r.Setup()

	tests := []struct {
		method, path string
		wantStatus   int
		wantBody     string
	}{
		{http.MethodPost, "/api/v1/document-numbers", http.StatusCreated, "issued"},
		{http.MethodPost, "/api/v1/document-numbers/preview", http.StatusOK, "preview"},
		{http.MethodGet, "/api/v1/document-numbers", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("templates", "/document-templates")
		assert.Equal(t, "templates", g.Name())
		assert.Equal(t, "/document-templates", g.Prefix())
	})

	t.Run("routes with params", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("templates", "/document-templates").
			GET("/:docCode", func(c *gin.Context) { c.String(http.StatusOK, "get "+c.Param("docCode")) }).
			PUT("/:docCode", func(c *gin.Context) { c.String(http.StatusOK, "put "+c.Param("docCode")) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/document-templates/INV", nil))
		assert.Equal(t, "get INV", w.Body.String())

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/document-templates/PO", nil))
		assert.Equal(t, "put PO", w.Body.String())
	})

	t.Run("group middleware runs before handlers", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("purchases", "/purchases").
			Use(func(c *gin.Context) {
				c.Header("X-Group", "purchases")
				c.Next()
			}).
			POST("/:id/amortization/recalculate", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/purchases/p1/amortization/recalculate", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "purchases", w.Header().Get("X-Group"))
	})
}
