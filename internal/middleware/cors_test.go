package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yigit/uniportal/internal/config"
)

func corsRouter(cfg config.CORSConfig) *gin.Engine {
	router := gin.New()
	router.Use(CORS(cfg))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	restricted := config.CORSConfig{AllowedOrigins: []string{"https://portal.uni.edu"}, MaxAge: "1h"}

	tests := []struct {
		name       string
		cfg        config.CORSConfig
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{"preflight from any origin", config.CORSConfig{AllowedOrigins: []string{"*"}}, http.MethodOptions, "https://app.uni.edu", http.StatusNoContent, "*"},
		{"empty origin list admits all", config.CORSConfig{}, http.MethodGet, "https://app.uni.edu", http.StatusOK, "*"},
		{"listed origin is echoed", restricted, http.MethodGet, "https://portal.uni.edu", http.StatusOK, "https://portal.uni.edu"},
		{"preflight from listed origin", restricted, http.MethodOptions, "https://portal.uni.edu", http.StatusNoContent, "https://portal.uni.edu"},
		{"unlisted origin is refused", restricted, http.MethodGet, "https://evil.example", http.StatusForbidden, ""},
		{"request without origin passes", restricted, http.MethodGet, "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/x", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			}

			w := httptest.NewRecorder()
			corsRouter(tt.cfg).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
