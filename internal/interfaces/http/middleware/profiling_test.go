package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.Contains(t, cfg.SkipPaths, "/health")
}

func TestProfiling_HandlerRuns(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProfilingConfig
		pattern string
		path    string
	}{
		{"disabled", ProfilingConfig{}, "/api/v1/records/:uuid", "/api/v1/records/abc"},
		{"labeled route", DefaultProfilingConfig(), "/api/v1/records/:uuid", "/api/v1/records/abc"},
		{"skipped path", DefaultProfilingConfig(), "/health", "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(Profiling(tt.cfg))

			called := false
			r.GET(tt.pattern, func(c *gin.Context) {
				called = true
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, called)
		})
	}
}

func TestProfiling_UnmatchedRoute(t *testing.T) {
	r := gin.New()
	r.Use(Profiling(DefaultProfilingConfig()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ----------------------------------------------------------------------------

func TestResourceFromRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/api/v1/records/:uuid/handle/:serverId", "records"},
		{"/api/v1/registryservers/records/:uuid", "registryservers"},
		{"/api/v2/system/info", "system"},
		{"/health", "health"},
		{"/api/v1/:id", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			assert.Equal(t, tt.want, resourceFromRoute(tt.route))
		})
	}
}
