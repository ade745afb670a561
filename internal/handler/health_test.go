package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lisura123/AXG-Photo-sub001/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthServer(checks map[string]handler.HealthCheck) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", handler.Health(checks))
	return r
}

type healthBody struct {
	Success      bool              `json:"success"`
	Service      string            `json:"service"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func TestHealthAllDependenciesUp(t *testing.T) {
	ok := func(context.Context) error { return nil }
	r := healthServer(map[string]handler.HealthCheck{"postgres": ok, "redis": ok})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body healthBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "axg-photo-api", body.Service)
	assert.NotEmpty(t, body.Uptime)
	assert.Equal(t, "up", body.Dependencies["postgres"])
	assert.Equal(t, "up", body.Dependencies["redis"])
}

func TestHealthDegradedDependencyIs503(t *testing.T) {
	r := healthServer(map[string]handler.HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body healthBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "up", body.Dependencies["postgres"])
	// Raw driver text never reaches the client.
	assert.Equal(t, "unreachable", body.Dependencies["redis"])
}
