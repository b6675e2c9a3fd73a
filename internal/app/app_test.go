package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-agent-api/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:       config.EnvDevelopment,
		APIPrefix: "/api/v1",
		Store:     config.StoreConfig{Backend: config.StoreBackendFile, DataDir: t.TempDir()},
		Agent:     config.AgentConfig{LenientCreation: true},
		RateLimit: config.RateLimitConfig{ChatPerSecond: 1, ChatBurst: 1},
	}
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestContainerDispatchPersistsToDataDir(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	c, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer c.Close()
	c.Start(context.Background())

	r := c.Router()
	rec := serve(r, http.MethodPost, "/api/v1/agent/dispatch", `{"text": "{\"action\": \"create_cours\", \"nom\": \"Python\"}"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "✅ Cours Python créé (ID: 1)")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	raw, err := os.ReadFile(filepath.Join(cfg.Store.DataDir, "cours.json"))
	require.NoError(t, err)
	var stored []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "PYT001", stored[0]["code"])

	rec = serve(r, http.MethodGet, "/api/v1/cours/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store":"ok"`)
}

func TestContainerRateLimitsChat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, err := New(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	defer c.Close()

	r := c.Router()
	first := serve(r, http.MethodPost, "/api/v1/agent/chat", `{"message": "Bonjour"}`)
	second := serve(r, http.MethodPost, "/api/v1/agent/chat", `{"message": "Bonjour"}`)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	rec := serve(r, http.MethodPost, "/api/v1/agent/dispatch", `{"text": "Bonjour"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContainerMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, err := New(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	defer c.Close()

	r := c.Router()
	serve(r, http.MethodPost, "/api/v1/agent/dispatch", `{"text": "{\"action\": \"get_stats\"}"}`)

	rec := serve(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `agent_dispatch_total{action="get_stats",outcome="executed"} 1`)
	assert.Contains(t, rec.Body.String(), "record_store_operation_seconds")
}

func TestContainerRejectsLLMWithoutKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM.Enabled = true
	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}
