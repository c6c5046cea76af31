package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"menuchat/internal/chat"
	"menuchat/internal/importer"
	"menuchat/internal/llm"
	"menuchat/internal/restaurant"
)

type stubLLM struct{}

func (stubLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	return "Hello from the kitchen.", nil
}

func setupRouter(t *testing.T, origins []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	now := func() time.Time { return time.Date(2024, 6, 12, 17, 0, 0, 0, time.UTC) }

	store, err := restaurant.NewStore(context.Background(), restaurant.NewMemoryRepository(), log)
	require.NoError(t, err)

	extractor := importer.NewLLMExtractor(stubLLM{}, importer.NewPageFetcher(time.Second), now)

	return NewRouter(Handlers{
		Restaurants: restaurant.NewHandler(store, now),
		Imports:     importer.NewHandler(importer.NewService(store, extractor, log), nil),
		Chat:        chat.NewHandler(chat.NewService(store, stubLLM{}, log, now)),
	}, origins, log)
}

func request(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	r := setupRouter(t, nil)

	w := request(r, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUpsertThenChat(t *testing.T) {
	r := setupRouter(t, nil)

	w := request(r, http.MethodPost, "/restaurants/r1", `{"name":"Luigi's"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(r, http.MethodPost, "/chat/r1", `{"message":"hi"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reply":"Hello from the kitchen."}`, w.Body.String())

	w = request(r, http.MethodGet, "/restaurants/r1/context", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(r, http.MethodPost, "/admin/rescan", "", nil)
	assert.JSONEq(t, `{"results":[]}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	r := setupRouter(t, []string{"http://localhost:3000"})

	w := request(r, http.MethodGet, "/health", "", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = request(r, http.MethodGet, "/health", "", map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSWildcard(t *testing.T) {
	r := setupRouter(t, []string{"*"})

	w := request(r, http.MethodGet, "/health", "", map[string]string{"Origin": "http://anywhere.example"})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
