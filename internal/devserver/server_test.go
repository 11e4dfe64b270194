// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lexchat/internal/backend"
)

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

// =============================================================================
// ROUTE TESTS
// =============================================================================

func TestRootAndHealth(t *testing.T) {
	s := New(Options{})

	rec := do(t, s, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"running"`)

	rec = do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestChat_Answers(t *testing.T) {
	s := New(Options{})
	rec := do(t, s, http.MethodPost, "/api/chat", `{"message":"self-defense","agent_type":"consultant"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp backend.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Answer, "[[criminal-20]]")
	require.Len(t, resp.Citations, 2)
	assert.Equal(t, "criminal-20", resp.Citations[0].SourceID)
	assert.Equal(t, "case-002", resp.Citations[1].SourceID)
	assert.Equal(t, "https://example.com/criminal#20", resp.Citations[0].URL)
	assert.Len(t, resp.Sources, 2)
}

func TestChat_DefaultAgentType(t *testing.T) {
	s := New(Options{})
	rec := do(t, s, http.MethodPost, "/api/chat", `{"message":"homicide"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChat_NoResults(t *testing.T) {
	s := New(Options{})
	rec := do(t, s, http.MethodPost, "/api/chat", `{"message":"maritime salvage"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"answer":`+mustJSON(t, NoResultsAnswer)+`,"citations":[],"sources":[]}`,
		rec.Body.String())
}

func TestChat_BadRequests(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantDetail string
	}{
		{"unknown agent", `{"message":"homicide","agent_type":"judge"}`, "unsupported agent type: judge"},
		{"empty message", `{"message":"  "}`, "message must not be empty"},
		{"invalid json", `{"message":`, "invalid request body"},
		{"too long", `{"message":"` + strings.Repeat("a", MaxMessageLength+1) + `"}`, "exceeds"},
	}

	s := New(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/chat", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, detail(t, rec), tt.wantDetail)
		})
	}
}

func TestSearchRoute(t *testing.T) {
	s := New(Options{})

	rec := do(t, s, http.MethodGet, "/api/search?query=injury&top_k=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp backend.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "injury", resp.Query)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []string{"criminal-234", "civil-1179"}, sourceIDs(resp.Results))

	rec = do(t, s, http.MethodGet, "/api/search?query=salvage", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"results":[]`)

	rec = do(t, s, http.MethodGet, "/api/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/search?query=tort&top_k=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// MIDDLEWARE TESTS
// =============================================================================

func TestCORSPreflight(t *testing.T) {
	s := New(Options{})
	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORSAllowList(t *testing.T) {
	s := New(Options{CORS: &CORSConfig{AllowedOrigins: []string{"http://app.local"}}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://app.local")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "http://app.local", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.local")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	s := New(Options{RequestsPerSecond: 1})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, do(t, s, http.MethodGet, "/health", "").Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRecovery(t *testing.T) {
	s := New(Options{})
	s.engine.GET("/boom", func(c *gin.Context) { panic("boom") })

	rec := do(t, s, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", detail(t, rec))
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := backend.NewClient("http://" + ln.Addr().String())
	health, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, health.Healthy())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_BadAddress(t *testing.T) {
	s := New(Options{Addr: "256.0.0.1:http-nope"})
	err := s.Run(context.Background())
	assert.Error(t, err)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
