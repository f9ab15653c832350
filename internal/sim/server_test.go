package sim

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskgate/partner-sdk/internal/infrastructure/config"
	"github.com/taskgate/partner-sdk/internal/infrastructure/logging"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	set, err := LoadScenarios(writeScenarios(t, sampleScenarios))
	require.NoError(t, err)

	cfg := config.Default()
	logger := &logging.Logger{Logger: zap.NewNop()}
	return NewServer(cfg, set, logger)
}

func TestHandoffEndpointMintsLink(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/handoff/breathing", nil)
	req.Host = "localhost:8787"
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Scenario string `json:"scenario"`
		URL      string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "breathing", body.Scenario)

	link, err := url.Parse(body.URL)
	require.NoError(t, err)
	assert.Equal(t, "breathing_30s", link.Query().Get("task_id"))
	assert.Equal(t, "http://localhost:8787/callback", link.Query().Get("callback_url"))
}

func TestHandoffEndpointUnknownScenario(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/handoff/nonexistent", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSignalsAreRecorded(t *testing.T) {
	s := newTestServer(t)

	ready := httptest.NewRequest(http.MethodGet, "/partner-ready?session_id=abc123&provider_id=acme", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, ready)
	require.Equal(t, http.StatusOK, w.Code)

	done := httptest.NewRequest(http.MethodGet, "/callback?status=focus&provider_id=acme&session_id=abc123&task_id=breathing_30s", nil)
	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, done)
	require.Equal(t, http.StatusOK, w.Code)

	list := httptest.NewRequest(http.MethodGet, "/signals", nil)
	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, list)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Signals []SignalRecord `json:"signals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Signals, 2)

	assert.Equal(t, "ready", body.Signals[0].Kind)
	assert.Equal(t, "abc123", body.Signals[0].Params["session_id"])
	assert.Equal(t, "completion", body.Signals[1].Kind)
	assert.Equal(t, "focus", body.Signals[1].Params["status"])
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
