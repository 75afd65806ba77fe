package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/hearth"
	"github.com/aretw0/hearth/internal/logging"
	"github.com/aretw0/hearth/pkg/adapters/memory"
	"github.com/aretw0/hearth/pkg/domain"
	"github.com/aretw0/hearth/pkg/observability"
	"github.com/getkin/kin-openapi/routers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	kb := memory.NewKnowledgeBase(map[string]map[string]any{
		"locations":    {"loc1": "Kitchen", "loc2": "Bedroom"},
		"temperatures": {"t68": 68},
	})
	assistant, err := hearth.New(hearth.WithKnowledgeBase(kb))
	require.NoError(t, err)

	srv, err := NewServer(assistant, opts...)
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Info.Version)
}

func TestPostTurn_NewSession(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/turns", `{"intent":"close-door"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[TurnResponse](t, w)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, domain.ResponsePrompt, resp.Kind)
	assert.Equal(t, "Of course, which door?", resp.Text)

	w = do(t, srv, http.MethodPost, "/turns",
		`{"session_id":"`+resp.SessionID+`","intent":"specify-location","entities":[{"type":"location","value":[{"id":"loc1"}]}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = decode[TurnResponse](t, w)
	assert.Equal(t, domain.ResponseReply, resp.Kind)
	assert.Equal(t, "Ok. The kitchen door has been closed.", resp.Text)
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/sessions/s1/turns",
		`{"intent":"set-thermostat","entities":[{"type":"location","value":[{"id":"loc2"}]},{"type":"temperature","value":[{"id":"t68"}]}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "The thermostat temperature in the Bedroom is now 68 degrees F.", decode[TurnResponse](t, w).Text)

	w = do(t, srv, http.MethodGet, "/sessions/s1", "")
	require.Equal(t, http.StatusOK, w.Code)
	session := decode[domain.Session](t, w)
	assert.Equal(t, 68.0, session.Thermostats["Bedroom"])

	w = do(t, srv, http.MethodGet, "/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"s1"}, decode[[]string](t, w))

	w = do(t, srv, http.MethodDelete, "/sessions/s1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, srv, http.MethodGet, "/sessions/s1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing intent", `{"entities":[]}`, http.StatusBadRequest},
		{"unknown entity type", `{"intent":"open-door","entities":[{"type":"colour"}]}`, http.StatusBadRequest},
		{"malformed json", `{"intent":`, http.StatusBadRequest},
		{"missing appliance", `{"intent":"turn-appliance-on"}`, http.StatusUnprocessableEntity},
		{"unknown location id", `{"intent":"open-door","entities":[{"type":"location","value":[{"id":"nope"}]}]}`, http.StatusUnprocessableEntity},
		{"unknown intent falls back", `{"intent":"order-pizza"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/turns", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestHealthInfoAndSpec(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodGet, "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	info := decode[map[string]string](t, w)
	assert.Equal(t, hearth.Version, info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])

	w = do(t, srv, http.MethodGet, "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")

	w = do(t, srv, http.MethodGet, "/swagger", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestUndocumentedPaths(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	w = do(t, srv, http.MethodPut, "/turns", `{"intent":"open-door"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code, w.Body.String())
}

func TestIsRouteMiss(t *testing.T) {
	assert.True(t, isRouteMiss(&routers.RouteError{Reason: routers.ErrPathNotFound.Error()}))
	assert.True(t, isRouteMiss(fmt.Errorf("find route: %w", &routers.RouteError{Reason: routers.ErrMethodNotAllowed.Error()})))
	assert.False(t, isRouteMiss(&routers.RouteError{Reason: "invalid path"}))
	assert.False(t, isRouteMiss(errors.New("no matching operation was found")))
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := observability.NewMetrics(nil)
	srv := newTestServer(t, WithMetrics(metrics.Handler()))

	w := do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)

	srv = newTestServer(t)
	w = do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscribeEvents_RequiresSession(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/events", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscribeEvents_Session(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events?session_id=sess-1&watch=frame", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	lines := bufio.NewScanner(res.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())
	require.Eventually(t, func() bool { return srv.Streams.Subscribers("sess-1") == 1 }, time.Second, 10*time.Millisecond)

	// Thermostat-only change is filtered out by watch=frame.
	w := do(t, srv, http.MethodPost, "/sessions/sess-1/turns", `{"intent":"check-thermostat"}`)
	require.Equal(t, http.StatusOK, w.Code)
	// Another session's change is never delivered.
	w = do(t, srv, http.MethodPost, "/sessions/other/turns", `{"intent":"open-door"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, srv, http.MethodPost, "/sessions/sess-1/turns", `{"intent":"open-door"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var data string
	for lines.Scan() {
		if strings.HasPrefix(lines.Text(), "data: ") && lines.Text() != "data: connected" {
			data = strings.TrimPrefix(lines.Text(), "data: ")
			break
		}
	}

	var diff domain.SessionDiff
	require.NoError(t, json.Unmarshal([]byte(data), &diff))
	assert.Equal(t, "sess-1", diff.SessionID)
	assert.Empty(t, diff.Thermostats)
	require.NotNil(t, diff.Frame)
	require.NotNil(t, diff.Frame.Set)
	assert.Equal(t, domain.ActionOpenDoor, diff.Frame.Set.Action)
}

func TestWatched(t *testing.T) {
	temp := 70.0
	thermo := &domain.SessionDiff{Thermostats: map[string]*float64{"home": &temp}}
	frame := &domain.SessionDiff{Frame: &domain.FrameDelta{Cleared: true}}

	assert.True(t, watched(thermo, nil))
	assert.True(t, watched(thermo, []string{"thermostats"}))
	assert.False(t, watched(thermo, []string{"frame"}))
	assert.True(t, watched(frame, []string{"thermostats", " frame"}))
}

func TestStreamManager_Unsubscribe(t *testing.T) {
	sm := NewStreamManager(logging.NewNop())
	ch, cancel := sm.Subscribe("s")
	assert.Equal(t, 1, sm.Subscribers("s"))

	sm.Broadcast(&domain.SessionDiff{SessionID: "s"})
	assert.Equal(t, "s", (<-ch).SessionID)

	cancel()
	cancel()
	assert.Equal(t, 0, sm.Subscribers("s"))
	_, open := <-ch
	assert.False(t, open)

	sm.Broadcast(&domain.SessionDiff{SessionID: "s"})
}
