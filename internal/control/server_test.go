// internal/control/server_test.go
package control

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/tamzrod/trdp-sim/internal/adapter/emulator"
	"github.com/tamzrod/trdp-sim/internal/logging"
	"github.com/tamzrod/trdp-sim/internal/metrics"
	"github.com/tamzrod/trdp-sim/internal/store"
)

const lineConfig = `network:
  interface: eth0
pd_publishers:
  - name: Pub
    com_id: 100
    cycle_time_ms: 5
    payload:
      format: hex
      value: "0102"
pd_subscribers:
  - name: Sub
    com_id: 100
md_senders:
  - name: Snd
    com_id: 200
    cycle_time_ms: 0
    payload:
      format: text
      value: ping
`

type harness struct {
	t   *testing.T
	srv *httptest.Server
	m   *Manager
}

func newHarness(t *testing.T) *harness {
	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	log := logging.NewForTest()
	m := NewManager(st, log)
	srv := httptest.NewServer(NewServer(m, st, log).Handler())

	t.Cleanup(func() {
		m.Close()
		srv.Close()
	})
	return &harness{t: t, srv: srv, m: m}
}

func (h *harness) do(method, path, body string) (int, map[string]any) {
	h.t.Helper()

	req, err := http.NewRequest(method, h.srv.URL+path, strings.NewReader(body))
	require.NoError(h.t, err)

	rsp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer rsp.Body.Close()

	var out map[string]any
	require.NoError(h.t, json.NewDecoder(rsp.Body).Decode(&out))
	return rsp.StatusCode, out
}

func (h *harness) saveLine() {
	code, _ := h.do(http.MethodPut, "/api/configs/line", lineConfig)
	require.Equal(h.t, http.StatusOK, code)
}

func TestServer_StartRequiresConfig(t *testing.T) {
	h := newHarness(t)

	code, body := h.do(http.MethodPost, "/api/start", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing config parameter", body["error"])
}

func TestServer_StopWhenIdle(t *testing.T) {
	h := newHarness(t)

	code, body := h.do(http.MethodPost, "/api/stop", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Simulator is not running", body["error"])
}

func TestServer_ConfigLibrary(t *testing.T) {
	h := newHarness(t)

	code, _ := h.do(http.MethodPut, "/api/configs/broken", "network: [")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.do(http.MethodPut, "/api/configs/bad%20name", lineConfig)
	assert.Equal(t, http.StatusBadRequest, code)

	h.saveLine()

	code, body := h.do(http.MethodGet, "/api/configs", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"line"}, body["configs"])

	code, body = h.do(http.MethodGet, "/api/configs/line", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, lineConfig, body["contents"])

	code, _ = h.do(http.MethodGet, "/api/configs/missing", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServer_Lifecycle(t *testing.T) {
	h := newHarness(t)
	h.saveLine()

	code, body := h.do(http.MethodPost, "/api/start?config=line", "")
	require.Equal(t, http.StatusAccepted, code, body)
	assert.Equal(t, "Simulator started", body["message"])

	code, body = h.do(http.MethodPost, "/api/start?config=line", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Simulator already running", body["error"])

	code, body = h.do(http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["running"])
	assert.Equal(t, "line", body["config"])

	require.Eventually(t, func() bool {
		snap := h.m.Snapshot()
		return len(snap.PdSubscribers) == 1 && snap.PdSubscribers[0].PacketsReceived > 0
	}, 2*time.Second, 5*time.Millisecond)

	code, body = h.do(http.MethodGet, "/api/metrics", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, metrics.StateRunning, body["adapterState"])

	// ---- payload control ----
	code, _ = h.do(http.MethodPut, "/api/payloads/pd/Pub", `{"format":"hex","value":"FF"}`)
	assert.Equal(t, http.StatusOK, code)

	code, _ = h.do(http.MethodPut, "/api/payloads/pd/Nope", `{"format":"hex","value":"FF"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = h.do(http.MethodPut, "/api/payloads/md/Snd", `{"format":"hex","value":"ABC"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = h.do(http.MethodGet, "/api/payloads", "")
	require.Equal(t, http.StatusOK, code)
	pd := body["pd"].(map[string]any)["Pub"].(map[string]any)
	assert.Equal(t, "FF", pd["value"])
	md := body["md"].(map[string]any)["Snd"].(map[string]any)
	assert.Equal(t, "ping", md["value"])

	// ---- stop ----
	code, body = h.do(http.MethodPost, "/api/stop", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Simulator stopped", body["message"])

	assert.False(t, h.m.Running())
	snap := h.m.Snapshot()
	assert.Equal(t, metrics.StateStopped, snap.AdapterState)
	assert.NotZero(t, snap.PdPublishers[0].PacketsSent)

	code, _ = h.do(http.MethodGet, "/api/payloads", "")
	assert.Equal(t, http.StatusConflict, code)

	// restart after stop is allowed
	code, _ = h.do(http.MethodPost, "/api/start?config=line", "")
	assert.Equal(t, http.StatusAccepted, code)
}

func TestServer_StartFailureReportsError(t *testing.T) {
	h := newHarness(t)

	code, body := h.do(http.MethodPost, "/api/start?config=/nonexistent/cfg.yaml", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.NotEmpty(t, body["error"])

	code, body = h.do(http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["running"])
	assert.NotEmpty(t, body["lastError"])
}

func TestServer_UnknownRoute(t *testing.T) {
	h := newHarness(t)

	code, body := h.do(http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found", body["error"])
}

func TestServer_WrongMethodIsJSON(t *testing.T) {
	h := newHarness(t)

	code, body := h.do(http.MethodGet, "/api/start", "")
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	assert.Equal(t, "Method not allowed", body["error"])

	code, body = h.do(http.MethodDelete, "/api/configs/line", "")
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	assert.Equal(t, "Method not allowed", body["error"])
}
