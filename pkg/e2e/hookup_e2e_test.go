package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsarray/hookup/pkg/api"
	"github.com/obsarray/hookup/pkg/eventlog"
	"github.com/obsarray/hookup/pkg/hookup"
	"github.com/obsarray/hookup/pkg/parts"
	"github.com/obsarray/hookup/pkg/routing"
)

// TestCompleteHookupWorkflow walks a full operator session over the HTTP
// surface: cataloguing parts, cabling an antenna feed to a SNAP input,
// catching a miswire, and reading the resolved port back out.
func TestCompleteHookupWorkflow(t *testing.T) {
	server := startTestServer(t)
	defer server.Close()

	baseURL := server.URL

	// Step 1: cable antenna 1 through to the SNAP, one connection at a time.
	pairs := [][2]string{
		{"ANT00001P1", "LNA00001P1"},
		{"LNA00001P1", "CXS00001P1"},
		{"CXS00001P1", "CXL00001P1"},
		{"CXL00001P1", "BAC00001P1"},
		{"BAC00001P1", "SNAP1A05"},
	}
	for _, p := range pairs {
		status, body := propose(t, baseURL, "/connections", p[0], p[1])
		require.Equalf(t, http.StatusCreated, status, "connect %s -> %s: %s", p[0], p[1], body)
	}

	// Step 2: a miswire must be rejected and must not disturb the chain.
	status, body := propose(t, baseURL, "/connections", "ANT00002P1", "CXS00001P1")
	require.Equal(t, http.StatusConflict, status)
	var rejection struct {
		Accepted bool   `json:"accepted"`
		Reason   string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(body, &rejection))
	assert.False(t, rejection.Accepted)
	assert.Equal(t, "SequenceViolation", rejection.Reason)

	// Step 3: resolve the antenna to its SNAP port.
	var ports struct {
		Antenna string `json:"antenna"`
		Pol1    struct {
			Port *struct {
				Chassis      int `json:"chassis"`
				RoutingIndex int `json:"routingIndex"`
			} `json:"port"`
			Missing string `json:"missing"`
		} `json:"pol1"`
		Pol2 struct {
			Missing string `json:"missing"`
		} `json:"pol2"`
	}
	getJSON(t, baseURL+"/antennas/ANT00001/snap-ports", &ports)
	require.NotNil(t, ports.Pol1.Port, "pol1 should resolve")
	assert.Equal(t, 1, ports.Pol1.Port.Chassis)
	assert.Equal(t, 41, ports.Pol1.Port.RoutingIndex)
	assert.NotEmpty(t, ports.Pol2.Missing, "pol2 was never cabled")

	// Step 4: swap the LNA. Disconnect, reconnect a spare, resolve again.
	status, body = propose(t, baseURL, "/disconnections", "ANT00001P1", "LNA00001P1")
	require.Equalf(t, http.StatusCreated, status, "disconnect: %s", body)

	var chain struct {
		Parts    []string `json:"parts"`
		Terminal struct {
			Kind string `json:"kind"`
		} `json:"terminal"`
	}
	getJSON(t, baseURL+"/chains/ANT00001P1", &chain)
	assert.Equal(t, "open", chain.Terminal.Kind, "antenna is detached from the feed")

	status, _ = propose(t, baseURL, "/connections", "ANT00001P1", "LNA00001P1")
	require.Equal(t, http.StatusCreated, status)

	getJSON(t, baseURL+"/chains/ANT00001P1", &chain)
	assert.Equal(t, "snap", chain.Terminal.Kind)
	assert.Len(t, chain.Parts, 6)
}

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	registry := parts.NewMemoryRegistry()
	ids := []string{
		"ANT00001P1", "LNA00001P1", "CXS00001P1", "CXL00001P1", "BAC00001P1",
		"ANT00001P2", "ANT00002P1", "LNA00002P1",
		"SNAP1A05",
	}
	for _, id := range ids {
		require.NoError(t, registry.Add(id))
	}

	table := routing.NewMemoryTable()
	table.Add(routing.PortEntry{Chassis: 1, Slot: "A", Serial: "SNP000101", RoutingID: 3})

	engine := hookup.NewEngine(registry, eventlog.NewMemoryLog(), table)
	return httptest.NewServer(api.NewServer(engine, 0).Handler())
}

func propose(t *testing.T, baseURL, path, source, target string) (int, []byte) {
	t.Helper()
	now := time.Now().UTC().Format(time.RFC3339)
	payload := fmt.Sprintf(
		`{"sourceId":%q,"sourcePol":%q,"sourceTime":%q,"targetId":%q,"targetPol":%q,"targetTime":%q}`,
		source, polOf(source), now, target, polOf(target), now)

	resp, err := http.Post(baseURL+path, "application/json", bytes.NewReader([]byte(payload)))
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, buf.Bytes()
}

func polOf(id string) string {
	if len(id) >= 2 && id[len(id)-2] == 'P' {
		return id[len(id)-2:]
	}
	return "P1"
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
