package api

import (
	"encoding/json"
	"net/http"
	"testing"
)

// wireChain connects the full test chain through the HTTP surface.
func wireChain(t *testing.T, url string) {
	t.Helper()
	pairs := [][2]string{
		{"ANT00001P1", "LNA00005P1"},
		{"LNA00005P1", "CXS00023P1"},
		{"CXS00023P1", "CXL00023P1"},
		{"CXL00023P1", "BAC00023P1"},
		{"BAC00023P1", "SNAP1A05"},
	}
	for _, p := range pairs {
		resp := postJSON(t, url+"/connections", connectBody(p[0], p[1]))
		if resp.StatusCode != http.StatusCreated {
			proposal := decodeJSON[ProposalResponse](t, resp)
			t.Fatalf("wiring %s -> %s failed: %d %s %s", p[0], p[1], resp.StatusCode, proposal.Reason, proposal.Detail)
		}
		resp.Body.Close()
	}
}

func TestGetChain(t *testing.T) {
	_, ts := setupTestServer(t)
	wireChain(t, ts.URL)

	resp, err := http.Get(ts.URL + "/chains/ANT00001P1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	chain := decodeJSON[ChainResponse](t, resp)
	if len(chain.Parts) != 6 {
		t.Fatalf("chain parts = %v, want six", chain.Parts)
	}
	if chain.Terminal.Kind != "snap" {
		t.Errorf("terminal kind = %q, want snap", chain.Terminal.Kind)
	}
	if chain.Terminal.RoutingIndex != 41 { // routing id 3 * 12 + port 5
		t.Errorf("routing index = %d, want 41", chain.Terminal.RoutingIndex)
	}
}

func TestGetChainInvalidID(t *testing.T) {
	_, ts := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/chains/not-a-part")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetSnapPorts(t *testing.T) {
	_, ts := setupTestServer(t)
	wireChain(t, ts.URL)

	resp, err := http.Get(ts.URL + "/antennas/ANT00001/snap-ports")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var ports struct {
		Antenna string `json:"antenna"`
		Pol1    struct {
			Port *struct {
				Chassis      int    `json:"chassis"`
				Slot         string `json:"slot"`
				Port         int    `json:"port"`
				RoutingIndex int    `json:"routingIndex"`
			} `json:"port"`
			Missing string `json:"missing"`
		} `json:"pol1"`
		Pol2 struct {
			Port    any    `json:"port"`
			Missing string `json:"missing"`
		} `json:"pol2"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ports); err != nil {
		resp.Body.Close()
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()

	if ports.Pol1.Port == nil {
		t.Fatalf("pol1 unresolved: %s", ports.Pol1.Missing)
	}
	if ports.Pol1.Port.Chassis != 1 || ports.Pol1.Port.Slot != "A" || ports.Pol1.Port.Port != 5 {
		t.Errorf("pol1 port = %+v, want chassis 1 slot A port 5", ports.Pol1.Port)
	}
	if ports.Pol2.Port != nil {
		t.Error("pol2 resolved without wiring")
	}
	if ports.Pol2.Missing == "" {
		t.Error("pol2 has no explanation for missing port")
	}
}

func TestGetPartHistory(t *testing.T) {
	_, ts := setupTestServer(t)
	wireChain(t, ts.URL)

	resp, err := http.Get(ts.URL + "/parts/LNA00005P1/events")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	history := decodeJSON[PartHistoryResponse](t, resp)
	if history.Count != 2 {
		t.Fatalf("event count = %d, want 2 (in and out edges)", history.Count)
	}
	for _, event := range history.Events {
		if event.SourceID != "LNA00005P1" && event.TargetID != "LNA00005P1" {
			t.Errorf("event %d does not involve the part", event.Seq)
		}
	}
}

func TestGetAllChains(t *testing.T) {
	_, ts := setupTestServer(t)
	wireChain(t, ts.URL)

	resp, err := http.Get(ts.URL + "/chains")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	all := decodeJSON[AllChainsResponse](t, resp)
	if all.Count != 1 {
		t.Fatalf("chain count = %d, want 1", all.Count)
	}
	chain, ok := all.Chains["ANT00001P1"]
	if !ok {
		t.Fatal("ANT00001P1 missing from all-chains response")
	}
	if chain.Terminal.Kind != "snap" {
		t.Errorf("terminal = %q, want snap", chain.Terminal.Kind)
	}
}
