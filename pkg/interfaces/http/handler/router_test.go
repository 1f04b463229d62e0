package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bomcost/pkg/application/services"
	"github.com/vsinha/bomcost/pkg/infrastructure/events"
)

const validRequest = `{
  "productName": "Sensor",
  "assemblies": [{
    "name": "Main",
    "setupTime": 1,
    "cycleTime": 6,
    "yield": 99,
    "items": [
      {"name": "Chip", "quantity": 1, "unitCost": 5, "supplierId": "S1", "leadTime": 20, "qualityGrade": "B", "critical": true}
    ]
  }],
  "suppliers": [{"id": "S1", "name": "Chips Ltd", "reliability": 90, "qualityRating": 95, "leadTimeVariability": 2}],
  "targetQuantity": 100,
  "productionVolume": 1200,
  "productionPeriod": 12,
  "laborRates": {"assembly": 30},
  "overheadRates": {"manufacturing": 20},
  "targetMargin": 10,
  "includeRiskAnalysis": true,
  "monteCarloSamples": 1000
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	service := services.NewBOMService(services.DefaultPolicy(), logger)
	router, err := NewRouter(service, events.NewInMemoryEventStore(), logger, prometheus.NewRegistry())
	require.NoError(t, err)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func post(t *testing.T, server *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestCalculate(t *testing.T) {
	server := newTestServer(t)

	resp := post(t, server, "/v1/bom/calculate", validRequest)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	costs := result["costAnalysis"].(map[string]interface{})
	// material 5*100, labor 1*30 + 6/60*100*30 = 330, overhead 66
	assert.InDelta(t, 896.0, costs["totalCost"].(float64), 1e-6)
	assert.NotNil(t, result["riskAnalysis"])
	assert.Nil(t, result["inventoryAnalysis"])
	assert.NotEmpty(t, result["runId"])

	metrics, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	body, err := io.ReadAll(metrics.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `bomcost_calculations_total{outcome="success"} 1`)
	assert.Contains(t, string(body), "bomcost_calculation_duration_seconds_count 1")
	assert.Contains(t, string(body), `bomcost_step_duration_seconds_count{step="cost rollup"} 1`)
	assert.Contains(t, string(body), `bomcost_step_duration_seconds_count{step="risk analysis"} 1`)
}

func TestRunEvents(t *testing.T) {
	server := newTestServer(t)

	resp := post(t, server, "/v1/bom/calculate", validRequest)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result struct {
		RunID string `json:"runId"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	eventsResp, err := http.Get(server.URL + "/v1/runs/" + result.RunID + "/events")
	require.NoError(t, err)
	defer eventsResp.Body.Close()
	require.Equal(t, http.StatusOK, eventsResp.StatusCode)

	var stream []struct {
		Type     string `json:"type"`
		StreamID string `json:"streamId"`
		Version  int    `json:"version"`
	}
	require.NoError(t, json.NewDecoder(eventsResp.Body).Decode(&stream))
	require.NotEmpty(t, stream)
	assert.Equal(t, "calculation.started", stream[0].Type)
	assert.Equal(t, "calculation.finished", stream[len(stream)-1].Type)
	for i, e := range stream {
		assert.Equal(t, result.RunID, e.StreamID)
		assert.Equal(t, i+1, e.Version)
	}
}

func TestRunEvents_NotFound(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/v1/runs/missing/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "run not found", errResp.Error)
}

func TestCalculate_ValidationError(t *testing.T) {
	server := newTestServer(t)

	body := strings.Replace(validRequest, `"targetQuantity": 100`, `"targetQuantity": -5`, 1)
	resp := post(t, server, "/v1/bom/calculate", body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Contains(t, errResp.Problems, "target quantity cannot be negative, got -5")
	assert.Contains(t, errResp.Error, "invalid BOM request")
}

func TestCalculate_MalformedJSON(t *testing.T) {
	server := newTestServer(t)

	testCases := []struct {
		name string
		body string
	}{
		{"syntax", `{"assemblies": [`},
		{"unknown field", `{"targetQty": 5}`},
		{"bad grade", strings.Replace(validRequest, `"qualityGrade": "B"`, `"qualityGrade": "Z"`, 1)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := post(t, server, "/v1/bom/calculate", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var errResp ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
			assert.True(t, strings.HasPrefix(errResp.Error, "malformed request body"))
		})
	}
}

func TestValidate(t *testing.T) {
	server := newTestServer(t)

	resp := post(t, server, "/v1/bom/validate", validRequest)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ok map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ok))
	assert.True(t, ok["valid"])

	body := strings.Replace(validRequest, `"yield": 99`, `"yield": 140`, 1)
	resp = post(t, server, "/v1/bom/validate", body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	require.Len(t, errResp.Problems, 1)
	assert.Contains(t, errResp.Problems[0], "yield must be between 0 and 100")
}

func TestUnknownRoute(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/v1/bom/calculate")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
