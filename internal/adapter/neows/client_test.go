package neows

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/neo-risk-engine/internal/domain"
	"github.com/couchcryptid/neo-risk-engine/internal/observability"
)

const (
	testAPIKey        = "test-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

const testObjectJSON = `{
  "id": "3542519",
  "name": "(2010 PK9)",
  "is_potentially_hazardous_asteroid": true,
  "estimated_diameter": {"kilometers": {"estimated_diameter_min": 0.1, "estimated_diameter_max": 0.3}},
  "close_approach_data": [
    {
      "close_approach_date": "2026-10-12",
      "relative_velocity": {"kilometers_per_second": "17.5"},
      "miss_distance": {"kilometers": "4500000"},
      "orbiting_body": "Earth"
    }
  ]
}`

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     testAPIKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_LookupNeo_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/neo/3542519", r.URL.Path)
		assert.Equal(t, testAPIKey, r.URL.Query().Get("api_key"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(testObjectJSON))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	obj, err := c.LookupNeo(context.Background(), "3542519")
	require.NoError(t, err)

	assert.Equal(t, "3542519", obj.ID)
	assert.Equal(t, "(2010 PK9)", obj.Name)
	assert.True(t, obj.Hazardous)
	require.Len(t, obj.CloseApproaches, 1)
	assert.Equal(t, "17.5", obj.CloseApproaches[0].RelativeVelocity.KilometersPerSecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.NeoWsRequests.WithLabelValues("success")))
}

func TestClient_LookupNeo_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.LookupNeo(context.Background(), "0")
	require.True(t, errors.Is(err, domain.ErrNeoNotFound))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.NeoWsRequests.WithLabelValues("not_found")))
}

func TestClient_LookupNeo_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"API_KEY_INVALID"}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.LookupNeo(context.Background(), "3542519")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.NeoWsRequests.WithLabelValues("error")))
}

func TestClient_LookupNeo_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"id": 42`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.LookupNeo(context.Background(), "3542519")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse neows object")
}

func TestClient_LookupNeo_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.LookupNeo(context.Background(), "3542519")
	require.Error(t, err)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c := NewClient(testAPIKey, "https://api.nasa.gov/neo/rest/v1/", time.Second, testMetrics(), slog.Default())
	assert.Equal(t, "https://api.nasa.gov/neo/rest/v1", c.baseURL)
}

func TestClient_ResultFlattens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testObjectJSON))
	}))
	defer srv.Close()

	obj, err := testClient(srv.URL).LookupNeo(context.Background(), "3542519")
	require.NoError(t, err)

	rec, err := obj.ToRawRecord()
	require.NoError(t, err)
	result, err := domain.Assess(rec)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, result.DiameterKm, 1e-12)
	assert.Greater(t, result.RiskScore, 0.0)
}
