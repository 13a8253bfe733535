package neows

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/neo-risk-engine/internal/domain"
	"github.com/couchcryptid/neo-risk-engine/internal/observability"
)

// maxBodyBytes bounds how much of a NeoWs response is read.
const maxBodyBytes = 4 << 20

// Client implements domain.NeoLookup using the NASA NeoWs REST API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a NeoWs client. baseURL is the API root, e.g.
// "https://api.nasa.gov/neo/rest/v1".
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// LookupNeo fetches a single object by its NeoWs id.
func (c *Client) LookupNeo(ctx context.Context, id string) (domain.NeoWsObject, error) {
	u := fmt.Sprintf("%s/neo/%s?%s", c.baseURL, url.PathEscape(id), url.Values{"api_key": {c.apiKey}}.Encode())

	start := time.Now()
	obj, err := c.doRequest(ctx, u)
	c.metrics.NeoWsAPIDuration.Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, domain.ErrNeoNotFound):
		c.metrics.NeoWsRequests.WithLabelValues("not_found").Inc()
	case err != nil:
		c.metrics.NeoWsRequests.WithLabelValues("error").Inc()
		c.logger.Warn("neows lookup failed", "id", id, "error", err)
	default:
		c.metrics.NeoWsRequests.WithLabelValues("success").Inc()
	}
	return obj, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.NeoWsObject, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.NeoWsObject{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NeoWsObject{}, fmt.Errorf("neows request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.NeoWsObject{}, domain.ErrNeoNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.NeoWsObject{}, fmt.Errorf("neows API error: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.NeoWsObject{}, fmt.Errorf("read response: %w", err)
	}
	return domain.ParseNeoWsObject(data)
}
