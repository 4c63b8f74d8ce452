package roads

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// FeatureClient answers whether a geographic point lies on a road.
type FeatureClient interface {
	OnRoad(ctx context.Context, lat, lon float64) (bool, error)
}

// HTTPFeatureClient queries an external map-feature service over HTTP.
// The service is expected to answer GET <endpoint>?lat=..&lon=.. with
// {"onRoad": bool}.
type HTTPFeatureClient struct {
	endpoint string
	client   *http.Client
}

type FeatureClientOpt func(*HTTPFeatureClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) FeatureClientOpt {
	return func(c *HTTPFeatureClient) {
		c.client.Timeout = d
	}
}

func NewHTTPFeatureClient(endpoint string, opts ...FeatureClientOpt) *HTTPFeatureClient {
	c := &HTTPFeatureClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 2 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *HTTPFeatureClient) OnRoad(ctx context.Context, lat, lon float64) (bool, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return false, fmt.Errorf("parsing endpoint: %w", err)
	}
	q := u.Query()
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("querying feature service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("feature service returned %d", resp.StatusCode)
	}

	var body struct {
		OnRoad bool `json:"onRoad"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decoding feature response: %w", err)
	}

	return body.OnRoad, nil
}
