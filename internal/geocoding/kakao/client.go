// Package kakao provides a geocoding client for the Kakao Local
// keyword-search API.
package kakao

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tastetrail/tastetrail/internal/geo"
	"github.com/tastetrail/tastetrail/internal/geocoding"
	"github.com/tastetrail/tastetrail/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the Kakao Local API.
	DefaultBaseURL = "https://dapi.kakao.com"

	// ProviderName identifies this provider.
	ProviderName = "kakao"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Kakao client.
type ClientConfig struct {
	// APIKey is the Kakao REST API key, sent as "KakaoAK <key>".
	APIKey string

	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a default resilient
	// client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// Client is a Kakao Local API client implementing geocoding.Provider.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new Kakao geocoding client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return ProviderName
}

// API response types (from the Kakao Local API).

type keywordSearchResponse struct {
	Documents []documentData `json:"documents"`
}

type documentData struct {
	PlaceName string `json:"place_name"`
	X         string `json:"x"` // longitude
	Y         string `json:"y"` // latitude
}

// Geocode resolves a place name via keyword search, returning the first
// match.
func (c *Client) Geocode(ctx context.Context, query string) (geo.Coordinate, error) {
	endpoint := fmt.Sprintf("%s/v2/local/search/keyword.json?query=%s&size=1",
		c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("kakao keyword search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Coordinate{}, fmt.Errorf("kakao keyword search: unexpected status %d", resp.StatusCode)
	}

	var parsed keywordSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return geo.Coordinate{}, fmt.Errorf("decoding kakao response: %w", err)
	}
	if len(parsed.Documents) == 0 {
		return geo.Coordinate{}, geocoding.ErrNotFound
	}

	doc := parsed.Documents[0]
	lat, err := strconv.ParseFloat(doc.Y, 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("parsing latitude %q: %w", doc.Y, err)
	}
	lon, err := strconv.ParseFloat(doc.X, 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("parsing longitude %q: %w", doc.X, err)
	}

	coord := geo.Coordinate{Lat: lat, Lon: lon}
	if !coord.Valid() || coord.IsZero() {
		return geo.Coordinate{}, geocoding.ErrNotFound
	}
	return coord, nil
}
