package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/aqi-advisor/internal/domain/advisor"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org/search"

// Client resolves free-text locations through the OpenStreetMap Nominatim
// API. No API key is required, but Nominatim asks for an identifying
// User-Agent on every request.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient builds a geocoding client.
func NewClient(baseURL, userAgent string) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	agent := strings.TrimSpace(userAgent)
	if agent == "" {
		agent = "aqi-advisor/1.0"
	}
	return &Client{
		baseURL:   endpoint,
		userAgent: agent,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Locate resolves city/state/country to coordinates. A blank location or an
// empty result set yields (nil, nil), not an error.
func (c *Client) Locate(ctx context.Context, city, state, country string) (*advisor.Coordinates, error) {
	query := buildQuery(city, state, country)
	if query == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("geocode request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse geocode latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse geocode longitude: %w", err)
	}
	return &advisor.Coordinates{Lat: lat, Lon: lon}, nil
}

// Nominatim serializes coordinates as strings.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func buildQuery(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, ", ")
}

var _ advisor.Geocoder = (*Client)(nil)
