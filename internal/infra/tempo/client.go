package tempo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/aqi-advisor/internal/domain/advisor"
)

const defaultBaseURL = "https://api.epa.gov/tempo/no2"

// Client fetches supplemental NO2 estimates from the EPA TEMPO endpoint,
// used when the primary observation source measured no NO2 nearby.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a TEMPO client.
func NewClient(baseURL string) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	return &Client{
		baseURL: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Fetch returns an NO2 sample for the coordinates, or (nil, nil) when the
// endpoint had no estimate.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (*advisor.PollutantSample, error) {
	endpoint := fmt.Sprintf("%s?lat=%s&lon=%s&format=json",
		c.baseURL,
		strconv.FormatFloat(lat, 'f', 4, 64),
		strconv.FormatFloat(lon, 'f', 4, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build tempo request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tempo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("tempo request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw struct {
		AQIEstimate *int     `json:"aqi_estimate"`
		NO2Ppb      *float64 `json:"no2_ppb"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode tempo response: %w", err)
	}
	if raw.NO2Ppb == nil {
		return nil, nil
	}
	return &advisor.PollutantSample{
		Concentration: *raw.NO2Ppb,
		Unit:          "ppb",
		PollutantAQI:  raw.AQIEstimate,
	}, nil
}

var _ advisor.NO2Client = (*Client)(nil)
