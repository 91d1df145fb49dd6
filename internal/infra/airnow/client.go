package airnow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/aqi-advisor/internal/domain/advisor"
)

const defaultBaseURL = "https://www.airnowapi.org/aq/observation/latLong/current/"

// ErrMissingAPIKey signals the client was built without credentials; callers
// treat it like any other upstream failure and degrade.
var ErrMissingAPIKey = errors.New("airnow api key not configured")

// Client fetches current observations from the AirNow API.
type Client struct {
	apiKey     string
	baseURL    string
	distanceKm int
	httpClient *http.Client
}

// NewClient builds an API client. distanceKm bounds the station search radius.
func NewClient(apiKey, baseURL string, distanceKm int) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	if distanceKm <= 0 {
		distanceKm = 25
	}
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    endpoint,
		distanceKm: distanceKm,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Fetch retrieves the current observations around the coordinates and
// normalizes them into an AqiPayload. It returns (nil, nil) when the API
// reported no nearby stations.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (*advisor.AqiPayload, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("format", "application/json")
	params.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	params.Set("distance", strconv.Itoa(c.distanceKm))
	params.Set("API_KEY", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build airnow request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("airnow request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("airnow request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read airnow response: %w", err)
	}

	var observations []observation
	if err := json.Unmarshal(body, &observations); err != nil {
		return nil, fmt.Errorf("decode airnow response: %w", err)
	}
	if len(observations) == 0 {
		return nil, nil
	}
	return normalizeObservations(observations), nil
}

type observation struct {
	ParameterName string   `json:"ParameterName"`
	AQI           *int     `json:"AQI"`
	Concentration *float64 `json:"Concentration"`
	Unit          string   `json:"Unit"`
}

// normalizeObservations folds per-station observations into one payload: the
// highest sub-index becomes the overall AQI and its pollutant the dominant
// one. Observations without a parameter name are skipped.
func normalizeObservations(observations []observation) *advisor.AqiPayload {
	levels := make(map[string]advisor.PollutantSample, len(observations))
	var (
		highest  *int
		dominant string
	)
	for _, obs := range observations {
		name := strings.TrimSpace(obs.ParameterName)
		if name == "" {
			continue
		}
		sample := advisor.PollutantSample{Unit: obs.Unit, PollutantAQI: obs.AQI}
		if obs.Concentration != nil {
			sample.Concentration = *obs.Concentration
		}
		levels[name] = sample
		if obs.AQI != nil && (highest == nil || *obs.AQI > *highest) {
			value := *obs.AQI
			highest = &value
			dominant = name
		}
	}
	if len(levels) == 0 {
		return nil
	}
	return &advisor.AqiPayload{
		AQI:               highest,
		DominantPollutant: dominant,
		PollutantLevels:   levels,
	}
}

var _ advisor.AQIClient = (*Client)(nil)
