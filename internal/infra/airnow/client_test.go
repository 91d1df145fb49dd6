package airnow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func TestNormalizeObservations(t *testing.T) {
	observations := []observation{
		{ParameterName: "PM2.5", AQI: intPtr(135), Concentration: floatPtr(55.0), Unit: "UG/M3"},
		{ParameterName: "O3", AQI: intPtr(80), Concentration: floatPtr(0.052), Unit: "PPM"},
		{ParameterName: "PM10", AQI: nil, Concentration: floatPtr(30.0), Unit: "UG/M3"},
		{ParameterName: "", AQI: intPtr(999)}, // nameless observations dropped
	}

	payload := normalizeObservations(observations)

	require.NotNil(t, payload)
	require.NotNil(t, payload.AQI)
	require.Equal(t, 135, *payload.AQI)
	require.Equal(t, "PM2.5", payload.DominantPollutant)
	require.Len(t, payload.PollutantLevels, 3)
	require.Equal(t, 55.0, payload.PollutantLevels["PM2.5"].Concentration)
	require.Nil(t, payload.PollutantLevels["PM10"].PollutantAQI)
}

func TestNormalizeObservationsAllNameless(t *testing.T) {
	require.Nil(t, normalizeObservations([]observation{{ParameterName: "  "}}))
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.URL.Query().Get("API_KEY"))
		require.Equal(t, "25", r.URL.Query().Get("distance"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"ParameterName":"PM2.5","AQI":62,"Concentration":17.4,"Unit":"UG/M3"},
			{"ParameterName":"O3","AQI":41,"Concentration":0.039,"Unit":"PPM"}
		]`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, 0)
	payload, err := client.Fetch(context.Background(), 34.05, -118.24)
	require.NoError(t, err)
	require.NotNil(t, payload)
	require.Equal(t, 62, *payload.AQI)
	require.Equal(t, "PM2.5", payload.DominantPollutant)
}

func TestFetchNoStations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, 25)
	payload, err := client.Fetch(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Nil(t, payload)
}

func TestFetchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, 25)
	_, err := client.Fetch(context.Background(), 0, 0)
	require.Error(t, err)
}

func TestFetchWithoutAPIKey(t *testing.T) {
	client := NewClient("", "http://unused.invalid", 25)
	_, err := client.Fetch(context.Background(), 0, 0)
	require.ErrorIs(t, err, ErrMissingAPIKey)
}
