package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocateSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Los Angeles, CA, USA", r.URL.Query().Get("q"))
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`[{"lat":"34.0536909","lon":"-118.242766"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "aqi-advisor-test/1.0")
	coords, err := client.Locate(context.Background(), "Los Angeles", "CA", "USA")
	require.NoError(t, err)
	require.NotNil(t, coords)
	require.InDelta(t, 34.0536909, coords.Lat, 1e-9)
	require.InDelta(t, -118.242766, coords.Lon, 1e-9)
}

func TestLocateEmptyLocation(t *testing.T) {
	client := NewClient("http://unused.invalid", "")
	coords, err := client.Locate(context.Background(), "", "  ", "")
	require.NoError(t, err)
	require.Nil(t, coords)
}

func TestLocateNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	coords, err := client.Locate(context.Background(), "Nowhereville", "", "")
	require.NoError(t, err)
	require.Nil(t, coords)
}

func TestLocateSkipsBlankParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Singapore", r.URL.Query().Get("q"))
		w.Write([]byte(`[{"lat":"1.29","lon":"103.85"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	coords, err := client.Locate(context.Background(), "", "", "Singapore")
	require.NoError(t, err)
	require.NotNil(t, coords)
}
