package aqistore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/aqi-advisor/internal/domain/advisor"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	aqi := 88
	payload := &advisor.AqiPayload{
		AQI:               &aqi,
		DominantPollutant: "O3",
		PollutantLevels: map[string]advisor.PollutantSample{
			"O3": {Concentration: 0.047, Unit: "ppm"},
		},
	}

	require.NoError(t, store.Save(context.Background(), "aqi:1.00:2.00", payload, time.Minute))

	got, ok, err := store.Get(context.Background(), "aqi:1.00:2.00")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, payload, got)

	_, ok, err = store.Get(context.Background(), "aqi:9.99:9.99")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	aqi := 10
	require.NoError(t, store.Save(context.Background(), "k", &advisor.AqiPayload{AQI: &aqi}, time.Nanosecond))
	time.Sleep(2 * time.Millisecond)

	_, ok, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreIgnoresNilPayload(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "k", nil, time.Minute))
	_, ok, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	require.False(t, ok)
}
