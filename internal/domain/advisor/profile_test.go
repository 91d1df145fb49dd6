package advisor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestComputeAge(t *testing.T) {
	require.Equal(t, 35, ComputeAge(1, 1990, testNow))
	// Birthday later in the year has not happened yet.
	require.Equal(t, 34, ComputeAge(6, 1990, testNow))
	// Missing fields default to (1, 2000).
	require.Equal(t, 25, ComputeAge(0, 0, testNow))
	require.Equal(t, 25, ComputeAge(0, 2000, testNow))
}

func TestSensitivePollutantsUnion(t *testing.T) {
	profile := UserHealthProfile{HasAsthma: true, HasCopd: true}
	got := SensitivePollutants(profile, 30)
	require.Equal(t, []string{"NO2", "O3", "PM10", "PM2.5"}, got)
}

func TestSensitivePollutantsPerCondition(t *testing.T) {
	cases := []struct {
		name    string
		profile UserHealthProfile
		age     int
		want    []string
	}{
		{"asthma", UserHealthProfile{HasAsthma: true}, 30, []string{"NO2", "O3", "PM2.5"}},
		{"bronchitis", UserHealthProfile{HasBronchitis: true}, 30, []string{"PM10", "PM2.5"}},
		{"pregnancy", UserHealthProfile{Pregnant: true}, 30, []string{"PM2.5"}},
		{"elderly", UserHealthProfile{}, 65, []string{"O3", "PM10", "PM2.5"}},
		{"none", UserHealthProfile{}, 30, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, SensitivePollutants(tc.profile, tc.age))
		})
	}
}

func TestDeterminePresetBucketPriority(t *testing.T) {
	// COPD outranks everything, even combined respiratory conditions.
	require.Equal(t, BucketCOPD, DeterminePresetBucket(UserHealthProfile{HasCopd: true, HasAsthma: true}, 30))
	require.Equal(t, BucketRespiratoryMultiple, DeterminePresetBucket(UserHealthProfile{HasAsthma: true, HasBronchitis: true}, 30))
	require.Equal(t, BucketAsthma, DeterminePresetBucket(UserHealthProfile{HasAsthma: true, Pregnant: true}, 30))
	require.Equal(t, BucketBronchitis, DeterminePresetBucket(UserHealthProfile{HasBronchitis: true}, 70))
	require.Equal(t, BucketPregnant, DeterminePresetBucket(UserHealthProfile{Pregnant: true}, 70))
	require.Equal(t, BucketElderly, DeterminePresetBucket(UserHealthProfile{}, 65))
	require.Equal(t, BucketGeneral, DeterminePresetBucket(UserHealthProfile{}, 64))
}
