package advisor

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(clockwork.NewFakeClockAt(testNow))
}

func TestGenerateSensitiveUserEndToEnd(t *testing.T) {
	engine := newTestEngine()
	profile := UserHealthProfile{
		UserID:     "u-1",
		City:       "Los Angeles",
		State:      "CA",
		Country:    "USA",
		BirthMonth: 6,
		BirthYear:  1990,
		HasAsthma:  true,
	}
	payload := &AqiPayload{
		AQI:               intPtr(120),
		DominantPollutant: "PM2.5",
		PollutantLevels: map[string]PollutantSample{
			"PM2.5": {Concentration: 55, Unit: "μg/m³", PollutantAQI: intPtr(118)},
		},
	}

	rec := engine.Generate(profile, payload)

	require.Equal(t, "u-1", rec.UserID)
	require.Equal(t, 34, rec.UserConditions.Age)
	require.Equal(t, "Unhealthy for Sensitive Groups", rec.AQICategory)
	require.Equal(t, "Orange", rec.AQIColor)
	require.Equal(t, BucketAsthma, rec.PresetBucket)
	require.Equal(t, []string{"NO2", "O3", "PM2.5"}, rec.SensitivePollutants)
	require.Equal(t, 0.65, rec.SeverityScore)

	// Tier 3: avoid/limit populated, canDo empty.
	require.Empty(t, rec.Actions.CanDo)
	require.NotEmpty(t, rec.Actions.Limit)
	require.Equal(t, []string{"prolonged outdoor exertion", "strenuous outdoor exercise"}, rec.Actions.Avoid)

	require.Equal(t, []string{"PM2.5_present"}, rec.RuleTriggers)
	require.Len(t, rec.WhyHarmful, 3)
	var pm25, no2 string
	for _, line := range rec.WhyHarmful {
		if strings.HasPrefix(line, "PM2.5:") {
			pm25 = line
		}
		if strings.HasPrefix(line, "NO2:") {
			no2 = line
		}
	}
	require.Contains(t, pm25, "Observed conc=55 μg/m³")
	require.Contains(t, pm25, "pollutant AQI=118")
	require.Contains(t, no2, "not measured locally")

	require.Contains(t, rec.RecommendationShort, "Asthma individuals")
	require.Contains(t, rec.RecommendationLong, "Sensitive pollutants: NO2, O3, PM2.5.")
	require.Contains(t, rec.RecommendationLong, "contact your clinician")
	require.Equal(t, RuleVersion, rec.RuleVersion)
	require.Equal(t, 0.9, rec.ConfidenceScore)
	require.Equal(t, testNow.Format(time.RFC3339), rec.TimestampUTC)
}

func TestGenerateNoDataGeneralUser(t *testing.T) {
	engine := newTestEngine()
	rec := engine.Generate(UserHealthProfile{UserID: "u-2"}, nil)

	require.Equal(t, "Unknown", rec.AQICategory)
	require.Equal(t, "Gray", rec.AQIColor)
	require.Nil(t, rec.CurrentAQI)
	require.Equal(t, BucketGeneral, rec.PresetBucket)
	require.Equal(t, 0.2, rec.SeverityScore)
	require.NotEmpty(t, rec.Actions.CanDo)
	require.Empty(t, rec.Actions.Avoid)
	require.Empty(t, rec.RuleTriggers)
	require.Empty(t, rec.SensitivePollutants)
	require.NotNil(t, rec.PollutantLevels)
	require.Contains(t, rec.RecommendationLong, "Sensitive pollutants: none.")
}

func TestGenerateIdempotentUnderFixedClock(t *testing.T) {
	engine := newTestEngine()
	profile := UserHealthProfile{UserID: "u-3", HasCopd: true, BirthMonth: 2, BirthYear: 1950}
	payload := &AqiPayload{
		AQI: intPtr(180),
		PollutantLevels: map[string]PollutantSample{
			"O3": {Concentration: 0.081, Unit: "ppm", PollutantAQI: intPtr(140)},
		},
	}

	first := engine.Generate(profile, payload)
	second := engine.Generate(profile, payload)
	require.Equal(t, first, second)
}

func TestGenerateGenericHarmFallback(t *testing.T) {
	require.Equal(t, "SO2 may affect sensitive people.", DescribePollutantHarm("SO2"))
	require.Contains(t, DescribePollutantHarm("PM2.5"), "Fine particulate matter")
}

func TestGenerateSeverityRounding(t *testing.T) {
	engine := newTestEngine()
	// Pregnant at AQI 80: 0.25 + 0.15 is not representable exactly; output
	// must round to two decimals.
	rec := engine.Generate(UserHealthProfile{Pregnant: true}, &AqiPayload{AQI: intPtr(80)})
	require.Equal(t, 0.4, rec.SeverityScore)
	require.Equal(t, BucketPregnant, rec.PresetBucket)
}

func TestActionsTierBoundaries(t *testing.T) {
	tier1 := Actions{CanDo: []string{"normal outdoor activities"}, Limit: []string{}, Avoid: []string{}}
	tier2 := Actions{CanDo: []string{"short walks"}, Limit: []string{"long runs", "heavy outdoor work"}, Avoid: []string{}}
	tier3 := Actions{CanDo: []string{}, Limit: []string{"open-window sleeping if indoor air not filtered"}, Avoid: []string{"prolonged outdoor exertion", "strenuous outdoor exercise"}}
	tier4 := Actions{CanDo: []string{"stay indoors with filtered air"}, Limit: []string{}, Avoid: []string{"going outdoors", "gardening", "outdoor sports"}}

	cases := []struct {
		severity float64
		want     Actions
	}{
		{0.0, tier1}, {0.2, tier1},
		{0.25, tier2}, {0.4, tier2},
		{0.5, tier3}, {0.65, tier3},
		{0.75, tier4}, {0.95, tier4}, {1.0, tier4},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, actionsForSeverity(tc.severity), "severity=%v", tc.severity)
	}
}
