package advisor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

const escalationSentence = "If symptoms occur (wheezing, chest tightness, severe cough), use medications and contact your clinician."

// Engine is the pure recommendation generator. It holds only an injected
// clock and immutable rule tables, so a single instance is safe for
// concurrent use.
type Engine struct {
	clock clockwork.Clock
}

// NewEngine builds an Engine. A nil clock falls back to wall time.
func NewEngine(clock clockwork.Clock) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Engine{clock: clock}
}

// Generate maps a user profile and an AQI observation to a full
// recommendation. It is total over its input domain: a nil payload, a nil
// AQI, unmeasured pollutants and missing demographic fields all degrade to
// documented defaults instead of errors.
func (e *Engine) Generate(profile UserHealthProfile, payload *AqiPayload) Recommendation {
	var (
		aqi      *int
		levels   map[string]PollutantSample
		dominant string
	)
	if payload != nil {
		aqi = payload.AQI
		levels = payload.PollutantLevels
		dominant = payload.DominantPollutant
	}
	if levels == nil {
		levels = map[string]PollutantSample{}
	}

	now := e.clock.Now().UTC()
	classification := ClassifyAQI(aqi)
	age := ComputeAge(profile.BirthMonth, profile.BirthYear, now)
	bucket := DeterminePresetBucket(profile, age)
	sensitive := SensitivePollutants(profile, age)

	whyHarmful := make([]string, 0, len(sensitive))
	ruleTriggers := make([]string, 0, len(sensitive))
	for _, p := range sensitive {
		if sample, ok := levels[p]; ok {
			whyHarmful = append(whyHarmful, fmt.Sprintf("%s: %s Observed conc=%s %s; pollutant AQI=%s.",
				p, DescribePollutantHarm(p), formatConcentration(sample.Concentration), sample.Unit, formatSubIndex(sample.PollutantAQI)))
			ruleTriggers = append(ruleTriggers, p+"_present")
		} else {
			whyHarmful = append(whyHarmful, fmt.Sprintf("%s: %s (not measured locally in this sample).", p, DescribePollutantHarm(p)))
		}
	}

	severity := SeverityScore(aqi, bucket)
	short := shortAdvisory(severity, bucket)
	long := longAdvisory(short, sensitive)

	return Recommendation{
		UserID: profile.UserID,
		UserConditions: UserConditions{
			Age:           age,
			Pregnant:      profile.Pregnant,
			HasAsthma:     profile.HasAsthma,
			HasBronchitis: profile.HasBronchitis,
			HasCopd:       profile.HasCopd,
		},
		Location:            Location{City: profile.City, State: profile.State, Country: profile.Country},
		CurrentAQI:          aqi,
		AQICategory:         classification.Category,
		AQIColor:            classification.ColorCode,
		DominantPollutant:   dominant,
		PollutantLevels:     levels,
		SensitivePollutants: sensitive,
		PresetBucket:        bucket,
		RecommendationShort: short,
		RecommendationLong:  long,
		WhyHarmful:          whyHarmful,
		Actions:             actionsForSeverity(severity),
		RuleTriggers:        ruleTriggers,
		RuleVersion:         RuleVersion,
		TimestampUTC:        now.Format(time.RFC3339),
		SeverityScore:       math.Round(severity*100) / 100,
		ConfidenceScore:     confidenceScore,
	}
}

// shortAdvisory picks one of four severity-tier templates. Tiers 3 and 4
// name the preset bucket because the guidance is group specific.
func shortAdvisory(severity float64, bucket PresetBucket) string {
	switch {
	case severity < 0.25:
		return "Air quality is acceptable for most people. Routine outdoor activities are OK."
	case severity < 0.5:
		return "Air quality is moderate. Sensitive individuals should limit prolonged or intense outdoor activities."
	case severity < 0.75:
		return fmt.Sprintf("Air quality may affect you. %s individuals should avoid prolonged outdoor exertion today.", bucket)
	default:
		return fmt.Sprintf("Poor air quality — avoid outdoor exposure. %s individuals should stay indoors with filtered air and follow medical plans.", bucket)
	}
}

func longAdvisory(short string, sensitive []string) string {
	list := "none"
	if len(sensitive) > 0 {
		list = strings.Join(sensitive, ", ")
	}
	return fmt.Sprintf("%s Sensitive pollutants: %s. %s", short, list, escalationSentence)
}

// actionsForSeverity populates exactly one tier template; the tiers are
// mutually exclusive and cover all of [0,1].
func actionsForSeverity(severity float64) Actions {
	actions := Actions{CanDo: []string{}, Limit: []string{}, Avoid: []string{}}
	switch {
	case severity < 0.25:
		actions.CanDo = append(actions.CanDo, "normal outdoor activities")
	case severity < 0.5:
		actions.Limit = append(actions.Limit, "long runs", "heavy outdoor work")
		actions.CanDo = append(actions.CanDo, "short walks")
	case severity < 0.75:
		actions.Avoid = append(actions.Avoid, "prolonged outdoor exertion", "strenuous outdoor exercise")
		actions.Limit = append(actions.Limit, "open-window sleeping if indoor air not filtered")
	default:
		actions.Avoid = append(actions.Avoid, "going outdoors", "gardening", "outdoor sports")
		actions.CanDo = append(actions.CanDo, "stay indoors with filtered air")
	}
	return actions
}

func formatConcentration(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatSubIndex(value *int) string {
	if value == nil {
		return "n/a"
	}
	return strconv.Itoa(*value)
}
