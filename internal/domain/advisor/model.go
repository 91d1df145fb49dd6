package advisor

// UserHealthProfile is the health and location record a recommendation is
// personalized against. All fields are optional; the engine applies defaults
// rather than rejecting missing data.
type UserHealthProfile struct {
	UserID        string `json:"userId"`
	Phone         string `json:"phone,omitempty"`
	City          string `json:"city"`
	State         string `json:"state"`
	Country       string `json:"country"`
	BirthMonth    int    `json:"birthMonth"`
	BirthYear     int    `json:"birthYear"`
	Pregnant      bool   `json:"pregnancyStatus"`
	HasAsthma     bool   `json:"hasAsthma"`
	HasBronchitis bool   `json:"hasBronchitis"`
	HasCopd       bool   `json:"hasCopd"`
}

// PollutantSample is one measured pollutant level. PollutantAQI is nil when
// the upstream source reported no sub-index for the pollutant.
type PollutantSample struct {
	Concentration float64 `json:"concentration"`
	Unit          string  `json:"unit"`
	PollutantAQI  *int    `json:"pollutantAqi"`
}

// AqiPayload is the normalized air quality observation handed to the engine.
// A nil AQI means the upstream source had no data; keys absent from
// PollutantLevels were not measured locally.
type AqiPayload struct {
	AQI               *int                       `json:"aqi"`
	DominantPollutant string                     `json:"dominantPollutant,omitempty"`
	PollutantLevels   map[string]PollutantSample `json:"pollutantLevels"`
}

// Coordinates is a geocoded location.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Classification names the AQI band an observation falls in.
type Classification struct {
	Category  string `json:"category"`
	ColorCode string `json:"colorCode"`
}

// PresetBucket is the coarse risk group a user collapses to for template
// selection.
type PresetBucket string

const (
	BucketCOPD                PresetBucket = "COPD"
	BucketRespiratoryMultiple PresetBucket = "RespiratoryMultiple"
	BucketAsthma              PresetBucket = "Asthma"
	BucketBronchitis          PresetBucket = "Bronchitis"
	BucketPregnant            PresetBucket = "Pregnant"
	BucketElderly             PresetBucket = "Elderly"
	BucketGeneral             PresetBucket = "General"
)

// UserConditions is the normalized snapshot of the profile echoed in output.
type UserConditions struct {
	Age           int  `json:"age"`
	Pregnant      bool `json:"pregnant"`
	HasAsthma     bool `json:"hasAsthma"`
	HasBronchitis bool `json:"hasBronchitis"`
	HasCopd       bool `json:"hasCopd"`
}

// Location echoes the free-text location strings unchanged.
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// Actions groups the tiered activity guidance. Exactly one severity tier's
// template populates it per recommendation.
type Actions struct {
	CanDo []string `json:"canDo"`
	Limit []string `json:"limit"`
	Avoid []string `json:"avoid"`
}

// Recommendation is the engine output. It is never persisted or mutated by
// the core; callers decide storage and display.
type Recommendation struct {
	UserID              string                     `json:"userId"`
	UserConditions      UserConditions             `json:"userConditions"`
	Location            Location                   `json:"location"`
	CurrentAQI          *int                       `json:"currentAqi"`
	AQICategory         string                     `json:"aqiCategory"`
	AQIColor            string                     `json:"aqiColor"`
	DominantPollutant   string                     `json:"dominantPollutant,omitempty"`
	PollutantLevels     map[string]PollutantSample `json:"pollutantLevels"`
	SensitivePollutants []string                   `json:"sensitivePollutants"`
	PresetBucket        PresetBucket               `json:"presetBucket"`
	RecommendationShort string                     `json:"recommendationShort"`
	RecommendationLong  string                     `json:"recommendationLong"`
	WhyHarmful          []string                   `json:"whyHarmful"`
	Actions             Actions                    `json:"actions"`
	RuleTriggers        []string                   `json:"ruleTriggers"`
	RuleVersion         string                     `json:"ruleVersion"`
	TimestampUTC        string                     `json:"timestampUtc"`
	SeverityScore       float64                    `json:"severityScore"`
	ConfidenceScore     float64                    `json:"confidenceScore"`
}
