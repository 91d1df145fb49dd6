package advisor

// RuleVersion tags every recommendation so stored output can be traced back
// to the rule set that produced it.
const RuleVersion = "1.0.0"

// confidenceScore is a static placeholder until a model-derived value exists.
const confidenceScore = 0.9

type aqiBand struct {
	low      int
	high     int
	category string
	color    string
}

// aqiBands are scanned in ascending order; first matching band wins. The last
// band is deliberately capped rather than open-ended so anything beyond it
// falls through to the Unknown classification.
var aqiBands = []aqiBand{
	{0, 50, "Good", "Green"},
	{51, 100, "Moderate", "Yellow"},
	{101, 150, "Unhealthy for Sensitive Groups", "Orange"},
	{151, 200, "Unhealthy", "Red"},
	{201, 300, "Very Unhealthy", "Purple"},
	{301, 10000, "Hazardous", "Maroon"},
}

// pollutantSensitivity maps a health condition to the pollutants that
// condition makes a user vulnerable to.
var pollutantSensitivity = map[string][]string{
	"asthma":     {"PM2.5", "NO2", "O3"},
	"bronchitis": {"PM2.5", "PM10"},
	"copd":       {"PM2.5", "PM10", "NO2", "O3"},
	"pregnancy":  {"PM2.5"},
	"elderly":    {"PM2.5", "PM10", "O3"},
}

var pollutantHarm = map[string]string{
	"PM2.5": "Fine particulate matter (PM2.5) penetrates deep into the lungs and can aggravate asthma, bronchitis, pregnancy-related risks, and cardiovascular disease.",
	"PM10":  "Coarse particulate matter (PM10) can irritate the airways and aggravate respiratory conditions in older adults and those with lung disease.",
	"NO2":   "Nitrogen dioxide (NO2) irritates airways and can worsen asthma and other respiratory conditions.",
	"O3":    "Ground-level ozone (O3) can cause chest pain, coughing, throat irritation and worsen bronchitis, emphysema and asthma.",
}

// DescribePollutantHarm returns the fixed harm explanation for a pollutant,
// or a generic sentence for symbols without dedicated text.
func DescribePollutantHarm(pollutant string) string {
	if text, ok := pollutantHarm[pollutant]; ok {
		return text
	}
	return pollutant + " may affect sensitive people."
}
