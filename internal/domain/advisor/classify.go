package advisor

var unknownClassification = Classification{Category: "Unknown", ColorCode: "Gray"}

// ClassifyAQI maps a numeric AQI onto its band. A nil AQI or a value outside
// every band yields the Unknown/Gray fallback; classification never fails.
func ClassifyAQI(aqi *int) Classification {
	if aqi == nil {
		return unknownClassification
	}
	for _, band := range aqiBands {
		if *aqi >= band.low && *aqi <= band.high {
			return Classification{Category: band.category, ColorCode: band.color}
		}
	}
	return unknownClassification
}

// SeverityScore produces the [0,1] scalar that selects the action tier. The
// step boundaries are authored independently of the category bands and must
// stay that way; tests pin both tables.
func SeverityScore(aqi *int, bucket PresetBucket) float64 {
	score := baseSeverity(aqi)
	if sensitiveBucket(bucket) {
		score += 0.15
		if score > 1.0 {
			score = 1.0
		}
	}
	return score
}

func baseSeverity(aqi *int) float64 {
	switch {
	case aqi == nil:
		return 0.2
	case *aqi <= 50:
		return 0.0
	case *aqi <= 100:
		return 0.25
	case *aqi <= 150:
		return 0.5
	case *aqi <= 200:
		return 0.75
	default:
		return 0.95
	}
}

func sensitiveBucket(bucket PresetBucket) bool {
	switch bucket {
	case BucketCOPD, BucketAsthma, BucketPregnant, BucketRespiratoryMultiple:
		return true
	default:
		return false
	}
}
