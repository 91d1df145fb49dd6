package advisor

import (
	"sort"
	"time"
)

const (
	defaultBirthMonth = 1
	defaultBirthYear  = 2000
	elderlyAge        = 65
)

// ComputeAge derives the user's age from birth month/year against the given
// reference time. Missing birth fields fall back to (1, 2000) so the result
// is always deterministic and never an error.
func ComputeAge(birthMonth, birthYear int, today time.Time) int {
	if birthMonth == 0 {
		birthMonth = defaultBirthMonth
	}
	if birthYear == 0 {
		birthYear = defaultBirthYear
	}
	age := today.Year() - birthYear
	if int(today.Month()) < birthMonth {
		age--
	}
	return age
}

// SensitivePollutants returns the sorted, deduplicated union of the pollutant
// lists for every condition present on the profile.
func SensitivePollutants(profile UserHealthProfile, age int) []string {
	seen := make(map[string]struct{})
	add := func(condition string) {
		for _, p := range pollutantSensitivity[condition] {
			seen[p] = struct{}{}
		}
	}
	if profile.HasCopd {
		add("copd")
	}
	if profile.HasAsthma {
		add("asthma")
	}
	if profile.HasBronchitis {
		add("bronchitis")
	}
	if profile.Pregnant {
		add("pregnancy")
	}
	if age >= elderlyAge {
		add("elderly")
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// DeterminePresetBucket collapses the profile to a single risk group. First
// match wins: COPD outranks everything, multiple non-COPD respiratory
// conditions collapse to a combined bucket, then single conditions, with age
// as the last specific fallback before General.
func DeterminePresetBucket(profile UserHealthProfile, age int) PresetBucket {
	if profile.HasCopd {
		return BucketCOPD
	}
	if profile.HasAsthma && profile.HasBronchitis {
		return BucketRespiratoryMultiple
	}
	if profile.HasAsthma {
		return BucketAsthma
	}
	if profile.HasBronchitis {
		return BucketBronchitis
	}
	if profile.Pregnant {
		return BucketPregnant
	}
	if age >= elderlyAge {
		return BucketElderly
	}
	return BucketGeneral
}
