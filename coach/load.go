package coach

import "math"

// ACWR classification zones.
const (
	LoadUnderload = "underload"
	LoadOptimal   = "optimal"
	LoadElevated  = "elevated"
	LoadHigh      = "high"
)

// ACWR thresholds: below 0.8 is underload, 0.8-1.3 optimal, up to 1.5
// elevated, beyond that high injury risk.
const (
	acwrUnder        = 0.8
	acwrOptimalHigh  = 1.3
	acwrElevatedHigh = 1.5
)

// LoadReport summarizes acute vs chronic training load.
type LoadReport struct {
	AcuteLoad      float64
	ChronicLoad    float64
	ACWR           float64
	Zone           string
	Recommendation string
}

// AcuteChronic computes the 7 day acute and 28 day chronic load averages
// from a day-by-day load history, most recent day last.
func AcuteChronic(history []float64) (acute, chronic float64) {
	if len(history) == 0 {
		return 0, 0
	}

	acuteWindow := history
	if len(history) > 7 {
		acuteWindow = history[len(history)-7:]
	}
	chronicWindow := history
	if len(history) > 28 {
		chronicWindow = history[len(history)-28:]
	}
	return average(acuteWindow), average(chronicWindow)
}

// ACWR computes the acute:chronic workload ratio. With no chronic base
// the ratio is infinite when acute load exists, zero otherwise.
func ACWR(acute, chronic float64) float64 {
	if chronic <= 0 {
		if acute > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return acute / chronic
}

// ClassifyACWR maps a ratio to its risk zone.
func ClassifyACWR(acwr float64) string {
	switch {
	case acwr < acwrUnder:
		return LoadUnderload
	case acwr <= acwrOptimalHigh:
		return LoadOptimal
	case acwr <= acwrElevatedHigh:
		return LoadElevated
	default:
		return LoadHigh
	}
}

// AnalyzeLoad produces a full load report for a day-by-day load history.
func AnalyzeLoad(history []float64) LoadReport {
	acute, chronic := AcuteChronic(history)
	acwr := ACWR(acute, chronic)
	zone := ClassifyACWR(acwr)

	recommendation := "Maintain progressive overload."
	switch zone {
	case LoadUnderload:
		recommendation = "Increase load gradually (5-10%) to avoid detraining."
	case LoadElevated:
		recommendation = "Hold or slightly reduce load; avoid stacking hard days."
	case LoadHigh:
		recommendation = "Prioritize recovery; cap intensity until ACWR is back in range."
	}

	return LoadReport{
		AcuteLoad:      round2(acute),
		ChronicLoad:    round2(chronic),
		ACWR:           roundACWR(acwr),
		Zone:           zone,
		Recommendation: recommendation,
	}
}

func average(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundACWR(v float64) float64 {
	if math.IsInf(v, 1) {
		return v
	}
	return round2(v)
}
