package coach

// Readiness tiers.
const (
	ReadinessLow      = "low"
	ReadinessModerate = "moderate"
	ReadinessHigh     = "high"
)

const (
	readinessModerateBound = 50
	readinessHighBound     = 75
	mastersAge             = 40
)

// ReadinessInputs is a runner's morning check-in.
type ReadinessInputs struct {
	SleepHours   float64
	SleepQuality int // 1-10
	Soreness     int // 1-10
	Stress       int // 1-10
	MentalEnergy int // 1-10
	RestingHR    int     // 0 when not measured
	HRVChangeMs  float64 // vs baseline; negative means suppressed
	HRVMeasured  bool
}

// ReadinessScore scores today's readiness 0-100 from the morning
// check-in, the runner's baseline and current load risk, and maps it to
// a tier.
func ReadinessScore(inputs ReadinessInputs, profile *Profile, loadZone string) (float64, string) {
	score := 100.0

	if deficit := 7.5 - inputs.SleepHours; deficit > 0 {
		score -= deficit * 5.0
	}
	score += float64(inputs.SleepQuality-7) * 3.0
	score -= float64(inputs.Soreness-3) * 4.0
	score -= float64(inputs.Stress-3) * 3.0
	score += float64(inputs.MentalEnergy-5) * 2.5

	if inputs.RestingHR > 0 && profile.RestingHR > 0 {
		if delta := inputs.RestingHR - profile.RestingHR; delta > 0 {
			score -= float64(delta) * 1.2
		}
	}
	if inputs.HRVMeasured && inputs.HRVChangeMs < 0 {
		score += inputs.HRVChangeMs * 0.6
	}

	if loadZone == LoadElevated || loadZone == LoadHigh {
		score -= 8
	}
	if profile.InjuryFlag {
		score -= 10
	}

	score = clamp(score, 0, 100)

	tier := ReadinessLow
	switch {
	case score >= readinessHighBound:
		tier = ReadinessHigh
	case score >= readinessModerateBound:
		tier = ReadinessModerate
	}
	return score, tier
}

// RecoveryProtocol is the day's recovery actions and monitoring cues.
type RecoveryProtocol struct {
	Actions    []string
	Monitoring []string
}

// BuildRecoveryProtocol assembles recovery actions for the day from the
// readiness tier, load risk zone and the runner's profile.
func BuildRecoveryProtocol(readinessTier, acwrZone string, profile *Profile) RecoveryProtocol {
	actions := []string{
		"7-9h sleep, consistent bedtime",
		"Protein with every meal; colorful carbs and healthy fats",
	}
	monitoring := []string{
		"Subjective check-in (mood/soreness)",
		"Resting HR on waking",
	}

	switch {
	case readinessTier == ReadinessLow || acwrZone == LoadHigh:
		actions = append(actions,
			"Active recovery: 20-40 min easy walk/ride",
			"10-15 min mobility + light band work",
			"Early night; reduce stimulants")
		monitoring = append(monitoring, "Delay intensity until readiness improves")
	case readinessTier == ReadinessModerate || acwrZone == LoadElevated:
		actions = append(actions,
			"Keep intensity at or below Z2 today",
			"Add 5-10 min of post-run mobility",
			"Extra 20-30 g carbs in evening meal")
	default:
		actions = append(actions,
			"Proceed with planned intensity; keep warmup thorough",
			"Short strides to maintain neuromuscular readiness")
	}

	if profile.Age >= mastersAge {
		actions = append(actions, "Include extra calf/hip stability 2-3x/week; extend cooldown by 5 min")
	}
	if profile.TrainingLevel == LevelNovice {
		actions = append(actions, "Prefer soft surfaces; focus on relaxed form cues")
	}
	if profile.InjuryFlag {
		actions = append(actions, "Prioritize pain-free movement; skip plyometrics and downhill stress")
	}

	return RecoveryProtocol{Actions: actions, Monitoring: monitoring}
}

func clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
