package coach

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intermediateRunner() *Profile {
	return &Profile{
		UserID:        "athlete-123",
		Age:           35,
		Sex:           "male",
		WeightKg:      68.0,
		HeightCm:      175.0,
		MaxHR:         190,
		RestingHR:     52,
		TrainingLevel: LevelIntermediate,
		GoalEvent:     "Spring Half Marathon",
	}
}

func buildPhase() *Macrocycle {
	return &Macrocycle{
		Phase:                  "build",
		WeeksToEvent:           10,
		GoalEvent:              "Spring Half Marathon",
		TargetWeeklyDistanceKm: 55.0,
	}
}

func freshReadiness() ReadinessInputs {
	return ReadinessInputs{
		SleepHours:   8.0,
		SleepQuality: 8,
		Soreness:     2,
		Stress:       2,
		MentalEnergy: 8,
	}
}

// steadyHistory is 28 days of even load, ACWR ~1.0.
func steadyHistory() []float64 {
	history := make([]float64, 28)
	for i := range history {
		history[i] = 50
	}
	return history
}

func TestHeartRateZonesKarvonen(t *testing.T) {
	zones, err := HeartRateZones(190, 52)
	require.NoError(t, err)

	// Reserve is 138; Z1 spans 55-72% of reserve above resting.
	assert.Equal(t, HRRange{Low: 128, High: 151}, zones[Z1])
	assert.Equal(t, HRRange{Low: 151, High: 165}, zones[Z2])
	assert.Equal(t, 190, zones[Z5].High, "Z5 tops out at max HR")

	// Zones tile the reserve without gaps.
	assert.Equal(t, zones[Z1].High, zones[Z2].Low)
	assert.Equal(t, zones[Z2].High, zones[Z3].Low)
	assert.Equal(t, zones[Z3].High, zones[Z4].Low)
	assert.Equal(t, zones[Z4].High, zones[Z5].Low)
}

func TestHeartRateZonesRequireMaxHR(t *testing.T) {
	_, err := HeartRateZones(0, 52)
	assert.Error(t, err)
}

func TestHeartRateZonesDefaultRestingHR(t *testing.T) {
	zones, err := HeartRateZones(190, 0)
	require.NoError(t, err)
	// Reserve is 130 over the assumed resting HR of 60.
	assert.Equal(t, HRRange{Low: 132, High: 154}, zones[Z1])
}

func TestClassifyACWR(t *testing.T) {
	assert.Equal(t, LoadUnderload, ClassifyACWR(0.5))
	assert.Equal(t, LoadOptimal, ClassifyACWR(0.8))
	assert.Equal(t, LoadOptimal, ClassifyACWR(1.3))
	assert.Equal(t, LoadElevated, ClassifyACWR(1.4))
	assert.Equal(t, LoadElevated, ClassifyACWR(1.5))
	assert.Equal(t, LoadHigh, ClassifyACWR(1.6))
}

func TestAcuteChronicWindows(t *testing.T) {
	// 21 days at 40, then 7 days at 80: acute spikes, chronic lags.
	history := make([]float64, 28)
	for i := 0; i < 21; i++ {
		history[i] = 40
	}
	for i := 21; i < 28; i++ {
		history[i] = 80
	}

	acute, chronic := AcuteChronic(history)
	assert.InDelta(t, 80.0, acute, 0.01)
	assert.InDelta(t, 50.0, chronic, 0.01)
	assert.Equal(t, LoadHigh, ClassifyACWR(ACWR(acute, chronic)))
}

func TestACWRNoChronicBase(t *testing.T) {
	assert.True(t, math.IsInf(ACWR(50, 0), 1))
	assert.Equal(t, 0.0, ACWR(0, 0))

	acute, chronic := AcuteChronic(nil)
	assert.Equal(t, 0.0, acute)
	assert.Equal(t, 0.0, chronic)
}

func TestReadinessScoreTiers(t *testing.T) {
	profile := intermediateRunner()

	score, tier := ReadinessScore(freshReadiness(), profile, LoadOptimal)
	assert.Equal(t, ReadinessHigh, tier)
	assert.Greater(t, score, 75.0)

	rough := ReadinessInputs{
		SleepHours:   4.0,
		SleepQuality: 3,
		Soreness:     8,
		Stress:       8,
		MentalEnergy: 3,
	}
	score, tier = ReadinessScore(rough, profile, LoadHigh)
	assert.Equal(t, ReadinessLow, tier)
	assert.Less(t, score, 50.0)
}

func TestReadinessScoreElevatedRestingHR(t *testing.T) {
	profile := intermediateRunner()

	// A middling check-in keeps the score well below the 100 clamp so
	// the resting HR penalty is visible.
	inputs := ReadinessInputs{
		SleepHours:   7.0,
		SleepQuality: 6,
		Soreness:     4,
		Stress:       4,
		MentalEnergy: 5,
	}
	baseline, _ := ReadinessScore(inputs, profile, LoadOptimal)

	inputs.RestingHR = profile.RestingHR + 10
	withElevated, _ := ReadinessScore(inputs, profile, LoadOptimal)

	assert.InDelta(t, baseline-12.0, withElevated, 0.01, "each bpm over baseline costs 1.2 points")
}

func TestAdaptTemplateInjuryDowngrades(t *testing.T) {
	profile := intermediateRunner()
	profile.InjuryFlag = true
	coach := New(nil)

	day := &DayContext{
		Template:            TemplateVO2Intervals,
		AvailabilityMinutes: 60,
		Readiness:           freshReadiness(),
		LoadHistory:         steadyHistory(),
	}

	plan, err := coach.GenerateDailyPlan(profile, buildPhase(), day)
	require.NoError(t, err)
	assert.Equal(t, TemplateRecovery, plan.TemplateFinal)
	assert.NotEmpty(t, plan.Adaptations)
}

func TestAdaptTemplateHighLoadLowReadinessMeansRest(t *testing.T) {
	coach := New(nil)

	// Load spike plus a rough morning forces full rest.
	history := steadyHistory()
	for i := 21; i < 28; i++ {
		history[i] = 120
	}
	day := &DayContext{
		Template:            TemplateThreshold,
		AvailabilityMinutes: 75,
		Readiness: ReadinessInputs{
			SleepHours:   4.0,
			SleepQuality: 3,
			Soreness:     8,
			Stress:       8,
			MentalEnergy: 2,
		},
		LoadHistory: history,
	}

	plan, err := coach.GenerateDailyPlan(intermediateRunner(), buildPhase(), day)
	require.NoError(t, err)
	assert.Equal(t, TemplateRest, plan.TemplateFinal)
	assert.Equal(t, 0, plan.Session.DurationMinutes)
}

func TestGenerateDailyPlanThresholdDay(t *testing.T) {
	coach := New(nil)
	day := &DayContext{
		DayIndex:            2,
		DayName:             "Tuesday",
		Template:            TemplateThreshold,
		AvailabilityMinutes: 75,
		Readiness:           freshReadiness(),
		LoadHistory:         steadyHistory(),
	}

	plan, err := coach.GenerateDailyPlan(intermediateRunner(), buildPhase(), day)
	require.NoError(t, err)

	assert.Equal(t, TemplateThreshold, plan.TemplateFinal)
	assert.Equal(t, "Lactate Threshold", plan.Session.Type)
	assert.Equal(t, Z3, plan.Session.PrimaryZone)
	assert.LessOrEqual(t, plan.Session.DurationMinutes, 75)
	assert.Greater(t, plan.Session.EstimatedLoad, 0.0)
	assert.Equal(t, LoadOptimal, plan.LoadRisk.Zone)

	// Hard day fueling: 1 g/kg pre-run carbs for a 68 kg runner.
	assert.InDelta(t, 68.0, plan.Nutrition.PreRun.CarbsG, 0.01)
	assert.InDelta(t, 18.4, plan.Nutrition.PostRun.ProteinG, 0.05)
}

func TestGenerateDailyPlanMissingMaxHR(t *testing.T) {
	coach := New(nil)
	profile := intermediateRunner()
	profile.MaxHR = 0

	day := &DayContext{
		Template:            TemplateRecovery,
		AvailabilityMinutes: 40,
		Readiness:           freshReadiness(),
		LoadHistory:         steadyHistory(),
	}

	plan, err := coach.GenerateDailyPlan(profile, buildPhase(), day)
	require.NoError(t, err)
	require.NotEmpty(t, plan.Adaptations)
	assert.Contains(t, plan.Adaptations[0], "Missing max HR")
}

func TestSessionTrimsToAvailability(t *testing.T) {
	coach := New(nil)
	day := &DayContext{
		Template:            TemplateLongRun,
		AvailabilityMinutes: 80,
		Readiness:           freshReadiness(),
		LoadHistory:         steadyHistory(),
	}

	plan, err := coach.GenerateDailyPlan(intermediateRunner(), buildPhase(), day)
	require.NoError(t, err)
	assert.LessOrEqual(t, plan.Session.DurationMinutes, 80)
}

func TestModerateReadinessTrimsHardSessions(t *testing.T) {
	coach := New(nil)

	moderate := ReadinessInputs{
		SleepHours:   6.0,
		SleepQuality: 5,
		Soreness:     5,
		Stress:       5,
		MentalEnergy: 5,
	}
	day := &DayContext{
		Template:            TemplateVO2Intervals,
		AvailabilityMinutes: 120,
		Readiness:           moderate,
		LoadHistory:         steadyHistory(),
	}

	plan, err := coach.GenerateDailyPlan(intermediateRunner(), buildPhase(), day)
	require.NoError(t, err)
	assert.Equal(t, ReadinessModerate, plan.Readiness.Tier)
	assert.Contains(t, plan.Adaptations, "Moderate readiness; trimmed volume by 15%.")
}

func TestNutritionIntraFuelingBands(t *testing.T) {
	profile := intermediateRunner()

	short := &Session{Template: TemplateRecovery, DurationMinutes: 40, PrimaryZone: Z1}
	plan := BuildNutritionPlan(short, profile)
	assert.Equal(t, 0, plan.IntraRun.CarbsGPerHour, "no carbs needed under an hour")

	long := &Session{Template: TemplateLongRun, DurationMinutes: 110, PrimaryZone: Z2}
	plan = BuildNutritionPlan(long, profile)
	assert.Equal(t, 60, plan.IntraRun.CarbsGPerHour)

	hardLong := &Session{Template: TemplateVO2Intervals, DurationMinutes: 95, PrimaryZone: Z4}
	plan = BuildNutritionPlan(hardLong, profile)
	assert.Equal(t, 70, plan.IntraRun.CarbsGPerHour, "hard efforts over 90 min bump the carb target")
}

func TestRecoveryProtocolMastersAndNovice(t *testing.T) {
	masters := intermediateRunner()
	masters.Age = 45
	protocol := BuildRecoveryProtocol(ReadinessHigh, LoadOptimal, masters)
	assert.Contains(t, protocol.Actions, "Include extra calf/hip stability 2-3x/week; extend cooldown by 5 min")

	novice := intermediateRunner()
	novice.TrainingLevel = LevelNovice
	protocol = BuildRecoveryProtocol(ReadinessHigh, LoadOptimal, novice)
	assert.Contains(t, protocol.Actions, "Prefer soft surfaces; focus on relaxed form cues")
}
