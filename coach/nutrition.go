package coach

import "fmt"

// Fueling constants, g of carbs per kg body weight.
const (
	preRunCarbsEasyPerKg = 0.5
	preRunCarbsHardPerKg = 1.0
	postRunProteinPerKg  = 0.27
)

var postRunCarbsPerKg = struct {
	short  float64 // <=45 min
	medium float64 // 46-89 min
	long   float64 // >=90 min
}{0.6, 0.8, 1.0}

var (
	hydrationMLPerHour    = [2]int{500, 750}
	hydrationSodiumMgPerL = [2]int{400, 800}
)

// intraCarbRule prescribes in-run fueling for a duration band.
type intraCarbRule struct {
	minMinutes       int
	maxMinutes       int
	carbsPerHour     int
	fluids           string
	electrolytesMgPL int
}

var intraCarbRules = []intraCarbRule{
	{0, 59, 0, "Water", 300},
	{60, 89, 30, "Water + electrolytes", 400},
	{90, 180, 60, "Carb mix (glucose/fructose) + electrolytes", 500},
	{181, 300, 90, "High-carb mix + electrolytes", 600},
}

// PreRunFueling is the pre-session carb target.
type PreRunFueling struct {
	CarbsG float64
	Notes  string
}

// IntraRunFueling is the in-session fueling prescription.
type IntraRunFueling struct {
	CarbsGPerHour    int
	Fluids           string
	ElectrolytesMgPL int
	Notes            string
}

// PostRunFueling is the recovery meal target.
type PostRunFueling struct {
	ProteinG float64
	CarbsG   float64
	Notes    string
}

// HydrationGuidance covers fluid and sodium intake for the session.
type HydrationGuidance struct {
	FluidsMLPerHour string
	SodiumMgPerL    string
	Notes           string
}

// NutritionPlan is the full fueling block for one training session.
type NutritionPlan struct {
	PreRun    PreRunFueling
	IntraRun  IntraRunFueling
	PostRun   PostRunFueling
	Hydration HydrationGuidance
}

// BuildNutritionPlan derives pre, intra and post session fueling from the
// session's duration and intensity and the runner's body weight.
func BuildNutritionPlan(session *Session, profile *Profile) NutritionPlan {
	hard := session.Template.Hard()

	preRate := preRunCarbsEasyPerKg
	preNotes := "Small carb snack 30-60 min pre-run."
	if hard {
		preRate = preRunCarbsHardPerKg
		preNotes = "Aim for low-fiber carbs 2-3h pre-run; add 500 ml fluids."
	}

	return NutritionPlan{
		PreRun: PreRunFueling{
			CarbsG: round1(profile.WeightKg * preRate),
			Notes:  preNotes,
		},
		IntraRun:  intraFueling(session.DurationMinutes, session.PrimaryZone),
		PostRun:   postFueling(session.DurationMinutes, profile.WeightKg),
		Hydration: hydrationGuidance(session.DurationMinutes, session.PrimaryZone),
	}
}

func intraFueling(duration int, zone Zone) IntraRunFueling {
	rule := intraCarbRules[0]
	for _, candidate := range intraCarbRules {
		if duration >= candidate.minMinutes && duration <= candidate.maxMinutes {
			rule = candidate
			break
		}
	}

	carbs := rule.carbsPerHour
	if (zone == Z4 || zone == Z5) && duration >= 90 && carbs < 70 {
		carbs = 70
	}

	notes := "Water as thirst dictates; add electrolytes in heat."
	if carbs > 0 {
		notes = "Use glucose+fructose mix for >60 g/h; sip steadily every 10-15 min."
	}

	return IntraRunFueling{
		CarbsGPerHour:    carbs,
		Fluids:           rule.fluids,
		ElectrolytesMgPL: rule.electrolytesMgPL,
		Notes:            notes,
	}
}

func postFueling(duration int, weightKg float64) PostRunFueling {
	carbRate := postRunCarbsPerKg.short
	switch {
	case duration >= 90:
		carbRate = postRunCarbsPerKg.long
	case duration >= 46:
		carbRate = postRunCarbsPerKg.medium
	}

	return PostRunFueling{
		ProteinG: round1(weightKg * postRunProteinPerKg),
		CarbsG:   round1(weightKg * carbRate),
		Notes:    "Refuel within 60 min with carbs + 20-30 g protein; add a second carb meal if double day.",
	}
}

func hydrationGuidance(duration int, zone Zone) HydrationGuidance {
	sodium := "Lightly salted foods suffice for short easy days."
	if duration >= 60 || zone == Z3 || zone == Z4 || zone == Z5 {
		sodium = fmt.Sprintf("%d-%d", hydrationSodiumMgPerL[0], hydrationSodiumMgPerL[1])
	}

	return HydrationGuidance{
		FluidsMLPerHour: fmt.Sprintf("%d-%d", hydrationMLPerHour[0], hydrationMLPerHour[1]),
		SodiumMgPerL:    sodium,
		Notes:           "Use thirst as a guide; adjust upward in heat or humidity.",
	}
}
