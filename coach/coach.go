package coach

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Training levels.
const (
	LevelNovice       = "novice"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Template names a planned session shape for a microcycle day.
type Template string

const (
	TemplateRest            Template = "Rest"
	TemplateRecovery        Template = "Recovery"
	TemplateLongRun         Template = "Long Run"
	TemplateThreshold       Template = "Threshold"
	TemplateVO2Intervals    Template = "VO2_Intervals"
	TemplateDoubleThreshold Template = "Double_Threshold"
)

// Hard reports whether the template is a long or high-intensity session.
func (t Template) Hard() bool {
	switch t {
	case TemplateLongRun, TemplateThreshold, TemplateVO2Intervals, TemplateDoubleThreshold:
		return true
	}
	return false
}

// Profile describes the runner.
type Profile struct {
	UserID        string
	Age           int
	Sex           string
	WeightKg      float64
	HeightCm      float64
	MaxHR         int
	RestingHR     int
	TrainingLevel string
	InjuryFlag    bool
	GoalEvent     string
}

// Macrocycle is the season-level training context.
type Macrocycle struct {
	Phase                  string // base | build | peak | taper | recovery
	WeeksToEvent           int
	GoalEvent              string
	TargetWeeklyDistanceKm float64
	SurfaceFocus           string
}

// DayContext is one microcycle day's inputs.
type DayContext struct {
	DayIndex            int
	DayName             string
	Template            Template
	AvailabilityMinutes int
	Readiness           ReadinessInputs
	PlannedDistanceKm   float64
	LoadHistory         []float64 // day-by-day load units, most recent last
	Environment         string
}

// Segment is one block of a training session.
type Segment struct {
	Label           string
	DurationMinutes int
	TargetZone      Zone
	HRRange         HRRange
	Notes           string
}

// Session is a fully built training session.
type Session struct {
	Type            string
	Template        Template
	DurationMinutes int
	Segments        []Segment
	PrimaryZone     Zone
	EstimatedLoad   float64
	Notes           string
}

// Readiness is the scored morning check-in.
type Readiness struct {
	Score float64
	Tier  string
}

// DailyPlan is the complete coaching output for one day.
type DailyPlan struct {
	DayIndex          int
	DayName           string
	TemplateRequested Template
	TemplateFinal     Template
	Session           Session
	Nutrition         NutritionPlan
	Recovery          RecoveryProtocol
	LoadRisk          LoadReport
	Readiness         Readiness
	Adaptations       []string
	HRZones           map[Zone]HRRange
}

// perceived intensity factors per zone, used for session load estimates.
var intensityFactors = map[Zone]float64{
	Z1: 1.0, Z2: 1.3, Z3: 1.6, Z4: 1.9, Z5: 2.3,
}

// fallbackMaxHR is assumed when the profile carries no max HR.
const fallbackMaxHR = 190

// Coach coordinates physiology, load, nutrition and recovery logic.
type Coach struct {
	logger *zap.SugaredLogger
}

// New creates a coach.
func New(logger *zap.SugaredLogger) *Coach {
	return &Coach{logger: logger}
}

// GenerateDailyPlan builds the full plan for one microcycle day: load and
// readiness analysis first, then template adaptation, session build,
// fueling and recovery.
func (c *Coach) GenerateDailyPlan(profile *Profile, macro *Macrocycle, day *DayContext) (*DailyPlan, error) {
	var adaptations []string

	maxHR := profile.MaxHR
	if maxHR <= 0 {
		adaptations = append(adaptations, fmt.Sprintf("Missing max HR; defaulting to %d bpm for zone calc.", fallbackMaxHR))
		maxHR = fallbackMaxHR
	}
	zones, err := HeartRateZones(maxHR, profile.RestingHR)
	if err != nil {
		return nil, err
	}

	loadRisk := AnalyzeLoad(day.LoadHistory)
	score, tier := ReadinessScore(day.Readiness, profile, loadRisk.Zone)

	template := c.adaptTemplate(day.Template, tier, loadRisk.Zone, profile, &adaptations)
	session := c.buildSession(template, day, macro, zones, tier, &adaptations)
	nutrition := BuildNutritionPlan(&session, profile)
	recovery := BuildRecoveryProtocol(tier, loadRisk.Zone, profile)

	if c.logger != nil {
		c.logger.Debugw("Generated daily plan",
			"user_id", profile.UserID,
			"template_requested", day.Template,
			"template_final", template,
			"readiness_tier", tier,
			"acwr_zone", loadRisk.Zone)
	}

	return &DailyPlan{
		DayIndex:          day.DayIndex,
		DayName:           day.DayName,
		TemplateRequested: day.Template,
		TemplateFinal:     template,
		Session:           session,
		Nutrition:         nutrition,
		Recovery:          recovery,
		LoadRisk:          loadRisk,
		Readiness:         Readiness{Score: round1(score), Tier: tier},
		Adaptations:       adaptations,
		HRZones:           zones,
	}, nil
}

// adaptTemplate downgrades the planned template when injury, readiness or
// load risk demands it.
func (c *Coach) adaptTemplate(template Template, tier, acwrZone string, profile *Profile, adaptations *[]string) Template {
	adjusted := template

	if profile.InjuryFlag && template != TemplateRest && template != TemplateRecovery {
		adjusted = TemplateRecovery
		*adaptations = append(*adaptations, "Injury flag set; downgrading to Recovery.")
	}

	switch {
	case tier == ReadinessLow:
		if template != TemplateRest && template != TemplateRecovery {
			adjusted = TemplateRecovery
			*adaptations = append(*adaptations, "Low readiness detected; replaced hard session with Recovery.")
		}
		if acwrZone == LoadHigh {
			adjusted = TemplateRest
			*adaptations = append(*adaptations, "High ACWR + low readiness; prescribing Rest.")
		}
	case acwrZone == LoadHigh:
		if template == TemplateVO2Intervals || template == TemplateDoubleThreshold {
			adjusted = TemplateThreshold
			*adaptations = append(*adaptations, "High ACWR; downgrading from very hard to Threshold.")
		}
	case acwrZone == LoadElevated:
		if template == TemplateVO2Intervals || template == TemplateDoubleThreshold {
			adjusted = TemplateThreshold
			*adaptations = append(*adaptations, "Elevated ACWR; shifting to Threshold focus.")
		}
	}

	return adjusted
}

func (c *Coach) buildSession(template Template, day *DayContext, macro *Macrocycle, zones map[Zone]HRRange, tier string, adaptations *[]string) Session {
	var session Session
	switch template {
	case TemplateRest:
		session = restDay()
	case TemplateLongRun:
		session = longRun(day, macro, zones)
	case TemplateThreshold:
		session = thresholdRun(day, macro, zones)
	case TemplateVO2Intervals:
		session = vo2Intervals(day, macro, zones)
	case TemplateDoubleThreshold:
		session = doubleThreshold(day, macro, zones)
	default:
		session = recoveryRun(day, zones)
	}
	session.Template = template
	if session.PrimaryZone == "" {
		session.PrimaryZone = Z1
	}

	if tier == ReadinessModerate && template != TemplateRest && template != TemplateRecovery {
		trimVolume(&session, 0.85)
		*adaptations = append(*adaptations, "Moderate readiness; trimmed volume by 15%.")
	}

	if day.AvailabilityMinutes > 0 && session.DurationMinutes > day.AvailabilityMinutes {
		factor := float64(day.AvailabilityMinutes) / float64(session.DurationMinutes)
		trimVolume(&session, factor)
		*adaptations = append(*adaptations, fmt.Sprintf("Duration capped to availability (%d min).", day.AvailabilityMinutes))
	}

	session.EstimatedLoad = estimateLoad(session.Segments)
	return session
}

// trimVolume scales the session and all its segments by factor.
func trimVolume(session *Session, factor float64) {
	session.DurationMinutes = int(math.Round(float64(session.DurationMinutes) * factor))
	if session.DurationMinutes < 0 {
		session.DurationMinutes = 0
	}
	for i := range session.Segments {
		d := int(math.Round(float64(session.Segments[i].DurationMinutes) * factor))
		if d < 0 {
			d = 0
		}
		session.Segments[i].DurationMinutes = d
	}
}

func estimateLoad(segments []Segment) float64 {
	var total float64
	for _, seg := range segments {
		factor, ok := intensityFactors[seg.TargetZone]
		if !ok {
			factor = 1.0
		}
		total += float64(seg.DurationMinutes) * factor
	}
	return round1(total)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
