package coach

import "fmt"

// Session builders. Each produces the unadapted shape for its template;
// readiness and availability trimming happen afterwards.

func restDay() Session {
	return Session{
		Type:            "Rest",
		DurationMinutes: 0,
		PrimaryZone:     Z1,
		Notes:           "Full rest or light 20-30 min walk if desired.",
	}
}

func recoveryRun(day *DayContext, zones map[Zone]HRRange) Session {
	duration := day.AvailabilityMinutes
	if duration > 40 {
		duration = 40
	}
	if duration < 20 {
		duration = 20
	}
	return Session{
		Type:            "Recovery",
		DurationMinutes: duration,
		Segments: []Segment{
			{Label: "Easy", DurationMinutes: duration, TargetZone: Z1, HRRange: zones[Z1]},
		},
		PrimaryZone: Z1,
		Notes:       "Keep cadence relaxed; nasal breathing. Optional 3-4x10s strides if feeling fresh.",
	}
}

func longRun(day *DayContext, macro *Macrocycle, zones map[Zone]HRRange) Session {
	target := day.AvailabilityMinutes
	if target < 75 {
		target = 75
	}
	if target > 120 {
		target = 120
	}

	const warmup, cooldown, surgeBlock = 10, 10, 8
	steady := target - (warmup + cooldown + surgeBlock)
	if steady < 40 {
		steady = 40
	}
	total := warmup + steady + surgeBlock + cooldown
	if total > target {
		steady -= total - target
		if steady < 40 {
			steady = 40
		}
		total = warmup + steady + surgeBlock + cooldown
	}

	segments := []Segment{
		{Label: "Warm-up", DurationMinutes: warmup, TargetZone: Z1, HRRange: zones[Z1]},
		{Label: "Steady", DurationMinutes: steady, TargetZone: Z2, HRRange: zones[Z2]},
		{Label: "Optional Surges", DurationMinutes: surgeBlock, TargetZone: Z3, HRRange: zones[Z3],
			Notes: "4x2 min uptempo with 3 min easy jogs"},
		{Label: "Cool-down", DurationMinutes: cooldown, TargetZone: Z1, HRRange: zones[Z1]},
	}

	return Session{
		Type:            "Endurance",
		DurationMinutes: total,
		Segments:        segments,
		PrimaryZone:     Z2,
		Notes:           fmt.Sprintf("Macrocycle phase: %s. Keep fueling steady; avoid racing the long run.", macro.Phase),
	}
}

func thresholdRun(day *DayContext, macro *Macrocycle, zones map[Zone]HRRange) Session {
	reps := 3
	repDuration := 10
	const recovery, warmup, cooldown = 3, 15, 10

	total := warmup + reps*repDuration + (reps-1)*recovery + cooldown
	if day.AvailabilityMinutes > 0 && total > day.AvailabilityMinutes {
		factor := float64(day.AvailabilityMinutes) / float64(total)
		repDuration = int(float64(repDuration)*factor + 0.5)
		if repDuration < 8 {
			repDuration = 8
		}
		reps--
		if reps < 2 {
			reps = 2
		}
		total = warmup + reps*repDuration + (reps-1)*recovery + cooldown
	}

	segments := []Segment{{Label: "Warm-up", DurationMinutes: warmup, TargetZone: Z1, HRRange: zones[Z1]}}
	for i := 0; i < reps; i++ {
		segments = append(segments, Segment{
			Label: fmt.Sprintf("Threshold rep %d", i+1), DurationMinutes: repDuration,
			TargetZone: Z3, HRRange: zones[Z3],
		})
		if i < reps-1 {
			segments = append(segments, Segment{
				Label: fmt.Sprintf("Recovery jog %d", i+1), DurationMinutes: recovery,
				TargetZone: Z1, HRRange: zones[Z1],
			})
		}
	}
	segments = append(segments, Segment{Label: "Cool-down", DurationMinutes: cooldown, TargetZone: Z1, HRRange: zones[Z1]})

	return Session{
		Type:            "Lactate Threshold",
		DurationMinutes: total,
		Segments:        segments,
		PrimaryZone:     Z3,
		Notes:           fmt.Sprintf("Stay controlled; avoid drifting into VO2. Phase: %s.", macro.Phase),
	}
}

func vo2Intervals(day *DayContext, macro *Macrocycle, zones map[Zone]HRRange) Session {
	reps := 5
	const repDuration, recovery, warmup, cooldown = 3, 2, 15, 10

	total := warmup + reps*repDuration + (reps-1)*recovery + cooldown
	if day.AvailabilityMinutes > 0 && total > day.AvailabilityMinutes {
		reps--
		if reps < 4 {
			reps = 4
		}
		total = warmup + reps*repDuration + (reps-1)*recovery + cooldown
	}

	segments := []Segment{{Label: "Warm-up", DurationMinutes: warmup, TargetZone: Z1, HRRange: zones[Z1]}}
	for i := 0; i < reps; i++ {
		segments = append(segments, Segment{
			Label: fmt.Sprintf("VO2 rep %d", i+1), DurationMinutes: repDuration,
			TargetZone: Z4, HRRange: zones[Z4],
		})
		if i < reps-1 {
			segments = append(segments, Segment{
				Label: fmt.Sprintf("Recovery jog %d", i+1), DurationMinutes: recovery,
				TargetZone: Z1, HRRange: zones[Z1],
			})
		}
	}
	segments = append(segments, Segment{Label: "Cool-down", DurationMinutes: cooldown, TargetZone: Z1, HRRange: zones[Z1]})

	return Session{
		Type:            "VO2 Max Intervals",
		DurationMinutes: total,
		Segments:        segments,
		PrimaryZone:     Z4,
		Notes:           fmt.Sprintf("Target fast-but-controlled reps; stop early if form breaks. Phase: %s.", macro.Phase),
	}
}

func doubleThreshold(day *DayContext, macro *Macrocycle, zones map[Zone]HRRange) Session {
	const warmup, cooldown = 10, 10
	amBlock, pmBlock, easyBetween := 25, 30, 10

	planned := warmup + amBlock + easyBetween + pmBlock + cooldown
	target := day.AvailabilityMinutes
	if target > 90 || target <= 0 {
		target = 90
	}
	if planned > target {
		factor := float64(target) / float64(planned)
		amBlock = scaleWithFloor(amBlock, factor, 15)
		pmBlock = scaleWithFloor(pmBlock, factor, 20)
		easyBetween = scaleWithFloor(easyBetween, factor, 5)
	}
	total := warmup + amBlock + easyBetween + pmBlock + cooldown

	return Session{
		Type:            "Double Threshold (conservative)",
		DurationMinutes: total,
		Segments: []Segment{
			{Label: "Warm-up", DurationMinutes: warmup, TargetZone: Z1, HRRange: zones[Z1]},
			{Label: "AM Tempo", DurationMinutes: amBlock, TargetZone: Z3, HRRange: zones[Z3]},
			{Label: "Recovery jog", DurationMinutes: easyBetween, TargetZone: Z1, HRRange: zones[Z1]},
			{Label: "PM Steady", DurationMinutes: pmBlock, TargetZone: Z2, HRRange: zones[Z2]},
			{Label: "Cool-down", DurationMinutes: cooldown, TargetZone: Z1, HRRange: zones[Z1]},
		},
		PrimaryZone: Z3,
		Notes:       fmt.Sprintf("Keep conservative intensity; cut second block if fatigue rises. Phase: %s.", macro.Phase),
	}
}

func scaleWithFloor(v int, factor float64, floor int) int {
	scaled := int(float64(v)*factor + 0.5)
	if scaled < floor {
		return floor
	}
	return scaled
}
