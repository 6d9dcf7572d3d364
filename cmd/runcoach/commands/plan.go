package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nadavyigal/Running-coach--sub004/activity"
	"github.com/nadavyigal/Running-coach--sub004/coach"
	"github.com/nadavyigal/Running-coach--sub004/logger"
)

var (
	planTemplate     string
	planAvailability int
	planPhase        string
	planAge          int
	planWeightKg     float64
	planMaxHR        int
	planRestingHR    int
	planSleepHours   float64
	planSleepQuality int
	planSoreness     int
	planStress       int
	planEnergy       int
)

var planCmd = &cobra.Command{
	Use:   "plan <user-id>",
	Short: "Generate today's training plan from synced load history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDatabase()
		if err != nil {
			return err
		}
		defer conn.Close()

		// Load history comes from the runs imported by sync jobs.
		activityStore := activity.NewStore(conn, logger.Logger)
		loadHistory, err := activityStore.DailyLoad(cmd.Context(), args[0], 28)
		if err != nil {
			return err
		}

		profile := &coach.Profile{
			UserID:        args[0],
			Age:           planAge,
			WeightKg:      planWeightKg,
			MaxHR:         planMaxHR,
			RestingHR:     planRestingHR,
			TrainingLevel: coach.LevelIntermediate,
		}
		macro := &coach.Macrocycle{Phase: planPhase}
		day := &coach.DayContext{
			DayName:             time.Now().Weekday().String(),
			Template:            coach.Template(planTemplate),
			AvailabilityMinutes: planAvailability,
			Readiness: coach.ReadinessInputs{
				SleepHours:   planSleepHours,
				SleepQuality: planSleepQuality,
				Soreness:     planSoreness,
				Stress:       planStress,
				MentalEnergy: planEnergy,
			},
			LoadHistory: loadHistory,
		}

		plan, err := coach.New(logger.Logger).GenerateDailyPlan(profile, macro, day)
		if err != nil {
			return err
		}

		printPlan(plan)
		return nil
	},
}

func printPlan(plan *coach.DailyPlan) {
	fmt.Printf("%s: %s", plan.DayName, plan.TemplateFinal)
	if plan.TemplateFinal != plan.TemplateRequested {
		fmt.Printf(" (requested %s)", plan.TemplateRequested)
	}
	fmt.Println()

	fmt.Printf("Readiness: %.1f (%s)   ACWR: %.2f (%s)\n",
		plan.Readiness.Score, plan.Readiness.Tier, plan.LoadRisk.ACWR, plan.LoadRisk.Zone)
	fmt.Printf("Load advice: %s\n\n", plan.LoadRisk.Recommendation)

	fmt.Printf("Session: %s, %d min, load ~%.1f\n",
		plan.Session.Type, plan.Session.DurationMinutes, plan.Session.EstimatedLoad)
	for _, seg := range plan.Session.Segments {
		fmt.Printf("  %-16s %3d min  %s (%d-%d bpm)\n",
			seg.Label, seg.DurationMinutes, seg.TargetZone, seg.HRRange.Low, seg.HRRange.High)
	}
	if plan.Session.Notes != "" {
		fmt.Printf("  Notes: %s\n", plan.Session.Notes)
	}

	fmt.Printf("\nFueling: pre %.0f g carbs; intra %d g/h; post %.0f g carbs + %.0f g protein\n",
		plan.Nutrition.PreRun.CarbsG,
		plan.Nutrition.IntraRun.CarbsGPerHour,
		plan.Nutrition.PostRun.CarbsG,
		plan.Nutrition.PostRun.ProteinG)
	fmt.Printf("Hydration: %s ml/h, sodium %s\n",
		plan.Nutrition.Hydration.FluidsMLPerHour, plan.Nutrition.Hydration.SodiumMgPerL)

	fmt.Println("\nRecovery:")
	for _, action := range plan.Recovery.Actions {
		fmt.Printf("  - %s\n", action)
	}

	if len(plan.Adaptations) > 0 {
		fmt.Println("\nAdaptations:")
		for _, adaptation := range plan.Adaptations {
			fmt.Printf("  * %s\n", adaptation)
		}
	}
}

func init() {
	planCmd.Flags().StringVar(&planTemplate, "template", string(coach.TemplateRecovery),
		"session template: Rest, Recovery, 'Long Run', Threshold, VO2_Intervals, Double_Threshold")
	planCmd.Flags().IntVar(&planAvailability, "minutes", 60, "available training minutes")
	planCmd.Flags().StringVar(&planPhase, "phase", "base", "macrocycle phase: base, build, peak, taper, recovery")
	planCmd.Flags().IntVar(&planAge, "age", 35, "runner age")
	planCmd.Flags().Float64Var(&planWeightKg, "weight", 70, "runner weight in kg")
	planCmd.Flags().IntVar(&planMaxHR, "max-hr", 0, "max heart rate (0 to estimate)")
	planCmd.Flags().IntVar(&planRestingHR, "resting-hr", 0, "resting heart rate")
	planCmd.Flags().Float64Var(&planSleepHours, "sleep", 7.5, "hours slept last night")
	planCmd.Flags().IntVar(&planSleepQuality, "sleep-quality", 7, "sleep quality 1-10")
	planCmd.Flags().IntVar(&planSoreness, "soreness", 3, "muscle soreness 1-10")
	planCmd.Flags().IntVar(&planStress, "stress", 3, "life stress 1-10")
	planCmd.Flags().IntVar(&planEnergy, "energy", 5, "mental energy 1-10")
}
