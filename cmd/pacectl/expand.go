package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/2beens/pacelink/internal/pace"
	"github.com/2beens/pacelink/internal/workout"
)

var (
	expandType       string
	expandP1K        string
	expandDate       string
	expandWarmupKm   float64
	expandCooldownKm float64
	expandMainKm     float64
	expandIntensity  string
	expandPhases     []string
	expandRepeats    int
	expandStrongKm   float64
	expandEasyKm     float64
)

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Expand a workout template into its blocks",
	Long: `Expand prints the blocks, total distance and share title of a workout.
Warm-up and cooldown are disabled by passing 0 km.

  pacectl expand --type progressive --p1k 4:30 --phases 2:leve,2:moderado,1:forte -o yaml`,
	Args: cobra.NoArgs,
	RunE: runExpand,
}

func init() {
	defaults := workout.DefaultForm()

	expandCmd.Flags().StringVar(&expandType, "type", string(workout.TemplateEasyRun), "workout template [easy_run | progressive | alternated]")
	expandCmd.Flags().StringVar(&expandP1K, "p1k", "", "reference pace (P1K) as M:SS; no pace guidance when empty")
	expandCmd.Flags().StringVar(&expandDate, "date", "", "date used in the share title, YYYY-MM-DD (default today)")
	expandCmd.Flags().Float64Var(&expandWarmupKm, "warmup-km", defaults.WarmupKm, "warm-up distance, 0 disables it")
	expandCmd.Flags().Float64Var(&expandCooldownKm, "cooldown-km", defaults.CooldownKm, "cooldown distance, 0 disables it")
	expandCmd.Flags().Float64Var(&expandMainKm, "main-km", defaults.EasyRun.MainDistanceKm, "easy run: main distance")
	expandCmd.Flags().StringVar(&expandIntensity, "intensity", string(defaults.EasyRun.Intensity), "easy run: intensity")
	expandCmd.Flags().StringSliceVar(&expandPhases, "phases", nil, "progressive: phases as KM:INTENSITY, comma separated")
	expandCmd.Flags().IntVar(&expandRepeats, "repeats", defaults.Alternated.Repeats, "alternated: number of repeats")
	expandCmd.Flags().Float64Var(&expandStrongKm, "strong-km", defaults.Alternated.StrongDistanceKm, "alternated: strong rep distance")
	expandCmd.Flags().Float64Var(&expandEasyKm, "easy-km", defaults.Alternated.EasyDistanceKm, "alternated: recovery distance")
}

func runExpand(cmd *cobra.Command, _ []string) error {
	form, err := formFromFlags()
	if err != nil {
		return err
	}

	today := time.Now()
	if expandDate != "" {
		today, err = time.Parse("2006-01-02", expandDate)
		if err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", expandDate)
		}
	}

	return printValue(cmd.OutOrStdout(), workout.Expand(form, today))
}

func formFromFlags() (workout.Form, error) {
	tmpl, err := workout.ParseTemplate(expandType)
	if err != nil {
		return workout.Form{}, err
	}

	updates := []workout.Update{
		workout.SetWorkoutType(tmpl),
		workout.SetWarmup(expandWarmupKm > 0, expandWarmupKm),
		workout.SetCooldown(expandCooldownKm > 0, expandCooldownKm),
		workout.SetEasyRun(expandMainKm, pace.ParseIntensity(expandIntensity)),
		workout.SetAlternated(expandRepeats, expandStrongKm, expandEasyKm),
	}

	if expandP1K != "" {
		p1k, err := pace.Parse(expandP1K)
		if err != nil {
			return workout.Form{}, fmt.Errorf("invalid p1k %q: %w", expandP1K, err)
		}
		updates = append(updates, workout.SetReferencePace(p1k))
	}

	if len(expandPhases) > 0 {
		phases, err := parsePhases(expandPhases)
		if err != nil {
			return workout.Form{}, err
		}
		updates = append(updates, replacePhases(phases))
	}

	return workout.DefaultForm().Apply(updates...), nil
}

func parsePhases(raw []string) ([]workout.Phase, error) {
	phases := make([]workout.Phase, 0, len(raw))
	for i, r := range raw {
		kmPart, intensityPart, ok := strings.Cut(strings.TrimSpace(r), ":")
		if !ok {
			return nil, fmt.Errorf("invalid phase %q, expected KM:INTENSITY", r)
		}
		km, err := strconv.ParseFloat(kmPart, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid phase distance %q: %w", kmPart, err)
		}
		phases = append(phases, workout.Phase{
			Order:      i + 1,
			DistanceKm: km,
			Intensity:  pace.ParseIntensity(intensityPart),
		})
	}
	return phases, nil
}

func replacePhases(phases []workout.Phase) workout.Update {
	return func(f workout.Form) workout.Form {
		f.Progressive.Phases = nil
		for _, p := range phases {
			f = workout.AddPhase(p.DistanceKm, p.Intensity)(f)
		}
		return f
	}
}
