package workout

import (
	"errors"

	"github.com/2beens/pacelink/internal/pace"
)

var ErrNoPhases = errors.New("progressive workout needs at least one phase")

// Form is the coach's full set of choices for one workout. It is treated as an
// immutable value: changes go through Apply, which returns a new Form.
type Form struct {
	WorkoutType     Template `json:"workout_type"`
	WarmupEnabled   bool     `json:"warmup_enabled"`
	WarmupKm        float64  `json:"warmup_km"`
	CooldownEnabled bool     `json:"cooldown_enabled"`
	CooldownKm      float64  `json:"cooldown_km"`
	// ReferencePace is the P1K in seconds per km; nil means no pace guidance.
	ReferencePace *float64 `json:"reference_pace_sec_per_km"`

	EasyRun     EasyRunParams     `json:"easy_run"`
	Progressive ProgressiveParams `json:"progressive"`
	Alternated  AlternatedParams  `json:"alternated"`
}

// Update produces a new Form from the current one.
type Update func(Form) Form

func DefaultForm() Form {
	return Form{
		WorkoutType:     TemplateEasyRun,
		WarmupEnabled:   true,
		WarmupKm:        1,
		CooldownEnabled: true,
		CooldownKm:      1,
		EasyRun: EasyRunParams{
			MainDistanceKm: 5,
			Intensity:      pace.IntensityLight,
		},
		Progressive: ProgressiveParams{
			Phases: []Phase{
				{Order: 1, DistanceKm: 2, Intensity: pace.IntensityLight},
				{Order: 2, DistanceKm: 2, Intensity: pace.IntensityModerate},
				{Order: 3, DistanceKm: 1, Intensity: pace.IntensityStrong},
			},
		},
		Alternated: AlternatedParams{
			Repeats:          6,
			StrongDistanceKm: 0.4,
			EasyDistanceKm:   0.2,
		},
	}
}

// Apply returns a copy of f with the updates applied in order. f itself is never modified.
func (f Form) Apply(updates ...Update) Form {
	next := f.clone()
	for _, u := range updates {
		next = u(next.clone())
	}
	return next
}

func (f Form) clone() Form {
	c := f
	if f.ReferencePace != nil {
		p := *f.ReferencePace
		c.ReferencePace = &p
	}
	c.Progressive.Phases = append([]Phase(nil), f.Progressive.Phases...)
	return c
}

func SetWorkoutType(t Template) Update {
	return func(f Form) Form {
		f.WorkoutType = t
		return f
	}
}

func SetWarmup(enabled bool, km float64) Update {
	return func(f Form) Form {
		f.WarmupEnabled = enabled
		f.WarmupKm = km
		return f
	}
}

func SetCooldown(enabled bool, km float64) Update {
	return func(f Form) Form {
		f.CooldownEnabled = enabled
		f.CooldownKm = km
		return f
	}
}

// SetReferencePace sets the P1K in seconds per km; a non-positive value clears it.
func SetReferencePace(secPerKm float64) Update {
	return func(f Form) Form {
		if secPerKm <= 0 {
			f.ReferencePace = nil
			return f
		}
		f.ReferencePace = &secPerKm
		return f
	}
}

func SetEasyRun(mainKm float64, intensity pace.Intensity) Update {
	return func(f Form) Form {
		f.EasyRun = EasyRunParams{MainDistanceKm: mainKm, Intensity: intensity}
		return f
	}
}

func AddPhase(km float64, intensity pace.Intensity) Update {
	return func(f Form) Form {
		f.Progressive.Phases = append(f.Progressive.Phases, Phase{
			Order:      len(f.Progressive.Phases) + 1,
			DistanceKm: km,
			Intensity:  intensity,
		})
		return f
	}
}

// RemovePhase drops the phase at index i, keeping at least one phase.
func RemovePhase(i int) Update {
	return func(f Form) Form {
		phases := f.Progressive.Phases
		if len(phases) <= 1 || i < 0 || i >= len(phases) {
			return f
		}
		phases = append(phases[:i], phases[i+1:]...)
		for j := range phases {
			phases[j].Order = j + 1
		}
		f.Progressive.Phases = phases
		return f
	}
}

func SetPhase(i int, km float64, intensity pace.Intensity) Update {
	return func(f Form) Form {
		if i < 0 || i >= len(f.Progressive.Phases) {
			return f
		}
		f.Progressive.Phases[i].DistanceKm = km
		f.Progressive.Phases[i].Intensity = intensity
		return f
	}
}

func SetAlternated(repeats int, strongKm, easyKm float64) Update {
	return func(f Form) Form {
		f.Alternated = AlternatedParams{
			Repeats:          repeats,
			StrongDistanceKm: strongKm,
			EasyDistanceKm:   easyKm,
		}
		return f
	}
}

// Normalize maps template and intensity labels posted by clients (source
// terms, English names, any casing) onto the canonical values.
func Normalize() Update {
	return func(f Form) Form {
		if t, err := ParseTemplate(string(f.WorkoutType)); err == nil {
			f.WorkoutType = t
		}
		f.EasyRun.Intensity = pace.ParseIntensity(string(f.EasyRun.Intensity))
		for i := range f.Progressive.Phases {
			f.Progressive.Phases[i].Intensity = pace.ParseIntensity(string(f.Progressive.Phases[i].Intensity))
		}
		return f
	}
}

// Validate rejects forms Expand would turn into a workout without a main set.
func (f Form) Validate() error {
	if f.WorkoutType == TemplateProgressive && len(f.Progressive.Phases) == 0 {
		return ErrNoPhases
	}
	return nil
}
