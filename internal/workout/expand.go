package workout

import (
	"fmt"
	"time"

	"github.com/2beens/pacelink/internal/pace"
)

// distance bounds, in km
const (
	minSegmentKm     = 0.1
	maxWarmupKm      = 50
	maxMainKm        = 200
	minAlternatingKm = 0.05
	maxAlternatingKm = 10
	minRepeats       = 1
	maxRepeats       = 60
)

const (
	labelWarmup   = "Aquecimento"
	labelCooldown = "Desaquecimento"
	labelEasyMain = "Trecho principal"

	hintWarmup    = "Trote leve para aquecer, sem ritmo definido"
	hintCooldown  = "Trote leve para soltar, sem ritmo definido"
	hintRecovery  = "Recuperação em trote leve"
	hintStrongRep = "Forte e controlado, mantendo a técnica"
)

var easyRunHints = map[pace.Intensity]string{
	pace.IntensityLight:    "Ritmo confortável, dá para conversar",
	pace.IntensityModerate: "Ritmo moderado, respiração controlada",
	pace.IntensityStrong:   "Ritmo forte e sustentado",
}

var progressiveHints = map[pace.Intensity]string{
	pace.IntensityLight:    "Comece leve e solto",
	pace.IntensityModerate: "Suba para ritmo moderado",
	pace.IntensityStrong:   "Feche forte, sem perder a técnica",
}

// Draft is the view of a workout derived from a Form.
type Draft struct {
	Blocks         []Block  `json:"blocks"`
	TotalKm        float64  `json:"total_km"`
	TemplateType   Template `json:"template_type"`
	TemplateParams any      `json:"template_params"`
	ShareTitle     string   `json:"share_title"`
}

// Expand turns the form into an ordered list of blocks: warm-up (if enabled),
// the main blocks of the template, cooldown (if enabled). Every numeric input
// is clamped, so Expand never fails. It is pure apart from today, which only
// feeds the share title.
func Expand(f Form, today time.Time) Draft {
	e := expander{refPace: f.ReferencePace}

	if f.WarmupEnabled {
		e.add(Block{
			Kind:       SegmentWarmup,
			Label:      labelWarmup,
			DistanceKm: pace.Clamp(f.WarmupKm, minSegmentKm, maxWarmupKm),
			Intensity:  pace.IntensityFree,
			Hint:       hintWarmup,
		})
	}

	template := f.WorkoutType
	if !template.IsValid() {
		template = TemplateEasyRun
	}

	var params any
	switch template {
	case TemplateProgressive:
		params = e.progressive(f.Progressive)
	case TemplateAlternated:
		params = e.alternated(f.Alternated)
	default:
		params = e.easyRun(f.EasyRun)
	}

	if f.CooldownEnabled {
		e.add(Block{
			Kind:       SegmentCooldown,
			Label:      labelCooldown,
			DistanceKm: pace.Clamp(f.CooldownKm, minSegmentKm, maxWarmupKm),
			Intensity:  pace.IntensityFree,
			Hint:       hintCooldown,
		})
	}

	return Draft{
		Blocks:         e.blocks,
		TotalKm:        TotalKm(e.blocks),
		TemplateType:   template,
		TemplateParams: params,
		ShareTitle:     ShareTitle(template, today),
	}
}

// TotalKm sums all block distances, rounded to one decimal.
func TotalKm(blocks []Block) float64 {
	var total float64
	for _, b := range blocks {
		total += b.DistanceKm
	}
	return pace.RoundTenth(total)
}

// ShareTitle is e.g. "Rodagem • 07/03".
func ShareTitle(t Template, today time.Time) string {
	return fmt.Sprintf("%s • %02d/%02d", t.DisplayName(), today.Day(), int(today.Month()))
}

type expander struct {
	refPace *float64
	blocks  []Block
}

func (e *expander) add(b Block) {
	b.OrderIndex = len(e.blocks)
	e.blocks = append(e.blocks, b)
}

// paceFor yields nil when there is no usable reference pace.
func (e *expander) paceFor(intensity pace.Intensity) *pace.Range {
	if e.refPace == nil {
		return nil
	}
	r, err := pace.RangeFromReference(*e.refPace, intensity)
	if err != nil {
		return nil
	}
	return &r
}

func (e *expander) easyRun(p EasyRunParams) EasyRunParams {
	intensity := p.Intensity
	if !intensity.IsPaced() {
		intensity = pace.IntensityLight
	}
	km := pace.Clamp(p.MainDistanceKm, minSegmentKm, maxMainKm)

	e.add(Block{
		Kind:       SegmentMain,
		Label:      labelEasyMain,
		DistanceKm: km,
		Intensity:  intensity,
		PaceRange:  e.paceFor(intensity),
		Hint:       easyRunHints[intensity],
	})

	return EasyRunParams{MainDistanceKm: km, Intensity: intensity}
}

func (e *expander) progressive(p ProgressiveParams) ProgressiveParams {
	phases := make([]Phase, 0, len(p.Phases))
	for i, phase := range p.Phases {
		order := i + 1
		intensity := phase.Intensity
		if !intensity.IsPaced() {
			intensity = pace.IntensityLight
		}
		km := pace.Clamp(phase.DistanceKm, minSegmentKm, maxMainKm)

		e.add(Block{
			Kind:       SegmentMain,
			Label:      fmt.Sprintf("Bloco %d", order),
			DistanceKm: km,
			Intensity:  intensity,
			PaceRange:  e.paceFor(intensity),
			Hint:       progressiveHints[intensity],
		})
		phases = append(phases, Phase{Order: order, DistanceKm: km, Intensity: intensity})
	}
	return ProgressiveParams{Phases: phases}
}

func (e *expander) alternated(p AlternatedParams) AlternatedParams {
	repeats := pace.ClampInt(p.Repeats, minRepeats, maxRepeats)
	strongKm := pace.Clamp(p.StrongDistanceKm, minAlternatingKm, maxAlternatingKm)
	easyKm := pace.Clamp(p.EasyDistanceKm, minAlternatingKm, maxAlternatingKm)

	for i := 1; i <= repeats; i++ {
		e.add(Block{
			Kind:       SegmentMain,
			Label:      fmt.Sprintf("Tiro %d", i),
			DistanceKm: strongKm,
			Intensity:  pace.IntensityStrong,
			PaceRange:  e.paceFor(pace.IntensityStrong),
			Hint:       hintStrongRep,
		})
		// recovery legs stay unpaced
		e.add(Block{
			Kind:       SegmentMain,
			Label:      fmt.Sprintf("Recuperação %d", i),
			DistanceKm: easyKm,
			Intensity:  pace.IntensityLight,
			Hint:       hintRecovery,
		})
	}

	return AlternatedParams{Repeats: repeats, StrongDistanceKm: strongKm, EasyDistanceKm: easyKm}
}
