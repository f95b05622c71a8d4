package workout

import (
	"fmt"
	"strings"

	"github.com/2beens/pacelink/internal/pace"
)

// Template is the high-level shape of a workout chosen by the coach.
type Template string

const (
	TemplateEasyRun     Template = "easy_run"
	TemplateProgressive Template = "progressive"
	TemplateAlternated  Template = "alternated"
)

type templateInfo struct {
	displayName string
	// sourceTerm is the lowercase term the web client and the legacy schema use
	sourceTerm string
}

var templates = map[Template]templateInfo{
	TemplateEasyRun:     {displayName: "Rodagem", sourceTerm: "rodagem"},
	TemplateProgressive: {displayName: "Progressivo", sourceTerm: "progressivo"},
	TemplateAlternated:  {displayName: "Alternado", sourceTerm: "alternado"},
}

// ParseTemplate accepts both the canonical and the source term, any casing.
func ParseTemplate(s string) (Template, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, info := range templates {
		if s == string(t) || s == info.sourceTerm {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown workout template: %q", s)
}

func (t Template) IsValid() bool {
	_, ok := templates[t]
	return ok
}

func (t Template) DisplayName() string {
	return templates[t].displayName
}

func (t Template) SourceTerm() string {
	return templates[t].sourceTerm
}

func (t Template) String() string {
	return string(t)
}

type EasyRunParams struct {
	MainDistanceKm float64        `json:"main_distance_km"`
	Intensity      pace.Intensity `json:"intensity"`
}

type Phase struct {
	Order      int            `json:"order"`
	DistanceKm float64        `json:"distance_km"`
	Intensity  pace.Intensity `json:"intensity"`
}

type ProgressiveParams struct {
	Phases []Phase `json:"phases"`
}

type AlternatedParams struct {
	Repeats          int     `json:"repeats"`
	StrongDistanceKm float64 `json:"strong_distance_km"`
	EasyDistanceKm   float64 `json:"easy_distance_km"`
}
