package persistence

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/2beens/pacelink/internal/workout"
)

type Intent string

const (
	IntentDraft Intent = "draft"
	IntentReady Intent = "ready"
)

func ParseIntent(s string) (Intent, bool) {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case IntentDraft:
		return IntentDraft, true
	case IntentReady:
		return IntentReady, true
	default:
		return "", false
	}
}

// Candidates are the enum spellings tried, in order, for the status and
// template_type columns of the workouts table.
type Candidates struct {
	DraftStatuses []string `toml:"draft_statuses"`
	ReadyStatuses []string `toml:"ready_statuses"`
	// TemplateTypes overrides the derived template_type candidates, keyed by canonical template.
	TemplateTypes map[string][]string `toml:"template_types"`
	// ConstraintNames are the check constraints guarding the two enum columns.
	ConstraintNames []string `toml:"constraint_names"`
}

func DefaultCandidates() Candidates {
	return Candidates{
		DraftStatuses:   []string{"draft", "rascunho", "DRAFT", "RASCUNHO"},
		ReadyStatuses:   []string{"ready", "pronto", "READY", "PRONTO"},
		TemplateTypes:   map[string][]string{},
		ConstraintNames: []string{"workouts_status_check", "workouts_template_type_check"},
	}
}

// WithDefaults fills every empty list from DefaultCandidates.
func (c Candidates) WithDefaults() Candidates {
	d := DefaultCandidates()
	if len(c.DraftStatuses) == 0 {
		c.DraftStatuses = d.DraftStatuses
	}
	if len(c.ReadyStatuses) == 0 {
		c.ReadyStatuses = d.ReadyStatuses
	}
	if c.TemplateTypes == nil {
		c.TemplateTypes = d.TemplateTypes
	}
	if len(c.ConstraintNames) == 0 {
		c.ConstraintNames = d.ConstraintNames
	}
	return c
}

func (c Candidates) Statuses(intent Intent) []string {
	if intent == IntentReady {
		return c.ReadyStatuses
	}
	return c.DraftStatuses
}

func (c Candidates) TemplateTypesFor(t workout.Template) []string {
	if override := c.TemplateTypes[string(t)]; len(override) > 0 {
		return override
	}
	return TemplateTypeCandidates(t)
}

// TemplateTypeCandidates derives the template_type spellings for t: source term,
// Title-case, UPPERCASE, then the English name and its UPPERCASE form.
func TemplateTypeCandidates(t workout.Template) []string {
	if !t.IsValid() {
		t = workout.TemplateEasyRun
	}
	source := t.SourceTerm()
	english := string(t)

	title := cases.Title(language.BrazilianPortuguese).String(source)
	upper := cases.Upper(language.BrazilianPortuguese).String(source)
	englishUpper := cases.Upper(language.English).String(english)

	return dedupe([]string{source, title, upper, english, englishUpper})
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
