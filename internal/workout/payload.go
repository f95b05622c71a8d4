package workout

// Payload is the workout row written to the backend. Status and TemplateType
// are left for the persistence layer, which knows the accepted spellings.
type Payload struct {
	RequestID       string         `json:"request_id,omitempty"`
	TrainerID       string         `json:"trainer_id"`
	StudentID       string         `json:"student_id"`
	Title           string         `json:"title"`
	Status          string         `json:"status"`
	TemplateType    string         `json:"template_type"`
	IncludeWarmup   bool           `json:"include_warmup"`
	WarmupKm        *float64       `json:"warmup_km"`
	IncludeCooldown bool           `json:"include_cooldown"`
	CooldownKm      *float64       `json:"cooldown_km"`
	TemplateParams  any            `json:"template_params"`
	Blocks          []PayloadBlock `json:"blocks"`
	TotalKm         float64        `json:"total_km"`
	ShareSlug       *string        `json:"share_slug,omitempty"`

	// Template is the canonical template the candidates are derived from.
	Template Template `json:"-"`
}

type PayloadBlock struct {
	Label           string   `json:"label"`
	SegmentType     string   `json:"segment_type"`
	DistanceKm      float64  `json:"distance_km"`
	Intensity       string   `json:"intensity"`
	PaceMinSecPerKm *float64 `json:"pace_min_sec_per_km"`
	PaceMaxSecPerKm *float64 `json:"pace_max_sec_per_km"`
	HintText        *string  `json:"hint_text"`
}

func NewPayload(trainerID, studentID string, d Draft) Payload {
	p := Payload{
		TrainerID:      trainerID,
		StudentID:      studentID,
		Title:          d.ShareTitle,
		Template:       d.TemplateType,
		TemplateParams: d.TemplateParams,
		TotalKm:        d.TotalKm,
		Blocks:         make([]PayloadBlock, 0, len(d.Blocks)),
	}

	for _, b := range d.Blocks {
		switch b.Kind {
		case SegmentWarmup:
			p.IncludeWarmup = true
			p.WarmupKm = floatPtr(b.DistanceKm)
		case SegmentCooldown:
			p.IncludeCooldown = true
			p.CooldownKm = floatPtr(b.DistanceKm)
		}
		p.Blocks = append(p.Blocks, toPayloadBlock(b))
	}

	return p
}

func toPayloadBlock(b Block) PayloadBlock {
	pb := PayloadBlock{
		Label:       b.Label,
		SegmentType: string(b.Kind),
		DistanceKm:  b.DistanceKm,
		Intensity:   b.Intensity.String(),
	}
	if b.PaceRange != nil {
		pb.PaceMinSecPerKm = floatPtr(b.PaceRange.MinSecPerKm)
		pb.PaceMaxSecPerKm = floatPtr(b.PaceRange.MaxSecPerKm)
	}
	if b.Hint != "" {
		hint := b.Hint
		pb.HintText = &hint
	}
	return pb
}

func floatPtr(f float64) *float64 {
	return &f
}
