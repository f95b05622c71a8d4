package workout

import (
	"strings"

	"github.com/2beens/pacelink/internal/pace"
)

type SegmentKind string

const (
	SegmentWarmup   SegmentKind = "warmup"
	SegmentMain     SegmentKind = "main"
	SegmentCooldown SegmentKind = "cooldown"
)

var segmentAliases = map[string]SegmentKind{
	"warmup":         SegmentWarmup,
	"warm_up":        SegmentWarmup,
	"aquecimento":    SegmentWarmup,
	"cooldown":       SegmentCooldown,
	"cool_down":      SegmentCooldown,
	"desaquecimento": SegmentCooldown,
}

// ParseSegmentKind defaults to SegmentMain for anything not a warm-up or cooldown.
func ParseSegmentKind(s string) SegmentKind {
	if k, ok := segmentAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k
	}
	return SegmentMain
}

// Block is one concrete training segment of a workout.
type Block struct {
	OrderIndex int            `json:"order_index"`
	Kind       SegmentKind    `json:"segment_type"`
	Label      string         `json:"label"`
	DistanceKm float64        `json:"distance_km"`
	Intensity  pace.Intensity `json:"intensity"`
	PaceRange  *pace.Range    `json:"pace_range"`
	Hint       string         `json:"hint_text,omitempty"`
}
