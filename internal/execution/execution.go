package execution

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/pacelink/internal/pace"
	"github.com/2beens/pacelink/internal/week"
)

const (
	MaxDistanceKm = 200
	MinRPE        = 1
	MaxRPE        = 10
	MaxNotesLen   = 1000
)

var (
	ErrInvalidDistance   = errors.New("distance must be greater than 0 and at most 200 km")
	ErrInvalidDuration   = errors.New("duration must be positive, or an average pace given")
	ErrInvalidPace       = errors.New("invalid average pace")
	ErrInvalidRPE        = errors.New("rpe must be between 1 and 10")
	ErrNotesTooLong      = errors.New("notes too long")
	ErrExecutedInFuture  = errors.New("execution date is in the future")
	ErrExecutionNotFound = errors.New("execution not found")
)

// Input is what a student posts after running a shared workout.
type Input struct {
	DistanceKm  float64    `json:"distance_km"`
	DurationSec *float64   `json:"duration_sec,omitempty"`
	AvgPace     string     `json:"avg_pace,omitempty"`
	RPE         int        `json:"rpe"`
	Notes       string     `json:"notes,omitempty"`
	ExecutedAt  *time.Time `json:"executed_at,omitempty"`
}

type Execution struct {
	ID              string    `json:"id,omitempty"`
	WorkoutID       string    `json:"workout_id"`
	StudentID       string    `json:"student_id,omitempty"`
	DistanceKm      float64   `json:"distance_km"`
	DurationSec     float64   `json:"duration_sec"`
	AvgPaceSecPerKm float64   `json:"avg_pace_sec_per_km"`
	RPE             int       `json:"rpe"`
	Notes           string    `json:"notes"`
	ExecutedAt      time.Time `json:"executed_at"`
	WeekStart       time.Time `json:"week_start"`
}

// AvgPace is the average pace as "M:SS".
func (e Execution) AvgPace() string {
	return pace.Format(e.AvgPaceSecPerKm)
}

// New validates in and derives the missing one of duration/pace plus the week bucket.
// A given duration wins over a given pace.
func New(workoutID string, in Input, now time.Time) (*Execution, error) {
	if math.IsNaN(in.DistanceKm) || in.DistanceKm <= 0 || in.DistanceKm > MaxDistanceKm {
		return nil, ErrInvalidDistance
	}
	if in.RPE < MinRPE || in.RPE > MaxRPE {
		return nil, ErrInvalidRPE
	}

	notes := strings.TrimSpace(in.Notes)
	if utf8.RuneCountInString(notes) > MaxNotesLen {
		return nil, ErrNotesTooLong
	}

	executedAt := now
	if in.ExecutedAt != nil && !in.ExecutedAt.IsZero() {
		executedAt = *in.ExecutedAt
	}
	if executedAt.After(now.Add(time.Hour)) {
		return nil, ErrExecutedInFuture
	}

	var durationSec, paceSec float64
	switch {
	case in.DurationSec != nil:
		if math.IsNaN(*in.DurationSec) || math.IsInf(*in.DurationSec, 0) || *in.DurationSec <= 0 {
			return nil, ErrInvalidDuration
		}
		durationSec = *in.DurationSec
		paceSec = pace.RoundTenth(durationSec / in.DistanceKm)
	case strings.TrimSpace(in.AvgPace) != "":
		p, err := pace.Parse(in.AvgPace)
		if err != nil || p <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPace, in.AvgPace)
		}
		paceSec = p
		durationSec = math.Round(p * in.DistanceKm)
	default:
		return nil, ErrInvalidDuration
	}

	return &Execution{
		WorkoutID:       workoutID,
		DistanceKm:      in.DistanceKm,
		DurationSec:     durationSec,
		AvgPaceSecPerKm: paceSec,
		RPE:             in.RPE,
		Notes:           notes,
		ExecutedAt:      executedAt,
		WeekStart:       week.Start(executedAt),
	}, nil
}
