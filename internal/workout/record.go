package workout

import (
	"errors"
	"time"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// Saved identifies a stored workout row and the enum spellings the backend accepted.
type Saved struct {
	ID           string  `json:"id"`
	Status       string  `json:"status"`
	TemplateType string  `json:"template_type"`
	ShareSlug    *string `json:"share_slug,omitempty"`
}

// Public is a workout as shown behind its share link.
type Public struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	TemplateType string    `json:"template_type"`
	TotalKm      float64   `json:"total_km"`
	Blocks       []Block   `json:"blocks"`
	ShareSlug    string    `json:"share_slug"`
	StudentID    string    `json:"student_id,omitempty"`
	StudentName  string    `json:"student_name,omitempty"`
	TrainerName  string    `json:"trainer_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
