package store

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/pacelink/internal/execution"
	"github.com/2beens/pacelink/internal/workout"
)

const (
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"

	DefaultRequestIDColumn = "request_id"
)

var (
	ErrStudentNotFound   = errors.New("student not found")
	ErrSummaryNotFound   = errors.New("week summary not found")
	ErrUnknownBackend    = errors.New("unknown backend")
	ErrInvalidStudent    = errors.New("student name missing")
	ErrMissingTrainerID  = errors.New("trainer id missing")
	ErrUnexpectedNoRows  = errors.New("unexpected error [no rows returned]")
	ErrEmptyResponseBody = errors.New("empty response body")
)

// Store is everything the service reads and writes, implemented over a direct
// Postgres pool (PgStore) or the BaaS REST API (RestStore).
type Store interface {
	InsertWorkout(ctx context.Context, p workout.Payload) (*workout.Saved, error)
	// UpdateWorkout rewrites the row's content; an empty StudentID keeps the assigned student.
	UpdateWorkout(ctx context.Context, id string, p workout.Payload) (*workout.Saved, error)
	SetWorkoutStatus(ctx context.Context, trainerID, id, status string) (*workout.Saved, error)
	FindWorkoutByRequestID(ctx context.Context, requestID string) (*workout.Saved, error)
	SetShareSlug(ctx context.Context, id, shareSlug string) error

	PublicWorkoutBySlug(ctx context.Context, shareSlug string) (*workout.Public, error)
	LastExecution(ctx context.Context, workoutID string) (*execution.Execution, error)
	AddExecution(ctx context.Context, e *execution.Execution) (*execution.Execution, error)

	ListStudents(ctx context.Context, trainerID string) ([]Student, error)
	GetStudent(ctx context.Context, trainerID, studentID string) (*Student, error)
	AddStudent(ctx context.Context, s Student) (*Student, error)

	TrainerWeekDashboard(ctx context.Context, trainerID string, weekStart time.Time) ([]WeekDashboardRow, error)
	StudentWeekSummary(ctx context.Context, trainerID, studentID string, weekStart time.Time) (*StudentWeekSummary, error)
}

type Student struct {
	ID        string `json:"id"`
	TrainerID string `json:"trainer_id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	// ReferencePace is the student's P1K in seconds per km.
	ReferencePace *float64  `json:"p1k_sec_per_km,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// WeekDashboardRow is one student line of the trainer's weekly dashboard.
type WeekDashboardRow struct {
	StudentID       string    `json:"student_id"`
	StudentName     string    `json:"student_name"`
	WeekStart       time.Time `json:"week_start"`
	ExecutionsCount int       `json:"executions_count"`
	DoneKm          float64   `json:"done_km"`
	AvgRPE          *float64  `json:"avg_rpe"`
}

type StudentWeekSummary struct {
	StudentID        string    `json:"student_id"`
	WeekStart        time.Time `json:"week_start"`
	ExecutionsCount  int       `json:"executions_count"`
	DoneKm           float64   `json:"done_km"`
	TotalDurationSec float64   `json:"total_duration_sec"`
	AvgRPE           *float64  `json:"avg_rpe"`
	AvgPaceSecPerKm  *float64  `json:"avg_pace_sec_per_km"`
}
