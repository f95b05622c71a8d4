package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/pacelink/internal/execution"
	"github.com/2beens/pacelink/internal/telemetry/tracing"
	"github.com/2beens/pacelink/internal/week"
	"github.com/2beens/pacelink/internal/workout"
)

var _ Store = (*RestStore)(nil)

const (
	tableWorkouts      = "workouts"
	tableStudents      = "students"
	tableTrainingWeeks = "training_weeks"
	tableExecutions    = "executions"

	viewWorkoutsPublic        = "v_workouts_public"
	viewWorkoutsLastExecution = "v_workouts_last_execution"
	viewTrainerWeekDashboard  = "v2_trainer_week_dashboard"
	viewStudentWeekSummary    = "v2_student_week_summary"

	returnRepresentation = "representation"
	restSavedColumns     = "id,status,template_type,share_slug"
	studentColumns       = "id,trainer_id,name,email,p1k_sec_per_km,created_at"
	executionColumns     = "id,workout_id,student_id,distance_km,duration_sec,avg_pace_sec_per_km,rpe,notes,executed_at,week_start"
)

// RestStore talks to the BaaS REST API. The client is built with the service
// key, so every trainer scoped query filters on trainer_id itself.
//
// requestIDColumn names the idempotency key column of the workouts table. When
// empty, inserts carry no key and request lookups always miss.
type RestStore struct {
	client          *supabase.Client
	requestIDColumn string
}

func NewRestStore(url, serviceKey, requestIDColumn string) (*RestStore, error) {
	client, err := supabase.NewClient(url, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("new supabase client: %w", err)
	}
	return &RestStore{
		client:          client,
		requestIDColumn: requestIDColumn,
	}, nil
}

// workoutRow is p as sent to postgrest. The idempotency key goes under the
// configured column, and an empty student is null on insert and left out on update.
func (s *RestStore) workoutRow(p workout.Payload, insert bool) (map[string]any, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal workout: %w", err)
	}
	row := map[string]any{}
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("unmarshal workout: %w", err)
	}

	delete(row, "request_id")
	if insert && s.requestIDColumn != "" && p.RequestID != "" {
		row[s.requestIDColumn] = p.RequestID
	}

	if p.StudentID == "" {
		if insert {
			row["student_id"] = nil
		} else {
			delete(row, "student_id")
		}
	}

	return row, nil
}

// postgrest rows carry dates as "2006-01-02" and nullable columns as null
type restStudent struct {
	ID            string    `json:"id"`
	TrainerID     string    `json:"trainer_id"`
	Name          string    `json:"name"`
	Email         *string   `json:"email"`
	ReferencePace *float64  `json:"p1k_sec_per_km"`
	CreatedAt     time.Time `json:"created_at"`
}

func (r restStudent) toStudent() Student {
	st := Student{
		ID:            r.ID,
		TrainerID:     r.TrainerID,
		Name:          r.Name,
		ReferencePace: r.ReferencePace,
		CreatedAt:     r.CreatedAt,
	}
	if r.Email != nil {
		st.Email = *r.Email
	}
	return st
}

type restExecution struct {
	ID              string    `json:"id,omitempty"`
	WorkoutID       string    `json:"workout_id"`
	StudentID       *string   `json:"student_id"`
	DistanceKm      float64   `json:"distance_km"`
	DurationSec     float64   `json:"duration_sec"`
	AvgPaceSecPerKm float64   `json:"avg_pace_sec_per_km"`
	RPE             int       `json:"rpe"`
	Notes           *string   `json:"notes"`
	ExecutedAt      time.Time `json:"executed_at"`
	WeekStart       string    `json:"week_start"`
}

func (r restExecution) toExecution() (*execution.Execution, error) {
	weekStart, err := time.Parse(week.DateLayout, r.WeekStart)
	if err != nil {
		return nil, fmt.Errorf("parse week start: %w", err)
	}
	e := &execution.Execution{
		ID:              r.ID,
		WorkoutID:       r.WorkoutID,
		DistanceKm:      r.DistanceKm,
		DurationSec:     r.DurationSec,
		AvgPaceSecPerKm: r.AvgPaceSecPerKm,
		RPE:             r.RPE,
		ExecutedAt:      r.ExecutedAt,
		WeekStart:       weekStart,
	}
	if r.StudentID != nil {
		e.StudentID = *r.StudentID
	}
	if r.Notes != nil {
		e.Notes = *r.Notes
	}
	return e, nil
}

type restDashboardRow struct {
	StudentID       string   `json:"student_id"`
	StudentName     string   `json:"student_name"`
	WeekStart       string   `json:"week_start"`
	ExecutionsCount int      `json:"executions_count"`
	DoneKm          float64  `json:"done_km"`
	AvgRPE          *float64 `json:"avg_rpe"`
}

type restWeekSummary struct {
	StudentID        string   `json:"student_id"`
	WeekStart        string   `json:"week_start"`
	ExecutionsCount  int      `json:"executions_count"`
	DoneKm           float64  `json:"done_km"`
	TotalDurationSec float64  `json:"total_duration_sec"`
	AvgRPE           *float64 `json:"avg_rpe"`
	AvgPaceSecPerKm  *float64 `json:"avg_pace_sec_per_km"`
}

func (s *RestStore) InsertWorkout(ctx context.Context, p workout.Payload) (_ *workout.Saved, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "repo.rest.workouts.insert")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	row, err := s.workoutRow(p, true)
	if err != nil {
		return nil, err
	}

	var rows []workout.Saved
	if _, err := s.client.From(tableWorkouts).
		Insert(row, false, "", returnRepresentation, "").
		ExecuteTo(&rows); err != nil {
		return nil, err
	}

	return firstSaved(rows)
}

func (s *RestStore) UpdateWorkout(ctx context.Context, id string, p workout.Payload) (_ *workout.Saved, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "repo.rest.workouts.update")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	row, err := s.workoutRow(p, false)
	if err != nil {
		return nil, err
	}

	var rows []workout.Saved
	if _, err := s.client.From(tableWorkouts).
		Update(row, returnRepresentation, "").
		Eq("id", id).
		Eq("trainer_id", p.TrainerID).
		ExecuteTo(&rows); err != nil {
		return nil, err
	}

	return firstSaved(rows)
}

func (s *RestStore) FindWorkoutByRequestID(ctx context.Context, requestID string) (_ *workout.Saved, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "repo.rest.workouts.find_by_request_id")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if s.requestIDColumn == "" {
		return nil, workout.ErrWorkoutNotFound
	}

	var rows []workout.Saved
	if _, err := s.client.From(tableWorkouts).
		Select(restSavedColumns, "", false).
		Eq(s.requestIDColumn, requestID).
		Limit(1, "").
		ExecuteTo(&rows); err != nil {
		return nil, err
	}

	return firstSaved(rows)
}

func (s *RestStore) SetWorkoutStatus(ctx context.Context, trainerID, id, status string) (_ *workout.Saved, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "repo.rest.workouts.set_status")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var rows []workout.Saved
	if _, err := s.client.From(tableWorkouts).
		Update(map[string]string{"status": status}, returnRepresentation, "").
		Eq("id", id).
		Eq("trainer_id", trainerID).
		ExecuteTo(&rows); err != nil {
		return nil, err
	}

	return firstSaved(rows)
}

func (s *RestStore) SetShareSlug(ctx context.Context, id, shareSlug string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "repo.rest.workouts.set_share_slug")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var rows []workout.Saved
	if _, err := s.client.From(tableWorkouts).
		Update(map[string]string{"share_slug": shareSlug}, returnRepresentation, "").
		Eq("id", id).
		ExecuteTo(&rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return workout.ErrWorkoutNotFound
	}

	return nil
}

func firstSaved(rows []workout.Saved) (*workout.Saved, error) {
	if len(rows) == 0 {
		return nil, workout.ErrWorkoutNotFound
	}
	saved := rows[0]
	return &saved, nil
}

func (s *RestStore) PublicWorkoutBySlug(ctx context.Context, shareSlug string) (_ *workout.Public, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "repo.rest.workouts.public")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, _, err := s.client.From(viewWorkoutsPublic).
		Select("*", "", false).
		Eq("share_slug", shareSlug).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, err
	}

	return decodePublicWorkout(body)
}

// decodePublicWorkout reads a v_workouts_public response. Rows written by older
// clients use other column spellings, so the row is read through gjson.
func decodePublicWorkout(body []byte) (*workout.Public, error) {
	if len(body) == 0 {
		return nil, ErrEmptyResponseBody
	}
	rows := gjson.ParseBytes(body)
	if !rows.IsArray() || len(rows.Array()) == 0 {
		return nil, workout.ErrWorkoutNotFound
	}
	row := rows.Array()[0]

	blocks, err := workout.DecodeBlocks([]byte(row.Get("blocks").Raw))
	if err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}

	w := &workout.Public{
		ID:           row.Get("id").String(),
		Title:        row.Get("title").String(),
		TemplateType: firstOf(row, "template_type", "templateType", "type").String(),
		TotalKm:      firstOf(row, "total_km", "totalKm").Float(),
		Blocks:       blocks,
		ShareSlug:    row.Get("share_slug").String(),
		StudentID:    row.Get("student_id").String(),
		StudentName:  row.Get("student_name").String(),
		TrainerName:  row.Get("trainer_name").String(),
	}
	if createdAt := row.Get("created_at"); createdAt.Exists() {
		w.CreatedAt = createdAt.Time()
	}
	if w.TotalKm == 0 {
		w.TotalKm = workout.TotalKm(blocks)
	}

	return w, nil
}

func firstOf(row gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := row.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func (s *RestStore) LastExecution(ctx context.Context, workoutID string) (_ *execution.Execution, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "repo.rest.executions.last")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var rows []restExecution
	if _, err := s.client.From(viewWorkoutsLastExecution).
		Select(executionColumns, "", false).
		Eq("workout_id", workoutID).
		Limit(1, "").
		ExecuteTo(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, execution.ErrExecutionNotFound
	}

	return rows[0].toExecution()
}

func (s *RestStore) AddExecution(ctx context.Context, e *execution.Execution) (_ *execution.Execution, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "repo.rest.executions.add")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	weekStart := e.WeekStart.Format(week.DateLayout)
	var studentID *string
	if e.StudentID != "" {
		studentID = &e.StudentID
		trainingWeek := map[string]string{
			"student_id": e.StudentID,
			"week_start": weekStart,
		}
		// no transactions over REST; the week row is idempotent, so it goes first
		if _, _, err := s.client.From(tableTrainingWeeks).
			Upsert(trainingWeek, "student_id,week_start", "minimal", "").
			Execute(); err != nil {
			return nil, fmt.Errorf("upsert training week: %w", err)
		}
	}

	var notes *string
	if e.Notes != "" {
		notes = &e.Notes
	}
	row := restExecution{
		WorkoutID:       e.WorkoutID,
		StudentID:       studentID,
		DistanceKm:      e.DistanceKm,
		DurationSec:     e.DurationSec,
		AvgPaceSecPerKm: e.AvgPaceSecPerKm,
		RPE:             e.RPE,
		Notes:           notes,
		ExecutedAt:      e.ExecutedAt,
		WeekStart:       weekStart,
	}

	var rows []restExecution
	if _, err := s.client.From(tableExecutions).
		Insert(row, false, "", returnRepresentation, "").
		ExecuteTo(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrUnexpectedNoRows
	}

	e.ID = rows[0].ID
	return e, nil
}

func (s *RestStore) ListStudents(ctx context.Context, trainerID string) (_ []Student, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "repo.rest.students.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var rows []restStudent
	if _, err := s.client.From(tableStudents).
		Select(studentColumns, "", false).
		Eq("trainer_id", trainerID).
		Order("name", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows); err != nil {
		return nil, err
	}

	students := make([]Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.toStudent())
	}
	return students, nil
}

func (s *RestStore) GetStudent(ctx context.Context, trainerID, studentID string) (_ *Student, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "repo.rest.students.get")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var rows []restStudent
	if _, err := s.client.From(tableStudents).
		Select(studentColumns, "", false).
		Eq("trainer_id", trainerID).
		Eq("id", studentID).
		Limit(1, "").
		ExecuteTo(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrStudentNotFound
	}

	st := rows[0].toStudent()
	return &st, nil
}

func (s *RestStore) AddStudent(ctx context.Context, st Student) (_ *Student, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "repo.rest.students.add")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if st.TrainerID == "" {
		return nil, ErrMissingTrainerID
	}
	if st.Name == "" {
		return nil, ErrInvalidStudent
	}

	newStudent := map[string]any{
		"trainer_id": st.TrainerID,
		"name":       st.Name,
	}
	if st.Email != "" {
		newStudent["email"] = st.Email
	}
	if st.ReferencePace != nil {
		newStudent["p1k_sec_per_km"] = *st.ReferencePace
	}

	var rows []restStudent
	if _, err := s.client.From(tableStudents).
		Insert(newStudent, false, "", returnRepresentation, "").
		ExecuteTo(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrUnexpectedNoRows
	}

	added := rows[0].toStudent()
	return &added, nil
}

func (s *RestStore) TrainerWeekDashboard(ctx context.Context, trainerID string, weekStart time.Time) (_ []WeekDashboardRow, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "repo.rest.dashboard.trainer_week")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var rows []restDashboardRow
	if _, err := s.client.From(viewTrainerWeekDashboard).
		Select("student_id,student_name,week_start,executions_count,done_km,avg_rpe", "", false).
		Eq("trainer_id", trainerID).
		Eq("week_start", weekStart.Format(week.DateLayout)).
		Order("student_name", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows); err != nil {
		return nil, err
	}

	dashboard := make([]WeekDashboardRow, 0, len(rows))
	for _, r := range rows {
		ws, err := time.Parse(week.DateLayout, r.WeekStart)
		if err != nil {
			return nil, fmt.Errorf("parse week start: %w", err)
		}
		dashboard = append(dashboard, WeekDashboardRow{
			StudentID:       r.StudentID,
			StudentName:     r.StudentName,
			WeekStart:       ws,
			ExecutionsCount: r.ExecutionsCount,
			DoneKm:          r.DoneKm,
			AvgRPE:          r.AvgRPE,
		})
	}
	return dashboard, nil
}

func (s *RestStore) StudentWeekSummary(ctx context.Context, trainerID, studentID string, weekStart time.Time) (_ *StudentWeekSummary, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "repo.rest.dashboard.student_week")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var rows []restWeekSummary
	if _, err := s.client.From(viewStudentWeekSummary).
		Select("student_id,week_start,executions_count,done_km,total_duration_sec,avg_rpe,avg_pace_sec_per_km", "", false).
		Eq("trainer_id", trainerID).
		Eq("student_id", studentID).
		Eq("week_start", weekStart.Format(week.DateLayout)).
		Limit(1, "").
		ExecuteTo(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrSummaryNotFound
	}

	r := rows[0]
	ws, err := time.Parse(week.DateLayout, r.WeekStart)
	if err != nil {
		return nil, fmt.Errorf("parse week start: %w", err)
	}
	return &StudentWeekSummary{
		StudentID:        r.StudentID,
		WeekStart:        ws,
		ExecutionsCount:  r.ExecutionsCount,
		DoneKm:           r.DoneKm,
		TotalDurationSec: r.TotalDurationSec,
		AvgRPE:           r.AvgRPE,
		AvgPaceSecPerKm:  r.AvgPaceSecPerKm,
	}, nil
}
