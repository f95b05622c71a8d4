package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/pacelink/internal/execution"
	"github.com/2beens/pacelink/internal/telemetry/tracing"
	"github.com/2beens/pacelink/internal/workout"
)

var _ Store = (*PgStore)(nil)

const savedColumns = `id, status, template_type, share_slug`

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: db,
	}
}

func (s *PgStore) InsertWorkout(ctx context.Context, p workout.Payload) (_ *workout.Saved, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pg.workouts.insert")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.String("status", p.Status),
		attribute.String("template_type", p.TemplateType),
	)

	var saved workout.Saved
	err = s.db.QueryRow(ctx, `
		INSERT INTO workouts (
			request_id, trainer_id, student_id, title, status, template_type,
			include_warmup, warmup_km, include_cooldown, cooldown_km,
			template_params, blocks, total_km
		)
		VALUES (NULLIF($1, '')::uuid, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+savedColumns,
		p.RequestID, p.TrainerID, p.StudentID, p.Title, p.Status, p.TemplateType,
		p.IncludeWarmup, p.WarmupKm, p.IncludeCooldown, p.CooldownKm,
		p.TemplateParams, p.Blocks, p.TotalKm,
	).Scan(&saved.ID, &saved.Status, &saved.TemplateType, &saved.ShareSlug)
	if err != nil {
		return nil, err
	}

	return &saved, nil
}

func (s *PgStore) UpdateWorkout(ctx context.Context, id string, p workout.Payload) (_ *workout.Saved, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pg.workouts.update")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var saved workout.Saved
	err = s.db.QueryRow(ctx, `
		UPDATE workouts SET
			student_id = COALESCE(NULLIF($3, '')::uuid, student_id),
			title = $4,
			status = $5,
			template_type = $6,
			include_warmup = $7,
			warmup_km = $8,
			include_cooldown = $9,
			cooldown_km = $10,
			template_params = $11,
			blocks = $12,
			total_km = $13,
			updated_at = now()
		WHERE id = $1 AND trainer_id = $2
		RETURNING `+savedColumns,
		id, p.TrainerID, p.StudentID, p.Title, p.Status, p.TemplateType,
		p.IncludeWarmup, p.WarmupKm, p.IncludeCooldown, p.CooldownKm,
		p.TemplateParams, p.Blocks, p.TotalKm,
	).Scan(&saved.ID, &saved.Status, &saved.TemplateType, &saved.ShareSlug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, workout.ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}

	return &saved, nil
}

func (s *PgStore) SetWorkoutStatus(ctx context.Context, trainerID, id, status string) (_ *workout.Saved, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pg.workouts.set_status")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("status", status))

	var saved workout.Saved
	err = s.db.QueryRow(ctx, `
		UPDATE workouts SET status = $3, updated_at = now()
		WHERE id = $1 AND trainer_id = $2
		RETURNING `+savedColumns,
		id, trainerID, status,
	).Scan(&saved.ID, &saved.Status, &saved.TemplateType, &saved.ShareSlug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, workout.ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}

	return &saved, nil
}

func (s *PgStore) FindWorkoutByRequestID(ctx context.Context, requestID string) (_ *workout.Saved, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pg.workouts.find_by_request_id")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var saved workout.Saved
	err = s.db.QueryRow(ctx,
		`SELECT `+savedColumns+` FROM workouts WHERE request_id = $1::uuid`,
		requestID,
	).Scan(&saved.ID, &saved.Status, &saved.TemplateType, &saved.ShareSlug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, workout.ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}

	return &saved, nil
}

func (s *PgStore) SetShareSlug(ctx context.Context, id, shareSlug string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pg.workouts.set_share_slug")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tag, err := s.db.Exec(ctx,
		`UPDATE workouts SET share_slug = $2, updated_at = now() WHERE id = $1`,
		id, shareSlug,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return workout.ErrWorkoutNotFound
	}

	return nil
}

func (s *PgStore) PublicWorkoutBySlug(ctx context.Context, shareSlug string) (_ *workout.Public, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pg.workouts.public")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var (
		w           workout.Public
		title       *string
		studentID   *string
		studentName *string
		blocksRaw   []byte
	)
	err = s.db.QueryRow(ctx, `
		SELECT id, title, template_type, total_km, blocks, share_slug, student_id, student_name, created_at
		FROM v_workouts_public
		WHERE share_slug = $1`,
		shareSlug,
	).Scan(&w.ID, &title, &w.TemplateType, &w.TotalKm, &blocksRaw, &w.ShareSlug, &studentID, &studentName, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, workout.ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}

	w.Blocks, err = workout.DecodeBlocks(blocksRaw)
	if err != nil {
		return nil, fmt.Errorf("decode blocks of workout %s: %w", w.ID, err)
	}
	if title != nil {
		w.Title = *title
	}
	if studentID != nil {
		w.StudentID = *studentID
	}
	if studentName != nil {
		w.StudentName = *studentName
	}

	return &w, nil
}

func (s *PgStore) LastExecution(ctx context.Context, workoutID string) (_ *execution.Execution, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pg.executions.last")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var (
		e     execution.Execution
		notes *string
	)
	err = s.db.QueryRow(ctx, `
		SELECT id, workout_id, student_id, distance_km, duration_sec, avg_pace_sec_per_km, rpe, notes, executed_at, week_start
		FROM v_workouts_last_execution
		WHERE workout_id = $1`,
		workoutID,
	).Scan(&e.ID, &e.WorkoutID, &e.StudentID, &e.DistanceKm, &e.DurationSec, &e.AvgPaceSecPerKm, &e.RPE, &notes, &e.ExecutedAt, &e.WeekStart)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, execution.ErrExecutionNotFound
	}
	if err != nil {
		return nil, err
	}
	if notes != nil {
		e.Notes = *notes
	}

	return &e, nil
}

func (s *PgStore) AddExecution(ctx context.Context, e *execution.Execution) (_ *execution.Execution, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pg.executions.add")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if e.StudentID != "" {
		_, err = tx.Exec(ctx, `
			INSERT INTO training_weeks (student_id, week_start)
			VALUES ($1::uuid, $2::date)
			ON CONFLICT (student_id, week_start) DO NOTHING`,
			e.StudentID, e.WeekStart,
		)
		if err != nil {
			return nil, fmt.Errorf("upsert training week: %w", err)
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO executions (
			workout_id, student_id, distance_km, duration_sec, avg_pace_sec_per_km, rpe, notes, executed_at, week_start
		)
		VALUES ($1::uuid, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, $8, $9::date)
		RETURNING id`,
		e.WorkoutID, e.StudentID, e.DistanceKm, e.DurationSec, e.AvgPaceSecPerKm, e.RPE, e.Notes, e.ExecutedAt, e.WeekStart,
	).Scan(&e.ID)
	if err != nil {
		return nil, err
	}

	return e, nil
}

func (s *PgStore) ListStudents(ctx context.Context, trainerID string) (_ []Student, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pg.students.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	rows, err := s.db.Query(ctx, `
		SELECT id, trainer_id, name, email, p1k_sec_per_km, created_at
		FROM students
		WHERE trainer_id = $1
		ORDER BY name`,
		trainerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := make([]Student, 0)
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

func (s *PgStore) GetStudent(ctx context.Context, trainerID, studentID string) (_ *Student, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pg.students.get")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	row := s.db.QueryRow(ctx, `
		SELECT id, trainer_id, name, email, p1k_sec_per_km, created_at
		FROM students
		WHERE trainer_id = $1 AND id = $2::uuid`,
		trainerID, studentID,
	)
	st, err := scanStudent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}

	return st, nil
}

func (s *PgStore) AddStudent(ctx context.Context, st Student) (_ *Student, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pg.students.add")
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

	row := s.db.QueryRow(ctx, `
		INSERT INTO students (trainer_id, name, email, p1k_sec_per_km)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		RETURNING id, trainer_id, name, email, p1k_sec_per_km, created_at`,
		st.TrainerID, st.Name, st.Email, st.ReferencePace,
	)

	return scanStudent(row)
}

func scanStudent(row pgx.Row) (*Student, error) {
	var (
		st    Student
		email *string
	)
	if err := row.Scan(&st.ID, &st.TrainerID, &st.Name, &email, &st.ReferencePace, &st.CreatedAt); err != nil {
		return nil, err
	}
	if email != nil {
		st.Email = *email
	}
	return &st, nil
}

func (s *PgStore) TrainerWeekDashboard(ctx context.Context, trainerID string, weekStart time.Time) (_ []WeekDashboardRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pg.dashboard.trainer_week")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	rows, err := s.db.Query(ctx, `
		SELECT student_id, student_name, week_start, executions_count, done_km, avg_rpe
		FROM v2_trainer_week_dashboard
		WHERE trainer_id = $1 AND week_start = $2::date
		ORDER BY student_name`,
		trainerID, weekStart,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dashboard := make([]WeekDashboardRow, 0)
	for rows.Next() {
		var r WeekDashboardRow
		if err := rows.Scan(&r.StudentID, &r.StudentName, &r.WeekStart, &r.ExecutionsCount, &r.DoneKm, &r.AvgRPE); err != nil {
			return nil, err
		}
		dashboard = append(dashboard, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dashboard, nil
}

func (s *PgStore) StudentWeekSummary(ctx context.Context, trainerID, studentID string, weekStart time.Time) (_ *StudentWeekSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pg.dashboard.student_week")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var summary StudentWeekSummary
	err = s.db.QueryRow(ctx, `
		SELECT student_id, week_start, executions_count, done_km, total_duration_sec, avg_rpe, avg_pace_sec_per_km
		FROM v2_student_week_summary
		WHERE trainer_id = $1 AND student_id = $2::uuid AND week_start = $3::date`,
		trainerID, studentID, weekStart,
	).Scan(
		&summary.StudentID, &summary.WeekStart, &summary.ExecutionsCount, &summary.DoneKm,
		&summary.TotalDurationSec, &summary.AvgRPE, &summary.AvgPaceSecPerKm,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSummaryNotFound
	}
	if err != nil {
		return nil, err
	}

	return &summary, nil
}
