package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/multierr"

	"github.com/2beens/pacelink/internal/slug"
	"github.com/2beens/pacelink/internal/telemetry/metrics"
	"github.com/2beens/pacelink/internal/telemetry/tracing"
	"github.com/2beens/pacelink/internal/workout"
	"github.com/2beens/pacelink/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=saver_mocks_test.go -package=persistence_test

type workoutStore interface {
	InsertWorkout(ctx context.Context, p workout.Payload) (*workout.Saved, error)
	UpdateWorkout(ctx context.Context, id string, p workout.Payload) (*workout.Saved, error)
	SetWorkoutStatus(ctx context.Context, trainerID, id, status string) (*workout.Saved, error)
	FindWorkoutByRequestID(ctx context.Context, requestID string) (*workout.Saved, error)
	SetShareSlug(ctx context.Context, id, shareSlug string) error
}

type Saver struct {
	store          workoutStore
	candidates     Candidates
	slugs          *slug.Generator
	metricsManager *metrics.Manager
}

func NewSaver(
	store workoutStore,
	candidates Candidates,
	slugs *slug.Generator,
	metricsManager *metrics.Manager,
) *Saver {
	return &Saver{
		store:          store,
		candidates:     candidates.WithDefaults(),
		slugs:          slugs,
		metricsManager: metricsManager,
	}
}

// Save writes p with the first (status, template_type) pair the backend accepts.
// Statuses form the outer loop. An empty workoutID inserts a new row, anything
// else updates that row.
func (s *Saver) Save(ctx context.Context, p workout.Payload, intent Intent, workoutID string) (_ *workout.Saved, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "persistence.workout.save")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	insert := workoutID == ""
	if insert && p.RequestID == "" {
		p.RequestID = uuid.NewString()
	}
	if !insert {
		p.RequestID = ""
	}
	span.SetAttributes(
		attribute.String("intent", string(intent)),
		attribute.Bool("insert", insert),
		attribute.String("request_id", p.RequestID),
	)

	statuses := s.candidates.Statuses(intent)
	templateTypes := s.candidates.TemplateTypesFor(p.Template)

	attempts := 0
	var allErrs, lastErr error
	defer func() {
		s.metricsManager.HistogramSaveAttempts.Observe(float64(attempts))
	}()

	for _, status := range statuses {
		for _, templateType := range templateTypes {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, &PersistenceError{Attempts: attempts, Err: ctxErr, all: multierr.Append(allErrs, ctxErr)}
			}

			attempts++
			p.Status = status
			p.TemplateType = templateType

			saved, writeErr := s.write(ctx, workoutID, p)
			if writeErr == nil {
				s.metricsManager.CounterSaveAttempts.WithLabelValues("ok").Inc()
				s.metricsManager.CounterWorkoutsSaved.WithLabelValues(string(intent)).Inc()
				log.Debugf("workout [%s] saved with status [%s] template [%s] after %d attempts", saved.ID, status, templateType, attempts)
				return saved, nil
			}

			allErrs = multierr.Append(allErrs, writeErr)
			lastErr = writeErr

			if !IsConstraintMismatch(writeErr, s.candidates.ConstraintNames) {
				s.metricsManager.CounterSaveAttempts.WithLabelValues("error").Inc()
				return nil, &PersistenceError{Attempts: attempts, Err: writeErr, all: allErrs}
			}

			s.metricsManager.CounterSaveAttempts.WithLabelValues("constraint").Inc()
			s.metricsManager.CounterConstraintRetries.Inc()
			log.Tracef("workout save candidate [%s/%s] rejected: %s", status, templateType, writeErr)

			if !insert {
				continue
			}

			// the failed insert may still have committed, look the request up before writing again
			existing, lookupErr := s.store.FindWorkoutByRequestID(ctx, p.RequestID)
			switch {
			case lookupErr == nil:
				log.Warnf("workout insert [%s] reported [%s] but the row exists, not retrying", p.RequestID, writeErr)
				s.metricsManager.CounterWorkoutsSaved.WithLabelValues(string(intent)).Inc()
				return existing, nil
			case errors.Is(lookupErr, workout.ErrWorkoutNotFound):
			default:
				allErrs = multierr.Append(allErrs, lookupErr)
				return nil, &PersistenceError{
					Attempts: attempts,
					Err:      fmt.Errorf("look up request %s: %w", p.RequestID, lookupErr),
					all:      allErrs,
				}
			}
		}
	}

	if lastErr == nil {
		lastErr = errors.New("no status or template type candidates configured")
		allErrs = lastErr
	}

	return nil, &PersistenceError{
		Attempts:  attempts,
		Exhausted: true,
		Err:       lastErr,
		all:       allErrs,
	}
}

func (s *Saver) write(ctx context.Context, workoutID string, p workout.Payload) (*workout.Saved, error) {
	if workoutID == "" {
		return s.store.InsertWorkout(ctx, p)
	}
	return s.store.UpdateWorkout(ctx, workoutID, p)
}

// Share saves p as ready and makes sure the row carries a unique share slug.
func (s *Saver) Share(ctx context.Context, p workout.Payload, workoutID string) (_ *workout.Saved, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "persistence.workout.share")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	saved, err := s.Save(ctx, p, IntentReady, workoutID)
	if err != nil {
		return nil, err
	}

	return s.ensureShareSlug(ctx, saved)
}

// ShareStored shares the stored workout without rewriting its content: the
// status becomes the first ready spelling the backend accepts and the row gets
// a share slug.
func (s *Saver) ShareStored(ctx context.Context, trainerID, workoutID string) (_ *workout.Saved, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "persistence.workout.share_stored")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	saved, err := s.markReady(ctx, trainerID, workoutID)
	if err != nil {
		return nil, err
	}

	return s.ensureShareSlug(ctx, saved)
}

func (s *Saver) markReady(ctx context.Context, trainerID, workoutID string) (*workout.Saved, error) {
	attempts := 0
	var allErrs, lastErr error

	for _, status := range s.candidates.Statuses(IntentReady) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &PersistenceError{Attempts: attempts, Err: ctxErr, all: multierr.Append(allErrs, ctxErr)}
		}

		attempts++
		saved, setErr := s.store.SetWorkoutStatus(ctx, trainerID, workoutID, status)
		if setErr == nil {
			s.metricsManager.CounterSaveAttempts.WithLabelValues("ok").Inc()
			s.metricsManager.CounterWorkoutsSaved.WithLabelValues(string(IntentReady)).Inc()
			return saved, nil
		}

		allErrs = multierr.Append(allErrs, setErr)
		lastErr = setErr

		if !IsConstraintMismatch(setErr, s.candidates.ConstraintNames) {
			s.metricsManager.CounterSaveAttempts.WithLabelValues("error").Inc()
			return nil, &PersistenceError{Attempts: attempts, Err: setErr, all: allErrs}
		}
		s.metricsManager.CounterSaveAttempts.WithLabelValues("constraint").Inc()
		s.metricsManager.CounterConstraintRetries.Inc()
	}

	if lastErr == nil {
		lastErr = errors.New("no ready status candidates configured")
		allErrs = lastErr
	}

	return nil, &PersistenceError{
		Attempts:  attempts,
		Exhausted: true,
		Err:       lastErr,
		all:       allErrs,
	}
}

func (s *Saver) ensureShareSlug(ctx context.Context, saved *workout.Saved) (*workout.Saved, error) {
	if saved.ShareSlug != nil && *saved.ShareSlug != "" {
		return saved, nil
	}

	shareSlug, err := s.slugs.GenerateUnique(ctx, func(ctx context.Context, candidate string) error {
		setErr := s.store.SetShareSlug(ctx, saved.ID, candidate)
		if setErr != nil && pkg.IsUniqueViolationError(setErr) {
			s.metricsManager.CounterSlugCollisions.Inc()
		}
		return setErr
	})
	if err != nil {
		return nil, err
	}

	saved.ShareSlug = &shareSlug
	return saved, nil
}
