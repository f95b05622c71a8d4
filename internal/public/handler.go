package public

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/pacelink/internal/execution"
	"github.com/2beens/pacelink/internal/middleware"
	"github.com/2beens/pacelink/internal/slug"
	"github.com/2beens/pacelink/internal/telemetry/metrics"
	"github.com/2beens/pacelink/internal/workout"
	"github.com/2beens/pacelink/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=public_test

type publicStore interface {
	PublicWorkoutBySlug(ctx context.Context, shareSlug string) (*workout.Public, error)
	LastExecution(ctx context.Context, workoutID string) (*execution.Execution, error)
	AddExecution(ctx context.Context, e *execution.Execution) (*execution.Execution, error)
}

type workoutsCache interface {
	Get(shareSlug string) (*workout.Public, bool)
	Set(w *workout.Public) error
	Invalidate(shareSlug string)
}

// Handler serves shared workouts to students, who have no account: the share
// slug is the only credential.
type Handler struct {
	store          publicStore
	cache          workoutsCache
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewHandler(
	store publicStore,
	cache workoutsCache,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		store:          store,
		cache:          cache,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

func (h *Handler) SetupRoutes(
	r *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	executionsAllowedPerMin int,
) {
	r.HandleFunc("/w/{slug}", h.HandleGet).Methods("GET", "OPTIONS").Name("public-workout")

	executionsRouter := r.PathPrefix("/w/{slug}/executions").Subrouter()
	executionsRouter.HandleFunc("", h.HandleAddExecution).Methods("POST", "OPTIONS").Name("new-execution")
	executionsRouter.Use(middleware.RateLimitBy(
		rateLimiter,
		"executions",
		executionsAllowedPerMin,
		middleware.ByRouteVar("slug"),
		h.metricsManager,
	))
}

type workoutResponse struct {
	Workout       *workout.Public    `json:"workout"`
	LastExecution *executionResponse `json:"last_execution"`
}

type executionResponse struct {
	*execution.Execution
	AvgPace string `json:"avg_pace"`
}

func newExecutionResponse(e *execution.Execution) *executionResponse {
	if e == nil {
		return nil
	}
	return &executionResponse{Execution: e, AvgPace: e.AvgPace()}
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	shareSlug := mux.Vars(r)["slug"]
	if !slug.Valid(shareSlug) {
		pkg.WriteJSONError(w, workout.ErrWorkoutNotFound.Error(), http.StatusNotFound)
		return
	}

	sharedWorkout, err := h.workoutBySlug(r.Context(), shareSlug)
	if err != nil {
		writeLookupError(w, shareSlug, err)
		return
	}

	lastExecution, err := h.store.LastExecution(r.Context(), sharedWorkout.ID)
	if err != nil && !errors.Is(err, execution.ErrExecutionNotFound) {
		// the workout is still worth showing without it
		log.Errorf("last execution of workout [%s]: %s", sharedWorkout.ID, err)
	}

	pkg.WriteJSON(w, workoutResponse{
		Workout:       sharedWorkout,
		LastExecution: newExecutionResponse(lastExecution),
	}, http.StatusOK)
}

func (h *Handler) HandleAddExecution(w http.ResponseWriter, r *http.Request) {
	shareSlug := mux.Vars(r)["slug"]
	if !slug.Valid(shareSlug) {
		pkg.WriteJSONError(w, workout.ErrWorkoutNotFound.Error(), http.StatusNotFound)
		return
	}

	var in execution.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		pkg.WriteJSONError(w, "error, invalid execution", http.StatusBadRequest)
		return
	}

	sharedWorkout, err := h.workoutBySlug(r.Context(), shareSlug)
	if err != nil {
		writeLookupError(w, shareSlug, err)
		return
	}

	e, err := execution.New(sharedWorkout.ID, in, h.now())
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	e.StudentID = sharedWorkout.StudentID

	added, err := h.store.AddExecution(r.Context(), e)
	if pkg.IsForeignKeyViolationError(err) {
		// the workout was deleted after the lookup
		h.cache.Invalidate(shareSlug)
		pkg.WriteJSONError(w, workout.ErrWorkoutNotFound.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("add execution of workout [%s]: %s", sharedWorkout.ID, err)
		pkg.WriteJSONError(w, "error, failed to save execution", http.StatusInternalServerError)
		return
	}

	h.metricsManager.CounterExecutions.Inc()

	log.Printf("execution [%s] logged for workout [%s]: %.2f km at %s", added.ID, added.WorkoutID, added.DistanceKm, added.AvgPace())
	pkg.WriteJSON(w, newExecutionResponse(added), http.StatusCreated)
}

func (h *Handler) workoutBySlug(ctx context.Context, shareSlug string) (*workout.Public, error) {
	if cached, found := h.cache.Get(shareSlug); found {
		return cached, nil
	}

	sharedWorkout, err := h.store.PublicWorkoutBySlug(ctx, shareSlug)
	if err != nil {
		return nil, fmt.Errorf("public workout [%s]: %w", shareSlug, err)
	}

	if err := h.cache.Set(sharedWorkout); err != nil {
		log.Warnf("cache public workout [%s]: %s", shareSlug, err)
	}
	return sharedWorkout, nil
}

func writeLookupError(w http.ResponseWriter, shareSlug string, err error) {
	if errors.Is(err, workout.ErrWorkoutNotFound) {
		log.Tracef("shared workout [%s] not found", shareSlug)
		pkg.WriteJSONError(w, workout.ErrWorkoutNotFound.Error(), http.StatusNotFound)
		return
	}
	log.Errorf("get shared workout [%s]: %s", shareSlug, err)
	pkg.WriteJSONError(w, "error, failed to get workout", http.StatusInternalServerError)
}
