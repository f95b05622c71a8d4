package trainer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/pacelink/internal/auth"
	"github.com/2beens/pacelink/internal/pace"
	"github.com/2beens/pacelink/internal/persistence"
	"github.com/2beens/pacelink/internal/slug"
	"github.com/2beens/pacelink/internal/store"
	"github.com/2beens/pacelink/internal/week"
	"github.com/2beens/pacelink/internal/workout"
	"github.com/2beens/pacelink/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=trainer_test

type workoutSaver interface {
	Save(ctx context.Context, p workout.Payload, intent persistence.Intent, workoutID string) (*workout.Saved, error)
	Share(ctx context.Context, p workout.Payload, workoutID string) (*workout.Saved, error)
	ShareStored(ctx context.Context, trainerID, workoutID string) (*workout.Saved, error)
}

type trainerStore interface {
	ListStudents(ctx context.Context, trainerID string) ([]store.Student, error)
	GetStudent(ctx context.Context, trainerID, studentID string) (*store.Student, error)
	AddStudent(ctx context.Context, s store.Student) (*store.Student, error)
	TrainerWeekDashboard(ctx context.Context, trainerID string, weekStart time.Time) ([]store.WeekDashboardRow, error)
	StudentWeekSummary(ctx context.Context, trainerID, studentID string, weekStart time.Time) (*store.StudentWeekSummary, error)
}

type publicWorkoutsCache interface {
	Invalidate(shareSlug string)
}

// Handler serves the signed-in trainer: workout drafts, students and weekly progress.
type Handler struct {
	saver        workoutSaver
	store        trainerStore
	cache        publicWorkoutsCache
	shareBaseURL string
	now          func() time.Time
}

func NewHandler(
	saver workoutSaver,
	repo trainerStore,
	cache publicWorkoutsCache,
	shareBaseURL string,
) *Handler {
	return &Handler{
		saver:        saver,
		store:        repo,
		cache:        cache,
		shareBaseURL: strings.TrimSuffix(shareBaseURL, "/"),
		now:          time.Now,
	}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/workouts/preview", h.HandlePreview).Methods("POST", "OPTIONS").Name("preview-workout")
	r.HandleFunc("/workouts", h.HandleCreateWorkout).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/workouts/{id}", h.HandleUpdateWorkout).Methods("PUT", "OPTIONS").Name("update-workout")
	r.HandleFunc("/workouts/{id}/share", h.HandleShareWorkout).Methods("POST", "OPTIONS").Name("share-workout")

	r.HandleFunc("/students", h.HandleListStudents).Methods("GET", "OPTIONS").Name("list-students")
	r.HandleFunc("/students", h.HandleAddStudent).Methods("POST", "OPTIONS").Name("new-student")
	r.HandleFunc("/students/{id}/week/{date}", h.HandleStudentWeek).Methods("GET", "OPTIONS").Name("student-week")

	r.HandleFunc("/dashboard/week/{date}", h.HandleWeekDashboard).Methods("GET", "OPTIONS").Name("week-dashboard")
}

// workoutRequest carries the form raw, so a missing form can be told apart
// from one that only sets a few fields over the defaults.
type workoutRequest struct {
	StudentID string          `json:"student_id"`
	Intent    string          `json:"intent"`
	Form      json.RawMessage `json:"form"`
}

func (req *workoutRequest) hasForm() bool {
	return len(req.Form) > 0 && string(req.Form) != "null"
}

// intent defaults to draft; sharing is the only way to publish a link.
func (req *workoutRequest) intent() (persistence.Intent, error) {
	if req.Intent == "" {
		return persistence.IntentDraft, nil
	}
	intent, ok := persistence.ParseIntent(req.Intent)
	if !ok {
		return "", fmt.Errorf("%w: unknown intent %q", errBadRequest, req.Intent)
	}
	return intent, nil
}

type savedWorkoutResponse struct {
	*workout.Saved
	Draft workout.Draft `json:"draft"`
}

type shareResponse struct {
	ID        string `json:"id"`
	ShareSlug string `json:"share_slug"`
	ShareURL  string `json:"share_url"`
}

func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := auth.TrainerID(r.Context())
	if !ok {
		auth.WriteUnauthorized(w, auth.ErrMissingToken)
		return
	}

	req, err := decodeWorkoutRequest(r)
	if err != nil {
		h.writeRequestError(w, "preview workout", err)
		return
	}

	_, draft, err := h.draft(r.Context(), trainerID, req)
	if err != nil {
		h.writeRequestError(w, "preview workout", err)
		return
	}

	pkg.WriteJSON(w, draft, http.StatusOK)
}

func (h *Handler) HandleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := auth.TrainerID(r.Context())
	if !ok {
		auth.WriteUnauthorized(w, auth.ErrMissingToken)
		return
	}

	req, intent, err := decodeWriteRequest(r)
	if err != nil {
		h.writeRequestError(w, "create workout", err)
		return
	}

	payload, draft, err := h.draft(r.Context(), trainerID, req)
	if err != nil {
		h.writeRequestError(w, "create workout", err)
		return
	}

	saved, err := h.saver.Save(r.Context(), payload, intent, "")
	if err != nil {
		log.Errorf("create workout for trainer [%s]: %s", trainerID, err)
		writeSaveError(w, err)
		return
	}

	log.Debugf("workout [%s] created as [%s/%s]", saved.ID, saved.Status, saved.TemplateType)
	pkg.WriteJSON(w, savedWorkoutResponse{Saved: saved, Draft: draft}, http.StatusCreated)
}

func (h *Handler) HandleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := auth.TrainerID(r.Context())
	if !ok {
		auth.WriteUnauthorized(w, auth.ErrMissingToken)
		return
	}

	workoutID := mux.Vars(r)["id"]
	if workoutID == "" {
		pkg.WriteJSONError(w, "error, workout id empty", http.StatusBadRequest)
		return
	}

	req, intent, err := decodeWriteRequest(r)
	if err != nil {
		h.writeRequestError(w, "update workout", err)
		return
	}

	payload, draft, err := h.draft(r.Context(), trainerID, req)
	if err != nil {
		h.writeRequestError(w, "update workout", err)
		return
	}

	saved, err := h.saver.Save(r.Context(), payload, intent, workoutID)
	if err != nil {
		log.Errorf("update workout [%s]: %s", workoutID, err)
		writeSaveError(w, err)
		return
	}
	h.invalidateShared(saved)

	pkg.WriteJSON(w, savedWorkoutResponse{Saved: saved, Draft: draft}, http.StatusOK)
}

func (h *Handler) HandleShareWorkout(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := auth.TrainerID(r.Context())
	if !ok {
		auth.WriteUnauthorized(w, auth.ErrMissingToken)
		return
	}

	workoutID := mux.Vars(r)["id"]
	if workoutID == "" {
		pkg.WriteJSONError(w, "error, workout id empty", http.StatusBadRequest)
		return
	}

	req, err := decodeWorkoutRequest(r)
	if err != nil {
		h.writeRequestError(w, "share workout", err)
		return
	}

	var saved *workout.Saved
	if req.hasForm() {
		payload, _, draftErr := h.draft(r.Context(), trainerID, req)
		if draftErr != nil {
			h.writeRequestError(w, "share workout", draftErr)
			return
		}
		saved, err = h.saver.Share(r.Context(), payload, workoutID)
	} else {
		// no form posted: share the stored workout as it is
		saved, err = h.saver.ShareStored(r.Context(), trainerID, workoutID)
	}
	if err != nil {
		log.Errorf("share workout [%s]: %s", workoutID, err)
		writeSaveError(w, err)
		return
	}
	h.invalidateShared(saved)

	shareSlug := ""
	if saved.ShareSlug != nil {
		shareSlug = *saved.ShareSlug
	}

	log.Printf("workout [%s] shared as [%s]", saved.ID, shareSlug)
	pkg.WriteJSON(w, shareResponse{
		ID:        saved.ID,
		ShareSlug: shareSlug,
		ShareURL:  h.ShareURL(shareSlug),
	}, http.StatusOK)
}

// ShareURL is the public link students open for a share slug.
func (h *Handler) ShareURL(shareSlug string) string {
	return fmt.Sprintf("%s/%s", h.shareBaseURL, shareSlug)
}

func (h *Handler) invalidateShared(saved *workout.Saved) {
	if h.cache == nil || saved == nil || saved.ShareSlug == nil {
		return
	}
	h.cache.Invalidate(*saved.ShareSlug)
}

func decodeWorkoutRequest(r *http.Request) (*workoutRequest, error) {
	req := &workoutRequest{}
	if r.Body == nil || r.Body == http.NoBody {
		return req, nil
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s", errBadRequest, err)
	}
	return req, nil
}

// decodeWriteRequest is decodeWorkoutRequest for routes that store the form,
// where a missing form would overwrite the row with the defaults.
func decodeWriteRequest(r *http.Request) (*workoutRequest, persistence.Intent, error) {
	req, err := decodeWorkoutRequest(r)
	if err != nil {
		return nil, "", err
	}
	if !req.hasForm() {
		return nil, "", errFormMissing
	}
	intent, err := req.intent()
	if err != nil {
		return nil, "", err
	}
	return req, intent, nil
}

// draft decodes the posted form over the defaults, fills the reference pace
// from the student's P1K when the form has none, and expands it.
func (h *Handler) draft(ctx context.Context, trainerID string, req *workoutRequest) (workout.Payload, workout.Draft, error) {
	form := workout.DefaultForm()
	if req.hasForm() {
		if err := json.Unmarshal(req.Form, &form); err != nil {
			return workout.Payload{}, workout.Draft{}, fmt.Errorf("%w: %s", errBadRequest, err)
		}
	}

	f := form.Apply(workout.Normalize())
	if err := f.Validate(); err != nil {
		return workout.Payload{}, workout.Draft{}, fmt.Errorf("%w: %s", errBadRequest, err)
	}

	if req.StudentID != "" {
		student, err := h.store.GetStudent(ctx, trainerID, req.StudentID)
		if err != nil {
			return workout.Payload{}, workout.Draft{}, err
		}
		if f.ReferencePace == nil && student.ReferencePace != nil {
			f = f.Apply(workout.SetReferencePace(*student.ReferencePace))
		}
	}

	draft := workout.Expand(f, h.now())
	return workout.NewPayload(trainerID, req.StudentID, draft), draft, nil
}

var (
	errBadRequest  = errors.New("bad request")
	errFormMissing = fmt.Errorf("%w: form missing", errBadRequest)
)

func (h *Handler) writeRequestError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, errBadRequest):
		pkg.WriteJSONError(w, fmt.Sprintf("error, invalid workout form: %s", err), http.StatusBadRequest)
	case errors.Is(err, store.ErrStudentNotFound):
		pkg.WriteJSONError(w, store.ErrStudentNotFound.Error(), http.StatusNotFound)
	default:
		log.Errorf("%s: %s", op, err)
		pkg.WriteJSONError(w, "error, internal server error", http.StatusInternalServerError)
	}
}

// writeSaveError shows the backend message as is, so the trainer sees why the save failed.
func writeSaveError(w http.ResponseWriter, err error) {
	var persistErr *persistence.PersistenceError
	var slugErr *slug.SlugGenerationError

	switch {
	case errors.Is(err, workout.ErrWorkoutNotFound):
		pkg.WriteJSONError(w, workout.ErrWorkoutNotFound.Error(), http.StatusNotFound)
	case errors.As(err, &slugErr):
		pkg.WriteJSONError(w, "could not create a share link, try again", http.StatusServiceUnavailable)
	case errors.As(err, &persistErr):
		status := http.StatusBadGateway
		if persistErr.Exhausted {
			status = http.StatusUnprocessableEntity
		}
		pkg.WriteJSONError(w, persistErr.BackendMessage(), status)
	default:
		pkg.WriteJSONError(w, "error, internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) HandleListStudents(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := auth.TrainerID(r.Context())
	if !ok {
		auth.WriteUnauthorized(w, auth.ErrMissingToken)
		return
	}

	students, err := h.store.ListStudents(r.Context(), trainerID)
	if err != nil {
		log.Errorf("list students of [%s]: %s", trainerID, err)
		pkg.WriteJSONError(w, "error, failed to get students", http.StatusInternalServerError)
		return
	}
	if students == nil {
		students = []store.Student{}
	}

	pkg.WriteJSON(w, students, http.StatusOK)
}

type studentRequest struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	ReferencePace *float64 `json:"p1k_sec_per_km"`
	// P1K is the reference pace as "M:SS", used when p1k_sec_per_km is absent.
	P1K string `json:"p1k"`
}

func (h *Handler) HandleAddStudent(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := auth.TrainerID(r.Context())
	if !ok {
		auth.WriteUnauthorized(w, auth.ErrMissingToken)
		return
	}

	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, "error, invalid student", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		pkg.WriteJSONError(w, store.ErrInvalidStudent.Error(), http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(req.Email)
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil {
			pkg.WriteJSONError(w, "error, invalid email", http.StatusBadRequest)
			return
		}
		email = addr.Address
	}

	referencePace := req.ReferencePace
	if referencePace == nil && req.P1K != "" {
		secPerKm, err := pace.Parse(req.P1K)
		if err != nil {
			pkg.WriteJSONError(w, "error, invalid p1k, expected M:SS", http.StatusBadRequest)
			return
		}
		referencePace = &secPerKm
	}
	if referencePace != nil && *referencePace <= 0 {
		pkg.WriteJSONError(w, "error, invalid p1k", http.StatusBadRequest)
		return
	}

	added, err := h.store.AddStudent(r.Context(), store.Student{
		TrainerID:     trainerID,
		Name:          name,
		Email:         email,
		ReferencePace: referencePace,
	})
	if err != nil {
		log.Errorf("add student for [%s]: %s", trainerID, err)
		if pkg.IsUniqueViolationError(err) {
			pkg.WriteJSONError(w, "error, student already exists", http.StatusConflict)
			return
		}
		pkg.WriteJSONError(w, "error, failed to add student", http.StatusInternalServerError)
		return
	}

	log.Printf("student [%s] added for trainer [%s]", added.ID, trainerID)
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (h *Handler) HandleWeekDashboard(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := auth.TrainerID(r.Context())
	if !ok {
		auth.WriteUnauthorized(w, auth.ErrMissingToken)
		return
	}

	weekStart, err := week.Parse(mux.Vars(r)["date"])
	if err != nil {
		pkg.WriteJSONError(w, "error, invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	rows, err := h.store.TrainerWeekDashboard(r.Context(), trainerID, weekStart)
	if err != nil {
		log.Errorf("week dashboard [%s] of [%s]: %s", week.Format(weekStart), trainerID, err)
		pkg.WriteJSONError(w, "error, failed to get week dashboard", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []store.WeekDashboardRow{}
	}

	pkg.WriteJSON(w, rows, http.StatusOK)
}

func (h *Handler) HandleStudentWeek(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := auth.TrainerID(r.Context())
	if !ok {
		auth.WriteUnauthorized(w, auth.ErrMissingToken)
		return
	}

	vars := mux.Vars(r)
	studentID := vars["id"]
	weekStart, err := week.Parse(vars["date"])
	if err != nil {
		pkg.WriteJSONError(w, "error, invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	summary, err := h.store.StudentWeekSummary(r.Context(), trainerID, studentID, weekStart)
	if err != nil {
		if errors.Is(err, store.ErrSummaryNotFound) {
			// nothing logged that week yet
			pkg.WriteJSON(w, store.StudentWeekSummary{StudentID: studentID, WeekStart: weekStart}, http.StatusOK)
			return
		}
		if errors.Is(err, store.ErrStudentNotFound) {
			pkg.WriteJSONError(w, store.ErrStudentNotFound.Error(), http.StatusNotFound)
			return
		}
		log.Errorf("student week [%s] of [%s]: %s", week.Format(weekStart), studentID, err)
		pkg.WriteJSONError(w, "error, failed to get student week", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, summary, http.StatusOK)
}
