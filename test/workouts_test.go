//go:build integration_test

package test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/pacelink/internal/slug"
	"github.com/2beens/pacelink/internal/store"
	"github.com/2beens/pacelink/internal/week"
	"github.com/2beens/pacelink/internal/workout"
	"github.com/2beens/pacelink/pkg"
)

type savedWorkout struct {
	ID           string        `json:"id"`
	Status       string        `json:"status"`
	TemplateType string        `json:"template_type"`
	ShareSlug    *string       `json:"share_slug"`
	Draft        workout.Draft `json:"draft"`
}

type sharedWorkout struct {
	ID        string `json:"id"`
	ShareSlug string `json:"share_slug"`
	ShareURL  string `json:"share_url"`
}

type publicWorkout struct {
	Workout       workout.Public `json:"workout"`
	LastExecution *struct {
		ID          string  `json:"id"`
		DistanceKm  float64 `json:"distance_km"`
		DurationSec float64 `json:"duration_sec"`
		RPE         int     `json:"rpe"`
		AvgPace     string  `json:"avg_pace"`
	} `json:"last_execution"`
}

func (s *IntegrationTestSuite) addStudent(ctx context.Context, token string) store.Student {
	t := s.T()

	status, body := s.doRequest(ctx, http.MethodPost, "/students", token, map[string]any{
		"name":  gofakeit.Name(),
		"email": gofakeit.Email(),
		"p1k":   "4:30",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var student store.Student
	s.decode(body, &student)
	require.NotEmpty(t, student.ID)
	require.NotNil(t, student.ReferencePace)
	assert.Equal(t, 270.0, *student.ReferencePace)

	return student
}

func (s *IntegrationTestSuite) TestUnauthorized() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	status, body := s.doRequest(ctx, http.MethodGet, "/students", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)

	var errResp pkg.ErrorResponse
	s.decode(body, &errResp)
	assert.Equal(t, "/a/login", errResp.Login)

	status, _ = s.doRequest(ctx, http.MethodGet, "/students", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestStudents() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	token := s.trainerToken(newTrainerID())
	first := s.addStudent(ctx, token)
	second := s.addStudent(ctx, token)

	status, body := s.doRequest(ctx, http.MethodGet, "/students", token, nil)
	require.Equal(t, http.StatusOK, status)
	var students []store.Student
	s.decode(body, &students)
	require.Len(t, students, 2)
	ids := []string{students[0].ID, students[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)

	// same email twice for one trainer
	status, _ = s.doRequest(ctx, http.MethodPost, "/students", token, map[string]any{
		"name":  gofakeit.Name(),
		"email": first.Email,
	})
	assert.Equal(t, http.StatusConflict, status)

	// other trainers see nothing
	status, body = s.doRequest(ctx, http.MethodGet, "/students", s.trainerToken(newTrainerID()), nil)
	require.Equal(t, http.StatusOK, status)
	s.decode(body, &students)
	assert.Empty(t, students)
}

func (s *IntegrationTestSuite) TestWorkoutLifecycle() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	token := s.trainerToken(newTrainerID())
	student := s.addStudent(ctx, token)

	form := workout.DefaultForm().Apply(workout.SetWorkoutType(workout.TemplateProgressive))

	// preview is pure
	status, body := s.doRequest(ctx, http.MethodPost, "/workouts/preview", token, map[string]any{
		"student_id": student.ID,
		"form":       form,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var preview workout.Draft
	s.decode(body, &preview)
	assert.Equal(t, workout.TemplateProgressive, preview.TemplateType)
	assert.Equal(t, 7.0, preview.TotalKm)
	require.Len(t, preview.Blocks, 5)
	// the student's P1K fills in the missing reference pace
	assert.NotNil(t, preview.Blocks[1].PaceRange)

	// the local schema only accepts the English spelling, so the adapter has to walk the candidates
	status, body = s.doRequest(ctx, http.MethodPost, "/workouts", token, map[string]any{
		"student_id": student.ID,
		"form":       form,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var created savedWorkout
	s.decode(body, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "draft", created.Status)
	assert.Equal(t, "progressive", created.TemplateType)
	assert.Nil(t, created.ShareSlug)

	// update to an alternated workout
	alternated := form.Apply(
		workout.SetWorkoutType(workout.TemplateAlternated),
		workout.SetAlternated(8, 0.4, 0.2),
	)
	status, body = s.doRequest(ctx, http.MethodPut, "/workouts/"+created.ID, token, map[string]any{
		"student_id": student.ID,
		"form":       alternated,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var updated savedWorkout
	s.decode(body, &updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "alternated", updated.TemplateType)

	// another trainer cannot touch it
	status, _ = s.doRequest(ctx, http.MethodPut, "/workouts/"+created.ID, s.trainerToken(newTrainerID()), map[string]any{
		"form": alternated,
	})
	assert.Equal(t, http.StatusNotFound, status)

	// share
	status, body = s.doRequest(ctx, http.MethodPost, "/workouts/"+created.ID+"/share", token, map[string]any{
		"student_id": student.ID,
		"form":       alternated,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var shared sharedWorkout
	s.decode(body, &shared)
	assert.Equal(t, created.ID, shared.ID)
	assert.True(t, slug.Valid(shared.ShareSlug), shared.ShareSlug)
	assert.Equal(t, "https://pacelink.test/w/"+shared.ShareSlug, shared.ShareURL)

	// an update without a form must not reset the stored workout
	status, _ = s.doRequest(ctx, http.MethodPut, "/workouts/"+created.ID, token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// sharing again without a form keeps the slug and the stored workout
	status, body = s.doRequest(ctx, http.MethodPost, "/workouts/"+created.ID+"/share", token, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var sharedAgain sharedWorkout
	s.decode(body, &sharedAgain)
	assert.Equal(t, shared.ShareSlug, sharedAgain.ShareSlug)

	// the public page, no token needed
	status, body = s.doRequest(ctx, http.MethodGet, "/w/"+shared.ShareSlug, "", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var public publicWorkout
	s.decode(body, &public)
	assert.Equal(t, created.ID, public.Workout.ID)
	assert.Equal(t, "alternated", public.Workout.TemplateType)
	assert.Equal(t, student.Name, public.Workout.StudentName)
	assert.NotEmpty(t, public.Workout.Blocks)
	assert.Nil(t, public.LastExecution)

	// the student logs an execution
	status, body = s.doRequest(ctx, http.MethodPost, fmt.Sprintf("/w/%s/executions", shared.ShareSlug), "", map[string]any{
		"distance_km":  10,
		"duration_sec": 3000,
		"rpe":          7,
		"notes":        gofakeit.Sentence(6),
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = s.doRequest(ctx, http.MethodGet, "/w/"+shared.ShareSlug, "", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	s.decode(body, &public)
	require.NotNil(t, public.LastExecution)
	assert.Equal(t, 10.0, public.LastExecution.DistanceKm)
	assert.Equal(t, 7, public.LastExecution.RPE)
	assert.Equal(t, "5:00", public.LastExecution.AvgPace)

	// an invalid execution
	status, _ = s.doRequest(ctx, http.MethodPost, fmt.Sprintf("/w/%s/executions", shared.ShareSlug), "", map[string]any{
		"distance_km":  10,
		"duration_sec": 3000,
		"rpe":          11,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// weekly progress
	date := week.Start(time.Now()).Format("2006-01-02")
	status, body = s.doRequest(ctx, http.MethodGet, "/dashboard/week/"+date, token, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var dashboard []store.WeekDashboardRow
	s.decode(body, &dashboard)
	require.Len(t, dashboard, 1)
	assert.Equal(t, student.ID, dashboard[0].StudentID)
	assert.Equal(t, 1, dashboard[0].ExecutionsCount)
	assert.Equal(t, 10.0, dashboard[0].DoneKm)

	status, body = s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/students/%s/week/%s", student.ID, date), token, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var summary store.StudentWeekSummary
	s.decode(body, &summary)
	assert.Equal(t, 1, summary.ExecutionsCount)
	assert.Equal(t, 3000.0, summary.TotalDurationSec)
	require.NotNil(t, summary.AvgPaceSecPerKm)
	assert.Equal(t, 300.0, *summary.AvgPaceSecPerKm)
}

func (s *IntegrationTestSuite) TestPublicWorkout_NotFound() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	status, _ := s.doRequest(ctx, http.MethodGet, "/w/doesnotexist1", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.doRequest(ctx, http.MethodPost, "/w/doesnotexist1/executions", "", map[string]any{
		"distance_km":  5,
		"duration_sec": 1500,
		"rpe":          5,
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestLoginRateLimit() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	credentials := map[string]string{
		"email":    gofakeit.Email(),
		"password": gofakeit.Password(true, true, true, false, false, 12),
	}

	// the auth server is not reachable in the suite, only the limiter matters here
	for i := 0; i < testLoginAllowedPerMin; i++ {
		status, _ := s.doRequest(ctx, http.MethodPost, "/a/login", "", credentials)
		assert.NotEqual(t, http.StatusTooManyRequests, status)
	}

	status, body := s.doRequest(ctx, http.MethodPost, "/a/login", "", credentials)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Contains(t, string(body), "retry after")
}
