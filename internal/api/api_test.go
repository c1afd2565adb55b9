package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SashaSaw/Habitat-sub001/internal"
	"github.com/SashaSaw/Habitat-sub001/internal/auth"
	"github.com/SashaSaw/Habitat-sub001/internal/service"
	"github.com/SashaSaw/Habitat-sub001/internal/storage"
)

type testApp struct {
	store   *storage.FileStorage
	goodDay *service.GoodDay
}

func (a *testApp) Logger() internal.Logger              { return internal.NopLogger{} }
func (a *testApp) HabitRepo() storage.HabitRepository   { return a.store }
func (a *testApp) GroupRepo() storage.GroupRepository   { return a.store }
func (a *testApp) DayRepo() storage.DayRecordRepository { return a.store }
func (a *testApp) GoodDay() *service.GoodDay            { return a.goodDay }
func (a *testApp) ReminderSlots() int                   { return 3 }
func (a *testApp) Schedule() service.Schedule {
	return service.Schedule{WakeMinutes: 8 * 60, BedMinutes: 23 * 60}
}

func setupRouter(t *testing.T) (*gin.Engine, *testApp) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := storage.NewFileStorage(t.TempDir(), internal.NopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	app := &testApp{
		store:   store,
		goodDay: service.NewGoodDay(store, store, store, internal.NopLogger{}),
	}
	provider := auth.NewStaticTokenProvider("MOCK-TOKEN", internal.NopLogger{})
	return NewRouter(app, provider), app
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer MOCK-TOKEN")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data  json.RawMessage    `json:"data"`
	Meta  map[string]any     `json:"meta"`
	Error *internal.AppError `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func TestAuthRequired(t *testing.T) {
	r, _ := setupRouter(t)
	req, _ := http.NewRequest("GET", "/api/habits", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 401, w.Code)

	req, _ = http.NewRequest("GET", "/api/habits", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 401, w.Code)
}

func TestPostHabitValidAndInvalid(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, "POST", "/api/habits", `{"name":"Read","tier":"must_do","type":"positive","frequency_type":"daily"}`)
	assert.Equal(t, 200, w.Code)
	var habit internal.Habit
	decode(t, w, &habit)
	assert.NotEmpty(t, habit.ID)
	assert.True(t, habit.IsActive)
	assert.Equal(t, internal.TierMustDo, habit.Tier)

	// Unknown tier
	w = doJSON(t, r, "POST", "/api/habits", `{"name":"Read","tier":"banana","type":"positive","frequency_type":"daily"}`)
	assert.Equal(t, 400, w.Code)

	// Missing name
	w = doJSON(t, r, "POST", "/api/habits", `{"tier":"must_do","type":"positive","frequency_type":"daily"}`)
	assert.Equal(t, 400, w.Code)
}

func TestLogFlowMakesGoodDay(t *testing.T) {
	r, _ := setupRouter(t)
	today := internal.FormatDay(time.Now())

	w := doJSON(t, r, "POST", "/api/habits", `{"name":"Read","tier":"must_do","type":"positive","frequency_type":"daily"}`)
	require.Equal(t, 200, w.Code)
	var habit internal.Habit
	decode(t, w, &habit)

	// Not good yet.
	w = doJSON(t, r, "GET", "/api/days?date="+today, "")
	require.Equal(t, 200, w.Code)
	var dayBody struct {
		Good bool `json:"good"`
	}
	decode(t, w, &dayBody)
	assert.False(t, dayBody.Good)

	// Log completion; the handler kicks the good-day evaluation.
	w = doJSON(t, r, "POST", "/api/habits/"+habit.ID+"/logs", `{"date":"`+today+`","completed":true}`)
	require.Equal(t, 200, w.Code)
	var updated internal.Habit
	decode(t, w, &updated)
	assert.Equal(t, 1, updated.CurrentStreak)
	assert.Equal(t, 1, updated.BestStreak)

	w = doJSON(t, r, "GET", "/api/days?date="+today, "")
	require.Equal(t, 200, w.Code)
	decode(t, w, &dayBody)
	assert.True(t, dayBody.Good)

	w = doJSON(t, r, "GET", "/api/days/streak?date="+today, "")
	require.Equal(t, 200, w.Code)
	var streakBody struct {
		Streak int `json:"streak"`
	}
	decode(t, w, &streakBody)
	assert.Equal(t, 1, streakBody.Streak)
}

func TestPostLogInvalidDate(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(t, r, "POST", "/api/habits", `{"name":"Read","tier":"must_do","type":"positive","frequency_type":"daily"}`)
	require.Equal(t, 200, w.Code)
	var habit internal.Habit
	decode(t, w, &habit)

	w = doJSON(t, r, "POST", "/api/habits/"+habit.ID+"/logs", `{"date":"03/06/2025","completed":true}`)
	assert.Equal(t, 400, w.Code)
}

func TestGroupLifecycleAndProgress(t *testing.T) {
	r, _ := setupRouter(t)
	today := internal.FormatDay(time.Now())

	var x, y internal.Habit
	w := doJSON(t, r, "POST", "/api/habits", `{"name":"Run","tier":"nice_to_do","type":"positive","frequency_type":"daily"}`)
	require.Equal(t, 200, w.Code)
	decode(t, w, &x)
	w = doJSON(t, r, "POST", "/api/habits", `{"name":"Swim","tier":"nice_to_do","type":"positive","frequency_type":"daily"}`)
	require.Equal(t, 200, w.Code)
	decode(t, w, &y)

	w = doJSON(t, r, "POST", "/api/groups", `{"name":"Exercise","tier":"must_do","require_count":1,"habit_ids":["`+x.ID+`","`+y.ID+`"]}`)
	require.Equal(t, 200, w.Code)
	var group internal.HabitGroup
	decode(t, w, &group)

	// require_count above member count is rejected at the write layer.
	w = doJSON(t, r, "POST", "/api/groups", `{"name":"Bad","tier":"must_do","require_count":3,"habit_ids":["`+x.ID+`"]}`)
	assert.Equal(t, 400, w.Code)

	// A habit cannot be claimed by a second group.
	w = doJSON(t, r, "POST", "/api/groups", `{"name":"Other","tier":"must_do","require_count":1,"habit_ids":["`+x.ID+`"]}`)
	assert.Equal(t, 400, w.Code)

	w = doJSON(t, r, "POST", "/api/habits/"+x.ID+"/logs", `{"date":"`+today+`","completed":true}`)
	require.Equal(t, 200, w.Code)

	w = doJSON(t, r, "GET", "/api/groups/"+group.ID+"/progress?date="+today, "")
	require.Equal(t, 200, w.Code)
	var progress struct {
		Completed int  `json:"completed"`
		Members   int  `json:"members"`
		Satisfied bool `json:"satisfied"`
	}
	decode(t, w, &progress)
	assert.Equal(t, 1, progress.Completed)
	assert.Equal(t, 2, progress.Members)
	assert.True(t, progress.Satisfied)

	// The satisfied must-do group is the only obligation: good day.
	w = doJSON(t, r, "GET", "/api/days?date="+today, "")
	require.Equal(t, 200, w.Code)
	var dayBody struct {
		Good bool `json:"good"`
	}
	decode(t, w, &dayBody)
	assert.True(t, dayBody.Good)
}

func TestRemindersEndpoint(t *testing.T) {
	r, _ := setupRouter(t)
	today := internal.FormatDay(time.Now())

	w := doJSON(t, r, "POST", "/api/habits", `{"name":"Stretch","tier":"must_do","type":"positive","frequency_type":"daily"}`)
	require.Equal(t, 200, w.Code)

	w = doJSON(t, r, "GET", "/api/reminders?date="+today, "")
	require.Equal(t, 200, w.Code)
	var reminders []service.Reminder
	decode(t, w, &reminders)
	require.Len(t, reminders, 3)
	assert.Contains(t, reminders[0].Message, "Stretch")
}

func TestDeleteHabit(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(t, r, "POST", "/api/habits", `{"name":"Read","tier":"must_do","type":"positive","frequency_type":"daily"}`)
	require.Equal(t, 200, w.Code)
	var habit internal.Habit
	decode(t, w, &habit)

	w = doJSON(t, r, "DELETE", "/api/habits/"+habit.ID, "")
	assert.Equal(t, 200, w.Code)
	w = doJSON(t, r, "GET", "/api/habits/"+habit.ID, "")
	assert.Equal(t, 404, w.Code)
}
