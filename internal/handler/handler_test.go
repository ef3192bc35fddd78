package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waktunyapuasa/puasa/internal/calendar"
	"github.com/waktunyapuasa/puasa/internal/ctxkeys"
	"github.com/waktunyapuasa/puasa/internal/db"
	"github.com/waktunyapuasa/puasa/internal/dateiso"
	"github.com/waktunyapuasa/puasa/internal/model"
	"github.com/waktunyapuasa/puasa/internal/repository"
	"github.com/waktunyapuasa/puasa/internal/service"
)

// 11:00 in Kuala Lumpur on day two of Ramadan 2026.
var fixedNow = time.Date(2026, 2, 20, 3, 0, 0, 0, time.UTC)

type testHandlers struct {
	db       *sqlx.DB
	checkin  *CheckinHandler
	progress *ProgressHandler
	calendar *CalendarHandler
	home     *HomeHandler
}

func setupHandlers(t *testing.T) *testHandlers {
	t.Helper()

	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	repo := repository.NewCheckinRepository(database)
	cal := calendar.Default()
	checkinService := service.NewCheckinService(repo, time.Second)
	progressService := service.NewProgressService(cal, repo, time.Second)

	h := &testHandlers{
		db:       database,
		checkin:  NewCheckinHandler(checkinService),
		progress: NewProgressHandler(progressService),
		calendar: NewCalendarHandler(service.NewCalendarService(cal, repository.NewRamadanDayRepository(database))),
		home:     NewHomeHandler(checkinService, progressService),
	}
	clock := func() time.Time { return fixedNow }
	h.checkin.now = clock
	h.progress.now = clock
	h.home.now = clock
	return h
}

func withZone(req *http.Request, zone string) *http.Request {
	ctx := ctxkeys.WithLocation(req.Context(), dateiso.ResolveTimeZone(zone, ""))
	return req.WithContext(ctx)
}

func submit(t *testing.T, h *testHandlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/checkins", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.checkin.Submit(rec, req)
	return rec
}

func TestSubmitCheckinStatusCodes(t *testing.T) {
	h := setupHandlers(t)

	rec := submit(t, h, `{"year":2026,"date":"2026-02-19","status":"fasting"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = submit(t, h, `{"year":2026,"date":"2026-02-19","status":"not_fasting","reason":"sick but long"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"ok":false,"reason":"locked"}`, rec.Body.String())

	rec = submit(t, h, `{"year":2026,"date":"2026-02-20","status":"not_fasting","reason":"  sick "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"ok":false,"reason":"reason_too_short"}`, rec.Body.String())
}

func TestSubmitCheckinStoreDown(t *testing.T) {
	h := setupHandlers(t)
	require.NoError(t, h.db.Close())

	rec := submit(t, h, `{"date":"2026-02-20","status":"fasting"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"ok":false,"reason":"store_unavailable"}`, rec.Body.String())

	// Reads degrade instead of failing
	req := httptest.NewRequest(http.MethodGet, "/api/progress?year=2026&asOf=2026-02-20", nil)
	rec = httptest.NewRecorder()
	h.progress.Summary(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fastingCount":0`)
}

func TestSubmitCheckinMalformed(t *testing.T) {
	h := setupHandlers(t)

	tests := map[string]string{
		"not json":     `status=fasting`,
		"bad date":     `{"date":"20-02-2026","status":"fasting"}`,
		"missing date": `{"status":"fasting"}`,
		"bad status":   `{"date":"2026-02-20","status":"maybe"}`,
		"bad year":     `{"year":-1,"date":"2026-02-20","status":"fasting"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := submit(t, h, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestSubmitCheckinDefaultsYearFromDate(t *testing.T) {
	h := setupHandlers(t)

	rec := submit(t, h, `{"date":"2026-02-21","status":"fasting"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/checkins/2026-02-21?year=2026", nil)
	req.SetPathValue("date", "2026-02-21")
	rec = httptest.NewRecorder()
	h.checkin.Get(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got model.Checkin
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2026, got.Year)
	assert.Equal(t, model.CheckinStatusFasting, got.Status)
}

func TestGetCheckinAbsentIsNull(t *testing.T) {
	h := setupHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/checkins/2026-02-25", nil)
	req.SetPathValue("date", "2026-02-25")
	rec := httptest.NewRecorder()
	h.checkin.Get(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestListCheckins(t *testing.T) {
	h := setupHandlers(t)
	submit(t, h, `{"date":"2026-02-20","status":"fasting"}`)
	submit(t, h, `{"date":"2026-02-19","status":"not_fasting","reason":"musafir jauh"}`)

	req := withZone(httptest.NewRequest(http.MethodGet, "/api/checkins?download=1", nil), "Asia/Kuala_Lumpur")
	rec := httptest.NewRecorder()
	h.checkin.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "checkins-export.json")

	var got []model.Checkin
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2026-02-19", got[0].DateISO)
	assert.Equal(t, "2026-02-20", got[1].DateISO)
}

func TestProgressSummary(t *testing.T) {
	h := setupHandlers(t)
	submit(t, h, `{"date":"2026-02-19","status":"fasting"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/progress?year=2026&asOf=2026-02-19", nil)
	rec := httptest.NewRecorder()
	h.progress.Summary(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"totalDays":29,"daysSoFar":1,"fastingCount":1,"startDate":"2026-02-19"}`, rec.Body.String())
}

func TestProgressSummaryDefaultsToToday(t *testing.T) {
	h := setupHandlers(t)

	req := withZone(httptest.NewRequest(http.MethodGet, "/api/progress", nil), "Asia/Kuala_Lumpur")
	rec := httptest.NewRecorder()
	h.progress.Summary(rec, req)

	var summary model.ProgressSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.DaysSoFar)

	// Still the 19th in Los Angeles
	req = withZone(httptest.NewRequest(http.MethodGet, "/api/progress", nil), "America/Los_Angeles")
	rec = httptest.NewRecorder()
	h.progress.Summary(rec, req)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.DaysSoFar)
}

func TestProgressSummaryUnsupportedYear(t *testing.T) {
	h := setupHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/progress?year=1999&asOf=1999-12-20", nil)
	rec := httptest.NewRecorder()
	h.progress.Summary(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":false,"reason":"unsupported_year","totalDays":0,"daysSoFar":0,"fastingCount":0,"startDate":null}`, rec.Body.String())
}

func TestProgressSummaryBadInput(t *testing.T) {
	h := setupHandlers(t)

	for _, target := range []string{"/api/progress?asOf=yesterday", "/api/progress?year=abc"} {
		rec := httptest.NewRecorder()
		h.progress.Summary(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestProgressCheckpoints(t *testing.T) {
	h := setupHandlers(t)
	submit(t, h, `{"date":"2026-02-19","status":"fasting"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/progress/checkpoints?today=2026-02-20", nil)
	rec := httptest.NewRecorder()
	h.progress.Checkpoints(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var checkpoints []model.DayCheckpoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &checkpoints))
	require.Len(t, checkpoints, 29)
	assert.True(t, checkpoints[0].Checked)
	assert.Equal(t, model.DayStateToday, checkpoints[1].State)
}

func TestCalendarWindow(t *testing.T) {
	h := setupHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/calendar/2026", nil)
	req.SetPathValue("year", "2026")
	rec := httptest.NewRecorder()
	h.calendar.Window(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"year":2026,"startDate":"2026-02-19","lengthDays":29,"endDate":"2026-03-19"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/calendar/1999", nil)
	req.SetPathValue("year", "1999")
	rec = httptest.NewRecorder()
	h.calendar.Window(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"ok":false,"reason":"unsupported_year"}`, rec.Body.String())
}

func calendarDays(t *testing.T, h *CalendarHandler, year string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/"+year+"/days", nil)
	req.SetPathValue("year", year)
	rec := httptest.NewRecorder()
	h.Days(rec, req)
	return rec
}

func TestCalendarDays(t *testing.T) {
	h := setupHandlers(t)

	rec := calendarDays(t, h.calendar, "2026")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	_, err := h.calendar.calendarService.SeedDays(t.Context(), 2026)
	require.NoError(t, err)

	rec = calendarDays(t, h.calendar, "2026")
	assert.Equal(t, http.StatusOK, rec.Code)
	var days []model.RamadanDay
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &days))
	require.Len(t, days, 29)
	assert.Equal(t, model.RamadanDay{Year: 2026, DateISO: "2026-02-19", DayNumber: 1}, days[0])
	assert.Equal(t, "2026-03-19", days[28].DateISO)

	rec = calendarDays(t, h.calendar, "1999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"ok":false,"reason":"unsupported_year"}`, rec.Body.String())

	rec = calendarDays(t, h.calendar, "abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarDaysWithoutSQLStore(t *testing.T) {
	h := NewCalendarHandler(service.NewCalendarService(calendar.Default(), nil))

	rec := calendarDays(t, h, "2026")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestCalendarDaysStoreDown(t *testing.T) {
	h := setupHandlers(t)
	require.NoError(t, h.db.Close())

	rec := calendarDays(t, h.calendar, "2026")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"ok":false,"reason":"store_unavailable"}`, rec.Body.String())
}

func TestCheckInPageFlow(t *testing.T) {
	h := setupHandlers(t)

	form := url.Values{"date": {"2026-02-19"}, "status": {"not_fasting"}, "reason": {"demam panas"}}
	req := withZone(httptest.NewRequest(http.MethodPost, "/check-in", strings.NewReader(form.Encode())), "Asia/Kuala_Lumpur")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.home.CheckInSubmit(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Check-in tersimpan untuk 2026-02-19")

	form.Set("status", "fasting")
	req = withZone(httptest.NewRequest(http.MethodPost, "/check-in", strings.NewReader(form.Encode())), "Asia/Kuala_Lumpur")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.home.CheckInSubmit(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "sudah dikunci")
}

func TestCheckInPageRejectsOldDates(t *testing.T) {
	h := setupHandlers(t)

	form := url.Values{"date": {"2026-02-10"}, "status": {"fasting"}}
	req := withZone(httptest.NewRequest(http.MethodPost, "/check-in", strings.NewReader(form.Encode())), "Asia/Kuala_Lumpur")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.home.CheckInSubmit(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "hari ini atau kemarin")
}

func TestCheckInPageShortReasonKeepsInput(t *testing.T) {
	h := setupHandlers(t)

	form := url.Values{"date": {"2026-02-20"}, "status": {"not_fasting"}, "reason": {"flu"}}
	req := withZone(httptest.NewRequest(http.MethodPost, "/check-in", strings.NewReader(form.Encode())), "Asia/Kuala_Lumpur")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.home.CheckInSubmit(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alasan minimal 5 karakter.")
	assert.Contains(t, rec.Body.String(), ">flu</textarea>")
}

func TestHomePage(t *testing.T) {
	h := setupHandlers(t)
	submit(t, h, `{"date":"2026-02-20","status":"fasting"}`)

	req := withZone(httptest.NewRequest(http.MethodGet, "/", nil), "Asia/Kuala_Lumpur")
	rec := httptest.NewRecorder()
	h.home.HomePage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Hari ke-2 daripada 29")
	assert.Contains(t, body, "Check-in hari ini (2026-02-20): Puasa")
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
