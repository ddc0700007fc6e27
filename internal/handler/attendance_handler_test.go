package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/college-api/internal/middleware"
	"github.com/campushub/college-api/internal/models"
	"github.com/campushub/college-api/internal/service"
)

type fakeAttendanceRepo struct {
	inserted   *models.AttendanceRecord
	records    []models.AttendanceRecord
	total      int
	lastFilter models.AttendanceFilter
}

func (f *fakeAttendanceRepo) Insert(_ context.Context, record *models.AttendanceRecord) error {
	f.inserted = record
	return nil
}

func (f *fakeAttendanceRepo) UpdateStatus(context.Context, string, models.AttendanceStatus, time.Time) error {
	return nil
}

func (f *fakeAttendanceRepo) List(_ context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	f.lastFilter = filter
	return f.records, f.total, nil
}

func (f *fakeAttendanceRepo) AllForStudent(context.Context, string) ([]models.AttendanceRecord, error) {
	return f.records, nil
}

func (f *fakeAttendanceRepo) DayReport(context.Context, time.Time) ([]models.ClassDayReportRow, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) Delete(context.Context, string) error {
	return nil
}

func newAttendanceHandler(repo *fakeAttendanceRepo) *AttendanceHandler {
	svc := service.NewAttendanceService(repo, nil, nil, nil)
	return NewAttendanceHandler(svc)
}

func TestAttendanceHandlerMarkRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAttendanceHandler(&fakeAttendanceRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance", bytes.NewReader([]byte(`{}`)))

	handler.Mark(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAttendanceHandlerMarkSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeAttendanceRepo{}
	handler := newAttendanceHandler(repo)

	// The documented wire shape carries a date-only string.
	payload := []byte(`{"student_id":"student-1","date":"2026-02-10","period":3,"subject":"Physics","status":"present"}`)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", ProfileID: "faculty-1", Role: models.RoleFaculty})

	handler.Mark(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, repo.inserted)
	assert.Equal(t, "faculty-1", repo.inserted.FacultyID)
	assert.Equal(t, "student-1", repo.inserted.StudentID)
	assert.Equal(t, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), repo.inserted.Date)
}

func TestAttendanceHandlerMarkByAdminRecordsAccountID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeAttendanceRepo{}
	handler := newAttendanceHandler(repo)

	payload := []byte(`{"student_id":"student-1","date":"2026-02-10","period":1,"subject":"Physics","status":"present"}`)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	// Admin accounts carry no profile id.
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.Mark(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, repo.inserted)
	assert.Equal(t, "admin-1", repo.inserted.FacultyID)
}

func TestAttendanceHandlerDayReportInvalidDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAttendanceHandler(&fakeAttendanceRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/report?date=99-99-9999", nil)

	handler.DayReport(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceHandlerListPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeAttendanceRepo{
		records: []models.AttendanceRecord{{ID: "rec-1", StudentID: "student-1", Subject: "Physics"}},
		total:   41,
	}
	handler := newAttendanceHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance?page=2&page_size=20", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data       []models.AttendanceRecord `json:"data"`
		Pagination *models.Pagination        `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 2, envelope.Pagination.Page)
	assert.Equal(t, 41, envelope.Pagination.TotalCount)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "rec-1", envelope.Data[0].ID)
}

func TestAttendanceHandlerListForStudentScopesFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeAttendanceRepo{
		records: []models.AttendanceRecord{{ID: "rec-1", StudentID: "student-1"}},
		total:   1,
	}
	handler := newAttendanceHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	// The path parameter wins over any student_id query value.
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/students/student-1?student_id=student-2", nil)
	c.Params = gin.Params{{Key: "id", Value: "student-1"}}

	handler.ListForStudent(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "student-1", repo.lastFilter.StudentID)
}
