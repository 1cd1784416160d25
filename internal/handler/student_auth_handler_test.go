package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
	"github.com/Emmanuel10701/katwanyaa-api/internal/service"
)

type fakeStudentRepo struct {
	student models.Student
}

func (f *fakeStudentRepo) FindActiveByAdmissionNumber(ctx context.Context, admissionNumber string) (*models.Student, error) {
	if f.student.AdmissionNumber != admissionNumber {
		return nil, sql.ErrNoRows
	}
	copied := f.student
	return &copied, nil
}

func (f *fakeStudentRepo) FindActiveByID(ctx context.Context, id string) (*models.Student, error) {
	if f.student.ID != id {
		return nil, sql.ErrNoRows
	}
	copied := f.student
	return &copied, nil
}

type fakeSessionRepo struct {
	deleted []string
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *models.StudentSession) error {
	return nil
}

func (f *fakeSessionRepo) FindByToken(ctx context.Context, token string) (*models.StudentSession, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return nil
}

func (f *fakeSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func newPortalRouter(t *testing.T) (*gin.Engine, *service.StudentAuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewStudentAuthService(
		&fakeStudentRepo{student: models.Student{
			ID:              "st-1",
			AdmissionNumber: "ADM001",
			FirstName:       "Mary",
			LastName:        "Kamau",
			Form:            "Form 3",
			Stream:          "East",
			Status:          models.StudentStatusActive,
		}},
		&fakeSessionRepo{},
		nil, nil, nil,
		service.StudentAuthConfig{Secret: "handler-secret", SessionTTL: 15 * time.Minute},
	)
	h := NewStudentAuthHandler(svc, false, 900)

	r := gin.New()
	r.POST("/students/login", h.Login)
	r.GET("/students/verify", h.Verify)
	r.DELETE("/students/logout", h.Logout)
	return r, svc
}

func doLogin(t *testing.T, r *gin.Engine) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(gin.H{"fullName": "Mary Kamau", "admissionNumber": "ADM001"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/students/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == models.StudentSessionCookie {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in response", models.StudentSessionCookie)
	return nil
}

func TestLoginSetsSessionCookie(t *testing.T) {
	r, _ := newPortalRouter(t)

	rec := doLogin(t, r)
	require.Equal(t, http.StatusOK, rec.Code)

	var res models.StudentLoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.Token)

	cookie := sessionCookie(t, rec)
	assert.Equal(t, res.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, 900, cookie.MaxAge)
	assert.Equal(t, "/", cookie.Path)
}

func TestLoginUnknownStudent(t *testing.T) {
	r, _ := newPortalRouter(t)

	body, _ := json.Marshal(gin.H{"fullName": "Mary Kamau", "admissionNumber": "ADM999"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/students/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var res map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, false, res["success"])
	assert.Equal(t, true, res["requiresContact"])
	assert.NotEmpty(t, res["error"])
}

func TestVerifyPrefersCookieOverHeader(t *testing.T) {
	r, _ := newPortalRouter(t)

	login := doLogin(t, r)
	cookie := sessionCookie(t, login)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/students/verify", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	req.Header.Set("Authorization", "Bearer not-a-valid-token")
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "the cookie wins over a bad bearer header")

	var res models.StudentVerifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Authenticated)
	require.NotNil(t, res.Student)
	assert.Equal(t, "ADM001", res.Student.AdmissionNumber)
}

func TestVerifyBearerFallback(t *testing.T) {
	r, _ := newPortalRouter(t)

	login := doLogin(t, r)
	var loginRes models.StudentLoginResponse
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &loginRes))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/students/verify", nil)
	req.Header.Set("Authorization", "Bearer "+loginRes.Token)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVerifyWithoutToken(t *testing.T) {
	r, _ := newPortalRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/students/verify", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var res models.StudentVerifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Authenticated)
	assert.False(t, res.RequiresReauth)
	assert.NotEmpty(t, res.Error)
}

func TestLogoutClearsCookie(t *testing.T) {
	r, _ := newPortalRouter(t)

	login := doLogin(t, r)
	cookie := sessionCookie(t, login)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/students/logout", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cleared := sessionCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestLogoutWithoutSessionStillSucceeds(t *testing.T) {
	r, _ := newPortalRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/students/logout", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
