package routers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"questionbank/internal/handlers"
	"questionbank/internal/middleware"
	"questionbank/internal/models"
	"questionbank/internal/query"
	"questionbank/internal/repositories"
	"questionbank/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "routes-secret"

type stubUsers map[primitive.ObjectID]*models.User

func (s stubUsers) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func newRouter(users stubUsers) *chi.Mux {
	r := chi.NewRouter()
	auth := middleware.NewAuthenticator(users, testSecret, nil)
	QuestionRoutes(r, handlers.NewQuestionHandler(nil, nil, nil, query.RewriteText, nil), auth)
	SubjectRoutes(r, handlers.NewSubjectHandler(nil, nil), auth)
	AuthRoutes(r, handlers.NewAuthHandler(nil, nil, handlers.AuthConfig{}, nil), auth)
	HealthRoutes(r, handlers.NewHealthHandler(nil))
	return r
}

func TestRoutesRegistered(t *testing.T) {
	r := newRouter(stubUsers{})

	expected := map[string]struct{}{
		"GET /api/questions/":              {},
		"POST /api/questions/":             {},
		"GET /api/questions/{id}":          {},
		"DELETE /api/questions/{id}":       {},
		"POST /api/questions/{id}/answers": {},
		"GET /api/subjects/":               {},
		"POST /api/subjects/":              {},
		"POST /api/auth/register":          {},
		"POST /api/auth/login":             {},
		"POST /api/auth/forgotpassword":    {},
		"GET /api/auth/me":                 {},
		"GET /api/auth/logout":             {},
		"GET /healthz":                     {},
		"GET /readyz":                      {},
		"GET /metrics":                     {},
	}

	if err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		delete(expected, method+" "+route)
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	if len(expected) != 0 {
		t.Fatalf("missing routes: %v", expected)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newRouter(stubUsers{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/questions"},
		{http.MethodGet, "/api/questions/" + primitive.NewObjectID().Hex()},
		{http.MethodPost, "/api/questions/" + primitive.NewObjectID().Hex() + "/answers"},
		{http.MethodPost, "/api/subjects"},
		{http.MethodGet, "/api/auth/me"},
	} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.path)
	}
}

func TestAdminRoutesRejectStudents(t *testing.T) {
	student := &models.User{ID: primitive.NewObjectID(), Role: models.RoleStudent}
	r := newRouter(stubUsers{student.ID: student})
	token, err := utils.SignToken(testSecret, student.ID.Hex(), string(student.Role), time.Hour)
	assert.NoError(t, err)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/questions"},
		{http.MethodDelete, "/api/questions/" + primitive.NewObjectID().Hex()},
		{http.MethodPost, "/api/subjects"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(`{}`))
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code, "%s %s", tc.method, tc.path)
	}
}
