package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"questionbank/internal/handlers"
	"questionbank/internal/models"
	"questionbank/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListSubjects(t *testing.T) {
	ds := seeded(t)
	h := handlers.NewSubjectHandler(&fakeSubjects{listFn: func() ([]models.Subject, error) {
		return ds.Subjects, nil
	}}, nil)

	rr := httptest.NewRecorder()
	h.ListSubjectsHandler(rr, httptest.NewRequest(http.MethodGet, "/api/subjects", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Success bool             `json:"success"`
		Count   int              `json:"count"`
		Data    []models.Subject `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "Mathematics", body.Data[0].Name)
	assert.NotContains(t, rr.Body.String(), "pagination")
}

func TestListSubjects_StoreFailure(t *testing.T) {
	h := handlers.NewSubjectHandler(&fakeSubjects{listFn: func() ([]models.Subject, error) {
		return nil, errors.New("")
	}}, nil)

	rr := httptest.NewRecorder()
	h.ListSubjectsHandler(rr, httptest.NewRequest(http.MethodGet, "/api/subjects", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Server Error"}`, rr.Body.String())
}

func TestCreateSubject(t *testing.T) {
	admin := models.Identity{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	tests := []struct {
		name     string
		body     string
		createFn func(*models.Subject) (*models.Subject, error)
		status   int
		want     string
	}{
		{
			name: "created",
			body: `{"name":"Physics","description":"Mechanics"}`,
			createFn: func(s *models.Subject) (*models.Subject, error) {
				s.ID = primitive.NewObjectID()
				return s, nil
			},
			status: http.StatusCreated,
			want:   `"name":"Physics"`,
		},
		{
			name:   "missing name",
			body:   `{"description":"x"}`,
			status: http.StatusBadRequest,
			want:   "Please provide name",
		},
		{
			name:     "duplicate",
			body:     `{"name":"Mathematics"}`,
			createFn: func(*models.Subject) (*models.Subject, error) { return nil, repositories.ErrDuplicate },
			status:   http.StatusBadRequest,
			want:     "Duplicate field value entered",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := handlers.NewSubjectHandler(&fakeSubjects{createFn: tc.createFn}, nil)
			rr := httptest.NewRecorder()
			as(admin, h.CreateSubjectHandler)(rr, httptest.NewRequest(http.MethodPost, "/api/subjects", bytes.NewBufferString(tc.body)))

			assert.Equal(t, tc.status, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.want)
		})
	}
}
