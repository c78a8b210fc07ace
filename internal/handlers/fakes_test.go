package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"questionbank/internal/models"
	"questionbank/internal/repositories"
	"questionbank/internal/seed"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errNotImplemented = errors.New("not implemented")

// memQuestions filters the seeded questions in memory. It understands the
// literal, $in, $nin, comparison and $and shapes the translator produces.
type memQuestions struct {
	items    []models.Question
	lastOpts repositories.ListOptions
	lastFilt bson.M
	createFn func(*models.Question) (*models.Question, error)
}

func (m *memQuestions) List(_ context.Context, filter bson.M, opts repositories.ListOptions) ([]models.Question, error) {
	m.lastFilt, m.lastOpts = filter, opts
	matched := m.match(filter)
	start := int(opts.Skip)
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if opts.Limit > 0 && start+int(opts.Limit) < end {
		end = start + int(opts.Limit)
	}
	return matched[start:end], nil
}

func (m *memQuestions) Count(_ context.Context, filter bson.M) (int64, error) {
	return int64(len(m.match(filter))), nil
}

func (m *memQuestions) GetByID(_ context.Context, id primitive.ObjectID) (*models.Question, error) {
	for _, q := range m.items {
		if q.ID == id {
			cp := q
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memQuestions) Create(_ context.Context, q *models.Question) (*models.Question, error) {
	if m.createFn != nil {
		return m.createFn(q)
	}
	return nil, errNotImplemented
}

func (m *memQuestions) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, q := range m.items {
		if q.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (m *memQuestions) match(filter bson.M) []models.Question {
	out := []models.Question{}
	for _, q := range m.items {
		if matches(q, filter) {
			out = append(out, q)
		}
	}
	return out
}

func matches(q models.Question, filter bson.M) bool {
	for key, cond := range filter {
		if key == "$and" {
			for _, clause := range cond.(bson.A) {
				if !matches(q, clause.(bson.M)) {
					return false
				}
			}
			continue
		}
		val := fieldValue(q, key)
		ops, isOps := cond.(bson.M)
		if !isOps {
			if val != cond {
				return false
			}
			continue
		}
		for op, operand := range ops {
			if !applyOp(val, op, operand) {
				return false
			}
		}
	}
	return true
}

func applyOp(val any, op string, operand any) bool {
	switch op {
	case "$in":
		return contains(operand, val)
	case "$nin":
		return !contains(operand, val)
	}
	n, ok1 := val.(int64)
	bound, ok2 := operand.(int64)
	if !ok1 || !ok2 {
		return false
	}
	switch op {
	case "$gt":
		return n > bound
	case "$gte":
		return n >= bound
	case "$lt":
		return n < bound
	case "$lte":
		return n <= bound
	}
	return false
}

func contains(list any, val any) bool {
	switch l := list.(type) {
	case bson.A:
		for _, v := range l {
			if v == val {
				return true
			}
		}
	case []primitive.ObjectID:
		for _, v := range l {
			if v == val {
				return true
			}
		}
	}
	return false
}

func fieldValue(q models.Question, key string) any {
	switch key {
	case "_id":
		return q.ID
	case "subjectId":
		return q.SubjectID
	case "chapter":
		return q.Chapter
	case "level":
		return string(q.Level)
	case "type":
		return string(q.Type)
	case "points":
		return int64(q.Points)
	case "user":
		return q.User
	}
	return nil
}

type memAnswers struct {
	mu       sync.Mutex
	items    []models.StudentAnswer
	lookups  int
	createFn func(*models.StudentAnswer) (*models.StudentAnswer, error)
}

func (m *memAnswers) Create(_ context.Context, a *models.StudentAnswer) (*models.StudentAnswer, error) {
	if m.createFn != nil {
		return m.createFn(a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = primitive.NewObjectID()
	m.items = append(m.items, *a)
	return a, nil
}

func (m *memAnswers) AnsweredQuestionIDs(_ context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, a := range m.items {
		if a.StudentID == studentID && !seen[a.QuestionID] {
			seen[a.QuestionID] = true
			ids = append(ids, a.QuestionID)
		}
	}
	return ids, nil
}

type memCache struct {
	entries     map[primitive.ObjectID][]primitive.ObjectID
	invalidated []primitive.ObjectID
	getErr      error
}

func newMemCache() *memCache {
	return &memCache{entries: map[primitive.ObjectID][]primitive.ObjectID{}}
}

func (c *memCache) Get(_ context.Context, id primitive.ObjectID) ([]primitive.ObjectID, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	ids, ok := c.entries[id]
	return ids, ok, nil
}

func (c *memCache) Set(_ context.Context, id primitive.ObjectID, ids []primitive.ObjectID) error {
	c.entries[id] = ids
	return nil
}

func (c *memCache) Invalidate(_ context.Context, id primitive.ObjectID) error {
	delete(c.entries, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

type mockUserRepo struct {
	createUserFn     func(*models.User) error
	getUserByEmailFn func(string) (*models.User, error)
	getUserByIDFn    func(primitive.ObjectID) (*models.User, error)
	updatePasswordFn func(primitive.ObjectID, string) error
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) error {
	if m.createUserFn == nil {
		return nil
	}
	return m.createUserFn(user)
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if m.getUserByEmailFn == nil {
		panic("unexpected call to GetUserByEmail")
	}
	return m.getUserByEmailFn(email)
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if m.getUserByIDFn == nil {
		panic("unexpected call to GetUserByID")
	}
	return m.getUserByIDFn(id)
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	if m.updatePasswordFn == nil {
		panic("unexpected call to UpdatePassword")
	}
	return m.updatePasswordFn(id, hash)
}

type fakeSubjects struct {
	listFn   func() ([]models.Subject, error)
	createFn func(*models.Subject) (*models.Subject, error)
}

func (f *fakeSubjects) List(context.Context) ([]models.Subject, error) {
	if f.listFn != nil {
		return f.listFn()
	}
	return nil, errNotImplemented
}

func (f *fakeSubjects) Create(_ context.Context, s *models.Subject) (*models.Subject, error) {
	if f.createFn != nil {
		return f.createFn(s)
	}
	return nil, errNotImplemented
}

type fakeMailer struct {
	to, subject, body string
	err               error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.to, f.subject, f.body = to, subject, body
	return f.err
}

// seeded builds the demo data set once per test.
func seeded(t *testing.T) *seed.Dataset {
	t.Helper()
	f, err := seed.LoadFixture(nil)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	ds, err := seed.Build(f, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	return ds
}

func identity(u models.User) models.Identity {
	return models.Identity{ID: u.ID, Role: u.Role}
}

// as binds a fixed caller to an identity handler, standing in for Protect.
func as(id models.Identity, h func(http.ResponseWriter, *http.Request, models.Identity)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h(w, r, id) }
}
