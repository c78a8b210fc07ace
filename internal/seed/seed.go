// Package seed loads the demo data set: two users, two subjects, six
// questions and two recorded answers.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"questionbank/internal/models"
	"questionbank/internal/repositories/mongo"
	"questionbank/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/yaml.v3"
)

//go:embed fixture.yaml
var defaultFixture []byte

type Fixture struct {
	Users     []userFixture     `yaml:"users"`
	Subjects  []subjectFixture  `yaml:"subjects"`
	Questions []questionFixture `yaml:"questions"`
	Answers   []answerFixture   `yaml:"answers"`
}

type userFixture struct {
	Key      string      `yaml:"key"`
	Email    string      `yaml:"email"`
	Password string      `yaml:"password"`
	Role     models.Role `yaml:"role"`
}

type subjectFixture struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type questionFixture struct {
	Key           string              `yaml:"key"`
	Subject       string              `yaml:"subject"`
	Chapter       string              `yaml:"chapter"`
	Level         models.Level        `yaml:"level"`
	Type          models.QuestionType `yaml:"type"`
	QuestionText  string              `yaml:"questionText"`
	Options       []string            `yaml:"options"`
	CorrectAnswer string              `yaml:"correctAnswer"`
	ModelAnswer   string              `yaml:"modelAnswer"`
	Points        int                 `yaml:"points"`
}

type answerFixture struct {
	Student   string `yaml:"student"`
	Question  string `yaml:"question"`
	Answer    string `yaml:"answer"`
	IsCorrect bool   `yaml:"isCorrect"`
	Feedback  string `yaml:"feedback"`
	Score     int    `yaml:"score"`
}

// Dataset is a fixture resolved into documents ready for insertion.
type Dataset struct {
	Users     []models.User
	Subjects  []models.Subject
	Questions []models.Question
	Answers   []models.StudentAnswer
}

// LoadFixture parses a YAML fixture. A nil input loads the embedded default.
func LoadFixture(raw []byte) (*Fixture, error) {
	if raw == nil {
		raw = defaultFixture
	}
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// Build assigns fresh ids, hashes passwords and resolves the symbolic
// references between fixture entries.
func Build(f *Fixture, now time.Time) (*Dataset, error) {
	ds := &Dataset{}
	users := map[string]primitive.ObjectID{}
	subjects := map[string]primitive.ObjectID{}
	questions := map[string]primitive.ObjectID{}

	var admin primitive.ObjectID
	for _, u := range f.Users {
		hash, err := utils.HashPassword(u.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", u.Key, err)
		}
		role := u.Role
		if role == "" {
			role = models.RoleStudent
		}
		user := models.User{
			ID:           primitive.NewObjectID(),
			Email:        u.Email,
			PasswordHash: hash,
			Role:         role,
			CreatedAt:    now,
		}
		if role == models.RoleAdmin && admin.IsZero() {
			admin = user.ID
		}
		users[u.Key] = user.ID
		ds.Users = append(ds.Users, user)
	}

	for _, s := range f.Subjects {
		subject := models.Subject{ID: primitive.NewObjectID(), Name: s.Name, Description: s.Description, CreatedAt: now}
		subjects[s.Key] = subject.ID
		ds.Subjects = append(ds.Subjects, subject)
	}

	for i, q := range f.Questions {
		subjectID, ok := subjects[q.Subject]
		if !ok {
			return nil, fmt.Errorf("question %s: unknown subject %q", q.Key, q.Subject)
		}
		question := models.Question{
			ID:            primitive.NewObjectID(),
			SubjectID:     subjectID,
			Chapter:       q.Chapter,
			Level:         q.Level,
			Type:          q.Type,
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			ModelAnswer:   q.ModelAnswer,
			Points:        q.Points,
			User:          admin,
			// keep fixture order under the default newest-first sort
			CreatedAt: now.Add(-time.Duration(i) * time.Second),
		}
		questions[q.Key] = question.ID
		ds.Questions = append(ds.Questions, question)
	}

	for _, a := range f.Answers {
		studentID, ok := users[a.Student]
		if !ok {
			return nil, fmt.Errorf("answer: unknown student %q", a.Student)
		}
		questionID, ok := questions[a.Question]
		if !ok {
			return nil, fmt.Errorf("answer: unknown question %q", a.Question)
		}
		ds.Answers = append(ds.Answers, models.StudentAnswer{
			ID:         primitive.NewObjectID(),
			StudentID:  studentID,
			QuestionID: questionID,
			Answer:     a.Answer,
			IsCorrect:  a.IsCorrect,
			Feedback:   a.Feedback,
			Score:      a.Score,
			CreatedAt:  now,
		})
	}
	return ds, nil
}

// Apply wipes the four collections and inserts the dataset.
func Apply(ctx context.Context, db *mongodrv.Database, ds *Dataset) error {
	names := []string{mongo.UsersCollection, mongo.SubjectsCollection, mongo.QuestionsCollection, mongo.AnswersCollection}
	for _, name := range names {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}

	docs := map[string][]any{
		mongo.UsersCollection:     toDocs(ds.Users),
		mongo.SubjectsCollection:  toDocs(ds.Subjects),
		mongo.QuestionsCollection: toDocs(ds.Questions),
		mongo.AnswersCollection:   toDocs(ds.Answers),
	}
	for _, name := range names {
		if len(docs[name]) == 0 {
			continue
		}
		if _, err := db.Collection(name).InsertMany(ctx, docs[name]); err != nil {
			return fmt.Errorf("insert %s: %w", name, err)
		}
	}
	return nil
}

func toDocs[T any](items []T) []any {
	out := make([]any, len(items))
	for i := range items {
		out[i] = items[i]
	}
	return out
}
