package handlers

import (
	"context"

	"questionbank/internal/models"
	"questionbank/internal/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionRepository captures the question persistence operations required by handlers.
type QuestionRepository interface {
	List(ctx context.Context, filter bson.M, opts repositories.ListOptions) ([]models.Question, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error)
	Create(ctx context.Context, q *models.Question) (*models.Question, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type SubjectRepository interface {
	List(ctx context.Context) ([]models.Subject, error)
	Create(ctx context.Context, s *models.Subject) (*models.Subject, error)
}

// UserRepository captures the user persistence operations required by handlers.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
}

type AnswerRepository interface {
	Create(ctx context.Context, a *models.StudentAnswer) (*models.StudentAnswer, error)
	AnsweredQuestionIDs(ctx context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// AnsweredCache fronts AnswerRepository.AnsweredQuestionIDs.
type AnsweredCache interface {
	Get(ctx context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, bool, error)
	Set(ctx context.Context, studentID primitive.ObjectID, ids []primitive.ObjectID) error
	Invalidate(ctx context.Context, studentID primitive.ObjectID) error
}
