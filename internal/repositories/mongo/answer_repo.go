package mongo

import (
	"context"
	"time"

	"questionbank/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AnswerRepo wraps the student answers collection. Answers are only ever
// appended.
type AnswerRepo struct{ col *mongo.Collection }

func NewAnswerRepo(db *mongo.Database) *AnswerRepo {
	return &AnswerRepo{col: db.Collection(AnswersCollection)}
}

func (r *AnswerRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "questionId", Value: 1}},
	})
	return err
}

func (r *AnswerRepo) Create(ctx context.Context, a *models.StudentAnswer) (*models.StudentAnswer, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// AnsweredQuestionIDs returns the distinct question ids the student has
// answered at least once.
func (r *AnswerRepo) AnsweredQuestionIDs(ctx context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	values, err := r.col.Distinct(ctx, "questionId", bson.M{"studentId": studentID})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
