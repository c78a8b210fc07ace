package mongo

import (
	"context"
	"errors"
	"time"

	"questionbank/internal/models"
	"questionbank/internal/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuestionRepo wraps the questions collection
type QuestionRepo struct{ col *mongo.Collection }

func NewQuestionRepo(db *mongo.Database) *QuestionRepo {
	return &QuestionRepo{col: db.Collection(QuestionsCollection)}
}

// EnsureIndexes backs the common subject/level listing filter.
func (r *QuestionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "subjectId", Value: 1}, {Key: "level", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}

// List returns the questions matching filter, shaped by opts
func (r *QuestionRepo) List(ctx context.Context, filter bson.M, opts repositories.ListOptions) ([]models.Question, error) {
	findOpts := options.Find().SetSkip(opts.Skip).SetLimit(opts.Limit)
	if len(opts.Projection) > 0 {
		findOpts.SetProjection(opts.Projection)
	}
	if len(opts.Sort) > 0 {
		findOpts.SetSort(opts.Sort)
	}

	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Question{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count counts the questions matching filter
func (r *QuestionRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.col.CountDocuments(ctx, filter)
}

func (r *QuestionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error) {
	var q models.Question
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// Create inserts a new question
func (r *QuestionRepo) Create(ctx context.Context, q *models.Question) (*models.Question, error) {
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Delete removes a question, reporting ErrNotFound when nothing matched
func (r *QuestionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
