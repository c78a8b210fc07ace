package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudentAnswer is an append-only record of one submission.
type StudentAnswer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	StudentID  primitive.ObjectID `bson:"studentId" json:"studentId"`
	QuestionID primitive.ObjectID `bson:"questionId" json:"questionId"`
	Answer     string             `bson:"answer" json:"answer"`
	IsCorrect  bool               `bson:"isCorrect" json:"isCorrect"`
	Feedback   string             `bson:"feedback,omitempty" json:"feedback,omitempty"`
	Score      int                `bson:"score" json:"score"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
