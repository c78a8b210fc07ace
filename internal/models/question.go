package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Question struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	SubjectID     primitive.ObjectID `bson:"subjectId" json:"subjectId"`
	Chapter       string             `bson:"chapter" json:"chapter,omitempty"`
	Level         Level              `bson:"level" json:"level,omitempty"`
	Type          QuestionType       `bson:"type" json:"type,omitempty"`
	QuestionText  string             `bson:"questionText" json:"questionText,omitempty"`
	Options       []string           `bson:"options,omitempty" json:"options,omitempty"` // mcq only
	CorrectAnswer string             `bson:"correctAnswer,omitempty" json:"correctAnswer,omitempty"`
	ModelAnswer   string             `bson:"modelAnswer,omitempty" json:"modelAnswer,omitempty"` // open_text only
	Points        int                `bson:"points" json:"points"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// Redact strips the answer-bearing fields. Every question handed to a
// non-admin goes through here.
func (q *Question) Redact() {
	q.CorrectAnswer = ""
	q.ModelAnswer = ""
}

type Level string

const (
	Easy   Level = "easy"
	Medium Level = "medium"
	Hard   Level = "hard"
)

type QuestionType string

const (
	TypeTrueFalse QuestionType = "true_false"
	TypeMCQ       QuestionType = "mcq"
	TypeComplete  QuestionType = "complete" // fill in the blank
	TypeOpenText  QuestionType = "open_text"
)

// Objective reports whether answers to this type can be graded automatically.
func (t QuestionType) Objective() bool {
	return t == TypeTrueFalse || t == TypeMCQ || t == TypeComplete
}
