package handlers

import (
	"strings"

	"questionbank/internal/models"
)

const (
	feedbackCorrect = "Correct answer!"
	feedbackReview  = "Submitted for review"
)

// Grading is the outcome of checking one answer.
type Grading struct {
	Correct  bool
	Score    int
	Feedback string
}

// Grade checks answer against q. Objective types compare case-insensitively
// after trimming; open text is recorded for manual review.
func Grade(q *models.Question, answer string) Grading {
	if !q.Type.Objective() {
		return Grading{Feedback: feedbackReview}
	}
	if strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswer)) {
		return Grading{Correct: true, Score: q.Points, Feedback: feedbackCorrect}
	}
	return Grading{Feedback: "Incorrect, the correct answer is " + q.CorrectAnswer}
}
