package domain

import (
	"context"
)

// QuestionRepository defines the interface for question-related operations
type QuestionRepository interface {
	// SaveQuestion stores a question and its choices atomically and returns
	// it with all ids populated
	SaveQuestion(ctx context.Context, question Question) (Question, error)

	// CountQuestions counts the questions listed under a category
	CountQuestions(ctx context.Context, category string) (int64, error)

	// GetQuestions retrieves one page of questions of a category
	GetQuestions(ctx context.Context, category string, page, size int) ([]Question, error)
}

// Question represents a multiple choice question
type Question struct {
	ID       int64    `json:"id,omitempty"` // Zero until persisted
	Text     string   `json:"text"`
	Category string   `json:"category"` // Category title, not a foreign key
	Choices  []Choice `json:"choices"`
}

// Choice is one answer option of a question
type Choice struct {
	ID      int64  `json:"id,omitempty"`
	Title   string `json:"title"`
	Correct bool   `json:"correct"`
}

// CorrectChoices returns how many choices are marked correct
func (q Question) CorrectChoices() int {
	n := 0
	for _, c := range q.Choices {
		if c.Correct {
			n++
		}
	}
	return n
}
