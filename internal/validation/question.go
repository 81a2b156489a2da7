package validation

import (
	"strconv"
	"strings"

	"github.com/zizouhuweidi/quizzical/internal/domain"
)

const (
	maxCategoryLength = 100
	maxChoices        = 10
)

// NormalizeText trims a title and collapses internal whitespace
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizeChoice folds a choice title for duplicate detection. Only case and
// whitespace are folded; punctuation is significant ("-1" and "1" differ).
func normalizeChoice(title string) string {
	return strings.ToLower(NormalizeText(title))
}

// Normalize returns a copy of question with whitespace normalized in every text field
func Normalize(question domain.Question) domain.Question {
	out := domain.Question{
		ID:       question.ID,
		Text:     NormalizeText(question.Text),
		Category: NormalizeText(question.Category),
		Choices:  make([]domain.Choice, len(question.Choices)),
	}
	for i, c := range question.Choices {
		out.Choices[i] = domain.Choice{ID: c.ID, Title: NormalizeText(c.Title), Correct: c.Correct}
	}
	return out
}

// Question checks a question before it is handed to the store
func Question(question domain.Question) error {
	if NormalizeText(question.Text) == "" {
		return domain.NewValidationError("text", "Question text is required")
	}

	if msg := checkCategoryTitle(question.Category); msg != "" {
		return domain.NewValidationError("category", msg)
	}

	if len(question.Choices) == 0 {
		return domain.NewValidationError("choices", "At least one choice is required")
	}
	if len(question.Choices) > maxChoices {
		return domain.NewValidationError("choices", "No more than "+strconv.Itoa(maxChoices)+" choices allowed")
	}

	seen := make(map[string]int, len(question.Choices))
	for i, c := range question.Choices {
		field := "choices/" + strconv.Itoa(i) + "/title"
		key := normalizeChoice(c.Title)
		if key == "" {
			return domain.NewValidationError(field, "Choice title is required")
		}
		if first, ok := seen[key]; ok {
			return domain.NewValidationError(field, "Choice duplicates choice "+strconv.Itoa(first))
		}
		seen[key] = i
	}

	if question.CorrectChoices() > 1 {
		return domain.NewValidationError("choices", "Only one correct choice allowed")
	}

	return nil
}

// CategoryTitle checks a category title
func CategoryTitle(title string) error {
	if msg := checkCategoryTitle(title); msg != "" {
		return domain.NewValidationError("title", msg)
	}
	return nil
}

func checkCategoryTitle(title string) string {
	title = NormalizeText(title)
	if title == "" {
		return "Category title is required"
	}
	if len(title) > maxCategoryLength {
		return "Category title cannot be longer than " + strconv.Itoa(maxCategoryLength) + " characters"
	}
	return ""
}
