package service

import (
	"context"
	"log/slog"

	"github.com/zizouhuweidi/quizzical/internal/database"
	"github.com/zizouhuweidi/quizzical/internal/domain"
	"github.com/zizouhuweidi/quizzical/internal/events"
	"github.com/zizouhuweidi/quizzical/internal/pagination"
	"github.com/zizouhuweidi/quizzical/internal/repository/postgres"
	"github.com/zizouhuweidi/quizzical/internal/validation"
)

// Sessions hands one connection to fn for the duration of a logical operation
type Sessions interface {
	WithSession(ctx context.Context, fn func(db database.DBTX) error) error
}

// Publisher sends content events to feed subscribers
type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Options tunes QuizService behavior
type Options struct {
	// ActivateCategoryOnCreate re-activates the category of a new question.
	// When false a missing category is created and an existing one is left as is.
	ActivateCategoryOnCreate bool
}

// CreateQuestionRequest represents the data needed to add a question
type CreateQuestionRequest struct {
	Text     string          `json:"text" validate:"required"`
	Category string          `json:"category" validate:"required,max=100"`
	Choices  []ChoiceRequest `json:"choices" validate:"required,min=1,max=10,dive"`
}

// ChoiceRequest is one answer option of a new question
type ChoiceRequest struct {
	Title   string `json:"title" validate:"required"`
	Correct bool   `json:"correct"`
}

// CreateCategoryRequest represents the data needed to add a category
type CreateCategoryRequest struct {
	Title  string `json:"title" validate:"required,max=100"`
	Active *bool  `json:"active"`
}

// QuizService runs quiz content operations, one connection per operation
type QuizService struct {
	sessions  Sessions
	publisher Publisher
	opts      Options
}

// NewQuizService creates a new quiz service. publisher may be nil, in which
// case no content events are sent.
func NewQuizService(sessions Sessions, publisher Publisher, opts Options) *QuizService {
	return &QuizService{
		sessions:  sessions,
		publisher: publisher,
		opts:      opts,
	}
}

// CreateQuestion validates and stores a question, creating its category when needed
func (s *QuizService) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (domain.Question, error) {
	question := domain.Question{
		Text:     req.Text,
		Category: req.Category,
		Choices:  make([]domain.Choice, len(req.Choices)),
	}
	for i, c := range req.Choices {
		question.Choices[i] = domain.Choice{Title: c.Title, Correct: c.Correct}
	}

	if err := validation.Question(question); err != nil {
		return domain.Question{}, err
	}
	question = validation.Normalize(question)

	var (
		saved  domain.Question
		status domain.SaveStatus
	)
	err := s.sessions.WithSession(ctx, func(db database.DBTX) error {
		categories := postgres.NewCategoryRepository(db)
		questions := postgres.NewQuestionRepository(db)

		var err error
		if s.opts.ActivateCategoryOnCreate {
			active := true
			status, err = categories.UpsertCategoryAndSetActive(ctx, question.Category, &active)
		} else {
			status, err = categories.UpsertCategory(ctx, question.Category)
		}
		if err != nil {
			return err
		}

		saved, err = questions.SaveQuestion(ctx, question)
		return err
	})
	if err != nil {
		return domain.Question{}, err
	}

	if status == domain.SaveCreated {
		s.publish(ctx, events.CategoryCreated, saved.Category, domain.Category{Title: saved.Category, Active: true})
	}
	s.publish(ctx, events.QuestionCreated, saved.Category, saved)

	return saved, nil
}

// CreateCategory adds a category. With Active set, the flag of an existing
// category is overwritten.
func (s *QuizService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (domain.SaveStatus, error) {
	if err := validation.CategoryTitle(req.Title); err != nil {
		return 0, err
	}
	title := validation.NormalizeText(req.Title)

	var status domain.SaveStatus
	err := s.sessions.WithSession(ctx, func(db database.DBTX) error {
		var err error
		status, err = postgres.NewCategoryRepository(db).UpsertCategoryAndSetActive(ctx, title, req.Active)
		return err
	})
	if err != nil {
		return 0, err
	}

	active := req.Active == nil || *req.Active
	switch {
	case status == domain.SaveCreated:
		s.publish(ctx, events.CategoryCreated, title, domain.Category{Title: title, Active: active})
	case req.Active != nil:
		s.publish(ctx, events.CategoryActiveChanged, title, domain.Category{Title: title, Active: active})
	}

	return status, nil
}

// ListCategories returns the active categories
func (s *QuizService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := s.sessions.WithSession(ctx, func(db database.DBTX) error {
		var err error
		categories, err = postgres.NewCategoryRepository(db).ListCategories(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// SetCategoryActive turns a category on or off and returns the flag now in effect
func (s *QuizService) SetCategoryActive(ctx context.Context, title string, active bool) (bool, error) {
	if err := validation.CategoryTitle(title); err != nil {
		return false, err
	}
	title = validation.NormalizeText(title)

	var current bool
	err := s.sessions.WithSession(ctx, func(db database.DBTX) error {
		var err error
		current, err = postgres.NewCategoryRepository(db).SetCategoryActive(ctx, title, active)
		return err
	})
	if err != nil {
		return false, err
	}

	s.publish(ctx, events.CategoryActiveChanged, title, domain.Category{Title: title, Active: current})
	return current, nil
}

// ListQuestions returns one page of questions of an active category. Page 0
// reads and reports the first page.
func (s *QuizService) ListQuestions(ctx context.Context, category string, page, size int) (pagination.Page[domain.Question], error) {
	category = validation.NormalizeText(category)
	if category == "" {
		return pagination.Page[domain.Question]{}, domain.NewValidationError("category", "Category is required")
	}

	var (
		total     int64
		questions []domain.Question
	)
	err := s.sessions.WithSession(ctx, func(db database.DBTX) error {
		repo := postgres.NewQuestionRepository(db)

		var err error
		if total, err = repo.CountQuestions(ctx, category); err != nil {
			return err
		}
		questions, err = repo.GetQuestions(ctx, category, page, size)
		return err
	})
	if err != nil {
		return pagination.Page[domain.Question]{}, err
	}

	if page == 0 {
		page = 1
	}
	return pagination.New(questions, page, total, size), nil
}

// publish sends a content event. Failures are logged and never fail the write
// that caused them.
func (s *QuizService) publish(ctx context.Context, eventType events.Type, category string, payload any) {
	if s.publisher == nil {
		return
	}

	event, err := events.New(eventType, category, payload)
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		slog.WarnContext(ctx, "Failed to publish content event", "type", eventType, "category", category, "error", err)
	}
}
