package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/zizouhuweidi/quizzical/internal/database"
	"github.com/zizouhuweidi/quizzical/internal/domain"
	"github.com/zizouhuweidi/quizzical/internal/pagination"
	"github.com/zizouhuweidi/quizzical/internal/repoerr"
)

// QuestionRepository implements the domain.QuestionRepository interface
type QuestionRepository struct {
	db database.DBTX
}

// NewQuestionRepository creates a new question repository on db
func NewQuestionRepository(db database.DBTX) *QuestionRepository {
	return &QuestionRepository{
		db: db,
	}
}

// SaveQuestion inserts a question and all of its choices in one transaction.
// Either both the question row and every choice row are committed, or none.
func (r *QuestionRepository) SaveQuestion(ctx context.Context, question domain.Question) (domain.Question, error) {
	const op = "save question"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Begin transaction failed", "category", question.Category, "error", err)
		return domain.Question{}, repoerr.Statement(op, err)
	}

	var questionID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO questions (text, category)
		VALUES ($1, $2)
		RETURNING id
	`, question.Text, question.Category).Scan(&questionID)
	if err != nil {
		rollback(ctx, tx, op)
		if errors.Is(err, pgx.ErrNoRows) {
			slog.ErrorContext(ctx, "Insert question succeeded but no id received", "category", question.Category)
			return domain.Question{}, repoerr.Databasef(op, "failed to get question id")
		}
		slog.ErrorContext(ctx, "Insert question failed", "category", question.Category, "error", err)
		return domain.Question{}, repoerr.Database(op, err)
	}

	slog.DebugContext(ctx, "Insert question succeeded", "question_id", questionID, "category", question.Category)

	choices, err := insertChoices(ctx, tx, questionID, question.Choices)
	if err != nil {
		rollback(ctx, tx, op)
		slog.ErrorContext(ctx, "Bulk insert choices failed", "question_id", questionID, "error", err)
		return domain.Question{}, repoerr.Statement(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		slog.ErrorContext(ctx, "Commit question failed", "question_id", questionID, "error", err)
		return domain.Question{}, repoerr.Database(op, err)
	}

	return domain.Question{
		ID:       questionID,
		Text:     question.Text,
		Category: question.Category,
		Choices:  choices,
	}, nil
}

// insertChoices writes all choices with one statement and returns copies of
// them with the generated ids, in input order
func insertChoices(ctx context.Context, tx pgx.Tx, questionID int64, choices []domain.Choice) ([]domain.Choice, error) {
	out := make([]domain.Choice, len(choices))
	copy(out, choices)
	if len(choices) == 0 {
		return out, nil
	}

	batch := NewBatchInsert("choices", "question_id", "text", "correct").Returning("id")
	for _, c := range choices {
		if err := batch.Add(questionID, c.Title, c.Correct); err != nil {
			return nil, err
		}
	}
	query, args, err := batch.Build()
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		if i < len(out) {
			out[i].ID = id
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if i != len(out) {
		return nil, repoerr.Databasef("insert choices", "expected %d choice ids, got %d", len(out), i)
	}

	return out, nil
}

func rollback(ctx context.Context, tx pgx.Tx, op string) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.ErrorContext(ctx, "Rollback failed", "op", op, "error", err)
	}
}

// CountQuestions counts the questions of a category. Questions of inactive
// categories are not counted, matching GetQuestions.
func (r *QuestionRepository) CountQuestions(ctx context.Context, category string) (int64, error) {
	const op = "count questions"

	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(q.id)
		FROM questions q
		JOIN categories c ON c.name = q.category
		WHERE q.category = $1 AND c.active = true
	`, category).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		slog.ErrorContext(ctx, "Error counting questions", "category", category, "error", err)
		return 0, repoerr.Statement(op, err)
	}

	return count, nil
}

// GetQuestions retrieves one page of questions of an active category, ordered
// by id, with their choices attached. Page 0 is treated as page 1.
func (r *QuestionRepository) GetQuestions(ctx context.Context, category string, page, size int) ([]domain.Question, error) {
	const op = "get questions"

	offset := pagination.Offset(page, size)

	rows, err := r.db.Query(ctx, `
		SELECT q.id, q.text
		FROM questions q
		JOIN categories c ON c.name = q.category
		WHERE q.category = $1 AND c.active = true
		ORDER BY q.id
		LIMIT $2 OFFSET $3
	`, category, size, offset)
	if err != nil {
		slog.ErrorContext(ctx, "Error loading questions", "category", category, "error", err)
		return nil, repoerr.Statement(op, err)
	}

	// rows are closed by hand: the choices query below runs on the same connection
	questions := []domain.Question{}
	for rows.Next() {
		question := domain.Question{Category: category}
		if err := rows.Scan(&question.ID, &question.Text); err != nil {
			rows.Close()
			return nil, repoerr.Statement(op, err)
		}
		questions = append(questions, question)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, repoerr.Statement(op, err)
	}

	if len(questions) == 0 {
		return questions, nil
	}

	questionIDs := make([]int64, len(questions))
	for i, q := range questions {
		questionIDs[i] = q.ID
	}

	choices, err := r.choicesByQuestion(ctx, questionIDs)
	if err != nil {
		slog.ErrorContext(ctx, "Error loading choices", "question_ids", questionIDs, "error", err)
		return nil, repoerr.Statement(op, err)
	}

	for i := range questions {
		questions[i].Choices = choices[questions[i].ID]
		if questions[i].Choices == nil {
			questions[i].Choices = []domain.Choice{}
		}
	}

	return questions, nil
}

// choicesByQuestion loads the choices of all questionIDs in one query,
// grouped by question id
func (r *QuestionRepository) choicesByQuestion(ctx context.Context, questionIDs []int64) (map[int64][]domain.Choice, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, text, correct, question_id
		FROM choices
		WHERE question_id = ANY($1)
		ORDER BY question_id, id
	`, questionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grouped := make(map[int64][]domain.Choice, len(questionIDs))
	for rows.Next() {
		var (
			choice     domain.Choice
			questionID int64
		)
		if err := rows.Scan(&choice.ID, &choice.Title, &choice.Correct, &questionID); err != nil {
			return nil, err
		}
		grouped[questionID] = append(grouped[questionID], choice)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return grouped, nil
}

var _ domain.QuestionRepository = (*QuestionRepository)(nil)
