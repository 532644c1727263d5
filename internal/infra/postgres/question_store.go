package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"vocab-quiz-service/internal/domain"
)

// QuestionStore keeps user-created questions in the questions table.
// Choices are stored as a JSONB array.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

// ListQuestions returns a category's questions, oldest first.
func (s *QuestionStore) ListQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, question, choices, correct_index
		FROM questions
		WHERE category = $1
		ORDER BY created_at ASC, id ASC`, string(category))
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	for rows.Next() {
		var (
			q   domain.Question
			raw []byte
		)
		if err := rows.Scan(&q.ID, &q.Text, &raw, &q.CorrectIndex); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(raw, &q.Choices); err != nil {
			return nil, fmt.Errorf("unmarshal choices of %s: %w", q.ID, err)
		}
		q.Category = category
		q.Origin = domain.OriginCustom
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// CreateQuestion inserts q, keeping its id when one is set.
func (s *QuestionStore) CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	raw, err := json.Marshal(q.Choices)
	if err != nil {
		return domain.Question{}, fmt.Errorf("marshal choices: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO questions (id, category, question, choices, correct_index)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET category = EXCLUDED.category, question = EXCLUDED.question,
		    choices = EXCLUDED.choices, correct_index = EXCLUDED.correct_index`,
		q.ID, string(q.Category), q.Text, raw, q.CorrectIndex)
	if err != nil {
		return domain.Question{}, fmt.Errorf("insert question: %w", err)
	}
	q.Origin = domain.OriginCustom
	return q.Clone(), nil
}

func (s *QuestionStore) UpdateQuestion(ctx context.Context, q domain.Question) error {
	raw, err := json.Marshal(q.Choices)
	if err != nil {
		return fmt.Errorf("marshal choices: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE questions
		SET question = $2, choices = $3, correct_index = $4
		WHERE id = $1`,
		q.ID, q.Text, raw, q.CorrectIndex)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *QuestionStore) DeleteQuestion(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}
