package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"vocab-quiz-service/internal/domain"
)

// ResultStore appends answer events to quiz_results.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) AppendResult(ctx context.Context, ev domain.ResultEvent) (domain.ResultEvent, error) {
	ev.ID = uuid.NewString()
	ev.Question = nil
	err := s.pool.QueryRow(ctx, `
		INSERT INTO quiz_results (id, question_id, is_correct, quiz_type)
		VALUES ($1, $2, $3, $4)
		RETURNING answered_at`,
		ev.ID, ev.QuestionID, ev.IsCorrect, string(ev.QuizType)).Scan(&ev.AnsweredAt)
	if err != nil {
		return domain.ResultEvent{}, fmt.Errorf("insert result: %w", err)
	}
	return ev, nil
}

// ListResults returns events newest first, joined with the question they
// answer when that question is stored here. An empty quizType lists all.
func (s *ResultStore) ListResults(ctx context.Context, quizType domain.Category) ([]domain.ResultEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.question_id, r.is_correct, r.quiz_type, r.answered_at,
		       q.question, q.choices, q.correct_index, q.category
		FROM quiz_results r
		LEFT JOIN questions q ON q.id = r.question_id
		WHERE $1::text = '' OR r.quiz_type = $1::text
		ORDER BY r.answered_at DESC, r.id DESC`, string(quizType))
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	events := make([]domain.ResultEvent, 0)
	for rows.Next() {
		var (
			ev           domain.ResultEvent
			quizTypeRaw  string
			answeredAt   time.Time
			text         *string
			choices      []byte
			correctIndex *int32
			category     *string
		)
		if err := rows.Scan(&ev.ID, &ev.QuestionID, &ev.IsCorrect, &quizTypeRaw, &answeredAt,
			&text, &choices, &correctIndex, &category); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		ev.QuizType = domain.Category(quizTypeRaw)
		ev.AnsweredAt = answeredAt

		if text != nil {
			q := domain.Question{ID: ev.QuestionID, Text: *text, Origin: domain.OriginCustom}
			if correctIndex != nil {
				q.CorrectIndex = int(*correctIndex)
			}
			if category != nil {
				q.Category = domain.Category(*category)
			}
			if err := json.Unmarshal(choices, &q.Choices); err != nil {
				return nil, fmt.Errorf("unmarshal choices of %s: %w", q.ID, err)
			}
			ev.Question = &q
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return events, nil
}
