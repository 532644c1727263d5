package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"vocab-quiz-service/internal/domain"
)

// QuestionStore is an in-process stand-in for the remote question store,
// useful for tests and single-node demos. Listing returns insertion order.
type QuestionStore struct {
	mu        sync.RWMutex
	questions []domain.Question
}

func NewQuestionStore(seed ...domain.Question) *QuestionStore {
	return &QuestionStore{questions: cloneQuestions(seed)}
}

func (s *QuestionStore) ListQuestions(_ context.Context, category domain.Category) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, 0)
	for _, q := range s.questions {
		if q.Category == category {
			out = append(out, q.Clone())
		}
	}
	return out, nil
}

func (s *QuestionStore) CreateQuestion(_ context.Context, q domain.Question) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q = q.Clone()
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	s.questions = append(s.questions, q)
	return q.Clone(), nil
}

func (s *QuestionStore) UpdateQuestion(_ context.Context, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(q.ID)
	if i < 0 {
		return domain.ErrQuestionNotFound
	}
	s.questions[i] = q.Clone()
	return nil
}

func (s *QuestionStore) DeleteQuestion(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return domain.ErrQuestionNotFound
	}
	s.questions = slices.Delete(s.questions, i, i+1)
	return nil
}

// Get returns a stored question by id.
func (s *QuestionStore) Get(id string) (domain.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return domain.Question{}, false
	}
	return s.questions[i].Clone(), true
}

func (s *QuestionStore) indexLocked(id string) int {
	return slices.IndexFunc(s.questions, func(q domain.Question) bool { return q.ID == id })
}
