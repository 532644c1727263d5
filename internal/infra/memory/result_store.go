package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"vocab-quiz-service/internal/domain"
)

// QuestionLookup resolves question ids to attach to listed results.
type QuestionLookup interface {
	Get(id string) (domain.Question, bool)
}

// ResultStore keeps result events in memory.
type ResultStore struct {
	lookup QuestionLookup
	clock  func() time.Time

	mu     sync.RWMutex
	events []domain.ResultEvent
}

// NewResultStore creates a store; lookup may be nil.
func NewResultStore(lookup QuestionLookup) *ResultStore {
	return &ResultStore{lookup: lookup, clock: time.Now}
}

func (s *ResultStore) AppendResult(_ context.Context, ev domain.ResultEvent) (domain.ResultEvent, error) {
	ev.ID = uuid.NewString()
	ev.AnsweredAt = s.clock()
	ev.Question = nil

	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	return ev, nil
}

// ListResults returns events newest first.
func (s *ResultStore) ListResults(_ context.Context, quizType domain.Category) ([]domain.ResultEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ResultEvent, 0, len(s.events))
	for i := len(s.events) - 1; i >= 0; i-- {
		ev := s.events[i]
		if quizType != "" && ev.QuizType != quizType {
			continue
		}
		if s.lookup != nil {
			if q, ok := s.lookup.Get(ev.QuestionID); ok {
				ev.Question = &q
			}
		}
		out = append(out, ev)
	}
	return out, nil
}
