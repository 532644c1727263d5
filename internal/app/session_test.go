package app

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"vocab-quiz-service/internal/domain"
)

func questionPool(n int) []domain.Question {
	pool := make([]domain.Question, n)
	for i := range pool {
		pool[i] = domain.Question{
			ID:           fmt.Sprintf("q%d", i),
			Text:         fmt.Sprintf("question %d", i),
			Choices:      []string{"a", "b", "c", "d"},
			CorrectIndex: i % 4,
		}
	}
	return pool
}

func newTestSession(t *testing.T, poolSize int) *Session {
	t.Helper()
	s := NewSession("s1", rand.New(rand.NewSource(7)), DefaultQuizSize)
	if err := s.Start(domain.CategoryVocabulary, questionPool(poolSize)); err != nil {
		t.Fatalf("start: %v", err)
	}
	return s
}

func TestSessionDrawsTenFromLargePool(t *testing.T) {
	s := newTestSession(t, 20)
	p := s.Progress()
	if p.Total != 10 || p.State != StateInProgress || p.Position != 0 || p.Score != 0 {
		t.Fatalf("unexpected progress %+v", p)
	}
}

func TestSessionDrawsAllFromSmallPool(t *testing.T) {
	s := newTestSession(t, 4)
	if total := s.Progress().Total; total != 4 {
		t.Fatalf("expected 4 questions, got %d", total)
	}
}

func TestSessionStartRejectsEmptyPool(t *testing.T) {
	s := NewSession("s1", nil, 0)
	if err := s.Start(domain.CategoryWago, nil); !errors.Is(err, domain.ErrEmptyCategory) {
		t.Fatalf("expected empty category error, got %v", err)
	}
	if s.State() != StateNotStarted {
		t.Fatalf("expected NotStarted after failed start")
	}
}

func TestSessionAllCorrect(t *testing.T) {
	s := newTestSession(t, 20)
	for {
		q, err := s.CurrentQuestion()
		if err != nil {
			t.Fatalf("current: %v", err)
		}
		rec, err := s.SubmitAnswer(q.CorrectIndex)
		if err != nil || !rec.Correct {
			t.Fatalf("submit correct: rec=%+v err=%v", rec, err)
		}
		if rec.Question.ID != q.ID || rec.Choice != q.CorrectIndex {
			t.Fatalf("record does not describe the answered question: %+v", rec)
		}
		more, err := s.Advance()
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if !more {
			break
		}
	}

	res, err := s.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Score != res.Total || res.Total != 10 {
		t.Fatalf("expected 10/10, got %+v", res)
	}
	if Grade(res.Score, res.Total).Letter != "S" {
		t.Fatalf("expected grade S")
	}
	if len(s.AnswerLog()) != 10 {
		t.Fatalf("expected 10 log entries, got %d", len(s.AnswerLog()))
	}
}

func TestSessionRejectsSecondAnswer(t *testing.T) {
	s := newTestSession(t, 20)
	q, _ := s.CurrentQuestion()

	if _, err := s.SubmitAnswer(q.CorrectIndex); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := s.SubmitAnswer(q.CorrectIndex); !errors.Is(err, domain.ErrAlreadyAnswered) {
		t.Fatalf("expected already answered, got %v", err)
	}
	if score := s.Progress().Score; score != 1 {
		t.Fatalf("expected score 1 after double submit, got %d", score)
	}
	if n := len(s.AnswerLog()); n != 1 {
		t.Fatalf("expected one log entry, got %d", n)
	}
}

func TestSessionAdvanceRequiresAnswer(t *testing.T) {
	s := newTestSession(t, 20)
	if _, err := s.Advance(); !errors.Is(err, domain.ErrNotAnswered) {
		t.Fatalf("expected not answered, got %v", err)
	}
}

func TestSessionInvalidChoiceIsNotCounted(t *testing.T) {
	s := newTestSession(t, 20)
	_, err := s.SubmitAnswer(7)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.Progress().Answered {
		t.Fatalf("invalid choice must not mark the question answered")
	}
}

func TestSessionStateGuards(t *testing.T) {
	s := NewSession("s1", nil, 0)
	if _, err := s.CurrentQuestion(); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state before start, got %v", err)
	}
	if _, err := s.SubmitAnswer(0); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state before start, got %v", err)
	}
	if _, err := s.Result(); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state for result before start, got %v", err)
	}

	s = newTestSession(t, 1)
	if _, err := s.Result(); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state for result in progress, got %v", err)
	}
	_, _ = s.SubmitAnswer(0)
	if more, err := s.Advance(); err != nil || more {
		t.Fatalf("expected completion, more=%v err=%v", more, err)
	}
	if _, err := s.CurrentQuestion(); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state after completion, got %v", err)
	}
	if _, err := s.Advance(); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state advancing a completed session, got %v", err)
	}
}

func TestSessionRestartAfterCompletion(t *testing.T) {
	s := newTestSession(t, 1)
	q, _ := s.CurrentQuestion()
	_, _ = s.SubmitAnswer(q.CorrectIndex)
	_, _ = s.Advance()

	if err := s.Start(domain.CategoryProverb, questionPool(3)); err != nil {
		t.Fatalf("restart: %v", err)
	}
	p := s.Progress()
	if p.State != StateInProgress || p.Score != 0 || p.Total != 3 || len(s.AnswerLog()) != 0 {
		t.Fatalf("expected fresh session, got %+v", p)
	}
	if s.Category() != domain.CategoryProverb {
		t.Fatalf("expected proverb category")
	}
}

func TestSessionQuitEndsEarly(t *testing.T) {
	s := newTestSession(t, 20)
	q, _ := s.CurrentQuestion()
	_, _ = s.SubmitAnswer(q.CorrectIndex)

	if err := s.Quit(); err != nil {
		t.Fatalf("quit: %v", err)
	}
	res, err := s.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if res.Score != 1 || res.Total != 10 {
		t.Fatalf("expected 1/10, got %+v", res)
	}
	if err := s.Quit(); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state quitting twice, got %v", err)
	}
}

func TestSessionSnapshotIsolatedFromPool(t *testing.T) {
	pool := questionPool(1)
	s := NewSession("s1", rand.New(rand.NewSource(1)), 0)
	if err := s.Start(domain.CategoryVocabulary, pool); err != nil {
		t.Fatalf("start: %v", err)
	}
	pool[0].Text = "edited"
	pool[0].Choices[0] = "edited"

	q, _ := s.CurrentQuestion()
	if q.Text == "edited" || q.Choices[0] == "edited" {
		t.Fatalf("session saw a later edit: %+v", q)
	}
}

func TestSessionChoicesKeepOriginalIndex(t *testing.T) {
	s := newTestSession(t, 20)
	q, _ := s.CurrentQuestion()
	choices, err := s.CurrentChoices()
	if err != nil {
		t.Fatalf("choices: %v", err)
	}
	if len(choices) != len(q.Choices) {
		t.Fatalf("expected %d choices, got %d", len(q.Choices), len(choices))
	}
	var indices []int
	for _, c := range choices {
		if q.Choices[c.Index] != c.Text {
			t.Fatalf("choice %q does not map back to index %d", c.Text, c.Index)
		}
		indices = append(indices, c.Index)
	}
	slices.Sort(indices)
	if !slices.Equal(indices, []int{0, 1, 2, 3}) {
		t.Fatalf("display order is not a permutation: %v", indices)
	}
}
