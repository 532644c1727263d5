package app

import (
	"sync"

	"vocab-quiz-service/internal/domain"
)

// DefaultQuizSize is how many questions a session draws.
const DefaultQuizSize = 10

// SessionState is a step of the quiz lifecycle.
type SessionState int

const (
	StateNotStarted SessionState = iota
	StateInProgress
	StateCompleted
)

func (s SessionState) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	default:
		return "not_started"
	}
}

// AnswerRecord is one entry of a session's answer log.
type AnswerRecord struct {
	Question domain.Question
	Choice   int
	Correct  bool
}

// Progress is a point-in-time view of a session.
type Progress struct {
	State    SessionState
	Position int // 0-based index of the current question
	Total    int
	Score    int
	Answered bool // whether the current position has been answered
}

type drawnQuestion struct {
	question domain.Question
	order    []int // display order of choice indices
}

// Session is one run of up to size questions from a single category.
type Session struct {
	id   string
	rnd  Rand
	size int

	mu       sync.Mutex
	state    SessionState
	category domain.Category
	drawn    []drawnQuestion
	position int
	answered bool
	correct  int
	log      []AnswerRecord
}

// NewSession creates a session in the NotStarted state.
func NewSession(id string, rnd Rand, size int) *Session {
	if rnd == nil {
		rnd = DefaultRand
	}
	if size <= 0 {
		size = DefaultQuizSize
	}
	return &Session{id: id, rnd: rnd, size: size}
}

func (s *Session) ID() string { return s.id }

// Start samples questions from pool and enters InProgress. The session keeps
// its own copies, so later edits to pool are not visible to it.
func (s *Session) Start(category domain.Category, pool []domain.Question) error {
	if len(pool) == 0 {
		return domain.ErrEmptyCategory
	}

	picked := Sample(s.rnd, pool, s.size)
	drawn := make([]drawnQuestion, len(picked))
	for i, q := range picked {
		indices := make([]int, len(q.Choices))
		for j := range indices {
			indices[j] = j
		}
		drawn[i] = drawnQuestion{question: q.Clone(), order: Shuffle(s.rnd, indices)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = category
	s.drawn = drawn
	s.position = 0
	s.answered = false
	s.correct = 0
	s.log = nil
	s.state = StateInProgress
	return nil
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Category() domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// CurrentQuestion returns the question at the current position.
func (s *Session) CurrentQuestion() (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return domain.Question{}, domain.ErrInvalidState
	}
	return s.drawn[s.position].question.Clone(), nil
}

// CurrentChoices returns the current question's choices in display order.
func (s *Session) CurrentChoices() ([]domain.DisplayChoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return nil, domain.ErrInvalidState
	}
	d := s.drawn[s.position]
	choices := make([]domain.DisplayChoice, len(d.order))
	for i, idx := range d.order {
		choices[i] = domain.DisplayChoice{Text: d.question.Choices[idx], Index: idx}
	}
	return choices, nil
}

// SubmitAnswer scores the choice (by its original index) for the current
// question and returns the log entry it appended. Each position accepts
// exactly one answer.
func (s *Session) SubmitAnswer(choice int) (AnswerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return AnswerRecord{}, domain.ErrInvalidState
	}
	if s.answered {
		return AnswerRecord{}, domain.ErrAlreadyAnswered
	}
	q := s.drawn[s.position].question
	if choice < 0 || choice >= len(q.Choices) {
		return AnswerRecord{}, &domain.ValidationError{Field: "choice", Reason: "does not name a choice of the current question"}
	}

	rec := AnswerRecord{Question: q.Clone(), Choice: choice, Correct: choice == q.CorrectIndex}
	if rec.Correct {
		s.correct++
	}
	s.answered = true
	s.log = append(s.log, rec)
	rec.Question = rec.Question.Clone()
	return rec, nil
}

// Advance moves past an answered question. It reports whether another
// question follows; false means the session is complete.
func (s *Session) Advance() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return false, domain.ErrInvalidState
	}
	if !s.answered {
		return false, domain.ErrNotAnswered
	}

	s.position++
	s.answered = false
	if s.position == len(s.drawn) {
		s.state = StateCompleted
		return false, nil
	}
	return true, nil
}

// Quit ends an in-progress session early. Unanswered questions count as wrong.
func (s *Session) Quit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return domain.ErrInvalidState
	}
	s.state = StateCompleted
	return nil
}

// Result returns the final score once the session is complete.
func (s *Session) Result() (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCompleted {
		return domain.Result{}, domain.ErrInvalidState
	}
	return domain.Result{Score: s.correct, Total: len(s.drawn)}, nil
}

func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Progress{
		State:    s.state,
		Position: s.position,
		Total:    len(s.drawn),
		Score:    s.correct,
		Answered: s.answered,
	}
}

// AnswerLog returns the answers given so far, oldest first.
func (s *Session) AnswerLog() []AnswerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AnswerRecord, len(s.log))
	copy(out, s.log)
	return out
}
