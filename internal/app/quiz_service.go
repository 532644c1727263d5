package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vocab-quiz-service/internal/domain"
)

// SessionRepository abstracts where live quiz sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Save(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// QuestionSource loads the merged question list for a category.
type QuestionSource interface {
	Load(ctx context.Context, category domain.Category) ([]domain.Question, error)
}

// ResultStore appends answer events and lists them newest first.
type ResultStore interface {
	AppendResult(ctx context.Context, ev domain.ResultEvent) (domain.ResultEvent, error)
	ListResults(ctx context.Context, quizType domain.Category) ([]domain.ResultEvent, error)
}

// AnswerOutcome is what a player learns after answering.
type AnswerOutcome struct {
	Correct      bool `json:"correct"`
	CorrectIndex int  `json:"correctIndex"`
	Score        int  `json:"score"`
}

// Summary is a finished session's score with its grade.
type Summary struct {
	domain.Result
	Grade domain.Grade `json:"grade"`
}

// QuizOptions tunes session creation.
type QuizOptions struct {
	Size          int
	Rand          Rand
	RecordTimeout time.Duration
}

// QuizService contains the quiz play use cases.
type QuizService struct {
	sessions  SessionRepository
	questions QuestionSource
	results   ResultStore
	logger    *zap.Logger
	opts      QuizOptions
	newID     func() string
}

// NewQuizService wires the service. results may be nil, in which case answers are not recorded.
func NewQuizService(sessions SessionRepository, questions QuestionSource, results ResultStore, logger *zap.Logger, opts QuizOptions) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Size <= 0 {
		opts.Size = DefaultQuizSize
	}
	if opts.Rand == nil {
		opts.Rand = DefaultRand
	}
	if opts.RecordTimeout <= 0 {
		opts.RecordTimeout = 2 * time.Second
	}
	return &QuizService{
		sessions:  sessions,
		questions: questions,
		results:   results,
		logger:    logger,
		opts:      opts,
		newID:     uuid.NewString,
	}
}

// StartSession samples a new session for category.
func (s *QuizService) StartSession(ctx context.Context, category domain.Category) (*Session, error) {
	if !category.Valid() {
		return nil, domain.ErrUnknownCategory
	}
	pool, err := s.questions.Load(ctx, category)
	if err != nil {
		return nil, err
	}

	session := NewSession(s.newID(), s.opts.Rand, s.opts.Size)
	if err := session.Start(category, pool); err != nil {
		return nil, err
	}
	s.sessions.Save(session)
	s.logger.Debug("quiz session started",
		zap.String("session_id", session.ID()),
		zap.String("category", string(category)),
		zap.Int("questions", session.Progress().Total))
	return session, nil
}

// Session looks up a live session.
func (s *QuizService) Session(id string) (*Session, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// SubmitAnswer scores an answer and records it in the results store.
func (s *QuizService) SubmitAnswer(ctx context.Context, id string, choice int) (AnswerOutcome, error) {
	session, err := s.Session(id)
	if err != nil {
		return AnswerOutcome{}, err
	}
	rec, err := session.SubmitAnswer(choice)
	if err != nil {
		return AnswerOutcome{}, err
	}
	s.sessions.Save(session)

	s.recordAnswer(ctx, session.Category(), rec.Question, rec.Correct)
	return AnswerOutcome{
		Correct:      rec.Correct,
		CorrectIndex: rec.Question.CorrectIndex,
		Score:        session.Progress().Score,
	}, nil
}

// Advance moves to the next question; false means the session is complete.
func (s *QuizService) Advance(_ context.Context, id string) (bool, error) {
	session, err := s.Session(id)
	if err != nil {
		return false, err
	}
	more, err := session.Advance()
	if err != nil {
		return false, err
	}
	s.sessions.Save(session)
	return more, nil
}

// Quit ends a session before its last question.
func (s *QuizService) Quit(_ context.Context, id string) error {
	session, err := s.Session(id)
	if err != nil {
		return err
	}
	if err := session.Quit(); err != nil {
		return err
	}
	s.sessions.Save(session)
	return nil
}

// Result returns the graded score of a completed session.
func (s *QuizService) Result(_ context.Context, id string) (Summary, error) {
	session, err := s.Session(id)
	if err != nil {
		return Summary{}, err
	}
	result, err := session.Result()
	if err != nil {
		return Summary{}, err
	}
	return Summary{Result: result, Grade: Grade(result.Score, result.Total)}, nil
}

// EndSession discards a session. Unknown ids are ignored.
func (s *QuizService) EndSession(id string) {
	s.sessions.Delete(id)
}

// RecordResult stores an answer event reported by a client.
func (s *QuizService) RecordResult(ctx context.Context, ev domain.ResultEvent) (domain.ResultEvent, error) {
	if ev.QuestionID == "" {
		return domain.ResultEvent{}, &domain.ValidationError{Field: "questionId", Reason: "must not be empty"}
	}
	if !ev.QuizType.Valid() {
		return domain.ResultEvent{}, &domain.ValidationError{Field: "quizType", Reason: fmt.Sprintf("unknown quiz type %q", ev.QuizType)}
	}
	if s.results == nil {
		return domain.ResultEvent{}, domain.ErrRemoteUnavailable
	}
	stored, err := s.results.AppendResult(ctx, ev)
	if err != nil {
		return domain.ResultEvent{}, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	return stored, nil
}

// recordAnswer is best-effort; a failed write never affects the session.
func (s *QuizService) recordAnswer(ctx context.Context, category domain.Category, q domain.Question, correct bool) {
	if s.results == nil || q.ID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.RecordTimeout)
	defer cancel()

	_, err := s.results.AppendResult(ctx, domain.ResultEvent{
		QuestionID: q.ID,
		IsCorrect:  correct,
		QuizType:   category,
	})
	if err != nil {
		s.logger.Warn("record quiz result", zap.String("question_id", q.ID), zap.Error(err))
	}
}
