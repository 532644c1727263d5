package app

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"vocab-quiz-service/internal/domain"
)

// DefaultRecentWindow is how many leading events count as "recent" per question.
const DefaultRecentWindow = 3

// SortOrder selects how statistics are ordered by correct rate.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// ParseSortOrder accepts "asc", "desc" or empty (ascending).
func ParseSortOrder(raw string) (SortOrder, error) {
	switch SortOrder(raw) {
	case "", SortAscending:
		return SortAscending, nil
	case SortDescending:
		return SortDescending, nil
	}
	return "", &domain.ValidationError{Field: "order", Reason: fmt.Sprintf("unknown sort order %q", raw)}
}

// AggregateResults groups events by question. The first recentWindow events of
// each question, in the order given, form its recent correct rate; callers
// usually pass events newest first. Output follows first-seen order.
func AggregateResults(events []domain.ResultEvent, recentWindow int) []domain.QuestionStats {
	if recentWindow <= 0 {
		recentWindow = DefaultRecentWindow
	}

	type acc struct {
		stats         domain.QuestionStats
		recentTotal   int
		recentCorrect int
	}
	index := make(map[string]int)
	groups := make([]*acc, 0)

	for _, ev := range events {
		i, ok := index[ev.QuestionID]
		if !ok {
			i = len(groups)
			index[ev.QuestionID] = i
			groups = append(groups, &acc{stats: domain.QuestionStats{QuestionID: ev.QuestionID}})
		}
		g := groups[i]
		if g.stats.Question == nil && ev.Question != nil {
			q := ev.Question.Clone()
			g.stats.Question = &q
		}
		g.stats.TotalAnswers++
		if ev.IsCorrect {
			g.stats.CorrectAnswers++
		}
		if g.recentTotal < recentWindow {
			g.recentTotal++
			if ev.IsCorrect {
				g.recentCorrect++
			}
		}
	}

	out := make([]domain.QuestionStats, len(groups))
	for i, g := range groups {
		s := g.stats
		s.CorrectRate = percent(s.CorrectAnswers, s.TotalAnswers)
		s.RecentCorrectRate = percent(g.recentCorrect, g.recentTotal)
		out[i] = s
	}
	return out
}

// SortStats orders stats by correct rate in place. Ties keep their order.
func SortStats(stats []domain.QuestionStats, order SortOrder) {
	sort.SliceStable(stats, func(i, j int) bool {
		if order == SortDescending {
			return stats[i].CorrectRate > stats[j].CorrectRate
		}
		return stats[i].CorrectRate < stats[j].CorrectRate
	})
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// QuestionIndex resolves question ids of one category to their questions.
type QuestionIndex interface {
	QuestionsByID(ctx context.Context, category domain.Category) (map[string]domain.Question, error)
}

// StatsService serves per-question statistics from the results store.
type StatsService struct {
	results      ResultStore
	questions    QuestionIndex
	recentWindow int
}

// NewStatsService wires the service. questions may be nil; when set it fills
// in questions the results store did not attach.
func NewStatsService(results ResultStore, questions QuestionIndex, recentWindow int) *StatsService {
	if recentWindow <= 0 {
		recentWindow = DefaultRecentWindow
	}
	return &StatsService{results: results, questions: questions, recentWindow: recentWindow}
}

// Statistics aggregates every recorded answer for quizType ("" for all types).
func (s *StatsService) Statistics(ctx context.Context, quizType domain.Category, order SortOrder) ([]domain.QuestionStats, error) {
	if s.results == nil {
		return nil, domain.ErrRemoteUnavailable
	}
	events, err := s.results.ListResults(ctx, quizType)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	events = s.attachQuestions(ctx, events)
	stats := AggregateResults(events, s.recentWindow)
	SortStats(stats, order)
	return stats, nil
}

// attachQuestions resolves events without a question through the question
// index, one lookup per category. Lookup failures leave the events as they are.
// The returned slice is a copy; the store's slice is not modified.
func (s *StatsService) attachQuestions(ctx context.Context, events []domain.ResultEvent) []domain.ResultEvent {
	if s.questions == nil {
		return events
	}
	events = slices.Clone(events)
	indexes := make(map[domain.Category]map[string]domain.Question)
	for i := range events {
		ev := &events[i]
		if ev.Question != nil || !ev.QuizType.Valid() {
			continue
		}
		index, ok := indexes[ev.QuizType]
		if !ok {
			index, _ = s.questions.QuestionsByID(ctx, ev.QuizType)
			indexes[ev.QuizType] = index
		}
		if q, found := index[ev.QuestionID]; found {
			q = q.Clone()
			ev.Question = &q
		}
	}
	return events
}
