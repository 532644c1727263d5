package memory

import (
	"context"
	"testing"
	"time"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

func TestQuestionCacheCaches(t *testing.T) {
	store := &countingStore{QuestionStore: NewQuestionStore(sampleQuestion("q1"))}
	cache := NewQuestionCache(store, time.Minute)

	if _, err := cache.ListQuestions(context.Background(), domain.CategoryVocabulary); err != nil {
		t.Fatalf("list: %v", err)
	}
	if store.lists != 1 {
		t.Fatalf("expected store once, got %d", store.lists)
	}

	qs, err := cache.ListQuestions(context.Background(), domain.CategoryVocabulary)
	if err != nil {
		t.Fatalf("list 2: %v", err)
	}
	if store.lists != 1 {
		t.Fatalf("expected cache hit, store calls %d", store.lists)
	}
	if len(qs) != 1 || qs[0].ID != "q1" {
		t.Fatalf("unexpected questions %+v", qs)
	}
}

func TestQuestionCacheInvalidatesOnWrite(t *testing.T) {
	store := &countingStore{QuestionStore: NewQuestionStore(sampleQuestion("q1"))}
	cache := NewQuestionCache(store, time.Minute)
	ctx := context.Background()

	_, _ = cache.ListQuestions(ctx, domain.CategoryVocabulary)
	if _, err := cache.CreateQuestion(ctx, sampleQuestion("q2")); err != nil {
		t.Fatalf("create: %v", err)
	}

	qs, _ := cache.ListQuestions(ctx, domain.CategoryVocabulary)
	if store.lists != 2 {
		t.Fatalf("expected reload after write, store calls %d", store.lists)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions after create, got %d", len(qs))
	}
}

func TestQuestionCacheExpires(t *testing.T) {
	store := &countingStore{QuestionStore: NewQuestionStore(sampleQuestion("q1"))}
	cache := NewQuestionCache(store, time.Minute)
	now := time.Now()
	cache.clock = func() time.Time { return now }

	_, _ = cache.ListQuestions(context.Background(), domain.CategoryVocabulary)
	now = now.Add(2 * time.Minute)
	_, _ = cache.ListQuestions(context.Background(), domain.CategoryVocabulary)
	if store.lists != 2 {
		t.Fatalf("expected reload after ttl, store calls %d", store.lists)
	}
}

type countingStore struct {
	app.QuestionStore
	lists int
}

func (s *countingStore) ListQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error) {
	s.lists++
	return s.QuestionStore.ListQuestions(ctx, category)
}

func sampleQuestion(id string) domain.Question {
	return domain.Question{
		ID:       id,
		Text:     "「[[憂鬱]]」の読み方は？",
		Choices:  []string{"ゆううつ", "ゆうえつ", "うれいうつ"},
		Category: domain.CategoryVocabulary,
	}
}
