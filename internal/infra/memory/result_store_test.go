package memory

import (
	"context"
	"testing"

	"vocab-quiz-service/internal/domain"
)

func TestResultStoreListsNewestFirstWithQuestion(t *testing.T) {
	questions := NewQuestionStore(sampleQuestion("q1"))
	store := NewResultStore(questions)
	ctx := context.Background()

	for _, ev := range []domain.ResultEvent{
		{QuestionID: "q1", IsCorrect: false, QuizType: domain.CategoryVocabulary},
		{QuestionID: "q1", IsCorrect: true, QuizType: domain.CategoryVocabulary},
		{QuestionID: "p1", IsCorrect: true, QuizType: domain.CategoryProverb},
	} {
		stored, err := store.AppendResult(ctx, ev)
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if stored.ID == "" || stored.AnsweredAt.IsZero() {
			t.Fatalf("expected server-assigned id and timestamp, got %+v", stored)
		}
	}

	events, err := store.ListResults(ctx, domain.CategoryVocabulary)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 vocabulary events, got %d", len(events))
	}
	if !events[0].IsCorrect || events[1].IsCorrect {
		t.Fatalf("expected newest first, got %+v", events)
	}
	if events[0].Question == nil || events[0].Question.ID != "q1" {
		t.Fatalf("expected question attached, got %+v", events[0].Question)
	}

	all, _ := store.ListResults(ctx, "")
	if len(all) != 3 {
		t.Fatalf("expected all 3 events, got %d", len(all))
	}
}

func TestDocumentStoreRoundTrip(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	data, err := store.Load(ctx)
	if err != nil || data != nil {
		t.Fatalf("expected empty store, got %q, %v", data, err)
	}
	_ = store.Save(ctx, []byte(`{"version":1}`))
	data, _ = store.Load(ctx)
	if string(data) != `{"version":1}` {
		t.Fatalf("unexpected data %q", data)
	}
	_ = store.Delete(ctx)
	if data, _ := store.Load(ctx); data != nil {
		t.Fatalf("expected deleted, got %q", data)
	}
}
