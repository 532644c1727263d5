package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vocab-quiz-service/internal/domain"
)

type resultDoc struct {
	ID         string    `bson:"_id"`
	QuestionID string    `bson:"questionId"`
	IsCorrect  bool      `bson:"isCorrect"`
	QuizType   string    `bson:"quizType"`
	AnsweredAt time.Time `bson:"answeredAt"`
}

// ResultStore keeps answer events in the "quiz_results" collection.
type ResultStore struct {
	collection *mongo.Collection
	questions  *QuestionStore
	clock      func() time.Time
}

// NewResultStore creates a store; questions may be nil, in which case listed
// events carry no question.
func NewResultStore(db *mongo.Database, questions *QuestionStore) *ResultStore {
	return &ResultStore{
		collection: db.Collection("quiz_results"),
		questions:  questions,
		clock:      time.Now,
	}
}

func (s *ResultStore) AppendResult(ctx context.Context, ev domain.ResultEvent) (domain.ResultEvent, error) {
	doc := resultDoc{
		ID:         uuid.NewString(),
		QuestionID: ev.QuestionID,
		IsCorrect:  ev.IsCorrect,
		QuizType:   string(ev.QuizType),
		AnsweredAt: s.clock().UTC(),
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return domain.ResultEvent{}, fmt.Errorf("insert result: %w", err)
	}
	return domain.ResultEvent{
		ID:         doc.ID,
		QuestionID: doc.QuestionID,
		IsCorrect:  doc.IsCorrect,
		QuizType:   ev.QuizType,
		AnsweredAt: doc.AnsweredAt,
	}, nil
}

// ListResults returns events newest first. An empty quizType lists all.
func (s *ResultStore) ListResults(ctx context.Context, quizType domain.Category) ([]domain.ResultEvent, error) {
	filter := bson.M{}
	if quizType != "" {
		filter["quizType"] = string(quizType)
	}
	opts := options.Find().SetSort(bson.D{{Key: "answeredAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find results: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []resultDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}

	var questions map[string]domain.Question
	if s.questions != nil {
		ids := make([]string, 0, len(docs))
		seen := make(map[string]struct{}, len(docs))
		for _, d := range docs {
			if _, ok := seen[d.QuestionID]; !ok {
				seen[d.QuestionID] = struct{}{}
				ids = append(ids, d.QuestionID)
			}
		}
		if questions, err = s.questions.GetByIDs(ctx, ids); err != nil {
			return nil, err
		}
	}

	events := make([]domain.ResultEvent, len(docs))
	for i, d := range docs {
		events[i] = domain.ResultEvent{
			ID:         d.ID,
			QuestionID: d.QuestionID,
			IsCorrect:  d.IsCorrect,
			QuizType:   domain.Category(d.QuizType),
			AnsweredAt: d.AnsweredAt,
		}
		if q, ok := questions[d.QuestionID]; ok {
			q := q.Clone()
			events[i].Question = &q
		}
	}
	return events, nil
}
