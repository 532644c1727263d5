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

type questionDoc struct {
	ID           string    `bson:"_id"`
	Category     string    `bson:"category"`
	Question     string    `bson:"question"`
	Choices      []string  `bson:"choices"`
	CorrectIndex int       `bson:"correctIndex"`
	CreatedAt    time.Time `bson:"createdAt"`
}

func (d questionDoc) toDomain() domain.Question {
	return domain.Question{
		ID:           d.ID,
		Text:         d.Question,
		Choices:      d.Choices,
		CorrectIndex: d.CorrectIndex,
		Category:     domain.Category(d.Category),
		Origin:       domain.OriginCustom,
	}
}

// QuestionStore keeps user-created questions in the "questions" collection.
type QuestionStore struct {
	collection *mongo.Collection
	clock      func() time.Time
}

func NewQuestionStore(db *mongo.Database) *QuestionStore {
	return &QuestionStore{
		collection: db.Collection("questions"),
		clock:      time.Now,
	}
}

// ListQuestions returns a category's questions, oldest first.
func (s *QuestionStore) ListQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{"category": string(category)}, opts)
	if err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []questionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	questions := make([]domain.Question, len(docs))
	for i, d := range docs {
		questions[i] = d.toDomain()
	}
	return questions, nil
}

func (s *QuestionStore) CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	doc := questionDoc{
		ID:           q.ID,
		Category:     string(q.Category),
		Question:     q.Text,
		Choices:      q.Choices,
		CorrectIndex: q.CorrectIndex,
		CreatedAt:    s.clock().UTC(),
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return domain.Question{}, fmt.Errorf("insert question: %w", err)
	}
	return doc.toDomain().Clone(), nil
}

func (s *QuestionStore) UpdateQuestion(ctx context.Context, q domain.Question) error {
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": q.ID}, bson.M{"$set": bson.M{
		"question":     q.Text,
		"choices":      q.Choices,
		"correctIndex": q.CorrectIndex,
	}})
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *QuestionStore) DeleteQuestion(ctx context.Context, id string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

// GetByIDs returns the stored questions among ids, keyed by id.
func (s *QuestionStore) GetByIDs(ctx context.Context, ids []string) (map[string]domain.Question, error) {
	out := make(map[string]domain.Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := s.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []questionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	for _, d := range docs {
		out[d.ID] = d.toDomain()
	}
	return out, nil
}
