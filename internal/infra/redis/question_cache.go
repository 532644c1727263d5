package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

// QuestionCache caches per-category question listings in Redis and falls back
// to the backing store on a miss. A listing is stored as one JSON string:
// SET quiz:questions:{category} [...]
type QuestionCache struct {
	client *redis.Client
	store  app.QuestionStore
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionCache(client *redis.Client, store app.QuestionStore, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		store:  store,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) ListQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error) {
	if questions, ok := c.cached(ctx, category); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(string(category), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := c.cached(ctx, category); ok {
			return questions, nil
		}

		questions, err := c.store.ListQuestions(ctx, category)
		if err != nil {
			return nil, err
		}
		// a zero expiry would never expire in redis, so a non-positive ttl disables caching
		if c.ttl > 0 {
			if payload, err := json.Marshal(questions); err == nil {
				_ = c.client.Set(ctx, c.key(category), payload, c.ttlWithJitter()).Err()
			}
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *QuestionCache) CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	stored, err := c.store.CreateQuestion(ctx, q)
	if err != nil {
		return domain.Question{}, err
	}
	c.Invalidate(ctx, q.Category)
	return stored, nil
}

func (c *QuestionCache) UpdateQuestion(ctx context.Context, q domain.Question) error {
	if err := c.store.UpdateQuestion(ctx, q); err != nil {
		return err
	}
	c.Invalidate(ctx, q.Category)
	return nil
}

func (c *QuestionCache) DeleteQuestion(ctx context.Context, id string) error {
	if err := c.store.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	c.Invalidate(ctx, "")
	return nil
}

// Invalidate drops one category's listing, or all of them when category is empty.
func (c *QuestionCache) Invalidate(ctx context.Context, category domain.Category) {
	if category != "" {
		_ = c.client.Del(ctx, c.key(category)).Err()
		return
	}
	keys := make([]string, 0, len(domain.Categories()))
	for _, cat := range domain.Categories() {
		keys = append(keys, c.key(cat))
	}
	_ = c.client.Del(ctx, keys...).Err()
}

// cached treats any Redis problem as a miss.
func (c *QuestionCache) cached(ctx context.Context, category domain.Category) ([]domain.Question, bool) {
	payload, err := c.client.Get(ctx, c.key(category)).Bytes()
	if err != nil {
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(payload, &questions); err != nil {
		return nil, false
	}
	return questions, true
}

func (c *QuestionCache) key(category domain.Category) string {
	return "quiz:questions:" + string(category)
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
