package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

// QuestionCache caches per-category listings of a remote question store with
// a TTL so merged loads do not hit the backing store on every request. Writes
// go straight through and invalidate the cache.
type QuestionCache struct {
	store app.QuestionStore
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[domain.Category]cachedList
}

type cachedList struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionCache(store app.QuestionStore, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		store: store,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[domain.Category]cachedList),
	}
}

func (c *QuestionCache) ListQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error) {
	if list, ok := c.lookup(category); ok {
		return list, nil
	}

	result, err, _ := c.sf.Do(string(category), func() (interface{}, error) {
		if list, ok := c.lookup(category); ok {
			return list, nil
		}

		questions, err := c.store.ListQuestions(ctx, category)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[category] = cachedList{
			questions: questions,
			expiresAt: c.clock().Add(c.ttlWithJitterLocked()),
		}
		c.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneQuestions(result.([]domain.Question)), nil
}

func (c *QuestionCache) CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	stored, err := c.store.CreateQuestion(ctx, q)
	if err != nil {
		return domain.Question{}, err
	}
	c.Invalidate(q.Category)
	return stored, nil
}

func (c *QuestionCache) UpdateQuestion(ctx context.Context, q domain.Question) error {
	if err := c.store.UpdateQuestion(ctx, q); err != nil {
		return err
	}
	c.Invalidate(q.Category)
	return nil
}

func (c *QuestionCache) DeleteQuestion(ctx context.Context, id string) error {
	if err := c.store.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	// The category of an id is not known here.
	c.Invalidate("")
	return nil
}

// Invalidate drops one category, or everything when category is empty.
func (c *QuestionCache) Invalidate(category domain.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if category == "" {
		c.cache = make(map[domain.Category]cachedList)
		return
	}
	delete(c.cache, category)
}

func (c *QuestionCache) lookup(category domain.Category) ([]domain.Question, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[category]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return nil, false
	}
	return cloneQuestions(entry.questions), true
}

func (c *QuestionCache) ttlWithJitterLocked() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func cloneQuestions(in []domain.Question) []domain.Question {
	out := make([]domain.Question, len(in))
	for i, q := range in {
		out[i] = q.Clone()
	}
	return out
}
