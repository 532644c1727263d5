package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/catalog"
	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/infra/file"
	"vocab-quiz-service/internal/infra/memory"
	mongostore "vocab-quiz-service/internal/infra/mongo"
	pgstore "vocab-quiz-service/internal/infra/postgres"
	redisstore "vocab-quiz-service/internal/infra/redis"
)

// deps is the wired object graph shared by the subcommands.
type deps struct {
	questions *app.QuestionRepository
	quiz      *app.QuizService
	stats     *app.StatsService
	closers   []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// buildDeps picks a backend per concern from what the config provides:
// remote questions and results go to postgres, then mongo; the local document
// to redis, then a file, then memory; sessions to redis, then memory.
func buildDeps(ctx context.Context, cfg config.Config, logger *zap.Logger) (*deps, error) {
	d := &deps{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, func() { _ = redisClient.Close() })
	}

	var (
		remote  app.QuestionStore
		results app.ResultStore
	)
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		d.closers = append(d.closers, pool.Close)
		remote = pgstore.NewQuestionStore(pool)
		results = pgstore.NewResultStore(pool)
		logger.Info("using postgres question store")
	case cfg.Mongo.URI != "":
		client, err := mongostore.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.closers = append(d.closers, func() { _ = client.Disconnect(context.Background()) })
		db := client.Database(cfg.Mongo.Database)
		questionStore := mongostore.NewQuestionStore(db)
		remote = questionStore
		results = mongostore.NewResultStore(db, questionStore)
		logger.Info("using mongo question store", zap.String("database", cfg.Mongo.Database))
	default:
		results = memory.NewResultStore(nil)
		logger.Info("no remote store configured, results kept in memory")
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, time.Minute)
	if remote != nil {
		if redisClient != nil {
			remote = redisstore.NewQuestionCache(redisClient, remote, quizTTL)
		} else {
			remote = memory.NewQuestionCache(remote, quizTTL)
		}
	}

	var local app.DocumentStore
	switch {
	case redisClient != nil:
		local = redisstore.NewDocumentStore(redisClient, "")
	case cfg.Storage.Path != "":
		local = file.NewDocumentStore(cfg.Storage.Path)
	default:
		local = memory.NewDocumentStore()
	}

	sessionTTL := config.TTLDuration(cfg.Quiz.SessionTTL, 30*time.Minute)
	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisstore.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, sessionTTL))
	} else {
		sessions = memory.NewSessionStore(sessionTTL)
	}

	defaults, err := catalog.Load()
	if err != nil {
		d.Close()
		return nil, err
	}

	d.questions = app.NewQuestionRepository(defaults, local, remote, logger.Named("questions"))
	d.quiz = app.NewQuizService(sessions, d.questions, results, logger.Named("quiz"), app.QuizOptions{
		Size: cfg.Quiz.Size,
	})
	d.stats = app.NewStatsService(results, d.questions, cfg.Stats.RecentWindow)
	return d, nil
}
