package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"lingua-study-service/internal/domain"
)

// QuizLoader fetches quiz content from a backing store (e.g., Postgres).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, id uuid.UUID) (domain.Quiz, error)
	LoadAll(ctx context.Context) ([]domain.Quiz, error)
}

// QuizRepository caches quizzes in Redis and falls back to a loader on cache miss.
// Individual quizzes are stored as: SET quiz:{id} {json}
// The full list is stored as:       SET quiz:all  {json array}
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Quiz, error) {
	key := r.quizKey(id)

	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var quiz domain.Quiz
		if err := json.Unmarshal(raw, &quiz); err == nil {
			return quiz, nil
		}
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
			var quiz domain.Quiz
			if err := json.Unmarshal(raw, &quiz); err == nil {
				return quiz, nil
			}
		}

		quiz, err := r.loader.LoadQuiz(ctx, id)
		if err != nil {
			return domain.Quiz{}, err
		}
		r.cacheQuiz(ctx, key, quiz)
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *QuizRepository) GetAll(ctx context.Context) ([]domain.Quiz, error) {
	if raw, err := r.client.Get(ctx, allKey).Bytes(); err == nil {
		var quizzes []domain.Quiz
		if err := json.Unmarshal(raw, &quizzes); err == nil {
			return quizzes, nil
		}
	}

	result, err, _ := r.sf.Do(allKey, func() (interface{}, error) {
		if raw, err := r.client.Get(ctx, allKey).Bytes(); err == nil {
			var quizzes []domain.Quiz
			if err := json.Unmarshal(raw, &quizzes); err == nil {
				return quizzes, nil
			}
		}

		quizzes, err := r.loader.LoadAll(ctx)
		if err != nil {
			return nil, err
		}

		if raw, err := json.Marshal(quizzes); err == nil {
			_ = r.client.Set(ctx, allKey, raw, r.ttlWithJitter()).Err()
		}
		// Warm the per-quiz keys while we have the data.
		for _, quiz := range quizzes {
			r.cacheQuiz(ctx, r.quizKey(quiz.ID), quiz)
		}
		return quizzes, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Quiz), nil
}

func (r *QuizRepository) GetAllByType(ctx context.Context, quizTypeID uuid.UUID) ([]domain.Quiz, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var filtered []domain.Quiz
	for _, quiz := range all {
		if quiz.QuizTypeID == quizTypeID {
			filtered = append(filtered, quiz)
		}
	}
	return filtered, nil
}

const allKey = "quiz:all"

func (r *QuizRepository) quizKey(id uuid.UUID) string {
	return "quiz:" + id.String()
}

// cacheQuiz is best-effort; a failed write only costs a future cache miss.
func (r *QuizRepository) cacheQuiz(ctx context.Context, key string, quiz domain.Quiz) {
	raw, err := json.Marshal(quiz)
	if err != nil {
		return
	}
	_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
