package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"lingua-study-service/internal/domain"
)

// QuizLoader fetches quiz content from a backing store (e.g., Postgres).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, id uuid.UUID) (domain.Quiz, error)
	LoadAll(ctx context.Context) ([]domain.Quiz, error)
}

// QuizRepository caches quizzes with TTL to avoid repeated DB hits.
type QuizRepository struct {
	loader QuizLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[uuid.UUID]cachedQuiz
	all   []domain.Quiz
	allAt time.Time
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewQuizRepository(loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[uuid.UUID]cachedQuiz),
	}
}

func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Quiz, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[id]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.quiz, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(id.String(), func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[id]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.quiz, nil
		}
		r.mu.RUnlock()

		quiz, err := r.loader.LoadQuiz(ctx, id)
		if err != nil {
			return domain.Quiz{}, err
		}

		r.mu.Lock()
		r.cache[id] = cachedQuiz{
			quiz:      quiz,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *QuizRepository) GetAll(ctx context.Context) ([]domain.Quiz, error) {
	now := r.clock()

	r.mu.RLock()
	if r.all != nil && r.allAt.After(now) {
		quizzes := r.all
		r.mu.RUnlock()
		return quizzes, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("all", func() (interface{}, error) {
		quizzes, err := r.loader.LoadAll(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.all = quizzes
		r.allAt = r.clock().Add(r.ttlWithJitter())
		r.mu.Unlock()
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

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuizLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticQuizLoader struct {
	quizzes map[uuid.UUID]domain.Quiz
}

func NewStaticQuizLoader(quizzes map[uuid.UUID]domain.Quiz) *StaticQuizLoader {
	return &StaticQuizLoader{quizzes: quizzes}
}

func (l *StaticQuizLoader) LoadQuiz(_ context.Context, id uuid.UUID) (domain.Quiz, error) {
	if quiz, ok := l.quizzes[id]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (l *StaticQuizLoader) LoadAll(_ context.Context) ([]domain.Quiz, error) {
	quizzes := make([]domain.Quiz, 0, len(l.quizzes))
	for _, quiz := range l.quizzes {
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}

// QuizTypeRepository serves a static list of quiz categories.
type QuizTypeRepository struct {
	types []domain.QuizType
}

func NewQuizTypeRepository(types []domain.QuizType) *QuizTypeRepository {
	return &QuizTypeRepository{types: types}
}

func (r *QuizTypeRepository) GetAll(_ context.Context) ([]domain.QuizType, error) {
	return r.types, nil
}
