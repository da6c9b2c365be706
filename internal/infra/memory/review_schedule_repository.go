package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"lingua-study-service/internal/domain"
)

// ReviewScheduleRepository is an in-memory implementation of app.ReviewScheduleRepository.
// Schedules are keyed by (owner, quiz); there is at most one per pair.
type ReviewScheduleRepository struct {
	mu        sync.RWMutex
	schedules map[scheduleKey]domain.ReviewSchedule
}

type scheduleKey struct {
	ownerID uuid.UUID
	quizID  uuid.UUID
}

func NewReviewScheduleRepository() *ReviewScheduleRepository {
	return &ReviewScheduleRepository{
		schedules: make(map[scheduleKey]domain.ReviewSchedule),
	}
}

func (r *ReviewScheduleRepository) GetAllByUser(_ context.Context, userID uuid.UUID) ([]domain.ReviewSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.ReviewSchedule
	for key, schedule := range r.schedules {
		if key.ownerID == userID {
			out = append(out, schedule)
		}
	}
	return out, nil
}

func (r *ReviewScheduleRepository) Get(_ context.Context, userID, quizID uuid.UUID) (domain.ReviewSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schedule, ok := r.schedules[scheduleKey{ownerID: userID, quizID: quizID}]
	if !ok {
		return domain.ReviewSchedule{}, domain.ErrScheduleNotFound
	}
	return schedule, nil
}

func (r *ReviewScheduleRepository) Create(_ context.Context, schedule domain.ReviewSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedules[scheduleKey{ownerID: schedule.OwnerID, quizID: schedule.QuizID}] = schedule
	return nil
}

func (r *ReviewScheduleRepository) Update(_ context.Context, schedule domain.ReviewSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := scheduleKey{ownerID: schedule.OwnerID, quizID: schedule.QuizID}
	if _, ok := r.schedules[key]; !ok {
		return domain.ErrScheduleNotFound
	}
	r.schedules[key] = schedule
	return nil
}
