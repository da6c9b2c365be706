package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"lingua-study-service/internal/domain"
)

type reviewScheduleRow struct {
	bun.BaseModel `bun:"table:review_schedules"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	OwnerID        uuid.UUID `bun:"owner_id,type:uuid"`
	QuizID         uuid.UUID `bun:"quiz_id,type:uuid"`
	ReviewDeadline time.Time `bun:"review_deadline"`
}

func (r reviewScheduleRow) toDomain() domain.ReviewSchedule {
	return domain.ReviewSchedule{
		ID:             r.ID,
		OwnerID:        r.OwnerID,
		QuizID:         r.QuizID,
		ReviewDeadline: r.ReviewDeadline,
	}
}

// ReviewScheduleRepository is the bun-backed implementation of app.ReviewScheduleRepository.
type ReviewScheduleRepository struct {
	db *bun.DB
}

func NewReviewScheduleRepository(db *bun.DB) *ReviewScheduleRepository {
	return &ReviewScheduleRepository{db: db}
}

func (r *ReviewScheduleRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.ReviewSchedule, error) {
	var rows []reviewScheduleRow
	err := r.db.NewSelect().Model(&rows).
		Where("owner_id = ?", userID).
		Order("review_deadline ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select review schedules: %w", err)
	}
	schedules := make([]domain.ReviewSchedule, 0, len(rows))
	for _, row := range rows {
		schedules = append(schedules, row.toDomain())
	}
	return schedules, nil
}

func (r *ReviewScheduleRepository) Get(ctx context.Context, userID, quizID uuid.UUID) (domain.ReviewSchedule, error) {
	var row reviewScheduleRow
	err := r.db.NewSelect().Model(&row).
		Where("owner_id = ?", userID).
		Where("quiz_id = ?", quizID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ReviewSchedule{}, domain.ErrScheduleNotFound
	}
	if err != nil {
		return domain.ReviewSchedule{}, fmt.Errorf("select review schedule: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ReviewScheduleRepository) Create(ctx context.Context, schedule domain.ReviewSchedule) error {
	row := toScheduleRow(schedule)
	if _, err := r.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert review schedule: %w", err)
	}
	return nil
}

func (r *ReviewScheduleRepository) Update(ctx context.Context, schedule domain.ReviewSchedule) error {
	row := toScheduleRow(schedule)
	res, err := r.db.NewUpdate().Model(&row).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update review schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

func toScheduleRow(schedule domain.ReviewSchedule) reviewScheduleRow {
	return reviewScheduleRow{
		ID:             schedule.ID,
		OwnerID:        schedule.OwnerID,
		QuizID:         schedule.QuizID,
		ReviewDeadline: schedule.ReviewDeadline,
	}
}
