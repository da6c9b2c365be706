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

type recallCardRow struct {
	bun.BaseModel `bun:"table:recall_cards"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	OwnerID        uuid.UUID `bun:"owner_id,type:uuid"`
	Question       string    `bun:"question"`
	Answer         string    `bun:"answer"`
	CorrectPoint   int       `bun:"correct_point"`
	ReviewDeadline time.Time `bun:"review_deadline"`
}

func (r recallCardRow) toDomain() domain.RecallCard {
	return domain.RecallCard{
		ID:             r.ID,
		OwnerID:        r.OwnerID,
		Question:       r.Question,
		Answer:         r.Answer,
		CorrectPoint:   r.CorrectPoint,
		ReviewDeadline: r.ReviewDeadline,
	}
}

func toCardRow(card domain.RecallCard) recallCardRow {
	return recallCardRow{
		ID:             card.ID,
		OwnerID:        card.OwnerID,
		Question:       card.Question,
		Answer:         card.Answer,
		CorrectPoint:   card.CorrectPoint,
		ReviewDeadline: card.ReviewDeadline,
	}
}

// RecallCardRepository is the bun-backed implementation of app.RecallCardRepository.
// Batch writes run in a single transaction so a partial failure never leaves
// a mix of updated and stale cards.
type RecallCardRepository struct {
	db *bun.DB
}

func NewRecallCardRepository(db *bun.DB) *RecallCardRepository {
	return &RecallCardRepository{db: db}
}

func (r *RecallCardRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.RecallCard, error) {
	var rows []recallCardRow
	err := r.db.NewSelect().Model(&rows).
		Where("owner_id = ?", userID).
		Order("review_deadline ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select recall cards: %w", err)
	}
	cards := make([]domain.RecallCard, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, row.toDomain())
	}
	return cards, nil
}

func (r *RecallCardRepository) GetByIDAndUser(ctx context.Context, cardID, userID uuid.UUID) (domain.RecallCard, error) {
	var row recallCardRow
	err := r.db.NewSelect().Model(&row).
		Where("id = ?", cardID).
		Where("owner_id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RecallCard{}, domain.ErrRecallCardNotFound
	}
	if err != nil {
		return domain.RecallCard{}, fmt.Errorf("select recall card: %w", err)
	}
	return row.toDomain(), nil
}

func (r *RecallCardRepository) GetMostOverdue(ctx context.Context, userID uuid.UUID) (domain.RecallCard, error) {
	var row recallCardRow
	err := r.db.NewSelect().Model(&row).
		Where("owner_id = ?", userID).
		Order("review_deadline ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RecallCard{}, domain.ErrRecallCardNotFound
	}
	if err != nil {
		return domain.RecallCard{}, fmt.Errorf("select most overdue card: %w", err)
	}
	return row.toDomain(), nil
}

func (r *RecallCardRepository) CreateAll(ctx context.Context, cards []domain.RecallCard) error {
	if len(cards) == 0 {
		return nil
	}
	rows := make([]recallCardRow, 0, len(cards))
	for _, card := range cards {
		rows = append(rows, toCardRow(card))
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert recall cards: %w", err)
		}
		return nil
	})
}

func (r *RecallCardRepository) UpdateAll(ctx context.Context, cards []domain.RecallCard) error {
	if len(cards) == 0 {
		return nil
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, card := range cards {
			row := toCardRow(card)
			res, err := tx.NewUpdate().Model(&row).
				WherePK().
				Where("owner_id = ?", card.OwnerID).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("update recall card %s: %w", card.ID, err)
			}
			affected, err := res.RowsAffected()
			if err == nil && affected == 0 {
				return domain.ErrRecallCardNotFound
			}
		}
		return nil
	})
}
