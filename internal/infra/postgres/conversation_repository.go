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

type conversationRow struct {
	bun.BaseModel `bun:"table:conversations"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	OwnerID   uuid.UUID `bun:"owner_id,type:uuid"`
	Title     string    `bun:"title"`
	Order     int       `bun:"conversation_order"`
	CreatedAt time.Time `bun:"created_at"`
}

type messageRow struct {
	bun.BaseModel `bun:"table:conversation_messages"`

	ConversationID uuid.UUID `bun:"conversation_id,pk,type:uuid"`
	Order          int       `bun:"message_order,pk"`
	Speaker        int       `bun:"speaker"`
	Text           string    `bun:"text"`
	Translation    string    `bun:"translation"`
	CreatedAt      time.Time `bun:"created_at"`
}

func (r conversationRow) toDomain(messages []domain.Message) domain.Conversation {
	return domain.Conversation{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Title:     r.Title,
		Order:     r.Order,
		CreatedAt: r.CreatedAt,
		Messages:  messages,
	}
}

func (r messageRow) toDomain() domain.Message {
	return domain.Message{
		ConversationID: r.ConversationID,
		Order:          r.Order,
		Speaker:        r.Speaker,
		Text:           r.Text,
		Translation:    r.Translation,
		CreatedAt:      r.CreatedAt,
	}
}

// ConversationRepository persists conversations together with their messages.
// A conversation and its messages are written in one transaction.
type ConversationRepository struct {
	db *bun.DB
}

func NewConversationRepository(db *bun.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	var rows []conversationRow
	err := r.db.NewSelect().Model(&rows).
		Where("owner_id = ?", userID).
		Order("conversation_order DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select conversations: %w", err)
	}
	conversations := make([]domain.Conversation, 0, len(rows))
	for _, row := range rows {
		messages, err := r.messagesFor(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, row.toDomain(messages))
	}
	return conversations, nil
}

func (r *ConversationRepository) Get(ctx context.Context, conversationID, userID uuid.UUID) (domain.Conversation, error) {
	var row conversationRow
	err := r.db.NewSelect().Model(&row).
		Where("id = ?", conversationID).
		Where("owner_id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("select conversation: %w", err)
	}
	messages, err := r.messagesFor(ctx, row.ID)
	if err != nil {
		return domain.Conversation{}, err
	}
	return row.toDomain(messages), nil
}

func (r *ConversationRepository) Create(ctx context.Context, conversation domain.Conversation) error {
	convRow := conversationRow{
		ID:        conversation.ID,
		OwnerID:   conversation.OwnerID,
		Title:     conversation.Title,
		Order:     conversation.Order,
		CreatedAt: conversation.CreatedAt,
	}
	msgRows := make([]messageRow, 0, len(conversation.Messages))
	for _, message := range conversation.Messages {
		msgRows = append(msgRows, messageRow{
			ConversationID: message.ConversationID,
			Order:          message.Order,
			Speaker:        message.Speaker,
			Text:           message.Text,
			Translation:    message.Translation,
			CreatedAt:      message.CreatedAt,
		})
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&convRow).Exec(ctx); err != nil {
			return fmt.Errorf("insert conversation: %w", err)
		}
		if len(msgRows) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&msgRows).Exec(ctx); err != nil {
			return fmt.Errorf("insert conversation messages: %w", err)
		}
		return nil
	})
}

func (r *ConversationRepository) messagesFor(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	var rows []messageRow
	err := r.db.NewSelect().Model(&rows).
		Where("conversation_id = ?", conversationID).
		Order("message_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select conversation messages: %w", err)
	}
	messages := make([]domain.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, row.toDomain())
	}
	return messages, nil
}
