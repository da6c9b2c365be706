package recall

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingua-study-service/internal/domain"
)

func newCard(point int, deadline time.Time) domain.RecallCard {
	return domain.RecallCard{
		ID:             uuid.New(),
		OwnerID:        uuid.New(),
		Question:       "また明日ね。",
		Answer:         "See you tomorrow.",
		CorrectPoint:   point,
		ReviewDeadline: deadline,
	}
}

func TestApplyCorrect(t *testing.T) {
	deadline := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("exact answer increments and pushes the deadline", func(t *testing.T) {
		card := newCard(0, deadline)
		next := Apply(card, "See you tomorrow.")
		assert.Equal(t, 1, next.CorrectPoint)
		// 1^3.2 minutes = 1 minute.
		assert.Equal(t, deadline.Add(time.Minute), next.ReviewDeadline)
	})

	t.Run("backoff compounds with the point count", func(t *testing.T) {
		card := newCard(3, deadline)
		next := Apply(card, "See you tomorrow.")
		assert.Equal(t, 4, next.CorrectPoint)
		want := deadline.Add(time.Duration(math.Pow(4, 3.2) * float64(time.Minute)))
		assert.Equal(t, want, next.ReviewDeadline)
	})

	t.Run("near-exact answer still counts", func(t *testing.T) {
		card := newCard(0, deadline)
		next := Apply(card, "See you tomorrow")
		assert.Equal(t, 1, next.CorrectPoint)
	})

	t.Run("input card is not mutated", func(t *testing.T) {
		card := newCard(2, deadline)
		_ = Apply(card, "See you tomorrow.")
		assert.Equal(t, 2, card.CorrectPoint)
		assert.Equal(t, deadline, card.ReviewDeadline)
	})
}

func TestApplyIncorrect(t *testing.T) {
	deadline := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("wrong answer docks points and keeps the deadline", func(t *testing.T) {
		card := newCard(12, deadline)
		next := Apply(card, "Good night.")
		assert.Equal(t, 7, next.CorrectPoint)
		assert.Equal(t, deadline, next.ReviewDeadline)
	})

	t.Run("points floor at zero per step", func(t *testing.T) {
		card := newCard(12, deadline)
		for _, want := range []int{7, 2, 0, 0} {
			card = Apply(card, "Good night.")
			assert.Equal(t, want, card.CorrectPoint)
		}
	})
}

func TestNewCards(t *testing.T) {
	ownerID := uuid.New()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	lines := []domain.GeneratedLine{
		{Text: "Hi, could I get a latte, please?", Translation: "こんにちは、ラテをお願いできますか。"},
		{Text: "Sure, what size would you like?", Translation: "かしこまりました、サイズはいかがなさいますか。"},
	}

	cards := NewCards(ownerID, lines, now)
	require.Len(t, cards, 2)
	for i, card := range cards {
		assert.NotEqual(t, uuid.Nil, card.ID)
		assert.Equal(t, ownerID, card.OwnerID)
		assert.Equal(t, lines[i].Translation, card.Question)
		assert.Equal(t, lines[i].Text, card.Answer)
		assert.Zero(t, card.CorrectPoint)
		assert.Equal(t, now, card.ReviewDeadline)
	}
}
