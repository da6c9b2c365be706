// Package selection picks the next quiz to present, mixing new and overdue
// items according to the requested study mode.
package selection

import (
	"math/rand"

	"github.com/google/uuid"

	"lingua-study-service/internal/domain"
)

// Mode controls which candidate pool the next quiz is drawn from.
type Mode string

const (
	ModeNew    Mode = "new"    // quizzes the user has never answered
	ModeReview Mode = "review" // quizzes with an overdue review schedule
	ModeMixed  Mode = "mixed"  // union of both pools
)

// ParseMode validates a mode string coming in from the service boundary.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeNew, ModeReview, ModeMixed:
		return Mode(raw), nil
	}
	return "", domain.ErrInvalidStudyMode
}

// Next draws one quiz uniformly at random from the candidate pool for mode.
// quizzes is the full (optionally type-filtered) quiz list; answered holds
// the IDs the user has already answered; overdue holds the IDs whose review
// deadline has passed. Candidates are drawn by shuffling and taking the
// first; how overdue an item is carries no weight. An empty pool yields
// domain.ErrNoEligibleQuiz, an unknown mode domain.ErrInvalidStudyMode.
func Next(rng *rand.Rand, quizzes []domain.Quiz, answered, overdue map[uuid.UUID]bool, mode Mode) (domain.Quiz, error) {
	switch mode {
	case ModeNew, ModeReview, ModeMixed:
	default:
		return domain.Quiz{}, domain.ErrInvalidStudyMode
	}

	var candidates []domain.Quiz
	seen := make(map[uuid.UUID]bool)
	add := func(quiz domain.Quiz) {
		if !seen[quiz.ID] {
			seen[quiz.ID] = true
			candidates = append(candidates, quiz)
		}
	}

	if mode == ModeNew || mode == ModeMixed {
		for _, quiz := range quizzes {
			if !answered[quiz.ID] {
				add(quiz)
			}
		}
	}
	if mode == ModeReview || mode == ModeMixed {
		for _, quiz := range quizzes {
			if overdue[quiz.ID] {
				add(quiz)
			}
		}
	}

	if len(candidates) == 0 {
		return domain.Quiz{}, domain.ErrNoEligibleQuiz
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates[0], nil
}
