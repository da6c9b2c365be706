package domain

import "errors"

var (
	// ErrNoAnswers is returned when a test submission carries no answers at all.
	ErrNoAnswers = errors.New("at least one answer is required")
	// ErrInvalidStudyMode is returned for an unrecognized quiz selection mode.
	ErrInvalidStudyMode = errors.New("invalid study mode")
	// ErrAnswerCountMismatch indicates a submission whose answer count differs
	// from the number of messages in the reference conversation.
	ErrAnswerCountMismatch = errors.New("answer count does not match conversation length")
	// ErrQuizNotFound indicates the referenced quiz could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrNoEligibleQuiz is returned when no quiz matches the requested selection mode.
	ErrNoEligibleQuiz = errors.New("no eligible quiz for the requested mode")
	// ErrRecallCardNotFound indicates the referenced recall card does not exist.
	ErrRecallCardNotFound = errors.New("recall card not found")
	// ErrConversationNotFound indicates the referenced conversation does not exist.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrScheduleNotFound indicates no review schedule exists for the (user, quiz) pair.
	ErrScheduleNotFound = errors.New("review schedule not found")
)
