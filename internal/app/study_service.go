package app

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"lingua-study-service/internal/domain"
	"lingua-study-service/internal/review"
	"lingua-study-service/internal/selection"
)

// StudyService contains the quiz-track use cases: picking the next quiz,
// grading an answer, and keeping the review schedule current.
type StudyService struct {
	quizzes   QuizRepository
	quizTypes QuizTypeRepository
	answers   UserAnswerRepository
	schedules ReviewScheduleRepository
	evaluator AnswerEvaluator
	now       func() time.Time
	rng       *rand.Rand
}

func NewStudyService(quizzes QuizRepository, quizTypes QuizTypeRepository, answers UserAnswerRepository, schedules ReviewScheduleRepository, evaluator AnswerEvaluator) *StudyService {
	return NewStudyServiceWithClock(quizzes, quizTypes, answers, schedules, evaluator,
		time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewStudyServiceWithClock allows deterministic timestamps and selection in tests.
func NewStudyServiceWithClock(quizzes QuizRepository, quizTypes QuizTypeRepository, answers UserAnswerRepository, schedules ReviewScheduleRepository, evaluator AnswerEvaluator, now func() time.Time, rng *rand.Rand) *StudyService {
	return &StudyService{
		quizzes:   quizzes,
		quizTypes: quizTypes,
		answers:   answers,
		schedules: schedules,
		evaluator: evaluator,
		now:       now,
		rng:       rng,
	}
}

// NextQuiz picks the next quiz for the user. quizTypeID optionally narrows
// the pool to one category; mode decides whether new, overdue, or both kinds
// of quizzes are eligible.
func (s *StudyService) NextQuiz(ctx context.Context, userID uuid.UUID, quizTypeID *uuid.UUID, mode selection.Mode) (domain.Quiz, error) {
	var (
		quizzes []domain.Quiz
		err     error
	)
	if quizTypeID != nil {
		quizzes, err = s.quizzes.GetAllByType(ctx, *quizTypeID)
	} else {
		quizzes, err = s.quizzes.GetAll(ctx)
	}
	if err != nil {
		return domain.Quiz{}, err
	}

	history, err := s.answers.GetAllByUser(ctx, userID)
	if err != nil {
		return domain.Quiz{}, err
	}
	answered := make(map[uuid.UUID]bool, len(history))
	for _, answer := range history {
		answered[answer.QuizID] = true
	}

	schedules, err := s.schedules.GetAllByUser(ctx, userID)
	if err != nil {
		return domain.Quiz{}, err
	}
	now := s.now()
	overdue := make(map[uuid.UUID]bool)
	for _, schedule := range schedules {
		if schedule.ReviewDeadline.Before(now) {
			overdue[schedule.QuizID] = true
		}
	}

	return selection.Next(s.rng, quizzes, answered, overdue, mode)
}

// SubmitAnswer grades a free-text answer, records it, and recomputes the
// review schedule for the quiz from the user's full score history. The
// schedule is created on the first answer for a quiz.
func (s *StudyService) SubmitAnswer(ctx context.Context, userID, quizID uuid.UUID, answerText string) (domain.UserAnswer, domain.ReviewSchedule, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return domain.UserAnswer{}, domain.ReviewSchedule{}, err
	}

	eval, err := s.evaluator.Evaluate(ctx, quiz.Question, quiz.ModelAnswer, answerText)
	if err != nil {
		return domain.UserAnswer{}, domain.ReviewSchedule{}, err
	}

	answer := domain.UserAnswer{
		ID:         uuid.New(),
		OwnerID:    userID,
		QuizID:     quizID,
		AnswerText: answerText,
		Evaluation: eval,
		AnsweredAt: s.now(),
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		return domain.UserAnswer{}, domain.ReviewSchedule{}, err
	}

	schedule, err := s.rescheduleQuiz(ctx, userID, quizID)
	if err != nil {
		return domain.UserAnswer{}, domain.ReviewSchedule{}, err
	}
	return answer, schedule, nil
}

// rescheduleQuiz recomputes the review deadline from the stored score
// history, oldest score first.
func (s *StudyService) rescheduleQuiz(ctx context.Context, userID, quizID uuid.UUID) (domain.ReviewSchedule, error) {
	history, err := s.answers.GetAllByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return domain.ReviewSchedule{}, err
	}
	scores := make([]int, 0, len(history))
	for _, answer := range history {
		scores = append(scores, answer.Evaluation.Score)
	}

	created := false
	schedule, err := s.schedules.Get(ctx, userID, quizID)
	if errors.Is(err, domain.ErrScheduleNotFound) {
		created = true
		schedule = domain.ReviewSchedule{
			ID:             uuid.New(),
			OwnerID:        userID,
			QuizID:         quizID,
			ReviewDeadline: s.now(),
		}
	} else if err != nil {
		return domain.ReviewSchedule{}, err
	}

	schedule = review.Reschedule(schedule, scores, s.now())
	if created {
		err = s.schedules.Create(ctx, schedule)
	} else {
		err = s.schedules.Update(ctx, schedule)
	}
	if err != nil {
		return domain.ReviewSchedule{}, err
	}
	return schedule, nil
}

// QuizTypes lists the quiz categories.
func (s *StudyService) QuizTypes(ctx context.Context) ([]domain.QuizType, error) {
	return s.quizTypes.GetAll(ctx)
}

// AverageScore is the user's mean evaluation score across all answers,
// truncated to an integer. A user with no answers scores 0.
func (s *StudyService) AverageScore(ctx context.Context, userID uuid.UUID) (int, error) {
	history, err := s.answers.GetAllByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(history) == 0 {
		return 0, nil
	}
	total := 0
	for _, answer := range history {
		total += answer.Evaluation.Score
	}
	return total / len(history), nil
}

// UnansweredCount reports how many quizzes the user has never answered.
func (s *StudyService) UnansweredCount(ctx context.Context, userID uuid.UUID) (int, error) {
	quizzes, err := s.quizzes.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	history, err := s.answers.GetAllByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	answered := make(map[uuid.UUID]bool, len(history))
	for _, answer := range history {
		answered[answer.QuizID] = true
	}
	count := 0
	for _, quiz := range quizzes {
		if !answered[quiz.ID] {
			count++
		}
	}
	return count, nil
}

// OverdueCounts reports how many of the user's review schedules are past
// their deadline, and how many are still upcoming.
func (s *StudyService) OverdueCounts(ctx context.Context, userID uuid.UUID) (overdue, upcoming int, err error) {
	schedules, err := s.schedules.GetAllByUser(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	now := s.now()
	for _, schedule := range schedules {
		if schedule.ReviewDeadline.Before(now) {
			overdue++
		} else {
			upcoming++
		}
	}
	return overdue, upcoming, nil
}
