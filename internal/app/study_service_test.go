package app_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"lingua-study-service/internal/app"
	"lingua-study-service/internal/domain"
	"lingua-study-service/internal/infra/memory"
	"lingua-study-service/internal/selection"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// scriptedEvaluator returns a fixed sequence of scores.
type scriptedEvaluator struct {
	scores []int
	calls  int
}

func (e *scriptedEvaluator) Evaluate(_ context.Context, _, modelAnswer, _ string) (domain.AIEvaluation, error) {
	score := e.scores[e.calls%len(e.scores)]
	e.calls++
	return domain.AIEvaluation{Score: score, Feedback: "scripted", ModelAnswer: modelAnswer}, nil
}

type studyFixture struct {
	service   *app.StudyService
	quizzes   []domain.Quiz
	answers   *memory.UserAnswerRepository
	schedules *memory.ReviewScheduleRepository
}

func newStudyFixture(t *testing.T, evaluator app.AnswerEvaluator) *studyFixture {
	t.Helper()
	typeID := uuid.New()
	quizzes := []domain.Quiz{
		{ID: uuid.New(), Question: "Translate: おはよう", ModelAnswer: "Good morning.", QuizTypeID: typeID},
		{ID: uuid.New(), Question: "Translate: また明日", ModelAnswer: "See you tomorrow.", QuizTypeID: typeID},
		{ID: uuid.New(), Question: "Translate: ありがとう", ModelAnswer: "Thank you.", QuizTypeID: uuid.New()},
	}
	byID := make(map[uuid.UUID]domain.Quiz, len(quizzes))
	for _, quiz := range quizzes {
		byID[quiz.ID] = quiz
	}

	answers := memory.NewUserAnswerRepository()
	schedules := memory.NewReviewScheduleRepository()
	service := app.NewStudyServiceWithClock(
		memory.NewQuizRepository(memory.NewStaticQuizLoader(byID), time.Minute),
		memory.NewQuizTypeRepository([]domain.QuizType{{ID: typeID, Name: "grammar"}}),
		answers,
		schedules,
		evaluator,
		func() time.Time { return testNow },
		rand.New(rand.NewSource(7)),
	)
	return &studyFixture{service: service, quizzes: quizzes, answers: answers, schedules: schedules}
}

func TestSubmitAnswerRecordsAndSchedules(t *testing.T) {
	ctx := context.Background()
	fx := newStudyFixture(t, &scriptedEvaluator{scores: []int{95}})
	userID := uuid.New()
	quiz := fx.quizzes[0]

	answer, schedule, err := fx.service.SubmitAnswer(ctx, userID, quiz.ID, "Good morning.")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if answer.Evaluation.Score != 95 {
		t.Fatalf("expected score 95, got %d", answer.Evaluation.Score)
	}
	if answer.AnsweredAt != testNow {
		t.Fatalf("expected answer stamped with the service clock, got %v", answer.AnsweredAt)
	}

	// One 95 history: recency 3.0, streak 1.0, average 1.2; 3 days * 3.6.
	want := testNow.Add(time.Duration(10.8 * 24 * float64(time.Hour)))
	if diff := schedule.ReviewDeadline.Sub(want); diff < -time.Second || diff > time.Second {
		t.Fatalf("expected deadline near %v, got %v", want, schedule.ReviewDeadline)
	}

	stored, err := fx.schedules.Get(ctx, userID, quiz.ID)
	if err != nil {
		t.Fatalf("schedule not stored: %v", err)
	}
	if stored.ReviewDeadline != schedule.ReviewDeadline {
		t.Fatalf("stored schedule differs: %v vs %v", stored.ReviewDeadline, schedule.ReviewDeadline)
	}
}

func TestSubmitAnswerReusesSchedule(t *testing.T) {
	ctx := context.Background()
	fx := newStudyFixture(t, &scriptedEvaluator{scores: []int{90, 95}})
	userID := uuid.New()
	quiz := fx.quizzes[0]

	_, first, err := fx.service.SubmitAnswer(ctx, userID, quiz.ID, "Good morning.")
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	_, second, err := fx.service.SubmitAnswer(ctx, userID, quiz.ID, "Good morning.")
	if err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected one schedule per (user, quiz), got %s and %s", first.ID, second.ID)
	}

	all, err := fx.schedules.GetAllByUser(ctx, userID)
	if err != nil {
		t.Fatalf("list schedules: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 schedule, got %d", len(all))
	}
}

func TestSubmitAnswerUnknownQuiz(t *testing.T) {
	ctx := context.Background()
	fx := newStudyFixture(t, &scriptedEvaluator{scores: []int{90}})

	_, _, err := fx.service.SubmitAnswer(ctx, uuid.New(), uuid.New(), "whatever")
	if err != domain.ErrQuizNotFound {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

func TestNextQuizNewModeSkipsAnswered(t *testing.T) {
	ctx := context.Background()
	fx := newStudyFixture(t, &scriptedEvaluator{scores: []int{90}})
	userID := uuid.New()

	if _, _, err := fx.service.SubmitAnswer(ctx, userID, fx.quizzes[0].ID, "x"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, _, err := fx.service.SubmitAnswer(ctx, userID, fx.quizzes[1].ID, "x"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	quiz, err := fx.service.NextQuiz(ctx, userID, nil, selection.ModeNew)
	if err != nil {
		t.Fatalf("next quiz failed: %v", err)
	}
	if quiz.ID != fx.quizzes[2].ID {
		t.Fatalf("expected the only unanswered quiz, got %s", quiz.ID)
	}
}

func TestNextQuizReviewModeNeedsOverdueSchedule(t *testing.T) {
	ctx := context.Background()
	// Low scores shrink the interval, but the deadline still lands in the
	// future, so nothing is due right after answering.
	fx := newStudyFixture(t, &scriptedEvaluator{scores: []int{10}})
	userID := uuid.New()

	if _, _, err := fx.service.SubmitAnswer(ctx, userID, fx.quizzes[0].ID, "x"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	_, err := fx.service.NextQuiz(ctx, userID, nil, selection.ModeReview)
	if err != domain.ErrNoEligibleQuiz {
		t.Fatalf("expected no eligible quiz, got %v", err)
	}
}

func TestNextQuizFiltersByType(t *testing.T) {
	ctx := context.Background()
	fx := newStudyFixture(t, &scriptedEvaluator{scores: []int{90}})
	typeID := fx.quizzes[0].QuizTypeID

	for i := 0; i < 10; i++ {
		quiz, err := fx.service.NextQuiz(ctx, uuid.New(), &typeID, selection.ModeNew)
		if err != nil {
			t.Fatalf("next quiz failed: %v", err)
		}
		if quiz.QuizTypeID != typeID {
			t.Fatalf("expected only quizzes of type %s, got %s", typeID, quiz.QuizTypeID)
		}
	}
}

func TestNextQuizInvalidMode(t *testing.T) {
	ctx := context.Background()
	fx := newStudyFixture(t, &scriptedEvaluator{scores: []int{90}})

	_, err := fx.service.NextQuiz(ctx, uuid.New(), nil, selection.Mode("cram"))
	if err != domain.ErrInvalidStudyMode {
		t.Fatalf("expected invalid mode error, got %v", err)
	}
}

func TestAverageScoreTruncates(t *testing.T) {
	ctx := context.Background()
	fx := newStudyFixture(t, &scriptedEvaluator{scores: []int{100, 69}})
	userID := uuid.New()

	if _, _, err := fx.service.SubmitAnswer(ctx, userID, fx.quizzes[0].ID, "x"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, _, err := fx.service.SubmitAnswer(ctx, userID, fx.quizzes[1].ID, "x"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	average, err := fx.service.AverageScore(ctx, userID)
	if err != nil {
		t.Fatalf("average failed: %v", err)
	}
	if average != 84 { // (100+69)/2 truncated
		t.Fatalf("expected 84, got %d", average)
	}
}

func TestAverageScoreNoAnswers(t *testing.T) {
	ctx := context.Background()
	fx := newStudyFixture(t, &scriptedEvaluator{scores: []int{90}})

	average, err := fx.service.AverageScore(ctx, uuid.New())
	if err != nil {
		t.Fatalf("average failed: %v", err)
	}
	if average != 0 {
		t.Fatalf("expected 0 for no answers, got %d", average)
	}
}

func TestUnansweredCount(t *testing.T) {
	ctx := context.Background()
	fx := newStudyFixture(t, &scriptedEvaluator{scores: []int{90}})
	userID := uuid.New()

	count, err := fx.service.UnansweredCount(ctx, userID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 unanswered, got %d", count)
	}

	if _, _, err := fx.service.SubmitAnswer(ctx, userID, fx.quizzes[0].ID, "x"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	count, err = fx.service.UnansweredCount(ctx, userID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unanswered, got %d", count)
	}
}

func TestOverdueCounts(t *testing.T) {
	ctx := context.Background()
	fx := newStudyFixture(t, &scriptedEvaluator{scores: []int{90}})
	userID := uuid.New()

	if _, _, err := fx.service.SubmitAnswer(ctx, userID, fx.quizzes[0].ID, "x"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	overdue, upcoming, err := fx.service.OverdueCounts(ctx, userID)
	if err != nil {
		t.Fatalf("counts failed: %v", err)
	}
	if overdue != 0 || upcoming != 1 {
		t.Fatalf("expected 0 overdue / 1 upcoming, got %d / %d", overdue, upcoming)
	}
}
