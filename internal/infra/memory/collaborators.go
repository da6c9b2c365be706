package memory

import (
	"context"

	"lingua-study-service/internal/domain"
	"lingua-study-service/internal/textdiff"
)

// StaticConversationGenerator returns a canned conversation regardless of the
// user's phrase. It stands in for the AI collaborator when no API key is
// configured (demo mode and tests).
type StaticConversationGenerator struct {
	conversation domain.GeneratedConversation
}

func NewStaticConversationGenerator(conversation domain.GeneratedConversation) *StaticConversationGenerator {
	return &StaticConversationGenerator{conversation: conversation}
}

func (g *StaticConversationGenerator) Generate(_ context.Context, _ string) (domain.GeneratedConversation, error) {
	return g.conversation, nil
}

// SimilarityAnswerEvaluator grades answers by text similarity against the
// quiz's model answer. It stands in for the AI evaluator when no API key is
// configured; feedback is a fixed phrase keyed off the score.
type SimilarityAnswerEvaluator struct{}

func NewSimilarityAnswerEvaluator() *SimilarityAnswerEvaluator {
	return &SimilarityAnswerEvaluator{}
}

func (e *SimilarityAnswerEvaluator) Evaluate(_ context.Context, _ string, modelAnswer, userAnswer string) (domain.AIEvaluation, error) {
	score := int(textdiff.Similarity(userAnswer, modelAnswer))
	feedback := "Keep practicing this phrase."
	if score >= 80 {
		feedback = "Close to the model answer. Well done."
	}
	return domain.AIEvaluation{
		Score:       score,
		Feedback:    feedback,
		ModelAnswer: modelAnswer,
	}, nil
}
