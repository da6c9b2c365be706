package openai

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"lingua-study-service/internal/domain"
)

const evaluatorSystemPrompt = `You grade a language learner's free-form answer to a quiz question.
Score how well the answer conveys the same meaning as the model answer,
from 0 (unrelated) to 100 (equivalent). Minor grammar slips cost a few
points; wrong meaning costs most. Respond with JSON only:
{"score": integer, "feedback": string, "modelAnswer": string}
"feedback" is one or two sentences in Japanese explaining the grade and
"modelAnswer" restates the best possible answer.`

// AnswerEvaluator grades free-form quiz answers.
type AnswerEvaluator struct {
	client *Client
}

func NewAnswerEvaluator(client *Client) *AnswerEvaluator {
	return &AnswerEvaluator{client: client}
}

func (e *AnswerEvaluator) Evaluate(ctx context.Context, question, modelAnswer, userAnswer string) (domain.AIEvaluation, error) {
	var body struct {
		Score       int    `json:"score"`
		Feedback    string `json:"feedback"`
		ModelAnswer string `json:"modelAnswer"`
	}
	prompt := fmt.Sprintf("Question: %s\nModel answer: %s\nLearner's answer: %s", question, modelAnswer, userAnswer)
	if err := e.client.completeJSON(ctx, evaluatorSystemPrompt, prompt, &body); err != nil {
		return domain.AIEvaluation{}, errors.Wrap(err, "evaluate answer")
	}
	if body.Score < 0 {
		body.Score = 0
	}
	if body.Score > 100 {
		body.Score = 100
	}
	if body.ModelAnswer == "" {
		body.ModelAnswer = modelAnswer
	}
	return domain.AIEvaluation{
		Score:       body.Score,
		Feedback:    body.Feedback,
		ModelAnswer: body.ModelAnswer,
	}, nil
}
