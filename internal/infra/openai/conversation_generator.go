package openai

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"lingua-study-service/internal/domain"
)

const generatorSystemPrompt = `You create short example conversations for a Japanese learner of English.
Given a phrase the learner wants to practice, write a natural two-person
conversation of 4 to 6 lines that uses the phrase. Respond with JSON only:
{"title": string, "lines": [{"text": string, "translation": string}]}
"text" is the English line, "translation" is its Japanese translation.`

// ConversationGenerator produces example conversations from a learner phrase.
type ConversationGenerator struct {
	client *Client
}

func NewConversationGenerator(client *Client) *ConversationGenerator {
	return &ConversationGenerator{client: client}
}

func (g *ConversationGenerator) Generate(ctx context.Context, userPhrase string) (domain.GeneratedConversation, error) {
	var body struct {
		Title string `json:"title"`
		Lines []struct {
			Text        string `json:"text"`
			Translation string `json:"translation"`
		} `json:"lines"`
	}
	prompt := fmt.Sprintf("Phrase to practice: %s", userPhrase)
	if err := g.client.completeJSON(ctx, generatorSystemPrompt, prompt, &body); err != nil {
		return domain.GeneratedConversation{}, errors.Wrap(err, "generate conversation")
	}
	if len(body.Lines) == 0 {
		return domain.GeneratedConversation{}, errors.New("generated conversation has no lines")
	}

	lines := make([]domain.GeneratedLine, 0, len(body.Lines))
	for _, line := range body.Lines {
		lines = append(lines, domain.GeneratedLine{
			Text:        line.Text,
			Translation: line.Translation,
		})
	}
	return domain.GeneratedConversation{
		Title: body.Title,
		Lines: lines,
	}, nil
}
