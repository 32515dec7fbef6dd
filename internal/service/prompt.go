package service

import (
	"fmt"
	"strings"

	"github.com/cloo-solutions/backlogai/internal/domain"
)

// RefusalAnswer is the fixed reply the model is instructed to emit
// when the retrieved context cannot answer the question.
const RefusalAnswer = "The provided information does not contain enough detail to answer that."

const (
	contextInstruction = "Answer the user question based on the following context: %s."

	personaInstruction = "As a Business Analyst, I specialize in web application requirements—gathering and analyzing user needs, defining specifications, and aligning solutions with business goals."

	groundingInstruction = `You are a careful assistant helping answer user questions. Use only the information in the retrieved context below. If an answer is not explicitly stated, reply: "The provided information does not contain enough detail to answer that." Do not make up any rules, steps, or details that are not in the given context.`
)

// AssemblePrompt renders the chat prompt in its fixed order: the
// context instruction, the persona, the no-fabrication rule, the
// conversation history in original order, and the user question last.
// Only retrieved description text and the caller's literal turns go
// into the prompt; ids, titles, and scores never do.
func AssemblePrompt(contextTexts []string, history []domain.ChatTurn, question string) []domain.ChatTurn {
	turns := make([]domain.ChatTurn, 0, len(history)+4)
	turns = append(turns,
		domain.ChatTurn{
			Role:    domain.ChatRoleSystem,
			Content: fmt.Sprintf(contextInstruction, strings.Join(contextTexts, "\n")),
		},
		domain.ChatTurn{Role: domain.ChatRoleSystem, Content: personaInstruction},
		domain.ChatTurn{Role: domain.ChatRoleSystem, Content: groundingInstruction},
	)
	turns = append(turns, history...)
	turns = append(turns, domain.ChatTurn{Role: domain.ChatRoleUser, Content: question})
	return turns
}
