package response

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-studymate-be/pkg/llm"
	"ai-studymate-be/pkg/store"
)

// RefusalAnswer is returned without calling the completion provider when
// retrieval found no relevant content.
const RefusalAnswer = "I cannot answer this question based on the study material provided."

// Generator produces answers bound strictly to the assembled context.
// Provider failures surface as-is; a degraded answer is the caller's policy,
// never fabricated here.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Generate answers the question from contextText, with bounded recent history
// prepended for conversational continuity. The caller truncates history.
func (g *Generator) Generate(
	ctx context.Context,
	question string,
	contextText string,
	history []llm.Message,
	variant store.Variant,
) (string, error) {

	promptText := buildGroundedPrompt(question, contextText, variant)

	fullHistory := make([]llm.Message, 0, len(history)+1)
	fullHistory = append(fullHistory, history...)
	fullHistory = append(fullHistory, llm.Message{Role: "user", Content: promptText})

	answer, err := g.llmProvider.Chat(ctx, fullHistory, llm.WithTemperature(0.2))
	if err != nil {
		g.logger.Printf("[GENERATION] Completion failed: %v", err)
		return "", err
	}

	g.logger.Printf("[GENERATION] Answer generated (%d characters, history %d turns)", len(answer), len(history))

	return strings.TrimSpace(answer), nil
}

func buildGroundedPrompt(question, contextText string, variant store.Variant) string {
	var prompt strings.Builder

	prompt.WriteString("<reference_material>\n")
	prompt.WriteString(contextText)
	prompt.WriteString("\n</reference_material>\n\n")

	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a study assistant answering questions about the material above.\n")
	prompt.WriteString("The numbered blocks [1], [2], ... are excerpts from the student's study material.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Answer ONLY using the text inside <reference_material>. Do NOT use outside knowledge.\n")
	prompt.WriteString("2. If the material does not contain enough information to answer, reply exactly: ")
	prompt.WriteString(fmt.Sprintf("%q\n", RefusalAnswer))
	prompt.WriteString("3. Be complete but concise; do not pad the answer.\n")
	prompt.WriteString("4. Do NOT cite block numbers in the answer. Citations are handled separately by the system.\n")
	if variant == store.VariantTranslated {
		prompt.WriteString("5. The material is a translated rendition; answer in the language of the material and the question.\n")
	}
	prompt.WriteString("</guidelines>\n\n")

	prompt.WriteString("<user_question>\n")
	prompt.WriteString(question)
	prompt.WriteString("\n</user_question>\n\n")

	prompt.WriteString("Answer:")

	return prompt.String()
}
