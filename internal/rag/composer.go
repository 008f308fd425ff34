package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/filingrag/filingrag/internal/llm"
	"github.com/filingrag/filingrag/internal/store"
)

// RefusalAnswer is the fixed response the model is instructed to return when
// the retrieved context does not cover the question.
const RefusalAnswer = "Sorry, I don't have the information to answer that question."

// promptTemplate frames the model as a grounded analyst. The context and
// history sections are filled per question.
const promptTemplate = `Role:
You are a financial research analyst AI assistant.
Answer the following question using only the context below.

Format:
- Keep the answer concise, simple, understandable and to the point.
- Ensure that the answer is uniform in style and structure, transform the answer if needed.
- Answer with relevant citations.
- Cite the source (ticker, filing_type, filing_date[Year-Month]) where relevant.

Constraints:
- If the question is not relevant to the context, do not answer, return "%s"
- If the question is not clear, please ask for clarification.
- Do not provide your own opinion on the question, only answer the question based on the context.

Chat History:
%s

Question: %s

Context:
%s

Answer:
`

// Composer renders retrieved chunks and conversation history into a prompt
// and asks the completion provider for an answer.
type Composer struct {
	provider llm.Provider
}

// NewComposer creates a composer over the given provider.
func NewComposer(provider llm.Provider) *Composer {
	return &Composer{provider: provider}
}

// FormatContext renders each retrieved chunk as a bracketed citation header
// followed by the chunk text, blocks joined by blank lines.
func FormatContext(results []store.SearchResult) string {
	blocks := make([]string, 0, len(results))
	for _, res := range results {
		header := fmt.Sprintf("[%s, %s, %s, %s]",
			metaField(res.Metadata, "ticker"),
			metaField(res.Metadata, "filing_type"),
			metaField(res.Metadata, "section"),
			metaField(res.Metadata, "filing_date"))
		blocks = append(blocks, header+":\n"+res.Text)
	}
	return strings.Join(blocks, "\n\n")
}

// metaField stringifies one metadata value, empty when the key is absent.
func metaField(meta map[string]any, key string) string {
	v, ok := meta[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// BuildPrompt fills the template. Missing metadata keys render as empty
// strings inside the citation header.
func BuildPrompt(question, history string, results []store.SearchResult) string {
	return fmt.Sprintf(promptTemplate, RefusalAnswer, strings.TrimSpace(history), question, FormatContext(results))
}

// Compose renders the prompt and returns the provider's answer.
func (c *Composer) Compose(ctx context.Context, question, history string, results []store.SearchResult) (string, error) {
	if c.provider == nil {
		return "", fmt.Errorf("no completion provider configured")
	}
	answer, err := c.provider.Complete(ctx, BuildPrompt(question, history, results))
	if err != nil {
		return "", fmt.Errorf("compose answer: %w", err)
	}
	return answer, nil
}
