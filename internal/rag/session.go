package rag

import "strings"

// Turn is one completed question/answer exchange together with the context
// that grounded the answer.
type Turn struct {
	Question string
	Answer   string
	Context  string
}

// Session holds the ordered conversation history for a chat run. It is not
// safe for concurrent use; each interactive session owns one.
type Session struct {
	turns []Turn
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// Append records a completed turn.
func (s *Session) Append(t Turn) {
	s.turns = append(s.turns, t)
}

// Turns returns the recorded turns in order.
func (s *Session) Turns() []Turn {
	return s.turns
}

// History renders the prior turns as Q/A blocks for prompt inclusion.
func (s *Session) History() string {
	var b strings.Builder
	for _, t := range s.turns {
		b.WriteString("Q: ")
		b.WriteString(t.Question)
		b.WriteString("\nA: ")
		b.WriteString(t.Answer)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}
