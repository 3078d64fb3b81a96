package chats

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/inference"
	"legaldoc-backend/internal/shared/metrics"
	"legaldoc-backend/internal/shared/telemetry"
)

// ApologyAnswer is returned when the AI service cannot answer; the caller
// still gets a usable chat response and the ledger stays untouched.
const ApologyAnswer = "Sorry, I could not generate an answer."

// DefaultContextChars bounds how much document text is prepended to a
// question. Long documents are never sent in full for Q&A.
const DefaultContextChars = 2000

// ErrEmptyQuestion is returned when the question has no content.
var ErrEmptyQuestion = errors.New("question is required")

// Service answers document-grounded questions and keeps the chat ledger.
type Service struct {
	Docs         documents.Repo
	Ledger       Repo
	AI           inference.Client
	ContextChars int
}

// Ask answers a question grounded in the document's text. On inference
// failure it returns the apology answer without error and appends nothing,
// so the thread never records a partial turn.
func (s *Service) Ask(ctx context.Context, userID, documentID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	doc, err := s.Docs.GetByID(ctx, userID, documentID)
	if err != nil {
		return "", err
	}

	answer, err := s.AI.Ask(ctx, contextualize(doc.Content, question, s.contextChars()))
	if err != nil {
		metrics.IncChatFallbacks()
		telemetry.Error("chat.inference_failed", map[string]any{
			"document_id": documentID,
			"error":       err.Error(),
		})
		return ApologyAnswer, nil
	}

	if err := s.Ledger.AppendTurn(ctx, userID, documentID, question, answer); err != nil {
		// The answer is already produced; losing the transcript entry is
		// logged and not surfaced.
		telemetry.Error("chat.append_failed", map[string]any{
			"document_id": documentID,
			"error":       err.Error(),
		})
		return answer, nil
	}

	metrics.IncChatTurns()
	return answer, nil
}

// History returns the thread for a (user, document) pair, empty when none.
func (s *Service) History(ctx context.Context, userID, documentID string) ([]Message, error) {
	return s.Ledger.History(ctx, userID, documentID)
}

func (s *Service) contextChars() int {
	if s.ContextChars > 0 {
		return s.ContextChars
	}
	return DefaultContextChars
}

// contextualize prepends a bounded prefix of the document text, matching the
// prompt shape the AI service's /ask endpoint expects.
func contextualize(content, question string, budget int) string {
	prefix := content
	if len(prefix) > budget {
		cut := budget
		for cut > 0 && !isRuneStart(prefix[cut]) {
			cut--
		}
		prefix = prefix[:cut]
	}
	return fmt.Sprintf("Based on this document content: %q..., please answer: %s", prefix, question)
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
