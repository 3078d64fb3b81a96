package chats

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/inference"
)

type fakeAI struct {
	answer       string
	err          error
	lastQuestion string
}

func (f *fakeAI) Summarize(ctx context.Context, input inference.SummarizeInput) (json.RawMessage, error) {
	return nil, errors.New("not used")
}

func (f *fakeAI) Ask(ctx context.Context, question string) (string, error) {
	f.lastQuestion = question
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func newChatFixture(t *testing.T, ai inference.Client) (*Service, documents.Repo, *MemoryRepo) {
	t.Helper()
	docs := documents.NewMemoryRepo()
	ledger := NewMemoryRepo()
	doc := documents.Document{
		ID:        "doc-1",
		UserID:    "user-1",
		FileName:  "contract.pdf",
		Content:   "The supplier shall deliver goods within thirty days of each purchase order.",
		Summaries: map[documents.Level]string{},
		CreatedAt: time.Now().UTC(),
	}
	if err := docs.Create(context.Background(), doc); err != nil {
		t.Fatalf("create doc: %v", err)
	}
	svc := &Service{Docs: docs, Ledger: ledger, AI: ai}
	return svc, docs, ledger
}

func TestAskAppendsQuestionAndAnswerInOrder(t *testing.T) {
	ai := &fakeAI{answer: "Within thirty days."}
	svc, _, ledger := newChatFixture(t, ai)

	answer, err := svc.Ask(context.Background(), "user-1", "doc-1", "When must goods be delivered?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer != "Within thirty days." {
		t.Fatalf("unexpected answer: %q", answer)
	}

	messages, err := ledger.History(context.Background(), "user-1", "doc-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != RoleUser || messages[0].Content != "When must goods be delivered?" {
		t.Fatalf("unexpected first message: %+v", messages[0])
	}
	if messages[1].Role != RoleAssistant || messages[1].Content != "Within thirty days." {
		t.Fatalf("unexpected second message: %+v", messages[1])
	}
}

func TestAskInferenceFailureReturnsApologyAndAppendsNothing(t *testing.T) {
	ai := &fakeAI{err: inference.ErrUnavailable}
	svc, _, ledger := newChatFixture(t, ai)

	answer, err := svc.Ask(context.Background(), "user-1", "doc-1", "Is there a penalty clause?")
	if err != nil {
		t.Fatalf("ask should not fail on inference error: %v", err)
	}
	if answer != ApologyAnswer {
		t.Fatalf("expected apology answer, got %q", answer)
	}

	messages, err := ledger.History(context.Background(), "user-1", "doc-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("ledger must stay empty after failed turn, got %d messages", len(messages))
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	svc, _, _ := newChatFixture(t, &fakeAI{})
	if _, err := svc.Ask(context.Background(), "user-1", "doc-1", "   "); !errors.Is(err, ErrEmptyQuestion) {
		t.Fatalf("expected ErrEmptyQuestion, got %v", err)
	}
}

func TestAskUnknownDocument(t *testing.T) {
	svc, _, _ := newChatFixture(t, &fakeAI{answer: "x"})
	if _, err := svc.Ask(context.Background(), "user-1", "ghost", "anything"); !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAskBoundsDocumentContext(t *testing.T) {
	ai := &fakeAI{answer: "ok"}
	docs := documents.NewMemoryRepo()
	long := strings.Repeat("clause text ", 1000)
	doc := documents.Document{ID: "doc-big", UserID: "user-1", Content: long, Summaries: map[documents.Level]string{}}
	if err := docs.Create(context.Background(), doc); err != nil {
		t.Fatalf("create: %v", err)
	}
	svc := &Service{Docs: docs, Ledger: NewMemoryRepo(), AI: ai, ContextChars: 100}

	if _, err := svc.Ask(context.Background(), "user-1", "doc-big", "short question"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if len(ai.lastQuestion) > 100+len("Based on this document content: %q..., please answer: short question")+10 {
		t.Fatalf("prompt not bounded: %d chars", len(ai.lastQuestion))
	}
	if !strings.Contains(ai.lastQuestion, "please answer: short question") {
		t.Fatalf("prompt missing question: %q", ai.lastQuestion)
	}
	if strings.Contains(ai.lastQuestion, long) {
		t.Fatalf("full document leaked into prompt")
	}
}

func TestContextualizeKeepsRuneBoundaries(t *testing.T) {
	content := strings.Repeat("é", 50)
	prompt := contextualize(content, "q", 25)
	if !strings.HasPrefix(prompt, "Based on this document content: ") {
		t.Fatalf("unexpected prompt: %q", prompt)
	}
	for _, r := range prompt {
		if r == '�' {
			t.Fatalf("prompt contains replacement rune: %q", prompt)
		}
	}
}

func TestAskSurvivesLedgerFailure(t *testing.T) {
	ai := &fakeAI{answer: "the answer"}
	docs := documents.NewMemoryRepo()
	doc := documents.Document{ID: "doc-1", UserID: "user-1", Content: "text", Summaries: map[documents.Level]string{}}
	if err := docs.Create(context.Background(), doc); err != nil {
		t.Fatalf("create: %v", err)
	}
	svc := &Service{Docs: docs, Ledger: failingLedger{}, AI: ai}

	answer, err := svc.Ask(context.Background(), "user-1", "doc-1", "q")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer != "the answer" {
		t.Fatalf("answer lost on ledger failure: %q", answer)
	}
}

type failingLedger struct{}

func (failingLedger) AppendTurn(ctx context.Context, userID, documentID, question, answer string) error {
	return errors.New("disk full")
}

func (failingLedger) History(ctx context.Context, userID, documentID string) ([]Message, error) {
	return []Message{}, nil
}

func (failingLedger) DeleteForDocument(ctx context.Context, userID, documentID string) error {
	return nil
}
