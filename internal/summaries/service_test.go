package summaries

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/inference"
)

type fakeAI struct {
	calls     int32
	response  json.RawMessage
	err       error
	lastInput inference.SummarizeInput
}

func (f *fakeAI) Summarize(ctx context.Context, input inference.SummarizeInput) (json.RawMessage, error) {
	atomic.AddInt32(&f.calls, 1)
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeAI) Ask(ctx context.Context, question string) (string, error) {
	return "", errors.New("not used")
}

func TestSummarizeGeneratesThenServesCached(t *testing.T) {
	repo := documents.NewMemoryRepo()
	doc := seedDoc(t, repo)
	ai := &fakeAI{response: json.RawMessage(`{"summary":"Plain terms.","structuredData":{"importantDates":{"startDate":"Jan 1, 2025"},"overallRiskAssessment":{"level":"low"}}}`)}
	svc := NewService(repo, ai)

	res, err := svc.Summarize(context.Background(), doc.UserID, doc.ID, documents.LevelBeginner)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if res.Cached {
		t.Fatalf("first result should be generated, not cached")
	}
	if res.Summary != "Plain terms." {
		t.Fatalf("unexpected summary: %q", res.Summary)
	}
	if ai.lastInput.Level != "beginner" || ai.lastInput.DocumentID != doc.ID {
		t.Fatalf("unexpected inference input: %+v", ai.lastInput)
	}

	res, err = svc.Summarize(context.Background(), doc.UserID, doc.ID, documents.LevelBeginner)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !res.Cached {
		t.Fatalf("second result should be cached")
	}
	if res.StructuredData == nil || res.StructuredData.OverallRiskAssessment == nil ||
		res.StructuredData.OverallRiskAssessment.Level != "low" {
		t.Fatalf("cached result lost extraction: %+v", res.StructuredData)
	}
	if res.StructuredData.ImportantDates == nil || res.StructuredData.ImportantDates.StartDate != "Jan 1, 2025" {
		t.Fatalf("cached result lost dates: %+v", res.StructuredData.ImportantDates)
	}
	if got := atomic.LoadInt32(&ai.calls); got != 1 {
		t.Fatalf("expected 1 inference call, got %d", got)
	}
}

func TestSummarizeDifferentLevelsAreIndependent(t *testing.T) {
	repo := documents.NewMemoryRepo()
	doc := seedDoc(t, repo)
	ai := &fakeAI{response: json.RawMessage(`"level summary"`)}
	svc := NewService(repo, ai)

	if _, err := svc.Summarize(context.Background(), doc.UserID, doc.ID, documents.LevelBeginner); err != nil {
		t.Fatalf("beginner: %v", err)
	}
	if _, err := svc.Summarize(context.Background(), doc.UserID, doc.ID, documents.LevelExpert); err != nil {
		t.Fatalf("expert: %v", err)
	}
	if got := atomic.LoadInt32(&ai.calls); got != 2 {
		t.Fatalf("expected one call per level, got %d", got)
	}
}

func TestSummarizeInvalidLevel(t *testing.T) {
	repo := documents.NewMemoryRepo()
	doc := seedDoc(t, repo)
	svc := NewService(repo, &fakeAI{})

	if _, err := svc.Summarize(context.Background(), doc.UserID, doc.ID, "advanced"); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
}

func TestSummarizeUnknownDocument(t *testing.T) {
	repo := documents.NewMemoryRepo()
	svc := NewService(repo, &fakeAI{})

	if _, err := svc.Summarize(context.Background(), "user-1", "nope", documents.LevelBeginner); !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSummarizeOwnershipEnforced(t *testing.T) {
	repo := documents.NewMemoryRepo()
	doc := seedDoc(t, repo)
	svc := NewService(repo, &fakeAI{response: json.RawMessage(`"s"`)})

	if _, err := svc.Summarize(context.Background(), "someone-else", doc.ID, documents.LevelBeginner); !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign document, got %v", err)
	}
}

func TestSummarizePropagatesInferenceErrors(t *testing.T) {
	repo := documents.NewMemoryRepo()
	doc := seedDoc(t, repo)
	ai := &fakeAI{err: inference.ErrUnavailable}
	svc := NewService(repo, ai)

	_, err := svc.Summarize(context.Background(), doc.UserID, doc.ID, documents.LevelModerate)
	if !errors.Is(err, inference.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	// Failure must not poison the cache.
	ai.err = nil
	ai.response = json.RawMessage(`"recovered"`)
	res, err := svc.Summarize(context.Background(), doc.UserID, doc.ID, documents.LevelModerate)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if res.Summary != "recovered" {
		t.Fatalf("unexpected summary: %q", res.Summary)
	}
}

func TestWarmAllCoversEveryLevel(t *testing.T) {
	repo := documents.NewMemoryRepo()
	doc := seedDoc(t, repo)
	ai := &fakeAI{response: json.RawMessage(`"warmed"`)}
	svc := NewService(repo, ai)

	if ok := svc.WarmAll(context.Background(), doc); !ok {
		t.Fatalf("expected warm-up to succeed")
	}

	fresh, err := repo.GetByID(context.Background(), doc.UserID, doc.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	for _, level := range documents.Levels {
		if _, ok := fresh.Summary(level); !ok {
			t.Fatalf("missing summary for level %s", level)
		}
	}
	if !fresh.IsProcessed {
		t.Fatalf("expected processed flag")
	}
}

func TestWarmAllReportsPartialFailure(t *testing.T) {
	repo := documents.NewMemoryRepo()
	doc := seedDoc(t, repo)
	ai := &fakeAI{err: inference.ErrTimeout}
	svc := NewService(repo, ai)

	if ok := svc.WarmAll(context.Background(), doc); ok {
		t.Fatalf("expected warm-up to report failure")
	}
}
