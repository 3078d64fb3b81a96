package summaries

import (
	"context"

	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/inference"
	"legaldoc-backend/internal/shared/metrics"
	"legaldoc-backend/internal/shared/telemetry"
)

// Service orchestrates summarization: ownership check, cache lookup, and on
// miss one inference call whose raw response is normalized before storage.
type Service struct {
	Docs  documents.Repo
	AI    inference.Client
	Cache *Cache
}

// NewService constructs a Service sharing one cache over the document repo.
func NewService(repo documents.Repo, ai inference.Client) *Service {
	return &Service{
		Docs:  repo,
		AI:    ai,
		Cache: &Cache{Repo: repo},
	}
}

// Summarize returns the summary for a document at the given level,
// generating and caching it on first request.
func (s *Service) Summarize(ctx context.Context, userID, documentID string, level documents.Level) (Result, error) {
	if !documents.ValidLevel(string(level)) {
		return Result{}, ErrInvalidLevel
	}

	doc, err := s.Docs.GetByID(ctx, userID, documentID)
	if err != nil {
		return Result{}, err
	}

	start := metrics.NowMillis()
	res, err := s.Cache.GetOrCompute(ctx, doc, level, func(ctx context.Context) (Result, error) {
		raw, err := s.AI.Summarize(ctx, inference.SummarizeInput{
			Text:       doc.Content,
			Level:      string(level),
			DocumentID: doc.ID,
		})
		if err != nil {
			metrics.IncInferenceFailed()
			return Result{}, err
		}
		return Normalize(raw), nil
	})
	if err != nil {
		return Result{}, err
	}
	metrics.ObserveSummarizeDurationMs(metrics.NowMillis() - start)
	return res, nil
}

// WarmAll generates summaries for every level, best effort. It reports
// whether all levels succeeded.
func (s *Service) WarmAll(ctx context.Context, doc documents.Document) bool {
	ok := true
	for _, level := range documents.Levels {
		if _, err := s.Summarize(ctx, doc.UserID, doc.ID, level); err != nil {
			telemetry.Error("summary.warmup_failed", map[string]any{
				"document_id": doc.ID,
				"level":       string(level),
				"error":       err.Error(),
			})
			ok = false
		}
	}
	return ok
}

var _ documents.Warmer = (*Service)(nil)
