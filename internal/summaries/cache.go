package summaries

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/shared/metrics"
)

// ComputeFunc produces a fresh summarization result on a cache miss.
type ComputeFunc func(ctx context.Context) (Result, error)

// Cache implements generate-if-absent semantics over the document record.
// Concurrent misses for the same (document, level) collapse into a single
// compute call; the flight key is cleared on success and failure alike, so a
// timed-out compute never blocks a later retry.
type Cache struct {
	Repo documents.Repo

	group singleflight.Group
}

// GetOrCompute returns the cached summary for the level, or runs compute and
// persists its result. Extractions are stored document-wide with
// last-write-wins semantics; the summary text itself is per-level.
func (c *Cache) GetOrCompute(ctx context.Context, doc documents.Document, level documents.Level, compute ComputeFunc) (Result, error) {
	if text, ok := doc.Summary(level); ok {
		metrics.IncSummaryCacheHit()
		return Result{
			Summary:              text,
			StructuredData:       doc.StructuredData,
			ComprehensiveSummary: doc.ComprehensiveSummary,
			Cached:               true,
		}, nil
	}

	key := doc.ID + "/" + string(level)
	value, err, _ := c.group.Do(key, func() (any, error) {
		// A flight that finished between our read and this one may already
		// have written the level.
		if fresh, err := c.Repo.GetByID(ctx, doc.UserID, doc.ID); err == nil {
			if text, ok := fresh.Summary(level); ok {
				metrics.IncSummaryCacheHit()
				return Result{
					Summary:              text,
					StructuredData:       fresh.StructuredData,
					ComprehensiveSummary: fresh.ComprehensiveSummary,
					Cached:               true,
				}, nil
			}
		}

		metrics.IncSummaryCacheMiss()
		res, err := compute(ctx)
		if err != nil {
			return Result{}, err
		}
		if err := c.persist(ctx, doc.ID, level, res); err != nil {
			return Result{}, fmt.Errorf("persist summary: %w", err)
		}
		return res, nil
	})
	if err != nil {
		return Result{}, err
	}
	return value.(Result), nil
}

// persist commits the result as independent field updates. Extractions go
// first so a partial failure never leaves a summary entry for the level
// without its extraction writes.
func (c *Cache) persist(ctx context.Context, documentID string, level documents.Level, res Result) error {
	if res.StructuredData != nil {
		if err := c.Repo.SetStructuredData(ctx, documentID, res.StructuredData); err != nil {
			return err
		}
	}
	if res.ComprehensiveSummary != nil {
		if err := c.Repo.SetComprehensiveSummary(ctx, documentID, res.ComprehensiveSummary); err != nil {
			return err
		}
	}
	if err := c.Repo.SetSummary(ctx, documentID, level, res.Summary); err != nil {
		return err
	}
	return c.Repo.MarkProcessed(ctx, documentID)
}
