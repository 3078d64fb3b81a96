package documents

import "context"

// Repo defines persistence operations for documents.
//
// The summary and extraction setters commit individual fields rather than
// overwriting the whole record, so concurrent summarize calls at different
// levels never clobber each other's writes.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, userID, documentID string) (Document, error)
	ListByUser(ctx context.Context, userID string) ([]Document, error)
	SetSummary(ctx context.Context, documentID string, level Level, summary string) error
	SetStructuredData(ctx context.Context, documentID string, data *StructuredExtraction) error
	SetComprehensiveSummary(ctx context.Context, documentID string, data *ComprehensiveExtraction) error
	MarkProcessed(ctx context.Context, documentID string) error
	Delete(ctx context.Context, userID, documentID string) error
}
