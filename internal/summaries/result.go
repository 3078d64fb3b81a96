package summaries

import "legaldoc-backend/internal/documents"

// Result is the canonical outcome of one summarization, regardless of the
// wire shape the AI service answered with.
type Result struct {
	Summary              string
	StructuredData       *documents.StructuredExtraction
	ComprehensiveSummary *documents.ComprehensiveExtraction
	Cached               bool
}
