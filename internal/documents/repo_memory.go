package documents

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document // documentID -> document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Document),
	}
}

// Create stores a new document.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.Summaries == nil {
		doc.Summaries = make(map[Level]string)
	}
	r.data[doc.ID] = doc
	return nil
}

// GetByID returns a document by ID, scoped to its owner.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[documentID]
	if !ok || doc.UserID != userID {
		return Document{}, ErrNotFound
	}
	return copyDocument(doc), nil
}

// ListByUser returns the user's documents, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := make([]Document, 0)
	for _, doc := range r.data {
		if doc.UserID == userID {
			docs = append(docs, copyDocument(doc))
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID > docs[j].ID
		}
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

// SetSummary writes the summary text for one level, leaving other levels untouched.
func (r *MemoryRepo) SetSummary(ctx context.Context, documentID string, level Level, summary string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[documentID]
	if !ok {
		return ErrNotFound
	}
	if doc.Summaries == nil {
		doc.Summaries = make(map[Level]string)
	}
	doc.Summaries[level] = summary
	r.data[documentID] = doc
	return nil
}

// SetStructuredData replaces the document-wide structured extraction.
func (r *MemoryRepo) SetStructuredData(ctx context.Context, documentID string, data *StructuredExtraction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[documentID]
	if !ok {
		return ErrNotFound
	}
	doc.StructuredData = data
	r.data[documentID] = doc
	return nil
}

// SetComprehensiveSummary replaces the document-wide comprehensive extraction.
func (r *MemoryRepo) SetComprehensiveSummary(ctx context.Context, documentID string, data *ComprehensiveExtraction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[documentID]
	if !ok {
		return ErrNotFound
	}
	doc.ComprehensiveSummary = data
	r.data[documentID] = doc
	return nil
}

// MarkProcessed flags the document as having at least one summary.
func (r *MemoryRepo) MarkProcessed(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[documentID]
	if !ok {
		return ErrNotFound
	}
	doc.IsProcessed = true
	r.data[documentID] = doc
	return nil
}

// Delete removes a document owned by the user.
func (r *MemoryRepo) Delete(ctx context.Context, userID, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[documentID]
	if !ok || doc.UserID != userID {
		return ErrNotFound
	}
	delete(r.data, documentID)
	return nil
}

func copyDocument(doc Document) Document {
	out := doc
	if doc.Summaries != nil {
		out.Summaries = make(map[Level]string, len(doc.Summaries))
		for k, v := range doc.Summaries {
			out.Summaries[k] = v
		}
	}
	return out
}

var _ Repo = (*MemoryRepo)(nil)
