package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"legaldoc-backend/internal/extract"
	"legaldoc-backend/internal/queue"
	"legaldoc-backend/internal/shared/storage/object"
	"legaldoc-backend/internal/shared/telemetry"
)

// Warmer eagerly generates summaries for a freshly ingested document.
// Implemented by the summaries service; kept as an interface here to avoid
// an import cycle.
type Warmer interface {
	WarmAll(ctx context.Context, doc Document) bool
}

// ThreadStore removes the chat thread tied to a document. Implemented by the
// chats repo.
type ThreadStore interface {
	DeleteForDocument(ctx context.Context, userID, documentID string) error
}

// Service contains business logic for documents.
type Service struct {
	Store   object.ObjectStore
	Repo    Repo
	Threads ThreadStore
	Warmer  Warmer
	Queue   queue.Client
}

// Ingest stores the upload, extracts its text, persists the document, and
// warms the summary cache for all levels. Warm-up is best effort: its
// failure never fails ingest, and when a queue is configured it happens
// asynchronously in the worker instead.
func (s *Service) Ingest(ctx context.Context, userID, fileName, mimeType string, r io.Reader) (Document, error) {
	if fileName == "" {
		return Document{}, ErrInvalidInput
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return Document{}, ErrInvalidInput
	}

	text, err := extract.TextFromBytes(ctx, data, mimeType, fileName)
	if err != nil {
		return Document{}, err
	}

	var storageKey string
	if s.Store != nil {
		key, _, _, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
		if err != nil {
			// The extracted text is already in hand; losing the original
			// payload is logged, not fatal.
			telemetry.Error("document.store_failed", map[string]any{
				"file_name": fileName,
				"error":     err.Error(),
			})
		} else {
			storageKey = key
			saveExtracted(ctx, s.Store, key+".extracted.txt", text)
		}
	}

	doc := Document{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  int64(len(data)),
		StorageKey: storageKey,
		Content:    text,
		Summaries:  map[Level]string{},
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	if s.Queue != nil {
		if err := s.Queue.Send(ctx, queue.Message{
			DocumentID: doc.ID,
			UserID:     userID,
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
		}); err != nil {
			telemetry.Error("document.warmup_enqueue_failed", map[string]any{
				"document_id": doc.ID,
				"error":       err.Error(),
			})
		}
	} else if s.Warmer != nil {
		s.Warmer.WarmAll(ctx, doc)
	}

	// Re-read so the response reflects whatever warm-up wrote.
	fresh, err := s.Repo.GetByID(ctx, userID, doc.ID)
	if err != nil {
		return doc, nil
	}
	return fresh, nil
}

type keySaver interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
}

// saveExtracted keeps a derived plain-text copy next to the original upload.
// Best effort: the authoritative text lives on the document record.
func saveExtracted(ctx context.Context, store object.ObjectStore, key, text string) {
	saver, ok := store.(keySaver)
	if !ok {
		return
	}
	if _, err := saver.SaveWithKey(ctx, key, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		telemetry.Error("document.extracted_copy_failed", map[string]any{
			"storage_key": key,
			"error":       err.Error(),
		})
	}
}

// Get returns a document owned by the user.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	if userID == "" || documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, documentID)
}

// List returns the user's documents, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Document, error) {
	if userID == "" {
		return nil, errors.New("user id required")
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Delete removes a document and its chat thread. The thread goes first so no
// reader can observe a thread whose document is gone; the Postgres repo also
// cascades the delete for belt and braces.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	if _, err := s.Repo.GetByID(ctx, userID, documentID); err != nil {
		return err
	}
	if s.Threads != nil {
		if err := s.Threads.DeleteForDocument(ctx, userID, documentID); err != nil {
			return err
		}
	}
	return s.Repo.Delete(ctx, userID, documentID)
}
