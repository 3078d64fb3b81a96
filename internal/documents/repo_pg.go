package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Summaries and extractions live in
// JSONB columns; per-level summary writes go through jsonb_set so concurrent
// writers at different levels never overwrite each other.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    user_id,
    file_name,
    mime_type,
    size_bytes,
    storage_key,
    content,
    summaries,
    is_processed,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, '{}'::jsonb, $8, $9)`

	var storageKey sql.NullString
	if doc.StorageKey != "" {
		storageKey = sql.NullString{String: doc.StorageKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		storageKey,
		doc.Content,
		doc.IsProcessed,
		doc.CreatedAt,
	)
	return err
}

// GetByID returns a document by ID, scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	const query = `
SELECT id, user_id, file_name, mime_type, size_bytes, storage_key, content, summaries, structured_data, comprehensive_summary, is_processed, created_at
FROM documents
WHERE id = $1 AND user_id = $2`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByUser returns the user's documents, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Document, error) {
	const query = `
SELECT id, user_id, file_name, mime_type, size_bytes, storage_key, content, summaries, structured_data, comprehensive_summary, is_processed, created_at
FROM documents
WHERE user_id = $1
ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// SetSummary writes the summary text for one level via jsonb_set.
func (r *PGRepo) SetSummary(ctx context.Context, documentID string, level Level, summary string) error {
	const query = `
UPDATE documents
SET summaries = jsonb_set(COALESCE(summaries, '{}'::jsonb), ARRAY[$2], to_jsonb($3::text), true)
WHERE id = $1`
	return r.execOne(ctx, query, documentID, string(level), summary)
}

// SetStructuredData replaces the document-wide structured extraction.
func (r *PGRepo) SetStructuredData(ctx context.Context, documentID string, data *StructuredExtraction) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal structured data: %w", err)
	}
	const query = `UPDATE documents SET structured_data = $2 WHERE id = $1`
	return r.execOne(ctx, query, documentID, payload)
}

// SetComprehensiveSummary replaces the document-wide comprehensive extraction.
func (r *PGRepo) SetComprehensiveSummary(ctx context.Context, documentID string, data *ComprehensiveExtraction) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal comprehensive summary: %w", err)
	}
	const query = `UPDATE documents SET comprehensive_summary = $2 WHERE id = $1`
	return r.execOne(ctx, query, documentID, payload)
}

// MarkProcessed flags the document as having at least one summary.
func (r *PGRepo) MarkProcessed(ctx context.Context, documentID string) error {
	const query = `UPDATE documents SET is_processed = TRUE WHERE id = $1`
	return r.execOne(ctx, query, documentID)
}

// Delete removes a document owned by the user. Chat messages referencing the
// document are removed by the ON DELETE CASCADE constraint, so no reader can
// observe a thread without its document.
func (r *PGRepo) Delete(ctx context.Context, userID, documentID string) error {
	const query = `DELETE FROM documents WHERE id = $1 AND user_id = $2`
	return r.execOne(ctx, query, documentID, userID)
}

func (r *PGRepo) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var storageKey sql.NullString
	var summaries []byte
	var structured []byte
	var comprehensive []byte
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&storageKey,
		&doc.Content,
		&summaries,
		&structured,
		&comprehensive,
		&doc.IsProcessed,
		&doc.CreatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	doc.StorageKey = storageKey.String

	doc.Summaries = make(map[Level]string)
	if len(summaries) > 0 {
		if err := json.Unmarshal(summaries, &doc.Summaries); err != nil {
			return Document{}, fmt.Errorf("decode summaries: %w", err)
		}
	}
	if len(structured) > 0 {
		var data StructuredExtraction
		if err := json.Unmarshal(structured, &data); err != nil {
			return Document{}, fmt.Errorf("decode structured data: %w", err)
		}
		doc.StructuredData = &data
	}
	if len(comprehensive) > 0 {
		var data ComprehensiveExtraction
		if err := json.Unmarshal(comprehensive, &data); err != nil {
			return Document{}, fmt.Errorf("decode comprehensive summary: %w", err)
		}
		doc.ComprehensiveSummary = &data
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
