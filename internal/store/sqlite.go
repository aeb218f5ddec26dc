package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS batches (
        id TEXT PRIMARY KEY, -- UUID
        status TEXT NOT NULL CHECK (status IN ('processing', 'ready', 'failed')),
        created_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS documents (
        id TEXT PRIMARY KEY, -- UUID
        batch_id TEXT NOT NULL,
        position INTEGER NOT NULL,
        filename TEXT NOT NULL,
        size INTEGER NOT NULL,
        content BLOB,
        uploaded_at DATETIME NOT NULL,
        FOREIGN KEY (batch_id) REFERENCES batches (id)
    );

    CREATE INDEX IF NOT EXISTS idx_documents_batch ON documents (batch_id, position);
    `
	_, err := s.db.Exec(schema)
	return err
}

// CreateBatch stores a new batch and its documents in one transaction. The
// batch starts in the given status.
func (s *SQLiteStore) CreateBatch(status BatchStatus, docs []NewDocument) (*Batch, []Document, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	batch := &Batch{ID: uuid.NewString(), Status: status, CreatedAt: now}
	if _, err := tx.Exec("INSERT INTO batches (id, status, created_at) VALUES (?, ?, ?)", batch.ID, batch.Status, batch.CreatedAt); err != nil {
		return nil, nil, fmt.Errorf("failed to insert batch: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO documents (id, batch_id, position, filename, size, content, uploaded_at) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to prepare document insert: %w", err)
	}
	defer stmt.Close()

	stored := make([]Document, 0, len(docs))
	for i, d := range docs {
		doc := Document{
			ID:         uuid.NewString(),
			BatchID:    batch.ID,
			Position:   i,
			Filename:   d.Filename,
			Size:       int64(len(d.Content)),
			UploadedAt: now,
		}
		if _, err := stmt.Exec(doc.ID, doc.BatchID, doc.Position, doc.Filename, doc.Size, d.Content, doc.UploadedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to insert document %s: %w", d.Filename, err)
		}
		stored = append(stored, doc)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit batch: %w", err)
	}
	return batch, stored, nil
}

// LatestBatch returns the most recent batch, or nil when nothing was
// uploaded yet.
func (s *SQLiteStore) LatestBatch() (*Batch, error) {
	var batch Batch
	err := s.db.QueryRow("SELECT id, status, created_at FROM batches ORDER BY created_at DESC, rowid DESC LIMIT 1").
		Scan(&batch.ID, &batch.Status, &batch.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest batch: %w", err)
	}
	return &batch, nil
}

func (s *SQLiteStore) SetBatchStatus(batchID string, status BatchStatus) error {
	res, err := s.db.Exec("UPDATE batches SET status = ? WHERE id = ?", status, batchID)
	if err != nil {
		return fmt.Errorf("failed to update batch status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("batch %s not found", batchID)
	}
	return nil
}

// ListDocuments returns a batch's documents in upload order, without content.
func (s *SQLiteStore) ListDocuments(batchID string) ([]Document, error) {
	rows, err := s.db.Query("SELECT id, batch_id, position, filename, size, uploaded_at FROM documents WHERE batch_id = ? ORDER BY position ASC", batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.BatchID, &d.Position, &d.Filename, &d.Size, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// DocumentHead returns up to n leading bytes of a document's content.
func (s *SQLiteStore) DocumentHead(documentID string, n int) ([]byte, error) {
	var head []byte
	err := s.db.QueryRow("SELECT substr(content, 1, ?) FROM documents WHERE id = ?", n, documentID).Scan(&head)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("document %s not found", documentID)
		}
		return nil, fmt.Errorf("failed to read document content: %w", err)
	}
	return head, nil
}
