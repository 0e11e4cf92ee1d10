package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/legallens/legal-lens/internal/core/domain"
)

// Store is the production DocumentStore. In-memory state is per-process, so
// any deployment with more than one instance must use this one.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS processed_documents (
	id TEXT PRIMARY KEY,
	original_filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	file_hash TEXT NOT NULL,
	file_size BIGINT NOT NULL,
	archive_path TEXT,
	extraction JSONB NOT NULL,
	analysis JSONB NOT NULL,
	upload_time TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_processed_documents_file_hash ON processed_documents(file_hash);
CREATE INDEX IF NOT EXISTS idx_processed_documents_upload_time ON processed_documents(upload_time DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (s *Store) Set(ctx context.Context, doc *domain.ProcessedDocument) error {
	extractionJSON, err := json.Marshal(doc.Extraction)
	if err != nil {
		return fmt.Errorf("marshal extraction: %w", err)
	}
	analysisJSON, err := json.Marshal(doc.Analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO processed_documents (
	id, original_filename, mime_type, file_hash, file_size, archive_path, extraction, analysis, upload_time
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
	extraction = EXCLUDED.extraction,
	analysis = EXCLUDED.analysis
`,
		doc.ID, doc.OriginalFilename, doc.MimeType, doc.FileHash, doc.FileSize,
		doc.ArchivePath, extractionJSON, analysisJSON, doc.UploadTime,
	)
	if err != nil {
		return fmt.Errorf("insert processed document: %w", err)
	}
	return nil
}

const selectColumns = `id, original_filename, mime_type, file_hash, file_size, archive_path, extraction, analysis, upload_time`

func (s *Store) Get(ctx context.Context, id string) (*domain.ProcessedDocument, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+selectColumns+`
FROM processed_documents
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return doc, true, nil
}

func (s *Store) Has(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM processed_documents WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check document exists: %w", err)
	}
	return exists, nil
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM processed_documents WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete rows affected: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) List(ctx context.Context) ([]*domain.ProcessedDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+selectColumns+`
FROM processed_documents
ORDER BY upload_time DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*domain.ProcessedDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func (s *Store) Size(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM processed_documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.ProcessedDocument, error) {
	var doc domain.ProcessedDocument
	var archivePath sql.NullString
	var extractionRaw, analysisRaw []byte

	err := row.Scan(
		&doc.ID, &doc.OriginalFilename, &doc.MimeType, &doc.FileHash, &doc.FileSize,
		&archivePath, &extractionRaw, &analysisRaw, &doc.UploadTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}

	doc.ArchivePath = archivePath.String
	if err := json.Unmarshal(extractionRaw, &doc.Extraction); err != nil {
		return nil, fmt.Errorf("unmarshal extraction: %w", err)
	}
	if err := json.Unmarshal(analysisRaw, &doc.Analysis); err != nil {
		return nil, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return &doc, nil
}
