package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
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
    CREATE TABLE IF NOT EXISTS documents (
        id TEXT PRIMARY KEY, -- UUID
        filename TEXT NOT NULL,
        modality TEXT NOT NULL CHECK (modality IN ('document', 'image', 'audio', 'video', 'unknown')),
        text_length INTEGER NOT NULL DEFAULT 0,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        metadata_json TEXT
    );

    CREATE TABLE IF NOT EXISTS chunks (
        id TEXT PRIMARY KEY, -- UUID
        document_id TEXT NOT NULL,
        chunk_index INTEGER NOT NULL,
        text TEXT NOT NULL,
        char_count INTEGER NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (document_id) REFERENCES documents (id)
    );
    CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks (document_id);

    CREATE TABLE IF NOT EXISTS embeddings (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        chunk_id TEXT NOT NULL,
        document_id TEXT NOT NULL,
        vector_json TEXT NOT NULL,
        dimension INTEGER NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (chunk_id) REFERENCES chunks (id)
    );
    CREATE INDEX IF NOT EXISTS idx_embeddings_document_id ON embeddings (document_id);
    `
	_, err := s.db.Exec(schema)
	return err
}

// Document methods

func (s *SQLiteStore) InsertDocument(doc *Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	var metadataJSON []byte
	if doc.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal document metadata: %w", err)
		}
	}

	stmt, err := s.db.Prepare("INSERT INTO documents (id, filename, modality, text_length, created_at, metadata_json) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare document insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(doc.ID, doc.Filename, string(doc.Modality), doc.TextLength, doc.CreatedAt, string(metadataJSON))
	if err != nil {
		return fmt.Errorf("failed to execute document insert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetDocumentByID(documentID string) (*Document, error) {
	var doc Document
	var modality string
	var metadataJSON sql.NullString
	err := s.db.QueryRow("SELECT id, filename, modality, text_length, created_at, metadata_json FROM documents WHERE id = ?", documentID).
		Scan(&doc.ID, &doc.Filename, &modality, &doc.TextLength, &doc.CreatedAt, &metadataJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	doc.Modality = Modality(modality)
	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &doc.Metadata); err != nil {
			log.Printf("Warning: failed to unmarshal metadata for document %s: %v", doc.ID, err)
		}
	}
	return &doc, nil
}

func (s *SQLiteStore) ListDocuments() ([]Document, error) {
	rows, err := s.db.Query("SELECT id, filename, modality, text_length, created_at, metadata_json FROM documents ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var modality string
		var metadataJSON sql.NullString
		if err := rows.Scan(&doc.ID, &doc.Filename, &modality, &doc.TextLength, &doc.CreatedAt, &metadataJSON); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		doc.Modality = Modality(modality)
		if metadataJSON.Valid && metadataJSON.String != "" {
			if err := json.Unmarshal([]byte(metadataJSON.String), &doc.Metadata); err != nil {
				log.Printf("Warning: failed to unmarshal metadata for document %s: %v", doc.ID, err)
			}
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) DeleteDocument(documentID string) error {
	if _, err := s.db.Exec("DELETE FROM embeddings WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("failed to delete embeddings for document: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("failed to delete chunks for document: %w", err)
	}
	res, err := s.db.Exec("DELETE FROM documents WHERE id = ?", documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("document not found")
	}
	return nil
}

// Chunk methods

func (s *SQLiteStore) InsertChunks(chunks []Chunk) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin chunk insert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO chunks (id, document_id, chunk_index, text, char_count, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer stmt.Close()

	for i := range chunks {
		if chunks[i].ID == "" {
			chunks[i].ID = uuid.NewString()
		}
		if chunks[i].CreatedAt.IsZero() {
			chunks[i].CreatedAt = time.Now()
		}
		if _, err := stmt.Exec(chunks[i].ID, chunks[i].DocumentID, chunks[i].ChunkIndex, chunks[i].Text, chunks[i].CharCount, chunks[i].CreatedAt); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", chunks[i].ChunkIndex, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetChunkByID(chunkID string) (*Chunk, error) {
	var chunk Chunk
	err := s.db.QueryRow("SELECT id, document_id, chunk_index, text, char_count, created_at FROM chunks WHERE id = ?", chunkID).
		Scan(&chunk.ID, &chunk.DocumentID, &chunk.ChunkIndex, &chunk.Text, &chunk.CharCount, &chunk.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to query chunk: %w", err)
	}
	return &chunk, nil
}

func (s *SQLiteStore) GetChunksByDocumentID(documentID string) ([]Chunk, error) {
	rows, err := s.db.Query("SELECT id, document_id, chunk_index, text, char_count, created_at FROM chunks WHERE document_id = ? ORDER BY chunk_index ASC", documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()
	return scanChunks(rows)
}

func (s *SQLiteStore) GetAllChunks() ([]Chunk, error) {
	rows, err := s.db.Query("SELECT id, document_id, chunk_index, text, char_count, created_at FROM chunks ORDER BY document_id, chunk_index ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()
	return scanChunks(rows)
}

func scanChunks(rows *sql.Rows) ([]Chunk, error) {
	var chunks []Chunk
	for rows.Next() {
		var chunk Chunk
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.ChunkIndex, &chunk.Text, &chunk.CharCount, &chunk.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// Embedding methods

func (s *SQLiteStore) InsertEmbeddings(records []EmbeddingRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin embedding insert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO embeddings (chunk_id, document_id, vector_json, dimension) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare embedding insert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		vectorJSON, err := json.Marshal(records[i].Vector)
		if err != nil {
			return fmt.Errorf("failed to marshal embedding vector: %w", err)
		}
		if _, err := stmt.Exec(records[i].ChunkID, records[i].DocumentID, string(vectorJSON), records[i].Dimension); err != nil {
			return fmt.Errorf("failed to insert embedding for chunk %s: %w", records[i].ChunkID, err)
		}
	}
	return tx.Commit()
}

// GetAllEmbeddings performs an unindexed full scan over embedding records.
// The search path loads these into memory once per rebuild.
func (s *SQLiteStore) GetAllEmbeddings() ([]EmbeddingRecord, error) {
	rows, err := s.db.Query("SELECT id, chunk_id, document_id, vector_json, dimension, created_at FROM embeddings")
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer rows.Close()

	var records []EmbeddingRecord
	for rows.Next() {
		var rec EmbeddingRecord
		var vectorJSON string
		if err := rows.Scan(&rec.ID, &rec.ChunkID, &rec.DocumentID, &vectorJSON, &rec.Dimension, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan embedding row: %w", err)
		}
		if vectorJSON != "" {
			if err := json.Unmarshal([]byte(vectorJSON), &rec.Vector); err != nil {
				log.Printf("Warning: failed to unmarshal vector for chunk %s: %v. Embedding will be empty.", rec.ChunkID, err)
				rec.Vector = nil
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) ClearEmbeddings() error {
	if _, err := s.db.Exec("DELETE FROM embeddings"); err != nil {
		return fmt.Errorf("failed to delete embeddings: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CountDocuments() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}
