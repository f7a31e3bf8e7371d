package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lumora-ai/lumora/internal/store"
)

// IngestionService stores uploaded files, chunks their extracted text and
// keeps the embedding space consistent: after every ingest the tf-idf model
// is refit over the full chunk corpus and all embeddings are regenerated.
// Fitting once per corpus (instead of once per query) is what keeps query
// vectors comparable to chunk vectors.
type IngestionService struct {
	store      *store.SQLiteStore
	extractor  TextExtractor
	embedder   *EmbeddingGenerator
	vectorizer *TfidfVectorizer
	index      *VectorIndex

	chunkSize    int
	chunkOverlap int
}

func NewIngestionService(
	st *store.SQLiteStore,
	extractor TextExtractor,
	embedder *EmbeddingGenerator,
	vectorizer *TfidfVectorizer,
	index *VectorIndex,
	chunkSize, chunkOverlap int,
) *IngestionService {
	return &IngestionService{
		store:        st,
		extractor:    extractor,
		embedder:     embedder,
		vectorizer:   vectorizer,
		index:        index,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Ingest processes one file: modality resolution, text extraction, document
// and chunk persistence, then a corpus reindex. Unknown modalities are
// rejected before any processing.
func (s *IngestionService) Ingest(filename string, content []byte, metadata map[string]string) (*store.Document, error) {
	modality := store.ModalityForFilename(filename)
	if modality == store.ModalityUnknown {
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	text := ""
	if modality == store.ModalityDocument {
		extracted, err := s.extractor.Extract(content, filepath.Ext(filename))
		if err != nil {
			// Extraction failure degrades to an empty document, it does not
			// abort ingestion.
			log.Printf("Text extraction failed for %s: %v. Storing without text.", filename, err)
		} else {
			text = extracted
		}
	}

	doc := &store.Document{
		Filename:   filepath.Base(filename),
		Modality:   modality,
		TextLength: len(text),
		CreatedAt:  time.Now(),
		Metadata:   metadata,
	}
	if err := s.store.InsertDocument(doc); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	if text != "" {
		pieces := ChunkText(text, s.chunkSize, s.chunkOverlap)
		chunks := make([]store.Chunk, 0, len(pieces))
		for i, piece := range pieces {
			chunks = append(chunks, store.Chunk{
				DocumentID: doc.ID,
				ChunkIndex: i,
				Text:       piece,
				CharCount:  len(piece),
			})
		}
		if err := s.store.InsertChunks(chunks); err != nil {
			return nil, fmt.Errorf("failed to store chunks: %w", err)
		}

		if err := s.Reindex(); err != nil {
			return nil, fmt.Errorf("failed to reindex after ingesting %s: %w", filename, err)
		}
	}

	return doc, nil
}

// IngestDirectory walks a directory and ingests every supported file,
// skipping failures. Used by the -ingest startup path.
func (s *IngestionService) IngestDirectory(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read ingest directory %s: %w", dir, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || store.ModalityForFilename(name) == store.ModalityUnknown {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Printf("Failed to read %s: %v. Skipping.", name, err)
			continue
		}
		if _, err := s.Ingest(name, content, nil); err != nil {
			log.Printf("Failed to ingest %s: %v. Skipping.", name, err)
			continue
		}
		count++
	}
	return count, nil
}

// Reindex refits the tf-idf model on the full chunk corpus, regenerates
// every embedding, replaces the persisted embedding records and rebuilds the
// in-memory index. Called after each ingest and once at startup.
func (s *IngestionService) Reindex() error {
	chunks, err := s.store.GetAllChunks()
	if err != nil {
		return fmt.Errorf("failed to load chunks for reindex: %w", err)
	}
	if len(chunks) == 0 {
		s.index.Replace(nil, nil, nil)
		return nil
	}

	corpus := make([]string, len(chunks))
	for i, chunk := range chunks {
		corpus[i] = chunk.Text
	}
	if err := s.vectorizer.Fit(corpus); err != nil {
		return fmt.Errorf("failed to fit vectorizer: %w", err)
	}

	chunkIDs := make([]string, len(chunks))
	documentIDs := make([]string, len(chunks))
	vectors := make([][]float32, len(chunks))
	records := make([]store.EmbeddingRecord, len(chunks))
	for i, chunk := range chunks {
		vector := s.embedder.EmbedText(chunk.Text)
		chunkIDs[i] = chunk.ID
		documentIDs[i] = chunk.DocumentID
		vectors[i] = vector
		records[i] = store.EmbeddingRecord{
			ChunkID:    chunk.ID,
			DocumentID: chunk.DocumentID,
			Vector:     vector,
			Dimension:  len(vector),
		}
	}

	if err := s.store.ClearEmbeddings(); err != nil {
		return err
	}
	if err := s.store.InsertEmbeddings(records); err != nil {
		return fmt.Errorf("failed to store embeddings: %w", err)
	}

	s.index.Replace(chunkIDs, documentIDs, vectors)
	log.Printf("Reindexed %d chunks (embedding dimension %d).", len(chunks), s.embedder.TextDimension())
	return nil
}
