package store

import (
	"path/filepath"
	"strings"
	"time"
)

// Modality classifies a stored file. It is resolved once at ingestion from
// the file extension and carried on the Document record, so call sites never
// re-derive it from filename strings.
type Modality string

const (
	ModalityDocument Modality = "document"
	ModalityImage    Modality = "image"
	ModalityAudio    Modality = "audio"
	ModalityVideo    Modality = "video"
	ModalityUnknown  Modality = "unknown"
)

var modalityByExtension = map[string]Modality{
	".pdf":  ModalityDocument,
	".docx": ModalityDocument,
	".pptx": ModalityDocument,
	".xlsx": ModalityDocument,
	".txt":  ModalityDocument,
	".md":   ModalityDocument,
	".csv":  ModalityDocument,
	".json": ModalityDocument,
	".html": ModalityDocument,

	".jpg":  ModalityImage,
	".jpeg": ModalityImage,
	".png":  ModalityImage,
	".gif":  ModalityImage,
	".bmp":  ModalityImage,
	".webp": ModalityImage,

	".mp3":  ModalityAudio,
	".wav":  ModalityAudio,
	".ogg":  ModalityAudio,
	".flac": ModalityAudio,
	".m4a":  ModalityAudio,

	".mp4":  ModalityVideo,
	".avi":  ModalityVideo,
	".mov":  ModalityVideo,
	".mkv":  ModalityVideo,
	".webm": ModalityVideo,
}

// ModalityForFilename returns the modality for a filename based on its
// extension, or ModalityUnknown for unsupported extensions.
func ModalityForFilename(filename string) Modality {
	ext := strings.ToLower(filepath.Ext(filename))
	if m, ok := modalityByExtension[ext]; ok {
		return m
	}
	return ModalityUnknown
}

type Document struct {
	ID         string            `json:"id"` // UUID
	Filename   string            `json:"filename"`
	Modality   Modality          `json:"modality"`
	TextLength int               `json:"text_length"`
	CreatedAt  time.Time         `json:"created_at"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type Chunk struct {
	ID         string    `json:"id"` // UUID
	DocumentID string    `json:"document_id"`
	ChunkIndex int       `json:"chunk_index"`
	Text       string    `json:"text"`
	CharCount  int       `json:"char_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type EmbeddingRecord struct {
	ID         int64     `json:"id"`
	ChunkID    string    `json:"chunk_id"`
	DocumentID string    `json:"document_id"` // denormalized for filter pushdown
	Vector     []float32 `json:"-"`
	Dimension  int       `json:"dimension"`
	CreatedAt  time.Time `json:"created_at"`
}
