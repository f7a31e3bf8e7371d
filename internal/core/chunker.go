package core

import "strings"

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// ChunkText splits text into overlapping windows of at most size bytes.
// When a window's right edge falls before the end of the text, the cut is
// pulled back to the last newline inside the window if that newline is past
// the window's midpoint, else to the last ". " under the same constraint,
// else it stays at exactly size. The next window starts at end - overlap,
// clamped so the start strictly advances.
func ChunkText(text string, size, overlap int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 4
	}

	var chunks []string
	start := 0
	textLength := len(text)

	for start < textLength {
		end := start + size
		if end >= textLength {
			end = textLength
		} else {
			// Prefer a natural breaking point past the window midpoint.
			window := text[start:end]
			if newlinePos := strings.LastIndex(window, "\n"); newlinePos > size/2 {
				end = start + newlinePos + 1
			} else if periodPos := strings.LastIndex(window, ". "); periodPos > size/2 {
				end = start + periodPos + 2
			}
		}

		chunks = append(chunks, text[start:end])

		if end == textLength {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}
