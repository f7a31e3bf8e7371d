package core

import (
	"fmt"
	"strings"

	"github.com/lumora-ai/lumora/internal/analyze"
	"github.com/lumora-ai/lumora/internal/store"
)

// FusedContext is the result of merging a non-text artifact into the textual
// retrieval context. Err carries any analyzer failure; the rest of the
// fields still hold the best-effort partial result.
type FusedContext struct {
	Query          string          `json:"query"`
	TextContext    string          `json:"text_context"`
	HasMultimodal  bool            `json:"has_multimodal"`
	MultimodalType store.Modality  `json:"multimodal_type,omitempty"`
	Analysis       *analyze.Result `json:"analysis,omitempty"`
	FusedContext   string          `json:"fused_context"`
	Err            string          `json:"error,omitempty"`
}

// MultimodalFusion merges an artifact's derived description and transcript
// into the textual context using fixed per-modality templates.
type MultimodalFusion struct{}

func NewMultimodalFusion() *MultimodalFusion {
	return &MultimodalFusion{}
}

// Fuse builds the fused context for a query. Without an artifact the text
// context passes through unchanged. The artifact's modality is resolved once
// from its extension; unknown modalities are reported in Err with the text
// context preserved.
func (f *MultimodalFusion) Fuse(query, textContext, artifactPath string) FusedContext {
	result := FusedContext{
		Query:        query,
		TextContext:  textContext,
		FusedContext: textContext,
	}

	if artifactPath == "" {
		return result
	}

	modality := store.ModalityForFilename(artifactPath)
	switch modality {
	case store.ModalityImage:
		analysis := analyze.Image(artifactPath)
		result.HasMultimodal = true
		result.MultimodalType = modality
		result.Analysis = &analysis
		result.Err = analysis.Err

		var b strings.Builder
		b.WriteString("Multimodal context:\n\n")
		fmt.Fprintf(&b, "[Image description] %s\n\n", analysis.Description)
		if analysis.Text != "" {
			fmt.Fprintf(&b, "[Text extracted from the image] %s\n\n", analysis.Text)
		}
		b.WriteString("Textual context:\n\n")
		b.WriteString(textContext)
		result.FusedContext = b.String()

	case store.ModalityAudio:
		analysis := analyze.Audio(artifactPath)
		result.HasMultimodal = true
		result.MultimodalType = modality
		result.Analysis = &analysis
		result.Err = analysis.Err

		var b strings.Builder
		b.WriteString("Multimodal context:\n\n")
		fmt.Fprintf(&b, "[Audio description] %s\n\n", analysis.Description)
		if analysis.Transcription != "" && analysis.Transcription != analyze.TranscriptionUnavailable {
			fmt.Fprintf(&b, "[Audio transcription] %s\n\n", analysis.Transcription)
		}
		b.WriteString("Textual context:\n\n")
		b.WriteString(textContext)
		result.FusedContext = b.String()

	case store.ModalityVideo:
		analysis := analyze.Video(artifactPath)
		result.HasMultimodal = true
		result.MultimodalType = modality
		result.Analysis = &analysis
		result.Err = analysis.Err

		var b strings.Builder
		b.WriteString("Multimodal context:\n\n")
		fmt.Fprintf(&b, "[Video description] %s\n\n", analysis.Description)
		if analysis.Still != nil {
			if analysis.Still.Description != "" {
				fmt.Fprintf(&b, "[Still-frame description] %s\n\n", analysis.Still.Description)
			}
			if analysis.Still.Text != "" {
				fmt.Fprintf(&b, "[Text extracted from the still frame] %s\n\n", analysis.Still.Text)
			}
		}
		b.WriteString("Textual context:\n\n")
		b.WriteString(textContext)
		result.FusedContext = b.String()

	default:
		result.Err = fmt.Sprintf("unsupported artifact modality for %s", artifactPath)
	}

	return result
}
