package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGenerationModel = "gemini-1.5-flash-latest"

// Responder turns a fully built prompt into an answer. The pipeline only
// builds {context, history, query}; generation is a collaborator behind this
// interface.
type Responder interface {
	Respond(ctx context.Context, prompt string, result *RetrievalResult) (string, error)
	Close()
}

// GeminiResponder generates answers with the Gemini API.
type GeminiResponder struct {
	client *genai.Client
	model  string
}

func NewGeminiResponder(apiKey string) (*GeminiResponder, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiResponder{client: client, model: defaultGenerationModel}, nil
}

func (r *GeminiResponder) Respond(ctx context.Context, prompt string, _ *RetrievalResult) (string, error) {
	model := r.client.GenerativeModel(r.model)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation request failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Println("Gemini response was empty or had no valid candidates/parts.")
		return "I'm sorry, I couldn't generate a response at this time. Please try again.", nil
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}
	if responseText.Len() == 0 {
		return "I received an empty or non-text response, please try rephrasing your question.", nil
	}
	return responseText.String(), nil
}

func (r *GeminiResponder) Close() {
	if r.client != nil {
		if err := r.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

// ExtractiveResponder is the no-API fallback: it answers directly from the
// top reranked chunks instead of calling a language model.
type ExtractiveResponder struct {
	maxPassages int
}

func NewExtractiveResponder() *ExtractiveResponder {
	return &ExtractiveResponder{maxPassages: 3}
}

func (r *ExtractiveResponder) Respond(_ context.Context, _ string, result *RetrievalResult) (string, error) {
	if result == nil || len(result.Results) == 0 {
		return "I could not find relevant information in the knowledge base for your question.", nil
	}

	var b strings.Builder
	b.WriteString("Here is what the knowledge base says:\n\n")
	for i, hit := range result.Results {
		if i >= r.maxPassages {
			break
		}
		source := hit.DocumentFilename
		if source == "" {
			source = hit.DocumentID
		}
		fmt.Fprintf(&b, "From %s: %s\n\n", source, strings.TrimSpace(hit.Text))
	}
	return strings.TrimSpace(b.String()), nil
}

func (r *ExtractiveResponder) Close() {}
