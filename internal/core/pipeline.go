package core

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/lumora-ai/lumora/internal/store"
)

// NoRelevantInformation is the sentinel context returned when no stored
// chunk clears the similarity threshold.
const NoRelevantInformation = "No relevant information found in the knowledge base."

// genericFailureContext replaces the context when retrieval itself fails.
const genericFailureContext = "An error occurred while retrieving information."

// RetrieveOptions override per-call what otherwise comes from configuration.
// Zero values mean "use the pipeline default".
type RetrieveOptions struct {
	TopK         int
	Threshold    float32
	ArtifactPath string
	Template     string
}

// RetrievalResult is what the response-generation layer consumes. It is
// always well-formed: failures are folded into Error with a generic context
// and a best-effort prompt.
type RetrievalResult struct {
	Query     string      `json:"query"`
	Results   []SearchHit `json:"results"`
	Context   string      `json:"context"`
	Prompt    string      `json:"prompt"`
	Timestamp time.Time   `json:"timestamp"`
	Error     string      `json:"error,omitempty"`
}

// RetrievalPipeline orchestrates embedding, search, reranking, context
// assembly and prompt construction into one retrieve call.
type RetrievalPipeline struct {
	store    *store.SQLiteStore
	embedder *EmbeddingGenerator
	index    *VectorIndex
	scorer   *RelevanceScorer
	fusion   *MultimodalFusion

	defaultTopK      int
	defaultThreshold float32
}

func NewRetrievalPipeline(
	st *store.SQLiteStore,
	embedder *EmbeddingGenerator,
	index *VectorIndex,
	scorer *RelevanceScorer,
	fusion *MultimodalFusion,
	defaultTopK int,
	defaultThreshold float64,
) *RetrievalPipeline {
	return &RetrievalPipeline{
		store:            st,
		embedder:         embedder,
		index:            index,
		scorer:           scorer,
		fusion:           fusion,
		defaultTopK:      defaultTopK,
		defaultThreshold: float32(defaultThreshold),
	}
}

// Retrieve embeds the query, searches the index, reranks the hits, builds
// the labeled context (fused with the artifact when one is supplied) and the
// final prompt from the session memory. Any failure is converted into an
// error-tagged result so the caller always receives a well-formed object.
func (p *RetrievalPipeline) Retrieve(query string, memory *ConversationMemory, opts RetrieveOptions) (result RetrievalResult) {
	result = RetrievalResult{
		Query:     query,
		Timestamp: time.Now(),
	}

	history := ""
	if memory != nil {
		history = memory.Render()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error in retrieval pipeline for query %q: %v", query, r)
			result.Results = nil
			result.Error = fmt.Sprintf("%v", r)
			result.Context = genericFailureContext
			result.Prompt = BuildPrompt(opts.Template, genericFailureContext, history, query)
		}
	}()

	topK := opts.TopK
	if topK <= 0 {
		topK = p.defaultTopK
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = p.defaultThreshold
	}

	// Multimodal search degrades to text-only search: there is no
	// cross-modal embedding space to query against.
	queryVector := p.embedder.EmbedText(query)
	hits := p.index.Search(queryVector, topK, threshold)
	hits = p.enrich(hits)

	reranked := p.scorer.Rerank(query, hits)
	result.Results = reranked

	context := p.buildContext(reranked)
	if opts.ArtifactPath != "" {
		fused := p.fusion.Fuse(query, context, opts.ArtifactPath)
		context = fused.FusedContext
		if fused.Err != "" {
			log.Printf("Artifact analysis for %s degraded: %s", opts.ArtifactPath, fused.Err)
		}
	}
	result.Context = context
	result.Prompt = BuildPrompt(opts.Template, context, history, query)

	return result
}

// enrich resolves chunk text and document metadata for raw index hits.
// Hits whose chunk vanished from the store are dropped.
func (p *RetrievalPipeline) enrich(hits []SearchHit) []SearchHit {
	enriched := hits[:0]
	for _, hit := range hits {
		chunk, err := p.store.GetChunkByID(hit.ChunkID)
		if err != nil || chunk == nil {
			log.Printf("Skipping hit for missing chunk %s: %v", hit.ChunkID, err)
			continue
		}
		hit.Text = chunk.Text
		hit.ChunkIndex = chunk.ChunkIndex

		doc, err := p.store.GetDocumentByID(hit.DocumentID)
		if err != nil {
			log.Printf("Failed to load document %s for hit: %v", hit.DocumentID, err)
		} else if doc != nil {
			hit.DocumentFilename = doc.Filename
			hit.DocumentModality = string(doc.Modality)
			hit.DocumentCreatedAt = doc.CreatedAt
		}
		enriched = append(enriched, hit)
	}
	return enriched
}

// buildContext groups hits by document and orders each group's chunks by
// their position in the document, not by score, so the context reads
// coherently.
func (p *RetrievalPipeline) buildContext(hits []SearchHit) string {
	if len(hits) == 0 {
		return NoRelevantInformation
	}

	var documentOrder []string
	byDocument := make(map[string][]SearchHit)
	for _, hit := range hits {
		if _, ok := byDocument[hit.DocumentID]; !ok {
			documentOrder = append(documentOrder, hit.DocumentID)
		}
		byDocument[hit.DocumentID] = append(byDocument[hit.DocumentID], hit)
	}

	var b strings.Builder
	b.WriteString("Context from the knowledge base:\n\n")
	for _, documentID := range documentOrder {
		group := byDocument[documentID]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].ChunkIndex < group[j].ChunkIndex
		})

		filename := group[0].DocumentFilename
		if filename == "" {
			filename = documentID
		}
		fmt.Fprintf(&b, "[Document: %s]\n", filename)
		for _, hit := range group {
			b.WriteString(hit.Text)
			b.WriteString("\n\n")
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
