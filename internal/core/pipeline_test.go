package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumora-ai/lumora/internal/store"
)

// testPipeline wires real components around an in-memory store so retrieval
// can be exercised end to end.
type testPipeline struct {
	store     *store.SQLiteStore
	ingestion *IngestionService
	pipeline  *RetrievalPipeline
}

func newTestPipeline(t *testing.T) *testPipeline {
	t.Helper()

	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	vectorizer := NewTfidfVectorizer()
	embedder := NewEmbeddingGenerator(vectorizer)
	index := NewVectorIndex()
	extractor := NewPlainTextExtractor()
	ingestion := NewIngestionService(st, extractor, embedder, vectorizer, index, DefaultChunkSize, DefaultChunkOverlap)
	pipeline := NewRetrievalPipeline(st, embedder, index, NewRelevanceScorer(), NewMultimodalFusion(), 10, 0.1)

	return &testPipeline{store: st, ingestion: ingestion, pipeline: pipeline}
}

func (tp *testPipeline) ingestText(t *testing.T, filename, text string) *store.Document {
	t.Helper()
	doc, err := tp.ingestion.Ingest(filename, []byte(text), nil)
	require.NoError(t, err)
	return doc
}

func TestRetrieveEndToEnd(t *testing.T) {
	tp := newTestPipeline(t)
	tp.ingestText(t, "billing.txt",
		"The invoice total is due at the end of the month. Payment covers the invoice total and any late fees.")
	tp.ingestText(t, "garden.txt",
		"Flowers bloom in spring. Regular watering keeps the garden healthy through summer.")

	result := tp.pipeline.Retrieve("invoice total payment", nil, RetrieveOptions{})

	require.Empty(t, result.Error)
	require.NotEmpty(t, result.Results)
	assert.Equal(t, "billing.txt", result.Results[0].DocumentFilename)
	assert.Contains(t, result.Results[0].Text, "invoice total")
	assert.Greater(t, result.Results[0].FinalScore, 0.0)

	assert.Contains(t, result.Context, "Context from the knowledge base:")
	assert.Contains(t, result.Context, "[Document: billing.txt]")
	assert.Contains(t, result.Context, "invoice total")

	assert.Contains(t, result.Prompt, result.Context)
	assert.Contains(t, result.Prompt, "invoice total payment")
}

func TestRetrieveEmptyCorpus(t *testing.T) {
	tp := newTestPipeline(t)

	result := tp.pipeline.Retrieve("anything at all", nil, RetrieveOptions{})

	assert.Empty(t, result.Error)
	assert.Empty(t, result.Results)
	assert.Equal(t, NoRelevantInformation, result.Context)
	assert.Contains(t, result.Prompt, NoRelevantInformation)
	assert.Contains(t, result.Prompt, "anything at all")
}

func TestRetrieveUnrelatedQuery(t *testing.T) {
	tp := newTestPipeline(t)
	tp.ingestText(t, "billing.txt",
		"The invoice total is due at the end of the month. Payment covers the invoice total and any late fees.")

	// No query term appears in the corpus, so nothing clears the threshold.
	result := tp.pipeline.Retrieve("zebra quantum philosophy", nil, RetrieveOptions{})

	assert.Empty(t, result.Error)
	assert.Empty(t, result.Results)
	assert.Equal(t, NoRelevantInformation, result.Context)
}

func TestRetrieveTopKOverride(t *testing.T) {
	tp := newTestPipeline(t)
	tp.ingestText(t, "a.txt", "The quarterly report covers revenue and expenses for the first quarter.")
	tp.ingestText(t, "b.txt", "The quarterly report summary highlights revenue growth across regions.")

	result := tp.pipeline.Retrieve("quarterly report revenue", nil, RetrieveOptions{TopK: 1})
	assert.Empty(t, result.Error)
	assert.Len(t, result.Results, 1)
}

func TestRetrieveIncludesHistoryInPrompt(t *testing.T) {
	tp := newTestPipeline(t)
	tp.ingestText(t, "billing.txt",
		"The invoice total is due at the end of the month.")

	memory := NewConversationMemory(DefaultMemoryBudget)
	memory.Append("user", "when is the deadline")
	memory.Append("assistant", "the deadline is at month end")

	result := tp.pipeline.Retrieve("invoice total", memory, RetrieveOptions{})

	assert.Contains(t, result.Prompt, "User: when is the deadline")
	assert.Contains(t, result.Prompt, "Assistant: the deadline is at month end")
}

func TestRetrieveHighThresholdFiltersEverything(t *testing.T) {
	tp := newTestPipeline(t)
	tp.ingestText(t, "billing.txt",
		"The invoice total is due at the end of the month. Many other sentences dilute the match considerably, "+
			"covering office supplies, travel arrangements and catering budgets.")

	result := tp.pipeline.Retrieve("invoice", nil, RetrieveOptions{Threshold: 0.999})

	assert.Empty(t, result.Error)
	assert.Empty(t, result.Results)
	assert.Equal(t, NoRelevantInformation, result.Context)
}

func TestRetrieveGroupsChunksByDocumentPosition(t *testing.T) {
	tp := newTestPipeline(t)

	// Long enough to split into several chunks sharing the same vocabulary,
	// so multiple chunks of one document come back for one query.
	sentence := "The migration plan describes the database migration steps in detail. "
	tp.ingestText(t, "migration.txt", strings.Repeat(sentence, 12))

	result := tp.pipeline.Retrieve("database migration plan", nil, RetrieveOptions{})
	require.Empty(t, result.Error)
	require.Greater(t, len(result.Results), 1)

	// Context lists the document once, with every matched chunk under it.
	assert.Equal(t, 1, strings.Count(result.Context, "[Document: migration.txt]"))
	for _, hit := range result.Results {
		assert.Equal(t, "migration.txt", hit.DocumentFilename)
		assert.Contains(t, result.Context, hit.Text)
	}
}
