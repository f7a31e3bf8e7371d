package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lumora-ai/lumora/internal/api"
	"github.com/lumora-ai/lumora/internal/config"
	"github.com/lumora-ai/lumora/internal/core"
	"github.com/lumora-ai/lumora/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Command line flag for directory ingestion
	ingestDirFlag := flag.String("ingest", "", "Ingest all supported files from the given directory and exit")
	flag.Parse()

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	// Core components are constructed once here and passed explicitly; no
	// package-level singletons.
	vectorizer := core.NewTfidfVectorizer()
	embedder := core.NewEmbeddingGenerator(vectorizer)
	index := core.NewVectorIndex()
	extractor := core.NewPlainTextExtractor()

	ingestion := core.NewIngestionService(
		dbStore, extractor, embedder, vectorizer, index,
		config.AppConfig.ChunkSize, config.AppConfig.ChunkOverlap,
	)

	// Handle directory ingestion if the flag is set
	if *ingestDirFlag != "" {
		log.Printf("Starting ingestion from %s...", *ingestDirFlag)
		numIngested, err := ingestion.IngestDirectory(*ingestDirFlag)
		if err != nil {
			log.Fatalf("Ingestion failed: %v", err)
		}
		log.Printf("Ingestion complete. Ingested %d files. Exiting.", numIngested)
		os.Exit(0)
	}

	// Fit the embedding model and build the index from the stored corpus.
	if err := ingestion.Reindex(); err != nil {
		log.Fatalf("Failed to build index from stored corpus: %v", err)
	}
	if index.Len() == 0 {
		log.Println("Warning: index is empty. Ingest documents before querying.")
	}

	scorer := core.NewRelevanceScorer()
	fusion := core.NewMultimodalFusion()
	pipeline := core.NewRetrievalPipeline(
		dbStore, embedder, index, scorer, fusion,
		config.AppConfig.MaxResults, config.AppConfig.SimilarityThreshold,
	)

	sessions := core.NewSessionManager(config.AppConfig.MemoryBudget)

	var responder core.Responder
	if config.AppConfig.GeminiAPIKey != "" {
		responder, err = core.NewGeminiResponder(config.AppConfig.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini responder: %v", err)
		}
	} else {
		responder = core.NewExtractiveResponder()
	}
	defer responder.Close()

	chatService := core.NewChatService(pipeline, sessions, responder)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(chatService, ingestion, dbStore, config.AppConfig.UploadDir)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
