package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"golang.org/x/sync/errgroup"

	"github.com/zombor/expense-tracker/internal/category"
	"github.com/zombor/expense-tracker/internal/events"
	"github.com/zombor/expense-tracker/internal/expense"
	"github.com/zombor/expense-tracker/internal/extraction"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// Load .env file for local development (ignore errors in production)
	_ = godotenv.Load()

	fs := ff.NewFlagSet("expense-tracker")
	var (
		port           = fs.IntLong("port", 8080, "HTTP server port")
		storeType      = fs.StringLong("store", "bolt", "Storage backend: 'bolt' or 'sqlite'")
		dbPath         = fs.StringLong("db", "expense-tracker.db", "Database file path")
		extractorType  = fs.StringLong("extractor", "gemini-sdk", "Extractor: 'gemini-sdk', 'gemini' (REST), 'vertex', 'ollama' or 'rules'")
		noFallback     = fs.BoolLong("no-fallback", "Disable the rule-based fallback when the extractor fails")
		geminiKey      = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel    = fs.StringLong("gemini-model", "gemini-flash-latest", "Google Gemini model name")
		geminiURL      = fs.StringLong("gemini-url", "", "Google Gemini API base URL (default is the public endpoint)")
		vertexProject  = fs.StringLong("vertex-project", "", "Google Cloud project for Vertex AI")
		vertexLocation = fs.StringLong("vertex-location", "us-central1", "Vertex AI location")
		vertexModel    = fs.StringLong("vertex-model", "gemini-2.5-flash", "Vertex AI model name")
		ollamaURL      = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel    = fs.StringLong("ollama-model", "llama3.2", "Ollama model name")
		itemLanguage   = fs.StringLong("item-language", "", "Language for item names, e.g. Hebrew (optional)")
		timeout        = fs.DurationLong("timeout", expense.DefaultTimeout, "Timeout for a single extractor call")
		archivePath    = fs.StringLong("archive", "", "Directory for unparseable extractor responses (optional)")
		amqpURL        = fs.StringLong("amqp-url", "", "AMQP URL for expenses.created events (optional)")
		amqpExchange   = fs.StringLong("amqp-exchange", "expenses", "AMQP exchange name")
		amqpQueue      = fs.StringLong("amqp-queue", "expenses.created", "AMQP queue name")
		logLevel       = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("EXPENSE_TRACKER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid log level %q\n", *logLevel)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	normalizer, err := category.New(category.DefaultConfig())
	if err != nil {
		slog.Error("Failed to initialize categories", "error", err)
		os.Exit(1)
	}

	// Initialize database
	slog.Info("Initializing database...", "store", *storeType, "path", *dbPath)
	var store expense.Store
	switch *storeType {
	case "bolt":
		store, err = expense.NewBoltStore(*dbPath)
	case "sqlite":
		store, err = expense.NewSQLiteStore(*dbPath)
	default:
		err = fmt.Errorf("invalid store type %q, valid: bolt or sqlite", *storeType)
	}
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Initialize extractor based on type
	prompt := extraction.Prompt{
		Categories:   normalizer.Canonical(),
		ItemLanguage: *itemLanguage,
	}
	rules := extraction.NewRules(extraction.DefaultRulesConfig(), normalizer)
	var extractor extraction.Extractor
	switch *extractorType {
	case "gemini", "gemini-sdk":
		// Get Gemini API key from flag or environment
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini extractor...", "model", *geminiModel, "client", *extractorType)
		if *extractorType == "gemini" {
			extractor, err = extraction.NewGemini(apiKey, *geminiURL, *geminiModel, prompt)
		} else {
			extractor, err = extraction.NewGeminiSDK(ctx, apiKey, *geminiModel, prompt)
		}
	case "vertex":
		slog.Info("Initializing Vertex AI extractor...", "project", *vertexProject, "location", *vertexLocation, "model", *vertexModel)
		extractor, err = extraction.NewVertex(ctx, *vertexProject, *vertexLocation, *vertexModel, prompt)
	case "ollama":
		slog.Info("Initializing Ollama extractor...", "url", *ollamaURL, "model", *ollamaModel)
		extractor, err = extraction.NewOllama(*ollamaURL, *ollamaModel, prompt)
	case "rules":
		slog.Info("Using rule-based extractor only")
		extractor = rules
	default:
		err = fmt.Errorf("invalid extractor type %q", *extractorType)
	}
	if err != nil {
		slog.Error("Failed to initialize extractor", "error", err)
		os.Exit(1)
	}
	defer extractor.Close()

	opts := expense.Options{Timeout: *timeout}
	if !*noFallback && *extractorType != "rules" {
		opts.Fallback = rules
	}

	if *archivePath != "" {
		archive, err := expense.NewLocalArchive(*archivePath)
		if err != nil {
			slog.Error("Failed to initialize archive", "error", err)
			os.Exit(1)
		}
		opts.Archive = archive
	}

	if *amqpURL != "" {
		notifier, err := events.NewAMQPNotifier(*amqpURL, *amqpExchange, *amqpQueue)
		if err != nil {
			slog.Error("Failed to initialize AMQP notifier", "error", err)
			os.Exit(1)
		}
		defer notifier.Close()
		opts.Notifier = notifier
		slog.Info("Publishing expense events", "exchange", *amqpExchange, "queue", *amqpQueue)
	}

	service, err := expense.NewServiceWithOptions(store, extractor, normalizer, opts)
	if err != nil {
		slog.Error("Failed to initialize service", "error", err)
		os.Exit(1)
	}
	server := expense.NewServer(service)

	addr := fmt.Sprintf(":%d", *port)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx, addr)
	})

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "version", version)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	slog.Info("Shutting down...")
}
