// Package main is the icdrec CLI entry point.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/clinterm/icdrec/internal/catalog"
	"github.com/clinterm/icdrec/internal/cli"
	"github.com/clinterm/icdrec/internal/config"
	"github.com/clinterm/icdrec/internal/ner"
	"github.com/clinterm/icdrec/internal/recommend"
	"github.com/clinterm/icdrec/internal/server"
	"github.com/clinterm/icdrec/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/icdrec/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. When neither exists, built-in defaults apply so the CLI works
// with no config file at all.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); statErr != nil {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "recommend":
		runRecommend()
	case "batch":
		runBatch()
	case "search":
		runSearch()
	case "details":
		runDetails()
	case "categories":
		runCategories()
	case "entities":
		runEntities()
	case "version", "--version", "-v":
		fmt.Printf("icdrec version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components holds the initialized engine parts shared by the subcommands.
type Components struct {
	Catalog     *catalog.Catalog
	Index       *catalog.Index
	Extractor   *ner.ClinicalNER
	Recommender *recommend.Recommender
}

// Close releases the components in reverse initialization order.
func (c *Components) Close() {
	if c.Index != nil {
		_ = c.Index.Close()
	}
	if c.Extractor != nil {
		_ = c.Extractor.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		loaded, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		cat = loaded
	}

	index, err := catalog.NewIndex(cat)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog index: %w", err)
	}

	extractor := ner.New(cfg.Model, logger)
	recommender := recommend.New(cat, &cfg.Scoring, extractor, logger)

	return &Components{
		Catalog:     cat,
		Index:       index,
		Extractor:   extractor,
		Recommender: recommender,
	}, nil
}

// setupCommand parses common flags and initializes the engine for a
// subcommand. It exits the process on failure.
func setupCommand(fs *flag.FlagSet, args []string) (*Components, *config.Config, *zap.Logger, cli.OutputFormat) {
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components, cfg, logger, format
}

// buildText joins all positional args with spaces so multi-word diagnosis
// texts work the same with or without shell quoting.
func buildText(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves flags (and their values) that appear after positional
// arguments to the front so flag.Parse() sees them. Go's flag package stops
// at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	cfg.Debug = debugMode
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	logger.Info("engine ready",
		zap.Int("codes", components.Catalog.Len()),
		zap.Bool("model_backed", components.Extractor.ModelBacked()),
	)

	srv := server.NewServer(
		components.Recommender,
		components.Index,
		components.Extractor,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runRecommend() {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	topK := fs.Int("top-k", recommend.DefaultTopK, "number of recommendations")
	components, _, logger, format := setupCommand(fs, argsReorder(os.Args[2:]))
	defer components.Close()
	defer logger.Sync()

	text := buildText(fs.Args())
	if text == "" {
		fmt.Println("Usage: icdrec recommend [flags] <diagnosis text>")
		os.Exit(1)
	}
	recs := components.Recommender.Recommend(context.Background(), text, *topK)
	if err := cli.WriteRecommendations(os.Stdout, recs, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runBatch() {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	topK := fs.Int("top-k", recommend.DefaultTopK, "number of recommendations per text")
	file := fs.String("file", "-", "file with one diagnosis text per line, or - for stdin")
	components, _, logger, format := setupCommand(fs, argsReorder(os.Args[2:]))
	defer components.Close()
	defer logger.Sync()

	texts, err := readLines(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		os.Exit(1)
	}
	if len(texts) == 0 {
		fmt.Println("Usage: icdrec batch [flags] < texts.txt (one diagnosis per line)")
		os.Exit(1)
	}

	results := components.Recommender.BatchRecommend(context.Background(), texts, *topK)
	for i, recs := range results {
		if format == cli.OutputText {
			fmt.Printf("--- %s\n", texts[i])
		}
		if err := cli.WriteRecommendations(os.Stdout, recs, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	}
}

// readLines reads non-blank lines from path, or stdin when path is "-".
func readLines(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	limit := fs.Int("limit", 10, "number of results")
	components, _, logger, format := setupCommand(fs, argsReorder(os.Args[2:]))
	defer components.Close()
	defer logger.Sync()

	query := buildText(fs.Args())
	if query == "" {
		fmt.Println("Usage: icdrec search [flags] <query>")
		os.Exit(1)
	}
	results, err := components.Index.Query(query, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, results, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runDetails() {
	fs := flag.NewFlagSet("details", flag.ExitOnError)
	components, _, logger, format := setupCommand(fs, argsReorder(os.Args[2:]))
	defer components.Close()
	defer logger.Sync()

	if fs.NArg() < 1 {
		fmt.Println("Usage: icdrec details [flags] <code>")
		os.Exit(1)
	}
	code := fs.Arg(0)
	entry, ok := components.Recommender.CodeDetails(code)
	if !ok {
		fmt.Fprintf(os.Stderr, "Code not found: %s\n", code)
		os.Exit(1)
	}
	if err := cli.WriteEntry(os.Stdout, entry, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runCategories() {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	components, _, logger, format := setupCommand(fs, argsReorder(os.Args[2:]))
	defer components.Close()
	defer logger.Sync()

	text := buildText(fs.Args())
	if text == "" {
		fmt.Println("Usage: icdrec categories [flags] <diagnosis text>")
		os.Exit(1)
	}
	distribution := components.Recommender.CategoryDistribution(context.Background(), text)
	if err := cli.WriteCategoryScores(os.Stdout, distribution, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runEntities() {
	fs := flag.NewFlagSet("entities", flag.ExitOnError)
	threshold := fs.Float64("threshold", ner.DefaultThreshold, "minimum entity confidence")
	components, _, logger, format := setupCommand(fs, argsReorder(os.Args[2:]))
	defer components.Close()
	defer logger.Sync()

	text := buildText(fs.Args())
	if text == "" {
		fmt.Println("Usage: icdrec entities [flags] <clinical text>")
		os.Exit(1)
	}
	entities := components.Extractor.Extract(context.Background(), text, *threshold)
	if err := cli.WriteEntities(os.Stdout, entities, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`icdrec - ICD-10 diagnostic code recommendation engine

Usage:
  icdrec server [flags]                Start the HTTP server
  icdrec recommend [flags] <text>      Recommend ICD-10 codes for a diagnosis
  icdrec batch [flags]                 Recommend for many texts (stdin or --file)
  icdrec search [flags] <query>        Full-text search over the code catalog
  icdrec details [flags] <code>        Show one catalog entry
  icdrec categories [flags] <text>     Show the diagnostic category distribution
  icdrec entities [flags] <text>       Extract clinical entities
  icdrec version                       Show version
  icdrec help                          Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/icdrec/config.yaml)
  --debug            Enable debug logging

Common Flags:
  --config string    Config file path
  --output string    Output format: text or json (default: text)

Recommend/Batch Flags:
  --top-k int        Number of recommendations (default: 5)
  --file string      Batch input file, one diagnosis per line, - for stdin

Entities Flags:
  --threshold float  Minimum entity confidence (default: 0.5)

Examples:
  icdrec server
  icdrec recommend patient with type 2 diabetes and high blood sugar
  icdrec recommend --top-k 3 --output json "chest pain and shortness of breath"
  icdrec batch --file diagnoses.txt
  icdrec search myocardial infarction
  icdrec details E11.9
  icdrec categories "htn and dm with chest pain"
  icdrec entities "patient presents with hypertension and headache"`)
}
