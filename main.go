package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/lexandro/fileindex-mcp/catalog"
	"github.com/lexandro/fileindex-mcp/ignore"
	"github.com/lexandro/fileindex-mcp/index"
	"github.com/lexandro/fileindex-mcp/query"
	"github.com/lexandro/fileindex-mcp/register"
	"github.com/lexandro/fileindex-mcp/server"
	"github.com/lexandro/fileindex-mcp/tools"
	"github.com/lexandro/fileindex-mcp/volume"
	"github.com/lexandro/fileindex-mcp/watcher"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/natefinch/lumberjack.v2"
)

const version = "0.1.0"

// stringList is a repeatable CLI flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ", ") }
func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// config holds the parsed command line.
type config struct {
	catalogPath     string
	excludeVolumes  stringList
	excludes        stringList
	ignoreFile      string
	matchMode       string
	maxResults      int
	reindexInterval time.Duration
	watch           bool
	logLevel        string
	logFile         string
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "register" {
		serverName := register.DeriveServerName(os.Args[0])
		if err := register.Run(serverName, os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if errors.Is(err, register.ErrUsage) {
				register.PrintUsage(os.Stderr)
			}
			os.Exit(1)
		}
		return
	}

	cfg := parseFlags()
	logger := setupLogger(cfg.logLevel, cfg.logFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch command := flag.Arg(0); command {
	case "", "serve":
		err = serve(ctx, cfg, logger)
	case "reindex":
		err = runReindex(ctx, cfg, logger, os.Stdout)
	case "search":
		err = runSearch(ctx, cfg, logger, strings.Join(flag.Args()[1:], " "), os.Stdout)
	case "count":
		err = runCount(cfg, os.Stdout)
	case "volumes":
		err = runVolumes(ctx, cfg, os.Stdout)
	default:
		err = fmt.Errorf("unknown command %q (want serve, reindex, search, count, volumes or register)", command)
	}
	if err != nil {
		logger.Error("command failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() *config {
	cfg := &config{}
	flag.StringVar(&cfg.catalogPath, "catalog", defaultCatalogPath(), "Catalog file path")
	flag.Var(&cfg.excludeVolumes, "exclude-volume", "Volume to skip, by mountpoint or device (repeatable)")
	flag.Var(&cfg.excludes, "exclude", "Extra ignore pattern, doublestar syntax (repeatable)")
	flag.StringVar(&cfg.ignoreFile, "ignore-file", "", "Gitignore-syntax file applied relative to every volume root")
	flag.StringVar(&cfg.matchMode, "match-mode", "wildcard", "Name matching: wildcard|subsequence")
	flag.IntVar(&cfg.maxResults, "max-results", 50, "Default number of results displayed")
	flag.DurationVar(&cfg.reindexInterval, "reindex-interval", 0, "Run a full reindex at this interval (0 disables)")
	flag.BoolVar(&cfg.watch, "watch", true, "Watch the catalog file for replacement by another process")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	flag.StringVar(&cfg.logFile, "log-file", "", "Log file path (default: stderr)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [serve|reindex|search <query>|count|volumes]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "       %s register project|user [...]\n\nFlags:\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := ignore.ValidatePatterns(cfg.excludes); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if _, err := query.ParseMode(cfg.matchMode); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// defaultCatalogPath puts the catalog in the user cache directory, falling
// back to the working directory when there is none.
func defaultCatalogPath() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "file_index.csv"
	}
	return filepath.Join(cacheDir, "fileindex-mcp", "file_index.csv")
}

func newIndexer(cfg *config, logger *slog.Logger) *index.Indexer {
	return &index.Indexer{
		CatalogPath: cfg.catalogPath,
		Volumes:     volume.SystemLister{},
		NewMatcher: func(root string) index.IgnoreChecker {
			return ignore.NewMatcher(ignore.MatcherOptions{
				RootDir:        root,
				IgnoreFile:     cfg.ignoreFile,
				CustomPatterns: cfg.excludes,
			})
		},
		Logger: logger,
	}
}

func newSearcher(cfg *config, logger *slog.Logger) *query.Searcher {
	mode, _ := query.ParseMode(cfg.matchMode)
	return &query.Searcher{CatalogPath: cfg.catalogPath, Mode: mode, Logger: logger}
}

// serve runs the MCP server on stdio until the client disconnects.
func serve(ctx context.Context, cfg *config, logger *slog.Logger) error {
	startTime := time.Now()
	logger.Info("starting fileindex-mcp",
		"catalog", cfg.catalogPath,
		"excludeVolumes", cfg.excludeVolumes,
		"matchMode", cfg.matchMode,
		"maxResults", cfg.maxResults,
		"reindexInterval", cfg.reindexInterval,
	)

	session := &query.Session{}
	statusHandler := &tools.StatusHandler{
		CatalogPath: cfg.catalogPath,
		Session:     session,
		StartTime:   startTime,
		Logger:      logger,
	}

	indexer := newIndexer(cfg, logger)
	tracker := newIndexTracker(ctx, indexer, statusHandler.Invalidate, logger)
	statusHandler.CurrentTask = tracker.Current
	defer tracker.CancelRunning()

	if count, err := statusHandler.IndexedCount(); err != nil {
		logger.Warn("no usable catalog yet, run fileindex_reindex", "error", err)
	} else {
		logger.Info("catalog loaded", "files", count)
	}

	if cfg.watch {
		catalogWatcher, err := watcher.NewWatcher(cfg.catalogPath, 500*time.Millisecond, logger)
		if err != nil {
			logger.Warn("failed to watch catalog, continuing without live updates", "error", err)
		} else {
			go catalogWatcher.Start()
			go handleCatalogEvents(catalogWatcher, statusHandler.Invalidate, logger)
			defer catalogWatcher.Close()
		}
	}

	if cfg.reindexInterval > 0 {
		go runPeriodicReindex(ctx, cfg.reindexInterval, tracker, volume.NewExclusionSet(cfg.excludeVolumes...), logger)
	}

	mcpServer := server.Setup(server.Handlers{
		Search: &tools.SearchHandler{
			Searcher:   newSearcher(cfg, logger),
			Session:    session,
			MaxResults: cfg.maxResults,
			Logger:     logger,
		},
		Sort: &tools.SortHandler{Session: session, MaxResults: cfg.maxResults, Logger: logger},
		Reindex: &tools.ReindexHandler{
			DoReindex:      tracker.Start,
			DefaultExclude: cfg.excludeVolumes,
			Logger:         logger,
		},
		Status: statusHandler,
		Volumes: &tools.VolumesHandler{
			Lister:         indexer.Volumes,
			DefaultExclude: cfg.excludeVolumes,
			Logger:         logger,
		},
	}, version)

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP server: %w", err)
	}
	return nil
}

// runReindex performs one blocking index run.
func runReindex(ctx context.Context, cfg *config, logger *slog.Logger, out io.Writer) error {
	result, err := newIndexer(cfg, logger).Run(ctx, volume.NewExclusionSet(cfg.excludeVolumes...))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Indexed %d files from %d volumes in %s into %s\n",
		result.Records, len(result.Volumes), result.Duration.Round(time.Millisecond), cfg.catalogPath)
	for _, failed := range result.FailedVolumes {
		fmt.Fprintf(out, "Skipped unreadable volume %s\n", failed)
	}
	return nil
}

// runSearch prints the records matching q, in catalog order.
func runSearch(ctx context.Context, cfg *config, logger *slog.Logger, q string, out io.Writer) error {
	results, err := newSearcher(cfg, logger).Search(ctx, q)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, tools.FormatResults(results, cfg.maxResults, "", false))
	return nil
}

func runCount(cfg *config, out io.Writer) error {
	count, err := catalog.CountRecords(cfg.catalogPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d\n", count)
	return nil
}

func runVolumes(ctx context.Context, cfg *config, out io.Writer) error {
	volumes, err := volume.SystemLister{}.ListVolumes(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(out, tools.FormatVolumes(volumes, volume.NewExclusionSet(cfg.excludeVolumes...)))
	return nil
}

// setupLogger creates an slog.Logger writing to stderr or a rotating log file.
// stdout is reserved for the MCP stdio transport.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var writer io.Writer = os.Stderr
	if logFile != "" {
		writer = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
