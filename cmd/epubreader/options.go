package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuanying/epubreader/internal/config"
	"github.com/yuanying/epubreader/internal/epub"
	"github.com/yuanying/epubreader/internal/reader"
)

const defaultLogFormat = "text"

// cliOptions is the resolved configuration for one command invocation:
// config file values overridden by explicitly set flags.
type cliOptions struct {
	BookPath     string
	DBPath       string
	WordsPerPage int
	ReadingWPM   int
	FontSize     float64
	LineHeight   float64
	Logger       *slog.Logger
}

func readCLIOptions(cmd *cobra.Command, args []string) (cliOptions, error) {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return cliOptions{}, err
	}

	opts := cliOptions{
		DBPath:       cfg.Database.Path,
		WordsPerPage: cfg.WordsPerPage,
		ReadingWPM:   cfg.ReadingWPM,
		FontSize:     cfg.FontSize,
		LineHeight:   cfg.LineHeight,
	}
	if len(args) > 0 {
		opts.BookPath = args[0]
	}

	if flags.Changed("db") {
		opts.DBPath, _ = flags.GetString("db")
	}
	if flags.Changed("words-per-page") {
		opts.WordsPerPage, _ = flags.GetInt("words-per-page")
		if opts.WordsPerPage < 1 {
			return cliOptions{}, fmt.Errorf("--words-per-page must be >= 1, got %d", opts.WordsPerPage)
		}
	}
	if flags.Changed("wpm") {
		opts.ReadingWPM, _ = flags.GetInt("wpm")
		if opts.ReadingWPM < 1 {
			return cliOptions{}, fmt.Errorf("--wpm must be >= 1, got %d", opts.ReadingWPM)
		}
	}

	logLevel, _ := flags.GetString("log-level")
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	logLevel = strings.ToLower(logLevel)
	if _, ok := parseLogLevel(logLevel); !ok {
		return cliOptions{}, fmt.Errorf("--log-level must be one of debug, info, warn, error, got %q", logLevel)
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		logLevel = "debug"
	}

	logFormat, _ := flags.GetString("log-format")
	logFormat = strings.ToLower(logFormat)
	if logFormat != "text" && logFormat != "json" {
		return cliOptions{}, fmt.Errorf("--log-format must be text or json, got %q", logFormat)
	}

	opts.Logger = buildLogger(os.Stderr, logLevel, logFormat)
	return opts, nil
}

func parseLogLevel(level string) (slog.Level, bool) {
	switch level {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func buildLogger(w io.Writer, level, format string) *slog.Logger {
	lvl, _ := parseLogLevel(strings.ToLower(level))
	handlerOpts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

func (o cliOptions) sessionOptions(idx reader.BookmarkIndex) reader.Options {
	return reader.Options{
		WordsPerPage: o.WordsPerPage,
		ReadingWPM:   o.ReadingWPM,
		FontSize:     o.FontSize,
		LineHeight:   o.LineHeight,
		Bookmarks:    idx,
		Logger:       o.Logger,
	}
}

// openBook loads the book named on the command line. Any fatal load error is
// reported the same way to the user; the cause is kept for --verbose.
func (o cliOptions) openBook() (*epub.Book, error) {
	book, err := epub.Open(o.BookPath, epub.Options{Logger: o.Logger})
	if err != nil {
		o.Logger.Debug("open failed", "path", o.BookPath, "error", err)
		return nil, fmt.Errorf("could not open this file: %w", err)
	}
	return book, nil
}
