package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func readCLIOptionsForTest(t *testing.T, flagArgs ...string) (cliOptions, error) {
	t.Helper()
	cmd := newRootCmd()
	if err := cmd.ParseFlags(flagArgs); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	return readCLIOptions(cmd, []string{"./input/book.epub"})
}

func TestReadCLIOptions_Defaults(t *testing.T) {
	opts, err := readCLIOptionsForTest(t)
	if err != nil {
		t.Fatalf("readCLIOptions() error = %v", err)
	}

	if opts.BookPath != "./input/book.epub" {
		t.Fatalf("BookPath = %q, want %q", opts.BookPath, "./input/book.epub")
	}
	if opts.DBPath != "./epubreader.db" {
		t.Fatalf("DBPath = %q, want %q", opts.DBPath, "./epubreader.db")
	}
	if opts.WordsPerPage != 250 {
		t.Fatalf("WordsPerPage = %d, want 250", opts.WordsPerPage)
	}
	if opts.ReadingWPM != 200 {
		t.Fatalf("ReadingWPM = %d, want 200", opts.ReadingWPM)
	}
	if opts.Logger == nil {
		t.Fatal("Logger is nil, want non-nil")
	}
	if !opts.Logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("Logger should be enabled at INFO level by default")
	}
	if opts.Logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("Logger should not be enabled at DEBUG level by default")
	}
}

func TestReadCLIOptions_CustomFlags(t *testing.T) {
	opts, err := readCLIOptionsForTest(t,
		"--db", "./data/reader.db",
		"--words-per-page", "120",
		"--wpm", "300",
		"--log-level", "warn",
		"--verbose",
	)
	if err != nil {
		t.Fatalf("readCLIOptions() error = %v", err)
	}

	if opts.DBPath != "./data/reader.db" {
		t.Fatalf("DBPath = %q", opts.DBPath)
	}
	if opts.WordsPerPage != 120 {
		t.Fatalf("WordsPerPage = %d", opts.WordsPerPage)
	}
	if opts.ReadingWPM != 300 {
		t.Fatalf("ReadingWPM = %d", opts.ReadingWPM)
	}
	// --verbose overrides log-level to debug
	if !opts.Logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("Logger should be enabled at DEBUG level when --verbose is set")
	}
}

func TestReadCLIOptions_LogLevel(t *testing.T) {
	opts, err := readCLIOptionsForTest(t, "--log-level", "WARN")
	if err != nil {
		t.Fatalf("readCLIOptions() error = %v", err)
	}
	if opts.Logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("Logger should not be enabled at INFO level with --log-level warn")
	}
	if !opts.Logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Fatal("Logger should be enabled at WARN level with --log-level warn")
	}
}

func TestReadCLIOptions_InvalidWordsPerPage(t *testing.T) {
	_, err := readCLIOptionsForTest(t, "--words-per-page", "0")
	if err == nil || !strings.Contains(err.Error(), "--words-per-page") {
		t.Fatalf("expected words-per-page validation error, got %v", err)
	}
}

func TestReadCLIOptions_InvalidWPM(t *testing.T) {
	_, err := readCLIOptionsForTest(t, "--wpm", "-1")
	if err == nil || !strings.Contains(err.Error(), "--wpm") {
		t.Fatalf("expected wpm validation error, got %v", err)
	}
}

func TestReadCLIOptions_InvalidLogLevel(t *testing.T) {
	_, err := readCLIOptionsForTest(t, "--log-level", "trace")
	if err == nil || !strings.Contains(err.Error(), "--log-level") {
		t.Fatalf("expected log-level validation error, got %v", err)
	}
}

func TestReadCLIOptions_InvalidLogFormat(t *testing.T) {
	_, err := readCLIOptionsForTest(t, "--log-format", "yaml")
	if err == nil || !strings.Contains(err.Error(), "--log-format") {
		t.Fatalf("expected log-format validation error, got %v", err)
	}
}

func TestBuildLogger_FormatNormalization(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(&buf, "info", "JSON")
	logger.Info("test message")
	// JSON format should produce JSON output (starts with '{')
	output := buf.String()
	if len(output) == 0 || output[0] != '{' {
		t.Fatalf("expected JSON output for format 'JSON', got: %s", output)
	}
}

func TestPageText(t *testing.T) {
	text := "one two three four five"
	tests := []struct {
		name       string
		page       int
		totalPages int
		want       string
	}{
		{name: "single page", page: 1, totalPages: 1, want: "one two three four five"},
		{name: "first of two", page: 1, totalPages: 2, want: "one two"},
		{name: "last of two", page: 2, totalPages: 2, want: "three four five"},
		{name: "more pages than body words per page", page: 3, totalPages: 3, want: "four five"},
		{name: "past the end", page: 4, totalPages: 3, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pageText(text, tt.page, tt.totalPages); got != tt.want {
				t.Errorf("pageText(%d, %d) = %q, want %q", tt.page, tt.totalPages, got, tt.want)
			}
		})
	}
}

func TestPageText_EveryPageHasWords(t *testing.T) {
	// 7 counted words over 4 pages, 6 of them visible in the body
	text := "the sun rose over the hills"
	for page := 1; page <= 4; page++ {
		if got := pageText(text, page, 4); got == "" {
			t.Errorf("pageText(%d, 4) is empty", page)
		}
	}
}
