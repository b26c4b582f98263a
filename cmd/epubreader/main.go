package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "epubreader",
		Short: "Read EPUB books from the terminal",
		Long: `epubreader opens EPUB 2 packages, resolves their metadata, reading order
and table of contents, and pages through chapters by word count.

Reading positions and bookmarks are kept in a local SQLite database.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (default: ./epubreader.yml)")
	flags.String("db", "", "SQLite database path for bookmarks and progress")
	flags.Int("words-per-page", 0, "Words per virtual page (default from config)")
	flags.Int("wpm", 0, "Reading speed in words per minute (default from config)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (default from config)")
	flags.String("log-format", defaultLogFormat, "Log format: text, json")
	flags.BoolP("verbose", "v", false, "Enable debug logging (overrides --log-level)")

	root.AddCommand(
		newInfoCmd(),
		newTocCmd(),
		newReadCmd(),
		newBookmarkCmd(),
		newBookmarksCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
