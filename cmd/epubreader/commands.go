package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuanying/epubreader/internal/bookmarks"
	"github.com/yuanying/epubreader/internal/epub"
	"github.com/yuanying/epubreader/internal/reader"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Show book metadata and statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd, args)
			if err != nil {
				return err
			}
			book, err := opts.openBook()
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), book, opts.ReadingWPM)
			return nil
		},
	}
}

func printInfo(w io.Writer, book *epub.Book, wpm int) {
	m := book.Metadata
	fmt.Fprintf(w, "Title:     %s\n", m.Title)
	fmt.Fprintf(w, "Author:    %s\n", m.Creator)
	fmt.Fprintf(w, "Language:  %s\n", m.Language)
	if m.Publisher != "" {
		fmt.Fprintf(w, "Publisher: %s\n", m.Publisher)
	}
	total := book.TotalWords()
	fmt.Fprintf(w, "Chapters:  %d\n", len(book.Chapters))
	fmt.Fprintf(w, "Words:     %d (~%d min)\n", total, reader.ReadingTimeMinutes(total, wpm))
	if len(book.Warnings) > 0 {
		fmt.Fprintf(w, "Warnings:  %d\n", len(book.Warnings))
		for _, warn := range book.Warnings {
			fmt.Fprintf(w, "  - %s\n", warn.Error())
		}
	}
}

func newTocCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toc FILE",
		Short: "List the table of contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd, args)
			if err != nil {
				return err
			}
			book, err := opts.openBook()
			if err != nil {
				return err
			}
			printTOC(cmd.OutOrStdout(), book)
			return nil
		},
	}
}

func printTOC(w io.Writer, book *epub.Book) {
	if len(book.TOC) == 0 {
		fmt.Fprintln(w, "(no table of contents)")
		return
	}
	for _, entry := range book.TOC {
		line := fmt.Sprintf("%3d. %s", entry.Index+1, entry.Title)
		// TOC entries map to chapters by position only.
		if entry.Index >= len(book.Chapters) {
			line += " (not in reading order)"
		}
		fmt.Fprintln(w, line)
	}
}

func newReadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read FILE",
		Short: "Show a chapter page and save the reading position",
		Long: `Show one virtual page of a chapter. Without --chapter the last saved
position for the book is resumed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd, args)
			if err != nil {
				return err
			}
			book, err := opts.openBook()
			if err != nil {
				return err
			}

			store, err := bookmarks.Open(opts.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			idx, err := store.LoadIndex(ctx)
			if err != nil {
				return err
			}
			session, err := reader.NewSession(book, opts.sessionOptions(idx))
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("chapter") {
				chapter, _ := flags.GetInt("chapter")
				if err := session.GotoChapter(chapter - 1); err != nil {
					return err
				}
			} else if p, ok, err := store.Progress(ctx, book.Metadata.Title); err != nil {
				return err
			} else if ok {
				resume(session, p, opts)
			}
			if flags.Changed("page") {
				page, _ := flags.GetInt("page")
				if err := session.GotoPage(page); err != nil {
					return err
				}
			}

			asHTML, _ := flags.GetBool("html")
			printPage(cmd.OutOrStdout(), session, asHTML)

			state := session.State()
			return store.SaveProgress(ctx, book.Metadata.Title, state.Chapter, state.Page)
		},
	}
	cmd.Flags().Int("chapter", 1, "Chapter number (1-based)")
	cmd.Flags().Int("page", 1, "Page number within the chapter (1-based)")
	cmd.Flags().Bool("html", false, "Print the chapter markup instead of plain text")
	return cmd
}

// resume restores a saved position. A position the book no longer has is
// ignored and reading starts at the beginning.
func resume(s *reader.Session, p bookmarks.Progress, opts cliOptions) {
	if err := s.GotoChapter(p.Chapter); err != nil {
		opts.Logger.Debug("ignoring saved position", "chapter", p.Chapter, "error", err)
		return
	}
	if err := s.GotoPage(p.Page); err != nil {
		opts.Logger.Debug("ignoring saved page", "page", p.Page, "error", err)
	}
}

func printPage(w io.Writer, s *reader.Session, asHTML bool) {
	ch := s.Chapter()
	stats := s.Stats()
	state := s.State()

	marker := ""
	if stats.BookmarkedHere {
		marker = " [bookmarked]"
	}
	fmt.Fprintf(w, "%s\n", s.Book().Metadata.Title)
	fmt.Fprintf(w, "%s%s\n", ch.Title, marker)
	fmt.Fprintf(w, "%s | %s | %d words | ~%d min | %d%% read\n\n",
		s.PositionLabel(), s.PageLabel(), stats.ChapterWords, stats.ReadingMinutes, stats.ProgressPercent)

	if asHTML {
		fmt.Fprintln(w, ch.Content)
		return
	}
	fmt.Fprintln(w, pageText(epub.PlainText(ch.Content), state.Page, state.TotalPages))
}

// pageText returns the words of a 1-based virtual page. Page counts come from
// the raw markup word count, which also covers the head and scripts, so the
// visible body words are spread evenly over totalPages instead of sliced at
// words-per-page. No page is left empty unless there are fewer words than pages.
func pageText(text string, page, totalPages int) string {
	words := strings.Fields(text)
	if totalPages < 1 || page < 1 || page > totalPages {
		return ""
	}
	start := (page - 1) * len(words) / totalPages
	end := page * len(words) / totalPages
	return strings.Join(words[start:end], " ")
}

func newBookmarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmark FILE",
		Short: "Toggle a bookmark on a chapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd, args)
			if err != nil {
				return err
			}
			book, err := opts.openBook()
			if err != nil {
				return err
			}

			store, err := bookmarks.Open(opts.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			idx, err := store.LoadIndex(ctx)
			if err != nil {
				return err
			}
			session, err := reader.NewSession(book, opts.sessionOptions(idx))
			if err != nil {
				return err
			}

			chapter, _ := cmd.Flags().GetInt("chapter")
			if err := session.GotoChapter(chapter - 1); err != nil {
				return err
			}
			added := session.ToggleBookmark()
			if err := store.SaveIndex(ctx, idx); err != nil {
				return err
			}

			verb := "Removed bookmark"
			if added {
				verb = "Bookmarked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", verb, session.Chapter().Title, session.PositionLabel())
			return nil
		},
	}
	cmd.Flags().Int("chapter", 0, "Chapter number (1-based)")
	_ = cmd.MarkFlagRequired("chapter")
	return cmd
}

func newBookmarksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "List saved bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd, args)
			if err != nil {
				return err
			}
			store, err := bookmarks.Open(opts.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			idx, err := store.LoadIndex(cmd.Context())
			if err != nil {
				return err
			}

			list := idx.List()
			if title, _ := cmd.Flags().GetString("book"); title != "" {
				list = idx.ForBook(title)
			}
			printBookmarks(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.Flags().String("book", "", "Only list bookmarks of this book title")
	return cmd
}

func printBookmarks(w io.Writer, list []bookmarks.Bookmark) {
	if len(list) == 0 {
		fmt.Fprintln(w, "(no bookmarks)")
		return
	}
	for _, b := range list {
		fmt.Fprintf(w, "%s, chapter %d: %s (%s)\n",
			b.BookTitle, b.Chapter+1, b.ChapterTitle, b.CreatedAt.Format("2006-01-02 15:04"))
	}
}
