package cmd

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thomnico/fiches-mots/internal/document"
	"github.com/thomnico/fiches-mots/internal/images"
	"github.com/thomnico/fiches-mots/internal/wordlist"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		theme        string
		words        []string
		file         string
		out          string
		cardsPerPage int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a PDF from a word list without the web interface",
		Long: `Searches images for every word, keeps the first candidate of each and
writes the PDF. Words come from --words or from a .txt, .jsonl or .parquet
file. JSONL and Parquet rows may carry an image_url that skips the search.`,
		Example: `  fiches generate --theme automne --words marron,citrouille,champignon
  fiches generate --theme ferme --file mots.txt --cards-per-page 4 --out ferme.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg

			var entries []wordlist.Entry
			if file != "" {
				loaded, err := wordlist.NewLoader(file).Load()
				if err != nil {
					return err
				}
				entries = loaded
			}
			for _, w := range wordlist.Normalize(words) {
				entries = append(entries, wordlist.Entry{Word: w})
			}
			if len(entries) == 0 {
				return fmt.Errorf("no words given: use --words or --file")
			}

			if cardsPerPage == 0 {
				cardsPerPage = cfg.PDF.CardsPerPage
			}
			assembler, err := newAssembler(cfg, cardsPerPage)
			if err != nil {
				return err
			}
			gateway, searchCache, err := newGateway(cfg)
			if err != nil {
				return err
			}
			if searchCache != nil {
				defer searchCache.Close()
			}

			var toSearch []string
			for _, e := range entries {
				if e.ImageURL == "" {
					toSearch = append(toSearch, e.Word)
				}
			}
			found := gateway.SearchAll(cmd.Context(), toSearch, theme)

			req := document.Request{Theme: theme}
			for _, e := range entries {
				url := e.ImageURL
				if url == "" {
					url = firstOr(found[e.Word], images.Placeholders(e.Word, 1, cfg.Images.PlaceholderPalette))
				}
				req.Cards = append(req.Cards, document.Card{Word: e.Word, ImageURL: url})
			}

			var buf bytes.Buffer
			if err := assembler.Assemble(cmd.Context(), &buf, req); err != nil {
				return err
			}

			if out == "" {
				out = document.Filename(theme)
			}
			if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}

			slog.Info("PDF written", "path", out, "words", len(req.Cards), "bytes", buf.Len())
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&theme, "theme", "t", "", "Theme used to refine searches and name the document")
	cmd.Flags().StringSliceVarP(&words, "words", "w", nil, "Comma separated words")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Word list file (.txt, .jsonl, .parquet)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default fiches_<theme>.pdf)")
	cmd.Flags().IntVarP(&cardsPerPage, "cards-per-page", "n", 0, "Cards per page, 2 or 4 (default from config)")

	return cmd
}

func firstOr(urls, fallback []string) string {
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			return u
		}
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return ""
}
