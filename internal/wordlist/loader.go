package wordlist

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Entry is one word of a batch list. ImageURL, when set, is used instead of
// searching for an image.
type Entry struct {
	Word     string `json:"word" parquet:"word"`
	ImageURL string `json:"image_url,omitempty" parquet:"image_url"`
}

// Loader reads word lists from text, JSONL or Parquet files
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the file, picking the format from its extension. Blank and
// duplicate words are dropped, keeping the first occurrence.
func (l *Loader) Load() ([]Entry, error) {
	var (
		entries []Entry
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(l.path)); ext {
	case ".txt", ".csv", "":
		entries, err = l.loadText()
	case ".jsonl", ".json":
		entries, err = l.loadJSONL()
	case ".parquet":
		entries, err = l.loadParquet()
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .txt, .jsonl, .parquet)", ext)
	}
	if err != nil {
		return nil, err
	}

	entries = dedupe(entries)
	slog.Debug("Loaded word list", "path", l.path, "words", len(entries))
	return entries, nil
}

// loadText reads one word per line; lines starting with # are comments
func (l *Loader) loadText() ([]Entry, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, Entry{Word: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading word list: %w", err)
	}
	return entries, nil
}

func (l *Loader) loadJSONL() ([]Entry, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)

	const maxCapacity = 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading word list: %w", err)
	}
	return entries, nil
}

func (l *Loader) loadParquet() ([]Entry, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}
	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[Entry](pf)
	defer reader.Close()

	var entries []Entry
	rows := make([]Entry, 128)
	for {
		n, err := reader.Read(rows)
		entries = append(entries, rows[:n]...)
		if err != nil {
			break
		}
	}
	return entries, nil
}

func dedupe(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		e.Word = strings.TrimSpace(e.Word)
		e.ImageURL = strings.TrimSpace(e.ImageURL)
		if e.Word == "" {
			continue
		}
		if _, ok := seen[e.Word]; ok {
			continue
		}
		seen[e.Word] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Normalize trims words, drops blanks and removes exact duplicates while
// keeping input order.
func Normalize(words []string) []string {
	entries := make([]Entry, len(words))
	for i, w := range words {
		entries[i] = Entry{Word: w}
	}
	entries = dedupe(entries)

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Word
	}
	return out
}

// Words returns the words of entries in order.
func Words(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Word
	}
	return out
}
