package wordgen

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxLineLength = 30

var (
	numbered = regexp.MustCompile(`^\d+[.)]`)
	bullet   = regexp.MustCompile(`^[-*•–]\s*`)
)

// ParseWords extracts at most count words from a model answer. Numbered
// and overlong lines are dropped, excluded words are skipped and the
// remaining words are deduplicated without regard to case.
func ParseWords(text string, count int, exclude []string) []string {
	excluded := make(map[string]struct{}, len(exclude))
	for _, w := range exclude {
		excluded[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || numbered.MatchString(line) {
			continue
		}
		line = strings.TrimSpace(bullet.ReplaceAllString(line, ""))
		if line == "" || utf8.RuneCountInString(line) > maxLineLength {
			continue
		}
		lines = append(lines, line)
	}
	if count > 0 && len(lines) > count {
		lines = lines[:count]
	}

	words := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, w := range lines {
		key := strings.ToLower(w)
		if _, ok := excluded[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		words = append(words, w)
	}
	return words
}
