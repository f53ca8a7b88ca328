package images

import (
	"fmt"
	"net/url"
)

var DefaultPalette = []string{"FFB6C1", "87CEEB", "98FB98", "FFD700", "DDA0DD"}

// Placeholders returns n distinct placeholder image URLs labelled with word
// and a 1-based index, cycling through palette for the background.
func Placeholders(word string, n int, palette []string) []string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}

	urls := make([]string, 0, n)
	for i := 0; i < n; i++ {
		color := palette[i%len(palette)]
		urls = append(urls, fmt.Sprintf("https://via.placeholder.com/400x300/%s/333333?text=%s+%d",
			color, url.QueryEscape(word), i+1))
	}
	return urls
}
