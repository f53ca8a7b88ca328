package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/h2non/filetype"
	"github.com/thomnico/fiches-mots/internal/layout"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/sync/errgroup"
)

// ErrFontLoad is fatal to document generation.
var ErrFontLoad = errors.New("failed to load font")

const builtinPrefix = "builtin:"

var builtinFonts = map[string][]byte{
	"gobold":       gobold.TTF,
	"gobolditalic": gobolditalic.TTF,
	"goitalic":     goitalic.TTF,
	"gomedium":     gomedium.TTF,
	"gomono":       gomono.TTF,
	"goregular":    goregular.TTF,
}

// FontSources names where each typeface comes from: "builtin:<name>", an
// http(s) URL or a file path.
type FontSources struct {
	Capital string
	Script  string
	Cursive string
}

// Fonts holds the TTF bytes of the three typefaces.
type Fonts struct {
	Capital []byte
	Script  []byte
	Cursive []byte
}

func (f *Fonts) byStyle(style layout.Style) []byte {
	switch style {
	case layout.Capital:
		return f.Capital
	case layout.Script:
		return f.Script
	default:
		return f.Cursive
	}
}

// LoadFonts fetches the three typefaces in parallel. The first failure
// cancels the others.
func LoadFonts(ctx context.Context, client *http.Client, sources FontSources) (*Fonts, error) {
	if client == nil {
		client = http.DefaultClient
	}

	fonts := &Fonts{}
	g, ctx := errgroup.WithContext(ctx)
	for _, job := range []struct {
		name string
		src  string
		dst  *[]byte
	}{
		{"capital", sources.Capital, &fonts.Capital},
		{"script", sources.Script, &fonts.Script},
		{"cursive", sources.Cursive, &fonts.Cursive},
	} {
		g.Go(func() error {
			data, err := loadFont(ctx, client, job.src)
			if err != nil {
				return fmt.Errorf("%w %s (%s): %v", ErrFontLoad, job.name, job.src, err)
			}
			*job.dst = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return fonts, nil
}

func loadFont(ctx context.Context, client *http.Client, src string) ([]byte, error) {
	src = strings.TrimSpace(src)

	var (
		data []byte
		err  error
	)
	switch {
	case src == "":
		return nil, errors.New("no source configured")
	case strings.HasPrefix(src, builtinPrefix):
		name := strings.TrimPrefix(src, builtinPrefix)
		builtin, ok := builtinFonts[name]
		if !ok {
			return nil, fmt.Errorf("unknown builtin font %q", name)
		}
		data = builtin
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		data, err = fetchFont(ctx, client, src)
	default:
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, errors.New("font file is empty")
	}
	if !filetype.Is(data, "ttf") && !filetype.Is(data, "otf") {
		return nil, errors.New("not a TrueType or OpenType font")
	}
	return data, nil
}

func fetchFont(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
