package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const maxDownloadBytes = 20 << 20

var ErrUnsupportedImage = errors.New("unsupported image content")

// Picture is an image ready to embed: JPEG bytes plus pixel dimensions.
type Picture struct {
	Data   []byte
	Width  int
	Height int
}

// Fetcher downloads candidate images and normalizes them for the PDF.
type Fetcher struct {
	HTTPClient  *http.Client
	MaxSide     int
	JPEGQuality int
}

func NewFetcher(timeout time.Duration, maxSide, quality int) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	return &Fetcher{
		HTTPClient:  &http.Client{Timeout: timeout},
		MaxSide:     maxSide,
		JPEGQuality: quality,
	}
}

// Load downloads url and returns it as an opaque JPEG.
func (f *Fetcher) Load(ctx context.Context, url string) (*Picture, error) {
	data, err := f.download(ctx, url)
	if err != nil {
		return nil, err
	}

	pic, err := f.Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to process image %s: %w", url, err)
	}

	slog.Debug("Loaded image", "url", url, "width", pic.Width, "height", pic.Height, "bytes", len(pic.Data))
	return pic, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > maxDownloadBytes {
		return nil, fmt.Errorf("image larger than %d bytes", maxDownloadBytes)
	}
	return data, nil
}

// Normalize decodes raster or SVG data, flattens transparency onto white,
// bounds the longest side to MaxSide and re-encodes as JPEG.
func (f *Fetcher) Normalize(data []byte) (*Picture, error) {
	img, err := decode(data, f.MaxSide)
	if err != nil {
		return nil, err
	}

	img = flatten(img)
	if f.MaxSide > 0 {
		b := img.Bounds()
		if b.Dx() > f.MaxSide || b.Dy() > f.MaxSide {
			img = imaging.Fit(img, f.MaxSide, f.MaxSide, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(f.JPEGQuality)); err != nil {
		return nil, fmt.Errorf("unable to encode JPEG: %w", err)
	}

	return &Picture{
		Data:   buf.Bytes(),
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func decode(data []byte, svgSide int) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrUnsupportedImage)
	}

	if filetype.IsImage(data) {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("unable to decode image: %w", err)
		}
		return img, nil
	}

	if looksLikeSVG(data) {
		if svgSide <= 0 {
			svgSide = 1024
		}
		img, err := RasterizeSVG(data, svgSide)
		if err != nil {
			return nil, fmt.Errorf("unable to rasterize svg: %w", err)
		}
		return img, nil
	}

	kind, _ := filetype.Match(data)
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, kind.MIME.Value)
}

func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	dst := image.NewRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Over)
	return dst
}
