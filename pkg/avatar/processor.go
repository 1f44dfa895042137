package avatar

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// DefaultSize is the square dimension uploaded avatars are normalized to.
const DefaultSize = 250

// Processor normalizes uploaded avatar images and stores them under a
// deterministic per-user filename inside Dir.
type Processor struct {
	Dir     string
	Size    int
	quality int // JPEG quality (1-100)
}

func NewProcessor(dir string, size int) *Processor {
	if size <= 0 {
		size = DefaultSize
	}
	return &Processor{Dir: dir, Size: size, quality: 85}
}

// Ext normalizes the extension of an uploaded filename to one of the
// supported formats. Unknown extensions fall back to .jpg.
func Ext(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return ".png"
	case ".jpg", ".jpeg":
		return ".jpg"
	default:
		return ".jpg"
	}
}

// Process decodes the image, scales it to Size x Size, and re-encodes it
// in the format implied by ext.
func (p *Processor) Process(r io.Reader, ext string) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, p.Size, p.Size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	switch ext {
	case ".png":
		if err := png.Encode(&buf, dst); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
	default:
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
	}

	return buf.Bytes(), nil
}

// Store writes processed image data to Dir/<userID><ext> and returns the
// stored filename. Concurrent uploads for the same user race on the same
// path; last write wins.
func (p *Processor) Store(userID string, data []byte, ext string) (string, error) {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", err
	}
	name := userID + ext
	if err := os.WriteFile(filepath.Join(p.Dir, name), data, 0o644); err != nil {
		return "", err
	}
	return name, nil
}
