package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/image/draw"

	"github.com/examforge/examforge/internal/assets"
	"github.com/examforge/examforge/internal/exam"
	"github.com/examforge/examforge/internal/logger"
)

const maxImageBytes = 16 << 20

// ImageOptimizer inlines every image reference in a job payload as a bounded
// base64 JPEG data URI, so the renderer never reaches out to storage or
// external hosts mid-render. One image failing is non-fatal: the original
// reference stays as fallback and the job proceeds.
type ImageOptimizer struct {
	resolver *assets.Resolver
	client   *http.Client
	maxW     int
	maxH     int
	quality  int
	log      *logger.Logger
}

func NewImageOptimizer(resolver *assets.Resolver, maxW, maxH, quality int, fetchTimeout time.Duration, log *logger.Logger) *ImageOptimizer {
	return &ImageOptimizer{
		resolver: resolver,
		client:   &http.Client{Timeout: fetchTimeout},
		maxW:     maxW,
		maxH:     maxH,
		quality:  quality,
		log:      log.With("component", "ImageOptimizer"),
	}
}

// OptimizeSections rewrites image choice contents in place and returns how
// many images were inlined vs left on their original reference.
func (o *ImageOptimizer) OptimizeSections(ctx context.Context, sections []exam.SubjectSection) (inlined, kept int) {
	for si := range sections {
		for ei := range sections[si].Entries {
			entry := &sections[si].Entries[ei]
			for ci := range entry.Choices {
				c := &entry.Choices[ci]
				if c.Content.Kind != exam.ContentImage || c.Content.ImageRef == "" {
					continue
				}
				if strings.HasPrefix(c.Content.ImageRef, "data:") {
					continue
				}
				uri, err := o.inline(ctx, c.Content.ImageRef)
				if err != nil {
					o.log.Warn("image optimization failed, keeping original ref",
						"ref", c.Content.ImageRef, "error", err)
					kept++
					continue
				}
				c.Content.ImageRef = uri
				inlined++
			}
		}
	}
	return inlined, kept
}

func (o *ImageOptimizer) inline(ctx context.Context, ref string) (string, error) {
	raw, err := o.fetch(ctx, o.resolver.Resolve(ref))
	if err != nil {
		return "", err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	img = o.downscale(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: o.quality}); err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (o *ImageOptimizer) fetch(ctx context.Context, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, err
		}
		resp, err := o.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", ref, resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	}
	// Local path (offline mode).
	return os.ReadFile(strings.TrimPrefix(ref, "file://"))
}

// downscale fits img into the configured box, preserving aspect ratio.
// Images already inside the box pass through untouched.
func (o *ImageOptimizer) downscale(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= o.maxW && h <= o.maxH {
		return img
	}
	scale := float64(o.maxW) / float64(w)
	if s := float64(o.maxH) / float64(h); s < scale {
		scale = s
	}
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
