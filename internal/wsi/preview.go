package wsi

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/slide-tools-mcp/internal/pixel"
	"github.com/ironsheep/slide-tools-mcp/internal/region"
	"github.com/ironsheep/slide-tools-mcp/internal/slide"
)

// PreviewOptions controls how a region preview is rendered.
type PreviewOptions struct {
	// Scale resizes the PNG. Zero means 1.0.
	Scale float64

	// GridSpacing draws a line every GridSpacing level-0 pixels when positive.
	GridSpacing int64

	// GridColor is "#RRGGBB" or "#RRGGBBAA". Empty means DefaultGridColor.
	GridColor string

	// GridLabels writes the level-0 coordinates at each grid intersection.
	GridLabels bool
}

// PreviewResult is a PNG rendering of an extracted region.
type PreviewResult struct {
	region.Request
	PreviewWidth  int    `json:"preview_width"`
	PreviewHeight int    `json:"preview_height"`
	GridSpacing   int64  `json:"grid_spacing,omitempty"`
	ImageBase64   string `json:"image_base64"`
	MimeType      string `json:"mime_type"`
}

// RegionPreview extracts one region and returns it as a base64 PNG. The
// region goes through the same planar conversion as ReadRegions, so the
// preview shows exactly the delivered pixels with alpha discarded.
func (s *Service) RegionPreview(path string, req region.Request, opts PreviewOptions) (*PreviewResult, error) {
	if opts.Scale < 0 || math.IsNaN(opts.Scale) {
		return nil, fmt.Errorf("%w: scale must be positive, got %v", slide.ErrCaller, opts.Scale)
	}
	if opts.Scale == 0 {
		opts.Scale = 1.0
	}
	if opts.GridSpacing < 0 {
		return nil, fmt.Errorf("%w: grid spacing must be positive, got %d", slide.ErrCaller, opts.GridSpacing)
	}

	// The scaled canvas is held to the same pixel limit as the region.
	// Non-positive sizes are left to the extractor's caller checks.
	limit := s.extractor.PixelLimit()
	px := float64(req.Width) * opts.Scale * float64(req.Height) * opts.Scale
	if req.Width > 0 && req.Height > 0 && px > float64(limit) {
		return nil, fmt.Errorf("%w: preview of %dx%d at scale %v exceeds %d pixels",
			slide.ErrAlloc, req.Width, req.Height, opts.Scale, limit)
	}

	var (
		planar []byte
		g      *grid
	)
	err := s.withSlide(path, func(sl slide.Slide) error {
		var err error
		if planar, err = s.extractor.Extract(sl, req); err != nil {
			return err
		}
		if opts.GridSpacing > 0 {
			g, err = newGrid(req, sl.LevelDownsample(req.Level), opts.Scale, opts)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	rgba, err := pixel.PlanarToRGBA(planar, int(req.Width), int(req.Height))
	if err != nil {
		return nil, err
	}

	canvas, err := scalePreview(rgba, opts.Scale)
	if err != nil {
		return nil, err
	}
	if g != nil {
		g.draw(canvas, req)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &PreviewResult{
		Request:       req,
		PreviewWidth:  canvas.Bounds().Dx(),
		PreviewHeight: canvas.Bounds().Dy(),
		GridSpacing:   opts.GridSpacing,
		ImageBase64:   base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:      "image/png",
	}, nil
}

func scalePreview(img image.Image, scale float64) (*image.NRGBA, error) {
	if scale == 1.0 {
		return imaging.Clone(img), nil
	}

	newWidth := int(float64(img.Bounds().Dx()) * scale)
	newHeight := int(float64(img.Bounds().Dy()) * scale)
	if newWidth < 1 || newHeight < 1 {
		return nil, fmt.Errorf("%w: scale %v shrinks region below one pixel", slide.ErrCaller, scale)
	}
	return imaging.Resize(img, newWidth, newHeight, imaging.Lanczos), nil
}
