package ocr

import (
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/transform"
)

// ErrUnavailable is returned when the build has no Tesseract support.
var ErrUnavailable = errors.New("ocr not available in this build")

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Word is a recognized word with its location and confidence.
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Bounds     Bounds  `json:"bounds"`
}

// Result contains the text recognized in an image.
type Result struct {
	// FullText is all recognized text with original spacing and newlines.
	FullText string `json:"full_text"`

	// Words holds individual words. It may be empty when box extraction fails.
	Words []Word `json:"words"`
}

// Info describes the OCR subsystem.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Backend   string `json:"backend"`
}

func checkImage(img image.Image) error {
	if img == nil {
		return errors.New("no image")
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("empty image %v", b)
	}
	return nil
}

// Labels shorter than minLabelHeight are enlarged, by at most maxEnlarge,
// before recognition.
const (
	minLabelHeight = 300
	maxEnlarge     = 4
)

// prepare returns a high-contrast grayscale copy of img, enlarged when the
// label is small, and the factor it was enlarged by.
func prepare(img image.Image) (image.Image, int) {
	out := adjust.Contrast(effect.Grayscale(img), 0.3)

	b := out.Bounds()
	factor := 1
	for b.Dy()*factor < minLabelHeight && factor < maxEnlarge {
		factor *= 2
	}
	if factor == 1 {
		return out, 1
	}
	return transform.Resize(out, b.Dx()*factor, b.Dy()*factor, transform.Linear), factor
}
