//go:build cgo && linux

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/otiai10/gosseract/v2"
)

// ExtractText runs OCR over img.
//
// Parameters:
//   - img: the image to read, typically a slide label.
//   - language: Tesseract language code; empty means DefaultLanguage.
func ExtractText(img image.Image, language string) (*Result, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	if language == "" {
		language = DefaultLanguage
	}

	prepared, factor := prepare(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, prepared); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if prefix := os.Getenv("TESSDATA_PREFIX"); prefix != "" {
		if err := client.SetTessdataPrefix(prefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	// Word boxes are optional; return the text alone if they fail
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return &Result{FullText: text, Words: []Word{}}, nil
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		words = append(words, Word{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			// Boxes are reported in the coordinates of the input image.
			Bounds: Bounds{
				X1: box.Box.Min.X / factor,
				Y1: box.Box.Min.Y / factor,
				X2: box.Box.Max.X / factor,
				Y2: box.Box.Max.Y / factor,
			},
		})
	}

	return &Result{FullText: text, Words: words}, nil
}

// GetInfo reports the linked Tesseract version.
func GetInfo() Info {
	client := gosseract.NewClient()
	defer client.Close()
	return Info{Available: true, Version: client.Version(), Backend: "gosseract"}
}
