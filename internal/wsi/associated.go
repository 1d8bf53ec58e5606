package wsi

import (
	"fmt"

	"github.com/ironsheep/slide-tools-mcp/internal/ocr"
	"github.com/ironsheep/slide-tools-mcp/internal/slide"
)

// LabelImageName is the associated image scanners use for the glass label.
const LabelImageName = "label"

// AssociatedImage describes one auxiliary image of a slide.
type AssociatedImage struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// AssociatedImagesResult lists the auxiliary images of a slide.
type AssociatedImagesResult struct {
	Images []AssociatedImage `json:"images"`
}

// AssociatedImages lists the auxiliary images (label, macro, thumbnail) a
// slide carries.
func (s *Service) AssociatedImages(path string) (*AssociatedImagesResult, error) {
	var result *AssociatedImagesResult
	err := s.withSlide(path, func(sl slide.Slide) error {
		names := sl.AssociatedImageNames()
		result = &AssociatedImagesResult{Images: make([]AssociatedImage, 0, len(names))}
		for _, name := range names {
			img, err := sl.ReadAssociatedImage(name)
			if err != nil {
				return fmt.Errorf("%w: associated image %q: %w", slide.ErrRead, name, err)
			}
			b := img.Bounds()
			result.Images = append(result.Images, AssociatedImage{Name: name, Width: b.Dx(), Height: b.Dy()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LabelTextResult is the OCR output for an associated image.
type LabelTextResult struct {
	Image string `json:"image"`
	*ocr.Result
}

// LabelText runs OCR over an associated image, LabelImageName by default.
func (s *Service) LabelText(path, name, language string) (*LabelTextResult, error) {
	if name == "" {
		name = LabelImageName
	}

	var result *LabelTextResult
	err := s.withSlide(path, func(sl slide.Slide) error {
		if !hasName(sl.AssociatedImageNames(), name) {
			return fmt.Errorf("%w: slide has no associated image %q", slide.ErrCaller, name)
		}
		img, err := sl.ReadAssociatedImage(name)
		if err != nil {
			return fmt.Errorf("%w: associated image %q: %w", slide.ErrRead, name, err)
		}
		text, err := ocr.ExtractText(img, language)
		if err != nil {
			return fmt.Errorf("%w: OCR of %q: %w", slide.ErrRead, name, err)
		}
		result = &LabelTextResult{Image: name, Result: text}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func hasName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
