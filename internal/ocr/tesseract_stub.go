//go:build !(cgo && linux)

package ocr

import "image"

// ExtractText always fails with ErrUnavailable in this build.
func ExtractText(img image.Image, language string) (*Result, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	return nil, ErrUnavailable
}

// GetInfo reports that OCR is not compiled in.
func GetInfo() Info {
	return Info{Available: false, Backend: "none"}
}
