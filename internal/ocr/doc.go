// Package ocr reads text from slide label images using Tesseract.
//
// Slide scanners photograph the glass label (barcode, case number, stain)
// and store it as an associated image next to the pyramid. This package runs
// Tesseract over such images through gosseract/v2.
//
// # Prerequisites
//
// OCR is compiled in on Linux with cgo enabled. Tesseract and its language
// data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// TESSDATA_PREFIX may point at a custom language data directory. On other
// builds every function returns ErrUnavailable.
//
// # Preprocessing
//
// Labels are converted to high-contrast grayscale with bild, and labels
// shorter than 300 pixels are enlarged up to four times before recognition.
//
// # Results
//
// ExtractText returns the full recognized text plus word-level bounding boxes,
// in the coordinates of the input image, with confidences in the range 0-1. If word boxes cannot be produced the
// text is still returned with an empty Words slice.
package ocr
