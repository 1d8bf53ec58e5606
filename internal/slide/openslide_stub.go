//go:build !(cgo && openslide)

package slide

// OpenSlide is the libopenslide backend. This build was compiled without the
// "openslide" tag, so the backend never recognizes a file.
type OpenSlide struct{}

// NewOpenSlide returns the libopenslide backend.
func NewOpenSlide() *OpenSlide {
	return &OpenSlide{}
}

// Name implements Backend.
func (*OpenSlide) Name() string { return "openslide" }

// Available implements Backend.
func (*OpenSlide) Available() bool { return false }

// CanOpen implements Backend.
func (*OpenSlide) CanOpen(string) bool { return false }

// Open implements Backend.
func (*OpenSlide) Open(string) (Slide, error) {
	return nil, ErrBackendUnavailable
}

// OpenSlideVersion returns the linked libopenslide version.
func OpenSlideVersion() string {
	return "unavailable"
}
