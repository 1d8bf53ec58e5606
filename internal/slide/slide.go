package slide

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"strings"
)

// Well-known property names shared by all backends.
const (
	PropertyVendor         = "openslide.vendor"
	PropertyObjectivePower = "openslide.objective-power"
	PropertyMPPX           = "openslide.mpp-x"
	PropertyMPPY           = "openslide.mpp-y"
)

// Slide is an open whole-slide image.
type Slide interface {
	// LevelCount returns the number of pyramid levels.
	LevelCount() int

	// LevelDimensions returns the width and height of a level in pixels.
	LevelDimensions(level int) (width, height int64)

	// LevelDownsample returns the downsample factor of a level relative to level 0.
	LevelDownsample(level int) float64

	// Property returns the value of a slide property and whether it is set.
	Property(name string) (string, bool)

	// PropertyNames lists every property the slide exposes.
	PropertyNames() []string

	// ReadRegion fills dst with width*height premultiplied ARGB pixels read
	// from level, with the top-left corner at (x, y) in level-0 coordinates.
	ReadRegion(dst []uint32, x, y int64, level int, width, height int64) error

	// AssociatedImageNames lists auxiliary images such as "label" or "macro".
	AssociatedImageNames() []string

	// ReadAssociatedImage decodes an auxiliary image by name.
	ReadAssociatedImage(name string) (image.Image, error)

	// Close releases the handle. The slide must not be used afterwards.
	Close() error
}

// Backend is a decoding library able to open slides.
type Backend interface {
	// Name identifies the backend in configuration and logs.
	Name() string

	// Available reports whether the backend was compiled in.
	Available() bool

	// CanOpen reports whether the backend recognizes the file.
	CanOpen(path string) bool

	// Open opens the file. The caller must Close the returned slide.
	Open(path string) (Slide, error)
}

// Opener dispatches files to the first backend that recognizes them.
type Opener struct {
	backends []Backend
	logger   *slog.Logger
}

// NewOpener creates an opener over the given backends, tried in order.
// Backends that were not compiled in are skipped.
func NewOpener(logger *slog.Logger, backends ...Backend) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Opener{logger: logger}
	for _, b := range backends {
		if !b.Available() {
			logger.Debug("skipping unavailable backend", "backend", b.Name())
			continue
		}
		o.backends = append(o.backends, b)
	}
	return o
}

// Backends returns the names of the active backends in dispatch order.
func (o *Opener) Backends() []string {
	names := make([]string, len(o.backends))
	for i, b := range o.backends {
		names[i] = b.Name()
	}
	return names
}

// CanOpen reports whether any backend recognizes the file. Missing files and
// unrecognized formats both yield false.
func (o *Opener) CanOpen(path string) bool {
	return o.backendFor(path) != nil
}

// Open opens the file with the first backend that recognizes it.
//
// All failures wrap ErrOpen. No handle is returned on error.
func (o *Opener) Open(path string) (Slide, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	b := o.backendFor(path)
	if b == nil {
		return nil, fmt.Errorf("%w: %s: unrecognized format (tried %s)",
			ErrOpen, path, strings.Join(o.Backends(), ", "))
	}

	s, err := b.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
	}

	o.logger.Debug("slide opened", "path", path, "backend", b.Name(), "levels", s.LevelCount())
	return s, nil
}

func (o *Opener) backendFor(path string) Backend {
	for _, b := range o.backends {
		if b.CanOpen(path) {
			return b
		}
	}
	return nil
}

// BackendOptions configures backends built by NewBackend.
type BackendOptions struct {
	// MinLevelSize bounds raster pyramid synthesis.
	MinLevelSize int
}

// NewBackend builds a backend by name ("openslide" or "raster").
func NewBackend(name string, opts BackendOptions) (Backend, error) {
	switch name {
	case "openslide":
		return NewOpenSlide(), nil
	case "raster":
		return &Raster{MinLevelSize: opts.MinLevelSize}, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", name)
	}
}
