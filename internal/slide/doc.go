// Package slide opens whole-slide images through pluggable decoding backends.
//
// A Slide is an opaque, read-only handle onto a multi-resolution image pyramid.
// Level 0 is the highest resolution; every further level is downsampled by the
// factor reported by LevelDownsample. Region coordinates passed to ReadRegion
// are expressed in level-0 pixels while the region width and height are in
// pixels of the requested level, following the OpenSlide convention.
//
// # Backends
//
// Two backends are provided:
//   - openslide: binds libopenslide through cgo. It is compiled only with the
//     "openslide" build tag; otherwise a stub reports ErrBackendUnavailable.
//   - raster: pure Go. It opens ordinary PNG, JPEG, GIF, TIFF, BMP and WebP
//     files and synthesizes a power-of-two pyramid on demand.
//
// An Opener tries its backends in order and hands the file to the first one
// that recognizes it.
//
// # Lifecycle
//
// Handles are owned by the caller and must be released with Close once all
// reads complete. Handles are never cached by this package.
//
// # Pixel Format
//
// ReadRegion fills a row-major buffer of premultiplied ARGB cells. Pixels
// outside the level bounds are transparent (zero).
package slide
