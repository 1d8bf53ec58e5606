// Package wsi exposes the caller-facing whole-slide image operations.
//
// Every operation takes a file path, opens the slide, does its work and closes
// the slide again before returning, on success and failure alike. Nothing is
// cached between calls.
//
// # Operations
//
//   - CanOpen: whether any backend recognizes the file
//   - CheckLevels: per-level dimensions and downsample factors plus the
//     objective power and microns-per-pixel calibration
//   - ReadRegions: planar RGB buffers for an ordered list of regions
//   - Properties, BestLevel, RegionPreview, AssociatedImages, LabelText:
//     supporting queries over the same slide handle
//   - Backends: what this process can decode and recognize
//
// RegionPreview can overlay a grid whose lines sit on multiples of a spacing
// in level-0 pixels, so coordinates read off the preview can be passed
// straight back to ReadRegions.
//
// # Errors
//
// Errors wrap one of the classes defined in package slide:
//   - slide.ErrCaller: malformed arguments, reported before any decoder call
//   - slide.ErrOpen: the file cannot be opened or is not a slide
//   - slide.ErrRead: the decoder failed on a well-formed request
//   - slide.ErrAlloc: a region is too large to allocate
package wsi
