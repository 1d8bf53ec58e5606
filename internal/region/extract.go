// Package region extracts rectangular pixel regions from open slides and
// converts them to planar RGB buffers.
package region

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/ironsheep/slide-tools-mcp/internal/pixel"
	"github.com/ironsheep/slide-tools-mcp/internal/slide"
)

// DefaultMaxPixels caps a single region at 64 megapixels, about 448 MiB of
// transient and result buffers.
const DefaultMaxPixels = 64 << 20

// Request describes one region: a pyramid level, the top-left corner in
// level-0 coordinates, and the size in pixels of that level.
type Request struct {
	Level  int   `json:"level"`
	X      int64 `json:"x"`
	Y      int64 `json:"y"`
	Width  int64 `json:"width"`
	Height int64 `json:"height"`
}

func (r Request) String() string {
	return fmt.Sprintf("level %d (%d,%d) %dx%d", r.Level, r.X, r.Y, r.Width, r.Height)
}

// Extractor reads regions and converts them to planar RGB.
//
// The zero value is ready for use: it extracts sequentially with
// DefaultMaxPixels.
type Extractor struct {
	// MaxPixels rejects regions larger than this many pixels with ErrAlloc.
	// Zero means DefaultMaxPixels.
	MaxPixels int64

	// Workers bounds concurrent extractions within a batch. Values below two
	// extract sequentially.
	Workers int

	Logger *slog.Logger
}

// Validate checks a request against the slide before anything is read.
// Failures wrap slide.ErrCaller. Size limits are checked at extraction time.
func (e *Extractor) Validate(s slide.Slide, req Request) error {
	if n := s.LevelCount(); req.Level < 0 || req.Level >= n {
		return fmt.Errorf("%w: level index exceeded: level %d, slide has %d levels",
			slide.ErrCaller, req.Level, n)
	}
	if req.Width <= 0 || req.Height <= 0 {
		return fmt.Errorf("%w: width and height must be positive, got %dx%d",
			slide.ErrCaller, req.Width, req.Height)
	}
	return nil
}

// checkSize rejects regions over the pixel limit with slide.ErrAlloc.
func (e *Extractor) checkSize(req Request) error {
	if req.Width > math.MaxInt32 || req.Height > math.MaxInt32 || req.Width*req.Height > e.PixelLimit() {
		return fmt.Errorf("%w: region %dx%d exceeds %d pixels",
			slide.ErrAlloc, req.Width, req.Height, e.PixelLimit())
	}
	return nil
}

// Extract reads one region and returns it as three column-major planes.
//
// The transient ARGB buffer never escapes; on a read error nothing is
// returned. Errors wrap slide.ErrCaller, slide.ErrAlloc or slide.ErrRead.
func (e *Extractor) Extract(s slide.Slide, req Request) ([]byte, error) {
	if err := e.Validate(s, req); err != nil {
		return nil, err
	}
	return e.extract(s, req)
}

func (e *Extractor) extract(s slide.Slide, req Request) ([]byte, error) {
	if err := e.checkSize(req); err != nil {
		return nil, err
	}
	w, h := int(req.Width), int(req.Height)
	src, err := allocARGB(w * h)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", slide.ErrAlloc, req, err)
	}

	if err := s.ReadRegion(src, req.X, req.Y, req.Level, req.Width, req.Height); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", slide.ErrRead, req, err)
	}

	out, err := pixel.ARGBToPlanar(src, w, h)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", slide.ErrRead, req, err)
	}
	return out, nil
}

// allocARGB turns the runtime panic make raises for an out-of-range length
// into an error.
func allocARGB(n int) (buf []uint32, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("%v", r)
		}
	}()
	return make([]uint32, n), nil
}

// ExtractBatch extracts every request against the same slide and returns the
// buffers in request order.
//
// Every request is validated before the first read, so a caller error aborts
// the batch with no work done and no results. The first read or allocation
// failure stops the batch: the error names the failing index i and the
// returned slice holds the i buffers completed before it. Oversized regions
// count as allocation failures, not caller errors. With Workers > 1 requests
// are read concurrently, requests after a failure are no longer dispatched
// and the failure with the lowest index is reported.
func (e *Extractor) ExtractBatch(s slide.Slide, reqs []Request) ([][]byte, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: no regions requested", slide.ErrCaller)
	}
	for i, req := range reqs {
		if err := e.Validate(s, req); err != nil {
			return nil, fmt.Errorf("region %d: %w", i, err)
		}
	}

	if e.Workers > 1 && len(reqs) > 1 {
		return e.extractParallel(s, reqs)
	}

	out := make([][]byte, len(reqs))
	for i, req := range reqs {
		buf, err := e.extract(s, req)
		if err != nil {
			e.logger().Debug("batch aborted", "index", i, "error", err)
			return out[:i], fmt.Errorf("region %d: %w", i, err)
		}
		out[i] = buf
	}
	return out, nil
}

func (e *Extractor) extractParallel(s slide.Slide, reqs []Request) ([][]byte, error) {
	out := make([][]byte, len(reqs))
	errs := make([]error, len(reqs))

	workers := e.Workers
	if workers > len(reqs) {
		workers = len(reqs)
	}

	// failed is the lowest index that has failed so far. Requests after it
	// are neither dispatched nor read.
	var mu sync.Mutex
	failed := len(reqs)
	aborted := func(i int) bool {
		mu.Lock()
		defer mu.Unlock()
		return i > failed
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if aborted(i) {
					continue
				}
				out[i], errs[i] = e.extract(s, reqs[i])
				if errs[i] != nil {
					mu.Lock()
					if i < failed {
						failed = i
					}
					mu.Unlock()
				}
			}
		}()
	}
	for i := range reqs {
		if aborted(i) {
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			e.logger().Debug("batch aborted", "index", i, "error", err)
			return out[:i], fmt.Errorf("region %d: %w", i, err)
		}
	}
	return out, nil
}

// PixelLimit returns the largest region, in pixels, the extractor will
// allocate.
func (e *Extractor) PixelLimit() int64 {
	if e.MaxPixels > 0 {
		return e.MaxPixels
	}
	return DefaultMaxPixels
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
