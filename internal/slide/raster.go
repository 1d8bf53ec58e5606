package slide

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"math"
	"os"
	"sort"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DefaultMinLevelSize is the smallest edge, in pixels, a synthesized raster
// pyramid level may have.
const DefaultMinLevelSize = 256

// RasterVendor is the vendor property reported by raster slides.
const RasterVendor = "raster"

// Raster is a pure-Go backend that serves ordinary raster images as slides.
//
// The decoded image becomes level 0. Further levels halve both edges until
// either edge would fall below MinLevelSize. Levels are resampled with a box
// filter the first time they are read and kept for the lifetime of the handle.
//
// Calibration metadata is read from an optional YAML sidecar next to the
// image; see Calibration.
type Raster struct {
	// MinLevelSize bounds pyramid synthesis. Zero means DefaultMinLevelSize.
	MinLevelSize int
}

// Name implements Backend.
func (*Raster) Name() string { return "raster" }

// Available implements Backend.
func (*Raster) Available() bool { return true }

// CanOpen implements Backend. Only the image header is decoded.
func (*Raster) CanOpen(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	return err == nil && cfg.Width > 0 && cfg.Height > 0
}

// Open implements Backend.
func (r *Raster) Open(path string) (Slide, error) {
	base, format, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	cal, err := LoadCalibration(SidecarPath(path))
	if err != nil {
		return nil, err
	}

	minSize := r.MinLevelSize
	if minSize <= 0 {
		minSize = DefaultMinLevelSize
	}

	s := &rasterSlide{
		levels:     []*image.NRGBA{imaging.Clone(base)},
		props:      cal.properties(format),
		associated: cal.Associated,
		dir:        sidecarDir(path),
	}

	w, h := base.Bounds().Dx(), base.Bounds().Dy()
	s.dims = append(s.dims, [2]int64{int64(w), int64(h)})
	for {
		w, h = w/2, h/2
		if w < minSize || h < minSize {
			break
		}
		s.dims = append(s.dims, [2]int64{int64(w), int64(h)})
		s.levels = append(s.levels, nil)
	}

	return s, nil
}

func decodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

type rasterSlide struct {
	mu         sync.Mutex
	levels     []*image.NRGBA
	dims       [][2]int64
	props      map[string]string
	associated map[string]string
	dir        string
	closed     bool
}

func (s *rasterSlide) LevelCount() int {
	return len(s.dims)
}

func (s *rasterSlide) LevelDimensions(level int) (int64, int64) {
	if level < 0 || level >= len(s.dims) {
		return -1, -1
	}
	return s.dims[level][0], s.dims[level][1]
}

// LevelDownsample averages the width and height ratios against level 0.
func (s *rasterSlide) LevelDownsample(level int) float64 {
	if level < 0 || level >= len(s.dims) {
		return -1
	}
	w0, h0 := float64(s.dims[0][0]), float64(s.dims[0][1])
	w, h := float64(s.dims[level][0]), float64(s.dims[level][1])
	return (w0/w + h0/h) / 2
}

func (s *rasterSlide) Property(name string) (string, bool) {
	v, ok := s.props[name]
	return v, ok
}

func (s *rasterSlide) PropertyNames() []string {
	names := make([]string, 0, len(s.props))
	for k := range s.props {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (s *rasterSlide) ReadRegion(dst []uint32, x, y int64, level int, width, height int64) error {
	if level < 0 || level >= len(s.dims) {
		return fmt.Errorf("level %d out of range [0,%d)", level, len(s.dims))
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("negative width (%d) or negative height (%d) not allowed", width, height)
	}
	if int64(len(dst)) != width*height {
		return fmt.Errorf("destination holds %d pixels, want %d", len(dst), width*height)
	}

	img, err := s.level(level)
	if err != nil {
		return err
	}

	ds := s.LevelDownsample(level)
	ox := int64(math.Floor(float64(x) / ds))
	oy := int64(math.Floor(float64(y) / ds))
	lw, lh := s.dims[level][0], s.dims[level][1]

	for i := int64(0); i < height; i++ {
		py := oy + i
		row := dst[i*width : (i+1)*width]
		for j := range row {
			px := ox + int64(j)
			if px < 0 || py < 0 || px >= lw || py >= lh {
				row[j] = 0
				continue
			}
			row[j] = premultipliedARGB(img, int(px), int(py))
		}
	}
	return nil
}

// level returns the image for a level, synthesizing it from the level above
// when needed.
func (s *rasterSlide) level(level int) (*image.NRGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("slide is closed")
	}
	for l := 1; l <= level; l++ {
		if s.levels[l] != nil {
			continue
		}
		w, h := s.dims[l][0], s.dims[l][1]
		s.levels[l] = imaging.Resize(s.levels[l-1], int(w), int(h), imaging.Box)
	}
	return s.levels[level], nil
}

func (s *rasterSlide) AssociatedImageNames() []string {
	names := make([]string, 0, len(s.associated))
	for k := range s.associated {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (s *rasterSlide) ReadAssociatedImage(name string) (image.Image, error) {
	rel, ok := s.associated[name]
	if !ok {
		return nil, fmt.Errorf("no associated image %q", name)
	}
	img, _, err := decodeFile(resolveSidecarPath(s.dir, rel))
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (s *rasterSlide) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.levels = nil
	return nil
}

// premultipliedARGB packs the pixel at (x, y) as premultiplied ARGB.
func premultipliedARGB(img *image.NRGBA, x, y int) uint32 {
	o := img.PixOffset(x, y)
	r, g, b, a := uint32(img.Pix[o]), uint32(img.Pix[o+1]), uint32(img.Pix[o+2]), uint32(img.Pix[o+3])
	if a != 0xFF {
		r = r * a / 0xFF
		g = g * a / 0xFF
		b = b * a / 0xFF
	}
	return a<<24 | r<<16 | g<<8 | b
}

// argbImage wraps a premultiplied ARGB buffer as an RGBA image.
func argbImage(buf []uint32, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, p := range buf {
		img.Pix[4*i+0] = uint8(p >> 16)
		img.Pix[4*i+1] = uint8(p >> 8)
		img.Pix[4*i+2] = uint8(p)
		img.Pix[4*i+3] = uint8(p >> 24)
	}
	return img
}
