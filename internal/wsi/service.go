package wsi

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/ironsheep/slide-tools-mcp/internal/ocr"
	"github.com/ironsheep/slide-tools-mcp/internal/region"
	"github.com/ironsheep/slide-tools-mcp/internal/slide"
)

// Service implements the slide operations on top of an Opener and an
// Extractor.
type Service struct {
	opener    *slide.Opener
	extractor *region.Extractor
	logger    *slog.Logger
}

// New creates a service. A nil extractor means a zero-value Extractor.
func New(opener *slide.Opener, extractor *region.Extractor, logger *slog.Logger) *Service {
	if extractor == nil {
		extractor = &region.Extractor{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{opener: opener, extractor: extractor, logger: logger}
}

// withSlide opens path, runs fn and always closes the slide.
func (s *Service) withSlide(path string, fn func(slide.Slide) error) error {
	if path == "" {
		return fmt.Errorf("%w: path is required", slide.ErrCaller)
	}

	sl, err := s.opener.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sl.Close(); cerr != nil {
			s.logger.Warn("failed to close slide", "path", path, "error", cerr)
		}
	}()

	return fn(sl)
}

// CanOpenResult reports whether a file is a readable slide.
type CanOpenResult struct {
	Path    string `json:"path"`
	CanOpen bool   `json:"can_open"`
}

// CanOpen reports whether any backend recognizes the file. It never fails:
// missing and unrecognized files both yield false.
func (s *Service) CanOpen(path string) *CanOpenResult {
	return &CanOpenResult{Path: path, CanOpen: path != "" && s.opener.CanOpen(path)}
}

// LevelsInfo describes the pyramid and calibration of a slide.
type LevelsInfo struct {
	// LevelCount is the number of pyramid levels.
	LevelCount int `json:"level_count"`

	// Dimensions holds one (height, width) row per level.
	Dimensions [][2]int64 `json:"dimensions"`

	// Downsamples holds the downsample factor of each level relative to level 0.
	Downsamples []float64 `json:"downsamples"`

	// ObjectivePower is the base-level magnification, empty when unknown.
	ObjectivePower string `json:"objective_power"`

	// MPPX and MPPY are microns per pixel at level 0, empty when unknown.
	MPPX string `json:"mpp_x"`
	MPPY string `json:"mpp_y"`
}

// CheckLevels returns the per-level geometry and calibration of a slide.
func (s *Service) CheckLevels(path string) (*LevelsInfo, error) {
	var info *LevelsInfo
	err := s.withSlide(path, func(sl slide.Slide) error {
		info = levelsInfo(sl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

func levelsInfo(sl slide.Slide) *LevelsInfo {
	n := sl.LevelCount()
	info := &LevelsInfo{
		LevelCount:  n,
		Dimensions:  make([][2]int64, n),
		Downsamples: make([]float64, n),
	}
	for l := 0; l < n; l++ {
		w, h := sl.LevelDimensions(l)
		info.Dimensions[l] = [2]int64{h, w}
		info.Downsamples[l] = sl.LevelDownsample(l)
	}
	info.ObjectivePower, _ = sl.Property(slide.PropertyObjectivePower)
	info.MPPX, _ = sl.Property(slide.PropertyMPPX)
	info.MPPY, _ = sl.Property(slide.PropertyMPPY)
	return info
}

// Layout names the buffer layout of extracted regions.
const Layout = "planar-rgb-colmajor"

// RegionData is one extracted region.
type RegionData struct {
	region.Request

	// Pixels holds Width*Height*3 bytes: red, green and blue planes, each
	// column-major.
	Pixels []byte `json:"pixels"`
}

// RegionsResult holds extracted regions in request order.
type RegionsResult struct {
	Layout  string       `json:"layout"`
	Regions []RegionData `json:"regions"`
}

// ReadRegions extracts every request from the slide at path. On a read or
// allocation failure the returned result holds the regions completed before
// the failing one, alongside the error; see region.Extractor.ExtractBatch.
func (s *Service) ReadRegions(path string, reqs []region.Request) (*RegionsResult, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: at least one region is required", slide.ErrCaller)
	}

	var result *RegionsResult
	err := s.withSlide(path, func(sl slide.Slide) error {
		bufs, err := s.extractor.ExtractBatch(sl, reqs)
		if len(bufs) > 0 {
			result = &RegionsResult{Layout: Layout, Regions: make([]RegionData, len(bufs))}
			for i, buf := range bufs {
				result.Regions[i] = RegionData{Request: reqs[i], Pixels: buf}
			}
		}
		return err
	})
	if err != nil {
		s.logger.Debug("read regions failed", "path", path, "regions", len(reqs), "error", err)
		return result, err
	}
	return result, nil
}

// Property is one slide property.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PropertiesResult lists slide properties sorted by name.
type PropertiesResult struct {
	Vendor     string     `json:"vendor"`
	Properties []Property `json:"properties"`
}

// Properties returns every property of a slide.
func (s *Service) Properties(path string) (*PropertiesResult, error) {
	var result *PropertiesResult
	err := s.withSlide(path, func(sl slide.Slide) error {
		names := sl.PropertyNames()
		sort.Strings(names)
		result = &PropertiesResult{Properties: make([]Property, 0, len(names))}
		result.Vendor, _ = sl.Property(slide.PropertyVendor)
		for _, name := range names {
			v, _ := sl.Property(name)
			result.Properties = append(result.Properties, Property{Name: name, Value: v})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BestLevelResult is the level best suited to a requested downsample.
type BestLevelResult struct {
	Downsample      float64 `json:"downsample"`
	Level           int     `json:"level"`
	LevelDownsample float64 `json:"level_downsample"`
	Width           int64   `json:"width"`
	Height          int64   `json:"height"`
}

// BestLevel returns the highest-resolution level whose downsample does not
// exceed the requested factor.
func (s *Service) BestLevel(path string, downsample float64) (*BestLevelResult, error) {
	if downsample <= 0 {
		return nil, fmt.Errorf("%w: downsample must be positive, got %v", slide.ErrCaller, downsample)
	}

	var result *BestLevelResult
	err := s.withSlide(path, func(sl slide.Slide) error {
		info := levelsInfo(sl)
		if info.LevelCount == 0 {
			return fmt.Errorf("%w: slide has no levels", slide.ErrRead)
		}
		l := bestLevel(info.Downsamples, downsample)
		result = &BestLevelResult{
			Downsample:      downsample,
			Level:           l,
			LevelDownsample: info.Downsamples[l],
			Width:           info.Dimensions[l][1],
			Height:          info.Dimensions[l][0],
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// bestLevel picks the last level whose downsample is not above the target.
// Downsamples are ascending.
func bestLevel(downsamples []float64, target float64) int {
	if len(downsamples) == 0 || target < downsamples[0] {
		return 0
	}
	for i := 1; i < len(downsamples); i++ {
		if target < downsamples[i] {
			return i - 1
		}
	}
	return len(downsamples) - 1
}

// BackendsInfo describes the decoders and OCR engine this process can use.
type BackendsInfo struct {
	Backends         []string `json:"backends"`
	OpenSlideVersion string   `json:"openslide_version"`
	OCR              ocr.Info `json:"ocr"`
}

// Backends reports the enabled backends in the order they are tried.
func (s *Service) Backends() *BackendsInfo {
	return &BackendsInfo{
		Backends:         s.opener.Backends(),
		OpenSlideVersion: slide.OpenSlideVersion(),
		OCR:              ocr.GetInfo(),
	}
}
