//go:build cgo && openslide

package slide

/*
#cgo pkg-config: openslide
#include <stdlib.h>
#include <stdint.h>
#include <openslide.h>

static const char *str_at(const char * const *p, int i) { return p[i]; }
*/
import "C"

import (
	"errors"
	"fmt"
	"image"
	"unsafe"
)

// OpenSlide is the libopenslide backend.
type OpenSlide struct{}

// NewOpenSlide returns the libopenslide backend.
func NewOpenSlide() *OpenSlide {
	return &OpenSlide{}
}

// Name implements Backend.
func (*OpenSlide) Name() string { return "openslide" }

// Available implements Backend.
func (*OpenSlide) Available() bool { return true }

// CanOpen implements Backend.
func (*OpenSlide) CanOpen(path string) bool {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	return C.openslide_detect_vendor(cPath) != nil
}

// Open implements Backend.
func (*OpenSlide) Open(path string) (Slide, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	p := C.openslide_open(cPath)
	if p == nil {
		return nil, errors.New("unrecognized by openslide")
	}
	if msg := C.openslide_get_error(p); msg != nil {
		err := errors.New(C.GoString(msg))
		C.openslide_close(p)
		return nil, err
	}
	return &openSlide{p: p}, nil
}

// OpenSlideVersion returns the linked libopenslide version.
func OpenSlideVersion() string {
	return C.GoString(C.openslide_get_version())
}

type openSlide struct {
	p *C.openslide_t
}

func (s *openSlide) LevelCount() int {
	return int(C.openslide_get_level_count(s.p))
}

func (s *openSlide) LevelDimensions(level int) (int64, int64) {
	var w, h C.int64_t
	C.openslide_get_level_dimensions(s.p, C.int32_t(level), &w, &h)
	return int64(w), int64(h)
}

func (s *openSlide) LevelDownsample(level int) float64 {
	return float64(C.openslide_get_level_downsample(s.p, C.int32_t(level)))
}

func (s *openSlide) Property(name string) (string, bool) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	v := C.openslide_get_property_value(s.p, cName)
	if v == nil {
		return "", false
	}
	return C.GoString(v), true
}

func (s *openSlide) PropertyNames() []string {
	return goStrings(C.openslide_get_property_names(s.p))
}

func (s *openSlide) ReadRegion(dst []uint32, x, y int64, level int, width, height int64) error {
	if int64(len(dst)) != width*height {
		return fmt.Errorf("destination holds %d pixels, want %d", len(dst), width*height)
	}
	if len(dst) == 0 {
		return nil
	}
	C.openslide_read_region(
		s.p,
		(*C.uint32_t)(unsafe.Pointer(&dst[0])),
		C.int64_t(x),
		C.int64_t(y),
		C.int32_t(level),
		C.int64_t(width),
		C.int64_t(height),
	)
	if msg := C.openslide_get_error(s.p); msg != nil {
		return errors.New(C.GoString(msg))
	}
	return nil
}

func (s *openSlide) AssociatedImageNames() []string {
	return goStrings(C.openslide_get_associated_image_names(s.p))
}

func (s *openSlide) ReadAssociatedImage(name string) (image.Image, error) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	var w, h C.int64_t
	C.openslide_get_associated_image_dimensions(s.p, cName, &w, &h)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("no associated image %q", name)
	}

	buf := make([]uint32, int64(w)*int64(h))
	C.openslide_read_associated_image(s.p, cName, (*C.uint32_t)(unsafe.Pointer(&buf[0])))
	if msg := C.openslide_get_error(s.p); msg != nil {
		return nil, errors.New(C.GoString(msg))
	}
	return argbImage(buf, int(w), int(h)), nil
}

func (s *openSlide) Close() error {
	if s.p != nil {
		C.openslide_close(s.p)
		s.p = nil
	}
	return nil
}

func goStrings(list **C.char) []string {
	var out []string
	if list == nil {
		return out
	}
	for i := 0; C.str_at(list, C.int(i)) != nil; i++ {
		out = append(out, C.GoString(C.str_at(list, C.int(i))))
	}
	return out
}
