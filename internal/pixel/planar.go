package pixel

import (
	"fmt"
	"image"
)

// Channel indexes one plane of a planar RGB buffer.
type Channel int

// Plane order inside a planar buffer.
const (
	Red Channel = iota
	Green
	Blue
)

// Channels is the number of planes in a planar RGB buffer.
const Channels = 3

// PlanarSize returns the number of bytes a width x height planar RGB buffer
// occupies.
func PlanarSize(width, height int) int {
	return width * height * Channels
}

// PlaneOffset returns the index of the sample at (row, col) of the given
// channel in a planar buffer with the given dimensions.
func PlaneOffset(ch Channel, row, col, width, height int) int {
	return int(ch)*width*height + col*height + row
}

// ARGBToPlanar converts a row-major ARGB buffer into three column-major
// 8-bit planes (red, green, blue). The alpha byte is discarded.
//
// Parameters:
//   - src: width*height packed pixels, A<<24 | R<<16 | G<<8 | B.
//   - width, height: region dimensions in pixels, both positive.
//
// Returns a freshly allocated buffer of PlanarSize(width, height) bytes, or an
// error if the dimensions are not positive or do not match len(src).
func ARGBToPlanar(src []uint32, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if len(src) != width*height {
		return nil, fmt.Errorf("source holds %d pixels, want %d for %dx%d",
			len(src), width*height, width, height)
	}

	n := width * height
	dst := make([]byte, n*Channels)
	red := dst[:n]
	green := dst[n : 2*n]
	blue := dst[2*n:]

	// Input is row-major, output is column-major.
	for i := 0; i < height; i++ {
		row := src[i*width : (i+1)*width]
		for j, p := range row {
			k := j*height + i
			red[k] = uint8(p >> 16)
			green[k] = uint8(p >> 8)
			blue[k] = uint8(p)
		}
	}

	return dst, nil
}

// PlanarToRGBA builds an opaque RGBA image from a planar buffer produced by
// ARGBToPlanar. It is used to render previews of extracted regions.
func PlanarToRGBA(planar []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if len(planar) != PlanarSize(width, height) {
		return nil, fmt.Errorf("planar buffer holds %d bytes, want %d",
			len(planar), PlanarSize(width, height))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := img.PixOffset(x, y)
			img.Pix[o+0] = planar[PlaneOffset(Red, y, x, width, height)]
			img.Pix[o+1] = planar[PlaneOffset(Green, y, x, width, height)]
			img.Pix[o+2] = planar[PlaneOffset(Blue, y, x, width, height)]
			img.Pix[o+3] = 0xFF
		}
	}
	return img, nil
}

// PackARGB packs 8-bit components into a single ARGB cell.
func PackARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}
