package wsi

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ironsheep/slide-tools-mcp/internal/region"
	"github.com/ironsheep/slide-tools-mcp/internal/slide"
)

func decodePreview(t *testing.T, res *PreviewResult) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	return img
}

func rgb8(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func TestGridLines(t *testing.T) {
	tests := []struct {
		name        string
		req         region.Request
		downsample  float64
		scale       float64
		spacing     int64
		wantCoords  []int64
		wantOffsets []int
	}{
		{"level 0", region.Request{X: 10, Width: 20}, 1, 1, 8, []int64{16, 24}, []int{6, 14}},
		{"on a line", region.Request{X: 16, Width: 20}, 1, 1, 8, []int64{24, 32}, []int{8, 16}},
		{"downsampled", region.Request{Level: 1, X: 0, Width: 10}, 2, 1, 8, []int64{8, 16}, []int{4, 8}},
		{"scaled", region.Request{X: 0, Width: 20}, 1, 2, 4, []int64{4, 8, 12, 16}, []int{8, 16, 24, 32}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := newGrid(tt.req, tt.downsample, tt.scale, PreviewOptions{GridSpacing: tt.spacing})
			if err != nil {
				t.Fatalf("newGrid failed: %v", err)
			}
			extent := int(float64(tt.req.Width) * tt.scale)
			coords, offsets := g.lines(tt.req.X, extent)

			if len(coords) != len(tt.wantCoords) {
				t.Fatalf("coords: got %v, want %v", coords, tt.wantCoords)
			}
			for i := range coords {
				if coords[i] != tt.wantCoords[i] || offsets[i] != tt.wantOffsets[i] {
					t.Errorf("line %d: got %d@%d, want %d@%d",
						i, coords[i], offsets[i], tt.wantCoords[i], tt.wantOffsets[i])
				}
			}
		})
	}
}

func TestNewGrid_Errors(t *testing.T) {
	req := region.Request{Width: 16, Height: 16}

	if _, err := newGrid(req, 1, 1, PreviewOptions{GridSpacing: 2}); !errors.Is(err, slide.ErrCaller) {
		t.Errorf("dense grid: got %v, want ErrCaller", err)
	}
	if _, err := newGrid(req, 1, 1, PreviewOptions{GridSpacing: 8, GridColor: "red"}); !errors.Is(err, slide.ErrCaller) {
		t.Errorf("bad color: got %v, want ErrCaller", err)
	}

	g, err := newGrid(req, 1, 1, PreviewOptions{GridSpacing: 8})
	if err != nil {
		t.Fatalf("newGrid failed: %v", err)
	}
	if g.color != DefaultGridColor {
		t.Errorf("color: got %v, want default", g.color)
	}
}

func TestRegionPreview_Grid(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(1)
	path := createSlideFile(t, dir, "grid.png", 32, 32)

	res, err := svc.RegionPreview(path, region.Request{Width: 32, Height: 32},
		PreviewOptions{GridSpacing: 8, GridColor: "#00FF00"})
	if err != nil {
		t.Fatalf("RegionPreview failed: %v", err)
	}
	if res.GridSpacing != 8 {
		t.Errorf("GridSpacing: got %d, want 8", res.GridSpacing)
	}

	img := decodePreview(t, res)
	if r, g, b := rgb8(img, 8, 20); r != 0 || g != 255 || b != 0 {
		t.Errorf("grid line at (8,20): got (%d,%d,%d), want (0,255,0)", r, g, b)
	}
	if r, g, b := rgb8(img, 20, 24); r != 0 || g != 255 || b != 0 {
		t.Errorf("grid line at (20,24): got (%d,%d,%d), want (0,255,0)", r, g, b)
	}
	if r, g, b := rgb8(img, 3, 5); r != 3 || g != 5 || b != 0x80 {
		t.Errorf("off-grid pixel (3,5): got (%d,%d,%d), want (3,5,128)", r, g, b)
	}
}

func TestRegionPreview_GridLabels(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(1)
	path := createSlideFile(t, dir, "labels.png", 64, 64)

	res, err := svc.RegionPreview(path, region.Request{Width: 64, Height: 64},
		PreviewOptions{GridSpacing: 32, GridLabels: true})
	if err != nil {
		t.Fatalf("RegionPreview failed: %v", err)
	}

	// The label box at the (32,32) intersection starts one pixel in.
	img := decodePreview(t, res)
	if r, _, b := rgb8(img, 33, 33); r >= 33 || b >= 0x80 {
		t.Errorf("label box at (33,33) should darken the pixel, got r=%d b=%d", r, b)
	}
}

func TestRegionPreview_GridErrors(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(1)
	path := createSlideFile(t, dir, "e.png", 8, 8)
	req := region.Request{Width: 8, Height: 8}

	for _, opts := range []PreviewOptions{
		{GridSpacing: -1},
		{GridSpacing: 1},
		{GridSpacing: 4, GridColor: "#12345"},
	} {
		if _, err := svc.RegionPreview(path, req, opts); !errors.Is(err, slide.ErrCaller) {
			t.Errorf("%+v: got %v, want ErrCaller", opts, err)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#FF0000", color.NRGBA{255, 0, 0, 255}, false},
		{"00ff00", color.NRGBA{0, 255, 0, 255}, false},
		{"#0000FF80", color.NRGBA{0, 0, 255, 128}, false},
		{"", color.NRGBA{}, true},
		{"#FFF", color.NRGBA{255, 255, 255, 255}, false},
		{"#12345", color.NRGBA{}, true},
		{"#FF0000GG", color.NRGBA{}, true},
		{"#GGGGGG", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		got, err := parseHexColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseHexColor(%q) error: got %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseHexColor(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}
