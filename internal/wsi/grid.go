package wsi

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/slide-tools-mcp/internal/region"
	"github.com/ironsheep/slide-tools-mcp/internal/slide"
)

// DefaultGridColor is semi-transparent red.
var DefaultGridColor = color.NRGBA{255, 0, 0, 128}

// minGridPitch is the closest two grid lines may be in the preview.
const minGridPitch = 4

// grid draws lines every spacing level-0 pixels over a preview of req.
type grid struct {
	spacing int64
	color   color.NRGBA
	labels  bool

	// pitch converts level-0 pixels to preview pixels.
	pitch float64
}

func newGrid(req region.Request, downsample, scale float64, opts PreviewOptions) (*grid, error) {
	g := &grid{
		spacing: opts.GridSpacing,
		color:   DefaultGridColor,
		labels:  opts.GridLabels,
		pitch:   scale / downsample,
	}
	if opts.GridColor != "" {
		c, err := parseHexColor(opts.GridColor)
		if err != nil {
			return nil, fmt.Errorf("%w: grid color %q: %v", slide.ErrCaller, opts.GridColor, err)
		}
		g.color = c
	}
	if float64(g.spacing)*g.pitch < minGridPitch {
		return nil, fmt.Errorf("%w: grid spacing %d is under %d preview pixels at level %d, scale %v",
			slide.ErrCaller, g.spacing, minGridPitch, req.Level, scale)
	}
	return g, nil
}

// lines returns the level-0 coordinates of the grid lines that fall inside
// [origin, origin+extent) preview pixels, with their preview offsets.
func (g *grid) lines(origin int64, extent int) (coords []int64, offsets []int) {
	first := int64(math.Ceil(float64(origin)/float64(g.spacing))) * g.spacing
	for c := first; ; c += g.spacing {
		off := int(math.Round(float64(c-origin) * g.pitch))
		if off >= extent {
			break
		}
		if off > 0 {
			coords = append(coords, c)
			offsets = append(offsets, off)
		}
	}
	return coords, offsets
}

func (g *grid) draw(img draw.Image, req region.Request) {
	b := img.Bounds()
	src := image.NewUniform(g.color)

	xs, xoffs := g.lines(req.X, b.Dx())
	ys, yoffs := g.lines(req.Y, b.Dy())

	for _, x := range xoffs {
		draw.Draw(img, image.Rect(x, 0, x+1, b.Dy()), src, image.Point{}, draw.Over)
	}
	for _, y := range yoffs {
		draw.Draw(img, image.Rect(0, y, b.Dx(), y+1), src, image.Point{}, draw.Over)
	}

	if !g.labels {
		return
	}
	for i, y := range yoffs {
		for j, x := range xoffs {
			drawLabel(img, x+2, y+2, fmt.Sprintf("%d,%d", xs[j], ys[i]))
		}
	}
}

// drawLabel writes text in white on a dark box whose top-left corner is
// (x, y).
func drawLabel(img draw.Image, x, y int, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}

	w := d.MeasureString(text).Ceil()
	box := image.Rect(x-1, y-1, x+w+1, y+face.Height+1)
	draw.Draw(img, box, image.NewUniform(color.NRGBA{0, 0, 0, 180}), image.Point{}, draw.Over)
	d.DrawString(text)
}

// parseHexColor parses a hex color string like "#F00", "#FF0000" or
// "#FF000080".
func parseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}

	alpha := uint8(255)
	switch len(hex) {
	case 4, 7:
	case 9:
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, err
		}
		alpha = uint8(a)
		hex = hex[:7]
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
