package gfx

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/decker502/yanimator/internal/oam"
	"github.com/decker502/yanimator/pkg/anim"
)

// SelectedTint is multiplied into the pixels of selected OAMs.
var SelectedTint = color.NRGBA{R: 0x90, G: 0xEE, B: 0x90, A: 0xFF}

// Renderer draws cels with one sheet and palette.
type Renderer struct {
	Sheet   *Sheet
	Palette Palette
	// FallbackRow replaces palette rows the palette does not have. A negative
	// value skips such objects instead.
	FallbackRow int
	// Highlight tints objects whose Selected flag is set.
	Highlight bool
}

// Bounds returns the pixel rectangle covered by c relative to the cel origin.
func Bounds(c *anim.Cel) image.Rectangle {
	var r image.Rectangle
	for _, o := range c.OAMs {
		r = r.Union(o.PixelBounds(oam.TileSize))
	}
	return r
}

// RenderCel draws c at one pixel per texel without highlighting.
func RenderCel(c *anim.Cel, sheet *Sheet, pal Palette) *image.NRGBA {
	r := Renderer{Sheet: sheet, Palette: pal, FallbackRow: -1}
	return r.Render(c)
}

// Render draws c into an image whose bounds are Bounds(c), so the cel origin
// is image point (0, 0). Objects are painted back-to-front; colour 0 is
// transparent and tiles past the end of the sheet are skipped.
func (r *Renderer) Render(c *anim.Cel) *image.NRGBA {
	img := image.NewNRGBA(Bounds(c))
	for _, o := range c.DrawOrder() {
		r.drawOAM(img, o)
	}
	return img
}

func (r *Renderer) drawOAM(img *image.NRGBA, o oam.OAM) {
	row, ok := r.Palette.Row(o.Palette)
	if !ok {
		if row, ok = r.Palette.Row(r.FallbackRow); !ok {
			return
		}
	}
	tint := r.Highlight && o.Selected
	hflip, vflip := o.Flip.HFlip(), o.Flip.VFlip()

	for gy, tiles := range o.TileGrid() {
		for gx, index := range tiles {
			tile, ok := r.Sheet.Tile(index)
			if !ok {
				continue
			}
			x0 := int(o.X) + gx*oam.TileSize
			y0 := int(o.Y) + gy*oam.TileSize

			for py := 0; py < oam.TileSize; py++ {
				sy := py
				if vflip {
					sy = oam.TileSize - 1 - py
				}
				for px := 0; px < oam.TileSize; px++ {
					sx := px
					if hflip {
						sx = oam.TileSize - 1 - px
					}
					ci := tile[sy*oam.TileSize+sx]
					if ci == 0 {
						continue
					}
					col := row[ci]
					if tint {
						col = multiply(col, SelectedTint)
					}
					img.SetNRGBA(x0+px, y0+py, col)
				}
			}
		}
	}
}

func multiply(c, t color.NRGBA) color.NRGBA {
	return color.NRGBA{
		R: uint8(uint16(c.R) * uint16(t.R) / 0xFF),
		G: uint8(uint16(c.G) * uint16(t.G) / 0xFF),
		B: uint8(uint16(c.B) * uint16(t.B) / 0xFF),
		A: c.A,
	}
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling.
// The result starts at (0, 0). Factors below 2 return img unchanged.
func Scale(img *image.NRGBA, factor int) *image.NRGBA {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Compose paints img onto dst with its origin at (x, y) in dst.
func Compose(dst draw.Image, img *image.NRGBA, x, y int) {
	b := img.Bounds()
	r := b.Add(image.Pt(x, y))
	draw.Draw(dst, r, img, b.Min, draw.Over)
}
