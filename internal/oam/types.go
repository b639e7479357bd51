// Package oam provides the sprite placement record used by cels, together with
// its two binary encodings: the packed 6-byte hardware object attribute layout
// and the flat 8-byte layout used inside .yan project files.
package oam

import "fmt"

// Shape is the OAM object shape.
type Shape uint8

const (
	ShapeSquare Shape = iota
	ShapeHorizontal
	ShapeVertical
)

// Size selects one of four dimensions. Its meaning depends on the Shape,
// see Dimensions.
type Size uint8

const (
	Size0 Size = iota
	Size1
	Size2
	Size3
)

// Flip mirrors the object along one or both axes.
type Flip uint8

const (
	FlipNone Flip = iota
	FlipHorizontal
	FlipVertical
	FlipBoth
)

func (s Shape) String() string {
	switch s {
	case ShapeSquare:
		return "Square"
	case ShapeHorizontal:
		return "Horizontal"
	case ShapeVertical:
		return "Vertical"
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

func (s Size) String() string {
	if s <= Size3 {
		return fmt.Sprintf("Size%d", uint8(s))
	}
	return fmt.Sprintf("Size(%d)", uint8(s))
}

func (f Flip) String() string {
	switch f {
	case FlipNone:
		return "None"
	case FlipHorizontal:
		return "Horizontal"
	case FlipVertical:
		return "Vertical"
	case FlipBoth:
		return "Both"
	}
	return fmt.Sprintf("Flip(%d)", uint8(f))
}

// HFlip reports whether columns are mirrored.
func (f Flip) HFlip() bool { return f == FlipHorizontal || f == FlipBoth }

// VFlip reports whether rows are mirrored.
func (f Flip) VFlip() bool { return f == FlipVertical || f == FlipBoth }

// OAM is one sprite placement inside a cel.
//
// X and Y are offsets in units of 1/8 of a tile. Palette selects a palette
// row and Tile the base index into a 32-tile-wide sheet.
type OAM struct {
	Shape   Shape
	Size    Size
	Flip    Flip
	X       int8
	Y       int8
	Palette int
	Tile    int

	// Selected is a UI highlight flag. It is never persisted.
	Selected bool
}

// SheetStride is the number of tiles in one row of a tile sheet.
const SheetStride = 32

// TileSize is the edge length of one tile in pixels.
const TileSize = 8

// dimensions in tiles, indexed by [shape][size]
var dimensions = [3][4][2]int{
	{{1, 1}, {2, 2}, {4, 4}, {8, 8}},
	{{2, 1}, {4, 1}, {4, 2}, {8, 4}},
	{{1, 2}, {1, 4}, {2, 4}, {4, 8}},
}

// Dimensions returns the width and height in tiles for a shape/size pair.
// Out-of-range values fall back to Square/Size0.
func Dimensions(shape Shape, size Size) (w, h int) {
	if shape > ShapeVertical {
		shape = ShapeSquare
	}
	if size > Size3 {
		size = Size0
	}
	d := dimensions[shape][size]
	return d[0], d[1]
}

// Dimensions returns the width and height of o in tiles.
func (o OAM) Dimensions() (w, h int) {
	return Dimensions(o.Shape, o.Size)
}

// TileGrid returns the tile indices covered by o, row-major. Each entry is
// Tile + column + row*SheetStride. Flipping reverses the iteration order of the
// mirrored axis so the grid reads mirrored; the set of indices is unchanged.
func (o OAM) TileGrid() [][]int {
	w, h := o.Dimensions()

	grid := make([][]int, 0, h)
	for r := 0; r < h; r++ {
		y := r
		if o.Flip.VFlip() {
			y = h - 1 - r
		}
		row := make([]int, 0, w)
		for c := 0; c < w; c++ {
			x := c
			if o.Flip.HFlip() {
				x = w - 1 - c
			}
			row = append(row, o.Tile+x+y*SheetStride)
		}
		grid = append(grid, row)
	}
	return grid
}

// TileGridFlat is TileGrid flattened row by row.
func (o OAM) TileGridFlat() []int {
	w, h := o.Dimensions()
	flat := make([]int, 0, w*h)
	for _, row := range o.TileGrid() {
		flat = append(flat, row...)
	}
	return flat
}
