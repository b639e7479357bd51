package oam

import (
	"reflect"
	"sort"
	"testing"
)

func TestDimensions(t *testing.T) {
	tests := []struct {
		shape Shape
		size  Size
		w, h  int
	}{
		{ShapeSquare, Size0, 1, 1},
		{ShapeSquare, Size1, 2, 2},
		{ShapeSquare, Size2, 4, 4},
		{ShapeSquare, Size3, 8, 8},
		{ShapeHorizontal, Size0, 2, 1},
		{ShapeHorizontal, Size1, 4, 1},
		{ShapeHorizontal, Size2, 4, 2},
		{ShapeHorizontal, Size3, 8, 4},
		{ShapeVertical, Size0, 1, 2},
		{ShapeVertical, Size1, 1, 4},
		{ShapeVertical, Size2, 2, 4},
		{ShapeVertical, Size3, 4, 8},
		{Shape(7), Size(9), 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.shape.String()+"/"+tt.size.String(), func(t *testing.T) {
			w, h := Dimensions(tt.shape, tt.size)
			if w != tt.w || h != tt.h {
				t.Errorf("Dimensions = %dx%d, want %dx%d", w, h, tt.w, tt.h)
			}
		})
	}
}

func TestTileGrid_Square2x2(t *testing.T) {
	o := OAM{Shape: ShapeSquare, Size: Size1, Tile: 0x10}

	want := []int{0x10, 0x11, 0x30, 0x31}
	if got := o.TileGridFlat(); !reflect.DeepEqual(got, want) {
		t.Errorf("TileGridFlat = %#x, want %#x", got, want)
	}
}

func TestTileGrid_Flips(t *testing.T) {
	base := OAM{Shape: ShapeHorizontal, Size: Size2, Tile: 4} // 4x2

	tests := []struct {
		flip Flip
		want [][]int
	}{
		{FlipNone, [][]int{{4, 5, 6, 7}, {36, 37, 38, 39}}},
		{FlipHorizontal, [][]int{{7, 6, 5, 4}, {39, 38, 37, 36}}},
		{FlipVertical, [][]int{{36, 37, 38, 39}, {4, 5, 6, 7}}},
		{FlipBoth, [][]int{{39, 38, 37, 36}, {7, 6, 5, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.flip.String(), func(t *testing.T) {
			o := base
			o.Flip = tt.flip
			if got := o.TileGrid(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TileGrid = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestTileGrid_FlipKeepsIndexSet checks that flipping only changes order.
func TestTileGrid_FlipKeepsIndexSet(t *testing.T) {
	for shape := ShapeSquare; shape <= ShapeVertical; shape++ {
		for size := Size0; size <= Size3; size++ {
			o := OAM{Shape: shape, Size: size, Tile: 0x21}
			plain := o.TileGridFlat()
			sort.Ints(plain)
			for flip := FlipHorizontal; flip <= FlipBoth; flip++ {
				o.Flip = flip
				got := o.TileGridFlat()
				sort.Ints(got)
				if !reflect.DeepEqual(got, plain) {
					t.Errorf("%v/%v/%v: index set changed", shape, size, flip)
				}
			}
		}
	}
}
