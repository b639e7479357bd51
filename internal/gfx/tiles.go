// Package gfx rasterises cels from 4bpp tile sheets and RIFF palettes.
package gfx

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/decker502/yanimator/internal/oam"
)

// BytesPerTile is the size of one 8x8 tile at 4 bits per pixel.
const BytesPerTile = oam.TileSize * oam.TileSize / 2

// Tile holds the palette indices of one 8x8 tile, row-major.
type Tile [oam.TileSize * oam.TileSize]uint8

// Sheet is a decoded tile sheet. Tile i sits at column i%SheetStride,
// row i/SheetStride.
type Sheet struct {
	Tiles []Tile
}

// ReadSheet4bpp decodes raw 4bpp tile data. Each byte holds two pixels, the
// low nibble on the left. A trailing partial tile is ignored.
func ReadSheet4bpp(data []byte) *Sheet {
	s := &Sheet{Tiles: make([]Tile, len(data)/BytesPerTile)}
	for i := range s.Tiles {
		raw := data[i*BytesPerTile : (i+1)*BytesPerTile]
		t := &s.Tiles[i]
		for j, b := range raw {
			t[2*j] = b & 0x0F
			t[2*j+1] = b >> 4
		}
	}
	return s
}

// LoadSheet reads a .4bpp file.
func LoadSheet(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tile sheet: %w", err)
	}
	return ReadSheet4bpp(data), nil
}

// Len returns the number of tiles.
func (s *Sheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Tiles)
}

// Tile returns tile i, or false when i is outside the sheet.
func (s *Sheet) Tile(i int) (*Tile, bool) {
	if i < 0 || i >= s.Len() {
		return nil, false
	}
	return &s.Tiles[i], true
}

// palette file layout
const (
	paletteDataOffset = 0x18
	paletteRowBytes   = 0x40
	// ColorsPerRow is the number of colours in one palette row.
	ColorsPerRow = 16
	// MaxPaletteRows is the number of rows a palette can hold.
	MaxPaletteRows = 16
)

var (
	// ErrNotRIFF is returned for palette data without a RIFF PAL header.
	ErrNotRIFF = errors.New("not a RIFF palette")
	// ErrShortPalette is returned when not even one full row is present.
	ErrShortPalette = errors.New("palette has no complete row")
)

// Palette is a list of 16-colour rows. Colour 0 of every row is transparent.
type Palette [][ColorsPerRow]color.NRGBA

// ReadPalette decodes a RIFF PAL file. Colour i of row r is read from
// 0x18 + i*4 + r*0x40 as R, G, B and one flag byte. Up to 16 complete rows are
// read.
func ReadPalette(data []byte) (Palette, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "PAL " {
		return nil, ErrNotRIFF
	}

	rows := (len(data) - paletteDataOffset) / paletteRowBytes
	if rows <= 0 {
		return nil, ErrShortPalette
	}
	rows = min(rows, MaxPaletteRows)

	pal := make(Palette, rows)
	for r := range pal {
		for i := 0; i < ColorsPerRow; i++ {
			off := paletteDataOffset + r*paletteRowBytes + i*4
			a := uint8(0xFF)
			if i == 0 {
				a = 0
			}
			pal[r][i] = color.NRGBA{R: data[off], G: data[off+1], B: data[off+2], A: a}
		}
	}
	return pal, nil
}

// LoadPalette reads a .pal file.
func LoadPalette(path string) (Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette: %w", err)
	}
	pal, err := ReadPalette(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pal, nil
}

// Row returns palette row r, or false when the palette has fewer rows.
func (p Palette) Row(r int) (*[ColorsPerRow]color.NRGBA, bool) {
	if r < 0 || r >= len(p) {
		return nil, false
	}
	return &p[r], true
}
