package gfx

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/yanimator/internal/oam"
	"github.com/decker502/yanimator/pkg/anim"
)

// testPalette builds a RIFF PAL with the given number of rows. Colour i of
// row r is (r, i, 0xAA).
func testPalette(rows int) []byte {
	data := make([]byte, paletteDataOffset+rows*paletteRowBytes)
	copy(data[0:], "RIFF")
	copy(data[8:], "PAL ")
	for r := 0; r < rows; r++ {
		for i := 0; i < ColorsPerRow; i++ {
			off := paletteDataOffset + r*paletteRowBytes + i*4
			data[off], data[off+1], data[off+2] = byte(r), byte(i), 0xAA
		}
	}
	return data
}

// solidTile returns 4bpp bytes for a tile filled with colour index ci.
func solidTile(ci byte) []byte {
	b := make([]byte, BytesPerTile)
	for i := range b {
		b[i] = ci | ci<<4
	}
	return b
}

func TestReadSheet4bpp(t *testing.T) {
	data := make([]byte, BytesPerTile*2+5)
	data[0] = 0x21            // pixel 0 = 1, pixel 1 = 2
	data[BytesPerTile] = 0xF0 // tile 1: pixel 0 = 0, pixel 1 = 15

	s := ReadSheet4bpp(data)
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (partial tile ignored)", s.Len())
	}
	if s.Tiles[0][0] != 1 || s.Tiles[0][1] != 2 {
		t.Errorf("tile 0 starts %v, want [1 2]", s.Tiles[0][:2])
	}
	if s.Tiles[1][0] != 0 || s.Tiles[1][1] != 15 {
		t.Errorf("tile 1 starts %v, want [0 15]", s.Tiles[1][:2])
	}
	if _, ok := s.Tile(2); ok {
		t.Error("Tile(2) should be out of range")
	}
	var nilSheet *Sheet
	if _, ok := nilSheet.Tile(0); ok {
		t.Error("nil sheet has no tiles")
	}
}

func TestReadPalette(t *testing.T) {
	pal, err := ReadPalette(testPalette(3))
	if err != nil {
		t.Fatalf("ReadPalette: %v", err)
	}
	if len(pal) != 3 {
		t.Fatalf("rows = %d, want 3", len(pal))
	}
	if got := pal[2][5]; got != (color.NRGBA{R: 2, G: 5, B: 0xAA, A: 0xFF}) {
		t.Errorf("row 2 colour 5 = %v", got)
	}
	if pal[1][0].A != 0 {
		t.Error("colour 0 should be transparent")
	}
}

func TestReadPalette_Limits(t *testing.T) {
	pal, err := ReadPalette(testPalette(20))
	if err != nil || len(pal) != MaxPaletteRows {
		t.Errorf("20 rows: len %d, err %v", len(pal), err)
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrNotRIFF},
		{"wrong type", append([]byte("RIFF\x00\x00\x00\x00WAVE"), make([]byte, 0x100)...), ErrNotRIFF},
		{"header only", testPalette(0), ErrShortPalette},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadPalette(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	sheetPath := filepath.Join(dir, "obj.4bpp")
	palPath := filepath.Join(dir, "obj.pal")
	if err := os.WriteFile(sheetPath, solidTile(3), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(palPath, testPalette(1), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSheet(sheetPath)
	if err != nil || s.Len() != 1 {
		t.Errorf("LoadSheet = %v, %v", s, err)
	}
	if _, err := LoadPalette(palPath); err != nil {
		t.Errorf("LoadPalette: %v", err)
	}
	if _, err := LoadSheet(filepath.Join(dir, "missing")); err == nil {
		t.Error("LoadSheet on a missing file should fail")
	}
}

func TestRenderCel_BoundsAndColours(t *testing.T) {
	sheet := ReadSheet4bpp(append(solidTile(1), solidTile(2)...))
	pal, _ := ReadPalette(testPalette(2))

	c := &anim.Cel{Name: "c", OAMs: []oam.OAM{
		{X: -4, Y: -8, Tile: 1, Palette: 1}, // top, overlaps the next one
		{X: -8, Y: -8, Tile: 0},
	}}
	img := RenderCel(c, sheet, pal)

	if want := image.Rect(-8, -8, 4, 0); img.Bounds() != want {
		t.Fatalf("bounds = %v, want %v", img.Bounds(), want)
	}
	if got := img.NRGBAAt(-8, -8); got != pal[0][1] {
		t.Errorf("(-8,-8) = %v, want back object colour %v", got, pal[0][1])
	}
	if got := img.NRGBAAt(-1, -1); got != pal[1][2] {
		t.Errorf("(-1,-1) = %v, want top object colour %v", got, pal[1][2])
	}
}

func TestRenderCel_TransparencyAndMissingTiles(t *testing.T) {
	tile := solidTile(0)
	tile[0] = 0x05 // only pixel (0,0) is opaque
	sheet := ReadSheet4bpp(tile)
	pal, _ := ReadPalette(testPalette(1))

	c := &anim.Cel{OAMs: []oam.OAM{
		{Tile: 0},
		{Tile: 0, Flip: oam.FlipBoth, X: 8},
		{Tile: 99, X: 16},            // outside the sheet
		{Tile: 0, Palette: 7, X: 24}, // missing palette row
	}}
	img := RenderCel(c, sheet, pal)

	if img.NRGBAAt(0, 0) != pal[0][5] {
		t.Error("pixel (0,0) should be opaque")
	}
	if img.NRGBAAt(1, 0).A != 0 {
		t.Error("colour 0 should stay transparent")
	}
	if img.NRGBAAt(15, 7) != pal[0][5] {
		t.Error("flipped tile should put its opaque pixel at the far corner")
	}
	if img.NRGBAAt(8, 0).A != 0 {
		t.Error("flipped tile should be transparent at its origin")
	}
	for x := 16; x < 32; x++ {
		if img.NRGBAAt(x, 0).A != 0 {
			t.Errorf("pixel (%d,0) should be empty", x)
		}
	}
}

func TestRenderer_FallbackAndHighlight(t *testing.T) {
	sheet := ReadSheet4bpp(solidTile(4))
	pal, _ := ReadPalette(testPalette(1))
	c := &anim.Cel{OAMs: []oam.OAM{{Palette: 9, Selected: true}}}

	r := Renderer{Sheet: sheet, Palette: pal, FallbackRow: 0}
	if got := r.Render(c).NRGBAAt(3, 3); got != pal[0][4] {
		t.Errorf("fallback colour = %v, want %v", got, pal[0][4])
	}

	r.Highlight = true
	got := r.Render(c).NRGBAAt(3, 3)
	if got == pal[0][4] || got.A != 0xFF {
		t.Errorf("highlighted colour = %v, should be tinted", got)
	}
}

func TestRenderCel_MultiTileGrid(t *testing.T) {
	// tiles 0 and 1 on the first sheet row, 32 and 33 on the second
	data := make([]byte, BytesPerTile*(oam.SheetStride+2))
	copy(data[0:], solidTile(1))
	copy(data[BytesPerTile:], solidTile(2))
	copy(data[BytesPerTile*oam.SheetStride:], solidTile(3))
	copy(data[BytesPerTile*(oam.SheetStride+1):], solidTile(4))
	sheet := ReadSheet4bpp(data)
	pal, _ := ReadPalette(testPalette(1))

	img := RenderCel(&anim.Cel{OAMs: []oam.OAM{{Size: oam.Size1, Flip: oam.FlipHorizontal}}}, sheet, pal)
	want := map[image.Point]uint8{
		{0, 0}: 2, {8, 0}: 1,
		{0, 8}: 4, {8, 8}: 3,
	}
	for p, ci := range want {
		if got := img.NRGBAAt(p.X, p.Y); got != pal[0][ci] {
			t.Errorf("%v = %v, want colour %d", p, got, ci)
		}
	}
}

func TestScale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(-1, -1, 1, 1))
	red := color.NRGBA{R: 0xFF, A: 0xFF}
	src.SetNRGBA(0, 0, red)

	dst := Scale(src, 3)
	if dst.Bounds() != image.Rect(0, 0, 6, 6) {
		t.Fatalf("bounds = %v", dst.Bounds())
	}
	if dst.NRGBAAt(4, 4) != red || dst.NRGBAAt(2, 2).A != 0 {
		t.Error("nearest-neighbour scaling misplaced the pixel")
	}
	if Scale(src, 1) != src {
		t.Error("factor 1 should return the input")
	}
}

func TestCompose(t *testing.T) {
	src := image.NewNRGBA(image.Rect(-2, -2, 0, 0))
	blue := color.NRGBA{B: 0xFF, A: 0xFF}
	src.SetNRGBA(-1, -1, blue)

	dst := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	Compose(dst, src, 5, 5)
	if dst.NRGBAAt(4, 4) != blue {
		t.Error("cel pixel (-1,-1) should land at (4,4)")
	}
}
