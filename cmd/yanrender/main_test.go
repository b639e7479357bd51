package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

const stripSource = `AnimationCel a[] = { 1, 0x0000, 0x0000, 0x0000 };
AnimationCel b[] = { 1, 0x0000, 0x01f8, 0x0001 };
struct Animation walk[] = { { a, 2 }, { b, 3 } };
struct Animation empty[] = { };
`

// fixture writes a project, a two-tile sheet (tile 0 colour 1, tile 1 colour
// 2) and a one-row palette where colour i is (0, i, 0xAA).
func fixture(t *testing.T) (dir string, base []string) {
	t.Helper()
	dir = t.TempDir()

	sheet := make([]byte, 64)
	for i := range 32 {
		sheet[i] = 0x11
		sheet[32+i] = 0x22
	}
	pal := make([]byte, 0x18+0x40)
	copy(pal, "RIFF")
	copy(pal[8:], "PAL ")
	for i := range 16 {
		pal[0x18+i*4+1] = byte(i)
		pal[0x18+i*4+2] = 0xAA
	}

	files := map[string][]byte{
		"walk.c":      []byte(stripSource),
		"sprites.bin": sheet,
		"sprites.pal": pal,
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	base = []string{
		"-project", filepath.Join(dir, "walk.c"),
		"-sheet", filepath.Join(dir, "sprites.bin"),
		"-pal", filepath.Join(dir, "sprites.pal"),
	}
	return dir, base
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func green(img image.Image, x, y int) uint8 {
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	if c.A == 0 {
		return 0
	}
	return c.G
}

func TestRun_Cel(t *testing.T) {
	dir, base := fixture(t)
	out := filepath.Join(dir, "b.png")
	if err := run(append(base, "-cel", "b", "-scale", "3", "-out", out)); err != nil {
		t.Fatal(err)
	}
	img := readPNG(t, out)
	if b := img.Bounds(); b.Dx() != 24 || b.Dy() != 24 {
		t.Errorf("size = %v, want 24x24", b)
	}
	if g := green(img, 0, 0); g != 2 {
		t.Errorf("pixel colour index = %d, want 2", g)
	}
}

func TestRun_Strip(t *testing.T) {
	dir, base := fixture(t)
	out := filepath.Join(dir, "strip.png")
	if err := run(append(base, "-anim", "walk", "-out", out)); err != nil {
		t.Fatal(err)
	}
	img := readPNG(t, out)
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 8 {
		t.Fatalf("size = %v, want 32x8", b)
	}

	tests := []struct {
		x    int
		want uint8
	}{
		{0, 0},  // left of a's origin
		{8, 1},  // cel a
		{16, 2}, // cel b sits left of the shared origin
		{24, 0},
	}
	for _, tt := range tests {
		if g := green(img, tt.x, 4); g != tt.want {
			t.Errorf("x=%d colour index = %d, want %d", tt.x, g, tt.want)
		}
	}
}

func TestRun_Tick(t *testing.T) {
	dir, base := fixture(t)
	tests := []struct {
		tick string
		want uint8
	}{
		{"1", 1},
		{"4", 2},
	}
	for _, tt := range tests {
		t.Run(tt.tick, func(t *testing.T) {
			out := filepath.Join(dir, "t"+tt.tick+".png")
			if err := run(append(base, "-anim", "walk", "-tick", tt.tick, "-out", out)); err != nil {
				t.Fatal(err)
			}
			if g := green(readPNG(t, out), 0, 0); g != tt.want {
				t.Errorf("colour index = %d, want %d", g, tt.want)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	dir, base := fixture(t)
	out := filepath.Join(dir, "x.png")
	tests := []struct {
		name string
		args []string
	}{
		{"missing flags", []string{"-cel", "a"}},
		{"both targets", append(base, "-cel", "a", "-anim", "walk", "-out", out)},
		{"neither target", append(base, "-out", out)},
		{"unknown cel", append(base, "-cel", "zzz", "-out", out)},
		{"unknown animation", append(base, "-anim", "zzz", "-out", out)},
		{"empty animation", append(base, "-anim", "empty", "-out", out)},
		{"missing sheet", []string{"-project", base[1], "-sheet", filepath.Join(dir, "no.bin"), "-pal", base[5], "-cel", "a", "-out", out}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.args); err == nil {
				t.Error("run should fail")
			}
		})
	}
}
