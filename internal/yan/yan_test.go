package yan

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/decker502/yanimator/internal/oam"
	"github.com/decker502/yanimator/pkg/anim"
	"github.com/decker502/yanimator/pkg/project"
)

func testProject() *project.Project {
	p := project.New()
	p.PutCel(&anim.Cel{Name: "night_walk_cel033", OAMs: []oam.OAM{
		{Shape: oam.ShapeSquare, Size: oam.Size0, X: -4, Y: -9, Tile: 0x160},
		{Shape: oam.ShapeVertical, Size: oam.Size1, Flip: oam.FlipBoth, X: 127, Y: -128, Palette: 2, Tile: 0x14},
	}})
	p.PutCel(&anim.Cel{Name: "b", OAMs: []oam.OAM{
		{Shape: oam.ShapeHorizontal, Size: oam.Size3, Flip: oam.FlipHorizontal, Palette: 15, Tile: 0x3ff},
	}})
	p.PutCel(anim.NewCel("empty"))

	p.Animations = append(p.Animations,
		anim.NewAnimation("walk", []anim.AnimationFrame{
			{Cel: "night_walk_cel033", Duration: 5, ID: 0},
			{Cel: "b", Duration: 3, ID: 1},
			{Cel: "night_walk_cel033", Duration: 255, ID: 2},
		}),
		anim.NewAnimation("still", []anim.AnimationFrame{
			{Cel: "empty", Duration: 1, ID: 0},
		}),
	)
	return p
}

func TestEncode_EmptyProject(t *testing.T) {
	data, err := Encode(project.New())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{'Y', 'A', 'N', 0, 0, 0, 7}
	if !bytes.Equal(data, want) {
		t.Errorf("Encode(empty) = % x, want % x", data, want)
	}
}

func TestEncode_Layout(t *testing.T) {
	p := project.New()
	p.PutCel(&anim.Cel{Name: "c", OAMs: []oam.OAM{{Shape: oam.ShapeVertical, Size: oam.Size1, X: -1, Tile: 0x102}}})
	p.Animations = append(p.Animations, anim.NewAnimation("a", []anim.AnimationFrame{{Cel: "c", Duration: 9, ID: 0}}))

	data, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{
		'Y', 'A', 'N', 0, 0, 0, 18,
		'c', 0, 1, 2, 1, 0, 0xff, 0, 0, 0x01, 0x02,
		'a', 0, 0, 3, 'c', 0, 9,
	}
	if !bytes.Equal(data, want) {
		t.Errorf("Encode = % x\nwant     % x", data, want)
	}
}

func TestRoundTrip(t *testing.T) {
	p := testProject()

	data, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, recordErrs, err := DecodeAll(data)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(recordErrs) != 0 {
		t.Fatalf("record errors: %v", recordErrs)
	}

	if len(got.Cels) != len(p.Cels) {
		t.Fatalf("decoded %d cels, want %d", len(got.Cels), len(p.Cels))
	}
	for name, c := range p.Cels {
		gc, ok := got.Cels[name]
		if !ok {
			t.Errorf("cel %q missing", name)
			continue
		}
		if len(gc.OAMs) != len(c.OAMs) {
			t.Errorf("cel %q: %d OAMs, want %d", name, len(gc.OAMs), len(c.OAMs))
			continue
		}
		for i := range c.OAMs {
			if gc.OAMs[i] != c.OAMs[i] {
				t.Errorf("cel %q OAM %d = %+v, want %+v", name, i, gc.OAMs[i], c.OAMs[i])
			}
		}
	}

	if len(got.Animations) != len(p.Animations) {
		t.Fatalf("decoded %d animations, want %d", len(got.Animations), len(p.Animations))
	}
	for i, a := range p.Animations {
		ga := got.Animations[i]
		if ga.Name != a.Name || ga.Duration != a.Duration {
			t.Errorf("animation %d = %q/%d, want %q/%d", i, ga.Name, ga.Duration, a.Name, a.Duration)
		}
		if !reflect.DeepEqual(ga.Frames, a.Frames) {
			t.Errorf("animation %q frames = %+v, want %+v", a.Name, ga.Frames, a.Frames)
		}
	}

	again, err := Encode(got)
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	if !bytes.Equal(again, data) {
		t.Error("re-encoding a decoded project changed the bytes")
	}
}

func TestReadWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testProject()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	p, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(p.Cels) != 3 || len(p.Animations) != 2 {
		t.Errorf("got %d cels, %d animations", len(p.Cels), len(p.Animations))
	}
}

func TestDecode_FileErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncatedHeader},
		{"short", []byte("YAN\x00"), ErrTruncatedHeader},
		{"wrong magic short", []byte("PNG\x00"), ErrBadMagic},
		{"wrong magic", []byte("NAY\x00\x00\x00\x07"), ErrBadMagic},
		{"offset inside header", []byte("YAN\x00\x00\x00\x03"), ErrBadOffset},
		{"offset past end", []byte("YAN\x00\x00\x00\x20"), ErrBadOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecode_TruncatedRecordsArePartial(t *testing.T) {
	data, err := Encode(testProject())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// cut the last animation in half
	cut := data[:len(data)-3]
	p, recordErrs, err := DecodeAll(cut)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(p.Cels) != 3 {
		t.Errorf("cels = %d, want 3", len(p.Cels))
	}
	if len(p.Animations) != 1 || p.Animations[0].Name != "walk" {
		t.Errorf("animations = %d, want only walk", len(p.Animations))
	}
	if len(recordErrs) != 1 || !errors.Is(recordErrs[0], ErrTruncatedRecord) {
		t.Errorf("record errors = %v", recordErrs)
	}
}

func TestDecode_BrokenCelStopsCelSection(t *testing.T) {
	// the cel claims 2 OAMs but the section ends after one
	data := []byte{'Y', 'A', 'N', 0, 0, 0, 18,
		'x', 0, 2, 0, 0, 0, 0, 0, 0, 0, 1,
		'a', 0, 0, 0,
	}
	p, recordErrs, err := DecodeAll(data)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(p.Cels) != 0 {
		t.Errorf("cels = %d, want 0", len(p.Cels))
	}
	if len(recordErrs) != 1 {
		t.Fatalf("record errors = %v", recordErrs)
	}
	var re *RecordError
	if !errors.As(recordErrs[0], &re) || re.Section != "cel" || re.Offset != 7 {
		t.Errorf("record error = %#v", recordErrs[0])
	}
	if len(p.Animations) != 1 || len(p.Animations[0].Frames) != 0 {
		t.Errorf("animations = %+v", p.Animations)
	}
}

func TestEncode_Errors(t *testing.T) {
	p := project.New()
	p.PutCel(anim.NewCel("bad\x00name"))
	if _, err := Encode(p); !errors.Is(err, ErrNameHasNUL) {
		t.Errorf("NUL in cel name: %v", err)
	}

	p = project.New()
	c := anim.NewCel("big")
	for i := 0; i < 256; i++ {
		c.AddOAM(oam.OAM{})
	}
	p.PutCel(c)
	if _, err := Encode(p); !errors.Is(err, ErrTooManyOAMs) {
		t.Errorf("256 OAMs: %v", err)
	}
}
