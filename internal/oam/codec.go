package oam

import (
	"encoding/binary"
	"image"
)

const (
	// PackedSize is the length of the hardware layout: three big-endian words.
	PackedSize = 6
	// FlatSize is the length of the .yan layout.
	FlatSize = 8
)

// packed shape nibbles
const (
	nibbleSquare     = 0x0
	nibbleHorizontal = 0x4
	nibbleVertical   = 0x8
)

// DecodeWords decodes the three attribute words of a hardware object.
//
//	word1: SSSS YYYY YYYY YYYY  shape nibble, y
//	word2: ZZFF XXXX XXXX XXXX  size, flip, x
//	word3: PPPP TTTT TTTT TTTT  palette, tile
//
// Unknown shape nibbles decode as ShapeSquare.
func DecodeWords(w1, w2, w3 uint16) OAM {
	var o OAM

	switch w1 >> 12 {
	case nibbleHorizontal:
		o.Shape = ShapeHorizontal
	case nibbleVertical:
		o.Shape = ShapeVertical
	default:
		o.Shape = ShapeSquare
	}

	y := int16(w1 & 0x0FFF)
	if y >= 0x80 {
		y -= 0x100
	}
	o.Y = int8(y)

	nibble := w2 >> 12
	o.Size = Size(nibble >> 2)
	o.Flip = Flip(nibble & 0x3)

	x := int16(w2 & 0x0FFF)
	if x >= 0x80 {
		x -= 0x200
	}
	o.X = int8(x)

	o.Palette = int(w3 >> 12)
	o.Tile = int(w3 & 0x0FFF)
	return o
}

// Words encodes o into the three hardware attribute words. Y is written as its
// low byte and X as a 9-bit two's complement field. Palette and tile are masked
// to 4 and 12 bits.
func (o OAM) Words() (w1, w2, w3 uint16) {
	var shape uint16
	switch o.Shape {
	case ShapeHorizontal:
		shape = nibbleHorizontal
	case ShapeVertical:
		shape = nibbleVertical
	default:
		shape = nibbleSquare
	}

	size := uint16(o.Size)
	if o.Size > Size3 {
		size = 0
	}
	flip := uint16(o.Flip) & 0x3

	w1 = shape<<12 | uint16(uint8(o.Y))
	w2 = (size<<2|flip)<<12 | uint16(int16(o.X))&0x1FF
	w3 = uint16(o.Palette&0xF)<<12 | uint16(o.Tile&0x0FFF)
	return w1, w2, w3
}

// DecodePacked decodes a 6-byte hardware object. It panics if b is shorter
// than PackedSize.
func DecodePacked(b []byte) OAM {
	_ = b[PackedSize-1]
	return DecodeWords(
		binary.BigEndian.Uint16(b[0:]),
		binary.BigEndian.Uint16(b[2:]),
		binary.BigEndian.Uint16(b[4:]),
	)
}

// EncodePacked is the inverse of DecodePacked.
func (o OAM) EncodePacked() [PackedSize]byte {
	var b [PackedSize]byte
	w1, w2, w3 := o.Words()
	binary.BigEndian.PutUint16(b[0:], w1)
	binary.BigEndian.PutUint16(b[2:], w2)
	binary.BigEndian.PutUint16(b[4:], w3)
	return b
}

// DecodeFlat decodes the 8-byte flat layout:
// shape, size, flip, x, y, palette, tile (big-endian uint16).
// Unknown ordinals fall back to Square, Size0 and None. It panics if b is
// shorter than FlatSize.
func DecodeFlat(b []byte) OAM {
	_ = b[FlatSize-1]
	o := OAM{
		Shape:   Shape(b[0]),
		Size:    Size(b[1]),
		Flip:    Flip(b[2]),
		X:       int8(b[3]),
		Y:       int8(b[4]),
		Palette: int(b[5]),
		Tile:    int(binary.BigEndian.Uint16(b[6:])),
	}
	if o.Shape > ShapeVertical {
		o.Shape = ShapeSquare
	}
	if o.Size > Size3 {
		o.Size = Size0
	}
	if o.Flip > FlipBoth {
		o.Flip = FlipNone
	}
	return o
}

// EncodeFlat is the inverse of DecodeFlat.
func (o OAM) EncodeFlat() [FlatSize]byte {
	var b [FlatSize]byte
	b[0] = byte(o.Shape)
	b[1] = byte(o.Size)
	b[2] = byte(o.Flip)
	b[3] = byte(o.X)
	b[4] = byte(o.Y)
	b[5] = byte(o.Palette)
	binary.BigEndian.PutUint16(b[6:], uint16(o.Tile))
	return b
}

// PixelBounds returns the rectangle covered by o relative to the cel origin,
// where one tile is drawn tileSize pixels wide.
func (o OAM) PixelBounds(tileSize int) image.Rectangle {
	w, h := o.Dimensions()
	x := int(o.X) * tileSize / TileSize
	y := int(o.Y) * tileSize / TileSize
	return image.Rect(x, y, x+w*tileSize, y+h*tileSize)
}
