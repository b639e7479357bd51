package yan

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log"

	"github.com/decker502/yanimator/internal/oam"
	"github.com/decker502/yanimator/pkg/anim"
	"github.com/decker502/yanimator/pkg/project"
)

// Decode parses a .yan file. File-level problems (magic, header, offset) are
// returned as errors. Broken records are logged and dropped; everything read
// before them is kept.
func Decode(data []byte) (*project.Project, error) {
	p, recordErrs, err := DecodeAll(data)
	if err != nil {
		return nil, err
	}
	for _, e := range recordErrs {
		log.Printf("[yan] Dropped %v", e)
	}
	return p, nil
}

// Read reads and decodes a .yan file from r.
func Read(r io.Reader) (*project.Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("yan: read: %w", err)
	}
	return Decode(data)
}

// DecodeAll is Decode that also returns the dropped records.
func DecodeAll(data []byte) (*project.Project, []error, error) {
	if len(data) < HeaderSize {
		if len(data) >= len(Magic) && string(data[:len(Magic)]) != Magic {
			return nil, nil, ErrBadMagic
		}
		return nil, nil, ErrTruncatedHeader
	}
	if string(data[:len(Magic)]) != Magic {
		return nil, nil, ErrBadMagic
	}

	animOffset := int(binary.BigEndian.Uint32(data[len(Magic):]))
	if animOffset < HeaderSize || animOffset > len(data) {
		return nil, nil, fmt.Errorf("%w: %d (file is %d bytes)", ErrBadOffset, animOffset, len(data))
	}

	p := project.New()
	var recordErrs []error

	// cels occupy [HeaderSize, animOffset)
	cels := data[:animOffset]
	for i := HeaderSize; i < len(cels); {
		c, end, err := readCel(cels, i)
		if err != nil {
			recordErrs = append(recordErrs, &RecordError{Section: "cel", Offset: i, Err: err})
			break
		}
		p.PutCel(c)
		i = end
	}

	for i := animOffset; i < len(data); {
		a, end, err := readAnimation(data, i)
		if err != nil {
			recordErrs = append(recordErrs, &RecordError{Section: "animation", Offset: i, Err: err})
			break
		}
		p.Animations = append(p.Animations, a)
		i = end
	}

	return p, recordErrs, nil
}

// readName returns the NUL-terminated name starting at start and the index
// just past the terminator.
func readName(data []byte, start int) (string, int, error) {
	n := bytes.IndexByte(data[start:], 0)
	if n < 0 {
		return "", 0, ErrUnterminatedName
	}
	return string(data[start : start+n]), start + n + 1, nil
}

// readCel reads one cel record and returns the offset of the next record.
func readCel(data []byte, start int) (*anim.Cel, int, error) {
	name, i, err := readName(data, start)
	if err != nil {
		return nil, 0, err
	}
	if i >= len(data) {
		return nil, 0, ErrTruncatedRecord
	}
	count := int(data[i])
	i++

	end := i + count*oam.FlatSize
	if end > len(data) {
		return nil, 0, fmt.Errorf("%w: cel %q needs %d OAM bytes", ErrTruncatedRecord, name, count*oam.FlatSize)
	}

	c := anim.NewCel(name)
	c.OAMs = make([]oam.OAM, 0, count)
	for ; i < end; i += oam.FlatSize {
		c.OAMs = append(c.OAMs, oam.DecodeFlat(data[i:i+oam.FlatSize]))
	}
	return c, end, nil
}

// readAnimation reads one animation record. Frames get ids 0..n-1 and the
// declared duration is the sum of the frame durations.
func readAnimation(data []byte, start int) (*anim.Animation, int, error) {
	name, i, err := readName(data, start)
	if err != nil {
		return nil, 0, err
	}
	if i+2 > len(data) {
		return nil, 0, ErrTruncatedRecord
	}
	length := int(binary.BigEndian.Uint16(data[i:]))
	i += 2

	end := i + length
	if end > len(data) {
		return nil, 0, fmt.Errorf("%w: animation %q needs %d frame bytes", ErrTruncatedRecord, name, length)
	}

	block := data[i:end]
	var frames []anim.AnimationFrame
	for j := 0; j < len(block); {
		cel, next, err := readName(block, j)
		if err != nil {
			return nil, 0, fmt.Errorf("animation %q frame %d: %w", name, len(frames), err)
		}
		if next >= len(block) {
			return nil, 0, fmt.Errorf("%w: animation %q frame %d has no duration", ErrTruncatedRecord, name, len(frames))
		}
		frames = append(frames, anim.AnimationFrame{
			Cel:      cel,
			Duration: block[next],
			ID:       len(frames),
		})
		j = next + 1
	}

	return anim.NewAnimation(name, frames), end, nil
}
