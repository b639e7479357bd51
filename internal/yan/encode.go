package yan

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/decker502/yanimator/pkg/anim"
	"github.com/decker502/yanimator/pkg/project"
)

// Encode serializes p. Cels are written in name order so that saving the same
// project twice yields identical bytes; animations keep their order.
func Encode(p *project.Project) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	buf.Write([]byte{0, 0, 0, 0}) // patched below

	for _, name := range p.CelNames() {
		if err := writeCel(&buf, p.Cels[name]); err != nil {
			return nil, err
		}
	}

	out := buf.Bytes()
	binary.BigEndian.PutUint32(out[len(Magic):], uint32(len(out)))

	for _, a := range p.Animations {
		if err := writeAnimation(&buf, a); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Write encodes p to w.
func Write(w io.Writer, p *project.Project) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func writeName(buf *bytes.Buffer, name string) error {
	if strings.IndexByte(name, 0) >= 0 {
		return fmt.Errorf("%q: %w", name, ErrNameHasNUL)
	}
	buf.WriteString(name)
	buf.WriteByte(0)
	return nil
}

func writeCel(buf *bytes.Buffer, c *anim.Cel) error {
	if len(c.OAMs) > 255 {
		return fmt.Errorf("cel %q: %w", c.Name, ErrTooManyOAMs)
	}
	if err := writeName(buf, c.Name); err != nil {
		return fmt.Errorf("cel: %w", err)
	}
	buf.WriteByte(byte(len(c.OAMs)))
	for _, o := range c.OAMs {
		b := o.EncodeFlat()
		buf.Write(b[:])
	}
	return nil
}

func writeAnimation(buf *bytes.Buffer, a *anim.Animation) error {
	var frames bytes.Buffer
	for _, f := range a.Frames {
		if err := writeName(&frames, f.Cel); err != nil {
			return fmt.Errorf("animation %q frame %d: %w", a.Name, f.ID, err)
		}
		frames.WriteByte(f.Duration)
	}
	if frames.Len() > 0xFFFF {
		return fmt.Errorf("animation %q: %w", a.Name, ErrFramesTooLong)
	}

	if err := writeName(buf, a.Name); err != nil {
		return fmt.Errorf("animation: %w", err)
	}
	var length [2]byte
	binary.BigEndian.PutUint16(length[:], uint16(frames.Len()))
	buf.Write(length[:])
	buf.Write(frames.Bytes())
	return nil
}
