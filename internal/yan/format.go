// Package yan reads and writes .yan project files.
//
// Layout (all integers big-endian):
//
//	offset 0  "YAN"
//	offset 3  uint32  byte offset of the animation section
//	offset 7  cel records until the animation offset:
//	            name, 0x00
//	            uint8   OAM count
//	            count * 8-byte flat OAM records
//	          animation records until end of file:
//	            name, 0x00
//	            uint16  byte length of the frame block
//	            frame block: { cel name, 0x00, uint8 duration }*
//
// Names carry no length prefix and are not escaped, so they must not contain
// NUL bytes. The format has no version field.
package yan

import (
	"errors"
	"fmt"
)

// Magic is the file signature.
const Magic = "YAN"

// HeaderSize is the length of the magic plus the animation offset.
const HeaderSize = len(Magic) + 4

// File-level errors.
var (
	ErrBadMagic        = errors.New("yan: bad magic")
	ErrTruncatedHeader = errors.New("yan: truncated header")
	ErrBadOffset       = errors.New("yan: animation offset out of range")
)

// Encode errors.
var (
	ErrNameHasNUL    = errors.New("yan: name contains a NUL byte")
	ErrTooManyOAMs   = errors.New("yan: cel has more than 255 OAMs")
	ErrFramesTooLong = errors.New("yan: frame block longer than 65535 bytes")
)

// Record-level errors. A record that fails to parse is dropped together with
// the rest of its section.
var (
	ErrUnterminatedName = errors.New("yan: unterminated name")
	ErrTruncatedRecord  = errors.New("yan: truncated record")
)

// RecordError describes a dropped record.
type RecordError struct {
	Section string // "cel" or "animation"
	Offset  int
	Err     error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s record at offset %d: %v", e.Section, e.Offset, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
