package editor

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/decker502/yanimator/internal/csrc"
	"github.com/decker502/yanimator/internal/yan"
	"github.com/decker502/yanimator/pkg/embedded"
	"github.com/decker502/yanimator/pkg/project"
)

// SamplePath is the bundled example project.
const SamplePath = "data/samples/night_walk.c"

// ErrUnknownFormat is returned for paths whose extension names no known format.
var ErrUnknownFormat = errors.New("unknown project format")

// Format is a project file format.
type Format int

const (
	FormatYan Format = iota
	FormatC
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yan":
		return FormatYan, nil
	case ".c", ".h", ".inc":
		return FormatC, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// OpenProject reads a .yan or C source project. Records that fail to parse
// are logged and skipped; only file-level failures are returned.
func OpenProject(path string) (*project.Project, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}

	var p *project.Project
	switch format {
	case FormatYan:
		p, err = yan.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("failed to open project %s: %w", path, err)
		}
	case FormatC:
		var errs []error
		p, errs = csrc.Import(string(data))
		if len(errs) > 0 {
			log.Printf("[Editor] %s: %d blocks had problems", path, len(errs))
		}
	}

	logMissing(p)
	log.Printf("[Editor] Opened %s: %d cels, %d animations", path, len(p.Cels), len(p.Animations))
	return p, nil
}

// LoadSample opens the bundled sample project.
func LoadSample() (*project.Project, error) {
	data, err := embedded.ReadFile(SamplePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load sample: %w", err)
	}
	p, _ := csrc.Import(string(data))
	return p, nil
}

func logMissing(p *project.Project) {
	for name, cels := range p.MissingCels() {
		log.Printf("[Editor] Warning: animation %s uses missing cels %v", name, cels)
	}
}

// SaveProject writes p as .yan. The data goes to a temporary file first so a
// failed write never truncates the previous save.
func SaveProject(path string, p *project.Project) error {
	data, err := yan.Encode(p)
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	log.Printf("[Editor] Saved %s (%d bytes)", path, len(data))
	return nil
}

// ExportC writes p as C source.
func ExportC(path string, p *project.Project) error {
	var buf bytes.Buffer
	if err := csrc.Export(&buf, p); err != nil {
		return fmt.Errorf("failed to export C: %w", err)
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to export C: %w", err)
	}
	log.Printf("[Editor] Exported %s", path)
	return nil
}

// ImportC merges the cels and animations of a C file into p. Cels replace
// existing ones of the same name; animations whose name is taken are
// skipped. The per-block parse errors are returned alongside.
func ImportC(path string, p *project.Project) ([]error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to import C: %w", err)
	}
	imported, errs := csrc.Import(string(data))
	skipped := p.Merge(imported)
	for _, name := range skipped {
		log.Printf("[Editor] Skipped animation %s: name already in use", name)
	}
	log.Printf("[Editor] Imported %s: %d cels, %d animations", path,
		len(imported.Cels), len(imported.Animations)-len(skipped))
	return errs, nil
}

// Save writes the session's project and records it as clean.
func (s *Session) Save(path string) error {
	var err error
	switch format, ferr := FormatOf(path); {
	case ferr != nil:
		return ferr
	case format == FormatC:
		err = ExportC(path, s.Project)
	default:
		err = SaveProject(path, s.Project)
	}
	if err != nil {
		return err
	}
	s.MarkSaved()
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
