package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/decker502/yanimator/pkg/embedded"
)

// TestDefaultEditorConfig_Valid checks the built-in values pass validation.
func TestDefaultEditorConfig_Valid(t *testing.T) {
	cfg := DefaultEditorConfig()
	if err := validateEditorConfig(cfg); err != nil {
		t.Fatalf("defaults are invalid: %v", err)
	}
	if cfg.SheetScale() != 3 {
		t.Errorf("SheetScale = %d, want 3", cfg.SheetScale())
	}
}

func TestParseEditorConfig_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := ParseEditorConfig([]byte("tick_rate: 30\ntimeline:\n  zoom: 4\n"))
	if err != nil {
		t.Fatalf("ParseEditorConfig: %v", err)
	}
	if cfg.TickRate != 30 || cfg.Timeline.Zoom != 4 {
		t.Errorf("overrides lost: tick_rate %d, zoom %g", cfg.TickRate, cfg.Timeline.Zoom)
	}
	if cfg.Window.Width != 1280 || cfg.Timeline.MaxZoom != 60 || cfg.Timeline.KeyframeSize != 30 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestParseEditorConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "window: [", "parse"},
		{"zero width", "window:\n  width: 0\n", "window size"},
		{"tick rate", "tick_rate: -1\n", "tick_rate"},
		{"catch up", "max_catch_up: 0\n", "max_catch_up"},
		{"sprite size", "sprite_size: 20\n", "sprite_size"},
		{"zoom floor", "timeline:\n  zoom: 2\n", "timeline.zoom"},
		{"zoom ceiling", "timeline:\n  zoom: 10\n  max_zoom: 5\n", "max_zoom"},
		{"keyframe size", "timeline:\n  keyframe_size: 0\n", "keyframe_size"},
		{"palette row", "default_palette_row: 16\n", "default_palette_row"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEditorConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadEditorConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.yaml")
	if err := os.WriteFile(path, []byte("sheet: obj.4bpp\npalette: obj.pal\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadEditorConfig(path)
	if err != nil {
		t.Fatalf("LoadEditorConfig: %v", err)
	}
	if cfg.Sheet != "obj.4bpp" || cfg.Palette != "obj.pal" {
		t.Errorf("paths = %q, %q", cfg.Sheet, cfg.Palette)
	}

	if _, err := LoadEditorConfig(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestLoadEditorConfig_Embedded(t *testing.T) {
	embedded.Init(fstest.MapFS{
		EmbeddedEditorConfigPath: {Data: []byte("tick_rate: 50\n")},
	})
	cfg, err := LoadEditorConfig("")
	if err != nil {
		t.Fatalf("LoadEditorConfig: %v", err)
	}
	if cfg.TickRate != 50 {
		t.Errorf("TickRate = %d, want the bundled 50", cfg.TickRate)
	}

	embedded.Init(fstest.MapFS{})
	cfg, err = LoadEditorConfig("")
	if err != nil || cfg.TickRate != 60 {
		t.Errorf("without a bundled file: %+v, %v", cfg, err)
	}
}

// TestBundledEditorConfig parses the file shipped in data/.
func TestBundledEditorConfig(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", EmbeddedEditorConfigPath))
	if err != nil {
		t.Fatalf("read bundled config: %v", err)
	}
	if _, err := ParseEditorConfig(data); err != nil {
		t.Errorf("bundled config is invalid: %v", err)
	}
}
