package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decker502/yanimator/pkg/embedded"
)

// EmbeddedEditorConfigPath 内置默认配置的路径
const EmbeddedEditorConfigPath = "data/config/editor.yaml"

// MinTimelineZoom 时间轴最小缩放（每 tick 像素数）
const MinTimelineZoom = 3

// EditorConfig editor.yaml 的顶层结构
type EditorConfig struct {
	Window WindowConfig `yaml:"window"`

	// TickRate 播放速率（每秒 tick 数）
	TickRate int `yaml:"tick_rate"`

	// MaxCatchUp 卡顿后单次更新最多补播的 tick 数
	MaxCatchUp int `yaml:"max_catch_up"`

	// SpriteSize 一个 8x8 图块在屏幕上的边长，必须是 8 的倍数
	SpriteSize int `yaml:"sprite_size"`

	Timeline TimelineConfig `yaml:"timeline"`

	// DefaultPaletteRow 调色板文件缺少对应行时使用的替代行
	DefaultPaletteRow int `yaml:"default_palette_row"`

	// Sheet 和 Palette 命令行未指定路径时加载
	Sheet   string `yaml:"sheet,omitempty"`
	Palette string `yaml:"palette,omitempty"`
}

// WindowConfig 主窗口配置
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// TimelineConfig 时间轴配置
type TimelineConfig struct {
	Zoom        float64 `yaml:"zoom"`
	MaxZoom     float64 `yaml:"max_zoom"`
	ScrollSpeed float64 `yaml:"scroll_speed"`
	// KeyframeSize 关键帧标记的边长（像素）
	KeyframeSize int `yaml:"keyframe_size"`
}

// DefaultEditorConfig 返回内置配置
func DefaultEditorConfig() *EditorConfig {
	return &EditorConfig{
		Window: WindowConfig{
			Title:  "Yanimator",
			Width:  1280,
			Height: 720,
		},
		TickRate:   60,
		MaxCatchUp: 8,
		SpriteSize: 24,
		Timeline: TimelineConfig{
			Zoom:         10,
			MaxZoom:      60,
			ScrollSpeed:  10,
			KeyframeSize: 30,
		},
	}
}

// ParseEditorConfig 在默认值之上解析 YAML，文件只需包含要修改的键
func ParseEditorConfig(data []byte) (*EditorConfig, error) {
	cfg := DefaultEditorConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse editor config: %w", err)
	}
	if err := validateEditorConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid editor config: %w", err)
	}
	return cfg, nil
}

// LoadEditorConfig 从磁盘读取 editor.yaml。
// path 为空时加载内置文件，没有内置文件时使用默认值。
func LoadEditorConfig(path string) (*EditorConfig, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case path != "":
		data, err = os.ReadFile(path)
	case embedded.IsInitialized() && embedded.Exists(EmbeddedEditorConfigPath):
		path = EmbeddedEditorConfigPath
		data, err = embedded.ReadFile(path)
	default:
		return DefaultEditorConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read editor config %s: %w", path, err)
	}

	cfg, err := ParseEditorConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// SheetScale 返回图块像素到屏幕像素的整数倍率
func (c *EditorConfig) SheetScale() int {
	return c.SpriteSize / 8
}

func validateEditorConfig(c *EditorConfig) error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %d", c.TickRate)
	}
	if c.MaxCatchUp < 1 {
		return fmt.Errorf("max_catch_up must be at least 1, got %d", c.MaxCatchUp)
	}
	if c.SpriteSize < 8 || c.SpriteSize%8 != 0 {
		return fmt.Errorf("sprite_size must be a positive multiple of 8, got %d", c.SpriteSize)
	}
	if c.Timeline.Zoom < MinTimelineZoom {
		return fmt.Errorf("timeline.zoom must be at least %d, got %g", MinTimelineZoom, c.Timeline.Zoom)
	}
	if c.Timeline.MaxZoom < c.Timeline.Zoom {
		return fmt.Errorf("timeline.max_zoom %g is below timeline.zoom %g", c.Timeline.MaxZoom, c.Timeline.Zoom)
	}
	if c.Timeline.KeyframeSize <= 0 {
		return fmt.Errorf("timeline.keyframe_size must be positive, got %d", c.Timeline.KeyframeSize)
	}
	if c.DefaultPaletteRow < 0 || c.DefaultPaletteRow > 15 {
		return fmt.Errorf("default_palette_row must be in 0..15, got %d", c.DefaultPaletteRow)
	}
	return nil
}
