package editor

import (
	"fmt"
	"log"
	"slices"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/yanimator/pkg/config"
)

// MaxRecentProjects 最近项目列表的最大长度
const MaxRecentProjects = 10

// Settings 跨运行保存的用户偏好
type Settings struct {
	RecentProjects []string `yaml:"recentProjects"` // most recent first
	LastSheet      string   `yaml:"lastSheet"`
	LastPalette    string   `yaml:"lastPalette"`
	TimelineZoom   float64  `yaml:"timelineZoom"`
}

// DefaultSettings 返回首次运行时的设置
func DefaultSettings() *Settings {
	return &Settings{
		RecentProjects: []string{},
		TimelineZoom:   10,
	}
}

// SettingsManager 通过 gdata 加载和保存 Settings
type SettingsManager struct {
	gdataManager *gdata.Manager // nil keeps settings in memory only
	settings     *Settings
}

const (
	settingsObject   = "settings"
	settingsProperty = "editor"
)

// NewSettingsManager 创建设置管理器并加载已保存的设置。
// gdataManager 为 nil 或加载失败时保留默认值。
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 读取已保存的设置，数据不存在不算错误
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if loaded.TimelineZoom < config.MinTimelineZoom {
		loaded.TimelineZoom = config.MinTimelineZoom
	}
	if len(loaded.RecentProjects) > MaxRecentProjects {
		loaded.RecentProjects = loaded.RecentProjects[:MaxRecentProjects]
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置，没有 gdata 时不做任何事
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// Settings 返回当前设置
func (sm *SettingsManager) Settings() *Settings {
	return sm.settings
}

// AddRecentProject 把 path 移到最近项目列表的最前面
func (sm *SettingsManager) AddRecentProject(path string) {
	if path == "" {
		return
	}
	recent := slices.DeleteFunc(sm.settings.RecentProjects, func(p string) bool { return p == path })
	recent = append([]string{path}, recent...)
	if len(recent) > MaxRecentProjects {
		recent = recent[:MaxRecentProjects]
	}
	sm.settings.RecentProjects = recent
}

// LastProject 返回最近使用的项目路径
func (sm *SettingsManager) LastProject() (string, bool) {
	if len(sm.settings.RecentProjects) == 0 {
		return "", false
	}
	return sm.settings.RecentProjects[0], true
}

// SetGraphics 记住图块和调色板路径
func (sm *SettingsManager) SetGraphics(sheet, palette string) {
	sm.settings.LastSheet = sheet
	sm.settings.LastPalette = palette
}

// SetTimelineZoom 记住时间轴缩放，不低于最小值
func (sm *SettingsManager) SetTimelineZoom(zoom float64) {
	if zoom < config.MinTimelineZoom {
		zoom = config.MinTimelineZoom
	}
	sm.settings.TimelineZoom = zoom
}
