// Package app 提供编辑器的桌面外壳，包装 editor.Session
//
// App 实现 ebiten.Game 接口：Update 把输入和时钟转换为会话操作，
// Draw 绘制 cel 预览、时间轴和状态文字。
// 所有修改都经过会话完成，外壳本身只保存视图状态。
package app

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/yanimator/internal/gfx"
	"github.com/decker502/yanimator/pkg/anim"
	"github.com/decker502/yanimator/pkg/config"
	"github.com/decker502/yanimator/pkg/editor"
	"github.com/decker502/yanimator/pkg/project"
)

// DefaultSavePath 项目不是从文件打开时使用的保存路径
const DefaultSavePath = "untitled.yan"

// Config 定义编辑器启动配置
type Config struct {
	// Editor 已加载的 editor.yaml，为 nil 时使用默认值
	Editor *config.EditorConfig
	// ProjectPath 启动时打开的项目，为空时打开内置示例
	ProjectPath string
	// SheetPath 和 PalettePath 用于预览的图块和调色板。
	// 任一为空时 OAM 只绘制轮廓。
	SheetPath   string
	PalettePath string
	// Settings 保存最近项目和视图偏好，可以为 nil
	Settings *editor.SettingsManager
}

// App 是编辑器应用，实现 ebiten.Game 接口
type App struct {
	cfg      *config.EditorConfig
	session  *editor.Session
	settings *editor.SettingsManager
	clock    *anim.Clock
	now      func() time.Time

	renderer gfx.Renderer
	cache    *celCache

	keys     []ebiten.Key
	savePath string
	prompt   *prompt
	message  string // last status message, shown until the next one

	pendingWindowSizeReset   bool
	windowSizeResetCountdown int
}

// NewApp 打开 cfg 指定的项目和图形资源
//
// cfg.ProjectPath 为空时，调用前必须先执行 embedded.Init。
func NewApp(cfg Config) (*App, error) {
	ec := cfg.Editor
	if ec == nil {
		ec = config.DefaultEditorConfig()
	}

	p, err := openStartupProject(cfg.ProjectPath)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:      ec,
		settings: cfg.Settings,
		clock:    anim.NewClock(ec.TickRate, ec.MaxCatchUp),
		now:      time.Now,
		renderer: gfx.Renderer{FallbackRow: ec.DefaultPaletteRow, Highlight: true},
		cache:    newCelCache(),
		savePath: cfg.ProjectPath,
	}
	if a.savePath == "" {
		a.savePath = DefaultSavePath
	}

	if cfg.SheetPath != "" {
		sheet, err := gfx.LoadSheet(cfg.SheetPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load sprite sheet: %w", err)
		}
		a.renderer.Sheet = sheet
		log.Printf("[App] Loaded %d tiles from %s", sheet.Len(), cfg.SheetPath)
	}
	if cfg.PalettePath != "" {
		pal, err := gfx.LoadPalette(cfg.PalettePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load palette: %w", err)
		}
		a.renderer.Palette = pal
		log.Printf("[App] Loaded %d palette rows from %s", len(pal), cfg.PalettePath)
	}

	a.session = a.newSession(p)

	if a.settings != nil {
		if cfg.ProjectPath != "" {
			a.settings.AddRecentProject(cfg.ProjectPath)
		}
		a.settings.SetGraphics(cfg.SheetPath, cfg.PalettePath)
	}
	return a, nil
}

func openStartupProject(path string) (*project.Project, error) {
	if path != "" {
		return editor.OpenProject(path)
	}
	p, err := editor.LoadSample()
	if err != nil {
		log.Printf("[App] Warning: %v, starting with an empty project", err)
		return project.New(), nil
	}
	log.Printf("[App] No project given, opened the sample")
	return p, nil
}

func (a *App) newSession(p *project.Project) *editor.Session {
	s := editor.NewSession(p)
	s.Zoom = a.cfg.Timeline.Zoom
	s.MaxZoom = a.cfg.Timeline.MaxZoom
	s.ScrollSpeed = a.cfg.Timeline.ScrollSpeed
	if a.settings != nil {
		s.Zoom = a.settings.Settings().TimelineZoom
		s.AdjustZoom(0)
	}
	s.TileCount = a.renderer.Sheet.Len()
	s.PaletteRows = len(a.renderer.Palette)
	return s
}

// Session 返回当前编辑会话
func (a *App) Session() *editor.Session {
	return a.session
}

// SavePath 返回 ctrl+S 保存项目的路径
func (a *App) SavePath() string {
	return a.savePath
}

// Update 处理输入并推进播放
func (a *App) Update() error {
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.cfg.Window.Width, a.cfg.Window.Height)
			a.pendingWindowSizeReset = false
		}
	}

	a.handleKeyboard()
	a.handleMouse()

	a.session.Tick(a.clock.Ticks(a.now()))
	return nil
}

// Draw 绘制预览、时间轴和状态文字
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	l := a.layout()
	a.drawPreview(screen, l)
	a.drawTimeline(screen, l)
	a.drawStatus(screen)
}

// DrawFinalScreen 窗口宽高比与逻辑屏幕不同时，用黑边居中显示
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(offscreen, op)
}

// Layout 返回编辑器配置中的逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.Window.Width, a.cfg.Window.Height
}

// Close 保存用户设置，未保存的项目修改只记录日志
func (a *App) Close() {
	if a.session.Dirty() {
		log.Printf("[App] Warning: closing with unsaved changes")
	}
	if a.settings == nil {
		return
	}
	a.settings.SetTimelineZoom(a.session.Zoom)
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		// 窗口管理器需要几帧后尺寸才会生效
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		return
	}
	ebiten.SetFullscreen(true)
}

func (a *App) save() {
	if err := a.session.Save(a.savePath); err != nil {
		a.setMessage("save failed: %v", err)
		return
	}
	a.remember(a.savePath)
	a.setMessage("saved %s", a.savePath)
}

// exportC 在保存路径旁导出 C 源文件
func (a *App) exportC() {
	path := strings.TrimSuffix(a.savePath, filepath.Ext(a.savePath)) + ".c"
	if err := editor.ExportC(path, a.session.Project); err != nil {
		a.setMessage("export failed: %v", err)
		return
	}
	a.setMessage("exported %s", path)
}

// reopenLast 用最近打开的项目替换当前会话的项目
func (a *App) reopenLast() {
	if a.settings == nil {
		return
	}
	path, ok := a.settings.LastProject()
	if !ok {
		a.setMessage("no recent project")
		return
	}
	p, err := editor.OpenProject(path)
	if err != nil {
		a.setMessage("open failed: %v", err)
		return
	}
	a.session.Replace(p)
	a.savePath = path
	a.cache.clear()
	a.setMessage("opened %s", path)
}

func (a *App) remember(path string) {
	if a.settings == nil {
		return
	}
	a.settings.AddRecentProject(path)
	a.settings.SetTimelineZoom(a.session.Zoom)
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

func (a *App) setMessage(format string, args ...any) {
	a.message = fmt.Sprintf(format, args...)
	log.Printf("[App] %s", a.message)
}
