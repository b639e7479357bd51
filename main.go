package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/decker502/yanimator/pkg/app"
	"github.com/decker502/yanimator/pkg/config"
	"github.com/decker502/yanimator/pkg/editor"
	"github.com/decker502/yanimator/pkg/embedded"
)

const appName = "yanimator"

var (
	projectPath = flag.String("project", "", "project to open (.yan or .c); empty opens the most recent one, then the sample")
	sheetPath   = flag.String("sheet", "", "4bpp tile sheet for the preview")
	palettePath = flag.String("pal", "", "RIFF palette for the preview")
	configPath  = flag.String("config", "", "editor.yaml; empty uses the bundled one")
	verbose     = flag.Bool("verbose", false, "enable logging")
	logFile     = flag.String("logfile", "", "with -verbose, write the log to this rotated file instead of stderr")
)

func main() {
	flag.Parse()

	closeLog := setupLogging(*verbose, *logFile)
	fatal := func(v ...any) {
		if *verbose && *logFile != "" {
			log.Print(v...)
		}
		closeLog()
		log.SetOutput(os.Stderr)
		log.Fatal(v...)
	}

	embedded.Init(dataFS)

	cfg, err := config.LoadEditorConfig(*configPath)
	if err != nil {
		fatal("[App] ", err)
	}

	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[App] Warning: settings storage unavailable: %v", err)
		gdataManager = nil
	}
	settings := editor.NewSettingsManager(gdataManager)

	editorApp, err := app.NewApp(app.Config{
		Editor:      cfg,
		ProjectPath: startupProject(*projectPath, settings),
		SheetPath:   pick(*sheetPath, cfg.Sheet, settings.Settings().LastSheet),
		PalettePath: pick(*palettePath, cfg.Palette, settings.Settings().LastPalette),
		Settings:    settings,
	})
	if err != nil {
		fatal("[App] ", err)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TickRate)

	runErr := ebiten.RunGame(editorApp)
	editorApp.Close()
	if runErr != nil {
		fatal(runErr)
	}
	closeLog()
}

// setupLogging routes the std logger and returns the function that closes the
// log file. log.Fatal skips deferred calls, so callers close it explicitly.
func setupLogging(verbose bool, path string) (closeLog func()) {
	switch {
	case !verbose:
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	case path != "":
		logger := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
		}
		log.SetOutput(logger)
		return func() {
			log.SetOutput(io.Discard)
			logger.Close()
		}
	}
	return func() {}
}

// startupProject prefers the flag, then the most recent project that still
// exists. Empty means the sample.
func startupProject(flagPath string, settings *editor.SettingsManager) string {
	if flagPath != "" {
		return flagPath
	}
	if last, ok := settings.LastProject(); ok && exists(last) {
		return last
	}
	return ""
}

// pick returns the first candidate set explicitly, or the first remembered
// one that still exists on disk.
func pick(flagPath, configured, remembered string) string {
	if flagPath != "" {
		return flagPath
	}
	if configured != "" {
		return configured
	}
	if remembered != "" && exists(remembered) {
		return remembered
	}
	return ""
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
