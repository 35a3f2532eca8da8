package cli

import (
	"context"
	"os"

	"github.com/jwijenbergh/puregotk/v4/gio"
	"github.com/jwijenbergh/puregotk/v4/gtk"
	"github.com/rs/zerolog"

	"github.com/ravel-dev/weft/internal/bridge"
	"github.com/ravel-dev/weft/internal/history"
	"github.com/ravel-dev/weft/internal/logging"
	"github.com/ravel-dev/weft/internal/ui"
	"github.com/ravel-dev/weft/pkg/engine"
)

const windowTitle = "weft"

// browser holds the demo-browser GTK state. Connected callbacks live here
// so the GC keeps them reachable for the lifetime of the application.
type browser struct {
	app     *App
	gtkApp  *gtk.Application
	webview *ui.WebView
	window  *gtk.ApplicationWindow
	logger  zerolog.Logger

	initialURL string
	store      *history.Store

	activateCb func(gio.Application)
	shutdownCb func(gio.Application)
}

// RunBrowse launches the GTK demo browser and blocks until it exits.
// The caller must have locked the main thread.
func RunBrowse(initialURL string) int {
	app, err := NewApp()
	if err != nil {
		logger := logging.NewFromEnv()
		logger.Error().Err(err).Msg("failed to initialize")
		return 1
	}
	defer func() { _ = app.Close() }()

	b := &browser{
		app:        app,
		initialURL: initialURL,
		logger:     app.Logger().With().Str("component", "browser").Logger(),
	}
	if b.initialURL == "" {
		b.initialURL = app.Config().Homepage
	}

	if app.Config().History.Enabled {
		store, err := app.HistoryStore()
		if err != nil {
			b.logger.Warn().Err(err).Msg("history disabled: database unavailable")
		} else {
			b.store = store
		}
	}

	// Config hot reload only affects future sessions; log so edits are
	// visible without a restart guessing game.
	if err := app.ConfigManager().Watch(); err != nil {
		b.logger.Warn().Err(err).Msg("config watch unavailable")
	}

	b.gtkApp = gtk.NewApplication("", gio.GApplicationFlagsNoneValue)
	if b.gtkApp == nil {
		b.logger.Error().Msg("failed to create GTK application")
		return 1
	}
	defer b.gtkApp.Unref()

	b.activateCb = func(_ gio.Application) { b.onActivate() }
	b.gtkApp.ConnectActivate(&b.activateCb)

	b.shutdownCb = func(_ gio.Application) { b.onShutdown() }
	b.gtkApp.ConnectShutdown(&b.shutdownCb)

	b.logger.Info().Str("url", b.initialURL).Msg("starting GTK main loop")
	args := []string{os.Args[0]}
	return int(b.gtkApp.Run(int32(len(args)), args))
}

func (b *browser) onActivate() {
	eng, err := engine.Open(os.Getenv("WEFT_ENGINE"))
	if err != nil {
		b.logger.Error().Err(err).Msg("no rendering engine available")
		return
	}

	cfg := b.app.Config()
	webview, err := ui.NewWebView(eng, ui.Options{
		Logger: b.app.Logger(),
		Session: bridge.Config{Engine: engine.Config{
			Width:       cfg.Viewport.Width,
			Height:      cfg.Viewport.Height,
			ScaleFactor: cfg.Viewport.ScaleFactor,
		}},
		PumpBatch: cfg.Pump.BatchSize,
	})
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to create webview")
		return
	}
	b.webview = webview

	window := gtk.NewApplicationWindow(b.gtkApp)
	if window == nil {
		b.logger.Error().Msg("failed to create window")
		return
	}
	b.window = window
	window.SetTitle(windowTitle)
	window.SetDefaultSize(int32(cfg.Viewport.Width), int32(cfg.Viewport.Height))
	window.SetChild(webview.GtkWidget())

	b.connectHandlers()

	if err := webview.LoadURL(b.initialURL); err != nil {
		b.logger.Error().Err(err).Str("url", b.initialURL).Msg("initial load rejected")
	}

	window.Present()
}

// connectHandlers wires widget signals to the window chrome and history.
// Handlers fire on the GTK main loop, so touching the window is safe;
// history writes go through a goroutine to keep the loop responsive.
func (b *browser) connectHandlers() {
	b.webview.RegisterLoadStartedHandler(func(url string) {
		b.logger.Debug().Str("url", url).Msg("load started")
		b.recordVisit(url, "")
	})
	b.webview.RegisterLoadFinishedHandler(func() {
		b.logger.Debug().Str("url", b.webview.CurrentURL()).Msg("load finished")
	})
	b.webview.RegisterLoadFailedHandler(func(reason string) {
		b.logger.Warn().Str("reason", reason).Msg("load failed")
	})
	b.webview.RegisterTitleChangedHandler(func(t string) {
		pageTitle := t
		if pageTitle == "" {
			pageTitle = windowTitle
		}
		b.window.SetTitle(pageTitle)
		b.setVisitTitle(b.webview.CurrentURL(), t)
	})
	b.webview.RegisterCursorChangedHandler(func(name string) {
		b.webview.GtkWidget().SetCursorFromName(name)
	})
}

func (b *browser) recordVisit(url, title string) {
	if b.store == nil {
		return
	}
	go func() {
		if err := b.store.RecordVisit(context.Background(), url, title); err != nil {
			b.logger.Warn().Err(err).Msg("failed to record visit")
		}
	}()
}

func (b *browser) setVisitTitle(url, title string) {
	if b.store == nil || url == "" || title == "" {
		return
	}
	go func() {
		if err := b.store.SetTitle(context.Background(), url, title); err != nil {
			b.logger.Warn().Err(err).Msg("failed to update visit title")
		}
	}()
}

func (b *browser) onShutdown() {
	if b.webview != nil {
		b.webview.Close()
	}
	b.logger.Info().Msg("shutting down")
}
