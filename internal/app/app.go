package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	mcpserver "scrapbook/internal/mcp"
	"scrapbook/internal/service"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context
	*core

	window   *service.WindowSettingsService
	autosave *service.Autosaver
	imports  *service.ImportWatcher
	watcher  *libraryWatcher
	mcp      *mcpserver.Server
}

// New creates a new App.
func New() *App {
	return &App{}
}

// wailsEmitter forwards service events to the frontend.
type wailsEmitter struct{}

func (wailsEmitter) Emit(ctx context.Context, event string, data any) {
	wailsRuntime.EventsEmit(ctx, event, data)
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	c, err := openCore(os.Stderr, wailsEmitter{})
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to start: %v", err)
		return
	}
	a.core = c
	a.svc.SetContext(ctx)

	a.window = service.NewWindowSettingsService(a.lib)
	size := a.window.LoadWindowSize()
	wailsRuntime.WindowSetSize(ctx, size.Width, size.Height)
	a.svc.Store().SetViewport(float64(size.Width))

	a.restoreLast()

	if a.cfg.Autosave.Enabled {
		a.autosave = service.NewAutosaver(a.svc, wailsEmitter{}, a.log)
		if err := a.autosave.Start(ctx, a.cfg.Autosave.Schedule); err != nil {
			a.log.Error().Err(err).Str("schedule", a.cfg.Autosave.Schedule).Msg("Autosave disabled")
			a.autosave = nil
		}
	}

	if dir := a.cfg.Import.WatchDir; dir != "" {
		a.imports = service.NewImportWatcher(a.svc, wailsEmitter{}, a.log)
		if err := a.imports.Start(ctx, dir); err != nil {
			a.log.Error().Err(err).Str("dir", dir).Msg("Import folder not watched")
			a.imports = nil
		}
	}

	a.watcher = newLibraryWatcher(ctx, a.lib, a.svc, wailsEmitter{}, a.log)
	a.watcher.Start()

	if addr := a.cfg.MCP.HTTPAddr; addr != "" {
		a.mcp = mcpserver.New(ctx, mcpserver.Deps{
			Emitter:    wailsEmitter{},
			Scrapbooks: a.svc,
			Logger:     a.log,
			PDF:        a.pdfDefaults(),
		})
		go func() {
			if err := a.mcp.ServeHTTP(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error().Err(err).Str("addr", addr).Msg("MCP server stopped")
			}
		}()
	}
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.core == nil {
		return
	}
	if a.mcp != nil {
		sctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		a.mcp.Shutdown(sctx)
		cancel()
	}
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.imports != nil {
		a.imports.Stop()
	}
	if a.autosave != nil {
		a.autosave.Stop()
	}

	w, h := wailsRuntime.WindowGetSize(a.ctx)
	if err := a.window.SaveWindowSize(w, h); err != nil {
		a.log.Warn().Err(err).Msg("Failed to save window size")
	}

	wctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	a.svc.WaitRunning(wctx)
	cancel()
	if _, err := a.svc.SaveIfDirty("Closing"); err != nil && !errors.Is(err, service.ErrNoScrapbook) {
		a.log.Error().Err(err).Msg("Failed to save on close")
	}
	a.rememberOpen()
	a.close()
}

// ApproveMCPAction confirms a destructive MCP tool call.
func (a *App) ApproveMCPAction(id string) {
	if a.mcp != nil {
		a.mcp.Approve(id)
	}
}

// RejectMCPAction refuses a destructive MCP tool call.
func (a *App) RejectMCPAction(id string) {
	if a.mcp != nil {
		a.mcp.Reject(id)
	}
}
