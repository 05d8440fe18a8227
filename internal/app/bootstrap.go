package app

import (
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"scrapbook/internal/canvas"
	"scrapbook/internal/config"
	"scrapbook/internal/domain"
	"scrapbook/internal/export"
	"scrapbook/internal/logger"
	"scrapbook/internal/service"
	"scrapbook/internal/storage"
)

const settingLastScrapbook = "last_scrapbook"

// core is what both entry points share: configuration, the logger, the
// library backend and the scrapbook service on top of it.
type core struct {
	cfg *config.Config
	log zerolog.Logger
	lib domain.Library
	svc *service.ScrapbookService
}

// openCore loads .env and the config file, then opens the library. Logs go
// to logOut so the MCP stdio mode can keep stdout clean.
func openCore(logOut io.Writer, emitter service.EventEmitter) (*core, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.NewWithWriter(logOut, cfg.Logging.Level)
	config.SetLogger(log)

	lib, err := storage.OpenLibrary(cfg.Storage.Driver, cfg.Storage.DSN, cfg.Storage.Database)
	if err != nil {
		return nil, fmt.Errorf("open %s library: %w", cfg.Storage.Driver, err)
	}
	log.Info().Str("driver", cfg.Storage.Driver).Msg("Library opened")

	svc := service.NewScrapbookService(lib, emitter, service.ScrapbookOptions{
		Canvas: canvas.Options{
			ViewportWidth: cfg.Canvas.ViewportWidth,
			FlipDuration:  cfg.Canvas.FlipDuration(),
			DefaultTheme:  cfg.Canvas.DefaultTheme,
		},
		Logger: &log,
	})
	return &core{cfg: cfg, log: log, lib: lib, svc: svc}, nil
}

// pdfDefaults turns the export section of the config into PDF options.
func (c *core) pdfDefaults() export.PDFOptions {
	return export.PDFOptions{
		Title:       c.cfg.Export.Title,
		Selection:   export.SelectAll,
		PaperSize:   c.cfg.Export.PaperSize,
		Orientation: c.cfg.Export.Orientation,
		Quality:     export.Quality(c.cfg.Export.Quality),
	}
}

// restoreLast reopens the scrapbook that was open when the app last closed.
func (c *core) restoreLast() {
	id, ok, err := c.lib.GetSetting(settingLastScrapbook)
	if err != nil || !ok || id == "" {
		return
	}
	if _, err := c.svc.Open(id); err != nil {
		c.log.Warn().Err(err).Str("id", id).Msg("Could not reopen last scrapbook")
	}
}

func (c *core) rememberOpen() {
	id := ""
	if sb, ok := c.svc.Current(); ok {
		id = sb.ID
	}
	if err := c.lib.SetSetting(settingLastScrapbook, id); err != nil {
		c.log.Warn().Err(err).Msg("Failed to remember open scrapbook")
	}
}

func (c *core) close() {
	c.svc.Close()
	if err := c.lib.Close(); err != nil {
		c.log.Warn().Err(err).Msg("Failed to close library")
	}
}
