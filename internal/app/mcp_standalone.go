package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "scrapbook/internal/mcp"
	"scrapbook/internal/service"
)

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// Logs go to stderr. Destructive tools are approved automatically since
// there is no window to ask; a running desktop app picks up saved changes
// through its library watcher.
func ServeMCP() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c, err := openCore(os.Stderr, service.NopEmitter{})
	if err != nil {
		return err
	}
	defer c.close()
	c.svc.SetContext(ctx)
	c.restoreLast()

	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter:     service.NopEmitter{},
		Scrapbooks:  c.svc,
		Logger:      c.log,
		PDF:         c.pdfDefaults(),
		AutoApprove: true,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- mcpSrv.ServeStdio() }()

	select {
	case err = <-errCh:
	case <-ctx.Done():
	}
	if _, serr := c.svc.SaveIfDirty("MCP session"); serr != nil && !errors.Is(serr, service.ErrNoScrapbook) {
		c.log.Error().Err(serr).Msg("Failed to save on exit")
	}
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
