package service

import (
	"context"
	"sync"
)

// ExportedJobGuard is an exported alias so _test packages can test the guard.
type ExportedJobGuard = jobGuard

// Job names guarded against overlap.
const (
	jobExportPDF  = "export-pdf"
	jobExportJSON = "export-json"
	jobAutosave   = "autosave"
)

// ─────────────────────────────────────────────────────────────
// jobGuard: one running instance per job name
// ─────────────────────────────────────────────────────────────

// jobGuard keeps a second export or autosave from starting while the first
// is still writing, and lets shutdown wait for in-flight work.
type jobGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// TryLock marks job as running. It returns false if it already is.
func (g *jobGuard) TryLock(job string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[job]; ok {
		return false
	}
	g.running[job] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock releases a job taken with TryLock.
func (g *jobGuard) Unlock(job string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.running[job]; !ok {
		return
	}
	delete(g.running, job)
	g.wg.Done()
}

func (g *jobGuard) Running(job string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.running[job]
	return ok
}

// WaitAll blocks until every running job completes or ctx is cancelled.
func (g *jobGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
