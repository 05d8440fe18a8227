package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"scrapbook/internal/canvas"
	"scrapbook/internal/domain"
	"scrapbook/internal/export"
	"scrapbook/internal/storage"
)

var (
	// ErrNoScrapbook is returned by operations that need an open scrapbook.
	ErrNoScrapbook = errors.New("no scrapbook is open")
	// ErrExportRunning is returned when an export of the same kind is in flight.
	ErrExportRunning = errors.New("an export is already running")
)

// ─────────────────────────────────────────────────────────────
// Scrapbook Service: the open document and its library record
// ─────────────────────────────────────────────────────────────

// ScrapbookService owns the single canvas store of a session and keeps it in
// sync with the library: new/open/save/delete, revisions, JSON import and
// JSON/PDF export. Canvas mutations mark the session dirty and are forwarded
// to the frontend as canvas:changed events.
type ScrapbookService struct {
	lib     domain.Library
	emitter EventEmitter
	log     zerolog.Logger
	store   *canvas.Store
	now     func() time.Time

	mu      sync.Mutex
	current *domain.Scrapbook
	dirty   atomic.Bool
	// cleanAt is the store's edit count when the canvas last matched the
	// library record.
	cleanAt atomic.Uint64
	jobs    jobGuard
	// ctx is the context events are emitted with.
	ctx context.Context
}

// ScrapbookOptions configure the canvas store the service owns.
type ScrapbookOptions struct {
	Canvas canvas.Options
	Logger *zerolog.Logger
	Now    func() time.Time
}

// NewScrapbookService creates the service and its canvas store. The store
// starts with one blank, unsaved page.
func NewScrapbookService(lib domain.Library, emitter EventEmitter, opts ScrapbookOptions) *ScrapbookService {
	s := &ScrapbookService{
		lib:     lib,
		emitter: emitter,
		log:     zerolog.Nop(),
		now:     opts.Now,
		ctx:     context.Background(),
	}
	if opts.Logger != nil {
		s.log = opts.Logger.With().Str("component", "scrapbook").Logger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	copts := opts.Canvas
	if copts.NewID == nil {
		copts.NewID = uuid.NewString
	}
	if copts.Logger == nil {
		copts.Logger = &s.log
	}
	user := copts.OnChange
	copts.OnChange = func(c canvas.Change) {
		s.onCanvasChange(c)
		if user != nil {
			user(c)
		}
	}
	s.store = canvas.New(copts)
	return s
}

// SetContext sets the context passed to the emitter, normally the Wails
// startup context.
func (s *ScrapbookService) SetContext(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
}

func (s *ScrapbookService) emit(event string, data any) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	s.emitter.Emit(ctx, event, data)
}

func (s *ScrapbookService) onCanvasChange(c canvas.Change) {
	switch c.Kind {
	case canvas.ChangeFlipStarted, canvas.ChangeLoaded:
	case canvas.ChangeFlipCommitted:
		// The new page may have been laid out against another viewport.
		s.store.ReconstrainAll(s.store.PageExtent())
	default:
		s.dirty.Store(true)
	}
	s.emit(EventCanvasChanged, c)
}

// Store returns the canvas store backing the open scrapbook.
func (s *ScrapbookService) Store() *canvas.Store {
	return s.store
}

// Dirty reports whether the canvas changed since the last save or open.
func (s *ScrapbookService) Dirty() bool {
	return s.dirty.Load()
}

// Current returns the open scrapbook's record, without its document body.
func (s *ScrapbookService) Current() (domain.Scrapbook, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Scrapbook{}, false
	}
	sb := *s.current
	sb.DocumentJSON = ""
	return sb, true
}

// ── Library ────────────────────────────────────────────────

func (s *ScrapbookService) List() ([]domain.Scrapbook, error) {
	return s.lib.ListScrapbooks()
}

// New creates an empty scrapbook in the library and opens it.
func (s *ScrapbookService) New(title string) (*domain.Scrapbook, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = export.DefaultTitle
	}
	return s.replaceAndCreate(title, domain.Document{})
}

// SaveAs stores the current canvas, unsaved draft or not, as a new library
// entry and opens it.
func (s *ScrapbookService) SaveAs(title string) (*domain.Scrapbook, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = export.DefaultTitle
	}
	sb, err := s.create(title)
	if err != nil {
		return nil, err
	}
	s.emit(EventScrapbookSaved, summary(sb))
	return sb, nil
}

// replaceAndCreate loads doc into the canvas and stores it as a new library
// entry. When the entry cannot be created the previous canvas, and whether it
// had unsaved edits, is put back so the open scrapbook is not overwritten
// with the new content on its next save.
func (s *ScrapbookService) replaceAndCreate(title string, doc domain.Document) (*domain.Scrapbook, error) {
	prev, _ := s.store.Snapshot()
	wasDirty := s.dirty.Load()
	s.store.Load(doc)
	sb, err := s.create(title)
	if err != nil {
		edits := s.store.Load(prev)
		s.dirty.Store(wasDirty)
		if !wasDirty {
			s.cleanAt.Store(edits)
		}
		s.log.Warn().Err(err).Str("title", title).Msg("Create failed, previous canvas restored")
		return nil, err
	}
	return sb, nil
}

// create stores the current canvas as a new library entry and opens it.
func (s *ScrapbookService) create(title string) (*domain.Scrapbook, error) {
	doc, edits := s.store.Snapshot()
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	sb := &domain.Scrapbook{
		ID:           uuid.NewString(),
		Title:        title,
		DocumentJSON: string(body),
		PageCount:    len(doc.Pages),
		ItemCount:    doc.ItemCount(),
	}
	if err := s.lib.CreateScrapbook(sb); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = sb
	s.mu.Unlock()
	s.markClean(edits)

	s.log.Info().Str("id", sb.ID).Str("title", title).Msg("Created scrapbook")
	s.emit(EventScrapbookOpened, summary(sb))
	return sb, nil
}

// markClean records that the canvas at edit count edits matches the library.
// Edits made since keep the session dirty.
func (s *ScrapbookService) markClean(edits uint64) {
	s.cleanAt.Store(edits)
	if s.store.Edits() == edits {
		s.dirty.Store(false)
	}
}

func (s *ScrapbookService) fetch(id string) (*domain.Scrapbook, domain.Document, error) {
	sb, err := s.lib.GetScrapbook(id)
	if err != nil {
		return nil, domain.Document{}, err
	}
	var doc domain.Document
	if err := json.Unmarshal([]byte(sb.DocumentJSON), &doc); err != nil {
		return nil, domain.Document{}, fmt.Errorf("decode scrapbook %s: %w", id, err)
	}
	return sb, doc, nil
}

// Open loads a library scrapbook into the canvas.
func (s *ScrapbookService) Open(id string) (*domain.Scrapbook, error) {
	sb, doc, err := s.fetch(id)
	if err != nil {
		return nil, err
	}
	edits := s.store.Load(doc)
	s.opened(sb, edits)
	s.log.Info().Str("id", sb.ID).Int("pages", sb.PageCount).Msg("Opened scrapbook")
	return sb, nil
}

// ReloadIfClean reloads the open scrapbook id from the library unless the
// canvas changed since it was last opened or saved. The check and the load
// are one step in the store, so an edit racing with the reload is kept and
// the reload is refused instead.
func (s *ScrapbookService) ReloadIfClean(id string) (bool, error) {
	if cur, ok := s.Current(); !ok || cur.ID != id {
		return false, fmt.Errorf("reload %s: %w", id, ErrNoScrapbook)
	}
	if s.dirty.Load() {
		return false, nil
	}
	sb, doc, err := s.fetch(id)
	if err != nil {
		return false, err
	}
	edits, ok := s.store.LoadIfUnchanged(doc, s.cleanAt.Load())
	if !ok {
		return false, nil
	}
	s.opened(sb, edits)
	s.log.Info().Str("id", sb.ID).Msg("Reloaded scrapbook")
	return true, nil
}

func (s *ScrapbookService) opened(sb *domain.Scrapbook, edits uint64) {
	s.mu.Lock()
	s.current = sb
	s.mu.Unlock()
	s.cleanAt.Store(edits)
	s.dirty.Store(false)
	s.emit(EventScrapbookOpened, summary(sb))
}

// Save writes the canvas to the open scrapbook and records a revision.
func (s *ScrapbookService) Save(label string) (*domain.Scrapbook, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return nil, ErrNoScrapbook
	}
	sb := *s.current
	s.mu.Unlock()

	doc, edits := s.store.Snapshot()
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	sb.DocumentJSON = string(body)
	sb.PageCount = len(doc.Pages)
	sb.ItemCount = doc.ItemCount()
	if err := s.lib.UpdateScrapbook(&sb); err != nil {
		return nil, err
	}

	if label == "" {
		label = "Saved " + s.now().Format("Jan 2 15:04:05")
	}
	rev := &domain.Revision{
		ID:           newRevisionID(),
		ScrapbookID:  sb.ID,
		Label:        label,
		DocumentJSON: sb.DocumentJSON,
	}
	if err := s.lib.PushRevision(rev, storage.MaxRevisions); err != nil {
		s.log.Warn().Err(err).Str("id", sb.ID).Msg("Failed to record revision")
	}

	s.mu.Lock()
	still := s.current != nil && s.current.ID == sb.ID
	if still {
		s.current = &sb
	}
	s.mu.Unlock()
	if still {
		s.markClean(edits)
	}

	s.log.Debug().Str("id", sb.ID).Str("label", label).Msg("Saved scrapbook")
	s.emit(EventScrapbookSaved, summary(&sb))
	return &sb, nil
}

// SaveIfDirty saves only when the canvas changed. It reports whether a save
// happened.
func (s *ScrapbookService) SaveIfDirty(label string) (bool, error) {
	if !s.dirty.Load() {
		return false, nil
	}
	if _, err := s.Save(label); err != nil {
		return false, err
	}
	return true, nil
}

// Rename changes the open scrapbook's title.
func (s *ScrapbookService) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title must not be empty")
	}
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return ErrNoScrapbook
	}
	sb := *s.current
	s.mu.Unlock()

	full, err := s.lib.GetScrapbook(sb.ID)
	if err != nil {
		return err
	}
	full.Title = title
	if err := s.lib.UpdateScrapbook(full); err != nil {
		return err
	}
	s.mu.Lock()
	if s.current != nil && s.current.ID == sb.ID {
		s.current.Title = title
		s.current.UpdatedAt = full.UpdatedAt
	}
	s.mu.Unlock()
	return nil
}

// Delete removes a scrapbook from the library. Deleting the open scrapbook
// closes it and leaves a blank canvas.
func (s *ScrapbookService) Delete(id string) error {
	if err := s.lib.DeleteScrapbook(id); err != nil {
		return err
	}
	s.mu.Lock()
	wasOpen := s.current != nil && s.current.ID == id
	if wasOpen {
		s.current = nil
	}
	s.mu.Unlock()

	if wasOpen {
		s.cleanAt.Store(s.store.Load(domain.Document{}))
		s.dirty.Store(false)
		s.emit(EventScrapbookClosed, id)
	}
	s.log.Info().Str("id", id).Msg("Deleted scrapbook")
	return nil
}

// ── Revisions ──────────────────────────────────────────────

func (s *ScrapbookService) Revisions() ([]domain.Revision, error) {
	sb, ok := s.Current()
	if !ok {
		return nil, ErrNoScrapbook
	}
	return s.lib.ListRevisions(sb.ID)
}

// RestoreRevision loads a revision of the open scrapbook into the canvas. The
// restored state is unsaved until the next save.
func (s *ScrapbookService) RestoreRevision(id string) error {
	sb, ok := s.Current()
	if !ok {
		return ErrNoScrapbook
	}
	rev, err := s.lib.GetRevision(id)
	if err != nil {
		return err
	}
	if rev.ScrapbookID != sb.ID {
		return fmt.Errorf("revision %s belongs to another scrapbook: %w", id, storage.ErrNotFound)
	}
	var doc domain.Document
	if err := json.Unmarshal([]byte(rev.DocumentJSON), &doc); err != nil {
		return fmt.Errorf("decode revision %s: %w", id, err)
	}
	s.store.Load(doc)
	s.dirty.Store(true)
	return nil
}

// ── Import / export ────────────────────────────────────────

// ImportJSON reads an exported scrapbook and adds it to the library as a new
// entry, which becomes the open scrapbook. Unsaved edits are saved first; an
// unsaved draft becomes a library entry of its own. The import is abandoned
// when that save fails.
func (s *ScrapbookService) ImportJSON(r io.Reader) (*domain.Scrapbook, error) {
	f, err := export.ReadJSON(r)
	if err != nil {
		return nil, err
	}
	if err := s.keepEdits("Before import"); err != nil {
		return nil, fmt.Errorf("save before import: %w", err)
	}
	sb, err := s.replaceAndCreate(f.Title, export.Document(f))
	if err != nil {
		return nil, err
	}
	s.emit(EventImportCompleted, summary(sb))
	return sb, nil
}

// keepEdits stores unsaved canvas changes before the canvas is replaced.
func (s *ScrapbookService) keepEdits(label string) error {
	if !s.dirty.Load() {
		return nil
	}
	if _, ok := s.Current(); ok {
		_, err := s.Save(label)
		return err
	}
	_, err := s.SaveAs(export.DefaultTitle)
	return err
}

// ImportFile imports the JSON export at path.
func (s *ScrapbookService) ImportFile(path string) (*domain.Scrapbook, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import: %w", err)
	}
	defer fh.Close()
	sb, err := s.ImportJSON(fh)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", filepath.Base(path), err)
	}
	return sb, nil
}

func (s *ScrapbookService) title() string {
	if sb, ok := s.Current(); ok {
		return sb.Title
	}
	return export.DefaultTitle
}

// ExportJSON writes the canvas in the export layout.
func (s *ScrapbookService) ExportJSON(w io.Writer) error {
	if !s.jobs.TryLock(jobExportJSON) {
		return ErrExportRunning
	}
	defer s.jobs.Unlock(jobExportJSON)
	return export.WriteJSON(w, export.NewFile(s.title(), s.store.Serialize(), s.now()))
}

// ExportJSONFile writes the JSON export to path.
func (s *ScrapbookService) ExportJSONFile(path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := s.ExportJSON(fh); err != nil {
		fh.Close()
		os.Remove(path)
		return err
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	s.emit(EventExportCompleted, map[string]string{"format": "json", "path": path})
	return nil
}

// ExportPDF renders a snapshot of the canvas to path. Only one PDF export
// runs at a time.
func (s *ScrapbookService) ExportPDF(ctx context.Context, path string, opts export.PDFOptions) (export.Result, error) {
	if !s.jobs.TryLock(jobExportPDF) {
		return export.Result{}, ErrExportRunning
	}
	defer s.jobs.Unlock(jobExportPDF)

	if err := ctx.Err(); err != nil {
		return export.Result{}, err
	}
	if opts.Title == "" {
		opts.Title = s.title()
	}
	if opts.Extent == (domain.Extent{}) {
		opts.Extent = s.store.PageExtent()
	}
	if opts.Logger == nil {
		opts.Logger = &s.log
	}

	tmp := path + ".tmp"
	fh, err := os.Create(tmp)
	if err != nil {
		return export.Result{}, fmt.Errorf("create export: %w", err)
	}
	res, err := export.WritePDF(fh, s.store.Serialize(), opts)
	if cerr := fh.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close export: %w", cerr)
	}
	if err != nil {
		os.Remove(tmp)
		return res, err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return res, fmt.Errorf("finalize export: %w", err)
	}

	s.log.Info().Str("path", path).Int("pages", res.Pages).Int("skipped", len(res.Skipped)).Msg("Exported PDF")
	s.emit(EventExportCompleted, map[string]any{
		"format":  "pdf",
		"path":    path,
		"pages":   res.Pages,
		"skipped": skippedNumbers(res.Skipped),
	})
	return res, nil
}

// WaitRunning blocks until in-flight exports and saves finish or ctx is
// cancelled. Used for graceful shutdown.
func (s *ScrapbookService) WaitRunning(ctx context.Context) {
	s.jobs.WaitAll(ctx)
}

// Close stops the canvas flip timer.
func (s *ScrapbookService) Close() {
	s.store.Close()
}

func skippedNumbers(skipped []export.SkippedPage) []int {
	out := make([]int, len(skipped))
	for i, p := range skipped {
		out[i] = p.Number
	}
	return out
}

func summary(sb *domain.Scrapbook) domain.Scrapbook {
	c := *sb
	c.DocumentJSON = ""
	return c
}

// newRevisionID returns a time-ordered id so revisions saved within the same
// clock tick still sort by creation.
func newRevisionID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
