package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Autosaver saves the open scrapbook on a cron schedule whenever it has
// unsaved changes.
type Autosaver struct {
	svc     *ScrapbookService
	emitter EventEmitter
	log     zerolog.Logger

	cronSched *cron.Cron
}

func NewAutosaver(svc *ScrapbookService, emitter EventEmitter, log zerolog.Logger) *Autosaver {
	return &Autosaver{svc: svc, emitter: emitter, log: log.With().Str("component", "autosave").Logger()}
}

// Start schedules the save job. schedule is a cron spec such as
// "@every 30s".
func (a *Autosaver) Start(ctx context.Context, schedule string) error {
	a.Stop()
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { a.Run(ctx) }); err != nil {
		return fmt.Errorf("autosave schedule %q: %w", schedule, err)
	}
	c.Start()
	a.cronSched = c
	a.log.Info().Str("schedule", schedule).Msg("Autosave scheduled")
	return nil
}

// Run performs one autosave pass. Overlapping runs are skipped.
func (a *Autosaver) Run(ctx context.Context) {
	if !a.svc.jobs.TryLock(jobAutosave) {
		a.log.Debug().Msg("Previous autosave still running")
		return
	}
	defer a.svc.jobs.Unlock(jobAutosave)

	saved, err := a.svc.SaveIfDirty("Autosave")
	switch {
	case errors.Is(err, ErrNoScrapbook):
		// Nothing open yet; changes stay in memory until the user saves.
	case err != nil:
		a.log.Error().Err(err).Msg("Autosave failed")
		a.emitter.Emit(ctx, EventAutosaveFailed, err.Error())
	case saved:
		a.log.Debug().Msg("Autosaved")
	}
}

// Stop halts the schedule and waits for a running pass to finish.
func (a *Autosaver) Stop() {
	if a.cronSched != nil {
		<-a.cronSched.Stop().Done()
		a.cronSched = nil
	}
}
