package service

import (
	"context"
	"time"

	"coffeemachine/internal/logger"
	"coffeemachine/internal/models"
	"coffeemachine/internal/repository"
)

// DriverService is the real-time driving loop: it advances the controller
// by the tick's seconds, journals finished brews, and persists a telemetry
// snapshot. The same controller logic runs under a test clock by calling
// Advance directly.
type DriverService struct {
	p         *plant
	snapshots repository.SnapshotRepo
	events    repository.EventRepo
	log       *logger.Logger
}

func NewDriverService(p *plant, snapshots repository.SnapshotRepo, events repository.EventRepo, log *logger.Logger) *DriverService {
	return &DriverService{p: p, snapshots: snapshots, events: events, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (s *DriverService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.step(ctx, tick.Seconds())
		}
	}
}

// step advances the machine once and records the observable aftermath.
func (s *DriverService) step(ctx context.Context, delta float64) {
	s.p.mu.Lock()
	busyBefore := s.p.ctrl.State() == models.StateBusy
	s.p.ctrl.Advance(delta)
	st := s.p.ctrl.Status()
	outcome := s.p.ctrl.LastOutcome()
	s.p.mu.Unlock()

	if busyBefore && st.State != models.StateBusy && outcome != nil {
		s.journalOutcome(ctx, *outcome)
	}

	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, st); err != nil && s.log != nil {
			s.log.Warnw("snapshot_save_failed", "err", err)
		}
	}
}

func (s *DriverService) journalOutcome(ctx context.Context, out models.BrewOutcome) {
	if s.events == nil {
		return
	}
	typ := models.EventBrewDone
	desc := "brew finished"
	switch out.Result {
	case models.BrewCancelled:
		typ = models.EventCancelled
		desc = "brew cancelled"
	case models.BrewFailed:
		desc = "brew failed: " + out.Reason
	}
	err := s.events.Append(ctx, models.MachineEvent{
		Type:        typ,
		Description: desc,
		Metadata:    map[string]any{"result": out.Result, "reason": out.Reason},
	})
	if err != nil && s.log != nil {
		s.log.Warnw("journal_append_failed", "err", err, "type", typ)
	}
}
