package service

import (
	"context"

	"coffeemachine/internal/logger"
	"coffeemachine/internal/models"
	"coffeemachine/internal/repository"
)

// MachineService serializes commands into the controller and journals the
// accepted ones.
type MachineService struct {
	p      *plant
	events repository.EventRepo
	log    *logger.Logger
}

func NewMachineService(p *plant, events repository.EventRepo, log *logger.Logger) *MachineService {
	return &MachineService{p: p, events: events, log: log}
}

// journal appends a best-effort journal row; the command result never
// depends on it.
func (s *MachineService) journal(ctx context.Context, typ, desc string, meta any) {
	if s.events == nil {
		return
	}
	err := s.events.Append(ctx, models.MachineEvent{
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil && s.log != nil {
		s.log.Warnw("journal_append_failed", "err", err, "type", typ)
	}
}

func (s *MachineService) PowerToggle(ctx context.Context) error {
	s.p.mu.Lock()
	before := s.p.ctrl.State()
	err := s.p.ctrl.PowerToggle()
	s.p.mu.Unlock()
	if err != nil {
		return err
	}
	if before == models.StateOff {
		s.journal(ctx, models.EventPowerOn, "machine powered on, warming up", nil)
	} else {
		s.journal(ctx, models.EventPowerOff, "machine powered off", nil)
	}
	return nil
}

func (s *MachineService) SelectDrink(ctx context.Context, d models.Drink) error {
	s.p.mu.Lock()
	err := s.p.ctrl.SelectDrink(d)
	s.p.mu.Unlock()
	if err != nil {
		return err
	}
	s.journal(ctx, models.EventSelect, "drink selected", map[string]any{"drink": d})
	return nil
}

func (s *MachineService) Brew(ctx context.Context) error {
	s.p.mu.Lock()
	selection := s.p.ctrl.Status().Selection
	err := s.p.ctrl.Brew()
	s.p.mu.Unlock()
	if err != nil {
		return err
	}
	s.journal(ctx, models.EventBrewStarted, "brew started", map[string]any{"drink": selection})
	return nil
}

func (s *MachineService) Cancel(ctx context.Context) error {
	s.p.mu.Lock()
	s.p.ctrl.Cancel()
	s.p.mu.Unlock()
	s.journal(ctx, models.EventCancelled, "cancellation requested", nil)
	return nil
}

func (s *MachineService) PlaceCup(ctx context.Context) error {
	s.p.mu.Lock()
	s.p.ctrl.PlaceCup()
	s.p.mu.Unlock()
	return nil
}

func (s *MachineService) RemoveCup(ctx context.Context) error {
	s.p.mu.Lock()
	s.p.ctrl.RemoveCup()
	s.p.mu.Unlock()
	return nil
}

func (s *MachineService) RefillWater(ctx context.Context) error {
	s.p.mu.Lock()
	s.p.ctrl.RefillWater()
	s.p.mu.Unlock()
	s.journal(ctx, models.EventMaintenance, "water refilled", map[string]any{"op": "refill_water"})
	return nil
}

func (s *MachineService) RefillBeans(ctx context.Context) error {
	s.p.mu.Lock()
	s.p.ctrl.RefillBeans()
	s.p.mu.Unlock()
	s.journal(ctx, models.EventMaintenance, "beans refilled", map[string]any{"op": "refill_beans"})
	return nil
}

func (s *MachineService) EmptyWaste(ctx context.Context) error {
	s.p.mu.Lock()
	s.p.ctrl.EmptyWaste()
	s.p.mu.Unlock()
	s.journal(ctx, models.EventMaintenance, "waste container emptied", map[string]any{"op": "empty_waste"})
	return nil
}

func (s *MachineService) ClearError(ctx context.Context) error {
	s.p.mu.Lock()
	err := s.p.ctrl.ClearError()
	s.p.mu.Unlock()
	if err != nil {
		return err
	}
	s.journal(ctx, models.EventMaintenance, "error cleared", map[string]any{"op": "clear_error"})
	return nil
}
