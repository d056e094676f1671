package service

import (
	"context"
	"time"

	"coffeemachine/internal/models"
	"coffeemachine/internal/repository"
)

type MonitoringService struct {
	p         *plant
	snapshots repository.SnapshotRepo
}

func NewMonitoringService(p *plant, snapshots repository.SnapshotRepo) *MonitoringService {
	return &MonitoringService{p: p, snapshots: snapshots}
}

// Status reads the live machine snapshot. Pure read, no side effects.
func (s *MonitoringService) Status(ctx context.Context) (models.Status, error) {
	s.p.mu.Lock()
	st := s.p.ctrl.Status()
	s.p.mu.Unlock()
	return st, nil
}

// Telemetry returns the last persisted snapshot and when it was written.
func (s *MonitoringService) Telemetry(ctx context.Context) (models.Status, time.Time, error) {
	if s.snapshots == nil {
		return models.Status{}, time.Time{}, nil
	}
	return s.snapshots.Load(ctx)
}
