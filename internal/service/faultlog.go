package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"coffeemachine/internal/machine"
	"coffeemachine/internal/models"
	"coffeemachine/internal/repository"
)

type FaultLogService struct {
	sink   machine.FaultSink
	events repository.EventRepo
}

func NewFaultLogService(sink machine.FaultSink, events repository.EventRepo) *FaultLogService {
	return &FaultLogService{sink: sink, events: events}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// Faults returns the sink's records in arrival order.
func (s *FaultLogService) Faults(ctx context.Context) ([]models.FaultRecord, error) {
	return s.sink.Snapshot(), nil
}

// ClearFaults empties the sink and drops the journaled FAULT rows. A
// service/maintenance operation, never used mid-brew.
func (s *FaultLogService) ClearFaults(ctx context.Context) error {
	s.sink.Clear()
	if s.events == nil {
		return nil
	}
	return s.events.DeleteByType(ctx, models.EventFault)
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	eventType := strings.TrimSpace(strings.ToUpper(f.Type))
	return from, to, eventType, nil
}

func (s *FaultLogService) Events(ctx context.Context, f LogFilter) ([]models.MachineEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.events.List(ctx, from, to, typ)
}
