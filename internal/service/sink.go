package service

import (
	"context"

	"coffeemachine/internal/logger"
	"coffeemachine/internal/machine"
	"coffeemachine/internal/models"
	"coffeemachine/internal/repository"
)

// JournalSink decorates a fault sink so every alert also lands in the
// persistent journal as a FAULT row. Journal failures never block the
// alert itself.
type JournalSink struct {
	inner  machine.FaultSink
	events repository.EventRepo
	log    *logger.Logger
}

func NewJournalSink(inner machine.FaultSink, events repository.EventRepo, log *logger.Logger) *JournalSink {
	return &JournalSink{inner: inner, events: events, log: log}
}

var _ machine.FaultSink = (*JournalSink)(nil)

func (s *JournalSink) Receive(message string) {
	s.inner.Receive(message)
	if s.events == nil {
		return
	}
	err := s.events.Append(context.Background(), models.MachineEvent{
		Type:        models.EventFault,
		Description: message,
	})
	if err != nil && s.log != nil {
		s.log.Warnw("fault_journal_failed", "err", err, "message", message)
	}
}

func (s *JournalSink) Snapshot() []models.FaultRecord { return s.inner.Snapshot() }

func (s *JournalSink) Clear() { s.inner.Clear() }
