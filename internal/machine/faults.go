package machine

import (
	"sync"
	"time"

	"coffeemachine/internal/models"
)

// FaultSink accepts textual alerts from the controller. Records are
// append-only; Clear is a maintenance operation, never used mid-brew.
type FaultSink interface {
	Receive(message string)
	Snapshot() []models.FaultRecord
	Clear()
}

// MemorySink is the in-process fault sink. Writes are serialized by the
// controller being single-threaded, but the sink carries its own lock so
// snapshots stay safe under concurrent readers.
type MemorySink struct {
	mu      sync.Mutex
	records []models.FaultRecord
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Receive(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, models.FaultRecord{
		OccurredAt: time.Now().UTC(),
		Message:    message,
	})
}

// Snapshot returns a copy of the records in arrival order.
func (s *MemorySink) Snapshot() []models.FaultRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FaultRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *MemorySink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}
