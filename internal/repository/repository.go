package repository

import (
	"context"
	"database/sql"
	"time"

	"coffeemachine/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// EventRepo is the append-only machine journal.
type EventRepo interface {
	Append(ctx context.Context, e models.MachineEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.MachineEvent, error)
	DeleteByType(ctx context.Context, typ string) error
}

// SnapshotRepo stores the latest telemetry snapshot. Write-only from the
// machine's point of view: the controller never reads it back on start.
type SnapshotRepo interface {
	Save(ctx context.Context, s models.Status) error
	Load(ctx context.Context) (models.Status, time.Time, error)
}

type Repository struct {
	Events    EventRepo
	Snapshots SnapshotRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Events:    NewEventSQLite(db),
		Snapshots: NewSnapshotSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
