package service

import (
	"context"
	"sync"
	"time"

	"coffeemachine/internal/logger"
	"coffeemachine/internal/machine"
	"coffeemachine/internal/models"
	"coffeemachine/internal/repository"
)

// Machine exposes the appliance command surface. Commands are validated
// against the current machine state; illegal commands are rejected with
// the controller's sentinel errors and change nothing.
type Machine interface {
	PowerToggle(ctx context.Context) error
	SelectDrink(ctx context.Context, d models.Drink) error
	Brew(ctx context.Context) error
	Cancel(ctx context.Context) error
	PlaceCup(ctx context.Context) error
	RemoveCup(ctx context.Context) error
	RefillWater(ctx context.Context) error
	RefillBeans(ctx context.Context) error
	EmptyWaste(ctx context.Context) error
	ClearError(ctx context.Context) error
}

// Monitoring exposes read-only machine state.
type Monitoring interface {
	Status(ctx context.Context) (models.Status, error)
	Telemetry(ctx context.Context) (models.Status, time.Time, error)
}

// FaultLog exposes the fault sink and the persistent journal.
type FaultLog interface {
	Faults(ctx context.Context) ([]models.FaultRecord, error)
	ClearFaults(ctx context.Context) error
	Events(ctx context.Context, f LogFilter) ([]models.MachineEvent, error)
}

// Driver runs the real-time loop that advances the controller.
// Stop via context cancellation in main() for graceful shutdown.
type Driver interface {
	Run(ctx context.Context, tick time.Duration)
}

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// LogFilter supports journal filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", or one of the models.Event* journal types
}

// plant is the single exclusive-access path to the controller. The core
// is single-threaded by contract; everything that touches it goes through
// this mutex.
type plant struct {
	mu   sync.Mutex
	ctrl *machine.Controller
}

// Service aggregates all sub-services.
type Service struct {
	Machine
	Monitoring
	FaultLog
	Driver
	Authorization
}

// AuthConfig carries token settings (the signing key lives in config, not
// in source).
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// NewService wires the controller and repository layer into concrete
// services sharing one exclusive-access path.
func NewService(
	ctrl *machine.Controller,
	sink machine.FaultSink,
	repos *repository.Repository,
	log *logger.Logger,
	auth AuthConfig,
) *Service {
	p := &plant{ctrl: ctrl}
	return &Service{
		Machine:       NewMachineService(p, repos.Events, log),
		Monitoring:    NewMonitoringService(p, repos.Snapshots),
		FaultLog:      NewFaultLogService(sink, repos.Events),
		Driver:        NewDriverService(p, repos.Snapshots, repos.Events, log),
		Authorization: NewAuthService(repos.Auth, auth),
	}
}
