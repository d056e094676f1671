package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coffeemachine/internal/models"
)

type SnapshotSQLite struct {
	db *sql.DB
}

func NewSnapshotSQLite(db *sql.DB) *SnapshotSQLite { return &SnapshotSQLite{db: db} }

const (
	snapshotRowID = 1

	upsertSnapshotSQL = `
		INSERT INTO machine_snapshot (id, state, phase, selection, progress,
			water_pct, beans_pct, waste_pct, temp_c, cup_present, pump_bar, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state=excluded.state,
			phase=excluded.phase,
			selection=excluded.selection,
			progress=excluded.progress,
			water_pct=excluded.water_pct,
			beans_pct=excluded.beans_pct,
			waste_pct=excluded.waste_pct,
			temp_c=excluded.temp_c,
			cup_present=excluded.cup_present,
			pump_bar=excluded.pump_bar,
			updated_at=excluded.updated_at
	`

	selectSnapshotSQL = `
		SELECT state, phase, selection, progress, water_pct, beans_pct,
			waste_pct, temp_c, cup_present, pump_bar, updated_at
		FROM machine_snapshot WHERE id=?
	`
)

// Save upserts the single telemetry row (id always 1).
func (r *SnapshotSQLite) Save(ctx context.Context, s models.Status) error {
	_, err := r.db.ExecContext(ctx, upsertSnapshotSQL,
		snapshotRowID,
		string(s.State),
		string(s.Phase),
		string(s.Selection),
		s.Progress,
		s.WaterLevel,
		s.BeansLevel,
		s.WasteLevel,
		s.TemperatureC,
		s.CupPresent,
		s.PumpBar,
		time.Now().UTC(),
	)
	return err
}

// Load fetches the telemetry row and its timestamp. A missing row is not
// an error; it returns a zero status.
func (r *SnapshotSQLite) Load(ctx context.Context) (models.Status, time.Time, error) {
	row := r.db.QueryRowContext(ctx, selectSnapshotSQL, snapshotRowID)

	var (
		s                       models.Status
		state, phase, selection string
		updatedAt               time.Time
	)
	if err := row.Scan(
		&state,
		&phase,
		&selection,
		&s.Progress,
		&s.WaterLevel,
		&s.BeansLevel,
		&s.WasteLevel,
		&s.TemperatureC,
		&s.CupPresent,
		&s.PumpBar,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Status{}, time.Time{}, nil
		}
		return models.Status{}, time.Time{}, err
	}
	s.State = models.MachineState(state)
	s.Phase = models.BrewPhase(phase)
	s.Selection = models.Drink(selection)
	return s, updatedAt.UTC(), nil
}
