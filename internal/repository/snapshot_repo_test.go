package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"coffeemachine/internal/models"
)

func TestSnapshotSave_UpsertsSingleRow(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewSnapshotSQLite(db)

	st := models.Status{
		State:        models.StateReady,
		Phase:        models.PhaseNone,
		Selection:    models.DrinkNone,
		Progress:     0,
		WaterLevel:   70,
		BeansLevel:   95,
		WasteLevel:   5,
		TemperatureC: 93,
		CupPresent:   true,
		PumpBar:      9,
	}

	mock.ExpectExec("INSERT INTO machine_snapshot").
		WithArgs(1, "READY", "", "", 0,
			70.0, 95.0, 5.0, 93.0, true, 9.0,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Save(ctx(t), st); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestSnapshotLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewSnapshotSQLite(db)

	updatedAt := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"state", "phase", "selection", "progress", "water_pct", "beans_pct",
		"waste_pct", "temp_c", "cup_present", "pump_bar", "updated_at",
	}).AddRow("BUSY", "BREWING", "ESPRESSO", 70, 70.0, 95.0, 5.0, 93.0, true, 9.0, updatedAt)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT state, phase, selection, progress, water_pct, beans_pct,`)).
		WithArgs(1).
		WillReturnRows(rows)

	st, at, err := repo.Load(ctx(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.State != models.StateBusy || st.Phase != models.PhaseBrewing || st.Selection != models.DrinkEspresso {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.Progress != 70 || st.WaterLevel != 70 || !st.CupPresent {
		t.Fatalf("unexpected status fields: %+v", st)
	}
	if !at.Equal(updatedAt) {
		t.Fatalf("updated_at=%v, want %v", at, updatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestSnapshotLoad_MissingRowIsZero(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewSnapshotSQLite(db)

	mock.ExpectQuery("SELECT state, phase, selection").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{
			"state", "phase", "selection", "progress", "water_pct", "beans_pct",
			"waste_pct", "temp_c", "cup_present", "pump_bar", "updated_at",
		}))

	st, at, err := repo.Load(ctx(t))
	if err != nil {
		t.Fatalf("Load on empty table: %v", err)
	}
	if st.State != "" || !at.IsZero() {
		t.Fatalf("expected zero status, got %+v at %v", st, at)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestSnapshotSave_DBError(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewSnapshotSQLite(db)

	mock.ExpectExec("INSERT INTO machine_snapshot").
		WillReturnError(errors.New("locked"))

	if err := repo.Save(ctx(t), models.Status{State: models.StateOff}); err == nil {
		t.Fatal("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
