package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coffeemachine/internal/models"
	"coffeemachine/internal/service"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockMachine struct {
	powerErr  error
	selectErr error
	brewErr   error
	cancelErr error
	maintErr  error

	powerCalls  int
	brewCalls   int
	cancelCalls int
	lastDrink   models.Drink
	maintCalls  map[string]int
}

func (m *mockMachine) maint(name string) error {
	if m.maintCalls == nil {
		m.maintCalls = map[string]int{}
	}
	m.maintCalls[name]++
	return m.maintErr
}

func (m *mockMachine) PowerToggle(ctx context.Context) error {
	m.powerCalls++
	return m.powerErr
}
func (m *mockMachine) SelectDrink(ctx context.Context, d models.Drink) error {
	m.lastDrink = d
	return m.selectErr
}
func (m *mockMachine) Brew(ctx context.Context) error {
	m.brewCalls++
	return m.brewErr
}
func (m *mockMachine) Cancel(ctx context.Context) error {
	m.cancelCalls++
	return m.cancelErr
}
func (m *mockMachine) PlaceCup(ctx context.Context) error    { return m.maint("place_cup") }
func (m *mockMachine) RemoveCup(ctx context.Context) error   { return m.maint("remove_cup") }
func (m *mockMachine) RefillWater(ctx context.Context) error { return m.maint("refill_water") }
func (m *mockMachine) RefillBeans(ctx context.Context) error { return m.maint("refill_beans") }
func (m *mockMachine) EmptyWaste(ctx context.Context) error  { return m.maint("empty_waste") }
func (m *mockMachine) ClearError(ctx context.Context) error  { return m.maint("clear_error") }

type mockMonitoring struct {
	status      models.Status
	statusErr   error
	telemetry   models.Status
	telemetryAt time.Time
	telemetryEr error
}

func (m *mockMonitoring) Status(ctx context.Context) (models.Status, error) {
	return m.status, m.statusErr
}
func (m *mockMonitoring) Telemetry(ctx context.Context) (models.Status, time.Time, error) {
	return m.telemetry, m.telemetryAt, m.telemetryEr
}

type mockFaultLog struct {
	faults    []models.FaultRecord
	faultsErr error
	clearErr  error
	events    []models.MachineEvent
	eventsErr error

	clearCalls int
	lastFilter service.LogFilter
}

func (m *mockFaultLog) Faults(ctx context.Context) ([]models.FaultRecord, error) {
	return m.faults, m.faultsErr
}
func (m *mockFaultLog) ClearFaults(ctx context.Context) error {
	m.clearCalls++
	return m.clearErr
}
func (m *mockFaultLog) Events(ctx context.Context, f service.LogFilter) ([]models.MachineEvent, error) {
	m.lastFilter = f
	return m.events, m.eventsErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
