package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"coffeemachine/internal/machine"
	"coffeemachine/internal/models"
	"coffeemachine/internal/service"
)

func doRequest(r http.Handler, method, path string, body []byte, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func readyStatus() models.Status {
	return models.Status{
		State:        models.StateReady,
		WaterLevel:   100,
		BeansLevel:   100,
		TemperatureC: 93,
		PumpBar:      9,
	}
}

func TestMachineHandlers_CommandFlow(t *testing.T) {
	auth := &mockAuth{parseID: 7}
	mon := &mockMonitoring{status: readyStatus()}
	mm := &mockMachine{}
	s := &service.Service{
		Authorization: auth,
		Monitoring:    mon,
		Machine:       mm,
	}
	r := newTestRouter(s)

	// Status requires auth -> 401 without header.
	w := doRequest(r, http.MethodGet, "/api/v1/machine/status", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", w.Code)
	}

	// With auth -> 200 and the status body.
	w = doRequest(r, http.MethodGet, "/api/v1/machine/status", nil, "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("status code=%d, body=%s", w.Code, w.Body.String())
	}
	var st models.Status
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if st.State != models.StateReady || st.TemperatureC != 93 {
		t.Fatalf("unexpected status: %+v", st)
	}

	// POST /power -> 200, toggles and returns the machine snapshot.
	w = doRequest(r, http.MethodPost, "/api/v1/machine/power", nil, "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("power code=%d, body=%s", w.Code, w.Body.String())
	}
	if mm.powerCalls != 1 {
		t.Fatalf("PowerToggle calls=%d, want 1", mm.powerCalls)
	}
	var resp struct {
		Status  string        `json:"status"`
		Machine models.Status `json:"machine"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != statusToggled {
		t.Fatalf("status=%q, want %q", resp.Status, statusToggled)
	}
	if resp.Machine.State != models.StateReady {
		t.Fatalf("machine snapshot missing: %+v", resp.Machine)
	}

	// POST /select -> 200, passes the normalized drink.
	body := []byte(`{"drink":"espresso"}`)
	w = doRequest(r, http.MethodPost, "/api/v1/machine/select", body, "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("select code=%d, body=%s", w.Code, w.Body.String())
	}
	if mm.lastDrink != models.DrinkEspresso {
		t.Fatalf("drink=%s, want ESPRESSO", mm.lastDrink)
	}

	// POST /brew and /cancel -> 200.
	w = doRequest(r, http.MethodPost, "/api/v1/machine/brew", nil, "valid")
	if w.Code != http.StatusOK || mm.brewCalls != 1 {
		t.Fatalf("brew code=%d calls=%d", w.Code, mm.brewCalls)
	}
	w = doRequest(r, http.MethodPost, "/api/v1/machine/cancel", nil, "valid")
	if w.Code != http.StatusOK || mm.cancelCalls != 1 {
		t.Fatalf("cancel code=%d calls=%d", w.Code, mm.cancelCalls)
	}
}

func TestMachineHandlers_SelectBadBody(t *testing.T) {
	s := &service.Service{
		Authorization: &mockAuth{parseID: 1},
		Monitoring:    &mockMonitoring{},
		Machine:       &mockMachine{},
	}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodPost, "/api/v1/machine/select", []byte(`{}`), "valid")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code=%d, want 400", w.Code)
	}
}

func TestMachineHandlers_RejectionsMapTo409(t *testing.T) {
	cases := []struct {
		name string
		mm   *mockMachine
		path string
	}{
		{"brew_not_ready", &mockMachine{brewErr: machine.ErrNotReady}, "/api/v1/machine/brew"},
		{"brew_no_selection", &mockMachine{brewErr: machine.ErrNoSelection}, "/api/v1/machine/brew"},
		{"brew_low_water", &mockMachine{brewErr: machine.ErrLowWater}, "/api/v1/machine/brew"},
		{"brew_waste_full", &mockMachine{brewErr: machine.ErrWasteFull}, "/api/v1/machine/brew"},
		{"clear_not_in_error", &mockMachine{maintErr: machine.ErrNotInError}, "/api/v1/machine/error/clear"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &service.Service{
				Authorization: &mockAuth{parseID: 1},
				Monitoring:    &mockMonitoring{},
				Machine:       tc.mm,
			}
			r := newTestRouter(s)

			w := doRequest(r, http.MethodPost, tc.path, nil, "valid")
			if w.Code != http.StatusConflict {
				t.Fatalf("code=%d, want 409; body=%s", w.Code, w.Body.String())
			}
		})
	}
}

func TestMachineHandlers_MaintenanceEndpoints(t *testing.T) {
	mm := &mockMachine{}
	s := &service.Service{
		Authorization: &mockAuth{parseID: 1},
		Monitoring:    &mockMonitoring{status: readyStatus()},
		Machine:       mm,
	}
	r := newTestRouter(s)

	paths := map[string]string{
		"/api/v1/machine/cup/place":    "place_cup",
		"/api/v1/machine/cup/remove":   "remove_cup",
		"/api/v1/machine/refill/water": "refill_water",
		"/api/v1/machine/refill/beans": "refill_beans",
		"/api/v1/machine/waste/empty":  "empty_waste",
		"/api/v1/machine/error/clear":  "clear_error",
	}
	for path, op := range paths {
		w := doRequest(r, http.MethodPost, path, nil, "valid")
		if w.Code != http.StatusOK {
			t.Fatalf("%s code=%d, body=%s", path, w.Code, w.Body.String())
		}
		if mm.maintCalls[op] != 1 {
			t.Fatalf("%s: calls[%s]=%d, want 1", path, op, mm.maintCalls[op])
		}
	}
}

func TestMachineHandlers_Telemetry(t *testing.T) {
	mon := &mockMonitoring{telemetry: models.Status{State: models.StateOff, WaterLevel: 40}}
	s := &service.Service{
		Authorization: &mockAuth{parseID: 1},
		Monitoring:    mon,
	}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodGet, "/api/v1/machine/telemetry", nil, "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d, body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Machine models.Status `json:"machine"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Machine.WaterLevel != 40 {
		t.Fatalf("telemetry=%+v", resp.Machine)
	}
}

func TestHealth_NoAuthNeeded(t *testing.T) {
	s := &service.Service{Authorization: &mockAuth{}}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodGet, "/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("health code=%d", w.Code)
	}
}
