package models

// MachineState is the top-level controller state. Exactly one value holds
// at any instant; transitions are validated by the controller's state machine.
type MachineState string

const (
	StateOff     MachineState = "OFF"
	StateWarming MachineState = "WARMING"
	StateReady   MachineState = "READY"
	StateBusy    MachineState = "BUSY"
	StateError   MachineState = "ERROR"
)

// BrewPhase is the fine-grained phase within StateBusy. PhaseNone outside it.
type BrewPhase string

const (
	PhaseNone       BrewPhase = ""
	PhaseWaitingCup BrewPhase = "WAITING_CUP"
	PhaseGrinding   BrewPhase = "GRINDING"
	PhaseHeating    BrewPhase = "HEATING"
	PhaseBrewing    BrewPhase = "BREWING"
	PhaseFrothing   BrewPhase = "FROTHING"
	PhaseDone       BrewPhase = "DONE"
)

// Drink identifies a selectable beverage.
type Drink string

const (
	DrinkNone       Drink = ""
	DrinkEspresso   Drink = "ESPRESSO"
	DrinkAmericano  Drink = "AMERICANO"
	DrinkCappuccino Drink = "CAPPUCCINO"
	DrinkLatte      Drink = "LATTE"
	DrinkHotWater   Drink = "HOT_WATER"
)

// BrewResult classifies how a brew attempt ended.
type BrewResult string

const (
	BrewSuccess   BrewResult = "SUCCESS"
	BrewCancelled BrewResult = "CANCELLED"
	BrewFailed    BrewResult = "FAILED"
)

// BrewOutcome is produced once per brew attempt.
type BrewOutcome struct {
	Result BrewResult `json:"result"`
	Reason string     `json:"reason,omitempty"` // set when Result == BrewFailed
}

// Status is the full read-only snapshot of the machine.
type Status struct {
	State        MachineState `json:"state"`
	Phase        BrewPhase    `json:"phase,omitempty"`
	Selection    Drink        `json:"selection,omitempty"`
	Progress     int          `json:"progress"`       // 0..100 within the active sequence
	WaterLevel   float64      `json:"water_level"`    // %
	BeansLevel   float64      `json:"beans_level"`    // %
	WasteLevel   float64      `json:"waste_level"`    // %
	TemperatureC float64      `json:"temperature_c"`  // °C
	CupPresent   bool         `json:"cup_present"`
	PumpBar      float64      `json:"pump_bar"`       // configured pump pressure
}
