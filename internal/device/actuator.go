package device

import "errors"

// ActuatorState is the on/off/degraded state of a device.
type ActuatorState string

const (
	ActuatorOff   ActuatorState = "OFF"
	ActuatorOn    ActuatorState = "ON"
	ActuatorError ActuatorState = "ERROR"
)

// ErrOverheat is raised by the heater instead of pushing the temperature
// past the safety ceiling; the controller decides what to do with it.
var ErrOverheat = errors.New("overheat")

// Actuator is an on/off device. Once in ActuatorError it stays off until
// explicitly cleared; TurnOn fails and TurnOff is a no-op in that state.
type Actuator struct {
	name  string
	state ActuatorState
}

func NewGrinder() *Actuator { return &Actuator{name: "grinder"} }

func NewFrother() *Actuator { return &Actuator{name: "frother"} }

func newActuator(name string) *Actuator { return &Actuator{name: name} }

func (a *Actuator) Name() string { return a.name }

func (a *Actuator) State() ActuatorState {
	if a.state == "" {
		return ActuatorOff
	}
	return a.state
}

func (a *Actuator) On() bool { return a.state == ActuatorOn }

// TurnOn activates the device. Returns false iff the device is degraded.
func (a *Actuator) TurnOn() bool {
	if a.state == ActuatorError {
		return false
	}
	a.state = ActuatorOn
	return true
}

// TurnOff is idempotent and leaves a degraded device untouched.
func (a *Actuator) TurnOff() {
	if a.state == ActuatorError {
		return
	}
	a.state = ActuatorOff
}

// MarkError degrades the device, forcing it off.
func (a *Actuator) MarkError() { a.state = ActuatorError }

// ClearError resets a degraded device to off.
func (a *Actuator) ClearError() {
	if a.state == ActuatorError {
		a.state = ActuatorOff
	}
}

// Pump delivers water at a configured pressure.
type Pump struct {
	Actuator
	pressureBar float64
}

const defaultPumpBar = 9.0

func NewPump() *Pump {
	return &Pump{Actuator: *newActuator("pump"), pressureBar: defaultPumpBar}
}

func (p *Pump) PressureBar() float64 { return p.pressureBar }

func (p *Pump) SetPressure(bar float64) { p.pressureBar = bar }

// Heater is the only actuator bound to a sensor: it reads its temperature
// sensor to decide whether heating is still needed and never pushes the
// reading past the safety ceiling.
type Heater struct {
	Actuator
	sensor *TemperatureSensor
	stepC  float64
}

func NewHeater(sensor *TemperatureSensor, stepC float64) *Heater {
	if stepC <= 0 {
		stepC = 10
	}
	return &Heater{Actuator: *newActuator("heater"), sensor: sensor, stepC: stepC}
}

// Heat applies one heating increment toward the brewing target. The
// actuator is energized only for the duration of the increment. Returns
// ErrOverheat instead of heating when the sensor is past the ceiling.
func (h *Heater) Heat() error {
	if h.sensor.Overheated() {
		return ErrOverheat
	}
	if !h.TurnOn() {
		return errors.New("heater degraded")
	}
	defer h.TurnOff()

	cur := h.sensor.Value()
	if cur < TargetTempC {
		next := cur + h.stepC
		if next > TargetTempC {
			next = TargetTempC
		}
		h.sensor.SetValue(next)
	}
	return nil
}

// Ready reports whether the bound sensor is inside the brewing band.
func (h *Heater) Ready() bool { return h.sensor.Ready() }
