package machine

import (
	"errors"
	"io"
	"log/slog"

	"github.com/robbyt/go-fsm"

	"coffeemachine/internal/device"
	"coffeemachine/internal/models"
)

// Rejections for commands that are illegal in the current state. They are
// reported locally and cause no state transition.
var (
	ErrNotReady     = errors.New("machine is not ready")
	ErrNoSelection  = errors.New("no drink selected")
	ErrUnknownDrink = errors.New("unknown drink")
	ErrNotInError   = errors.New("machine is not in error state")
)

// Config tunes the controller's sequencing behavior. Zero values fall back
// to the defaults below.
type Config struct {
	WarmupSteps      int     // heating increments applied during warm-up
	CupWaitSeconds   float64 // bounded cup wait before the step gives up
	HeatStepC        float64 // °C added per heating increment
	HeatTimeoutTicks int     // max heating increments during a brew step
}

// DefaultConfig matches the physical tuning of the reference appliance.
func DefaultConfig() Config {
	return Config{
		WarmupSteps:      7,
		CupWaitSeconds:   10,
		HeatStepC:        10,
		HeatTimeoutTicks: 30,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WarmupSteps <= 0 {
		c.WarmupSteps = d.WarmupSteps
	}
	if c.CupWaitSeconds <= 0 {
		c.CupWaitSeconds = d.CupWaitSeconds
	}
	if c.HeatStepC <= 0 {
		c.HeatStepC = d.HeatStepC
	}
	if c.HeatTimeoutTicks <= 0 {
		c.HeatTimeoutTicks = d.HeatTimeoutTicks
	}
	return c
}

// Allowed top-level transitions. Overheat bypasses the map: it forces
// ERROR from any state.
var stateTransitions = map[string][]string{
	string(models.StateOff):     {string(models.StateWarming), string(models.StateError)},
	string(models.StateWarming): {string(models.StateReady), string(models.StateError), string(models.StateOff)},
	string(models.StateReady):   {string(models.StateBusy), string(models.StateError), string(models.StateOff)},
	string(models.StateBusy):    {string(models.StateReady), string(models.StateError), string(models.StateOff)},
	string(models.StateError):   {string(models.StateReady), string(models.StateOff)},
}

// warmRun tracks the warm-up loop between advances.
type warmRun struct {
	left int
}

// brewRun tracks the active brew sequence between advances.
type brewRun struct {
	recipe      Recipe
	idx         int
	waiting     bool // inside the bounded cup wait
	cupTimedOut bool
	heating     bool // inside the heating loop
	heatTicks   int
	consumed    bool // some resource consumption already committed
}

// Controller owns all sensors and actuators and drives the top-level state
// machine plus the busy sub-state sequencing. It has a single logical
// thread of control: callers must serialize access (the service layer does
// this with a mutex).
type Controller struct {
	cfg Config

	water *device.LevelSensor
	beans *device.LevelSensor
	waste *device.LevelSensor
	temp  *device.TemperatureSensor
	cup   *device.CupSensor

	grinder *device.Actuator
	pump    *device.Pump
	heater  *device.Heater
	frother *device.Actuator

	fsm     *fsm.Machine
	timer   *Timer
	gate    *Gate
	display Display
	faults  FaultSink

	phase     models.BrewPhase
	selection models.Drink
	progress  int
	cancelled bool
	queue     []Event
	warm      *warmRun
	run       *brewRun
	outcome   *models.BrewOutcome
}

// New builds a controller with fresh devices: full water and beans, empty
// waste, room temperature, no cup. Nothing is persisted across restarts.
func New(cfg Config, display Display, sink FaultSink, handler slog.Handler) (*Controller, error) {
	cfg = cfg.withDefaults()
	if display == nil {
		display = NopDisplay{}
	}
	if sink == nil {
		sink = NewMemorySink()
	}
	if handler == nil {
		handler = slog.NewTextHandler(io.Discard, nil)
	}

	m, err := fsm.New(handler, string(models.StateOff), stateTransitions)
	if err != nil {
		return nil, err
	}

	temp := device.NewTemperatureSensor()
	c := &Controller{
		cfg:     cfg,
		water:   device.NewWaterSensor(),
		beans:   device.NewBeansSensor(),
		waste:   device.NewWasteSensor(),
		temp:    temp,
		cup:     device.NewCupSensor(),
		grinder: device.NewGrinder(),
		pump:    device.NewPump(),
		heater:  device.NewHeater(temp, cfg.HeatStepC),
		frother: device.NewFrother(),
		fsm:     m,
		timer:   NewTimer(),
		display: display,
		faults:  sink,
	}
	c.gate = NewGate(c.water, c.beans, c.waste)
	return c, nil
}

// State returns the current top-level state.
func (c *Controller) State() models.MachineState {
	return models.MachineState(c.fsm.GetState())
}

// LastOutcome returns the outcome of the most recent brew attempt, or nil
// if no brew has finished since power-on.
func (c *Controller) LastOutcome() *models.BrewOutcome {
	if c.outcome == nil {
		return nil
	}
	out := *c.outcome
	return &out
}

// Status is a pure read of the machine snapshot. Button illumination is a
// derived view of the selection, recomputed here rather than stored.
func (c *Controller) Status() models.Status {
	return models.Status{
		State:        c.State(),
		Phase:        c.phase,
		Selection:    c.selection,
		Progress:     c.progress,
		WaterLevel:   c.water.Value(),
		BeansLevel:   c.beans.Value(),
		WasteLevel:   c.waste.Value(),
		TemperatureC: c.temp.Value(),
		CupPresent:   c.cup.Present(),
		PumpBar:      c.pump.PressureBar(),
	}
}

// Push queues an asynchronous input event for the next advance.
func (c *Controller) Push(ev Event) {
	c.queue = append(c.queue, ev)
}

// SignalOverheat injects an overheat signal, the highest-severity input.
func (c *Controller) SignalOverheat() {
	c.Push(Event{Type: EventOverheat})
}

// PowerToggle turns the machine on (starting the warm-up sequence) or off.
func (c *Controller) PowerToggle() error {
	if c.State() == models.StateOff {
		if err := c.fsm.Transition(string(models.StateWarming)); err != nil {
			return err
		}
		c.cancelled = false
		c.progress = 0
		c.warm = &warmRun{left: c.cfg.WarmupSteps}
		c.display.ShowState(models.StateWarming, models.DrinkNone)
		return nil
	}
	return c.powerOff()
}

// powerOff deactivates everything, clears the selection and cools down.
// Legal from every powered state.
func (c *Controller) powerOff() error {
	c.allActuatorsOff()
	c.timer.Cancel()
	c.warm = nil
	c.run = nil
	c.queue = nil
	c.phase = models.PhaseNone
	c.selection = models.DrinkNone
	c.progress = 0
	c.cancelled = false
	c.temp.SetValue(device.AmbientC)
	if err := c.fsm.Transition(string(models.StateOff)); err != nil {
		return err
	}
	c.display.ShowState(models.StateOff, models.DrinkNone)
	return nil
}

// SelectDrink records the selection. Valid only while ready.
func (c *Controller) SelectDrink(d models.Drink) error {
	if _, ok := RecipeFor(d); !ok {
		return ErrUnknownDrink
	}
	if c.State() != models.StateReady {
		c.display.ShowError("machine is not ready")
		return ErrNotReady
	}
	c.selection = d
	c.display.ShowMessage("selected " + string(d))
	return nil
}

// Brew starts the sequence for the current selection. The resource gate
// runs first; a failing gate is a fault requiring maintenance. A passing
// gate enters the busy sub-state sequence, driven by subsequent advances.
func (c *Controller) Brew() error {
	if c.State() != models.StateReady {
		c.display.ShowError("machine is not ready")
		return ErrNotReady
	}
	if c.selection == models.DrinkNone {
		c.display.ShowError("select a drink first")
		return ErrNoSelection
	}
	recipe, ok := RecipeFor(c.selection)
	if !ok {
		return ErrUnknownDrink
	}
	if err := c.gate.Check(); err != nil {
		c.fault(err.Error())
		return err
	}
	if err := c.fsm.Transition(string(models.StateBusy)); err != nil {
		return err
	}
	c.cancelled = false
	c.progress = 0
	c.outcome = nil
	c.run = &brewRun{recipe: recipe}
	c.display.ShowState(models.StateBusy, c.selection)
	return nil
}

// Cancel requests a user abort. The flag is observed at the next step
// boundary; it never interrupts an actuator activation in progress.
func (c *Controller) Cancel() {
	switch c.State() {
	case models.StateBusy, models.StateWarming:
		c.cancelled = true
		c.display.ShowMessage("cancellation requested")
	}
}

// PlaceCup and RemoveCup mirror the cup presence sensor.
func (c *Controller) PlaceCup()  { c.cup.Place() }
func (c *Controller) RemoveCup() { c.cup.Remove() }

// Maintenance operations; valid in any state, never change MachineState.
func (c *Controller) RefillWater() { c.water.SetValue(100) }
func (c *Controller) RefillBeans() { c.beans.SetValue(100) }
func (c *Controller) EmptyWaste()  { c.waste.SetValue(0) }

// ClearError returns the machine to ready after maintenance and resets
// degraded actuators.
func (c *Controller) ClearError() error {
	if c.State() != models.StateError {
		return ErrNotInError
	}
	c.grinder.ClearError()
	c.pump.ClearError()
	c.heater.ClearError()
	c.frother.ClearError()
	if err := c.fsm.Transition(string(models.StateReady)); err != nil {
		return err
	}
	c.display.ShowState(models.StateReady, models.DrinkNone)
	return nil
}

// fault routes the machine to ERROR: all actuators off, alert reported to
// the fault sink. Recovery requires maintenance plus ClearError.
func (c *Controller) fault(msg string) {
	c.allActuatorsOff()
	c.display.ShowError(msg)
	c.faults.Receive(msg)
	if c.State() != models.StateError {
		_ = c.fsm.Transition(string(models.StateError))
	}
}

func (c *Controller) allActuatorsOff() {
	c.grinder.TurnOff()
	c.pump.TurnOff()
	c.heater.TurnOff()
	c.frother.TurnOff()
}
