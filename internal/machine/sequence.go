package machine

import (
	"errors"

	"coffeemachine/internal/device"
	"coffeemachine/internal/models"
)

// Advance moves logical time forward by delta and performs at most one
// sequencing step. The driving loop (real-time ticker or a test clock)
// calls this repeatedly; every discrete actuator action yields control
// back here, so cancellation and overheat are observed between steps,
// never mid-step.
func (c *Controller) Advance(delta float64) {
	if c.timer.Advance(delta) {
		c.Push(Event{Type: EventTimerTimeout})
	}

	// Overheat outranks everything, including cancellation.
	if c.overheatPending() {
		c.handleOverheat()
		return
	}

	c.drainEvents()

	switch c.State() {
	case models.StateWarming:
		c.warmStep()
	case models.StateBusy:
		c.brewStep()
	}
}

func (c *Controller) overheatPending() bool {
	if c.temp.Overheated() {
		return true
	}
	for _, ev := range c.queue {
		if ev.Type == EventOverheat {
			return true
		}
	}
	return false
}

// handleOverheat forces ERROR from any state, deactivating every actuator
// immediately and abandoning any in-progress sequence.
func (c *Controller) handleOverheat() {
	kept := c.queue[:0]
	for _, ev := range c.queue {
		if ev.Type != EventOverheat {
			kept = append(kept, ev)
		}
	}
	c.queue = kept

	if c.run != nil {
		c.outcome = &models.BrewOutcome{Result: models.BrewFailed, Reason: "overheat"}
	}
	c.allActuatorsOff()
	c.timer.Cancel()
	c.warm = nil
	c.run = nil
	c.phase = models.PhaseNone
	c.selection = models.DrinkNone
	c.progress = 0
	c.cancelled = false

	c.display.ShowError("overheat")
	c.faults.Receive("overheat")
	_ = c.fsm.SetState(string(models.StateError))
}

// drainEvents consumes the queued input events in FIFO order.
func (c *Controller) drainEvents() {
	pending := c.queue
	c.queue = nil
	for _, ev := range pending {
		switch ev.Type {
		case EventButtonPressed:
			_ = c.SelectDrink(ev.Drink)
		case EventSensorAlert:
			c.display.ShowMessage("warning: check " + string(ev.Sensor))
		case EventTimerTimeout:
			if c.run != nil && c.run.waiting {
				c.run.cupTimedOut = true
			}
		}
	}
}

// warmStep applies one warm-up heating increment. After the fixed number
// of increments (or an early cancellation) readiness is tested exactly
// once; failure routes to ERROR without retry.
func (c *Controller) warmStep() {
	w := c.warm
	if w == nil {
		return
	}
	if !c.cancelled && w.left > 0 {
		if err := c.heater.Heat(); err != nil {
			if errors.Is(err, device.ErrOverheat) {
				c.handleOverheat()
				return
			}
			c.warm = nil
			c.fault(err.Error())
			return
		}
		w.left--
		c.progress = (c.cfg.WarmupSteps - w.left) * 100 / c.cfg.WarmupSteps
		c.display.ShowProgress(c.progress)
		if w.left > 0 {
			return
		}
	}

	c.warm = nil
	c.progress = 0
	c.cancelled = false
	if c.temp.Ready() {
		if c.fsm.Transition(string(models.StateReady)) == nil {
			c.display.ShowState(models.StateReady, models.DrinkNone)
		}
		return
	}
	c.fault("target temperature not reached")
}

// brewStep executes one step of the active recipe. Each step checks the
// cancellation flag first, activates its actuator, commits consumption
// exactly once, deactivates the actuator, and reports progress.
func (c *Controller) brewStep() {
	r := c.run
	if r == nil {
		return
	}
	if c.cancelled {
		c.finishBrew(models.BrewOutcome{Result: models.BrewCancelled}, false)
		return
	}

	for r.idx < len(r.recipe.Steps) {
		step := r.recipe.Steps[r.idx]
		switch step.Phase {
		case models.PhaseWaitingCup:
			c.waitCupStep(step)
			return

		case models.PhaseHeating:
			if step.Conditional && c.temp.Ready() && !r.heating {
				// Already in the brewing band: the step is skipped
				// entirely, no action to yield for.
				r.idx++
				continue
			}
			c.heatStep(step)
			return

		case models.PhaseDone:
			c.enterPhase(step)
			c.finishBrew(models.BrewOutcome{Result: models.BrewSuccess}, false)
			return

		default:
			c.actuatorStep(step)
			return
		}
	}
}

// enterPhase records the sub-state and its scheduled progress percentage.
// The schedule is fixed per recipe, so progress never decreases.
func (c *Controller) enterPhase(step Step) {
	c.phase = step.Phase
	c.progress = step.Progress
	c.display.ShowMessage(string(step.Phase))
	c.display.ShowProgress(step.Progress)
}

// waitCupStep polls cup presence, bounded by the timer. A timeout before
// any resource was committed is a user-correctable condition returning to
// READY without a fault; after partial consumption it is unrecoverable.
func (c *Controller) waitCupStep(step Step) {
	r := c.run
	if !r.waiting {
		c.enterPhase(step)
		if c.cup.Present() {
			r.idx++
			return
		}
		c.display.ShowMessage("place a cup")
		c.timer.Start(c.cfg.CupWaitSeconds)
		r.waiting = true
		return
	}

	if c.cup.Present() {
		c.timer.Cancel()
		r.waiting = false
		c.display.ShowMessage("cup detected")
		r.idx++
		return
	}
	if r.cupTimedOut || c.timer.Expired() {
		r.waiting = false
		if r.consumed {
			c.finishBrew(models.BrewOutcome{Result: models.BrewFailed, Reason: "cup wait timeout"}, true)
			return
		}
		c.finishBrew(models.BrewOutcome{Result: models.BrewFailed, Reason: "cup wait timeout"}, false)
	}
}

// heatStep applies heating increments until the brewing band is reached.
// The loop is bounded by HeatTimeoutTicks; exceeding it is an
// unrecoverable step failure.
func (c *Controller) heatStep(step Step) {
	r := c.run
	if !r.heating {
		c.enterPhase(step)
		r.heating = true
		r.heatTicks = 0
	}
	if r.heatTicks >= c.cfg.HeatTimeoutTicks {
		c.finishBrew(models.BrewOutcome{Result: models.BrewFailed, Reason: "heating timeout"}, true)
		return
	}
	if err := c.heater.Heat(); err != nil {
		if errors.Is(err, device.ErrOverheat) {
			c.handleOverheat()
			return
		}
		c.finishBrew(models.BrewOutcome{Result: models.BrewFailed, Reason: err.Error()}, true)
		return
	}
	r.heatTicks++
	if c.temp.Ready() {
		r.heating = false
		r.idx++
	}
}

// actuatorStep runs a single-activation step (grinding, brewing,
// frothing). The activation is scoped: the actuator is always off again
// before control returns, and consumption commits exactly once on an
// uncancelled completion.
func (c *Controller) actuatorStep(step Step) {
	r := c.run
	act := c.actuatorFor(step.Phase)
	if act == nil {
		c.finishBrew(models.BrewOutcome{Result: models.BrewFailed, Reason: "no actuator for " + string(step.Phase)}, true)
		return
	}
	c.enterPhase(step)
	if !act.TurnOn() {
		c.finishBrew(models.BrewOutcome{Result: models.BrewFailed, Reason: act.Name() + " unavailable"}, true)
		return
	}
	defer act.TurnOff()

	if step.WaterUse > 0 {
		c.water.Consume(step.WaterUse)
		r.consumed = true
	}
	if step.BeansUse > 0 {
		c.beans.Consume(step.BeansUse)
		r.consumed = true
	}
	if step.WasteAdd > 0 {
		c.waste.Add(step.WasteAdd)
		r.consumed = true
	}
	c.alertLowSupplies()
	r.idx++
}

func (c *Controller) actuatorFor(phase models.BrewPhase) *device.Actuator {
	switch phase {
	case models.PhaseGrinding:
		return c.grinder
	case models.PhaseBrewing:
		return &c.pump.Actuator
	case models.PhaseFrothing:
		return c.frother
	}
	return nil
}

// alertLowSupplies queues sensor alerts after a consumption left a supply
// under threshold or the waste container full.
func (c *Controller) alertLowSupplies() {
	if c.water.Low() {
		c.Push(Event{Type: EventSensorAlert, Sensor: device.SensorWater})
	}
	if c.beans.Low() {
		c.Push(Event{Type: EventSensorAlert, Sensor: device.SensorBeans})
	}
	if c.waste.Full() {
		c.Push(Event{Type: EventSensorAlert, Sensor: device.SensorWaste})
	}
}

// finishBrew is the unconditional terminal step of every brew attempt: no
// actuator stays energized, the selection and its illumination are
// cleared, sub-state and progress reset, cancellation flag dropped. The
// resulting state is READY except for an unrecoverable failure, which
// raises a fault and routes to ERROR.
func (c *Controller) finishBrew(outcome models.BrewOutcome, toError bool) {
	c.allActuatorsOff()
	c.timer.Cancel()
	selection := c.selection
	c.run = nil
	c.phase = models.PhaseNone
	c.selection = models.DrinkNone
	c.progress = 0
	c.cancelled = false
	c.outcome = &outcome

	if toError {
		c.fault(outcome.Reason)
		return
	}
	switch outcome.Result {
	case models.BrewSuccess:
		c.display.ShowMessage(string(selection) + " is ready")
	case models.BrewCancelled:
		c.display.ShowMessage("brew cancelled")
	case models.BrewFailed:
		// Recoverable wait: user-visible message, no fault raised.
		c.display.ShowError(outcome.Reason)
	}
	if c.fsm.Transition(string(models.StateReady)) == nil {
		c.display.ShowState(models.StateReady, models.DrinkNone)
	}
}
