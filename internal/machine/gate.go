package machine

import (
	"errors"

	"coffeemachine/internal/device"
)

// Gate failure reasons, in the fixed priority order the gate evaluates them.
var (
	ErrLowWater  = errors.New("insufficient water")
	ErrLowBeans  = errors.New("insufficient beans")
	ErrWasteFull = errors.New("waste container full")
)

// Gate inspects sensor readings against policy thresholds before a brew is
// permitted to start. It is pure: repeated calls with unchanged sensors
// return the same verdict.
type Gate struct {
	water *device.LevelSensor
	beans *device.LevelSensor
	waste *device.LevelSensor
}

func NewGate(water, beans, waste *device.LevelSensor) *Gate {
	return &Gate{water: water, beans: beans, waste: waste}
}

// Check returns nil when brewing may start, or the first failing reason in
// priority order: water sufficiency, bean sufficiency, waste capacity.
// Callers must not brew on a non-nil result.
func (g *Gate) Check() error {
	if g.water.Low() {
		return ErrLowWater
	}
	if g.beans.Low() {
		return ErrLowBeans
	}
	if g.waste.Full() {
		return ErrWasteFull
	}
	return nil
}
