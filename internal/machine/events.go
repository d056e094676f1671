package machine

import (
	"coffeemachine/internal/device"
	"coffeemachine/internal/models"
)

// EventType tags an asynchronous input to the controller.
type EventType string

const (
	EventButtonPressed EventType = "BUTTON_PRESSED"
	EventSensorAlert   EventType = "SENSOR_ALERT"
	EventTimerTimeout  EventType = "TIMER_TIMEOUT"
	EventOverheat      EventType = "OVERHEAT"
)

// Event is a transient input signal. Events are created by input handlers,
// queued on the controller, and consumed in FIFO order on the next advance
// (overheat is scanned ahead of the queue order).
type Event struct {
	Type   EventType
	Drink  models.Drink      // EventButtonPressed
	Sensor device.SensorKind // EventSensorAlert
}
