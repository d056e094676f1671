package service

import (
	"coffeemachine/internal/logger"
	"coffeemachine/internal/models"
)

// LogDisplay renders the controller's display observations to the
// structured log. A hardware front panel would implement the same
// interface.
type LogDisplay struct {
	log *logger.Logger
}

func NewLogDisplay(log *logger.Logger) *LogDisplay { return &LogDisplay{log: log} }

func (d *LogDisplay) ShowMessage(msg string) {
	d.log.Infow("display_message", "msg", msg)
}

func (d *LogDisplay) ShowProgress(percent int) {
	d.log.Infow("display_progress", "percent", percent)
}

func (d *LogDisplay) ShowError(msg string) {
	d.log.Warnw("display_error", "msg", msg)
}

func (d *LogDisplay) ShowState(state models.MachineState, selection models.Drink) {
	d.log.Infow("display_state", "state", state, "selection", selection)
}
