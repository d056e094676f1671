package machine

import "coffeemachine/internal/models"

// Display renders user-facing observations. The controller only produces
// structured calls; it never formats presentation text itself.
type Display interface {
	ShowMessage(msg string)
	ShowProgress(percent int)
	ShowError(msg string)
	ShowState(state models.MachineState, selection models.Drink)
}

// NopDisplay discards all observations.
type NopDisplay struct{}

func (NopDisplay) ShowMessage(string)                          {}
func (NopDisplay) ShowProgress(int)                            {}
func (NopDisplay) ShowError(string)                            {}
func (NopDisplay) ShowState(models.MachineState, models.Drink) {}
