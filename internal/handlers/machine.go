package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coffeemachine/internal/machine"
	"coffeemachine/internal/models"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK        = "ok"
	statusToggled   = "power_toggled"
	statusSelected  = "selected"
	statusBrewing   = "brewing"
	statusCancelled = "cancel_requested"
	statusDone      = "done"

	errGetStatus       = "failed to load status"
	errInvalidBodyPref = "invalid body: "
)

// rejections are commands that are illegal in the current machine state;
// they are reported as 409 and change nothing.
var rejections = []error{
	machine.ErrNotReady,
	machine.ErrNoSelection,
	machine.ErrUnknownDrink,
	machine.ErrNotInError,
}

// faultReasons are gate failures: the command was legal but routed the
// machine to ERROR; the caller sees the reason plus the new state.
var faultReasons = []error{
	machine.ErrLowWater,
	machine.ErrLowBeans,
	machine.ErrWasteFull,
}

func matchesAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// respondCommandError maps controller errors onto HTTP codes.
func (h *Handler) respondCommandError(c *gin.Context, logKey string, err error) {
	if matchesAny(err, rejections) || matchesAny(err, faultReasons) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if h.log != nil {
		h.log.Errorw(logKey, "err", err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// respondWithStatus replies with a status tag and the current machine
// snapshot (best-effort).
func (h *Handler) respondWithStatus(c *gin.Context, status string, extra gin.H) {
	ctx := c.Request.Context()
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	st, err := h.services.Monitoring.Status(ctx)
	if err == nil {
		resp["machine"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// Request DTO for selecting a drink.
type selectRequest struct {
	Drink string `json:"drink" binding:"required"` // ESPRESSO | AMERICANO | CAPPUCCINO | LATTE | HOT_WATER
}

// SelectDrinkRequest is an exported model for Swagger docs of the select payload.
type SelectDrinkRequest struct {
	// Drink to select. Allowed: ESPRESSO, AMERICANO, CAPPUCCINO, LATTE, HOT_WATER
	Drink string `json:"drink" example:"ESPRESSO"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      Toggle power
// @Description  Turns the machine on (starting warm-up) or off
// @Tags         machine
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, machine"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/machine/power [post]
// @Security     BearerAuth
func (h *Handler) powerToggle(c *gin.Context) {
	if err := h.services.Machine.PowerToggle(c.Request.Context()); err != nil {
		h.respondCommandError(c, "power_toggle_failed", err)
		return
	}
	h.respondWithStatus(c, statusToggled, gin.H{})
}

// @Summary      Select drink
// @Tags         machine
// @Accept       json
// @Produce      json
// @Param        body  body   SelectDrinkRequest  true  "Drink payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/machine/select [post]
// @Security     BearerAuth
func (h *Handler) selectDrink(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	drink := models.Drink(strings.ToUpper(strings.TrimSpace(req.Drink)))
	if err := h.services.Machine.SelectDrink(c.Request.Context(), drink); err != nil {
		h.respondCommandError(c, "select_drink_failed", err)
		return
	}
	h.respondWithStatus(c, statusSelected, gin.H{"drink": drink})
}

// @Summary      Brew the selected drink
// @Description  Runs the resource gate, then enters the busy sub-state sequence
// @Tags         machine
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/machine/brew [post]
// @Security     BearerAuth
func (h *Handler) brew(c *gin.Context) {
	if err := h.services.Machine.Brew(c.Request.Context()); err != nil {
		h.respondCommandError(c, "brew_failed", err)
		return
	}
	h.respondWithStatus(c, statusBrewing, gin.H{})
}

// @Summary      Cancel the in-progress sequence
// @Description  Sets the cancel flag; the sequence aborts at the next checkpoint
// @Tags         machine
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/machine/cancel [post]
// @Security     BearerAuth
func (h *Handler) cancel(c *gin.Context) {
	if err := h.services.Machine.Cancel(c.Request.Context()); err != nil {
		h.respondCommandError(c, "cancel_failed", err)
		return
	}
	h.respondWithStatus(c, statusCancelled, gin.H{})
}

// @Summary      Place a cup
// @Tags         machine
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/machine/cup/place [post]
// @Security     BearerAuth
func (h *Handler) placeCup(c *gin.Context) {
	if err := h.services.Machine.PlaceCup(c.Request.Context()); err != nil {
		h.respondCommandError(c, "place_cup_failed", err)
		return
	}
	h.respondWithStatus(c, statusDone, gin.H{})
}

// @Summary      Remove the cup
// @Tags         machine
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/machine/cup/remove [post]
// @Security     BearerAuth
func (h *Handler) removeCup(c *gin.Context) {
	if err := h.services.Machine.RemoveCup(c.Request.Context()); err != nil {
		h.respondCommandError(c, "remove_cup_failed", err)
		return
	}
	h.respondWithStatus(c, statusDone, gin.H{})
}

// @Summary      Refill the water tank
// @Tags         maintenance
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/machine/refill/water [post]
// @Security     BearerAuth
func (h *Handler) refillWater(c *gin.Context) {
	if err := h.services.Machine.RefillWater(c.Request.Context()); err != nil {
		h.respondCommandError(c, "refill_water_failed", err)
		return
	}
	h.respondWithStatus(c, statusDone, gin.H{})
}

// @Summary      Refill the bean hopper
// @Tags         maintenance
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/machine/refill/beans [post]
// @Security     BearerAuth
func (h *Handler) refillBeans(c *gin.Context) {
	if err := h.services.Machine.RefillBeans(c.Request.Context()); err != nil {
		h.respondCommandError(c, "refill_beans_failed", err)
		return
	}
	h.respondWithStatus(c, statusDone, gin.H{})
}

// @Summary      Empty the waste container
// @Tags         maintenance
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/machine/waste/empty [post]
// @Security     BearerAuth
func (h *Handler) emptyWaste(c *gin.Context) {
	if err := h.services.Machine.EmptyWaste(c.Request.Context()); err != nil {
		h.respondCommandError(c, "empty_waste_failed", err)
		return
	}
	h.respondWithStatus(c, statusDone, gin.H{})
}

// @Summary      Clear the error state
// @Description  Valid only while the machine is in ERROR
// @Tags         maintenance
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/machine/error/clear [post]
// @Security     BearerAuth
func (h *Handler) clearError(c *gin.Context) {
	if err := h.services.Machine.ClearError(c.Request.Context()); err != nil {
		h.respondCommandError(c, "clear_error_failed", err)
		return
	}
	h.respondWithStatus(c, statusDone, gin.H{})
}

// @Summary      Get machine status
// @Tags         machine
// @Produce      json
// @Success      200  {object}  models.Status
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/machine/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.Monitoring.Status(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("get_status_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errGetStatus})
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Get last persisted telemetry snapshot
// @Tags         machine
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "machine, updated_at"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/machine/telemetry [get]
// @Security     BearerAuth
func (h *Handler) getTelemetry(c *gin.Context) {
	st, updatedAt, err := h.services.Monitoring.Telemetry(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("get_telemetry_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load telemetry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"machine": st, "updated_at": updatedAt})
}
