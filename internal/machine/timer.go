package machine

// TimerState is the countdown lifecycle.
type TimerState string

const (
	TimerIdle    TimerState = "IDLE"
	TimerRunning TimerState = "RUNNING"
	TimerExpired TimerState = "EXPIRED"
)

// Timer is a single countdown with no thread of execution of its own: the
// driving loop advances it explicitly, so simulated and real-time drivers
// share identical logic.
type Timer struct {
	state     TimerState
	duration  float64
	remaining float64
}

func NewTimer() *Timer { return &Timer{state: TimerIdle} }

// Start begins (or restarts) the countdown. Restarting while running
// resets the remaining time; there is no accumulation.
func (t *Timer) Start(duration float64) {
	if duration < 0 {
		duration = 0
	}
	t.duration = duration
	t.remaining = duration
	t.state = TimerRunning
}

// Advance decrements the countdown by delta. It returns true exactly once,
// on the advance that drives the remaining time to zero.
func (t *Timer) Advance(delta float64) bool {
	if t.state != TimerRunning || delta <= 0 {
		return false
	}
	t.remaining -= delta
	if t.remaining <= 0 {
		t.remaining = 0
		t.state = TimerExpired
		return true
	}
	return false
}

// Cancel forces the timer idle from any state without signaling expiry.
func (t *Timer) Cancel() {
	t.state = TimerIdle
	t.remaining = 0
}

func (t *Timer) State() TimerState { return t.state }

func (t *Timer) Running() bool { return t.state == TimerRunning }

func (t *Timer) Expired() bool { return t.state == TimerExpired }

func (t *Timer) Remaining() float64 { return t.remaining }
