// Package screen tracks which view of the popup is active. Transitions are
// purely event-driven; there are no timers. The controller also owns the
// transient file content shown on the info and error screens, so that
// leaving them reliably drops the raw bytes from memory.
package screen

import (
	"fmt"
	"sync"

	"sealgate/pkg/envelope"
	"sealgate/pkg/models"
)

// State names the active screen.
type State string

const (
	StateLoading State = "loading"
	StateLogin   State = "login"
	StateDrop    State = "drop"
	StateInfo    State = "info"
	StateError   State = "error"
)

// Controller is a small state machine over the popup screens. Safe for
// concurrent use.
type Controller struct {
	mu    sync.Mutex
	state State

	env     *envelope.Envelope
	verdict envelope.Verdict
	raw     []byte
	errMsg  string
}

// NewController starts in the loading state.
func NewController() *Controller {
	return &Controller{state: StateLoading}
}

// State returns the active screen.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the envelope and verdict shown on the info screen, or nil
// when no file is loaded.
func (c *Controller) Current() (*envelope.Envelope, envelope.Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.env, c.verdict
}

// ErrorMessage returns the message shown on the error screen.
func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// AuthChecked leaves the loading screen once the startup auth check
// resolves.
func (c *Controller) AuthChecked(authenticated bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLoading {
		return c.invalid("auth check")
	}
	if authenticated {
		c.state = StateDrop
	} else {
		c.state = StateLogin
	}
	return nil
}

// LoginSucceeded moves from login to the drop screen.
func (c *Controller) LoginSucceeded() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLogin {
		return c.invalid("login")
	}
	c.state = StateDrop
	return nil
}

// LoggedOut returns to the login screen.
func (c *Controller) LoggedOut() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateDrop {
		return c.invalid("logout")
	}
	c.state = StateLogin
	return nil
}

// FileAccepted shows the info screen for a validated file. The raw content
// is retained only until Back is called.
func (c *Controller) FileAccepted(env *envelope.Envelope, verdict envelope.Verdict, raw []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateDrop {
		return c.invalid("file accepted")
	}
	c.state = StateInfo
	c.env = env
	c.verdict = verdict
	c.raw = raw
	return nil
}

// FileRejected shows the error screen with a validation message.
func (c *Controller) FileRejected(message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateDrop {
		return c.invalid("file rejected")
	}
	c.state = StateError
	c.errMsg = message
	return nil
}

// Back navigates from the info or error screen to the drop screen and
// discards the loaded envelope, verdict, and raw content.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateInfo && c.state != StateError {
		return c.invalid("back")
	}
	c.state = StateDrop
	c.env = nil
	c.verdict = envelope.Verdict{}
	c.raw = nil
	c.errMsg = ""
	return nil
}

func (c *Controller) invalid(event string) error {
	return fmt.Errorf("%w: %s in state %s", models.ErrInvalidTransition, event, c.state)
}
