package screen

import (
	"testing"

	"sealgate/pkg/envelope"
	"sealgate/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_HappyPath(t *testing.T) {
	c := NewController()
	assert.Equal(t, StateLoading, c.State())

	require.NoError(t, c.AuthChecked(true))
	assert.Equal(t, StateDrop, c.State())

	env := &envelope.Envelope{FileID: "f1", Payload: "ct"}
	verdict := envelope.Verdict{HasAccess: true, AccessKnown: true}
	require.NoError(t, c.FileAccepted(env, verdict, []byte("raw")))
	assert.Equal(t, StateInfo, c.State())

	got, gotVerdict := c.Current()
	assert.Equal(t, env, got)
	assert.Equal(t, verdict, gotVerdict)

	require.NoError(t, c.Back())
	assert.Equal(t, StateDrop, c.State())
}

func TestController_UnauthenticatedStartup(t *testing.T) {
	c := NewController()

	require.NoError(t, c.AuthChecked(false))
	assert.Equal(t, StateLogin, c.State())

	require.NoError(t, c.LoginSucceeded())
	assert.Equal(t, StateDrop, c.State())

	require.NoError(t, c.LoggedOut())
	assert.Equal(t, StateLogin, c.State())
}

func TestController_RejectionAndBack(t *testing.T) {
	c := NewController()
	require.NoError(t, c.AuthChecked(true))

	require.NoError(t, c.FileRejected("not a valid .seal file"))
	assert.Equal(t, StateError, c.State())
	assert.Equal(t, "not a valid .seal file", c.ErrorMessage())

	require.NoError(t, c.Back())
	assert.Equal(t, StateDrop, c.State())
	assert.Empty(t, c.ErrorMessage())
}

func TestController_BackDiscardsFileContent(t *testing.T) {
	c := NewController()
	require.NoError(t, c.AuthChecked(true))

	env := &envelope.Envelope{FileID: "f1", Payload: "ct"}
	require.NoError(t, c.FileAccepted(env, envelope.Verdict{}, []byte("raw")))
	require.NoError(t, c.Back())

	got, gotVerdict := c.Current()
	assert.Nil(t, got)
	assert.Equal(t, envelope.Verdict{}, gotVerdict)
	assert.Nil(t, c.raw)
}

func TestController_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *Controller)
		event func(c *Controller) error
	}{
		{
			name:  "auth check twice",
			setup: func(c *Controller) { c.AuthChecked(true) },
			event: func(c *Controller) error { return c.AuthChecked(true) },
		},
		{
			name:  "login success while on drop",
			setup: func(c *Controller) { c.AuthChecked(true) },
			event: func(c *Controller) error { return c.LoginSucceeded() },
		},
		{
			name:  "logout while on login",
			setup: func(c *Controller) { c.AuthChecked(false) },
			event: func(c *Controller) error { return c.LoggedOut() },
		},
		{
			name:  "file accepted while loading",
			setup: func(c *Controller) {},
			event: func(c *Controller) error { return c.FileAccepted(nil, envelope.Verdict{}, nil) },
		},
		{
			name:  "file rejected while on login",
			setup: func(c *Controller) { c.AuthChecked(false) },
			event: func(c *Controller) error { return c.FileRejected("oops") },
		},
		{
			name:  "back from drop",
			setup: func(c *Controller) { c.AuthChecked(true) },
			event: func(c *Controller) error { return c.Back() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController()
			tt.setup(c)

			err := tt.event(c)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrInvalidTransition)
		})
	}
}
