package gateway

import (
	"context"
	"fmt"

	"sealgate/pkg/models"
)

// External message types. The external channel is reachable by any origin
// that passes the gate; its vocabulary is deliberately tiny and shares no
// handler code with the internal channel.
const (
	ExternalTypeAuthToken = "auth-token"
	ExternalTypeLogout    = "logout"
	ExternalTypePing      = "ping"
)

// ExternalMessage is the wire form of the external channel.
type ExternalMessage struct {
	Type  string `json:"type"`
	Token string `json:"token,omitempty"`
	Email string `json:"email,omitempty"`
}

// PingResult tells the external site the gateway is installed.
type PingResult struct {
	Installed bool   `json:"installed"`
	Version   string `json:"version"`
}

// HandleExternal processes a message that already passed the origin gate.
// A token handoff with either field missing is rejected outright, never
// partially applied.
func (r *Router) HandleExternal(ctx context.Context, msg ExternalMessage) Response {
	switch msg.Type {
	case ExternalTypeAuthToken:
		if msg.Token == "" || msg.Email == "" {
			recordExternalMessage(ctx, msg.Type, false)
			return errResponse(fmt.Errorf("%w: token handoff requires both token and email", models.ErrIncompleteCredential))
		}
		if err := r.store.Set(ctx, msg.Token, msg.Email); err != nil {
			recordExternalMessage(ctx, msg.Type, false)
			return errResponse(err)
		}
		recordExternalMessage(ctx, msg.Type, true)
		return okResponse(map[string]bool{"success": true})

	case ExternalTypeLogout:
		if err := r.store.Clear(ctx); err != nil {
			recordExternalMessage(ctx, msg.Type, false)
			return errResponse(err)
		}
		recordExternalMessage(ctx, msg.Type, true)
		return okResponse(map[string]bool{"success": true})

	case ExternalTypePing:
		recordExternalMessage(ctx, msg.Type, true)
		return okResponse(PingResult{Installed: true, Version: r.cfg.Version})

	default:
		recordExternalMessage(ctx, msg.Type, false)
		return errResponse(fmt.Errorf("%w: %q", models.ErrUnknownMessageType, msg.Type))
	}
}
