package envelope

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// Verdict is the access decision for one envelope. It is derived fresh on
// every file load and never persisted. AccessKnown is false when no identity
// was available to check against, in which case HasAccess makes no claim.
type Verdict struct {
	IsExpired   bool `json:"isExpired"`
	HasAccess   bool `json:"hasAccess"`
	AccessKnown bool `json:"accessKnown"`
}

// CanOpen reports whether the open action should be offered. Expiry always
// disables it; a known non-recipient is also refused. An unknown identity
// leaves the action enabled, since no negative claim can be made.
func (v Verdict) CanOpen() bool {
	if v.IsExpired {
		return false
	}
	if v.AccessKnown && !v.HasAccess {
		return false
	}
	return true
}

// DisabledReason returns the message shown when CanOpen is false, or ""
// when the open action is available.
func (v Verdict) DisabledReason() string {
	if v.IsExpired {
		return "File has expired"
	}
	if v.AccessKnown && !v.HasAccess {
		return "You do not have access to this file"
	}
	return ""
}

// Authorize computes the verdict for an envelope against the current
// identity email. An empty identityEmail means no credential is stored.
func Authorize(env *Envelope, identityEmail string, now time.Time) Verdict {
	verdict := Verdict{}

	if env.Metadata.ExpiresAt != "" {
		if expires, err := time.Parse(time.RFC3339, env.Metadata.ExpiresAt); err == nil {
			verdict.IsExpired = expires.Before(now)
		}
	}

	if identityEmail != "" {
		verdict.AccessKnown = true
		verdict.HasAccess = lo.SomeBy(env.Recipients, func(r Recipient) bool {
			return strings.EqualFold(r.Email, identityEmail)
		})
	}

	return verdict
}
