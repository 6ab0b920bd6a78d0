package gateway

import (
	"encoding/json"
	"fmt"

	"sealgate/pkg/models"
)

// Action wire names accepted on the internal channel.
const (
	ActionCheckAuth            = "checkAuth"
	ActionFetchRecipientKeys   = "fetchRecipientKeys"
	ActionSaveMetadata         = "saveMetadata"
	ActionAttachToGmail        = "attachToGmail"
	ActionOpenLogin            = "openLogin"
	ActionGetStoredEmail       = "getStoredEmail"
	ActionLoginWithCredentials = "loginWithCredentials"
	ActionLogout               = "logout"
)

// Action is a request on the internal channel. The set of implementations
// is fixed; DecodeAction is the only way wire input becomes an Action.
type Action interface {
	actionName() string
}

type CheckAuthAction struct{}

type FetchRecipientKeysAction struct {
	Emails []string `json:"emails"`
}

type SaveMetadataAction struct {
	models.SaveMetadataRequest
}

type AttachToGmailAction struct {
	SealFile string `json:"sealFile"`
	Filename string `json:"filename"`
}

type OpenLoginAction struct{}

type GetStoredEmailAction struct{}

type LoginWithCredentialsAction struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LogoutAction struct{}

func (CheckAuthAction) actionName() string            { return ActionCheckAuth }
func (FetchRecipientKeysAction) actionName() string   { return ActionFetchRecipientKeys }
func (SaveMetadataAction) actionName() string         { return ActionSaveMetadata }
func (AttachToGmailAction) actionName() string        { return ActionAttachToGmail }
func (OpenLoginAction) actionName() string            { return ActionOpenLogin }
func (GetStoredEmailAction) actionName() string       { return ActionGetStoredEmail }
func (LoginWithCredentialsAction) actionName() string { return ActionLoginWithCredentials }
func (LogoutAction) actionName() string               { return ActionLogout }

// Response is what every dispatched action resolves to. A handler failure
// lands in Error; it is never propagated as a fault to the caller.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func okResponse(data any) Response {
	return Response{Data: data}
}

func errResponse(err error) Response {
	return Response{Error: err.Error()}
}

// DecodeAction parses the wire form {"action": <name>, ...} into the typed
// action. An unrecognized name yields ErrUnsupportedAction.
func DecodeAction(raw []byte) (Action, error) {
	var header struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, fmt.Errorf("malformed action request: %w", err)
	}

	switch header.Action {
	case ActionCheckAuth:
		return CheckAuthAction{}, nil
	case ActionFetchRecipientKeys:
		var a FetchRecipientKeysAction
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("malformed %s request: %w", header.Action, err)
		}
		return a, nil
	case ActionSaveMetadata:
		var a SaveMetadataAction
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("malformed %s request: %w", header.Action, err)
		}
		return a, nil
	case ActionAttachToGmail:
		var a AttachToGmailAction
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("malformed %s request: %w", header.Action, err)
		}
		return a, nil
	case ActionOpenLogin:
		return OpenLoginAction{}, nil
	case ActionGetStoredEmail:
		return GetStoredEmailAction{}, nil
	case ActionLoginWithCredentials:
		var a LoginWithCredentialsAction
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("malformed %s request: %w", header.Action, err)
		}
		return a, nil
	case ActionLogout:
		return LogoutAction{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedAction, header.Action)
	}
}
