package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"time"

	"sealgate/logging"
	"sealgate/pkg/apiclient"
	"sealgate/pkg/credstore"
	"sealgate/pkg/models"
)

// Opener opens a URL in the user's browser. Injected so tests and headless
// deployments can substitute their own.
type Opener interface {
	OpenURL(ctx context.Context, rawURL string) error
}

// ExecOpener shells out to xdg-open.
type ExecOpener struct{}

func (ExecOpener) OpenURL(ctx context.Context, rawURL string) error {
	if err := exec.CommandContext(ctx, "xdg-open", rawURL).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// RouterConfig carries the fixed settings the router needs.
type RouterConfig struct {
	LoginURL string
	MailHost string
	Version  string
}

// Router dispatches internal action requests and external messages. The two
// channels share no handler code; external input never reaches the action
// handlers.
type Router struct {
	store  credstore.Store
	api    *apiclient.Client
	tabs   *TabRegistry
	opener Opener
	cfg    RouterConfig
	logger *logging.Logger
}

func NewRouter(store credstore.Store, api *apiclient.Client, tabs *TabRegistry, opener Opener, cfg RouterConfig) *Router {
	if opener == nil {
		opener = ExecOpener{}
	}
	return &Router{
		store:  store,
		api:    api,
		tabs:   tabs,
		opener: opener,
		cfg:    cfg,
		logger: logging.GetLogger(),
	}
}

// DispatchRaw decodes a wire request and dispatches it. An unrecognized
// action name gets an explicit error response rather than silence, so
// callers can tell a typo from a dropped message.
func (r *Router) DispatchRaw(ctx context.Context, raw []byte) Response {
	action, err := DecodeAction(raw)
	if err != nil {
		return errResponse(err)
	}
	return r.Dispatch(ctx, action)
}

// Dispatch invokes the handler for an action. Handler failures are caught
// and surfaced in the response, never propagated as faults.
func (r *Router) Dispatch(ctx context.Context, action Action) Response {
	start := time.Now()

	var resp Response
	switch a := action.(type) {
	case CheckAuthAction:
		resp = r.handleCheckAuth(ctx)
	case FetchRecipientKeysAction:
		resp = r.handleFetchRecipientKeys(ctx, a)
	case SaveMetadataAction:
		resp = r.handleSaveMetadata(ctx, a)
	case AttachToGmailAction:
		resp = r.handleAttachToGmail(ctx, a)
	case OpenLoginAction:
		resp = r.handleOpenLogin(ctx)
	case GetStoredEmailAction:
		resp = r.handleGetStoredEmail(ctx)
	case LoginWithCredentialsAction:
		resp = r.handleLoginWithCredentials(ctx, a)
	case LogoutAction:
		resp = r.handleLogout(ctx)
	default:
		resp = errResponse(fmt.Errorf("%w: %T", models.ErrUnsupportedAction, action))
	}

	recordDispatch(ctx, action.actionName(), time.Since(start), resp.Error != "")
	return resp
}

// handleCheckAuth asks the backend whether the stored token is still valid.
// The backend is the source of truth: a failed or negative check clears the
// local credential. A server-confirmed email that differs from the cached
// one refreshes the email while preserving the token.
func (r *Router) handleCheckAuth(ctx context.Context) Response {
	status, err := r.api.CheckAuthStatus(ctx)
	if err != nil || !status.Authenticated {
		if clearErr := r.store.Clear(ctx); clearErr != nil {
			r.logger.Warn("Failed to clear credentials after auth check: %v", clearErr)
		}
		return okResponse(models.AuthStatus{Authenticated: false})
	}

	cred, getErr := r.store.Get(ctx)
	if getErr == nil && cred.Token != "" && status.Email != "" && cred.Email != status.Email {
		r.logger.Info("Reconciling cached email with server-confirmed identity")
		if setErr := r.store.Set(ctx, cred.Token, status.Email); setErr != nil {
			r.logger.Warn("Failed to reconcile cached email: %v", setErr)
		}
	}

	return okResponse(*status)
}

func (r *Router) handleFetchRecipientKeys(ctx context.Context, a FetchRecipientKeysAction) Response {
	keys := r.api.FetchPublicKeys(ctx, a.Emails)
	return okResponse(keys)
}

func (r *Router) handleSaveMetadata(ctx context.Context, a SaveMetadataAction) Response {
	result, err := r.api.SaveFileMetadata(ctx, &a.SaveMetadataRequest)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(result)
}

func (r *Router) handleAttachToGmail(ctx context.Context, a AttachToGmailAction) Response {
	result, err := r.tabs.Relay(ctx, r.cfg.MailHost, a.SealFile, a.Filename)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(result)
}

// handleOpenLogin opens the external login page with a hint that the
// request came from the extension.
func (r *Router) handleOpenLogin(ctx context.Context) Response {
	loginURL, err := url.Parse(r.cfg.LoginURL)
	if err != nil {
		return errResponse(fmt.Errorf("invalid login url: %w", err))
	}
	q := loginURL.Query()
	q.Set("source", "extension")
	loginURL.RawQuery = q.Encode()

	if err := r.opener.OpenURL(ctx, loginURL.String()); err != nil {
		return errResponse(err)
	}
	return okResponse(map[string]bool{"success": true})
}

// handleGetStoredEmail is a display-only fast path; no network call.
func (r *Router) handleGetStoredEmail(ctx context.Context) Response {
	cred, err := r.store.Get(ctx)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(map[string]string{"email": cred.Email})
}

// handleLoginWithCredentials never surfaces a top-level error; every failure
// mode resolves to {authenticated:false, error} so the login screen can
// render it directly.
func (r *Router) handleLoginWithCredentials(ctx context.Context, a LoginWithCredentialsAction) Response {
	result, err := r.api.Login(ctx, a.Email, a.Password)
	if err != nil {
		return okResponse(models.LoginResponse{Authenticated: false, Error: loginErrorMessage(err)})
	}
	if !result.Authenticated {
		msg := result.Error
		if msg == "" {
			msg = "authentication failed"
		}
		return okResponse(models.LoginResponse{Authenticated: false, Error: msg})
	}

	if err := r.store.Set(ctx, result.Token, result.Email); err != nil {
		return okResponse(models.LoginResponse{Authenticated: false, Error: loginErrorMessage(err)})
	}

	return okResponse(models.LoginResponse{Authenticated: true, Email: result.Email})
}

func loginErrorMessage(err error) string {
	var vErr *apiclient.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func (r *Router) handleLogout(ctx context.Context) Response {
	if err := r.store.Clear(ctx); err != nil {
		return errResponse(err)
	}
	return okResponse(map[string]bool{"success": true})
}
