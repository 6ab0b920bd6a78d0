// Package apiclient issues authenticated REST calls to the SealShare
// backend. The bearer token is read from the injected credential store on
// every call; when no token is stored the Authorization header is omitted
// entirely, never sent malformed.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"sealgate/pkg/credstore"
	"sealgate/pkg/models"
)

// API paths
const (
	LoginPath     = "/auth/login"
	StatusPath    = "/auth/status"
	PublicKeyPath = "/users/public-key/"
	FilesPath     = "/files"
)

// HTTP headers and content types
const (
	ContentTypeJSON  = "application/json"
	AuthHeaderPrefix = "Bearer "
)

// DefaultTimeout bounds each backend round trip.
const DefaultTimeout = 30 * time.Second

// Client calls the SealShare backend API.
type Client struct {
	baseURL    string
	creds      credstore.Store
	httpClient *http.Client
}

// NewClient creates a backend API client. The credential store supplies the
// bearer token for authenticated calls.
func NewClient(baseURL string, creds credstore.Store, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		creds:   creds,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// newRequest builds a request with the bearer token attached when present.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", ContentTypeJSON)
	}

	cred, err := c.creds.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}
	if cred.Token != "" {
		req.Header.Set("Authorization", AuthHeaderPrefix+cred.Token)
	}

	return req, nil
}

// Login authenticates against POST /auth/login. Both fields are validated
// locally; a missing field short-circuits without any network call.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	if email == "" || password == "" {
		return nil, NewValidationError("", ErrMsgCredentialsRequired)
	}

	payload := map[string]string{"email": email, "password": password}
	req, err := c.newRequest(ctx, http.MethodPost, LoginPath, payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send login request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read login response: %w", err)
	}

	var result models.LoginResponse
	if resp.StatusCode != http.StatusOK {
		// Error bodies still carry a structured message when the backend
		// produced one
		json.Unmarshal(body, &result)
		message := result.Error
		if message == "" {
			message = "login failed"
		}
		return nil, NewAPIError(resp.StatusCode, message, nil)
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}

	return &result, nil
}

// CheckAuthStatus verifies the stored session against GET /auth/status.
// The backend is the source of truth: callers must clear local credentials
// on a non-success response or an unauthenticated result.
func (c *Client) CheckAuthStatus(ctx context.Context) (*models.AuthStatus, error) {
	req, err := c.newRequest(ctx, http.MethodGet, StatusPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send auth status request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewAPIError(resp.StatusCode, fmt.Sprintf("auth status check failed: %s", string(body)), nil)
	}

	var status models.AuthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode auth status response: %w", err)
	}

	return &status, nil
}

// FetchPublicKey looks up one recipient's public key. A 404 is a normal
// outcome mapped to Found=false; any other non-success response is an
// error.
func (c *Client) FetchPublicKey(ctx context.Context, email string) (*models.RecipientKey, error) {
	if email == "" {
		return nil, NewValidationError("email", "is required")
	}

	req, err := c.newRequest(ctx, http.MethodGet, PublicKeyPath+url.PathEscape(email), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send public key request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &models.RecipientKey{Found: false, Email: email}, nil
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewAPIError(resp.StatusCode, fmt.Sprintf("public key lookup failed: %s", string(body)), nil)
	}

	var result struct {
		PublicKey string `json:"publicKey"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode public key response: %w", err)
	}

	return &models.RecipientKey{Found: true, Email: email, PublicKey: result.PublicKey}, nil
}

// FetchPublicKeys looks up all emails concurrently. The result preserves
// one-to-one correspondence with the input list; an individual failure
// lands in its own slot and never short-circuits the batch.
func (c *Client) FetchPublicKeys(ctx context.Context, emails []string) []models.RecipientKey {
	results := make([]models.RecipientKey, len(emails))

	var wg sync.WaitGroup
	for i, email := range emails {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()

			key, err := c.FetchPublicKey(ctx, email)
			if err != nil {
				results[i] = models.RecipientKey{Found: false, Email: email, Error: err.Error()}
				return
			}
			results[i] = *key
		}(i, email)
	}
	wg.Wait()

	return results
}

// SaveFileMetadata records an encrypted file's metadata via POST /files.
func (c *Client) SaveFileMetadata(ctx context.Context, meta *models.SaveMetadataRequest) (map[string]any, error) {
	if meta == nil {
		return nil, NewValidationError("metadata", "cannot be nil")
	}
	if meta.FileID == "" {
		return nil, NewValidationError("fileId", "is required")
	}

	req, err := c.newRequest(ctx, http.MethodPost, FilesPath, meta)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send file metadata request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewAPIError(resp.StatusCode, fmt.Sprintf("file metadata save failed: %s", string(body)), nil)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode file metadata response: %w", err)
	}

	return result, nil
}
