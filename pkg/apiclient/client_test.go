package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"sealgate/pkg/credstore"
	"sealgate/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *credstore.MemoryStore) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := credstore.NewMemoryStore()
	return NewClient(server.URL, store, 5*time.Second), store
}

func TestLogin_Success(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, LoginPath, r.URL.Path)
		// No stored token yet, so no Authorization header may be sent
		assert.Empty(t, r.Header.Get("Authorization"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "u@x.com", payload["email"])

		json.NewEncoder(w).Encode(models.LoginResponse{
			Authenticated: true,
			Email:         "u@x.com",
			Token:         "tok-1",
		})
	}))

	result, err := client.Login(context.Background(), "u@x.com", "pw")
	require.NoError(t, err)
	assert.True(t, result.Authenticated)
	assert.Equal(t, "tok-1", result.Token)
	assert.Equal(t, "u@x.com", result.Email)
}

func TestLogin_MissingFieldsShortCircuit(t *testing.T) {
	var calls int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"missing email", "", "pw"},
		{"missing password", "u@x.com", ""},
		{"both missing", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Login(context.Background(), tt.email, tt.password)
			require.Error(t, err)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, ErrMsgCredentialsRequired, vErr.Message)
		})
	}

	// No network call may have been issued for any of the above
	assert.Equal(t, int64(0), atomic.LoadInt64(&calls))
}

func TestLogin_BackendRejection(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(models.LoginResponse{Authenticated: false, Error: "Invalid credentials"})
	}))

	_, err := client.Login(context.Background(), "u@x.com", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "Invalid credentials")
}

func TestCheckAuthStatus_AttachesBearerToken(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(models.AuthStatus{Authenticated: true, Email: "u@x.com"})
	}))

	require.NoError(t, store.Set(context.Background(), "tok-1", "u@x.com"))

	status, err := client.CheckAuthStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Authenticated)
	assert.Equal(t, "u@x.com", status.Email)
}

func TestCheckAuthStatus_NonSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.CheckAuthStatus(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestFetchPublicKey_Found(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/public-key/a@x.com", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"publicKey": "PEM-DATA"})
	}))

	key, err := client.FetchPublicKey(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.True(t, key.Found)
	assert.Equal(t, "a@x.com", key.Email)
	assert.Equal(t, "PEM-DATA", key.PublicKey)
}

func TestFetchPublicKey_NotFoundIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	key, err := client.FetchPublicKey(context.Background(), "missing@x.com")
	require.NoError(t, err)
	assert.False(t, key.Found)
	assert.Equal(t, "missing@x.com", key.Email)
}

func TestFetchPublicKey_ServerErrorPropagates(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.FetchPublicKey(context.Background(), "a@x.com")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestFetchPublicKeys_BatchPreservesOrder(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/public-key/a@x.com":
			json.NewEncoder(w).Encode(map[string]string{"publicKey": "KEY-A"})
		case "/users/public-key/missing@x.com":
			w.WriteHeader(http.StatusNotFound)
		case "/users/public-key/broken@x.com":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	results := client.FetchPublicKeys(context.Background(), []string{"a@x.com", "missing@x.com", "broken@x.com"})
	require.Len(t, results, 3)

	assert.True(t, results[0].Found)
	assert.Equal(t, "a@x.com", results[0].Email)
	assert.Equal(t, "KEY-A", results[0].PublicKey)

	assert.False(t, results[1].Found)
	assert.Equal(t, "missing@x.com", results[1].Email)
	assert.Empty(t, results[1].Error)

	// A failing slot carries its error without sinking the batch
	assert.False(t, results[2].Found)
	assert.Equal(t, "broken@x.com", results[2].Email)
	assert.NotEmpty(t, results[2].Error)
}

func TestSaveFileMetadata(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, FilesPath, r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		var meta models.SaveMetadataRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&meta))
		assert.Equal(t, "f1", meta.FileID)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": "f1", "status": "stored"})
	}))

	require.NoError(t, store.Set(context.Background(), "tok-1", "u@x.com"))

	result, err := client.SaveFileMetadata(context.Background(), &models.SaveMetadataRequest{
		FileID:          "f1",
		Filename:        "report.pdf",
		RecipientEmails: []string{"a@x.com"},
		SenderEmail:     "u@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "stored", result["status"])
}

func TestSaveFileMetadata_NonSuccessPropagates(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	_, err := client.SaveFileMetadata(context.Background(), &models.SaveMetadataRequest{FileID: "f1"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}
