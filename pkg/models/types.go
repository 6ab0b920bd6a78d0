package models

// Credential is the stored bearer token and the email it was issued for.
// Token and email are always persisted or cleared together; a half-set
// pair must never be observable.
type Credential struct {
	Token string `json:"token,omitempty"`
	Email string `json:"email,omitempty"`
}

// IsZero reports whether no credential is stored.
func (c Credential) IsZero() bool {
	return c.Token == "" && c.Email == ""
}

// LoginResponse is the backend's answer to POST /auth/login.
type LoginResponse struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	Token         string `json:"token,omitempty"`
	Error         string `json:"error,omitempty"`
}

// AuthStatus is the backend's answer to GET /auth/status.
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
}

// RecipientKey is one slot of a public-key lookup result. A 404 from the
// backend is a normal outcome (Found=false); transport or server failures
// are carried in Error so a batch never loses its shape.
type RecipientKey struct {
	Found     bool   `json:"found"`
	Email     string `json:"email"`
	PublicKey string `json:"publicKey,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SaveMetadataRequest is the payload for POST /files.
type SaveMetadataRequest struct {
	FileID          string   `json:"fileId"`
	Filename        string   `json:"filename"`
	RecipientEmails []string `json:"recipientEmails"`
	ExpiresAt       string   `json:"expiresAt,omitempty"`
	SenderEmail     string   `json:"senderEmail"`
}
