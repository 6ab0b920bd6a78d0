// Package envelope parses and validates .seal files and decides whether the
// current identity may open them. Validation is a pure function of the raw
// file content and the stored credential; nothing here touches disk or any
// durable store, so raw content never outlives the session.
package envelope

import "encoding/json"

// DefaultSuffix is the file extension the validator accepts.
const DefaultSuffix = ".seal"

// DefaultMaxSizeBytes caps the raw file size handled in-process. The sealed
// format inflates roughly a third when textually encoded, so larger files are
// deferred to the web viewer.
const DefaultMaxSizeBytes = 10 * 1024 * 1024

// Metadata carries the display fields of a sealed file. All fields are
// optional; an absent ExpiresAt means the file never expires.
type Metadata struct {
	OriginalName string `json:"originalName,omitempty"`
	OriginalSize int64  `json:"originalSize,omitempty"`
	EncryptedAt  string `json:"encryptedAt,omitempty"`
	ExpiresAt    string `json:"expiresAt,omitempty"`
}

// Recipient identifies one party allowed to open the file.
type Recipient struct {
	Email string `json:"email"`
}

// Envelope is the parsed .seal document. Version, FileID, and Payload are
// required; a document missing any of them is rejected as incomplete.
// Payload is opaque ciphertext and is never parsed further here.
type Envelope struct {
	Version    json.Number `json:"version"`
	FileID     string      `json:"fileId"`
	Payload    string      `json:"payload"`
	Metadata   Metadata    `json:"metadata"`
	Recipients []Recipient `json:"recipients"`
}
