package serialization

import (
	"encoding/json"
	"time"
)

// Format constants.
const (
	FormatVersion = 1

	// LibraryVersion is recorded as mlp_version in every file written.
	LibraryVersion = "0.1.0"

	// MaxFileSize bounds how much a reader consumes before giving up.
	MaxFileSize = 64 << 20
)

// Header holds the envelope fields that describe a model file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	MLPVersion    string            `json:"mlp_version"`
	CreatedAt     time.Time         `json:"created_at"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// envelope is the on-disk document.
type envelope struct {
	Header
	Checksum string          `json:"checksum"`
	Model    json.RawMessage `json:"model"`
}
