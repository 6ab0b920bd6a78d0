package envelope

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Validation stages, in the order they run. Each stage is terminal on
// failure; later stages are never attempted.
const (
	StageSuffix = "suffix"
	StageSize   = "size"
	StageProbe  = "probe"
	StageParse  = "parse"
	StageSchema = "schema"
)

// User-facing rejection messages, keyed by stage.
const (
	MsgUnsupportedType = "unsupported file type"
	MsgTooLarge        = "file is too large, use the web viewer"
	MsgNotSealFile     = "not a valid .seal file"
	MsgMayBeCorrupted  = "file may be corrupted"
	MsgIncomplete      = "file is corrupted or incomplete"
)

// ValidationError reports which stage rejected the file and the message to
// surface to the user.
type ValidationError struct {
	Stage   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("envelope validation failed at %s: %s", e.Stage, e.Message)
}

// Validator checks raw .seal content against the configured limits. The zero
// limits fall back to the package defaults.
type Validator struct {
	suffix       string
	maxSizeBytes int64
}

func NewValidator(suffix string, maxSizeBytes int64) *Validator {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	if maxSizeBytes <= 0 {
		maxSizeBytes = DefaultMaxSizeBytes
	}
	return &Validator{suffix: suffix, maxSizeBytes: maxSizeBytes}
}

// Validate runs the staged checks against the raw file content and returns
// the parsed envelope on success. Filename is checked first so oversized or
// garbage content with the wrong extension is rejected cheaply.
func (v *Validator) Validate(filename string, raw []byte) (*Envelope, error) {
	if !strings.HasSuffix(strings.ToLower(filename), v.suffix) {
		return nil, &ValidationError{Stage: StageSuffix, Message: MsgUnsupportedType}
	}

	if int64(len(raw)) > v.maxSizeBytes {
		return nil, &ValidationError{Stage: StageSize, Message: MsgTooLarge}
	}

	// Cheap probe before paying for a full parse.
	trimmed := strings.TrimLeftFunc(string(raw), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if !strings.HasPrefix(trimmed, "{") {
		return nil, &ValidationError{Stage: StageProbe, Message: MsgNotSealFile}
	}

	var env Envelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return nil, &ValidationError{Stage: StageParse, Message: MsgMayBeCorrupted}
	}

	if env.Version.String() == "" || env.FileID == "" || env.Payload == "" {
		return nil, &ValidationError{Stage: StageSchema, Message: MsgIncomplete}
	}

	return &env, nil
}
