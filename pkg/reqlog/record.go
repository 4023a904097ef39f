package reqlog

import (
	"net/http"
	"time"
)

// Mode controls how much of each request is logged.
type Mode string

// Logging modes.
const (
	// ModeNone disables request logging.
	ModeNone Mode = "none"
	// ModeCompact logs method, URL and body, omitting headers.
	ModeCompact Mode = "compact"
	// ModeVerbose logs method, URL, headers and body.
	ModeVerbose Mode = "verbose"
)

// ParseMode parses a mode string. Unrecognized values disable logging.
func ParseMode(s string) Mode {
	switch s {
	case "compact", "COMPACT":
		return ModeCompact
	case "verbose", "VERBOSE":
		return ModeVerbose
	default:
		return ModeNone
	}
}

// Record captures the metadata of one observed request.
type Record struct {
	// ID is a unique identifier for the record.
	ID string `json:"id"`

	// Time is when the request was observed.
	Time time.Time `json:"time"`

	// Method is the HTTP method.
	Method string `json:"method"`

	// URL is the full request URL.
	URL string `json:"url"`

	// Headers are the request headers. Present only in verbose mode.
	Headers http.Header `json:"headers,omitempty"`

	// Body is the captured request body, truncated for safety.
	Body []byte `json:"body,omitempty"`
}

// Callback receives records for observed requests. It runs on a goroutine
// owned by the observer, never on the request path.
type Callback func(*Record)
