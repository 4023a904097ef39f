// Package mock defines the data model for registered mock responses:
// request methods, payload sources, response descriptors and the body
// predicates used to select among descriptors sharing a key.
package mock

import (
	"fmt"
	"strings"
	"time"
)

// Method is the HTTP method a mock is registered under.
// MethodAll matches any concrete method during lookup fallback.
type Method string

// Supported methods.
const (
	MethodAll    Method = "ALL"
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// ParseMethod parses a method name case-insensitively.
// An empty string parses to MethodAll.
func ParseMethod(s string) (Method, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ALL", "*":
		return MethodAll, nil
	case "GET":
		return MethodGet, nil
	case "POST":
		return MethodPost, nil
	case "PUT":
		return MethodPut, nil
	case "PATCH":
		return MethodPatch, nil
	case "DELETE":
		return MethodDelete, nil
	default:
		return "", fmt.Errorf("unsupported method %q", s)
	}
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	switch m {
	case MethodAll, MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return true
	}
	return false
}

// PayloadSource identifies where the bytes for a mock response come from.
// Exactly one of Resource or File is set.
type PayloadSource struct {
	// Resource is a named resource resolved through the bundle lookup
	// (test-scoped location first, then the application location).
	Resource string `json:"resource,omitempty" yaml:"resource,omitempty"`

	// File is a direct path to a payload file.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// NamedResource returns a PayloadSource resolved by resource name.
func NamedResource(name string) PayloadSource {
	return PayloadSource{Resource: name}
}

// FileLocation returns a PayloadSource read directly from a file path.
func FileLocation(path string) PayloadSource {
	return PayloadSource{File: path}
}

// Validate checks the exactly-one-variant invariant.
func (s PayloadSource) Validate() error {
	switch {
	case s.Resource == "" && s.File == "":
		return fmt.Errorf("payload source requires a resource name or a file path")
	case s.Resource != "" && s.File != "":
		return fmt.Errorf("payload source cannot set both resource %q and file %q", s.Resource, s.File)
	}
	return nil
}

// String returns the populated variant for diagnostics.
func (s PayloadSource) String() string {
	if s.Resource != "" {
		return "resource:" + s.Resource
	}
	return "file:" + s.File
}

// BodyPredicate decides whether a descriptor applies to a captured request
// body. The body may be nil when the request carried none. Predicates run on
// concurrent resolution paths and must not mutate shared state.
type BodyPredicate func(body []byte) bool

// ResponseDescriptor describes one candidate mock response. Descriptors are
// immutable once registered; the status code lives on the registry bucket,
// not here.
type ResponseDescriptor struct {
	// Source is where the response bytes come from.
	Source PayloadSource

	// Delay defers delivery of the resolved response. Zero means immediate.
	Delay time.Duration

	// Predicate, when set, gates this descriptor on the request body.
	Predicate BodyPredicate

	// Label is an optional human-readable identifier for diagnostics.
	Label string
}

// Validate checks descriptor invariants before registration.
func (d *ResponseDescriptor) Validate() error {
	if d == nil {
		return fmt.Errorf("descriptor cannot be nil")
	}
	if err := d.Source.Validate(); err != nil {
		return err
	}
	if d.Delay < 0 {
		return fmt.Errorf("descriptor delay cannot be negative: %s", d.Delay)
	}
	return nil
}
