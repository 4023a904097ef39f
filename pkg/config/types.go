// Package config loads declarative mock sets from YAML or JSON files and
// registers them onto an engine.
package config

import (
	"fmt"
	"time"

	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/reqlog"
)

// File is the root of a mock-set file.
type File struct {
	// Mocks are URL/method registrations.
	Mocks []MockEntry `json:"mocks,omitempty" yaml:"mocks,omitempty"`

	// GraphQL are operation-name registrations.
	GraphQL []GraphQLEntry `json:"graphql,omitempty" yaml:"graphql,omitempty"`

	// Logging, when present, configures the request-logging policy.
	Logging *LoggingEntry `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// MockEntry is one declarative URL/method mock.
type MockEntry struct {
	URL    string `json:"url" yaml:"url"`
	Method string `json:"method,omitempty" yaml:"method,omitempty"`
	Status int    `json:"status,omitempty" yaml:"status,omitempty"`

	// Resource or File selects the payload source (exactly one).
	Resource string `json:"resource,omitempty" yaml:"resource,omitempty"`
	File     string `json:"file,omitempty" yaml:"file,omitempty"`

	// Delay is a duration string, e.g. "200ms".
	Delay string `json:"delay,omitempty" yaml:"delay,omitempty"`

	// BodyExpr gates the mock on an expression over the request body.
	BodyExpr string `json:"bodyExpr,omitempty" yaml:"bodyExpr,omitempty"`

	// BodyJSONPath gates the mock on JSONPath conditions over the body.
	BodyJSONPath map[string]any `json:"bodyJsonPath,omitempty" yaml:"bodyJsonPath,omitempty"`

	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// GraphQLEntry is one declarative GraphQL operation mock.
type GraphQLEntry struct {
	URL       string `json:"url" yaml:"url"`
	Operation string `json:"operation" yaml:"operation"`
	Status    int    `json:"status,omitempty" yaml:"status,omitempty"`
	Resource  string `json:"resource,omitempty" yaml:"resource,omitempty"`
	File      string `json:"file,omitempty" yaml:"file,omitempty"`
	Delay     string `json:"delay,omitempty" yaml:"delay,omitempty"`
	Label     string `json:"label,omitempty" yaml:"label,omitempty"`
}

// LoggingEntry configures the request-logging policy from a file.
type LoggingEntry struct {
	Mode string   `json:"mode" yaml:"mode"`
	URLs []string `json:"urls,omitempty" yaml:"urls,omitempty"`
}

// ParsedMode parses the entry's logging mode.
func (l *LoggingEntry) ParsedMode() reqlog.Mode {
	return reqlog.ParseMode(l.Mode)
}

func payloadSource(resource, file string) (mock.PayloadSource, error) {
	switch {
	case resource != "" && file != "":
		return mock.PayloadSource{}, fmt.Errorf("resource and file are mutually exclusive")
	case resource != "":
		return mock.NamedResource(resource), nil
	case file != "":
		return mock.FileLocation(file), nil
	default:
		return mock.PayloadSource{}, fmt.Errorf("a resource name or file path is required")
	}
}

func parseDelay(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse delay %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("delay %q cannot be negative", s)
	}
	return d, nil
}
