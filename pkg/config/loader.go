package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mockwire/mockwire/pkg/engine"
	"github.com/mockwire/mockwire/pkg/mock"
)

// Load reads a mock-set file. The format is chosen by extension: .json is
// parsed as JSON, everything else as YAML.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mock set: %w", err)
	}
	return Parse(data, strings.EqualFold(filepath.Ext(path), ".json"))
}

// Parse decodes a mock-set document.
func Parse(data []byte, asJSON bool) (*File, error) {
	var f File
	if asJSON {
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse mock set: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse mock set: %w", err)
		}
	}
	return &f, nil
}

// Apply registers every entry in the file onto the engine, and applies the
// logging policy when one is declared. The first invalid entry aborts with
// its position in the file.
func (f *File) Apply(e *engine.Engine) error {
	for i, entry := range f.Mocks {
		m, err := entry.toHTTPMock()
		if err != nil {
			return fmt.Errorf("mocks[%d]: %w", i, err)
		}
		if err := e.Register(m); err != nil {
			return fmt.Errorf("mocks[%d]: %w", i, err)
		}
	}
	for i, entry := range f.GraphQL {
		g, err := entry.toGraphQLMock()
		if err != nil {
			return fmt.Errorf("graphql[%d]: %w", i, err)
		}
		if err := e.RegisterGraphQL(g); err != nil {
			return fmt.Errorf("graphql[%d]: %w", i, err)
		}
	}
	if f.Logging != nil {
		e.ConfigureLogging(f.Logging.ParsedMode(), f.Logging.URLs, nil)
	}
	return nil
}

func (m MockEntry) toHTTPMock() (engine.HTTPMock, error) {
	method, err := mock.ParseMethod(m.Method)
	if err != nil {
		return engine.HTTPMock{}, err
	}
	source, err := payloadSource(m.Resource, m.File)
	if err != nil {
		return engine.HTTPMock{}, err
	}
	delay, err := parseDelay(m.Delay)
	if err != nil {
		return engine.HTTPMock{}, err
	}
	predicate, err := m.predicate()
	if err != nil {
		return engine.HTTPMock{}, err
	}
	return engine.HTTPMock{
		URL:        m.URL,
		StatusCode: m.Status,
		Method:     method,
		Source:     source,
		Delay:      delay,
		Predicate:  predicate,
		Label:      m.Label,
	}, nil
}

// predicate builds the entry's body predicate. BodyExpr and BodyJSONPath are
// mutually exclusive.
func (m MockEntry) predicate() (mock.BodyPredicate, error) {
	if m.BodyExpr != "" && len(m.BodyJSONPath) > 0 {
		return nil, fmt.Errorf("bodyExpr and bodyJsonPath are mutually exclusive")
	}
	if m.BodyExpr != "" {
		return mock.ExprPredicate(m.BodyExpr)
	}
	if len(m.BodyJSONPath) > 0 {
		return mock.JSONPathPredicate(m.BodyJSONPath)
	}
	return nil, nil
}

func (g GraphQLEntry) toGraphQLMock() (engine.GraphQLMock, error) {
	source, err := payloadSource(g.Resource, g.File)
	if err != nil {
		return engine.GraphQLMock{}, err
	}
	delay, err := parseDelay(g.Delay)
	if err != nil {
		return engine.GraphQLMock{}, err
	}
	return engine.GraphQLMock{
		URL:        g.URL,
		Operation:  g.Operation,
		StatusCode: g.Status,
		Source:     source,
		Delay:      delay,
		Label:      g.Label,
	}, nil
}
