// Package bundle resolves mock payload bytes from named resources or direct
// file locations.
//
// Named resources are searched in a test-scoped directory first, then the
// application directory, so a test fixture can shadow a shipped payload.
// Failures surface as *DataUnavailableError carrying the attempted source;
// the loader never substitutes empty bytes.
package bundle

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mockwire/mockwire/pkg/logging"
	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/util"
)

// ErrDataUnavailable is the sentinel matched by errors.Is for any payload
// that could not be loaded.
var ErrDataUnavailable = errors.New("mock data unavailable")

// DataUnavailableError reports a payload that could not be loaded, carrying
// the attempted resource name or path for diagnostics.
type DataUnavailableError struct {
	// Source is the descriptor's payload source, rendered for diagnostics.
	Source string
	// Err is the underlying cause, when one exists.
	Err error
}

// Error implements the error interface.
func (e *DataUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mock data unavailable for %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("mock data unavailable for %s", e.Source)
}

// Unwrap returns the underlying cause.
func (e *DataUnavailableError) Unwrap() error { return e.Err }

// Is matches the ErrDataUnavailable sentinel.
func (e *DataUnavailableError) Is(target error) bool { return target == ErrDataUnavailable }

// Loader reads payload bytes for resolved descriptors.
type Loader struct {
	// TestDir is the test-scoped resource directory, searched first.
	TestDir string
	// AppDir is the application resource directory, searched second.
	AppDir string

	log *slog.Logger
}

// NewLoader creates a Loader over the given resource directories.
// Either directory may be empty to skip that search location.
func NewLoader(testDir, appDir string) *Loader {
	return &Loader{
		TestDir: testDir,
		AppDir:  appDir,
		log:     logging.Nop(),
	}
}

// SetLogger sets the loader's diagnostic logger.
func (l *Loader) SetLogger(log *slog.Logger) {
	if log != nil {
		l.log = log
	}
}

// Load resolves the payload bytes for a source. Named resources are searched
// in TestDir then AppDir, trying the bare name and name+".json". Direct
// locations are read as-is after a path-traversal check.
func (l *Loader) Load(src mock.PayloadSource) ([]byte, error) {
	if err := src.Validate(); err != nil {
		return nil, &DataUnavailableError{Source: src.String(), Err: err}
	}
	if src.Resource != "" {
		return l.loadResource(src)
	}
	return l.loadFile(src)
}

func (l *Loader) loadResource(src mock.PayloadSource) ([]byte, error) {
	name, safe := util.SafeFilePath(src.Resource)
	if !safe {
		return nil, &DataUnavailableError{
			Source: src.String(),
			Err:    fmt.Errorf("resource name %q escapes the resource directory", src.Resource),
		}
	}

	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = append(candidates, name+".json")
	}

	var firstErr error
	for _, dir := range []string{l.TestDir, l.AppDir} {
		if dir == "" {
			continue
		}
		for _, candidate := range candidates {
			data, err := os.ReadFile(filepath.Join(dir, candidate))
			if err == nil {
				return data, nil
			}
			if firstErr == nil && !os.IsNotExist(err) {
				firstErr = err
			}
		}
	}

	l.log.Debug("resource not found in any location", "resource", src.Resource,
		"testDir", l.TestDir, "appDir", l.AppDir)
	return nil, &DataUnavailableError{Source: src.String(), Err: firstErr}
}

func (l *Loader) loadFile(src mock.PayloadSource) ([]byte, error) {
	path, safe := util.SafeFilePathAllowAbsolute(src.File)
	if !safe {
		return nil, &DataUnavailableError{
			Source: src.String(),
			Err:    fmt.Errorf("file path %q contains path traversal", src.File),
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataUnavailableError{Source: src.String(), Err: err}
	}
	return data, nil
}
