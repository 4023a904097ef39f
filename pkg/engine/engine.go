package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mockwire/mockwire/internal/matching"
	"github.com/mockwire/mockwire/internal/storage"
	"github.com/mockwire/mockwire/pkg/bundle"
	"github.com/mockwire/mockwire/pkg/logging"
	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/reqlog"
)

// ErrMalformedURL reports a request without a resolvable URL. Resolve fails
// immediately; the caller surfaces it as a delivery failure.
var ErrMalformedURL = errors.New("request has no resolvable URL")

// Outcome is the facade's resolution result: intercept with a status code
// and descriptor, or pass the request through to the real transport.
type Outcome struct {
	Intercepted bool
	StatusCode  int
	Descriptor  *mock.ResponseDescriptor
}

// HTTPMock describes one mock registration for a URL and method.
type HTTPMock struct {
	// URL is the full request URL to match.
	URL string
	// StatusCode is the response status. Zero defaults to 200.
	StatusCode int
	// Method restricts matching to one HTTP method. Empty means ALL.
	Method mock.Method
	// Source is where the response bytes come from.
	Source mock.PayloadSource
	// Delay defers delivery of the resolved response.
	Delay time.Duration
	// Predicate, when set, gates this registration on the request body.
	Predicate mock.BodyPredicate
	// Label is an optional identifier for diagnostics.
	Label string
}

// GraphQLMock describes one mock registration for a GraphQL operation.
type GraphQLMock struct {
	// URL is the GraphQL endpoint URL.
	URL string
	// Operation is the GraphQL operation name to match.
	Operation string
	// StatusCode is the response status. Zero defaults to 200.
	StatusCode int
	// Source is where the response bytes come from.
	Source mock.PayloadSource
	// Delay defers delivery of the resolved response.
	Delay time.Duration
	// Label is an optional identifier for diagnostics.
	Label string
}

// Engine is the interception facade. It holds the registry, the logging
// observer and the payload loader, each behind its own lock domain.
type Engine struct {
	registry *storage.Registry
	observer *reqlog.Observer
	loader   *bundle.Loader
	log      *slog.Logger
}

// New creates an Engine with an empty registry, logging disabled and the
// given payload loader. The loader may be nil when only pass-through and
// logging behavior is exercised.
func New(loader *bundle.Loader) *Engine {
	return &Engine{
		registry: storage.NewRegistry(),
		observer: reqlog.NewObserver(),
		loader:   loader,
		log:      logging.Nop(),
	}
}

// SetLogger sets the engine's diagnostic logger and propagates it to the
// observer and loader.
func (e *Engine) SetLogger(log *slog.Logger) {
	if log == nil {
		return
	}
	e.log = log
	e.observer.SetLogger(log)
	if e.loader != nil {
		e.loader.SetLogger(log)
	}
}

// Register adds a mock for (URL, method) at the given status code.
// Registering the same pair again appends another descriptor to the bucket.
func (e *Engine) Register(m HTTPMock) error {
	if m.URL == "" {
		return fmt.Errorf("mock registration requires a URL")
	}
	method := m.Method
	if method == "" {
		method = mock.MethodAll
	}
	if !method.Valid() {
		return fmt.Errorf("unsupported method %q", m.Method)
	}
	desc := &mock.ResponseDescriptor{
		Source:    m.Source,
		Delay:     m.Delay,
		Predicate: m.Predicate,
		Label:     m.Label,
	}
	if err := desc.Validate(); err != nil {
		return err
	}
	status := m.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	key := storage.DirectKey(m.URL, method)
	e.registry.Register(key, status, desc)
	e.log.Debug("registered mock", "key", key.String(), "status", status, "source", desc.Source.String())
	return nil
}

// RegisterGraphQL adds a mock for a GraphQL operation at the given endpoint.
func (e *Engine) RegisterGraphQL(g GraphQLMock) error {
	if g.URL == "" {
		return fmt.Errorf("graphql mock registration requires a URL")
	}
	if g.Operation == "" {
		return fmt.Errorf("graphql mock registration requires an operation name")
	}
	desc := &mock.ResponseDescriptor{
		Source: g.Source,
		Delay:  g.Delay,
		Label:  g.Label,
	}
	if err := desc.Validate(); err != nil {
		return err
	}
	status := g.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	key := storage.GraphQLKey(g.URL, g.Operation)
	e.registry.Register(key, status, desc)
	e.log.Debug("registered graphql mock", "key", key.String(), "status", status)
	return nil
}

// ClearAll empties the registry. The logging policy is untouched.
func (e *Engine) ClearAll() {
	e.registry.ClearAll()
	e.log.Debug("cleared all mocks")
}

// ConfigureLogging replaces the logging policy atomically. An empty urls
// list logs every URL; entries may be exact URLs or glob patterns.
func (e *Engine) ConfigureLogging(mode reqlog.Mode, urls []string, callback reqlog.Callback) {
	e.observer.Configure(mode, urls, callback)
}

// ShouldIntercept reports whether the interception hook should route the
// request through Resolve: true when the registry has any entry for the
// request's resolved key, or when logging covers the URL. Requests carrying
// the bypass marker are never intercepted, so a passed-through request the
// engine re-issues cannot recurse.
func (e *Engine) ShouldIntercept(r *http.Request) bool {
	if r == nil || r.URL == nil || IsBypass(r.Context()) {
		return false
	}
	url := r.URL.String()
	if url == "" {
		return false
	}
	body, err := CaptureBody(r)
	if err != nil {
		e.log.Warn("failed to capture request body", "url", url, "error", err)
		return false
	}
	if _, ok := matching.ResolveKey(e.registry, url, requestMethod(r), body); ok {
		return true
	}
	return e.observer.ShouldLog(url)
}

// Resolve runs the matching algorithm for the request and emits a log record
// exactly once, regardless of the outcome. A pass-through outcome is normal
// control flow, not an error.
func (e *Engine) Resolve(r *http.Request) (Outcome, error) {
	if r == nil || r.URL == nil || r.URL.String() == "" {
		return Outcome{}, ErrMalformedURL
	}
	url := r.URL.String()
	body, err := CaptureBody(r)
	if err != nil {
		return Outcome{}, fmt.Errorf("capture request body: %w", err)
	}

	e.observer.Emit(requestMethodString(r), url, r.Header, body)

	out := matching.Resolve(e.registry, url, requestMethod(r), body)
	if out.Intercepted {
		e.log.Debug("request resolved to mock", "url", url,
			"status", out.StatusCode, "label", out.Descriptor.Label)
	}
	return Outcome{
		Intercepted: out.Intercepted,
		StatusCode:  out.StatusCode,
		Descriptor:  out.Descriptor,
	}, nil
}

// LoadPayload fetches the bytes for a resolved descriptor through the
// engine's loader.
func (e *Engine) LoadPayload(desc *mock.ResponseDescriptor) ([]byte, error) {
	if desc == nil {
		return nil, fmt.Errorf("no descriptor to load payload for")
	}
	if e.loader == nil {
		return nil, &bundle.DataUnavailableError{Source: desc.Source.String()}
	}
	return e.loader.Load(desc.Source)
}

// requestMethod maps the request's method onto the registration enum.
// Methods outside the enum keep their literal value so they miss direct
// buckets and fall back to the ALL key.
func requestMethod(r *http.Request) mock.Method {
	return mock.Method(requestMethodString(r))
}

func requestMethodString(r *http.Request) string {
	if r.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(r.Method)
}
