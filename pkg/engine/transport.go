package engine

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Transport is the reference interception hook for Go HTTP clients: an
// http.RoundTripper that consults the engine first and falls through to the
// base transport when no mock applies. Install it on an http.Client:
//
//	client := &http.Client{Transport: engine.NewTransport(eng, nil)}
//
// Resolved responses are delivered with the descriptor's payload bytes, the
// bucket's status code and a Content-Type: application/json header. The
// per-response delay runs after resolution with no locks held and is
// cancelled by the request context.
type Transport struct {
	engine *Engine
	base   http.RoundTripper
}

// NewTransport creates a Transport over base. A nil base falls back to
// http.DefaultTransport.
func NewTransport(engine *Engine, base http.RoundTripper) *Transport {
	return &Transport{engine: engine, base: base}
}

func (t *Transport) baseTransport() http.RoundTripper {
	if t.base != nil {
		return t.base
	}
	return http.DefaultTransport
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.engine.ShouldIntercept(req) {
		return t.baseTransport().RoundTrip(req)
	}

	out, err := t.engine.Resolve(req)
	if err != nil {
		return nil, err
	}
	if !out.Intercepted {
		// Re-issue through the real transport with the bypass marker so
		// the hook does not intercept it again.
		return t.baseTransport().RoundTrip(req.WithContext(WithBypass(req.Context())))
	}

	ctx := req.Context()
	if delay := out.Descriptor.Delay; delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	// Cancellation is re-checked at every resumption point: after the
	// delay, and again after payload loading, before any delivery.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := t.engine.LoadPayload(out.Descriptor)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	header.Set("Content-Length", strconv.Itoa(len(payload)))

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", out.StatusCode, http.StatusText(out.StatusCode)),
		StatusCode:    out.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(payload)),
		ContentLength: int64(len(payload)),
		Request:       req,
	}, nil
}

// Compile-time check that Transport implements http.RoundTripper.
var _ http.RoundTripper = (*Transport)(nil)
