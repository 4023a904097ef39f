// Package engine provides the interception facade of the request-mocking
// engine.
//
// An Engine owns the mock registry, the logging observer and the payload
// loader. It is constructed once per process or test run and injected into
// every consumer; there is no package-level shared state. The interception
// hook for Go HTTP clients is Transport, an http.RoundTripper that consults
// the engine before letting a request reach the real transport.
package engine
