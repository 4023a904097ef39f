// Package reqlog holds the request-logging policy and the observer that
// emits log records for intercepted traffic.
//
// The policy (mode, URL allow-set, callback) lives behind its own lock,
// independent of the mock registry: reconfiguring logging never stalls
// request resolution and vice versa. Emit dispatches the callback on its own
// goroutine outside the policy lock, so a callback may re-enter Configure
// without deadlocking and a panicking callback never reaches the request
// path.
package reqlog
