package matching

import (
	"github.com/mockwire/mockwire/internal/storage"
	"github.com/mockwire/mockwire/pkg/mock"
)

// Outcome is the single decision for a request: intercept with a descriptor
// and status code, or pass through to the real transport.
type Outcome struct {
	Intercepted bool
	StatusCode  int
	Descriptor  *mock.ResponseDescriptor
}

// PassThrough is the no-mock outcome. It is a normal control-flow result,
// never an error.
var PassThrough = Outcome{}

// ResolveKey picks the registry key a request resolves to, or reports that
// no key has registrations. GraphQL keys are attempted first: if the body's
// operation name computes a registered GraphQL key for the URL, that key is
// used. Otherwise the direct (url, method) key, then the (url, ALL) fallback.
func ResolveKey(reg *storage.Registry, url string, method mock.Method, body []byte) (storage.Key, bool) {
	if op, ok := OperationName(body); ok {
		key := storage.GraphQLKey(url, op)
		if reg.Contains(key) {
			return key, true
		}
	}
	key := storage.DirectKey(url, method)
	if reg.Contains(key) {
		return key, true
	}
	if method != mock.MethodAll {
		key = storage.DirectKey(url, mock.MethodAll)
		if reg.Contains(key) {
			return key, true
		}
	}
	return storage.Key{}, false
}

// SelectOutcome picks at most one descriptor from a registry snapshot.
//
// When any descriptor in the snapshot carries a predicate, only
// predicate-gated descriptors are eligible; they are evaluated against the
// captured body in ascending-status, insertion order, and the first match
// wins. No match means pass-through: once predicates are in play, falling
// back to a default would mask a missing fixture.
//
// Without predicates, status 200 wins if present, otherwise the lowest
// status code; the first descriptor of the winning bucket is returned.
func SelectOutcome(buckets storage.Buckets, body []byte) Outcome {
	if len(buckets) == 0 {
		return PassThrough
	}

	if buckets.HasPredicates() {
		for _, status := range buckets.Statuses() {
			for _, desc := range buckets[status] {
				if desc.Predicate == nil {
					continue
				}
				if desc.Predicate(body) {
					return Outcome{Intercepted: true, StatusCode: status, Descriptor: desc}
				}
			}
		}
		return PassThrough
	}

	if descs, ok := buckets[200]; ok && len(descs) > 0 {
		return Outcome{Intercepted: true, StatusCode: 200, Descriptor: descs[0]}
	}
	for _, status := range buckets.Statuses() {
		if descs := buckets[status]; len(descs) > 0 {
			return Outcome{Intercepted: true, StatusCode: status, Descriptor: descs[0]}
		}
	}
	return PassThrough
}

// Resolve combines key resolution and outcome selection against the live
// registry. The snapshot is taken once; registrations landing after the
// snapshot do not affect this resolution.
func Resolve(reg *storage.Registry, url string, method mock.Method, body []byte) Outcome {
	key, ok := ResolveKey(reg, url, method, body)
	if !ok {
		return PassThrough
	}
	buckets, ok := reg.Lookup(key)
	if !ok {
		return PassThrough
	}
	return SelectOutcome(buckets, body)
}
