// Package matching implements the mock resolution algorithm.
//
// Resolution is split into two pure steps:
//
//   - ResolveKey picks the registry key for a live request: the GraphQL key
//     derived from the body's operation name when registered, otherwise the
//     direct URL/method key, otherwise the URL/ALL fallback.
//   - SelectOutcome picks at most one descriptor from the key's snapshot.
//     When any descriptor carries a body predicate, only predicate-gated
//     descriptors are eligible and the first satisfied one wins; an
//     unsatisfied predicate set means pass-through, not default fallback.
//     Without predicates, status 200 wins, then ascending status order.
//
// Neither step takes locks or performs I/O; both operate on a registry
// snapshot and a captured body.
package matching
