// Package storage provides the concurrent mock registry.
//
// The registry maps a match key (URL plus method, or URL plus GraphQL
// operation name) to status-code buckets of response descriptors. Within one
// bucket, descriptors keep insertion order; resolution tries them first to
// last.
//
// Key types:
//
//   - Key: comparable identity of a registry entry, built with DirectKey or
//     GraphQLKey. The two key kinds never collide, even for the same URL.
//   - Buckets: snapshot of one entry, statusCode -> ordered descriptors.
//   - Registry: thread-safe store; writes are writer-exclusive, reads run
//     concurrently and observe a consistent snapshot.
package storage
