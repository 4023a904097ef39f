package storage

import (
	"sort"
	"sync"

	"github.com/mockwire/mockwire/pkg/mock"
)

// Buckets is the snapshot of one registry entry: status code to the ordered
// list of descriptors registered under it.
type Buckets map[int][]*mock.ResponseDescriptor

// Statuses returns the bucket status codes in ascending order, which is the
// deterministic iteration order the matching engine uses.
func (b Buckets) Statuses() []int {
	codes := make([]int, 0, len(b))
	for code := range b {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// HasPredicates reports whether any descriptor in any bucket carries a body
// predicate.
func (b Buckets) HasPredicates() bool {
	for _, descs := range b {
		for _, d := range descs {
			if d.Predicate != nil {
				return true
			}
		}
	}
	return false
}

// Registry is a thread-safe store of mock registrations. Mutations exclude
// all reads; reads run concurrently with each other and always observe
// either the pre-write or post-write state of an entry, never a partial one.
type Registry struct {
	mu      sync.RWMutex
	entries map[Key]Buckets
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[Key]Buckets),
	}
}

// Register appends the descriptor to the bucket for (key, statusCode),
// creating the entry and bucket as needed. Re-registering the same pair
// appends rather than replaces, so several predicate-gated variants can
// coexist and are tried in insertion order.
func (r *Registry) Register(key Key, statusCode int, desc *mock.ResponseDescriptor) {
	if desc == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	buckets, ok := r.entries[key]
	if !ok {
		buckets = make(Buckets)
		r.entries[key] = buckets
	}
	buckets[statusCode] = append(buckets[statusCode], desc)
}

// ClearAll empties the registry. Clearing an empty registry is a no-op.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[Key]Buckets)
}

// Lookup returns a snapshot of the entry for key, or (nil, false) when the
// key has no registrations. The snapshot's maps and slices are copies;
// descriptor pointers are shared because descriptors are immutable.
func (r *Registry) Lookup(key Key) (Buckets, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	buckets, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	snapshot := make(Buckets, len(buckets))
	for code, descs := range buckets {
		copied := make([]*mock.ResponseDescriptor, len(descs))
		copy(copied, descs)
		snapshot[code] = copied
	}
	return snapshot, true
}

// Contains reports whether the key has any registration.
func (r *Registry) Contains(key Key) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Count returns the number of registered keys.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
