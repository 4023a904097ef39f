package storage

import (
	"fmt"
	"sync"
	"testing"

	"github.com/mockwire/mockwire/pkg/mock"
)

func newDescriptor(label string) *mock.ResponseDescriptor {
	return &mock.ResponseDescriptor{
		Source: mock.NamedResource(label),
		Label:  label,
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if reg.Count() != 0 {
		t.Errorf("new registry Count() = %d, want 0", reg.Count())
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	key := DirectKey("https://api.example.com/users", mock.MethodGet)
	desc := newDescriptor("users")

	reg.Register(key, 200, desc)

	buckets, ok := reg.Lookup(key)
	if !ok {
		t.Fatal("Lookup() reported key absent after Register")
	}
	if len(buckets[200]) != 1 {
		t.Fatalf("bucket 200 has %d descriptors, want 1", len(buckets[200]))
	}
	if buckets[200][0] != desc {
		t.Error("Lookup() returned a different descriptor")
	}
}

func TestRegistry_RegisterNil(t *testing.T) {
	reg := NewRegistry()
	reg.Register(DirectKey("https://x", mock.MethodGet), 200, nil)
	if reg.Count() != 0 {
		t.Errorf("Count() after nil register = %d, want 0", reg.Count())
	}
}

func TestRegistry_AppendSameBucket(t *testing.T) {
	reg := NewRegistry()
	key := DirectKey("https://api.example.com/users", mock.MethodPost)
	first := newDescriptor("first")
	second := newDescriptor("second")

	reg.Register(key, 200, first)
	reg.Register(key, 200, second)

	buckets, _ := reg.Lookup(key)
	if got := len(buckets[200]); got != 2 {
		t.Fatalf("bucket 200 has %d descriptors, want 2", got)
	}
	if buckets[200][0].Label != "first" || buckets[200][1].Label != "second" {
		t.Error("bucket does not preserve insertion order")
	}
}

// Registering under one method must not affect another method on the same URL.
func TestRegistry_KeyIsolation(t *testing.T) {
	reg := NewRegistry()
	url := "https://api.example.com/users"

	reg.Register(DirectKey(url, mock.MethodGet), 200, newDescriptor("get"))

	if reg.Contains(DirectKey(url, mock.MethodPost)) {
		t.Error("GET registration leaked into POST key")
	}
	if reg.Contains(DirectKey(url, mock.MethodAll)) {
		t.Error("GET registration leaked into ALL key")
	}
	if !reg.Contains(DirectKey(url, mock.MethodGet)) {
		t.Error("GET key missing after registration")
	}
}

func TestRegistry_GraphQLNamespace(t *testing.T) {
	reg := NewRegistry()
	url := "https://api.example.com/graphql"

	reg.Register(GraphQLKey(url, "GetUser"), 200, newDescriptor("op"))

	if reg.Contains(DirectKey(url, mock.MethodPost)) {
		t.Error("GraphQL key collided with direct POST key")
	}
	if reg.Contains(DirectKey(url, mock.MethodAll)) {
		t.Error("GraphQL key collided with direct ALL key")
	}
	if !reg.Contains(GraphQLKey(url, "GetUser")) {
		t.Error("GraphQL key missing after registration")
	}
}

func TestRegistry_ClearAllIdempotent(t *testing.T) {
	reg := NewRegistry()

	reg.ClearAll() // empty clear must not panic

	key := DirectKey("https://api.example.com/users", mock.MethodGet)
	reg.Register(key, 200, newDescriptor("users"))
	reg.ClearAll()

	if reg.Count() != 0 {
		t.Errorf("Count() after ClearAll = %d, want 0", reg.Count())
	}
	if reg.Contains(key) {
		t.Error("key still present after ClearAll")
	}
	reg.ClearAll() // clearing again stays a no-op
}

func TestRegistry_LookupSnapshotIsolated(t *testing.T) {
	reg := NewRegistry()
	key := DirectKey("https://api.example.com/users", mock.MethodGet)
	reg.Register(key, 200, newDescriptor("one"))

	snapshot, _ := reg.Lookup(key)
	reg.Register(key, 200, newDescriptor("two"))

	if got := len(snapshot[200]); got != 1 {
		t.Errorf("snapshot grew after a later Register: len = %d, want 1", got)
	}
	// Mutating the snapshot must not reach the registry.
	snapshot[200] = nil
	fresh, _ := reg.Lookup(key)
	if got := len(fresh[200]); got != 2 {
		t.Errorf("registry affected by snapshot mutation: len = %d, want 2", got)
	}
}

// Concurrent registrations of distinct keys followed by concurrent lookups
// must retrieve exactly the registered descriptor for each key, with no lost
// updates and no torn reads.
func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	const n = 64

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url := fmt.Sprintf("https://api.example.com/resource/%d", i)
			reg.Register(DirectKey(url, mock.MethodGet), 200, newDescriptor(fmt.Sprintf("desc-%d", i)))
		}(i)
	}
	wg.Wait()

	if reg.Count() != n {
		t.Fatalf("Count() = %d, want %d", reg.Count(), n)
	}

	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url := fmt.Sprintf("https://api.example.com/resource/%d", i)
			buckets, ok := reg.Lookup(DirectKey(url, mock.MethodGet))
			if !ok {
				errs <- fmt.Errorf("key %d missing", i)
				return
			}
			descs := buckets[200]
			if len(descs) != 1 {
				errs <- fmt.Errorf("key %d has %d descriptors, want 1", i, len(descs))
				return
			}
			if want := fmt.Sprintf("desc-%d", i); descs[0].Label != want {
				errs <- fmt.Errorf("key %d resolved %q, want %q", i, descs[0].Label, want)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

// Readers racing a writer must observe either the pre-write or post-write
// bucket, never a partial one.
func TestRegistry_ReadersDuringWrites(t *testing.T) {
	reg := NewRegistry()
	key := DirectKey("https://api.example.com/hot", mock.MethodGet)
	reg.Register(key, 200, newDescriptor("seed"))

	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			reg.Register(key, 200, newDescriptor(fmt.Sprintf("w-%d", i)))
			if i%10 == 0 {
				reg.ClearAll()
				reg.Register(key, 200, newDescriptor("seed"))
			}
		}
		close(done)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				buckets, ok := reg.Lookup(key)
				if !ok {
					continue
				}
				for _, d := range buckets[200] {
					if d == nil {
						t.Error("observed nil descriptor in bucket")
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
