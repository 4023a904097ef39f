package storage

import (
	"github.com/mockwire/mockwire/pkg/mock"
)

// keyKind separates direct and GraphQL key namespaces.
type keyKind uint8

const (
	kindDirect keyKind = iota
	kindGraphQL
)

// Key identifies one registry entry. Keys are comparable and safe to use as
// map keys. Direct keys with the same URL but different methods are distinct
// entries; GraphQL keys never collide with direct keys sharing the URL.
type Key struct {
	kind      keyKind
	url       string
	method    mock.Method
	operation string
}

// DirectKey builds the key for a URL/method registration.
func DirectKey(url string, method mock.Method) Key {
	return Key{kind: kindDirect, url: url, method: method}
}

// GraphQLKey builds the key for a URL/operation-name registration.
func GraphQLKey(url, operationName string) Key {
	return Key{kind: kindGraphQL, url: url, operation: operationName}
}

// URL returns the key's URL string.
func (k Key) URL() string { return k.url }

// IsGraphQL reports whether the key lives in the GraphQL namespace.
func (k Key) IsGraphQL() bool { return k.kind == kindGraphQL }

// String renders the key for diagnostics and log attributes.
func (k Key) String() string {
	if k.kind == kindGraphQL {
		return "graphql " + k.operation + " " + k.url
	}
	return string(k.method) + " " + k.url
}
