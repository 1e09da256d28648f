package cache

import (
	"fmt"
	"strings"
)

// Keyer builds cache keys for each kind of cached value.
type Keyer interface {
	// HTTPKey keys a raw taxonomy-service response.
	HTTPKey(namespace, key string) string
	// AliasKey keys the vernacular-alias list of a taxon.
	AliasKey(taxonKey int64) string
	// TreeKey keys a persisted tree.
	TreeKey(name string) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// AliasKey returns "alias:<taxonKey>".
func (DefaultKeyer) AliasKey(taxonKey int64) string {
	return fmt.Sprintf("alias:%d", taxonKey)
}

// TreeKey returns the name unchanged so trees written by older builds under
// a bare key keep loading.
func (DefaultKeyer) TreeKey(name string) string {
	return strings.TrimSpace(name)
}

// ScopedKeyer wraps a Keyer with a prefix, isolating several deployments
// (or users) that share one redis or mongo backend.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "evotree:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
// A nil inner keyer falls back to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey generates a prefixed HTTP response key.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// AliasKey generates a prefixed alias-list key.
func (k *ScopedKeyer) AliasKey(taxonKey int64) string {
	return k.prefix + k.inner.AliasKey(taxonKey)
}

// TreeKey generates a prefixed tree key.
func (k *ScopedKeyer) TreeKey(name string) string {
	return k.prefix + k.inner.TreeKey(name)
}
