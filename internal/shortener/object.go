package shortener

import "context"

// Namespace is a key prefix within which generated names must be unique.
type Namespace string

const (
	// NamespaceLinks holds redirect objects at the bucket root.
	NamespaceLinks Namespace = ""
	// NamespaceFiles holds uploaded files.
	NamespaceFiles Namespace = "f/"
)

// Key returns the full object key for a name in the namespace.
func (n Namespace) Key(name string) string {
	return string(n) + name
}

// Prefix returns the listing prefix of the namespace.
func (n Namespace) Prefix() string {
	return string(n)
}

// Label is a printable namespace name for logs and metrics.
func (n Namespace) Label() string {
	if n == NamespaceLinks {
		return "root"
	}

	return string(n)
}

// Object is a single write to the object store.
type Object struct {
	Key         string
	Body        []byte
	ContentType string
	Tags        map[string]string
	// RedirectLocation makes the bucket website answer the key with a redirect.
	RedirectLocation string
	// IfAbsent asks the store to fail with ErrKeyTaken instead of overwriting.
	IfAbsent bool
}

// ObjectStore is the narrow view of the bucket used by the services.
type ObjectStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Put(ctx context.Context, obj *Object) error
	// Count returns the number of objects directly under prefix.
	Count(ctx context.Context, prefix string) (int, error)
}

// ShortLink is a redirect object written by LinkService.
type ShortLink struct {
	Code   string
	Target string
}

// Key returns the object key of the link.
func (l *ShortLink) Key() string {
	return NamespaceLinks.Key(l.Code)
}
