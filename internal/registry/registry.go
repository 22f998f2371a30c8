// Package registry maps type tags to constructors.
//
// Configuration documents name their entity variant with a string tag
// ("lightbulb", "zigbee", "room"). A Registry turns that tag into a concrete
// value by calling the constructor registered for it; an unknown tag is a
// typed *Error so callers can report exactly which tag was not recognised.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownTag is wrapped by *Error when New is called with an unregistered tag.
	ErrUnknownTag = errors.New("registry: unknown type tag")

	// ErrEmptyTag is returned when registering an empty tag.
	ErrEmptyTag = errors.New("registry: empty type tag")

	// ErrNilConstructor is returned when registering a nil constructor.
	ErrNilConstructor = errors.New("registry: nil constructor")

	// ErrDuplicateTag is returned when a tag is registered twice.
	ErrDuplicateTag = errors.New("registry: duplicate type tag")
)

// Error reports an unrecognised type tag for a given entity kind.
type Error struct {
	Kind string // entity kind, e.g. "equipment"
	Tag  string // the tag that was looked up
}

func (e *Error) Error() string {
	return fmt.Sprintf("registry error: unknown %s type %q", e.Kind, e.Tag)
}

// Unwrap returns ErrUnknownTag.
func (e *Error) Unwrap() error {
	return ErrUnknownTag
}

// Constructor builds a T from construction arguments A.
type Constructor[A, T any] func(args A) (T, error)

// Registry is a tag → constructor table for one entity kind.
//
// Thread Safety: all methods are safe for concurrent use.
type Registry[A, T any] struct {
	kind  string
	mu    sync.RWMutex
	ctors map[string]Constructor[A, T]
}

// New creates an empty registry for the named entity kind.
func New[A, T any](kind string) *Registry[A, T] {
	return &Registry[A, T]{
		kind:  kind,
		ctors: make(map[string]Constructor[A, T]),
	}
}

// Kind returns the entity kind this registry constructs.
func (r *Registry[A, T]) Kind() string {
	return r.kind
}

// Register associates tag with ctor.
func (r *Registry[A, T]) Register(tag string, ctor Constructor[A, T]) error {
	if tag == "" {
		return ErrEmptyTag
	}
	if ctor == nil {
		return ErrNilConstructor
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ctors[tag]; exists {
		return fmt.Errorf("%w: %s %q", ErrDuplicateTag, r.kind, tag)
	}
	r.ctors[tag] = ctor
	return nil
}

// MustRegister is Register for package-level wiring; it panics on error.
func (r *Registry[A, T]) MustRegister(tag string, ctor Constructor[A, T]) {
	if err := r.Register(tag, ctor); err != nil {
		panic(err)
	}
}

// New constructs the variant registered under tag.
//
// Returns:
//   - T: The constructed value
//   - error: *Error if tag is unknown, otherwise whatever the constructor returns
func (r *Registry[A, T]) New(tag string, args A) (T, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[tag]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, &Error{Kind: r.kind, Tag: tag}
	}
	return ctor(args)
}

// Has reports whether tag is registered.
func (r *Registry[A, T]) Has(tag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ctors[tag]
	return ok
}

// Tags returns the registered tags in sorted order.
func (r *Registry[A, T]) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.ctors))
	for tag := range r.ctors {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Len returns the number of registered tags.
func (r *Registry[A, T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ctors)
}
