package form

import "github.com/goliatone/go-formkit/pkg/schema"

// FieldBinding is a handle on one registered field. Bindings inside list
// entries follow their entry by identity key, so removing other entries
// never redirects them.
type FieldBinding struct {
	controller *Controller
	path       string
	field      schema.Field
}

// Field returns the bound field schema.
func (b *FieldBinding) Field() schema.Field { return b.field }

// Key returns the stable path of the binding, with identity keys in place of
// list indexes.
func (b *FieldBinding) Key() string { return b.path }

// Path returns the current index path, or ErrEntryRemoved when the entry
// the binding lives in is gone.
func (b *FieldBinding) Path() (string, error) {
	c := b.controller
	c.mu.Lock()
	defer c.mu.Unlock()
	path, ok := c.translate(b.path, false)
	if !ok {
		return "", ErrEntryRemoved
	}
	return path, nil
}

// Value returns the current value of the field.
func (b *FieldBinding) Value() (any, error) {
	return b.controller.Value(b.path)
}

// Set writes a value through the controller.
func (b *FieldBinding) Set(value any) error {
	return b.controller.SetValue(b.path, value)
}

// Errors returns the messages currently stored for the field.
func (b *FieldBinding) Errors() []string {
	c := b.controller
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.errors[b.path]...)
}

// Dirty reports whether the field changed since the last reset.
func (b *FieldBinding) Dirty() bool {
	c := b.controller
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty[b.path]
}
