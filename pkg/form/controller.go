package form

import (
	"context"
	"log/slog"
	"sync"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// SubmitFunc receives the parsed record of a valid submission. Returning an
// error keeps the record and surfaces a *SubmitError.
type SubmitFunc func(ctx context.Context, values schema.Values) error

// Controller owns one form record. All methods are safe for concurrent use;
// the lock is released while a SubmitFunc runs and the submitting flag alone
// gates re-entrant submits.
type Controller struct {
	validator *validation.Validator
	schema    schema.Record

	mode          Mode
	defaults      schema.Values
	postSubmit    schema.Values
	hasPostSubmit bool
	logger        *slog.Logger
	listeners     []func(Snapshot)
	onSubmitError func(*SubmitError)
	newKey        func() string

	mu          sync.Mutex
	values      map[string]any
	errors      map[string][]string
	formErrors  []string
	dirty       map[string]bool
	status      Status
	validated   bool
	submitting  bool
	submitCount int
}

// New creates a controller for the validator's schema. The record starts at
// the schema defaults overlaid with WithDefaults.
func New(v *validation.Validator, opts ...Option) *Controller {
	c := &Controller{
		validator: v,
		schema:    v.Schema(),
		logger:    nopLogger(),
		newKey:    defaultKey,
		status:    StatusClean,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.defaults = c.overlay(c.defaults)
	if c.hasPostSubmit {
		c.postSubmit = c.overlay(c.postSubmit)
	} else {
		c.postSubmit = c.defaults
	}
	c.load(c.defaults)
	return c
}

// overlay merges values on top of the schema defaults.
func (c *Controller) overlay(values schema.Values) schema.Values {
	out := c.schema.EmptyValues()
	for k, v := range schema.CloneValues(values) {
		out[k] = v
	}
	return out
}

func (c *Controller) load(values schema.Values) {
	c.values = c.build(c.schema, values)
	c.errors = make(map[string][]string)
	c.formErrors = nil
	c.dirty = make(map[string]bool)
	c.submitCount = 0
	c.validated = false
}

// Mode reports the configured validation mode.
func (c *Controller) Mode() Mode { return c.mode }

// Schema returns the record schema the controller validates against.
func (c *Controller) Schema() schema.Record { return c.schema }

// Register binds a field path. Paths may select list entries by index or by
// identity key; the binding pins the entry key either way.
func (c *Controller) Register(path string) (*FieldBinding, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	field, stable, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	return &FieldBinding{controller: c, path: stable, field: field}, nil
}

func (c *Controller) resolve(path string) (schema.Field, string, error) {
	field, ok := c.schema.Resolve(path)
	if !ok {
		return schema.Field{}, "", &BindingError{Path: path, Reason: "no such field in schema"}
	}
	stable, ok := c.translate(path, true)
	if !ok {
		return schema.Field{}, "", &BindingError{Path: path, Reason: "list entry not found", Err: ErrEntryRemoved}
	}
	return field, stable, nil
}

// Value returns a copy of the value at path.
func (c *Controller) Value(path string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, stable, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	node, name, ok := c.container(stable)
	if !ok {
		return nil, &BindingError{Path: path, Reason: "list entry not found", Err: ErrEntryRemoved}
	}
	return exportValue(node[name]), nil
}

// SetValue overwrites the value at path and marks it dirty. The value is
// not type checked here; mismatches surface on the next validation.
func (c *Controller) SetValue(path string, value any) error {
	c.mu.Lock()
	field, stable, err := c.resolve(path)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	node, name, ok := c.container(stable)
	if !ok {
		c.mu.Unlock()
		return &BindingError{Path: path, Reason: "list entry not found", Err: ErrEntryRemoved}
	}

	switch field.Kind {
	case schema.KindList:
		node[name] = c.buildEntries(*field.Item, value)
		c.dropUnder(stable, false)
	case schema.KindObject:
		if nested, ok := value.(map[string]any); ok {
			node[name] = c.build(*field.Nested, nested)
		} else {
			node[name] = value
		}
	default:
		node[name] = deepCopy(value)
	}
	c.dirty[stable] = true
	c.afterChange()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
	return nil
}

// AppendListEntry adds an entry at the end of the list and returns its
// identity key. Missing item fields take their schema defaults. It does not
// validate.
func (c *Controller) AppendListEntry(listPath string, initial schema.Values) (string, error) {
	c.mu.Lock()
	field, stable, err := c.resolve(listPath)
	if err != nil {
		c.mu.Unlock()
		return "", err
	}
	if field.Kind != schema.KindList {
		c.mu.Unlock()
		return "", &BindingError{Path: listPath, Reason: "not a list field", Err: ErrNotList}
	}
	node, name, ok := c.container(stable)
	if !ok {
		c.mu.Unlock()
		return "", &BindingError{Path: listPath, Reason: "list entry not found", Err: ErrEntryRemoved}
	}

	entries, _ := node[name].([]*entry)
	created := c.newEntry(*field.Item, initial)
	node[name] = append(entries, created)
	c.dirty[stable] = true
	c.validated = false
	c.transition(StatusDirty)
	c.logger.Debug("list entry appended", "path", listPath, "key", created.key)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
	return created.key, nil
}

// RemoveListEntry removes the entry with the given identity key. Dirty flags
// and stored errors of the entry go with it, and the form revalidates when
// it has already been validated.
func (c *Controller) RemoveListEntry(listPath, key string) error {
	c.mu.Lock()
	field, stable, err := c.resolve(listPath)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if field.Kind != schema.KindList {
		c.mu.Unlock()
		return &BindingError{Path: listPath, Reason: "not a list field", Err: ErrNotList}
	}
	node, name, ok := c.container(stable)
	if !ok {
		c.mu.Unlock()
		return &BindingError{Path: listPath, Reason: "list entry not found", Err: ErrEntryRemoved}
	}

	entries, _ := node[name].([]*entry)
	idx := -1
	for i, e := range entries {
		if e.key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return &BindingError{Path: schema.JoinPath(listPath, key), Reason: "list entry not found", Err: ErrEntryRemoved}
	}

	remaining := make([]*entry, 0, len(entries)-1)
	remaining = append(remaining, entries[:idx]...)
	remaining = append(remaining, entries[idx+1:]...)
	node[name] = remaining
	c.dropUnder(schema.JoinPath(stable, key), true)
	c.dirty[stable] = true
	c.logger.Debug("list entry removed", "path", listPath, "key", key)

	if c.revalidates() || len(c.errors) > 0 {
		c.validateLocked()
	} else {
		c.validated = false
		c.transition(StatusDirty)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
	return nil
}

// Entries returns the identity keys of a list field in order.
func (c *Controller) Entries(listPath string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	field, stable, err := c.resolve(listPath)
	if err != nil {
		return nil, err
	}
	if field.Kind != schema.KindList {
		return nil, &BindingError{Path: listPath, Reason: "not a list field", Err: ErrNotList}
	}
	node, name, ok := c.container(stable)
	if !ok {
		return nil, &BindingError{Path: listPath, Reason: "list entry not found", Err: ErrEntryRemoved}
	}
	entries, _ := node[name].([]*entry)
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.key
	}
	return keys, nil
}

// Trigger validates the current record and stores the result.
func (c *Controller) Trigger() validation.Result {
	c.mu.Lock()
	_, result := c.validateLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
	return result
}

// SetErrors merges an external error payload (typically a server response)
// into the stored errors. Keys that do not resolve to a field become
// form-level errors. The next validation replaces them.
func (c *Controller) SetErrors(payload map[string][]string) {
	mapping := validation.MapErrorPayload(c.schema, payload)

	c.mu.Lock()
	for path, messages := range mapping.Fields {
		stable, ok := c.translate(path, true)
		if !ok {
			c.formErrors = append(c.formErrors, messages...)
			continue
		}
		c.errors[stable] = append(c.errors[stable], messages...)
	}
	c.formErrors = append(c.formErrors, mapping.Form...)
	if len(c.errors) > 0 || len(c.formErrors) > 0 {
		c.transition(StatusInvalid)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
}

// Submit validates the record and, when valid, calls onValid exactly once
// with the parsed record. While onValid runs the form reports IsSubmitting
// and further Submit calls return ErrSubmitInProgress. On success the form
// resets to its post-submit record; on failure the record is kept and a
// *SubmitError is returned. An invalid record returns the result with a nil
// error and onValid is not called.
func (c *Controller) Submit(ctx context.Context, onValid SubmitFunc) (validation.Result, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		c.logger.Debug("submit ignored while in progress")
		return validation.Result{}, ErrSubmitInProgress
	}
	c.submitting = true
	c.submitCount++
	parsed, result := c.validateLocked()
	if !result.Valid() {
		c.submitting = false
		c.logger.Info("submit rejected", "issues", len(result.Issues))
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(snap)
		return result, nil
	}
	c.transition(StatusSubmitting)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snap)

	var err error
	if onValid != nil {
		err = onValid(ctx, parsed)
	}

	c.mu.Lock()
	c.submitting = false
	var submitErr *SubmitError
	if err != nil {
		submitErr = &SubmitError{Err: err}
		if len(c.dirty) > 0 {
			c.transition(StatusDirty)
		} else {
			c.transition(StatusValid)
		}
		c.logger.Error("submit failed", "error", err)
	} else {
		c.load(c.postSubmit)
		c.transition(StatusClean)
		c.logger.Info("submit succeeded")
	}
	snap = c.snapshotLocked()
	handler := c.onSubmitError
	c.mu.Unlock()

	c.emit(snap)
	if submitErr != nil {
		if handler != nil {
			handler(submitErr)
		}
		return result, submitErr
	}
	return result, nil
}

// Reset replaces the record wholesale. A nil record restores the defaults.
// Dirty flags, stored errors and the submit count are cleared.
func (c *Controller) Reset(values schema.Values) {
	c.mu.Lock()
	if values == nil {
		c.load(c.defaults)
	} else {
		c.load(c.overlay(values))
	}
	c.transition(StatusClean)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
}

// IsSubmitting reports whether a submit callback is running.
func (c *Controller) IsSubmitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Status reports the current form status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) revalidates() bool {
	return c.mode == ValidateOnChange || c.submitCount > 0
}

func (c *Controller) afterChange() {
	if c.revalidates() {
		c.validateLocked()
		return
	}
	c.validated = false
	c.transition(StatusDirty)
}

// validateLocked runs the validator and replaces the stored errors.
func (c *Controller) validateLocked() (schema.Values, validation.Result) {
	c.transition(StatusValidating)
	parsed, result := c.validator.Parse(export(c.values))

	c.errors = make(map[string][]string, len(result.Errors))
	c.formErrors = nil
	c.validated = true
	for _, path := range result.Errors.Paths() {
		messages := result.Errors[path]
		key, ok := c.translate(path, true)
		if !ok {
			// no field to show it on
			c.formErrors = append(c.formErrors, messages...)
			continue
		}
		c.errors[key] = append(c.errors[key], messages...)
	}

	if result.Valid() {
		c.transition(StatusValid)
	} else {
		c.transition(StatusInvalid)
	}
	return parsed, result
}

// dropUnder removes dirty flags and errors at or beneath a stable path.
// With self false the path itself is kept.
func (c *Controller) dropUnder(prefix string, self bool) {
	for path := range c.dirty {
		if hasPrefix(path, prefix) && (self || path != prefix) {
			delete(c.dirty, path)
		}
	}
	for path := range c.errors {
		if hasPrefix(path, prefix) && (self || path != prefix) {
			delete(c.errors, path)
		}
	}
}

func (c *Controller) transition(to Status) {
	from := c.status
	if from == to {
		return
	}
	if c.submitting && from == StatusSubmitting {
		c.logger.Debug("status held while submitting", "to", to)
		return
	}
	if !CanTransition(from, to) {
		c.logger.Warn("illegal status transition ignored", "from", from, "to", to)
		return
	}
	c.status = to
	c.logger.Debug("status transition", "from", from, "to", to)
}

func (c *Controller) emit(snap Snapshot) {
	for _, listener := range c.listeners {
		listener(snap)
	}
}
