package form

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Mode selects when the controller revalidates on its own.
type Mode int

const (
	// ValidateOnSubmit validates on Submit and Trigger. After the first
	// submit attempt every change revalidates so errors clear as the user
	// fixes them.
	ValidateOnSubmit Mode = iota
	// ValidateOnChange revalidates after every value change.
	ValidateOnChange
)

func (m Mode) String() string {
	switch m {
	case ValidateOnChange:
		return "onChange"
	default:
		return "onSubmit"
	}
}

// ParseMode maps "onChange"/"change" and "onSubmit"/"submit" to a Mode.
func ParseMode(value string) (Mode, bool) {
	switch value {
	case "onChange", "change", "on_change":
		return ValidateOnChange, true
	case "onSubmit", "submit", "on_submit", "":
		return ValidateOnSubmit, true
	default:
		return ValidateOnSubmit, false
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithMode sets the validation mode.
func WithMode(mode Mode) Option {
	return func(c *Controller) {
		c.mode = mode
	}
}

// WithDefaults overlays values on top of the schema defaults. The result is
// both the initial record and the record Reset(nil) restores.
func WithDefaults(values schema.Values) Option {
	return func(c *Controller) {
		c.defaults = schema.CloneValues(values)
	}
}

// WithPostSubmitValues sets the record loaded after a successful submit.
// Without it the form returns to its defaults.
func WithPostSubmitValues(values schema.Values) Option {
	return func(c *Controller) {
		c.postSubmit = schema.CloneValues(values)
		c.hasPostSubmit = true
	}
}

// WithLogger sets the logger used for status transitions and submit outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStateListener registers a callback invoked with a fresh snapshot after
// every mutation. It runs outside the controller lock and may call back into
// the controller.
func WithStateListener(fn func(Snapshot)) Option {
	return func(c *Controller) {
		if fn != nil {
			c.listeners = append(c.listeners, fn)
		}
	}
}

// WithSubmitErrorHandler registers a callback for failed submit callbacks.
func WithSubmitErrorHandler(fn func(*SubmitError)) Option {
	return func(c *Controller) {
		c.onSubmitError = fn
	}
}

// WithKeyGenerator replaces the identity key generator for list entries.
// Keys must be unique within a controller and must not look like indexes.
func WithKeyGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newKey = fn
		}
	}
}

func defaultKey() string {
	return uuid.NewString()
}

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
