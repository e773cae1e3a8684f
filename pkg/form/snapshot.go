package form

import (
	"sort"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// Snapshot is a read-only copy of the form state. Paths use list indexes.
// IsValid is only true when the current record has been validated and no
// errors are stored; a record changed since its last validation is not
// known to be valid.
type Snapshot struct {
	Values       schema.Values        `json:"values"`
	Errors       validation.ErrorTree `json:"errors,omitempty"`
	FormErrors   []string             `json:"form_errors,omitempty"`
	Dirty        map[string]bool      `json:"dirty,omitempty"`
	Status       Status               `json:"status"`
	IsDirty      bool                 `json:"is_dirty"`
	IsSubmitting bool                 `json:"is_submitting"`
	IsValid      bool                 `json:"is_valid"`
	SubmitCount  int                  `json:"submit_count"`
}

// ErrorPaths returns the paths carrying errors, sorted.
func (s Snapshot) ErrorPaths() []string {
	return s.Errors.Paths()
}

// DirtyPaths returns the dirty paths, sorted.
func (s Snapshot) DirtyPaths() []string {
	paths := make([]string, 0, len(s.Dirty))
	for path := range s.Dirty {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Values:       export(c.values),
		Status:       c.status,
		IsSubmitting: c.submitting,
		SubmitCount:  c.submitCount,
	}
	if len(c.errors) > 0 {
		snap.Errors = make(validation.ErrorTree, len(c.errors))
		for path, messages := range c.errors {
			display, ok := c.translate(path, false)
			if !ok {
				continue
			}
			snap.Errors[display] = append(snap.Errors[display], messages...)
		}
	}
	if len(c.formErrors) > 0 {
		snap.FormErrors = append([]string(nil), c.formErrors...)
	}
	if len(c.dirty) > 0 {
		snap.Dirty = make(map[string]bool, len(c.dirty))
		for path := range c.dirty {
			if display, ok := c.translate(path, false); ok {
				snap.Dirty[display] = true
			}
		}
	}
	snap.IsDirty = len(snap.Dirty) > 0
	snap.IsValid = c.validated && len(snap.Errors) == 0 && len(snap.FormErrors) == 0
	return snap
}
