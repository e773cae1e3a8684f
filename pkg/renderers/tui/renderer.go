package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
	"github.com/goliatone/go-formkit/pkg/visibility"
	"github.com/goliatone/go-formkit/pkg/visibility/expr"
)

// Renderer drives a form controller from terminal prompts. It only talks to
// the controller API: values are written with SetValue and list entries are
// added with AppendListEntry.
type Renderer struct {
	driver      PromptDriver
	out         io.Writer
	theme       Theme
	maxAttempts int
	eval        visibility.Evaluator
}

// New constructs a renderer backed by survey prompts unless another driver
// is supplied.
func New(options ...Option) *Renderer {
	r := &Renderer{
		theme:       Theme{ErrorPrefix: "! "},
		maxAttempts: 3,
		eval:        expr.New(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r
}

// Fill prompts for every active field of the controller's schema, in
// declaration order.
func (r *Renderer) Fill(ctx context.Context, c *form.Controller) error {
	return r.record(ctx, c, c.Schema(), "")
}

// Run fills the form and submits it. When the submit is rejected the
// failing fields are prompted again, up to the configured number of rounds.
func (r *Renderer) Run(ctx context.Context, c *form.Controller, onValid form.SubmitFunc) (validation.Result, error) {
	if err := r.Fill(ctx, c); err != nil {
		return validation.Result{}, err
	}
	for attempt := 0; ; attempt++ {
		result, err := c.Submit(ctx, onValid)
		if err != nil || result.Valid() {
			return result, err
		}
		if attempt >= r.maxAttempts {
			return result, ErrTooManyAttempts
		}
		if err := r.correct(ctx, c, result); err != nil {
			return result, err
		}
	}
}

func (r *Renderer) correct(ctx context.Context, c *form.Controller, result validation.Result) error {
	rec := c.Schema()
	for _, path := range result.Errors.Paths() {
		for _, message := range result.Errors[path] {
			if err := r.info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, path, message)); err != nil {
				return err
			}
		}
		field, ok := rec.Resolve(path)
		if !ok {
			continue
		}
		var err error
		if field.Kind == schema.KindList {
			err = r.addEntries(ctx, c, field, path)
		} else {
			err = r.promptField(ctx, c, field, path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) record(ctx context.Context, c *form.Controller, rec schema.Record, prefix string) error {
	for _, field := range rec.Fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !r.active(c, field, prefix) {
			continue
		}
		if err := r.promptField(ctx, c, field, schema.JoinPath(prefix, field.Name)); err != nil {
			return err
		}
	}
	return nil
}

// active evaluates the field's condition against the current record, so
// answers given earlier in the session decide what is asked next.
func (r *Renderer) active(c *form.Controller, field schema.Field, prefix string) bool {
	if field.When == "" {
		return true
	}
	snap := c.Snapshot()
	scope := visibility.Scope{Values: snap.Values, Root: snap.Values}
	if prefix != "" {
		nested, _ := schema.Lookup(snap.Values, prefix)
		scope.Values, _ = nested.(map[string]any)
	}
	ok, err := r.eval.Eval(field.When, scope)
	if err != nil {
		return true
	}
	return ok
}

func (r *Renderer) promptField(ctx context.Context, c *form.Controller, field schema.Field, path string) error {
	switch field.Kind {
	case schema.KindBoolean:
		return r.promptBoolean(ctx, c, field, path)
	case schema.KindChoice:
		return r.promptChoice(ctx, c, field, path)
	case schema.KindObject:
		return r.record(ctx, c, *field.Nested, path)
	case schema.KindList:
		return r.promptList(ctx, c, field, path)
	default:
		return r.promptText(ctx, c, field, path)
	}
}

func (r *Renderer) promptText(ctx context.Context, c *form.Controller, field schema.Field, path string) error {
	current, _ := c.Value(path)
	defaultVal, _ := current.(string)
	cfg := InputConfig{
		Message: field.DisplayLabel(),
		Default: defaultVal,
		Help:    field.Description,
	}

	var response string
	var err error
	if field.Secret {
		cfg.Default = ""
		response, err = r.driver.Password(ctx, cfg)
	} else {
		response, err = r.driver.Input(ctx, cfg)
	}
	if err != nil {
		return err
	}
	return c.SetValue(path, response)
}

func (r *Renderer) promptBoolean(ctx context.Context, c *form.Controller, field schema.Field, path string) error {
	current, _ := c.Value(path)
	defaultVal, _ := current.(bool)
	resp, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: field.DisplayLabel(),
		Default: defaultVal,
		Help:    field.Description,
	})
	if err != nil {
		return err
	}
	return c.SetValue(path, resp)
}

func (r *Renderer) promptChoice(ctx context.Context, c *form.Controller, field schema.Field, path string) error {
	current, _ := c.Value(path)
	selected, _ := current.(string)
	defaultIdx := indexOf(field.Options, selected)

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      field.DisplayLabel(),
			Options:      field.Options,
			DefaultIndex: defaultIdx,
			Help:         field.Description,
		})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(field.Options) {
			return c.SetValue(path, field.Options[idx])
		}
		if err := r.info(ctx, fmt.Sprintf("%sInvalid %s selection", r.theme.ErrorPrefix, path)); err != nil {
			return err
		}
	}
}

// promptList revisits existing entries and then offers to add more.
func (r *Renderer) promptList(ctx context.Context, c *form.Controller, field schema.Field, path string) error {
	keys, err := c.Entries(path)
	if err != nil {
		return err
	}
	for idx := range keys {
		if err := r.entry(ctx, c, field, path, idx); err != nil {
			return err
		}
	}
	return r.addEntries(ctx, c, field, path)
}

func (r *Renderer) addEntries(ctx context.Context, c *form.Controller, field schema.Field, path string) error {
	for {
		keys, err := c.Entries(path)
		if err != nil {
			return err
		}
		message := fmt.Sprintf("Add %s entry?", field.DisplayLabel())
		if len(keys) > 0 {
			message = fmt.Sprintf("Add another %s entry?", field.DisplayLabel())
		}
		add, err := r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: len(keys) == 0})
		if err != nil {
			return err
		}
		if !add {
			return nil
		}
		if _, err := c.AppendListEntry(path, nil); err != nil {
			return err
		}
		if err := r.entry(ctx, c, field, path, len(keys)); err != nil {
			return err
		}
	}
}

func (r *Renderer) entry(ctx context.Context, c *form.Controller, field schema.Field, path string, idx int) error {
	if err := r.info(ctx, fmt.Sprintf("%s #%d", field.DisplayLabel(), idx+1)); err != nil {
		return err
	}
	return r.record(ctx, c, *field.Item, schema.JoinPath(path, strconv.Itoa(idx)))
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}
