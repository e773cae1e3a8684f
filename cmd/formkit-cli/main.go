package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	formkit "github.com/goliatone/go-formkit"
	"github.com/goliatone/go-formkit/internal/catalog"
	"github.com/goliatone/go-formkit/internal/config"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/schemafile"
)

func main() {
	formID := flag.String("form", "order", "form id to run")
	schemaPath := flag.String("schema", "", "schema document (YAML or JSON); bundled examples if empty")
	openapiPath := flag.String("openapi", "", "OpenAPI document to import the form from")
	opID := flag.String("operation", "", "operation ID to import (with -openapi)")
	envFile := flag.String("env", "", "env file to load before reading FORMKIT_* variables")
	list := flag.Bool("list", false, "list available forms and exit")
	flag.Parse()

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := cfg.Logger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := cli{cfg: cfg, logger: logger, out: os.Stdout}
	if *openapiPath != "" {
		err = app.runOpenAPI(ctx, *openapiPath, *opID)
	} else {
		var store *schemafile.Store
		store, err = app.store(*schemaPath)
		if err == nil {
			if *list {
				app.list(store)
				return
			}
			err = app.runDefinition(ctx, store, *formID)
		}
	}

	switch {
	case err == nil:
	case errors.Is(err, tui.ErrAborted), errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "aborted")
		os.Exit(130)
	default:
		logger.Error("formkit-cli failed", "error", err)
		os.Exit(1)
	}
}

type cli struct {
	cfg    config.Config
	logger *slog.Logger
	out    io.Writer
}

func (a cli) store(path string) (*schemafile.Store, error) {
	switch {
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read schema: %w", err)
		}
		return schemafile.Load(data, filepath.Base(path))
	case a.cfg.SchemaDir != "":
		return schemafile.LoadFS(os.DirFS(a.cfg.SchemaDir))
	default:
		return catalog.Load()
	}
}

func (a cli) list(store *schemafile.Store) {
	for _, id := range store.IDs() {
		def, _ := store.Form(id)
		fmt.Fprintf(a.out, "%-16s %s\n", id, def.Title)
	}
}

func (a cli) runDefinition(ctx context.Context, store *schemafile.Store, id string) error {
	def, ok := store.Form(id)
	if !ok {
		return fmt.Errorf("unknown form %q (available: %s)", id, strings.Join(store.IDs(), ", "))
	}
	ctrl, err := formkit.NewFormFromDefinition(def, a.formOptions()...)
	if err != nil {
		return err
	}
	title := def.Title
	if title == "" {
		title = def.ID
	}
	return a.run(ctx, title, ctrl)
}

func (a cli) runOpenAPI(ctx context.Context, path, operationID string) error {
	if operationID == "" {
		return errors.New("-operation is required with -openapi")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read openapi: %w", err)
	}
	ctrl, err := formkit.NewFormFromOpenAPI(ctx, data, operationID, a.formOptions()...)
	if err != nil {
		return err
	}
	return a.run(ctx, operationID, ctrl)
}

func (a cli) formOptions() []form.Option {
	opts := []form.Option{
		form.WithLogger(a.logger),
		form.WithSubmitErrorHandler(func(err *form.SubmitError) {
			a.logger.Warn("submit rejected", "error", err.Err)
		}),
	}
	if a.cfg.ValidateMode != "" {
		opts = append(opts, form.WithMode(a.cfg.Mode()))
	}
	return opts
}

func (a cli) run(ctx context.Context, title string, ctrl *form.Controller) error {
	engine, err := render.New()
	if err != nil {
		return err
	}
	renderer := tui.New(tui.WithOutput(a.out), tui.WithMaxAttempts(a.cfg.MaxAttempts))
	rec := ctrl.Schema()

	_, err = renderer.Run(ctx, ctrl, func(ctx context.Context, values schema.Values) error {
		if err := wait(ctx, a.cfg.SubmitDelay); err != nil {
			return err
		}
		_, err := engine.Receipt(title, rec, values, a.out)
		return err
	})
	if errors.Is(err, tui.ErrTooManyAttempts) {
		if _, renderErr := engine.Summary(title, rec, ctrl.Snapshot(), a.out); renderErr != nil {
			a.logger.Warn("render summary", "error", renderErr)
		}
	}
	return err
}

// wait simulates a slow submit endpoint.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
