package openapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// ErrOperationNotFound is returned when the requested operation id is absent.
var ErrOperationNotFound = errors.New("openapi: operation not found")

var methods = []string{"GET", "PUT", "POST", "DELETE", "PATCH", "HEAD", "OPTIONS", "TRACE"}

// Operations lists the operation ids of a document, sorted. Operations
// without an id are reported as "<method>:<path>".
func Operations(ctx context.Context, data []byte) ([]string, error) {
	spec, err := load(ctx, data)
	if err != nil {
		return nil, err
	}
	var ids []string
	eachOperation(spec, func(id string, _ *openapi3.Operation) bool {
		ids = append(ids, id)
		return true
	})
	sort.Strings(ids)
	return ids, nil
}

// Import converts the request body schema of the operation into a record.
func Import(ctx context.Context, data []byte, operationID string) (schema.Record, error) {
	spec, err := load(ctx, data)
	if err != nil {
		return schema.Record{}, err
	}

	var found *openapi3.Operation
	eachOperation(spec, func(id string, op *openapi3.Operation) bool {
		if id == operationID {
			found = op
			return false
		}
		return true
	})
	if found == nil {
		return schema.Record{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	body := requestSchema(found.RequestBody)
	if body == nil {
		return schema.Record{}, fmt.Errorf("openapi: operation %q has no request body schema", operationID)
	}
	return convertRecord(body, "")
}

// ImportFS reads the document from fsys and imports the operation.
func ImportFS(ctx context.Context, fsys fs.FS, name, operationID string) (schema.Record, error) {
	if fsys == nil {
		return schema.Record{}, errors.New("openapi: filesystem is not configured")
	}
	if err := ctx.Err(); err != nil {
		return schema.Record{}, err
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return schema.Record{}, fmt.Errorf("openapi: read %s: %w", name, err)
	}
	return Import(ctx, data, operationID)
}

func load(ctx context.Context, data []byte) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return spec, nil
}

// eachOperation visits operations in path order until fn returns false.
func eachOperation(spec *openapi3.T, fn func(id string, op *openapi3.Operation) bool) {
	if spec.Paths == nil {
		return
	}
	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for _, method := range methods {
			op := item.GetOperation(method)
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			if !fn(id, op) {
				return
			}
		}
	}
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.SchemaRef {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt != nil {
			return mt.Schema
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema
		}
	}
	return nil
}
