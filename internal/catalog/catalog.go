// Package catalog bundles the example forms shipped with the CLI.
package catalog

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-formkit/pkg/schemafile"
)

//go:embed forms/*.yaml
var embedded embed.FS

// FS returns the bundled form documents.
func FS() fs.FS {
	sub, err := fs.Sub(embedded, "forms")
	if err != nil {
		// the embed directive guarantees the directory exists
		panic(err)
	}
	return sub
}

// Load parses the bundled forms.
func Load() (*schemafile.Store, error) {
	return schemafile.LoadFS(FS())
}
