// Package render turns form state into plain text through pongo2 templates.
// The built-in templates print a form summary (values, dirty markers and
// errors) and a submission receipt; callers may override either by supplying
// a filesystem holding templates of the same name.
package render
