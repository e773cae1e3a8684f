// Package openapi imports the request body of an OpenAPI 3 operation into a
// schema record so existing API contracts can drive form validation. The
// kin-openapi types stay internal to this package.
package openapi
