// Package schemafile loads declarative form documents (JSON or YAML) into
// schema records. A document declares one or more forms; each form carries
// its fields, cross-field rules, defaults and controller hints.
//
// Example:
//
//	forms:
//	  signup:
//	    title: Create account
//	    fields:
//	      - name: email
//	        kind: text
//	        constraints:
//	          - {kind: required, message: Email is required}
//	          - {kind: format, format: email}
//	      - name: password
//	        kind: text
//	        secret: true
//	      - name: confirmPassword
//	        kind: text
//	        secret: true
//	    rules:
//	      - kind: match
//	        field: password
//	        confirm: confirmPassword
//	        message: Passwords don't match
package schemafile
