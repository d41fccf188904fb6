// Package template defines the template engine contract used by the HTML
// renderer. The pongo subpackage provides the implementation.
package template
