// Package openapi describes the HTTP surface of the wizard as an OpenAPI 3
// document built with kin-openapi. Every step that collects answers gets its
// own submit operation whose form body mirrors the step's fields.
package openapi
