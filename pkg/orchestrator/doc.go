// Package orchestrator runs the wizard request pipeline: resolve the requested
// step, build its page, decorate and render it, and accept submissions.
package orchestrator
