// Package flow models a multi-step wizard as an ordered graph of steps. Each
// step lists the prerequisites a filer's answers must satisfy before the step
// may be shown, and the step to fall back to when one is unmet. The Graph
// resolves requested steps to "proceed" or "redirect" decisions, finds the
// nearest reachable neighbour of a step and drops answers that belong to steps
// the filer can no longer reach.
//
// Graphs are immutable after construction and safe for concurrent use.
package flow
