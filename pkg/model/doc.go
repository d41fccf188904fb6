// Package model defines the page model consumed by renderers. A Page is one
// step of the wizard: its fields with their current visibility, requirement
// and stored value, the section navigation, and the feedback of the last
// submission (validation errors, or the reason a requested step redirected
// here). Builders reside in internal/model but return the types defined here.
// Hidden fields are kept in the model with Visible=false so renderers can emit
// them for client-side toggling.
package model
