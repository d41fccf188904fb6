// Package answers holds the filer's accumulated wizard answers. A Store is a
// value type: helpers that change it return a modified copy, so every
// navigation or visibility evaluation works on its own snapshot.
//
// A key that is not present is "absent", which is distinct from a key that is
// present with an empty value. Typed getters report whether a usable value was
// found and never panic on malformed input; a value that cannot be read as the
// requested type is reported the same way as an absent one.
package answers
