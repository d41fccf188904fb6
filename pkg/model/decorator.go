package model

// Decorator enriches a page after the builder laid out its fields.
type Decorator interface {
	Decorate(*Page) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*Page) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(page *Page) error {
	return fn(page)
}
