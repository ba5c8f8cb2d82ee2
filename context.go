package gosigma

import "github.com/njchilds90/gosigma/internal/errwrap"

// Context is a persistent chain of bindings. The root binds the parameter and
// every With adds one index binding on top of its parent. A context is never
// modified after it is built, so one parent can be shared by any number of
// children.
type Context[T any] struct {
	root   *Context[T]
	parent *Context[T]
	name   string
	value  T
}

// Root returns a context that binds only the parameter.
func Root[T any](parameter T) *Context[T] {
	c := &Context[T]{value: parameter}
	c.root = c
	return c
}

// With returns a child context that binds name to value and shadows any outer
// binding of the same name.
func (c *Context[T]) With(name string, value T) *Context[T] {
	return &Context[T]{root: c.root, parent: c, name: name, value: value}
}

// Parameter returns the value bound to the parameter at the root.
func (c *Context[T]) Parameter() T { return c.root.value }

// Index looks name up from the innermost binding outward.
func (c *Context[T]) Index(name string) (T, error) {
	for ctx := c; ctx.parent != nil; ctx = ctx.parent {
		if ctx.name == name {
			return ctx.value, nil
		}
	}
	var zero T
	return zero, errwrap.Wrapf(ErrUnboundIndex, "index %q", name)
}

// Depth is the number of index bindings between c and the root.
func (c *Context[T]) Depth() int {
	n := 0
	for ctx := c; ctx.parent != nil; ctx = ctx.parent {
		n++
	}
	return n
}
