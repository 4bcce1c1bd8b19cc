package reactive

// Context provides dependency injection through the owner tree.
// Create a context with CreateContext, provide values with Provide,
// and consume values with Use.
//
// Example:
//
//	var RouteContext = reactive.CreateContext[*Route](nil)
//
//	owner.Run(func() {
//	    RouteContext.Provide(route)
//	    child := reactive.NewOwner(owner)
//	    child.Run(func() {
//	        parent := RouteContext.Use() // route
//	    })
//	})
type Context[T any] struct {
	// key uniquely identifies this context in the owner value map
	key any

	// defaultValue is returned when no provider is found
	defaultValue T
}

// contextKey wraps Context to create a unique key type
type contextKey[T any] struct {
	ctx *Context[T]
}

// CreateContext creates a new context with the given default value.
// The default value is returned by Use() when no provider is found.
func CreateContext[T any](defaultValue T) *Context[T] {
	ctx := &Context[T]{
		defaultValue: defaultValue,
	}
	ctx.key = contextKey[T]{ctx: ctx}
	return ctx
}

// Provide stores value on the current owner for all descendants.
// Returns false when called outside any owner scope.
func (c *Context[T]) Provide(value T) bool {
	owner := getCurrentOwner()
	if owner == nil {
		return false
	}
	owner.SetValue(c.key, value)
	return true
}

// Use returns the value from the nearest provider, or the default value.
func (c *Context[T]) Use() T {
	owner := getCurrentOwner()
	if owner == nil {
		return c.defaultValue
	}
	return c.From(owner)
}

// From returns the value visible from owner, or the default value.
func (c *Context[T]) From(owner *Owner) T {
	if owner == nil {
		return c.defaultValue
	}
	if v, ok := owner.GetValue(c.key).(T); ok {
		return v
	}
	return c.defaultValue
}
