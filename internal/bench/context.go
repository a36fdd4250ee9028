package bench

import "context"

// MainContextID identifies the orchestrating goroutine.
const MainContextID = "main"

type contextIDKey struct{}

// WithContextID returns a context carrying the identity of the execution
// context that is running the caller.
func WithContextID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextIDKey{}, id)
}

// ContextIDFrom returns the execution-context identity carried by ctx, or
// MainContextID when none was set.
func ContextIDFrom(ctx context.Context) string {
	if ctx != nil {
		if id, ok := ctx.Value(contextIDKey{}).(string); ok && id != "" {
			return id
		}
	}
	return MainContextID
}
