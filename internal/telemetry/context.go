package telemetry

import "context"

// promptIDKey is the context key type used to store a prompt ID.
type promptIDKey struct{}

// WithPromptID returns a child context that carries the provided prompt
// ID. If ctx is nil, context.Background() is used.
func WithPromptID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, promptIDKey{}, id)
}

// PromptIDFromContext returns the prompt ID from ctx, if present.
// Returns "", false if the value is missing or not a non-empty string.
func PromptIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, ok := ctx.Value(promptIDKey{}).(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
