package httpapi

import "context"

// Principal is the authenticated caller.
type Principal struct {
	Subject string
	Email   string
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	v, ok := ctx.Value(principalKey{}).(Principal)
	return v, ok && v.Subject != ""
}
