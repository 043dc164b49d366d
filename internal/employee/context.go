package employee

import "context"

type ctxKey string

const employeeContextKey ctxKey = "currentEmployee"

// ContextWithEmployee stores the authenticated employee for downstream
// handlers. Set by the auth middleware.
func ContextWithEmployee(ctx context.Context, emp *Employee) context.Context {
	return context.WithValue(ctx, employeeContextKey, emp)
}

func FromContext(ctx context.Context) (*Employee, bool) {
	emp, ok := ctx.Value(employeeContextKey).(*Employee)
	return emp, ok
}
