package auth

import "context"

type UserContext struct {
	UserID string
	Role   string
}

type userKey struct{}

func WithUser(ctx context.Context, u UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func UserFromContext(ctx context.Context) (UserContext, bool) {
	u, ok := ctx.Value(userKey{}).(UserContext)
	return u, ok
}

// GetUserID returns the authenticated subject, or "" for anonymous calls.
func GetUserID(ctx context.Context) string {
	if u, ok := UserFromContext(ctx); ok {
		return u.UserID
	}
	return ""
}
