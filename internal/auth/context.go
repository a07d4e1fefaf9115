package auth

import "context"

type contextKey string

const userIDKey contextKey = "user_id"

// ContextWithUserID stores the verified principal id in the context.
// Only the auth middleware writes this; handlers never trust a
// client-supplied id.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext retrieves the verified principal id.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
