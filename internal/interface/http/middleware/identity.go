package middleware

import (
	"context"
	"time"
)

// Identity 已验证的请求身份(来自Access Token)
type Identity struct {
	UserID    string
	Username  string
	TokenID   string    // jti,登出时加入黑名单
	ExpiresAt time.Time // Token过期时间
}

type identityKey struct{}

// WithIdentity 把身份写入请求的context.Context
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom 从context.Context读取身份,未登录时ok为false
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID != ""
}
