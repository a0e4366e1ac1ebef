package session

import (
	"context"
	"time"
)

// Store 会话与Token黑名单存储
// 设计说明:
// 1. JWT是无状态的,服务端通过黑名单让Token在过期前失效
// 2. 黑名单以Token的jti为键,TTL等于Token剩余有效期
// 3. 实现:Redis(生产)、内存(单机开发/测试)
type Store interface {
	// SaveSession 保存登录会话,ttl与Refresh Token有效期一致
	SaveSession(ctx context.Context, userID string, data map[string]interface{}, ttl time.Duration) error

	// DeleteSession 删除会话(登出)
	DeleteSession(ctx context.Context, userID string) error

	// AddToBlacklist 把Token加入黑名单
	AddToBlacklist(ctx context.Context, tokenID string, ttl time.Duration) error

	// IsInBlacklist 检查Token是否已注销
	IsInBlacklist(ctx context.Context, tokenID string) (bool, error)
}
