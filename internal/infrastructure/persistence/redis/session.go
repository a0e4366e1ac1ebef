package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookreview/internal/domain/session"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// Key前缀
const (
	sessionKeyPrefix   = "bookreview:session:"
	blacklistKeyPrefix = "bookreview:blacklist:"
)

// SessionStore 会话存储
// 设计说明：
// 1. 使用Redis存储用户登录会话（Hash）
// 2. 支持JWT黑名单（用户登出），Key按jti存储，TTL为Token剩余有效期
// 3. Key设计：bookreview:session:{user_id}、bookreview:blacklist:{jti}
type SessionStore struct {
	client redis.Cmdable
}

var _ session.Store = (*SessionStore)(nil)

// NewSessionStore 创建会话存储
func NewSessionStore(client redis.Cmdable) *SessionStore {
	return &SessionStore{client: client}
}

// SaveSession 保存用户会话
// 学习要点：HSet和Expire放在同一个Pipeline里，一次往返完成
func (s *SessionStore) SaveSession(ctx context.Context, userID string, data map[string]interface{}, ttl time.Duration) error {
	key := sessionKey(userID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, data)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return redisError(err, "保存会话失败")
	}
	return nil
}

// GetSession 获取用户会话
func (s *SessionStore) GetSession(ctx context.Context, userID string) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, redisError(err, "获取会话失败")
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	return result, nil
}

// DeleteSession 删除用户会话（用于登出）
func (s *SessionStore) DeleteSession(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return redisError(err, "删除会话失败")
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单
// ttl<=0说明Token已经过期，无需记录
func (s *SessionStore) AddToBlacklist(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistKey(tokenID), "revoked", ttl).Err(); err != nil {
		return redisError(err, "添加Token到黑名单失败")
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, tokenID string) (bool, error) {
	exists, err := s.client.Exists(ctx, blacklistKey(tokenID)).Result()
	if err != nil {
		return false, redisError(err, "检查黑名单失败")
	}
	return exists > 0, nil
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

func blacklistKey(tokenID string) string {
	return blacklistKeyPrefix + tokenID
}

func redisError(err error, message string) error {
	return &apperrors.AppError{Code: apperrors.ErrCodeRedisError, Message: message, Err: err}
}
