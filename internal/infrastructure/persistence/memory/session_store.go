package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/bookreview/internal/domain/session"
)

// SessionStore 会话存储(内存),redis.enabled=false时使用
// 过期条目在读取时清理
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[string]entry
	blacklist map[string]time.Time
	now       func() time.Time
}

type entry struct {
	data      map[string]interface{}
	expiresAt time.Time
}

var _ session.Store = (*SessionStore)(nil)

// NewSessionStore 创建内存会话存储
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:  make(map[string]entry),
		blacklist: make(map[string]time.Time),
		now:       time.Now,
	}
}

// SaveSession 保存用户会话
func (s *SessionStore) SaveSession(_ context.Context, userID string, data map[string]interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make(map[string]interface{}, len(data))
	for k, v := range data {
		cp[k] = v
	}
	s.sessions[userID] = entry{data: cp, expiresAt: s.now().Add(ttl)}
	return nil
}

// HasSession 会话是否存在且未过期
func (s *SessionStore) HasSession(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[userID]
	if !ok {
		return false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.sessions, userID)
		return false
	}
	return true
}

// DeleteSession 删除用户会话
func (s *SessionStore) DeleteSession(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

// AddToBlacklist 将Token加入黑名单
func (s *SessionStore) AddToBlacklist(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist[tokenID] = s.now().Add(ttl)
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.blacklist[tokenID]
	if !ok {
		return false, nil
	}
	if !s.now().Before(expiresAt) {
		delete(s.blacklist, tokenID)
		return false, nil
	}
	return true, nil
}
