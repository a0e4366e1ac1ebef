package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/bookreview/internal/domain/user"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// userRepository 用户仓储实现(内存)
// 用户名和邮箱的唯一性在写锁内检查,效果等同于唯一索引
type userRepository struct {
	mu         sync.RWMutex
	byID       map[string]*user.User
	byEmail    map[string]string
	byUsername map[string]string
}

// NewUserRepository 创建用户仓储
func NewUserRepository() user.Repository {
	return &userRepository{
		byID:       make(map[string]*user.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
	}
}

// Create 创建用户
func (r *userRepository) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[u.Username]; ok {
		return apperrors.ErrUsernameDuplicate
	}
	if _, ok := r.byEmail[u.Email]; ok {
		return apperrors.ErrEmailDuplicate
	}

	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[u.Email] = u.ID
	r.byUsername[u.Username] = u.ID
	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(_ context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(id)
}

// FindByIDs 批量查找用户
func (r *userRepository) FindByIDs(_ context.Context, ids []string) (map[string]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*user.User, len(ids))
	for _, id := range ids {
		if u, err := r.get(id); err == nil {
			result[id] = u
		}
	}
	return result, nil
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(r.byEmail[email])
}

// FindByUsername 根据用户名查找用户
func (r *userRepository) FindByUsername(_ context.Context, username string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(r.byUsername[username])
}

// get 调用方需持有读锁
func (r *userRepository) get(id string) (*user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}
