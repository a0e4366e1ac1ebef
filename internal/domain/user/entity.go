package user

import (
	"time"

	"github.com/xiebiao/bookreview/pkg/idgen"
)

// DeletedUsername 书评作者查不到时展示的占位用户名
const DeletedUsername = "已注销用户"

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 密码只保存bcrypt哈希值，任何接口都不返回该字段
// 2. 领域实体不依赖GORM/bson tag（infrastructure层的Repository实现时处理映射）
// 3. 注册后不修改、不删除
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string // bcrypt哈希值
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, email, hashedPassword string) *User {
	now := time.Now()
	return &User{
		ID:        idgen.New(),
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
