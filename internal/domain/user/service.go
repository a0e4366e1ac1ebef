package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// 密码长度（字节）：bcrypt最多只使用前72字节
const (
	MinPasswordLen = 6
	MaxPasswordLen = 72
)

// 用户名长度（字符）
const (
	MinUsernameLen = 2
	MaxUsernameLen = 50
)

var (
	// ErrInvalidEmail 邮箱格式不正确
	ErrInvalidEmail = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")

	// ErrInvalidUsername 用户名不合法
	ErrInvalidUsername = apperrors.New(apperrors.ErrCodeInvalidParams, "用户名长度应为2-50个字符")

	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Service 用户领域服务
// 设计说明：
// 1. Service包含不属于单个实体的业务逻辑（密码加密、唯一性检查、登录校验）
// 2. Service依赖Repository接口，不依赖具体实现（依赖倒置）
// 3. Service不处理HTTP请求，只处理业务逻辑
type Service interface {
	// Register 用户注册
	Register(ctx context.Context, username, email, password string) (*User, error)

	// Login 用户登录
	// 邮箱不存在和密码错误统一返回ErrInvalidCredentials（防止账号枚举）
	Login(ctx context.Context, email, password string) (*User, error)

	// GetByID 根据ID获取用户
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByIDs 批量获取用户
	GetByIDs(ctx context.Context, ids []string) (map[string]*User, error)
}

type service struct {
	repo      Repository
	cost      int
	dummyHash []byte
}

// NewService 创建用户服务
// cost为bcrypt计算成本，超出[bcrypt.MinCost, bcrypt.MaxCost]时使用bcrypt.DefaultCost
func NewService(repo Repository, cost int) Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// 邮箱不存在时也做一次哈希比较，使两种失败的耗时接近
	dummy, _ := bcrypt.GenerateFromPassword([]byte("bookreview-dummy-password"), cost)
	return &service{repo: repo, cost: cost, dummyHash: dummy}
}

// Register 用户注册
// 业务规则：
// 1. 用户名2-50个字符，邮箱格式合法，密码6-72字节
// 2. 用户名和邮箱都不能已被使用（先查询，并发情况由唯一索引兜底）
// 3. 密码bcrypt加密
func (s *service) Register(ctx context.Context, username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)

	// 1. 格式校验
	if n := utf8.RuneCountInString(username); n < MinUsernameLen || n > MaxUsernameLen {
		return nil, ErrInvalidUsername
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLen || len(password) > MaxPasswordLen {
		return nil, apperrors.ErrWeakPassword
	}

	// 2. 唯一性检查
	if err := s.ensureAbsent(s.repo.FindByUsername(ctx, username)); err != nil {
		if err == errExists {
			return nil, apperrors.ErrUsernameDuplicate
		}
		return nil, err
	}
	if err := s.ensureAbsent(s.repo.FindByEmail(ctx, email)); err != nil {
		if err == errExists {
			return nil, apperrors.ErrEmailDuplicate
		}
		return nil, err
	}

	// 3. 密码加密
	// 学习要点：
	// - bcrypt自动加盐，每次加密结果都不同（即使密码相同）
	// - cost每+1，耗时翻倍
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	// 4. 持久化（Repository已把唯一键冲突转换为业务错误）
	u := NewUser(username, email, string(hashed))
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

var errExists = errors.New("exists")

func (s *service) ensureAbsent(_ *User, err error) error {
	switch {
	case err == nil:
		return errExists
	case errors.Is(err, apperrors.ErrUserNotFound):
		return nil
	default:
		return err
	}
}

// Login 用户登录
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	// 1. 根据邮箱查找用户
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}

	return u, nil
}

// GetByID 根据ID获取用户
func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// GetByIDs 批量获取用户
func (s *service) GetByIDs(ctx context.Context, ids []string) (map[string]*User, error) {
	if len(ids) == 0 {
		return map[string]*User{}, nil
	}
	return s.repo.FindByIDs(ctx, ids)
}

// NormalizeEmail 邮箱统一小写并去除首尾空白
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
