package user

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/session"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/metrics"
)

// RefreshTokenUseCase 刷新Access Token用例
type RefreshTokenUseCase struct {
	jwtManager   *jwt.Manager
	sessionStore session.Store
}

// NewRefreshTokenUseCase 创建刷新用例
func NewRefreshTokenUseCase(jwtManager *jwt.Manager, sessionStore session.Store) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RefreshTokenResponse 刷新响应
type RefreshTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Execute 用Refresh Token换取新的Access Token
// 已登出（进入黑名单）的Refresh Token不能再使用
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (resp *RefreshTokenResponse, err error) {
	defer func() {
		metrics.IncCounterVec(metrics.AuthAttemptsTotal, map[string]string{"action": "refresh", "result": metrics.Result(err)})
	}()

	// 1. 验证Refresh Token并签发新Access Token
	access, claims, err := uc.jwtManager.RefreshAccessToken(refreshToken)
	if err != nil {
		return nil, err
	}

	// 2. 检查黑名单
	revoked, err := uc.sessionStore.IsInBlacklist(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.ErrTokenRevoked
	}

	return &RefreshTokenResponse{
		Token:     access,
		ExpiresIn: int64(uc.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}
