package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/domain/session"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/logger"
	"github.com/xiebiao/bookreview/pkg/metrics"
)

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	jwtManager   *jwt.Manager
	sessionStore session.Store
	now          func() time.Time
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(jwtManager *jwt.Manager, sessionStore session.Store) *LogoutUseCase {
	return &LogoutUseCase{jwtManager: jwtManager, sessionStore: sessionStore, now: time.Now}
}

// LogoutRequest 登出请求
type LogoutRequest struct {
	UserID          string
	AccessTokenID   string    // 当前Access Token的jti
	AccessExpiresAt time.Time // 当前Access Token的过期时间
	RefreshToken    string    // 可选，一并注销
}

// Execute 执行登出
// 1. 删除会话
// 2. Access Token加入黑名单，直到它自然过期
// 3. 如果提供了Refresh Token且属于同一用户，同样加入黑名单
func (uc *LogoutUseCase) Execute(ctx context.Context, req LogoutRequest) (err error) {
	defer func() {
		metrics.IncCounterVec(metrics.AuthAttemptsTotal, map[string]string{"action": "logout", "result": metrics.Result(err)})
	}()

	if err := uc.sessionStore.DeleteSession(ctx, req.UserID); err != nil {
		return err
	}

	if err := uc.sessionStore.AddToBlacklist(ctx, req.AccessTokenID, req.AccessExpiresAt.Sub(uc.now())); err != nil {
		return err
	}

	if req.RefreshToken == "" {
		return nil
	}
	claims, err := uc.jwtManager.ParseToken(req.RefreshToken)
	if err != nil || claims.UserID != req.UserID {
		// 无效的Refresh Token无需注销
		logger.L().Debug("忽略无效的Refresh Token", zap.String("user_id", req.UserID))
		return nil
	}
	return uc.sessionStore.AddToBlacklist(ctx, claims.ID, claims.ExpiresAtTime().Sub(uc.now()))
}
