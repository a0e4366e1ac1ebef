package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookreview/internal/domain/session"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/response"
)

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 验证Token有效性（签名、过期、类型必须是access）
// 3. 检查Token黑名单（按jti）
// 4. 将身份写入请求的context.Context，Handler只从这里读取
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	sessions   session.Store
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessions session.Store) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		sessions:   sessions,
	}
}

// RequireAuth 要求登录
// 使用方式：
//
//	books.POST("", authMiddleware.RequireAuth(), handler.CreateBook)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从Header提取Token
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		// 2. 解析Token格式
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Abort(c, apperrors.ErrInvalidToken.WithMessage("Token格式错误"))
			return
		}

		// 3. 验证Token并解析Claims（自动处理ErrTokenExpired、ErrInvalidToken）
		claims, err := m.jwtManager.ParseAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, err)
			return
		}

		// 4. 检查Token是否在黑名单中（用户已登出）
		revoked, err := m.sessions.IsInBlacklist(c.Request.Context(), claims.ID)
		if err != nil {
			response.Abort(c, err)
			return
		}
		if revoked {
			response.Abort(c, apperrors.ErrTokenRevoked)
			return
		}

		// 5. 身份写入请求上下文
		ctx := WithIdentity(c.Request.Context(), Identity{
			UserID:    claims.UserID,
			Username:  claims.Username,
			TokenID:   claims.ID,
			ExpiresAt: claims.ExpiresAtTime(),
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
