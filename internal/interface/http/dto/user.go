package dto

// SignupRequest HTTP注册请求
type SignupRequest struct {
	Username string `json:"username" binding:"required,notblank,min=2,max=50" example:"reader"`
	Email    string `json:"email" binding:"required,email,max=100" example:"reader@example.com"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"secret123"`
}

// LoginRequest HTTP登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"reader@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshTokenRequest HTTP刷新Token请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest HTTP登出请求(refresh_token可选)
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// IdentityResponse 当前登录身份
type IdentityResponse struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	ExpiresAt int64  `json:"expires_at"` // Access Token过期时间(Unix秒)
}
