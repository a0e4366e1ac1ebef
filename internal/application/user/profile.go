package user

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/user"
)

// GetProfileUseCase 当前用户信息用例
type GetProfileUseCase struct {
	userService user.Service
}

// NewGetProfileUseCase 创建用例
func NewGetProfileUseCase(userService user.Service) *GetProfileUseCase {
	return &GetProfileUseCase{userService: userService}
}

// Execute 查询用户信息
func (uc *GetProfileUseCase) Execute(ctx context.Context, userID string) (*UserInfo, error) {
	u, err := uc.userService.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := toUserInfo(u)
	return &result, nil
}
