package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"成功", 0, http.StatusOK},
		{"参数错误", ErrCodeInvalidParams, http.StatusBadRequest},
		{"邮箱重复", ErrCodeEmailDuplicate, http.StatusBadRequest},
		{"用户名重复", ErrCodeUsernameDuplicate, http.StatusBadRequest},
		{"登录失败", ErrCodeInvalidCredentials, http.StatusBadRequest},
		{"未登录", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"Token过期", ErrCodeTokenExpired, http.StatusUnauthorized},
		{"Token注销", ErrCodeTokenRevoked, http.StatusUnauthorized},
		{"无权限", ErrCodeForbidden, http.StatusForbidden},
		{"图书不存在", ErrCodeBookNotFound, http.StatusNotFound},
		{"限流", ErrCodeTooManyRequests, http.StatusTooManyRequests},
		{"数据库错误", ErrCodeDatabaseError, http.StatusInternalServerError},
		{"内部错误", ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestGetAppError(t *testing.T) {
	t.Run("AppError原样返回", func(t *testing.T) {
		assert.Same(t, ErrBookNotFound, GetAppError(ErrBookNotFound))
	})

	t.Run("普通错误包装为内部错误", func(t *testing.T) {
		cause := errors.New("boom")
		appErr := GetAppError(cause)
		assert.Equal(t, ErrCodeInternal, appErr.Code)
		assert.ErrorIs(t, appErr, cause)
	})

	t.Run("多层包装仍能提取", func(t *testing.T) {
		wrapped := WrapStore(errors.New("connection refused"), "查询图书失败")
		appErr := GetAppError(wrapped)
		assert.Equal(t, ErrCodeDatabaseError, appErr.Code)
		assert.Contains(t, appErr.Error(), "connection refused")
	})
}

func TestWithMessage(t *testing.T) {
	derived := ErrInvalidParams.WithMessage("参数错误: title不能为空")

	assert.Equal(t, ErrCodeInvalidParams, derived.Code)
	assert.Equal(t, "参数错误: title不能为空", derived.Message)
	assert.Equal(t, "参数错误", ErrInvalidParams.Message, "原错误不应被修改")
}
