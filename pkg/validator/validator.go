// Package validator 在gin的binding引擎（go-playground/validator v10）上注册自定义规则，
// 并把校验错误翻译为统一的参数错误
//
// 自定义规则：
//   - notblank：字符串去除首尾空白后不能为空
//
// 用法：
//
//	validator.Setup() // 启动时调用一次
//
//	if err := c.ShouldBindJSON(&req); err != nil {
//	    response.Error(c, validator.Translate(err))
//	    return
//	}
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

var setupOnce sync.Once

// Setup 注册自定义规则，字段名使用json/form标签
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		Register(v)
	})
}

// Register 在指定validator实例上注册自定义规则
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(fieldName)
	_ = v.RegisterValidation("notblank", notBlank)
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		return strings.TrimSpace(field.String()) != ""
	case reflect.Ptr:
		if field.IsNil() {
			return false
		}
		elem := field.Elem()
		return elem.Kind() != reflect.String || strings.TrimSpace(elem.String()) != ""
	default:
		return !field.IsZero()
	}
}

// Translate 将绑定/校验错误转换为AppError（参数错误，HTTP 400）
func Translate(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		messages := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			messages = append(messages, message(fe))
		}
		return apperrors.ErrInvalidParams.WithMessage("参数错误: " + strings.Join(messages, "; "))
	}

	// JSON格式错误、类型不匹配（如rating传了字符串）
	return &apperrors.AppError{
		Code:    apperrors.ErrCodeBindError,
		Message: "请求格式错误",
		Err:     err,
	}
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s不能为空", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s长度不能小于%s", field, fe.Param())
		}
		return fmt.Sprintf("%s不能小于%s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s长度不能大于%s", field, fe.Param())
		}
		return fmt.Sprintf("%s不能大于%s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s不能小于%s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s不能大于%s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s格式不正确", field)
	case "oneof":
		return fmt.Sprintf("%s必须是[%s]之一", field, fe.Param())
	case "alphanum":
		return fmt.Sprintf("%s只能包含字母和数字", field)
	default:
		return fmt.Sprintf("%s校验失败(%s)", field, fe.Tag())
	}
}
