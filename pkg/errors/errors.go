// Package errors 提供统一的错误定义
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误
	CodeSuccess         ErrorCode = "OK"
	CodeUnknown         ErrorCode = "UNKNOWN"
	CodeInvalidParam    ErrorCode = "INVALID_PARAM"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeTooManyRequests ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"

	// 输入校验错误
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// 生成类业务错误
	CodeStoryGenerationFailed ErrorCode = "STORY_GENERATION_FAILED"
	CodeImageGenerationFailed ErrorCode = "IMAGE_GENERATION_FAILED"
	CodeInvalidResponse       ErrorCode = "INVALID_RESPONSE"

	// 提供商错误
	CodeProviderNotConfigured ErrorCode = "PROVIDER_NOT_CONFIGURED"
	CodeProviderUnavailable   ErrorCode = "PROVIDER_UNAVAILABLE"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail 添加详细信息，返回副本以保持预定义错误不可变
func (e *AppError) WithDetail(detail string) *AppError {
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithError 添加底层错误，返回副本以保持预定义错误不可变
func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeStoryGenerationFailed, CodeImageGenerationFailed, CodeInvalidResponse:
		return http.StatusUnprocessableEntity
	case CodeProviderNotConfigured, CodeProviderUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrInvalidParam    = New(CodeInvalidParam, "invalid parameter")
	ErrNotFound        = New(CodeNotFound, "resource not found")
	ErrTooManyRequests = New(CodeTooManyRequests, "too many requests")
	ErrInternalError   = New(CodeInternalError, "internal server error")

	ErrValidationFailed      = New(CodeValidationFailed, "validation failed")
	ErrStoryGenerationFailed = New(CodeStoryGenerationFailed, "story generation failed")
	ErrImageGenerationFailed = New(CodeImageGenerationFailed, "image generation failed")
	ErrInvalidResponse       = New(CodeInvalidResponse, "provider returned unusable response")
	ErrProviderNotConfigured = New(CodeProviderNotConfigured, "provider not configured")
	ErrProviderUnavailable   = New(CodeProviderUnavailable, "provider unavailable")
)

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
