package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"MyPetCare/pkg/errors"
)

// ErrorResponse 统一的错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Details map[string]interface{} `json:"details,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
}

// SuccessResponse 统一的成功响应格式
type SuccessResponse struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

// StatusOf 根据错误码映射 HTTP 状态码
func StatusOf(err error) int {
	def, ok := errors.As(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch def.Code {
	case errors.InvalidRequest.Code,
		errors.OnboardingStepInvalid.Code,
		errors.OnboardingFieldInvalid.Code,
		errors.OnboardingFieldKindMismatch.Code,
		errors.DashboardTabInvalid.Code:
		return http.StatusBadRequest // 400
	case errors.OnboardingSessionNotFound.Code:
		return http.StatusNotFound // 404
	case errors.OnboardingSessionBusy.Code:
		return http.StatusConflict // 409
	case errors.TooManyRequests.Code:
		return http.StatusTooManyRequests // 429
	case errors.StorageUnavailable.Code:
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}

// describe 取出错误码与信息；被包装的 Definition 使用完整的错误文本作为 message
func describe(err error) (string, string) {
	if def, ok := errors.As(err); ok {
		return def.Code, err.Error()
	}
	return errors.Internal.Code, err.Error()
}

// Error 返回错误响应
func Error(ctx context.Context, c *app.RequestContext, err error) {
	ErrorWithDetails(ctx, c, err, nil)
}

func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string]interface{}) {
	code, message := describe(err)

	c.JSON(StatusOf(err), ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
	})
}

func SuccessWithMeta(ctx context.Context, c *app.RequestContext, data interface{}, meta map[string]interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

// Created 返回 201，用于创建会话
func Created(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Data: data,
	})
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    errors.InvalidRequest.Code,
			Message: err.Error(),
		},
	})
}

// NoContent 返回 204 No Content（用于 DELETE 等操作）
func NoContent(ctx context.Context, c *app.RequestContext) {
	c.Status(http.StatusNoContent)
}
