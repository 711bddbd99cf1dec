package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"MyPetCare/internal/model/dto"
	"MyPetCare/internal/onboarding"
	"MyPetCare/internal/service"
	"MyPetCare/pkg/errors"
	"MyPetCare/pkg/response"
)

// GetOnboardingCatalog 获取轮播与各步骤字段的展示数据。
// GET /v1/onboarding/catalog
func GetOnboardingCatalog(ctx context.Context, c *app.RequestContext) {
	response.Success(ctx, c, onboarding.DefaultCatalog())
}

// StartOnboarding 创建新的引导会话。
// POST /v1/onboarding/sessions
func StartOnboarding(ctx context.Context, c *app.RequestContext) {
	result, err := service.Onboarding().Start(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, result)
}

// GetOnboardingSession 获取会话当前状态。
// GET /v1/onboarding/sessions/:session_id
func GetOnboardingSession(ctx context.Context, c *app.RequestContext) {
	sessionID, ok := sessionIDParam(ctx, c)
	if !ok {
		return
	}

	result, err := service.Onboarding().Get(ctx, sessionID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// AbandonOnboarding 放弃会话并丢弃已填写的数据。
// DELETE /v1/onboarding/sessions/:session_id
func AbandonOnboarding(ctx context.Context, c *app.RequestContext) {
	sessionID, ok := sessionIDParam(ctx, c)
	if !ok {
		return
	}

	if err := service.Onboarding().Abandon(ctx, sessionID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// AdvanceWelcome 轮播下一页。
// POST /v1/onboarding/sessions/:session_id/welcome/advance
func AdvanceWelcome(ctx context.Context, c *app.RequestContext) {
	runTransition(ctx, c, service.Onboarding().AdvanceWelcome)
}

// SkipWelcome 跳过轮播，进入第一个表单步骤。
// POST /v1/onboarding/sessions/:session_id/welcome/skip
func SkipWelcome(ctx context.Context, c *app.RequestContext) {
	runTransition(ctx, c, service.Onboarding().SkipWelcome)
}

// NextStep 下一步，最后一步时返回 completed。
// POST /v1/onboarding/sessions/:session_id/next
func NextStep(ctx context.Context, c *app.RequestContext) {
	runTransition(ctx, c, service.Onboarding().Next)
}

// PreviousStep 上一步。
// POST /v1/onboarding/sessions/:session_id/back
func PreviousStep(ctx context.Context, c *app.RequestContext) {
	runTransition(ctx, c, service.Onboarding().Back)
}

// SkipOnboarding 跳过整个引导流程。
// POST /v1/onboarding/sessions/:session_id/skip
func SkipOnboarding(ctx context.Context, c *app.RequestContext) {
	runTransition(ctx, c, service.Onboarding().Skip)
}

// GetOnboardingField 读取单个字段。
// GET /v1/onboarding/sessions/:session_id/fields/:field
func GetOnboardingField(ctx context.Context, c *app.RequestContext) {
	sessionID, ok := sessionIDParam(ctx, c)
	if !ok {
		return
	}

	result, err := service.Onboarding().ReadField(ctx, sessionID, c.Param("field"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// SetOnboardingField 覆盖单值字段。
// PUT /v1/onboarding/sessions/:session_id/fields/:field
func SetOnboardingField(ctx context.Context, c *app.RequestContext) {
	runFieldUpdate(ctx, c, service.Onboarding().SetField)
}

// ToggleOnboardingField 切换多选字段的选项。
// POST /v1/onboarding/sessions/:session_id/fields/:field/toggle
func ToggleOnboardingField(ctx context.Context, c *app.RequestContext) {
	runFieldUpdate(ctx, c, service.Onboarding().ToggleField)
}

func runTransition(
	ctx context.Context,
	c *app.RequestContext,
	fn func(context.Context, string) (*dto.OnboardingSnapshot, error),
) {
	sessionID, ok := sessionIDParam(ctx, c)
	if !ok {
		return
	}

	result, err := fn(ctx, sessionID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

func runFieldUpdate(
	ctx context.Context,
	c *app.RequestContext,
	fn func(context.Context, string, string, string) (*dto.OnboardingSnapshot, error),
) {
	sessionID, ok := sessionIDParam(ctx, c)
	if !ok {
		return
	}

	var req dto.FieldValueRequest
	if len(c.Request.Body()) > 0 {
		if err := c.BindJSON(&req); err != nil {
			response.BindError(ctx, c, err)
			return
		}
	}

	result, err := fn(ctx, sessionID, c.Param("field"), req.Value)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

func sessionIDParam(ctx context.Context, c *app.RequestContext) (string, bool) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		response.Error(ctx, c, errors.InvalidRequest)
		return "", false
	}
	return sessionID, true
}
