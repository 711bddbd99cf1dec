package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"MyPetCare/internal/service"
	"MyPetCare/pkg/response"
)

// GetDashboard 获取首页数据，引导完成或跳过后渲染层跳转到这里
// GET /v1/dashboard?tab=home
func GetDashboard(ctx context.Context, c *app.RequestContext) {
	result, err := service.Dashboard().GetDashboard(ctx, c.Query("tab"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
