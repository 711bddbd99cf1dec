package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"MyPetCare/internal/handler"
	"MyPetCare/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.RequestIDMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())
	v1 := h.Group("/v1")

	// 引导流程路由
	onboarding := v1.Group("/onboarding")
	{
		onboarding.GET("/catalog", handler.GetOnboardingCatalog)
		onboarding.POST("/sessions", middleware.SessionRateLimitMiddleware(), handler.StartOnboarding)

		session := onboarding.Group("/sessions/:session_id")
		{
			session.GET("", handler.GetOnboardingSession)
			session.DELETE("", handler.AbandonOnboarding)

			// 轮播
			session.POST("/welcome/advance", handler.AdvanceWelcome)
			session.POST("/welcome/skip", handler.SkipWelcome)

			// 表单步骤
			session.POST("/next", handler.NextStep)
			session.POST("/back", handler.PreviousStep)
			session.POST("/skip", handler.SkipOnboarding)

			// 表单字段
			session.GET("/fields/:field", handler.GetOnboardingField)
			session.PUT("/fields/:field", handler.SetOnboardingField)
			session.POST("/fields/:field/toggle", handler.ToggleOnboardingField)
		}
	}

	// 首页
	v1.GET("/dashboard", handler.GetDashboard)
}
