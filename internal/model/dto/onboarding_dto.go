package dto

import "MyPetCare/internal/onboarding"

// ========== Onboarding 相关 DTO ==========

// OnboardingSnapshot 每次操作后返回给渲染层的完整状态
type OnboardingSnapshot struct {
	SessionID    string                 `json:"session_id"`
	CurrentStep  string                 `json:"current_step"`
	WelcomeSlide int                    `json:"welcome_slide"`
	Slide        *onboarding.Slide      `json:"slide,omitempty"` // 仅在 welcome 时返回当前页内容
	Progress     int                    `json:"progress"`
	Completed    bool                   `json:"completed"`
	Outcome      string                 `json:"outcome"` // pending, finished, skipped
	Form         map[string]interface{} `json:"form"`
}

// FieldValueRequest 设置单值字段或切换多选字段的请求体
type FieldValueRequest struct {
	Value string `json:"value"`
}

// FieldValueResponse 读取单个字段
type FieldValueResponse struct {
	Field string      `json:"field"`
	Kind  string      `json:"kind"`
	Value interface{} `json:"value"`
}
