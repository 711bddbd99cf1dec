package model

import (
	"time"

	"MyPetCare/internal/onboarding"
)

// OnboardingSession 表示一次引导会话在存储中的形态。
// 会话只在引导期间存在，完成、跳过或放弃后即被删除。
type OnboardingSession struct {
	ID        string                    `json:"id"`
	State     onboarding.SequencerState `json:"state"`
	Form      *onboarding.FormRecord    `json:"form"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// NewOnboardingSession 创建处于 welcome 第 0 页、表单全空的会话。
func NewOnboardingSession(id string, now time.Time) *OnboardingSession {
	return &OnboardingSession{
		ID:        id,
		State:     onboarding.NewSequencer().State(),
		Form:      onboarding.NewFormRecord(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
