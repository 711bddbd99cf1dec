package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"MyPetCare/internal/model"
	"MyPetCare/internal/onboarding"
	pkgerrors "MyPetCare/pkg/errors"
)

const sessionPrefix = "onboarding:session"

// SessionStore 保存进行中的引导会话。条目带 TTL，过期即视为放弃。
type SessionStore interface {
	// Get 会话不存在或已过期时返回 OnboardingSessionNotFound
	Get(ctx context.Context, id string) (*model.OnboardingSession, error)
	// Save 写入会话并刷新 TTL
	Save(ctx context.Context, session *model.OnboardingSession) error
	// Delete 删除会话，不存在时不报错
	Delete(ctx context.Context, id string) error
}

// 两种实现都只保存 JSON，避免调用方持有的指针被并发修改
func encodeSession(session *model.OnboardingSession) ([]byte, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode onboarding session: %w", err)
	}
	return data, nil
}

func decodeSession(data []byte) (*model.OnboardingSession, error) {
	var session model.OnboardingSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode onboarding session: %w", err)
	}

	if _, err := onboarding.RestoreSequencer(session.State); err != nil {
		return nil, fmt.Errorf("stored onboarding session is corrupted: %w", err)
	}
	if session.Form == nil {
		session.Form = onboarding.NewFormRecord()
	}

	return &session, nil
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", pkgerrors.OnboardingSessionNotFound, id)
}
