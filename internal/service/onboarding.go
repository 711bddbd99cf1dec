package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"MyPetCare/internal/cache"
	"MyPetCare/internal/model"
	"MyPetCare/internal/model/dto"
	"MyPetCare/internal/onboarding"
	"MyPetCare/pkg/logger"
	"MyPetCare/pkg/metrics"
	"MyPetCare/pkg/snowflake"
)

var (
	onboardingService *OnboardingService
	onboardingOnce    sync.Once
)

// InitOnboarding 注入会话存储与会话锁，需在注册路由前调用
func InitOnboarding(store cache.SessionStore, locker cache.SessionLocker) {
	onboardingOnce.Do(func() {
		onboardingService = NewOnboardingService(store, locker)
	})
}

func Onboarding() *OnboardingService {
	if onboardingService == nil {
		panic("onboarding service not init")
	}
	return onboardingService
}

// 迁移动作名，同时用于日志与指标
const (
	ActionAdvanceWelcome = "advance_welcome"
	ActionSkipWelcome    = "skip_welcome"
	ActionNext           = "next"
	ActionBack           = "back"
	ActionSkip           = "skip"
)

// OnboardingService 管理引导会话的创建、迁移与丢弃。
// 每个会话独立拥有自己的 Sequencer 与 FormRecord，服务本身不保存任何会话状态。
type OnboardingService struct {
	store  cache.SessionStore
	locker cache.SessionLocker
	nextID func() (string, error)
	now    func() time.Time
}

func NewOnboardingService(store cache.SessionStore, locker cache.SessionLocker) *OnboardingService {
	return &OnboardingService{
		store:  store,
		locker: locker,
		nextID: snowflake.NextString,
		now:    time.Now,
	}
}

// Start 创建新的会话，从 welcome 第 0 页开始，表单全空
func (s *OnboardingService) Start(ctx context.Context) (*dto.OnboardingSnapshot, error) {
	id, err := s.nextID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	session := model.NewOnboardingSession(id, s.now())
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	metrics.RecordSessionStarted(ctx)
	logger.Logger.Info("Onboarding session started", zap.String("session_id", id))

	return snapshot(session, onboarding.NewSequencer(), onboarding.Pending), nil
}

// Get 返回会话当前状态
func (s *OnboardingService) Get(ctx context.Context, sessionID string) (*dto.OnboardingSnapshot, error) {
	session, seq, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return snapshot(session, seq, onboarding.Pending), nil
}

func (s *OnboardingService) AdvanceWelcome(ctx context.Context, sessionID string) (*dto.OnboardingSnapshot, error) {
	return s.transition(ctx, sessionID, ActionAdvanceWelcome, func(seq *onboarding.Sequencer) onboarding.Outcome {
		seq.AdvanceWelcome()
		return onboarding.Pending
	})
}

func (s *OnboardingService) SkipWelcome(ctx context.Context, sessionID string) (*dto.OnboardingSnapshot, error) {
	return s.transition(ctx, sessionID, ActionSkipWelcome, func(seq *onboarding.Sequencer) onboarding.Outcome {
		seq.SkipWelcome()
		return onboarding.Pending
	})
}

func (s *OnboardingService) Next(ctx context.Context, sessionID string) (*dto.OnboardingSnapshot, error) {
	return s.transition(ctx, sessionID, ActionNext, (*onboarding.Sequencer).Next)
}

func (s *OnboardingService) Back(ctx context.Context, sessionID string) (*dto.OnboardingSnapshot, error) {
	return s.transition(ctx, sessionID, ActionBack, func(seq *onboarding.Sequencer) onboarding.Outcome {
		seq.Back()
		return onboarding.Pending
	})
}

func (s *OnboardingService) Skip(ctx context.Context, sessionID string) (*dto.OnboardingSnapshot, error) {
	return s.transition(ctx, sessionID, ActionSkip, (*onboarding.Sequencer).Skip)
}

// SetField 覆盖单值字段
func (s *OnboardingService) SetField(ctx context.Context, sessionID, fieldName, value string) (*dto.OnboardingSnapshot, error) {
	return s.updateField(ctx, sessionID, fieldName, "set", func(form *onboarding.FormRecord, field onboarding.Field) error {
		return form.SetScalar(field, value)
	})
}

// ToggleField 切换多选字段中的一个选项
func (s *OnboardingService) ToggleField(ctx context.Context, sessionID, fieldName, value string) (*dto.OnboardingSnapshot, error) {
	return s.updateField(ctx, sessionID, fieldName, "toggle", func(form *onboarding.FormRecord, field onboarding.Field) error {
		return form.Toggle(field, value)
	})
}

// ReadField 读取单个字段，未设置时返回默认值
func (s *OnboardingService) ReadField(ctx context.Context, sessionID, fieldName string) (*dto.FieldValueResponse, error) {
	field, err := onboarding.ParseField(fieldName)
	if err != nil {
		return nil, err
	}

	session, _, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	value := session.Form.Read(field)
	return &dto.FieldValueResponse{
		Field: field.String(),
		Kind:  value.Kind.String(),
		Value: value.Interface(),
	}, nil
}

// Abandon 放弃会话，丢弃已收集的数据
func (s *OnboardingService) Abandon(ctx context.Context, sessionID string) error {
	unlock, err := s.locker.Lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	session, _, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}

	metrics.RecordSessionAbandoned(ctx, session.State.CurrentStep.String())
	logger.Logger.Info("Onboarding session abandoned",
		zap.String("session_id", sessionID),
		zap.String("step", session.State.CurrentStep.String()),
	)
	return nil
}

func (s *OnboardingService) transition(
	ctx context.Context,
	sessionID string,
	action string,
	apply func(*onboarding.Sequencer) onboarding.Outcome,
) (*dto.OnboardingSnapshot, error) {
	unlock, err := s.locker.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, seq, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	from := seq.Current()
	outcome := apply(seq)
	metrics.RecordTransition(ctx, action, from.String(), seq.Current().String())

	if outcome.Completed() {
		// 完成后会话即被丢弃，跳转由渲染层负责
		if err := s.store.Delete(ctx, sessionID); err != nil {
			return nil, err
		}

		metrics.RecordSessionCompleted(ctx, outcome.String(), from.String())
		logger.Logger.Info("Onboarding session completed",
			zap.String("session_id", sessionID),
			zap.String("outcome", outcome.String()),
			zap.String("step", from.String()),
		)
		return snapshot(session, seq, outcome), nil
	}

	session.State = seq.State()
	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	logger.Logger.Debug("Onboarding transition applied",
		zap.String("session_id", sessionID),
		zap.String("action", action),
		zap.String("from", from.String()),
		zap.String("to", seq.Current().String()),
		zap.Int("welcome_slide", seq.WelcomeSlide()),
	)
	return snapshot(session, seq, onboarding.Pending), nil
}

func (s *OnboardingService) updateField(
	ctx context.Context,
	sessionID string,
	fieldName string,
	mode string,
	apply func(*onboarding.FormRecord, onboarding.Field) error,
) (*dto.OnboardingSnapshot, error) {
	field, err := onboarding.ParseField(fieldName)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, seq, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := apply(session.Form, field); err != nil {
		return nil, err
	}

	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	metrics.RecordFieldUpdate(ctx, field.String(), mode)
	// 不记录字段值，属于用户输入
	logger.Logger.Debug("Onboarding field updated",
		zap.String("session_id", sessionID),
		zap.String("field", field.String()),
		zap.String("mode", mode),
	)
	return snapshot(session, seq, onboarding.Pending), nil
}

func (s *OnboardingService) load(ctx context.Context, sessionID string) (*model.OnboardingSession, *onboarding.Sequencer, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	seq, err := onboarding.RestoreSequencer(session.State)
	if err != nil {
		return nil, nil, err
	}

	return session, seq, nil
}

func snapshot(session *model.OnboardingSession, seq *onboarding.Sequencer, outcome onboarding.Outcome) *dto.OnboardingSnapshot {
	snap := &dto.OnboardingSnapshot{
		SessionID:    session.ID,
		CurrentStep:  seq.Current().String(),
		WelcomeSlide: seq.WelcomeSlide(),
		Progress:     seq.Progress(),
		Completed:    outcome.Completed(),
		Outcome:      outcome.String(),
		Form:         session.Form.Snapshot(),
	}

	if seq.Current() == onboarding.StepWelcome {
		if slide, ok := onboarding.SlideAt(seq.WelcomeSlide()); ok {
			snap.Slide = &slide
		}
	}

	return snap
}
