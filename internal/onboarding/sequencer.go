package onboarding

import (
	"fmt"

	pkgerrors "MyPetCare/pkg/errors"
)

// Outcome 表示一次迁移之后流程是否结束。
type Outcome int

const (
	// Pending 流程仍在进行
	Pending Outcome = iota
	// Finished 在最后一步点击了下一步
	Finished
	// Skipped 用户跳过了剩余步骤
	Skipped
)

// Completed 是否为完成信号，调用方据此跳转到 dashboard
func (o Outcome) Completed() bool {
	return o == Finished || o == Skipped
}

func (o Outcome) String() string {
	switch o {
	case Finished:
		return "finished"
	case Skipped:
		return "skipped"
	default:
		return "pending"
	}
}

// SequencerState 是 Sequencer 可序列化的状态，用于会话存储。
type SequencerState struct {
	CurrentStep  Step `json:"current_step"`
	WelcomeSlide int  `json:"welcome_slide"`
}

// Sequencer 持有当前步骤与欢迎轮播页码，并提供迁移操作。
//
// 所有迁移都是同步、即时的；越界请求直接忽略，不返回错误。
// Sequencer 不读取表单数据。
type Sequencer struct {
	current Step
	slide   int
}

// NewSequencer 从 welcome 第 0 页开始。
func NewSequencer() *Sequencer {
	return &Sequencer{current: StepWelcome}
}

// RestoreSequencer 从存储的状态恢复，校验步骤与页码的不变量。
func RestoreSequencer(state SequencerState) (*Sequencer, error) {
	if !state.CurrentStep.Valid() {
		return nil, fmt.Errorf("%w: %q", pkgerrors.OnboardingStepInvalid, state.CurrentStep)
	}
	if state.WelcomeSlide < 0 || state.WelcomeSlide >= WelcomeSlideCount {
		return nil, fmt.Errorf("%w: welcome slide %d out of range", pkgerrors.OnboardingStepInvalid, state.WelcomeSlide)
	}
	return &Sequencer{current: state.CurrentStep, slide: state.WelcomeSlide}, nil
}

func (s *Sequencer) State() SequencerState {
	return SequencerState{CurrentStep: s.current, WelcomeSlide: s.slide}
}

func (s *Sequencer) Current() Step {
	return s.current
}

func (s *Sequencer) WelcomeSlide() int {
	return s.slide
}

// AdvanceWelcome 轮播翻到下一页，最后一页再前进则进入 tutor。
func (s *Sequencer) AdvanceWelcome() {
	if s.current != StepWelcome {
		return
	}
	if s.slide < WelcomeSlideCount-1 {
		s.slide++
		return
	}
	s.current = StepTutor
}

// SkipWelcome 跳过剩余轮播，直接进入第一个表单步骤。
// 与 Skip 不同，它不会结束引导流程。
func (s *Sequencer) SkipWelcome() {
	if s.current != StepWelcome {
		return
	}
	s.current = StepTutor
}

// Next 前进到下一个表单步骤；在 notifications 上返回 Finished 且不改变状态。
func (s *Sequencer) Next() Outcome {
	i := indexOf(formSteps, s.current)
	if i < 0 {
		// welcome 中不允许 next
		return Pending
	}
	if i == len(formSteps)-1 {
		return Finished
	}
	s.current = formSteps[i+1]
	return Pending
}

// Back 回到上一步。从 tutor 回到 welcome 时轮播从第 0 页重新开始。
func (s *Sequencer) Back() {
	i := indexOf(allSteps, s.current)
	if i <= 0 {
		return
	}
	s.current = allSteps[i-1]
	if s.current == StepWelcome {
		s.slide = 0
	}
}

// Skip 任意状态下都直接返回完成信号。
func (s *Sequencer) Skip() Outcome {
	return Skipped
}

// Progress 返回表单进度百分比（截断取整），welcome 时为 0。
func (s *Sequencer) Progress() int {
	i := indexOf(formSteps, s.current)
	return (i + 1) * 100 / len(formSteps)
}
