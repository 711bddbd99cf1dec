package onboarding

import (
	"fmt"

	pkgerrors "MyPetCare/pkg/errors"
)

// Step 表示引导流程中的一个命名步骤。
type Step string

const (
	StepWelcome       Step = "welcome"
	StepTutor         Step = "tutor"
	StepPetType       Step = "petType"
	StepPetInfo       Step = "petInfo"
	StepHealth        Step = "health"
	StepBehavior      Step = "behavior"
	StepRoutine       Step = "routine"
	StepNotifications Step = "notifications"
)

// WelcomeSlideCount 欢迎轮播的页数
const WelcomeSlideCount = 4

var (
	// allSteps 完整顺序，back 使用
	allSteps = []Step{
		StepWelcome,
		StepTutor,
		StepPetType,
		StepPetInfo,
		StepHealth,
		StepBehavior,
		StepRoutine,
		StepNotifications,
	}

	// formSteps 表单步骤顺序，next 与进度条使用
	formSteps = allSteps[1:]
)

// AllSteps 返回完整的步骤顺序（包含 welcome）。
func AllSteps() []Step {
	out := make([]Step, len(allSteps))
	copy(out, allSteps)
	return out
}

// FormSteps 返回表单步骤顺序（不含 welcome）。
func FormSteps() []Step {
	out := make([]Step, len(formSteps))
	copy(out, formSteps)
	return out
}

// ParseStep 将字符串解析为 Step，未知名称返回 OnboardingStepInvalid。
func ParseStep(name string) (Step, error) {
	step := Step(name)
	if !step.Valid() {
		return "", fmt.Errorf("%w: %q", pkgerrors.OnboardingStepInvalid, name)
	}
	return step, nil
}

func (s Step) Valid() bool {
	return indexOf(allSteps, s) >= 0
}

func (s Step) String() string {
	return string(s)
}

func indexOf(steps []Step, s Step) int {
	for i, step := range steps {
		if step == s {
			return i
		}
	}
	return -1
}
