package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "MyPetCare/pkg/errors"
)

func sequencerAt(t *testing.T, step Step) *Sequencer {
	t.Helper()
	seq, err := RestoreSequencer(SequencerState{CurrentStep: step})
	require.NoError(t, err)
	return seq
}

func TestNewSequencerStartsAtWelcome(t *testing.T) {
	seq := NewSequencer()

	assert.Equal(t, StepWelcome, seq.Current())
	assert.Equal(t, 0, seq.WelcomeSlide())
	assert.Equal(t, 0, seq.Progress())
}

func TestAdvanceWelcome(t *testing.T) {
	seq := NewSequencer()

	for i := 1; i <= 3; i++ {
		seq.AdvanceWelcome()
		assert.Equal(t, StepWelcome, seq.Current())
		assert.Equal(t, i, seq.WelcomeSlide())
	}

	seq.AdvanceWelcome()
	assert.Equal(t, StepTutor, seq.Current())
}

func TestAdvanceWelcomeOutsideCarouselIsNoop(t *testing.T) {
	seq := sequencerAt(t, StepHealth)

	seq.AdvanceWelcome()

	assert.Equal(t, StepHealth, seq.Current())
	assert.Equal(t, 0, seq.WelcomeSlide())
}

func TestSkipWelcome(t *testing.T) {
	for slide := 0; slide < WelcomeSlideCount; slide++ {
		seq, err := RestoreSequencer(SequencerState{CurrentStep: StepWelcome, WelcomeSlide: slide})
		require.NoError(t, err)

		seq.SkipWelcome()
		assert.Equal(t, StepTutor, seq.Current(), "slide %d", slide)
	}

	seq := sequencerAt(t, StepRoutine)
	seq.SkipWelcome()
	assert.Equal(t, StepRoutine, seq.Current())
}

func TestNextFollowsFormOrder(t *testing.T) {
	seq := sequencerAt(t, StepTutor)

	visited := []Step{seq.Current()}
	for i := 0; i < 6; i++ {
		assert.Equal(t, Pending, seq.Next())
		visited = append(visited, seq.Current())
	}

	assert.Equal(t, FormSteps(), visited)

	outcome := seq.Next()
	assert.Equal(t, Finished, outcome)
	assert.True(t, outcome.Completed())
	assert.Equal(t, StepNotifications, seq.Current(), "completion must not change state")
}

func TestNextInWelcomeIsNoop(t *testing.T) {
	seq := NewSequencer()
	seq.AdvanceWelcome()

	assert.Equal(t, Pending, seq.Next())
	assert.Equal(t, StepWelcome, seq.Current())
	assert.Equal(t, 1, seq.WelcomeSlide())
}

func TestBackReversesOrder(t *testing.T) {
	seq := sequencerAt(t, StepNotifications)

	visited := []Step{seq.Current()}
	for seq.Current() != StepWelcome {
		seq.Back()
		visited = append(visited, seq.Current())
	}

	all := AllSteps()
	reversed := make([]Step, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		reversed = append(reversed, all[i])
	}
	assert.Equal(t, reversed, visited)
}

func TestBackFromTutorRestartsCarousel(t *testing.T) {
	seq := NewSequencer()
	for i := 0; i < WelcomeSlideCount; i++ {
		seq.AdvanceWelcome()
	}
	require.Equal(t, StepTutor, seq.Current())

	seq.Back()

	assert.Equal(t, StepWelcome, seq.Current())
	assert.Equal(t, 0, seq.WelcomeSlide())
}

func TestBackInWelcomeIsNoop(t *testing.T) {
	seq := NewSequencer()
	seq.AdvanceWelcome()
	seq.AdvanceWelcome()

	seq.Back()

	assert.Equal(t, StepWelcome, seq.Current())
	assert.Equal(t, 2, seq.WelcomeSlide())
}

func TestSkipFromAnyStep(t *testing.T) {
	for _, step := range AllSteps() {
		t.Run(step.String(), func(t *testing.T) {
			seq := sequencerAt(t, step)

			outcome := seq.Skip()

			assert.Equal(t, Skipped, outcome)
			assert.True(t, outcome.Completed())
		})
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		step Step
		want int
	}{
		{StepWelcome, 0},
		{StepTutor, 14},
		{StepPetType, 28},
		{StepPetInfo, 42},
		{StepHealth, 57},
		{StepBehavior, 71},
		{StepRoutine, 85},
		{StepNotifications, 100},
	}

	for _, tt := range tests {
		t.Run(tt.step.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, sequencerAt(t, tt.step).Progress())
		})
	}
}

func TestRestoreSequencerValidatesState(t *testing.T) {
	tests := []struct {
		name  string
		state SequencerState
	}{
		{name: "unknown step", state: SequencerState{CurrentStep: "payment"}},
		{name: "empty step", state: SequencerState{}},
		{name: "negative slide", state: SequencerState{CurrentStep: StepWelcome, WelcomeSlide: -1}},
		{name: "slide past carousel", state: SequencerState{CurrentStep: StepWelcome, WelcomeSlide: WelcomeSlideCount}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RestoreSequencer(tt.state)
			assert.ErrorIs(t, err, pkgerrors.OnboardingStepInvalid)
		})
	}
}

func TestSequencerStateRoundTrip(t *testing.T) {
	seq := NewSequencer()
	seq.AdvanceWelcome()
	seq.AdvanceWelcome()

	restored, err := RestoreSequencer(seq.State())
	require.NoError(t, err)

	assert.Equal(t, seq.Current(), restored.Current())
	assert.Equal(t, seq.WelcomeSlide(), restored.WelcomeSlide())
}

func TestParseStep(t *testing.T) {
	step, err := ParseStep("petInfo")
	require.NoError(t, err)
	assert.Equal(t, StepPetInfo, step)

	_, err = ParseStep("PetInfo")
	assert.ErrorIs(t, err, pkgerrors.OnboardingStepInvalid)
}
