package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MyPetCare/internal/cache"
	"MyPetCare/internal/onboarding"
	pkgerrors "MyPetCare/pkg/errors"
	"MyPetCare/pkg/response"
)

func newTestOnboardingService(t *testing.T) (*OnboardingService, *cache.MemorySessionStore) {
	t.Helper()

	store := cache.NewMemorySessionStore(time.Hour, time.Hour)
	svc := NewOnboardingService(store, cache.NewLocalSessionLocker(time.Second))

	var (
		mu  sync.Mutex
		seq int
	)
	svc.nextID = func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("session-%d", seq), nil
	}
	svc.now = func() time.Time {
		return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	}

	return svc, store
}

func TestOnboardingStart(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestOnboardingService(t)

	snap, err := svc.Start(ctx)
	require.NoError(t, err)

	assert.Equal(t, "session-1", snap.SessionID)
	assert.Equal(t, "welcome", snap.CurrentStep)
	assert.Equal(t, 0, snap.WelcomeSlide)
	require.NotNil(t, snap.Slide)
	assert.Equal(t, "Bem-vindo ao MyPetCare", snap.Slide.Title)
	assert.Equal(t, 0, snap.Progress)
	assert.False(t, snap.Completed)
	assert.Equal(t, "pending", snap.Outcome)
	assert.Equal(t, "", snap.Form["petName"])
	assert.Equal(t, []string{}, snap.Form["careTracking"])
	assert.Equal(t, 1, store.Len())
}

func TestOnboardingStartFailsWithoutID(t *testing.T) {
	svc, store := newTestOnboardingService(t)
	svc.nextID = func() (string, error) { return "", assert.AnError }

	_, err := svc.Start(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, store.Len())
}

func TestOnboardingSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestOnboardingService(t)

	a, err := svc.Start(ctx)
	require.NoError(t, err)
	b, err := svc.Start(ctx)
	require.NoError(t, err)

	_, err = svc.SkipWelcome(ctx, a.SessionID)
	require.NoError(t, err)
	_, err = svc.SetField(ctx, a.SessionID, "tutorName", "Maria")
	require.NoError(t, err)

	got, err := svc.Get(ctx, b.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "welcome", got.CurrentStep)
	assert.Equal(t, "", got.Form["tutorName"])
}

func TestOnboardingWelcomeCarousel(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestOnboardingService(t)

	start, err := svc.Start(ctx)
	require.NoError(t, err)
	id := start.SessionID

	for i := 1; i < onboarding.WelcomeSlideCount; i++ {
		snap, err := svc.AdvanceWelcome(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "welcome", snap.CurrentStep)
		assert.Equal(t, i, snap.WelcomeSlide)
	}

	snap, err := svc.AdvanceWelcome(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "tutor", snap.CurrentStep)
	assert.Nil(t, snap.Slide)
	assert.Equal(t, 14, snap.Progress)

	snap, err = svc.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "welcome", snap.CurrentStep)
	assert.Equal(t, 0, snap.WelcomeSlide)
}

func TestOnboardingFinishDeletesSession(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestOnboardingService(t)

	start, err := svc.Start(ctx)
	require.NoError(t, err)
	id := start.SessionID

	_, err = svc.SkipWelcome(ctx, id)
	require.NoError(t, err)

	for _, want := range []string{"petType", "petInfo", "health", "behavior", "routine", "notifications"} {
		snap, err := svc.Next(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, snap.CurrentStep)
		assert.False(t, snap.Completed)
	}

	_, err = svc.ToggleField(ctx, id, "careTracking", "Vacinas")
	require.NoError(t, err)

	snap, err := svc.Next(ctx, id)
	require.NoError(t, err)
	assert.True(t, snap.Completed)
	assert.Equal(t, "finished", snap.Outcome)
	assert.Equal(t, "notifications", snap.CurrentStep)
	assert.Equal(t, []string{"Vacinas"}, snap.Form["careTracking"])

	assert.Equal(t, 0, store.Len())
	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, pkgerrors.OnboardingSessionNotFound)
}

func TestOnboardingSkipFromHealth(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestOnboardingService(t)

	start, err := svc.Start(ctx)
	require.NoError(t, err)
	id := start.SessionID

	_, err = svc.SkipWelcome(ctx, id)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = svc.Next(ctx, id)
		require.NoError(t, err)
	}

	current, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "health", current.CurrentStep)
	assert.Equal(t, 57, current.Progress)

	snap, err := svc.Skip(ctx, id)
	require.NoError(t, err)
	assert.True(t, snap.Completed)
	assert.Equal(t, "skipped", snap.Outcome)
	assert.Equal(t, 0, store.Len())
}

func TestOnboardingNextAndBackInWelcomeAreNoops(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestOnboardingService(t)

	start, err := svc.Start(ctx)
	require.NoError(t, err)
	id := start.SessionID

	_, err = svc.AdvanceWelcome(ctx, id)
	require.NoError(t, err)

	snap, err := svc.Next(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "welcome", snap.CurrentStep)
	assert.Equal(t, 1, snap.WelcomeSlide)

	snap, err = svc.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "welcome", snap.CurrentStep)
	assert.Equal(t, 1, snap.WelcomeSlide)
}

func TestOnboardingFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestOnboardingService(t)

	start, err := svc.Start(ctx)
	require.NoError(t, err)
	id := start.SessionID

	snap, err := svc.SetField(ctx, id, "petName", "Max")
	require.NoError(t, err)
	assert.Equal(t, "Max", snap.Form["petName"])

	field, err := svc.ReadField(ctx, id, "petName")
	require.NoError(t, err)
	assert.Equal(t, "petName", field.Field)
	assert.Equal(t, "scalar", field.Kind)
	assert.Equal(t, "Max", field.Value)

	_, err = svc.ToggleField(ctx, id, "careTracking", "Vacinas")
	require.NoError(t, err)
	snap, err = svc.ToggleField(ctx, id, "careTracking", "Vacinas")
	require.NoError(t, err)
	assert.Equal(t, []string{}, snap.Form["careTracking"])

	field, err = svc.ReadField(ctx, id, "feedingTimes")
	require.NoError(t, err)
	assert.Equal(t, "set", field.Kind)
	assert.Equal(t, []string{}, field.Value)
}

func TestOnboardingFieldErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestOnboardingService(t)

	start, err := svc.Start(ctx)
	require.NoError(t, err)
	id := start.SessionID

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{
			name: "unknown field",
			run: func() error {
				_, err := svc.SetField(ctx, id, "nickname", "Rex")
				return err
			},
			wantErr: pkgerrors.OnboardingFieldInvalid,
		},
		{
			name: "set on multi-select",
			run: func() error {
				_, err := svc.SetField(ctx, id, "careTracking", "Vacinas")
				return err
			},
			wantErr: pkgerrors.OnboardingFieldKindMismatch,
		},
		{
			name: "toggle on scalar",
			run: func() error {
				_, err := svc.ToggleField(ctx, id, "petName", "Max")
				return err
			},
			wantErr: pkgerrors.OnboardingFieldKindMismatch,
		},
		{
			name: "read unknown field",
			run: func() error {
				_, err := svc.ReadField(ctx, id, "nickname")
				return err
			},
			wantErr: pkgerrors.OnboardingFieldInvalid,
		},
		{
			name: "unknown session",
			run: func() error {
				_, err := svc.SetField(ctx, "missing", "petName", "Max")
				return err
			},
			wantErr: pkgerrors.OnboardingSessionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.wantErr)
		})
	}

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "", got.Form["petName"])
	assert.Equal(t, []string{}, got.Form["careTracking"])
}

func TestOnboardingAbandon(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestOnboardingService(t)

	start, err := svc.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Abandon(ctx, start.SessionID))
	assert.Equal(t, 0, store.Len())

	err = svc.Abandon(ctx, start.SessionID)
	assert.ErrorIs(t, err, pkgerrors.OnboardingSessionNotFound)
}

func TestOnboardingConcurrentToggles(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestOnboardingService(t)

	start, err := svc.Start(ctx)
	require.NoError(t, err)
	id := start.SessionID

	options := []string{"Vacinas", "Vermífugo", "Antipulgas", "Banho e tosa", "Passeios", "Medicação", "Peso", "Exercícios"}

	var wg sync.WaitGroup
	for _, option := range options {
		wg.Add(1)
		go func(value string) {
			defer wg.Done()
			_, err := svc.ToggleField(ctx, id, "careTracking", value)
			assert.NoError(t, err)
		}(option)
	}
	wg.Wait()

	field, err := svc.ReadField(ctx, id, "careTracking")
	require.NoError(t, err)
	assert.ElementsMatch(t, options, field.Value)
}

func TestOnboardingBusySession(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemorySessionStore(time.Hour, time.Hour)
	locker := cache.NewLocalSessionLocker(30 * time.Millisecond)
	svc := NewOnboardingService(store, locker)
	svc.nextID = func() (string, error) { return "busy-1", nil }

	start, err := svc.Start(ctx)
	require.NoError(t, err)

	unlock, err := locker.Lock(ctx, start.SessionID)
	require.NoError(t, err)

	_, err = svc.Next(ctx, start.SessionID)
	assert.ErrorIs(t, err, pkgerrors.OnboardingSessionBusy)

	unlock()
	_, err = svc.SkipWelcome(ctx, start.SessionID)
	assert.NoError(t, err)
}

func TestOnboardingRedisOutage(t *testing.T) {
	ctx := context.Background()
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	breaker := cache.NewCircuitBreaker("test", 2, time.Minute)
	svc := NewOnboardingService(
		cache.NewRedisSessionStore(client, time.Hour, breaker),
		cache.NewRedisSessionLocker(client, 5*time.Second, time.Second, breaker),
	)

	for i := 0; i < 5; i++ {
		_, err := svc.Next(ctx, "1849302938475")
		require.ErrorIs(t, err, pkgerrors.StorageUnavailable)
		assert.Equal(t, 503, response.StatusOf(err))
	}
	assert.Equal(t, cache.StateOpen, breaker.GetState())

	_, err := svc.Get(ctx, "1849302938475")
	assert.ErrorIs(t, err, pkgerrors.StorageUnavailable)
}
