package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/hearth/pkg/adapters/memory"
	"github.com/aretw0/hearth/pkg/domain"
	"github.com/aretw0/hearth/pkg/ports"
	"github.com/aretw0/hearth/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// slowStore simulates latency to provoke race conditions if locking is missing.
type slowStore struct {
	ports.SessionStore
}

func (s slowStore) Save(ctx context.Context, session *domain.Session) error {
	time.Sleep(2 * time.Millisecond)
	return s.SessionStore.Save(ctx, session)
}

func (s slowStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	time.Sleep(2 * time.Millisecond)
	return s.SessionStore.Load(ctx, sessionID)
}

func TestManager_UpdateSerializesReadModifyWrite(t *testing.T) {
	manager := session.NewManager(slowStore{memory.NewStore()})
	ctx := context.Background()
	id := "race-test"

	var wg sync.WaitGroup
	const writers = 20
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Update(ctx, id, func(_ context.Context, s *domain.Session) error {
				s.AdjustTemperature("home", 1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	loaded, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultThermostatTemperature+writers, loaded.Thermostats["home"], "no update may be lost")
}

func TestManager_UpdateFailureSavesNothing(t *testing.T) {
	store := memory.NewStore()
	manager := session.NewManager(store)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := manager.Update(ctx, "s", func(_ context.Context, s *domain.Session) error {
		s.SetTemperature("home", 50)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Load(ctx, "s")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_LoadOrStart(t *testing.T) {
	manager := session.NewManager(slowStore{memory.NewStore()})
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := manager.LoadOrStart(ctx, id)
			assert.NoError(t, err)
			assert.NotNil(t, s)
		}()
	}
	wg.Wait()

	s, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, s.ID)
	assert.Empty(t, s.Thermostats)
	assert.Nil(t, s.Frame)

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)
}

type recordingLocker struct {
	mu       sync.Mutex
	locked   []string
	released int
	fail     error
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if l.fail != nil {
		return nil, l.fail
	}
	l.mu.Lock()
	l.locked = append(l.locked, key)
	l.mu.Unlock()
	return func(context.Context) error {
		l.mu.Lock()
		l.released++
		l.mu.Unlock()
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &recordingLocker{}
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(time.Second))
	ctx := context.Background()

	_, err := manager.Update(ctx, "s1", func(context.Context, *domain.Session) error { return nil })
	require.NoError(t, err)
	require.NoError(t, manager.Delete(ctx, "s1"))

	assert.Equal(t, []string{"s1", "s1"}, locker.locked)
	assert.Equal(t, 2, locker.released)
}

func TestManager_DistributedLockFailure(t *testing.T) {
	locker := &recordingLocker{fail: context.DeadlineExceeded}
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker))

	called := false
	err := manager.WithLock(context.Background(), "s1", func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)
}
