package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/hearth/pkg/adapters/redis"
	"github.com/aretw0/hearth/pkg/domain"
	"github.com/aretw0/hearth/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ports.RunSessionStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	session := domain.NewSession("session-ttl")
	session.SetTemperature("home", 70)
	require.NoError(t, store.Save(ctx, session))

	loaded, err := store.Load(ctx, "session-ttl")
	require.NoError(t, err)
	assert.Equal(t, 70.0, loaded.Thermostats["home"])

	// Fast-forward miniredis past the TTL.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "session-ttl")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:"))
	require.NoError(t, store.Save(context.Background(), domain.NewSession("abc")))

	assert.True(t, mr.Exists("custom:abc"))
	assert.True(t, mr.Exists("custom:index"))
}

func TestRedisStore_FramePersistsAction(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	session := domain.NewSession("frame")
	session.Defer(domain.Frame{Action: domain.ActionTurnOffAppliance, Appliance: "oven"})
	require.NoError(t, store.Save(ctx, session))

	loaded, err := store.Load(ctx, "frame")
	require.NoError(t, err)
	require.NotNil(t, loaded.Frame)
	assert.Equal(t, domain.ActionTurnOffAppliance, loaded.Frame.Action)
	assert.Equal(t, "oven", loaded.Frame.Appliance)
}

func TestRedisStore_CorruptedFrameFailsLoad(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set("hearth:session:bad", `{"session_id":"bad","frame":{"desired_action":"Turn On"}}`))

	_, err := store.Load(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrUnknownAction)
}
