package registry_test

import (
	"context"
	"testing"

	"github.com/aretw0/hearth/pkg/domain"
	"github.com/aretw0/hearth/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reply(text string) registry.HandlerFunc {
	return func(context.Context, *registry.Request) (domain.Response, error) {
		return domain.Reply(text), nil
	}
}

func TestRegistry_Dispatch(t *testing.T) {
	r := registry.NewRegistry()
	r.Register(domain.IntentOpenDoor, reply("open"))
	r.Register(domain.IntentCloseDoor, reply("close"))

	resp, err := r.Dispatch(context.Background(), &registry.Request{Turn: domain.Turn{Intent: domain.IntentOpenDoor}})
	require.NoError(t, err)
	assert.Equal(t, domain.Reply("open"), resp)

	assert.Equal(t, []domain.Intent{domain.IntentCloseDoor, domain.IntentOpenDoor}, r.Intents())
}

func TestRegistry_Fallback(t *testing.T) {
	r := registry.NewRegistry()
	req := &registry.Request{Turn: domain.Turn{Intent: "sing-a-song"}}

	_, err := r.Dispatch(context.Background(), req)
	assert.ErrorIs(t, err, registry.ErrNoHandler)

	r.SetFallback(func(context.Context, *registry.Request) (domain.Response, error) {
		return domain.Prompt("huh?"), nil
	})
	resp, err := r.Dispatch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.Prompt("huh?"), resp)

	_, ok := r.Lookup("sing-a-song")
	assert.False(t, ok, "fallback must not show up in Lookup")
}

func TestRegistry_Overwrite(t *testing.T) {
	r := registry.NewRegistry()
	r.Register(domain.IntentLockDoor, reply("first"))
	r.Register(domain.IntentLockDoor, reply("second"))

	resp, err := r.Dispatch(context.Background(), &registry.Request{Turn: domain.Turn{Intent: domain.IntentLockDoor}})
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Text)
}
