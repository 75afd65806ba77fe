package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/hearth"
	"github.com/aretw0/hearth/pkg/adapters/memory"
	"github.com/aretw0/hearth/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	kb := memory.NewKnowledgeBase(map[string]map[string]any{
		"locations":    {"loc1": "Kitchen"},
		"temperatures": {"t5": 5},
	})
	assistant, err := hearth.New(hearth.WithKnowledgeBase(kb))
	require.NoError(t, err)
	return NewServer(assistant, nil)
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	content, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return content.Text
}

func TestHandleTurn_Conversation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleTurn(ctx, call(map[string]any{"session_id": "s1", "intent": "turn-lights-on"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var turn TurnResult
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &turn))
	assert.Equal(t, TurnResult{SessionID: "s1", Kind: domain.ResponsePrompt, Text: "Of course, which lights?"}, turn)

	res, err = s.handleTurn(ctx, call(map[string]any{
		"session_id": "s1",
		"intent":     "specify-location",
		"entities": []any{
			map[string]any{"type": "location", "value": []any{map[string]any{"id": "loc1"}}},
		},
	}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &turn))
	assert.Equal(t, "Ok. The kitchen lights have been turned on.", turn.Text)
}

func TestHandleTurn_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleTurn(ctx, call(map[string]any{"intent": "open-door"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleTurn(ctx, call(map[string]any{"session_id": "s", "intent": "turn-appliance-off"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "appliance")

	res, err = s.handleTurn(ctx, call(map[string]any{"session_id": "s", "intent": "open-door", "entities": "loc1"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetAndResetSession(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleGetSession(ctx, call(map[string]any{"session_id": "s1"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	_, err = s.handleTurn(ctx, call(map[string]any{
		"session_id": "s1",
		"intent":     "turn-down-thermostat",
		"entities":   []any{map[string]any{"type": "temperature", "value": []any{map[string]any{"id": "t5"}}}},
	}))
	require.NoError(t, err)

	res, err = s.handleGetSession(ctx, call(map[string]any{"session_id": "s1"}))
	require.NoError(t, err)
	var session domain.Session
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &session))
	assert.Equal(t, 67.0, session.Thermostats["home"])

	contents, err := s.readSessions(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	resource, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, SessionsURI, resource.URI)
	assert.JSONEq(t, `["s1"]`, resource.Text)

	res, err = s.handleResetSession(ctx, call(map[string]any{"session_id": "s1"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = s.handleGetSession(ctx, call(map[string]any{"session_id": "s1"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServerListsTools(t *testing.T) {
	s := newTestServer(t)
	msg := s.MCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	for _, name := range []string{"handle_turn", "get_session", "reset_session"} {
		assert.Contains(t, string(data), `"name":"`+name+`"`)
	}
}
