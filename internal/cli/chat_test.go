package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/hearth"
	"github.com/aretw0/hearth/pkg/adapters/memory"
	"github.com/aretw0/hearth/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line    string
		want    domain.Turn
		wantErr string
	}{
		{
			line: "close-door",
			want: domain.Turn{Intent: domain.IntentCloseDoor},
		},
		{
			line: "  specify-location   location=loc1 ",
			want: domain.Turn{Intent: domain.IntentSpecifyLocation, Entities: []domain.Entity{
				{Type: domain.EntityLocation, Value: []domain.EntityValue{{ID: "loc1"}}},
			}},
		},
		{
			line: "turn-lights-off all",
			want: domain.Turn{Intent: domain.IntentTurnLightsOff, Entities: []domain.Entity{
				{Type: domain.EntityAll},
			}},
		},
		{line: "", wantErr: "empty line"},
		{line: "open-door location=", wantErr: "has no id"},
		{line: "open-door =loc1", wantErr: "malformed"},
		{line: "open-door kitchen", wantErr: "malformed"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newAssistant(t *testing.T) *hearth.Assistant {
	t.Helper()
	a, err := hearth.New(hearth.WithKnowledgeBase(memory.NewKnowledgeBase(map[string]map[string]any{
		"locations": {"loc1": "Kitchen"},
	})))
	require.NoError(t, err)
	return a
}

func TestRunChat(t *testing.T) {
	a := newAssistant(t)
	in := strings.NewReader(strings.Join([]string{
		"close-door",
		"specify-location location=loc1",
		"open-door kitchen",
		"turn-appliance-on",
		"check-thermostat",
		"reset",
		"quit",
		"check-thermostat",
	}, "\n"))
	var out bytes.Buffer

	err := RunChat(context.Background(), a, ChatOptions{SessionID: "chat", In: in, Out: &out})
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Of course, which door?\n")
	assert.Contains(t, got, "Ok. The kitchen door has been closed.\n")
	assert.Contains(t, got, `>>> malformed entity "kitchen"`)
	assert.Contains(t, got, ">>> error:")
	assert.Contains(t, got, "Current thermostat temperature in the home is 72.\n")
	assert.Contains(t, got, ">>> Session 'chat' reset.")
	assert.Equal(t, 1, strings.Count(got, "Current thermostat temperature"))

	_, err = a.Session(context.Background(), "chat")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRunChat_EOF(t *testing.T) {
	var out bytes.Buffer
	err := RunChat(context.Background(), newAssistant(t), ChatOptions{SessionID: "s", In: strings.NewReader("open-door"), Out: &out})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Of course, which door?")
}

func TestRunChat_Render(t *testing.T) {
	var out bytes.Buffer
	render := func(md string) (string, error) { return "[" + md + "]\n", nil }

	err := RunChat(context.Background(), newAssistant(t), ChatOptions{SessionID: "s", In: strings.NewReader("open-door\n"), Out: &out, Render: render})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[_Of course, which door?_]")
}
