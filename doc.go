/*
Package hearth is a task-oriented dialogue controller for a home assistant.

It receives turns that an upstream classifier has already labelled with an
intent and a list of entities, resolves those entities against a knowledge
base, and answers with exactly one reply or one clarifying prompt. When a turn
is missing the room or the temperature it needs, the action is parked in the
session as a pending frame and completed by the next turn's answer.

# Devices

Doors, lights and appliances can be switched immediately when the room (or
"all") is known. Thermostats keep a per-room temperature, defaulting to 72°F,
and can be set, turned up or down, switched on or off and checked. Weather
questions are answered from OpenWeather when an API key is available.

# Usage

	kb := memory.NewKnowledgeBase(map[string]map[string]any{
		"locations": {"loc1": "Kitchen"},
	})

	assistant, err := hearth.New(hearth.WithKnowledgeBase(kb))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	resp, _ := assistant.Handle(ctx, "session-1", domain.Turn{Intent: domain.IntentCloseDoor})
	fmt.Println(resp.Text) // Of course, which door?

	resp, _ = assistant.Handle(ctx, "session-1", domain.Turn{
		Intent: domain.IntentSpecifyLocation,
		Entities: []domain.Entity{
			{Type: domain.EntityLocation, Value: []domain.EntityValue{{ID: "loc1"}}},
		},
	})
	fmt.Println(resp.Text) // Ok. The kitchen door has been closed.

Sessions persist through a ports.SessionStore (memory, file, redis), optionally
sealed with AES-GCM, and turns of one session are serialized by pkg/session.
The same assistant can be served over HTTP, MCP or an interactive chat from the
hearth command.
*/
package hearth
