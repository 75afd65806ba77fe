package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTurn    EventType = "turn"
	EventDefer   EventType = "defer"
	EventWeather EventType = "weather"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// TurnEvent is emitted once per handled turn.
type TurnEvent struct {
	EventBase
	Intent   Intent        `json:"intent"`
	Kind     ResponseKind  `json:"kind,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// FrameEvent is emitted when a handler defers an action.
type FrameEvent struct {
	EventBase
	Frame Frame `json:"frame"`
}

// WeatherEvent is emitted after every weather lookup attempt.
type WeatherEvent struct {
	EventBase
	City     string        `json:"city"`
	Unit     string        `json:"unit"`
	Outcome  string        `json:"outcome"`
	Duration time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for controller observability.
type LifecycleHooks struct {
	OnTurn    func(context.Context, *TurnEvent)
	OnDefer   func(context.Context, *FrameEvent)
	OnWeather func(context.Context, *WeatherEvent)
}
