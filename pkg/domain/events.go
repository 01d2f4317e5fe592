package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGenerationStart EventType = "generation_start"
	EventGenerationDone  EventType = "generation_done"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// GenerationEvent describes one generation pass.
type GenerationEvent struct {
	EventBase
	Project  string        `json:"project,omitempty"`
	Nodes    int           `json:"nodes"`
	Warnings int           `json:"warnings,omitempty"`
	Cached   bool          `json:"cached,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	// Err is set on EventGenerationDone when the pass failed.
	Err error `json:"-"`
}

// GenerationHooks defines callbacks for generator observability.
// Nil fields are skipped.
type GenerationHooks struct {
	OnGenerationStart func(context.Context, *GenerationEvent)
	OnGenerationDone  func(context.Context, *GenerationEvent)
}
