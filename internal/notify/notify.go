// Package notify delivers the engine's outcome events to the outside world.
// The core computes what happened; sinks decide how to show it.
package notify

import (
	"log/slog"

	"github.com/studydeck/coursecart/internal/domain"
)

type Sink interface {
	Publish(outcome domain.Outcome)
}

// SlogSink writes outcomes to the structured log.
type SlogSink struct{}

func NewSlogSink() *SlogSink {
	return &SlogSink{}
}

func (s *SlogSink) Publish(outcome domain.Outcome) {
	switch outcome.Kind {
	case domain.OutcomeError:
		slog.Error(outcome.Title, "description", outcome.Description)
	default:
		slog.Info(outcome.Title, "kind", outcome.Kind, "description", outcome.Description)
	}
}

// Multi fans one outcome out to several sinks.
type Multi struct {
	sinks []Sink
}

func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) Publish(outcome domain.Outcome) {
	for _, sink := range m.sinks {
		sink.Publish(outcome)
	}
}
