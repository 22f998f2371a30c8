package report

import (
	"context"
	"encoding/json"
	"fmt"
)

// RetainedPublisher publishes a retained message. Satisfied by *mqtt.Client.
type RetainedPublisher interface {
	PublishRetained(topic string, payload []byte) error
}

// Notice is the retained message announcing a regenerated configuration.
type Notice struct {
	Event string `json:"event"`
	Stats
}

// NoticeSink announces the run on the message bus so runtime services can
// reload their configuration.
type NoticeSink struct {
	Publisher RetainedPublisher
	Topic     string
}

// Name implements Sink.
func (NoticeSink) Name() string { return "mqtt" }

// Publish implements Sink.
func (s NoticeSink) Publish(_ context.Context, st Stats) error {
	event := "regenerated"
	if !st.Success() {
		event = "incomplete"
	}
	payload, err := json.Marshal(Notice{Event: event, Stats: st})
	if err != nil {
		return fmt.Errorf("encoding notice: %w", err)
	}
	if err := s.Publisher.PublishRetained(s.Topic, payload); err != nil {
		return fmt.Errorf("publishing notice: %w", err)
	}
	return nil
}
