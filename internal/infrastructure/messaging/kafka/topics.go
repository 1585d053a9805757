// Package kafka publishes docket domain events for downstream consumers such
// as reminder schedulers and reporting pipelines.
package kafka

import "time"

// Topic names, keyed by event type.
const (
	TopicTriggerCreated      = "docket.trigger.created"
	TopicTriggerRecalculated = "docket.trigger.recalculated"
	TopicTriggerCancelled    = "docket.trigger.cancelled"
	TopicDeadlineCompleted   = "docket.deadline.completed"
)

// topicForEvent maps engine event types onto topics.  Unknown event types
// fall back to the dead-letter topic so nothing is silently dropped.
const TopicDeadLetter = "docket.deadletter"

func topicForEvent(eventType string) string {
	switch eventType {
	case "trigger.created":
		return TopicTriggerCreated
	case "trigger.recalculated":
		return TopicTriggerRecalculated
	case "trigger.cancelled":
		return TopicTriggerCancelled
	case "deadline.completed":
		return TopicDeadlineCompleted
	}
	return TopicDeadLetter
}

// EventEnvelope is the wire format shared by all docket events.
type EventEnvelope struct {
	EventID       string      `json:"eventId"`
	EventType     string      `json:"eventType"`
	Source        string      `json:"source"`
	Timestamp     time.Time   `json:"timestamp"`
	SchemaVersion string      `json:"schemaVersion"`
	Payload       interface{} `json:"payload"`
}
