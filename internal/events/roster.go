// Package events defines the roster change payloads published by the signup service.
package events

import "time"

// Event types emitted when an activity roster changes.
const (
	TypeParticipantSignedUp     = "activity.participant_signed_up"
	TypeParticipantUnregistered = "activity.participant_unregistered"
)

// RosterChanged is the message emitted when a student joins or leaves an activity.
type RosterChanged struct {
	EventID          string    `json:"event_id"`
	EventType        string    `json:"event_type"`
	Activity         string    `json:"activity"`
	Email            string    `json:"email"`
	ParticipantCount int       `json:"participant_count"`
	MaxParticipants  int       `json:"max_participants"`
	OccurredAt       time.Time `json:"occurred_at"`
}
