package dto

import "github.com/google/uuid"

// ResizeMessage is the queue payload instructing the worker to produce
// one rendition.
type ResizeMessage struct {
	ImageID      uuid.UUID `json:"image_id"`
	TargetHeight int       `json:"target_height"`
}

// MessageWrapper pairs a delivered payload with the broker's delivery
// id. The id is used for log correlation only, never for dedup.
type MessageWrapper struct {
	MessageID string
	Body      ResizeMessage
}
