package analytics

import (
	"context"
	"encoding/json"
)

type Repository interface {
	Insert(ctx context.Context, e *Event) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record validates and stores one event. userID may be empty for
// anonymous traffic.
func (s *Service) Record(ctx context.Context, userID, eventType string, payload json.RawMessage) error {
	if _, ok := allowedTypes[eventType]; !ok {
		return ErrUnknownType
	}

	if len(payload) > MaxPayloadBytes {
		return ErrPayloadTooLarge
	}

	if len(payload) > 0 && !json.Valid(payload) {
		return ErrInvalidPayload
	}

	e := &Event{
		UserID:  userID,
		Type:    eventType,
		Payload: payload,
	}

	return s.repo.Insert(ctx, e)
}
