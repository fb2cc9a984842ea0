package model

import "time"

// Participant is one submission against a room. In availability rooms Slots
// is any subset of the grid; in booking rooms it is exactly one of the
// host's offered slots.
type Participant struct {
	ID     string `json:"id,omitempty" validate:"omitempty,uuid4"`
	RoomID string `json:"room_id,omitempty" validate:"omitempty,uuid4"`

	Name  string `json:"name" validate:"required,min=1,max=80"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`

	Slots []string `json:"slots" validate:"required,min=1"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}
