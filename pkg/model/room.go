package model

import (
	"time"

	"slotboard/pkg/slot"
)

type RoomKind string

const (
	RoomKindAvailability RoomKind = "availability"
	RoomKindBooking      RoomKind = "booking"
)

// Room is a shareable scheduling board. Availability rooms collect overlap
// from everyone; booking rooms offer the host's slots for exclusive claims.
// Rooms are immutable after creation, only participants come and go.
type Room struct {
	ID    string   `json:"id,omitempty" validate:"omitempty,uuid4"`
	Title string   `json:"title" validate:"required,min=1,max=120"`
	Kind  RoomKind `json:"kind" validate:"required,oneof=availability booking"`

	Dates  []string    `json:"dates" validate:"required,min=1,max=60"`
	Window slot.Window `json:"window"`

	// DateWindows overrides the default window on specific dates.
	// Availability rooms only.
	DateWindows map[string]slot.Window `json:"date_windows,omitempty"`

	// HostSlots is the subset of the grid the host offers for booking.
	// Booking rooms only.
	HostSlots []string `json:"host_slots,omitempty"`

	HostName  string `json:"host_name,omitempty" validate:"omitempty,min=1,max=80"`
	HostEmail string `json:"host_email,omitempty" validate:"omitempty,email"`
	MeetLink  string `json:"meet_link,omitempty" validate:"omitempty,url"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Resolver builds the time-range resolver for this room's windows.
func (r *Room) Resolver() *slot.Resolver {
	return slot.NewResolver(r.Window, r.DateWindows)
}

// Grid is the full slot set of the room, per-date windows applied.
func (r *Room) Grid() []slot.Key {
	return r.Resolver().Grid(r.Dates)
}

func (r *Room) IsBooking() bool {
	return r.Kind == RoomKindBooking
}
