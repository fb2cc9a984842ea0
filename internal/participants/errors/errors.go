package errors

import "errors"

var (
	ErrNotFound = errors.New("participant not found")

	ErrInvalidID = errors.New("invalid participant ID format")

	ErrRoomNotFound = errors.New("room not found")

	// ErrSlotTaken is the repository-level signal that the transactional
	// occupancy re-check found another participant on the slot.
	ErrSlotTaken = errors.New("slot already taken")
)
