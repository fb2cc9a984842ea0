package validator

import (
	"errors"
	"fmt"

	roomsvalidator "slotboard/internal/rooms/validator"
	"slotboard/pkg/logger"
	"slotboard/pkg/model"
	"slotboard/pkg/slot"

	"github.com/go-playground/validator/v10"
)

type ParticipantValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewParticipantValidator(log *logger.Logger) *ParticipantValidator {
	return &ParticipantValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// Validate checks the submission's own shape plus its relation to the room:
// availability selections must stay inside the effective grid, bookings must
// claim exactly one of the host's offered slots.
func (v *ParticipantValidator) Validate(participant *model.Participant, room *model.Room) error {
	if err := v.validate.Struct(participant); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if room.IsBooking() {
		return v.validateBookingClaim(participant, room)
	}
	return v.validateAvailabilitySelection(participant, room)
}

func (v *ParticipantValidator) validateAvailabilitySelection(participant *model.Participant, room *model.Room) error {
	grid := room.Resolver().GridSet(room.Dates)

	var errs roomsvalidator.ValidationErrors
	seen := make(map[string]struct{}, len(participant.Slots))
	for i, raw := range participant.Slots {
		key, err := slot.Parse(raw)
		if err != nil {
			errs = append(errs, roomsvalidator.ValidationError{
				Field:   "Slots",
				Message: fmt.Sprintf("slots[%d]: %v", i, err),
			})
			continue
		}
		if _, ok := grid[key]; !ok {
			errs = append(errs, roomsvalidator.ValidationError{
				Field:   "Slots",
				Message: fmt.Sprintf("slots[%d]: %q is outside the room grid", i, raw),
			})
		}
		if _, dup := seen[raw]; dup {
			errs = append(errs, roomsvalidator.ValidationError{
				Field:   "Slots",
				Message: fmt.Sprintf("slots[%d]: %q appears more than once", i, raw),
			})
		}
		seen[raw] = struct{}{}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *ParticipantValidator) validateBookingClaim(participant *model.Participant, room *model.Room) error {
	if len(participant.Slots) != 1 {
		return roomsvalidator.ValidationErrors{
			roomsvalidator.ValidationError{
				Field:   "Slots",
				Message: fmt.Sprintf("booking rooms take exactly one slot, got %d", len(participant.Slots)),
			},
		}
	}

	claimed := participant.Slots[0]
	for _, offered := range room.HostSlots {
		if claimed == offered {
			return nil
		}
	}
	return roomsvalidator.ValidationErrors{
		roomsvalidator.ValidationError{
			Field:   "Slots",
			Message: fmt.Sprintf("%q is not one of the offered slots", claimed),
		},
	}
}

func (v *ParticipantValidator) translateValidationErrors(errs validator.ValidationErrors) roomsvalidator.ValidationErrors {
	var validationErrors roomsvalidator.ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		}

		validationErrors = append(validationErrors, roomsvalidator.ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
