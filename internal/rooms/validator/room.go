package validator

import (
	"errors"
	"fmt"
	"strings"

	"slotboard/pkg/logger"
	"slotboard/pkg/model"
	"slotboard/pkg/slot"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type RoomValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRoomValidator(log *logger.Logger) *RoomValidator {
	v := validator.New()

	log.Info("Room validator initialized successfully")

	return &RoomValidator{
		validate: v,
		logger:   log,
	}
}

// Validate applies struct tags and the cross-field rules that tags cannot
// express: window sanity, date formats, per-date overrides, and the
// kind-specific shape of host fields. Rooms that fail here are never stored.
func (v *RoomValidator) Validate(room *model.Room) error {
	if err := v.validate.Struct(room); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	var errs ValidationErrors

	if !room.Window.Valid() {
		errs = append(errs, ValidationError{
			Field:   "Window",
			Message: fmt.Sprintf("window must satisfy 0 <= start < end <= 24, got [%d, %d)", room.Window.Start, room.Window.End),
		})
	}

	seen := make(map[string]struct{}, len(room.Dates))
	for i, date := range room.Dates {
		if err := slot.ParseDate(date); err != nil {
			errs = append(errs, ValidationError{
				Field:   "Dates",
				Message: fmt.Sprintf("dates[%d]: %q is not a valid YYYY-MM-DD date", i, date),
			})
			continue
		}
		if _, dup := seen[date]; dup {
			errs = append(errs, ValidationError{
				Field:   "Dates",
				Message: fmt.Sprintf("dates[%d]: %q appears more than once", i, date),
			})
		}
		seen[date] = struct{}{}
	}

	errs = append(errs, v.validateDateWindows(room, seen)...)

	switch room.Kind {
	case model.RoomKindBooking:
		errs = append(errs, v.validateBookingRoom(room)...)
	case model.RoomKindAvailability:
		if len(room.HostSlots) > 0 {
			errs = append(errs, ValidationError{
				Field:   "HostSlots",
				Message: "host_slots are only allowed on booking rooms",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *RoomValidator) validateDateWindows(room *model.Room, dates map[string]struct{}) ValidationErrors {
	if len(room.DateWindows) == 0 {
		return nil
	}

	var errs ValidationErrors

	if room.IsBooking() {
		errs = append(errs, ValidationError{
			Field:   "DateWindows",
			Message: "date_windows are only allowed on availability rooms",
		})
	}

	for date, w := range room.DateWindows {
		if _, ok := dates[date]; !ok {
			errs = append(errs, ValidationError{
				Field:   "DateWindows",
				Message: fmt.Sprintf("override for %q does not match any room date", date),
			})
		}
		if !w.Valid() {
			errs = append(errs, ValidationError{
				Field:   "DateWindows",
				Message: fmt.Sprintf("override for %q must satisfy 0 <= start < end <= 24, got [%d, %d)", date, w.Start, w.End),
			})
		}
	}

	return errs
}

func (v *RoomValidator) validateBookingRoom(room *model.Room) ValidationErrors {
	var errs ValidationErrors

	if room.HostName == "" {
		errs = append(errs, ValidationError{
			Field:   "HostName",
			Message: "host_name is required for booking rooms",
		})
	}
	if len(room.HostSlots) == 0 {
		errs = append(errs, ValidationError{
			Field:   "HostSlots",
			Message: "booking rooms must offer at least one host slot",
		})
		return errs
	}

	// Host slots must be real keys inside the room's own grid. The window
	// checks above may already have failed; an invalid window yields an
	// empty grid and every slot reports out of range, which is accurate.
	grid := room.Resolver().GridSet(room.Dates)
	seen := make(map[string]struct{}, len(room.HostSlots))
	for i, raw := range room.HostSlots {
		key, err := slot.Parse(raw)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   "HostSlots",
				Message: fmt.Sprintf("host_slots[%d]: %v", i, err),
			})
			continue
		}
		if _, ok := grid[key]; !ok {
			errs = append(errs, ValidationError{
				Field:   "HostSlots",
				Message: fmt.Sprintf("host_slots[%d]: %q is outside the room grid", i, raw),
			})
		}
		if _, dup := seen[raw]; dup {
			errs = append(errs, ValidationError{
				Field:   "HostSlots",
				Message: fmt.Sprintf("host_slots[%d]: %q appears more than once", i, raw),
			})
		}
		seen[raw] = struct{}{}
	}

	return errs
}

func (v *RoomValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
