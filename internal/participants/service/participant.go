package service

import (
	"context"
	"errors"

	"slotboard/internal/events"
	"slotboard/internal/notify"
	participantserrors "slotboard/internal/participants/errors"
	"slotboard/internal/participants/repository"
	"slotboard/internal/participants/validator"
	roomserrors "slotboard/internal/rooms/errors"
	roomsrepo "slotboard/internal/rooms/repository"
	"slotboard/pkg/config"
	apperrors "slotboard/pkg/errors"
	"slotboard/pkg/model"
	"slotboard/pkg/sanitizer"
	"slotboard/pkg/slot"
)

type ParticipantService interface {
	Submit(ctx context.Context, roomID string, participant *model.Participant) error
	Cancel(ctx context.Context, roomID, participantID string) error
}

type participantService struct {
	repo      repository.ParticipantRepository
	rooms     roomsrepo.RoomRepository
	validator *validator.ParticipantValidator
	notifier  *notify.Notifier
	events    events.Publisher
	cfg       *config.Config
}

func NewParticipantService(
	repo repository.ParticipantRepository,
	rooms roomsrepo.RoomRepository,
	validator *validator.ParticipantValidator,
	notifier *notify.Notifier,
	publisher events.Publisher,
	cfg *config.Config,
) ParticipantService {
	return &participantService{
		repo:      repo,
		rooms:     rooms,
		validator: validator,
		notifier:  notifier,
		events:    publisher,
		cfg:       cfg,
	}
}

// Submit records a participant against a room. Availability submissions are
// plain inserts; booking claims go through the exclusive path where the
// occupancy re-check runs inside the insert transaction, so validation
// passing here never guarantees the claim wins.
func (s *participantService) Submit(ctx context.Context, roomID string, participant *model.Participant) error {
	if roomID == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}
	participant.RoomID = roomID
	participant.Name = sanitizer.NormalizeName(participant.Name)

	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(participant, room); err != nil {
		s.cfg.Log.Warn("Participant validation failed", "room_id", roomID, "error", err)
		return apperrors.Validation("Participant validation failed", map[string]any{"error": err.Error()})
	}

	if room.IsBooking() {
		return s.submitBooking(ctx, room, participant)
	}
	return s.submitAvailability(ctx, room, participant)
}

func (s *participantService) submitAvailability(ctx context.Context, room *model.Room, participant *model.Participant) error {
	if err := s.repo.Create(ctx, participant); err != nil {
		if errors.Is(err, participantserrors.ErrRoomNotFound) {
			// The room was deleted between the read and the insert.
			return apperrors.NotFoundWithID("Room", room.ID)
		}
		s.cfg.Log.Error("Failed to create participant", "room_id", room.ID, "error", err)
		return apperrors.Internal("Failed to submit availability", err)
	}

	s.events.ParticipantSubmitted(participant, room.Kind)
	s.cfg.Log.Info("Availability submitted",
		"room_id", room.ID,
		"participant_id", participant.ID,
		"slots", len(participant.Slots),
	)
	return nil
}

func (s *participantService) submitBooking(ctx context.Context, room *model.Room, participant *model.Participant) error {
	claimed := participant.Slots[0]

	if err := s.repo.CreateExclusive(ctx, participant, claimed); err != nil {
		switch {
		case errors.Is(err, participantserrors.ErrSlotTaken):
			s.cfg.Log.Info("Booking lost the slot race",
				"room_id", room.ID,
				"slot", claimed,
			)
			return apperrors.AlreadyBooked(claimed)
		case errors.Is(err, participantserrors.ErrRoomNotFound):
			return apperrors.NotFoundWithID("Room", room.ID)
		default:
			s.cfg.Log.Error("Failed to create booking", "room_id", room.ID, "error", err)
			return apperrors.Internal("Failed to submit booking", err)
		}
	}

	// Both are best-effort: the claim is already committed.
	s.notifier.BookingConfirmed(room, participant, slot.Key(claimed))
	s.events.ParticipantSubmitted(participant, room.Kind)

	s.cfg.Log.Info("Booking submitted",
		"room_id", room.ID,
		"participant_id", participant.ID,
		"slot", claimed,
	)
	return nil
}

// Cancel deletes the submission scoped by room and participant id. For a
// booking room this frees the slot for the next claimant.
func (s *participantService) Cancel(ctx context.Context, roomID, participantID string) error {
	if roomID == "" || participantID == "" {
		return apperrors.InvalidInput("Room ID and participant ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, roomID, participantID); err != nil {
		if errors.Is(err, participantserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Participant", participantID)
		}
		if errors.Is(err, participantserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid participant ID format")
		}
		s.cfg.Log.Error("Failed to cancel participant",
			"room_id", roomID,
			"participant_id", participantID,
			"error", err,
		)
		return apperrors.Internal("Failed to cancel participant", err)
	}

	s.events.ParticipantCancelled(roomID, participantID)
	s.cfg.Log.Info("Participant cancelled",
		"room_id", roomID,
		"participant_id", participantID,
	)
	return nil
}

func (s *participantService) findRoom(ctx context.Context, id string) (*model.Room, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}
	return room, nil
}
