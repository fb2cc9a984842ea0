package service

import (
	"context"
	"errors"
	"sort"

	"slotboard/internal/events"
	participantsrepo "slotboard/internal/participants/repository"
	roomserrors "slotboard/internal/rooms/errors"
	"slotboard/internal/rooms/repository"
	"slotboard/internal/rooms/validator"
	"slotboard/pkg/config"
	apperrors "slotboard/pkg/errors"
	"slotboard/pkg/heatmap"
	"slotboard/pkg/model"
	"slotboard/pkg/sanitizer"
	"slotboard/pkg/slot"
)

type RoomService interface {
	Create(ctx context.Context, room *model.Room) error
	Get(ctx context.Context, id string) (*model.Room, []*model.Participant, error)
	Delete(ctx context.Context, id string) error
	HeatMap(ctx context.Context, id string) (*heatmap.Result, error)
}

type roomService struct {
	repo         repository.RoomRepository
	participants participantsrepo.ParticipantRepository
	validator    *validator.RoomValidator
	events       events.Publisher
	cfg          *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	participants participantsrepo.ParticipantRepository,
	validator *validator.RoomValidator,
	publisher events.Publisher,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:         repo,
		participants: participants,
		validator:    validator,
		events:       publisher,
		cfg:          cfg,
	}
}

func (s *roomService) Create(ctx context.Context, room *model.Room) error {
	s.sanitize(room)
	s.normalizeDates(room)

	if err := s.validator.Validate(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to create room", "error", err)
		return apperrors.Internal("Failed to create room", err)
	}

	s.events.RoomCreated(room)
	s.cfg.Log.Info("Room created successfully",
		"id", room.ID,
		"kind", room.Kind,
		"dates", len(room.Dates),
	)
	return nil
}

func (s *roomService) Get(ctx context.Context, id string) (*model.Room, []*model.Participant, error) {
	room, err := s.findRoom(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	participants, err := s.participants.FindByRoom(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to list participants", "room_id", id, "error", err)
		return nil, nil, apperrors.Internal("Failed to retrieve participants", err)
	}

	return room, participants, nil
}

func (s *roomService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid room ID format")
		}
		return apperrors.Internal("Failed to delete room", err)
	}

	s.events.RoomDeleted(id)
	s.cfg.Log.Info("Room deleted successfully", "id", id)
	return nil
}

// HeatMap aggregates participant selections over the room's grid.
// Availability rooms only; booking rooms expose raw participant rows via Get.
func (s *roomService) HeatMap(ctx context.Context, id string) (*heatmap.Result, error) {
	room, err := s.findRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if room.IsBooking() {
		return nil, apperrors.InvalidInput("Heat map is only available for availability rooms")
	}

	participants, err := s.participants.FindByRoom(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to list participants", "room_id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve participants", err)
	}

	selections := make([][]slot.Key, 0, len(participants))
	for _, p := range participants {
		selection := make([]slot.Key, 0, len(p.Slots))
		for _, raw := range p.Slots {
			selection = append(selection, slot.Key(raw))
		}
		selections = append(selections, selection)
	}

	return heatmap.Aggregate(room.Grid(), selections), nil
}

func (s *roomService) findRoom(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
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

func (s *roomService) sanitize(room *model.Room) {
	room.Title = sanitizer.TrimAndNormalize(room.Title)
	room.HostName = sanitizer.NormalizeName(room.HostName)
}

// normalizeDates dedupes and sorts ascending, so slot generation and display
// order are stable regardless of input order.
func (s *roomService) normalizeDates(room *model.Room) {
	if len(room.Dates) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(room.Dates))
	deduped := make([]string, 0, len(room.Dates))
	for _, date := range room.Dates {
		if _, ok := seen[date]; ok {
			continue
		}
		seen[date] = struct{}{}
		deduped = append(deduped, date)
	}
	sort.Strings(deduped)
	room.Dates = deduped
}
