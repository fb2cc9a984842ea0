package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"slotboard/internal/notify"
	participantserrors "slotboard/internal/participants/errors"
	"slotboard/internal/participants/validator"
	roomserrors "slotboard/internal/rooms/errors"
	"slotboard/pkg/config"
	apperrors "slotboard/pkg/errors"
	"slotboard/pkg/logger"
	"slotboard/pkg/model"
	"slotboard/pkg/slot"
)

const testRoomID = "6b7f9a3e-8c1d-4f2a-9e5b-1a2b3c4d5e6f"

type mockParticipantRepository struct {
	createFunc          func(ctx context.Context, participant *model.Participant) error
	createExclusiveFunc func(ctx context.Context, participant *model.Participant, slotKey string) error
	deleteFunc          func(ctx context.Context, roomID, participantID string) error
}

func (m *mockParticipantRepository) Create(ctx context.Context, participant *model.Participant) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, participant)
	}
	return nil
}

func (m *mockParticipantRepository) CreateExclusive(ctx context.Context, participant *model.Participant, slotKey string) error {
	if m.createExclusiveFunc != nil {
		return m.createExclusiveFunc(ctx, participant, slotKey)
	}
	return nil
}

func (m *mockParticipantRepository) FindByRoom(ctx context.Context, roomID string) ([]*model.Participant, error) {
	return []*model.Participant{}, nil
}

func (m *mockParticipantRepository) Delete(ctx context.Context, roomID, participantID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, roomID, participantID)
	}
	return nil
}

type mockRoomRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Room, error)
}

func (m *mockRoomRepository) Create(ctx context.Context, room *model.Room) error { return nil }

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, roomserrors.ErrNotFound
}

func (m *mockRoomRepository) Delete(ctx context.Context, id string) error { return nil }

type mockPublisher struct {
	mu        sync.Mutex
	submitted []string
	cancelled []string
}

func (m *mockPublisher) RoomCreated(room *model.Room) {}
func (m *mockPublisher) RoomDeleted(roomID string)    {}

func (m *mockPublisher) ParticipantSubmitted(p *model.Participant, kind model.RoomKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitted = append(m.submitted, p.RoomID)
}

func (m *mockPublisher) ParticipantCancelled(roomID, participantID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled = append(m.cancelled, participantID)
}

func (m *mockPublisher) Close() error { return nil }

type mockSender struct {
	sendFunc func(to, subject, body string) error
	sent     chan string
}

func (m *mockSender) Send(to, subject, body string) error {
	if m.sendFunc != nil {
		if err := m.sendFunc(to, subject, body); err != nil {
			return err
		}
	}
	if m.sent != nil {
		m.sent <- to
	}
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Output:  io.Discard,
		Service: "test",
	})
}

func newTestService(repo *mockParticipantRepository, rooms *mockRoomRepository, notifier *notify.Notifier, events *mockPublisher) ParticipantService {
	log := testLogger()
	cfg := &config.Config{Log: log}
	if notifier == nil {
		notifier = notify.NewWithSender(nil, log)
	}
	return NewParticipantService(repo, rooms, validator.NewParticipantValidator(log), notifier, events, cfg)
}

func availabilityRoom() *model.Room {
	return &model.Room{
		ID:     testRoomID,
		Title:  "Team offsite",
		Kind:   model.RoomKindAvailability,
		Dates:  []string{"2027-06-01"},
		Window: slot.Window{Start: 9, End: 11},
	}
}

func bookingRoom() *model.Room {
	return &model.Room{
		ID:        testRoomID,
		Title:     "Office hours",
		Kind:      model.RoomKindBooking,
		Dates:     []string{"2027-06-01"},
		Window:    slot.Window{Start: 9, End: 11},
		HostName:  "Dana Levi",
		HostEmail: "dana@example.com",
		HostSlots: []string{"2027-06-01T09:00", "2027-06-01T10:30"},
	}
}

func roomRepoReturning(room *model.Room) *mockRoomRepository {
	return &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Room, error) {
			return room, nil
		},
	}
}

func appErrorCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestSubmitAvailability(t *testing.T) {
	var stored *model.Participant
	repo := &mockParticipantRepository{
		createFunc: func(ctx context.Context, participant *model.Participant) error {
			stored = participant
			return nil
		},
	}
	events := &mockPublisher{}
	service := newTestService(repo, roomRepoReturning(availabilityRoom()), nil, events)

	participant := &model.Participant{
		Name:  "  Noa   Katz ",
		Slots: []string{"2027-06-01T09:00", "2027-06-01T10:30"},
	}

	if err := service.Submit(context.Background(), testRoomID, participant); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if stored == nil {
		t.Fatal("repository was never called")
	}
	if stored.RoomID != testRoomID {
		t.Errorf("room id = %q, want %q", stored.RoomID, testRoomID)
	}
	if stored.Name != "Noa Katz" {
		t.Errorf("name = %q, want normalized %q", stored.Name, "Noa Katz")
	}
	if len(events.submitted) != 1 {
		t.Errorf("submitted events = %v, want one", events.submitted)
	}
}

func TestSubmitValidationFailure(t *testing.T) {
	repoCalled := false
	repo := &mockParticipantRepository{
		createFunc: func(ctx context.Context, participant *model.Participant) error {
			repoCalled = true
			return nil
		},
	}
	service := newTestService(repo, roomRepoReturning(availabilityRoom()), nil, &mockPublisher{})

	participant := &model.Participant{
		Name:  "Noa",
		Slots: []string{"2027-06-01T15:00"}, // outside the 9-11 window
	}

	err := service.Submit(context.Background(), testRoomID, participant)
	if code := appErrorCode(t, err); code != apperrors.CodeValidation {
		t.Errorf("Submit() code = %s, want %s", code, apperrors.CodeValidation)
	}
	if repoCalled {
		t.Error("repository was called for an invalid submission")
	}
}

func TestSubmitRoomNotFound(t *testing.T) {
	service := newTestService(&mockParticipantRepository{}, &mockRoomRepository{}, nil, &mockPublisher{})

	participant := &model.Participant{
		Name:  "Noa",
		Slots: []string{"2027-06-01T09:00"},
	}

	err := service.Submit(context.Background(), testRoomID, participant)
	if code := appErrorCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("Submit() code = %s, want %s", code, apperrors.CodeNotFound)
	}
}

func TestSubmitBookingSendsEmails(t *testing.T) {
	repo := &mockParticipantRepository{}
	sender := &mockSender{sent: make(chan string, 2)}
	notifier := notify.NewWithSender(sender, testLogger())
	events := &mockPublisher{}
	service := newTestService(repo, roomRepoReturning(bookingRoom()), notifier, events)

	participant := &model.Participant{
		Name:  "Noa",
		Email: "noa@example.com",
		Slots: []string{"2027-06-01T10:30"},
	}

	if err := service.Submit(context.Background(), testRoomID, participant); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	recipients := make(map[string]bool)
	for i := 0; i < 2; i++ {
		select {
		case to := <-sender.sent:
			recipients[to] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for email %d", i+1)
		}
	}
	if !recipients["noa@example.com"] || !recipients["dana@example.com"] {
		t.Errorf("recipients = %v, want guest and host", recipients)
	}
	if len(events.submitted) != 1 {
		t.Errorf("submitted events = %v, want one", events.submitted)
	}
}

func TestSubmitBookingSlotTaken(t *testing.T) {
	repo := &mockParticipantRepository{
		createExclusiveFunc: func(ctx context.Context, participant *model.Participant, slotKey string) error {
			return participantserrors.ErrSlotTaken
		},
	}
	events := &mockPublisher{}
	service := newTestService(repo, roomRepoReturning(bookingRoom()), nil, events)

	participant := &model.Participant{
		Name:  "Noa",
		Slots: []string{"2027-06-01T09:00"},
	}

	err := service.Submit(context.Background(), testRoomID, participant)
	if code := appErrorCode(t, err); code != apperrors.CodeAlreadyBooked {
		t.Errorf("Submit() code = %s, want %s", code, apperrors.CodeAlreadyBooked)
	}
	if len(events.submitted) != 0 {
		t.Errorf("submitted events = %v, want none for a lost race", events.submitted)
	}
}

// Two concurrent claims on the same slot: exactly one wins, the loser gets
// the already-booked error. The mock reproduces the repository's occupancy
// guarantee with a mutex.
func TestSubmitBookingRace(t *testing.T) {
	var mu sync.Mutex
	occupied := make(map[string]bool)
	repo := &mockParticipantRepository{
		createExclusiveFunc: func(ctx context.Context, participant *model.Participant, slotKey string) error {
			mu.Lock()
			defer mu.Unlock()
			if occupied[slotKey] {
				return participantserrors.ErrSlotTaken
			}
			occupied[slotKey] = true
			return nil
		},
	}
	service := newTestService(repo, roomRepoReturning(bookingRoom()), nil, &mockPublisher{})

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			participant := &model.Participant{
				Name:  "Claimant",
				Slots: []string{"2027-06-01T09:00"},
			}
			results <- service.Submit(context.Background(), testRoomID, participant)
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		if code := appErrorCode(t, err); code == apperrors.CodeAlreadyBooked {
			losses++
		} else {
			t.Errorf("unexpected error code %s", code)
		}
	}
	if wins != 1 || losses != 1 {
		t.Errorf("wins = %d, losses = %d, want exactly one of each", wins, losses)
	}
}

func TestSubmitBookingEmailFailureDoesNotFailBooking(t *testing.T) {
	repo := &mockParticipantRepository{}
	sender := &mockSender{
		sendFunc: func(to, subject, body string) error {
			return errors.New("relay down")
		},
	}
	notifier := notify.NewWithSender(sender, testLogger())
	service := newTestService(repo, roomRepoReturning(bookingRoom()), notifier, &mockPublisher{})

	participant := &model.Participant{
		Name:  "Noa",
		Email: "noa@example.com",
		Slots: []string{"2027-06-01T09:00"},
	}

	if err := service.Submit(context.Background(), testRoomID, participant); err != nil {
		t.Fatalf("Submit() error = %v, want nil despite email failure", err)
	}
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name      string
		roomID    string
		id        string
		repoErr   error
		wantCode  string
		wantEvent bool
	}{
		{
			name:      "success publishes event",
			roomID:    testRoomID,
			id:        "p1",
			wantEvent: true,
		},
		{
			name:     "unknown participant",
			roomID:   testRoomID,
			id:       "p1",
			repoErr:  participantserrors.ErrNotFound,
			wantCode: apperrors.CodeNotFound,
		},
		{
			name:     "malformed participant id",
			roomID:   testRoomID,
			id:       "p1",
			repoErr:  participantserrors.ErrInvalidID,
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name:     "empty ids",
			roomID:   "",
			id:       "",
			wantCode: apperrors.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockParticipantRepository{
				deleteFunc: func(ctx context.Context, roomID, participantID string) error {
					return tt.repoErr
				},
			}
			events := &mockPublisher{}
			service := newTestService(repo, &mockRoomRepository{}, nil, events)

			err := service.Cancel(context.Background(), tt.roomID, tt.id)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Cancel() error = %v", err)
				}
			} else if code := appErrorCode(t, err); code != tt.wantCode {
				t.Errorf("Cancel() code = %s, want %s", code, tt.wantCode)
			}

			if tt.wantEvent != (len(events.cancelled) == 1) {
				t.Errorf("cancelled events = %v, wantEvent %v", events.cancelled, tt.wantEvent)
			}
		})
	}
}
