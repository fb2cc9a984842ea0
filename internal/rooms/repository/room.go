package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	roomserrors "slotboard/internal/rooms/errors"
	"slotboard/pkg/config"
	pgtx "slotboard/pkg/db/postgres"
	"slotboard/pkg/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	FindByID(ctx context.Context, id string) (*model.Room, error)
	Delete(ctx context.Context, id string) error
}

type postgresRoomRepository struct {
	cfg  *config.Config
	pool *pgxpool.Pool
}

func NewPostgresRoomRepository(cfg *config.Config) RoomRepository {
	return &postgresRoomRepository{
		cfg:  cfg,
		pool: cfg.Client.Postgres,
	}
}

// withTimeout caps the query at timeout unless the caller's deadline is
// already tighter.
func (r *postgresRoomRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *postgresRoomRepository) Create(ctx context.Context, room *model.Room) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if room.ID == "" {
		room.ID = uuid.New().String()
	}
	room.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	dateWindows, err := marshalNullable(room.DateWindows, len(room.DateWindows) > 0)
	if err != nil {
		return fmt.Errorf("failed to encode date windows: %w", err)
	}
	hostSlots, err := marshalNullable(room.HostSlots, room.HostSlots != nil)
	if err != nil {
		return fmt.Errorf("failed to encode host slots: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO rooms (
			id, title, kind, dates, time_start, time_end,
			date_windows, host_slots, host_name, host_email, meet_link, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		room.ID, room.Title, string(room.Kind), room.Dates,
		room.Window.Start, room.Window.End,
		dateWindows, hostSlots,
		nullable(room.HostName), nullable(room.HostEmail), nullable(room.MeetLink),
		room.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (r *postgresRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	var (
		room        model.Room
		kind        string
		dateWindows []byte
		hostSlots   []byte
		hostName    *string
		hostEmail   *string
		meetLink    *string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, kind, dates, time_start, time_end,
		       date_windows, host_slots, host_name, host_email, meet_link, created_at
		FROM rooms
		WHERE id = $1`, id,
	).Scan(
		&room.ID, &room.Title, &kind, &room.Dates,
		&room.Window.Start, &room.Window.End,
		&dateWindows, &hostSlots, &hostName, &hostEmail, &meetLink,
		&room.CreatedAt,
	)
	if err != nil {
		if pgtx.IsNoRows(err) {
			return nil, roomserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}

	room.Kind = model.RoomKind(kind)
	if dateWindows != nil {
		if err := json.Unmarshal(dateWindows, &room.DateWindows); err != nil {
			return nil, fmt.Errorf("failed to decode date windows: %w", err)
		}
	}
	if hostSlots != nil {
		if err := json.Unmarshal(hostSlots, &room.HostSlots); err != nil {
			return nil, fmt.Errorf("failed to decode host slots: %w", err)
		}
	}
	room.HostName = deref(hostName)
	room.HostEmail = deref(hostEmail)
	room.MeetLink = deref(meetLink)

	return &room, nil
}

func (r *postgresRoomRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if uuid.Validate(id) != nil {
		return fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	// Participants go with the room via ON DELETE CASCADE.
	tag, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return roomserrors.ErrNotFound
	}
	return nil
}

func marshalNullable(v any, present bool) ([]byte, error) {
	if !present {
		return nil, nil
	}
	return json.Marshal(v)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
