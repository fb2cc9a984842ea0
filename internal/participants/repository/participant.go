package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	participantserrors "slotboard/internal/participants/errors"
	"slotboard/pkg/config"
	pgtx "slotboard/pkg/db/postgres"
	"slotboard/pkg/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ParticipantRepository interface {
	Create(ctx context.Context, participant *model.Participant) error
	CreateExclusive(ctx context.Context, participant *model.Participant, slotKey string) error
	FindByRoom(ctx context.Context, roomID string) ([]*model.Participant, error)
	Delete(ctx context.Context, roomID, participantID string) error
}

type postgresParticipantRepository struct {
	cfg       *config.Config
	pool      *pgxpool.Pool
	txManager pgtx.TransactionManager
}

func NewPostgresParticipantRepository(cfg *config.Config) ParticipantRepository {
	return &postgresParticipantRepository{
		cfg:       cfg,
		pool:      cfg.Client.Postgres,
		txManager: pgtx.NewTransactionManager(cfg.Client.Postgres),
	}
}

func (r *postgresParticipantRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// Create inserts an availability submission. Concurrent submissions are
// independent appends; the only failure mode besides infrastructure is the
// room disappearing, surfaced through the foreign key.
func (r *postgresParticipantRepository) Create(ctx context.Context, participant *model.Participant) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	slots, err := prepare(participant)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO participants (id, room_id, name, email, slots, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		participant.ID, participant.RoomID, participant.Name,
		nullable(participant.Email), slots, participant.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return participantserrors.ErrRoomNotFound
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

// CreateExclusive inserts a booking claim on slotKey. The transaction locks
// the room row so claims on the same room serialize, then re-checks derived
// occupancy before inserting. Losing the race yields ErrSlotTaken.
func (r *postgresParticipantRepository) CreateExclusive(ctx context.Context, participant *model.Participant, slotKey string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	slots, err := prepare(participant)
	if err != nil {
		return err
	}

	occupied, err := json.Marshal([]string{slotKey})
	if err != nil {
		return fmt.Errorf("failed to encode slot key: %w", err)
	}

	return r.txManager.ExecuteTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var roomID string
		err := tx.QueryRow(ctx, `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, participant.RoomID).Scan(&roomID)
		if err != nil {
			if pgtx.IsNoRows(err) {
				return participantserrors.ErrRoomNotFound
			}
			return fmt.Errorf("failed to lock room: %w", err)
		}

		var taken bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM participants
				WHERE room_id = $1 AND slots @> $2::jsonb
			)`, participant.RoomID, occupied,
		).Scan(&taken)
		if err != nil {
			return fmt.Errorf("failed to check slot occupancy: %w", err)
		}
		if taken {
			return participantserrors.ErrSlotTaken
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO participants (id, room_id, name, email, slots, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			participant.ID, participant.RoomID, participant.Name,
			nullable(participant.Email), slots, participant.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create participant: %w", err)
		}
		return nil
	})
}

func (r *postgresParticipantRepository) FindByRoom(ctx context.Context, roomID string) ([]*model.Participant, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if uuid.Validate(roomID) != nil {
		return nil, fmt.Errorf("%w: %s", participantserrors.ErrInvalidID, roomID)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, room_id, name, email, slots, created_at
		FROM participants
		WHERE room_id = $1
		ORDER BY created_at ASC`, roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find participants: %w", err)
	}
	defer rows.Close()

	var participants []*model.Participant
	for rows.Next() {
		var (
			p     model.Participant
			email *string
			slots []byte
		)
		if err := rows.Scan(&p.ID, &p.RoomID, &p.Name, &email, &slots, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if email != nil {
			p.Email = *email
		}
		if err := json.Unmarshal(slots, &p.Slots); err != nil {
			return nil, fmt.Errorf("failed to decode participant slots: %w", err)
		}
		participants = append(participants, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read participants: %w", err)
	}

	return participants, nil
}

// Delete removes a participant scoped by both ids, so a link to one room can
// never cancel a submission in another.
func (r *postgresParticipantRepository) Delete(ctx context.Context, roomID, participantID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if uuid.Validate(roomID) != nil || uuid.Validate(participantID) != nil {
		return fmt.Errorf("%w: %s/%s", participantserrors.ErrInvalidID, roomID, participantID)
	}

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM participants
		WHERE id = $1 AND room_id = $2`,
		participantID, roomID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return participantserrors.ErrNotFound
	}
	return nil
}

func prepare(participant *model.Participant) ([]byte, error) {
	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}
	participant.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	slots, err := json.Marshal(participant.Slots)
	if err != nil {
		return nil, fmt.Errorf("failed to encode slots: %w", err)
	}
	return slots, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
