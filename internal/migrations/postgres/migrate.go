package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var statements = []struct {
	Name string
	SQL  string
}{
	{
		Name: "rooms table",
		SQL: `CREATE TABLE IF NOT EXISTS rooms (
			id uuid PRIMARY KEY,
			title text NOT NULL,
			kind text NOT NULL CHECK (kind IN ('availability', 'booking')),
			dates text[] NOT NULL,
			time_start integer NOT NULL,
			time_end integer NOT NULL,
			date_windows jsonb,
			host_slots jsonb,
			host_name text,
			host_email text,
			meet_link text,
			created_at timestamptz NOT NULL DEFAULT now()
		)`,
	},
	{
		Name: "participants table",
		SQL: `CREATE TABLE IF NOT EXISTS participants (
			id uuid PRIMARY KEY,
			room_id uuid NOT NULL REFERENCES rooms (id) ON DELETE CASCADE,
			name text NOT NULL,
			email text,
			slots jsonb NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`,
	},
	{
		Name: "participants room index",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_participants_room_id ON participants (room_id)`,
	},
	{
		Name: "participants slots index",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_participants_slots ON participants USING gin (slots jsonb_path_ops)`,
	},
}

// RunMigration applies the schema idempotently. Every statement is an
// IF NOT EXISTS ensure, so re-running the job on a live database is safe.
func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	fmt.Println("Running Postgres migrations")

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt.SQL); err != nil {
			return fmt.Errorf("failed to ensure %s: %w", stmt.Name, err)
		}
		fmt.Printf("Ensured %s\n", stmt.Name)
	}

	fmt.Println("All migrations applied successfully.")
	return nil
}
