package db

import (
	"context"
	"database/sql"
)

const bootstrapMigration = `
CREATE TABLE IF NOT EXISTS users (
    id bigserial PRIMARY KEY,
    github_id text NOT NULL,
    username text NOT NULL,
    avatar_url text NOT NULL DEFAULT '',
    github_installation_id bigint,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT users_github_id_unique UNIQUE (github_id)
);

CREATE INDEX IF NOT EXISTS users_username_idx
ON users (username);
`

// RunBootstrapMigration creates the schema on startup. The unique
// constraint on github_id is load-bearing: concurrent first-time logins
// rely on it to converge on a single row.
func RunBootstrapMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, bootstrapMigration)
	return err
}
