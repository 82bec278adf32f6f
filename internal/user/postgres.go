package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/juliansalvador727/InterviewDefender/internal/db"

	"github.com/lib/pq"
)

// Postgres error code for unique_violation.
const uniqueViolation = "23505"

const userColumns = `id, github_id, username, avatar_url, github_installation_id, created_at`

type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.GithubID,
		&u.Username,
		&u.AvatarURL,
		&u.InstallationID,
		&u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (s *PostgresStore) GetByGithubID(ctx context.Context, githubID string) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE github_id = $1
	`, githubID))
}

func (s *PostgresStore) Create(ctx context.Context, githubID, username, avatarURL string) (*User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO users (github_id, username, avatar_url)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns+`
	`, githubID, username, avatarURL))

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	return u, nil
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, id int64, username, avatarURL string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET username = $2, avatar_url = $3, updated_at = NOW()
		WHERE id = $1
	`, id, username, avatarURL)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) SetInstallationID(ctx context.Context, id int64, installationID int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET github_installation_id = $2, updated_at = NOW()
		WHERE id = $1
	`, id, installationID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
