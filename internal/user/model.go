package user

import (
	"database/sql"
	"time"
)

// User is the persisted account record. GithubID is the immutable
// identity key; username and avatar are refreshed from the provider on
// each login. InstallationID is set once the GitHub App linking
// callback succeeds and is overwritten on re-link.
type User struct {
	ID             int64
	GithubID       string
	Username       string
	AvatarURL      string
	InstallationID sql.NullInt64
	CreatedAt      time.Time
}
