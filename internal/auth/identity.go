package auth

// Identity represents a verified GitHub identity returned by the
// provider's user endpoint. It contains facts only, no decisions.
type Identity struct {
	GithubID  string // numeric GitHub user id, rendered as a string
	Username  string // GitHub login
	AvatarURL string
}
