package user

import (
	"context"
	"sync"
	"time"
)

// MockStore is an in-memory Store for tests.
type MockStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*User

	// Writes counts Create, UpdateProfile, and SetInstallationID calls
	// that reached storage.
	Writes int

	// Err, when set, is returned by every operation.
	Err error

	// OnCreate, when set, runs before Create inserts; a non-nil return
	// is surfaced instead of inserting. Used to simulate losing a
	// concurrent first-login race.
	OnCreate func(githubID string) error
}

func NewMockStore() *MockStore {
	return &MockStore{
		nextID: 1,
		users:  make(map[int64]*User),
	}
}

// Seed inserts a user directly, bypassing write accounting.
func (m *MockStore) Seed(u User) *User {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u.ID == 0 {
		u.ID = m.nextID
	}
	if u.ID >= m.nextID {
		m.nextID = u.ID + 1
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	m.users[u.ID] = &u
	copied := u
	return &copied
}

func (m *MockStore) GetByID(_ context.Context, id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *MockStore) GetByGithubID(_ context.Context, githubID string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.users {
		if u.GithubID == githubID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MockStore) Create(_ context.Context, githubID, username, avatarURL string) (*User, error) {
	m.mu.Lock()
	hook := m.OnCreate
	m.mu.Unlock()

	if hook != nil {
		if err := hook(githubID); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.users {
		if u.GithubID == githubID {
			return nil, ErrDuplicate
		}
	}

	u := &User{
		ID:        m.nextID,
		GithubID:  githubID,
		Username:  username,
		AvatarURL: avatarURL,
		CreatedAt: time.Now(),
	}
	m.nextID++
	m.users[u.ID] = u
	m.Writes++

	copied := *u
	return &copied, nil
}

func (m *MockStore) UpdateProfile(_ context.Context, id int64, username, avatarURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Username = username
	u.AvatarURL = avatarURL
	m.Writes++
	return nil
}

func (m *MockStore) SetInstallationID(_ context.Context, id int64, installationID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.InstallationID.Int64 = installationID
	u.InstallationID.Valid = true
	m.Writes++
	return nil
}
