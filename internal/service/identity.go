package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/ecofinds-market/internal/model"
	"github.com/iliyamo/ecofinds-market/internal/store"
	"github.com/iliyamo/ecofinds-market/internal/utils"
)

// Identity owns the `users` collection and the single `session`
// pointer. The session holds only a user id; profile data always
// comes from the canonical collection entry, so a profile update can
// never leave the session and the collection disagreeing.
//
// The store contract is read-all/mutate/write-all, which is only safe
// for one writer at a time; the mutex serializes every
// read-modify-write cycle within this process.
type Identity struct {
	store  store.Store
	hasher utils.PasswordHasher
	mu     sync.Mutex
}

// NewIdentity builds the service. cost is the bcrypt cost used when
// hashing passwords at registration.
func NewIdentity(s store.Store, cost int) *Identity {
	return &Identity{store: s, hasher: utils.PasswordHasher{Cost: cost}}
}

// ProfileUpdate carries the fields UpdateProfile may change. Nil
// pointers mean "leave unchanged".
type ProfileUpdate struct {
	Username  *string `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

// Register creates a new account, persists it and signs the user in.
// The email must be unused; matching is an exact, case-sensitive
// comparison. Fails with ErrEmailExists on a duplicate.
func (s *Identity) Register(ctx context.Context, email, password, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return model.User{}, ErrEmailExists
		}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.User{}, err
	}
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	users = append(users, user)
	if err := s.saveUsers(ctx, users); err != nil {
		return model.User{}, err
	}
	if err := s.setSession(ctx, user.ID); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Login signs a user in by email and password. Both an unknown email
// and a wrong password fail with ErrInvalidCredentials so the caller
// cannot tell which part was wrong.
func (s *Identity) Login(ctx context.Context, email, password string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			if !s.hasher.Verify(u.PasswordHash, password) {
				return model.User{}, ErrInvalidCredentials
			}
			if err := s.setSession(ctx, u.ID); err != nil {
				return model.User{}, err
			}
			return u, nil
		}
	}
	return model.User{}, ErrInvalidCredentials
}

// Logout clears the session pointer. Calling it without an active
// session is a no-op, not an error.
func (s *Identity) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Remove(ctx, store.KeySession)
}

// CurrentUser resolves the session pointer to its user record.
// Returns nil when nobody is signed in or the referenced user no
// longer exists.
func (s *Identity) CurrentUser(ctx context.Context) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentUserLocked(ctx)
}

// UpdateProfile merges the given fields into the signed-in user's
// collection entry. Fails with ErrNotAuthenticated when no session is
// active. The session stores only the user id, so the single
// collection write is the whole update.
func (s *Identity) UpdateProfile(ctx context.Context, upd ProfileUpdate) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.currentUserLocked(ctx)
	if err != nil {
		return model.User{}, err
	}
	if current == nil {
		return model.User{}, ErrNotAuthenticated
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	for i := range users {
		if users[i].ID != current.ID {
			continue
		}
		if upd.Username != nil {
			users[i].Username = *upd.Username
		}
		if upd.AvatarURL != nil {
			users[i].AvatarURL = *upd.AvatarURL
		}
		if err := s.saveUsers(ctx, users); err != nil {
			return model.User{}, err
		}
		return users[i], nil
	}
	return model.User{}, ErrNotAuthenticated
}

// UserExists reports whether a user id references an existing
// account. The catalog service uses it to validate product owners.
func (s *Identity) UserExists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.loadUsers(ctx)
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if u.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// GetUser fetches a user by id. Returns nil when the id is unknown.
func (s *Identity) GetUser(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Identity) currentUserLocked(ctx context.Context) (*model.User, error) {
	raw, err := s.store.Read(ctx, store.KeySession)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// A corrupt session pointer means no session, never a crash.
		log.Printf("identity: corrupt session value, treating as signed out: %v", err)
		return nil, nil
	}
	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == sess.UserID {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Identity) setSession(ctx context.Context, userID string) error {
	raw, err := json.Marshal(model.Session{UserID: userID, StartedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return s.store.Write(ctx, store.KeySession, raw)
}

// loadUsers decodes the users collection. A malformed value is
// recovered as an empty collection per the store contract.
func (s *Identity) loadUsers(ctx context.Context) ([]model.User, error) {
	raw, err := s.store.Read(ctx, store.KeyUsers)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var users []model.User
	if err := json.Unmarshal(raw, &users); err != nil {
		log.Printf("identity: corrupt users collection, starting empty: %v", err)
		return nil, nil
	}
	return users, nil
}

func (s *Identity) saveUsers(ctx context.Context, users []model.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return s.store.Write(ctx, store.KeyUsers, raw)
}
