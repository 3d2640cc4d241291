package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/ecofinds-market/internal/store"
)

func newIdentity(t *testing.T) (*Identity, store.Store) {
	t.Helper()
	st := store.NewMemory()
	return NewIdentity(st, bcrypt.MinCost), st
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIdentity(t)

	_, err := svc.Register(ctx, "a@example.com", "pw", "alice")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@example.com", "other", "impostor")
	require.ErrorIs(t, err, ErrEmailExists)

	users, err := svc.loadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1, "failed registration must not grow the collection")
}

func TestRegisterEmailMatchIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIdentity(t)

	_, err := svc.Register(ctx, "a@example.com", "pw", "alice")
	require.NoError(t, err)

	// The uniqueness rule is an exact comparison, so a different
	// casing registers a distinct account.
	_, err = svc.Register(ctx, "A@example.com", "pw", "allie")
	require.NoError(t, err)
}

func TestRegisterSetsSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIdentity(t)

	u, err := svc.Register(ctx, "a@example.com", "pw", "alice")
	require.NoError(t, err)

	current, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	require.Equal(t, u.ID, current.ID)
}

func TestLoginVerifiesCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIdentity(t)

	_, err := svc.Register(ctx, "a@example.com", "secret", "alice")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	_, err = svc.Login(ctx, "nobody@example.com", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "a@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	u, err := svc.Login(ctx, "a@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)

	current, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	require.Equal(t, u.ID, current.ID)
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIdentity(t)

	_, err := svc.Register(ctx, "a@example.com", "pw", "alice")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))
	require.NoError(t, svc.Logout(ctx), "second logout must be a no-op")

	current, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	require.Nil(t, current)
}

func TestUpdateProfileRequiresSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIdentity(t)

	_, err := svc.Register(ctx, "a@example.com", "pw", "alice")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	name := "renamed"
	_, err = svc.UpdateProfile(ctx, ProfileUpdate{Username: &name})
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestUpdateProfileMergesIntoCollection(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIdentity(t)

	u, err := svc.Register(ctx, "a@example.com", "pw", "alice")
	require.NoError(t, err)

	name := "renamed"
	avatar := "https://example.com/a.png"
	updated, err := svc.UpdateProfile(ctx, ProfileUpdate{Username: &name, AvatarURL: &avatar})
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Username)
	require.Equal(t, avatar, updated.AvatarURL)
	require.Equal(t, u.Email, updated.Email, "untouched fields stay as they were")

	// Session view and collection entry must agree.
	current, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, "renamed", current.Username)

	stored, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "renamed", stored.Username)
}

func TestCorruptCollectionsRecoverAsEmpty(t *testing.T) {
	ctx := context.Background()
	svc, st := newIdentity(t)

	require.NoError(t, st.Write(ctx, store.KeyUsers, []byte("{not json")))
	require.NoError(t, st.Write(ctx, store.KeySession, []byte("also broken")))

	current, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	require.Nil(t, current, "corrupt session reads as signed out")

	_, err = svc.Register(ctx, "a@example.com", "pw", "alice")
	require.NoError(t, err, "corrupt users collection reads as empty")
}
