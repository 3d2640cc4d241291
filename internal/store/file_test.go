package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st, err := NewFile(t.TempDir())
	require.NoError(t, err)

	got, err := st.Read(ctx, "users")
	require.NoError(t, err)
	require.Nil(t, got, "absent key reads as nil, not an error")

	require.NoError(t, st.Write(ctx, "users", []byte(`[{"id":"1"}]`)))
	got, err = st.Read(ctx, "users")
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"1"}]`, string(got))

	// A write replaces the previous value wholesale.
	require.NoError(t, st.Write(ctx, "users", []byte(`[]`)))
	got, err = st.Read(ctx, "users")
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(got))

	require.NoError(t, st.Remove(ctx, "users"))
	got, err = st.Read(ctx, "users")
	require.NoError(t, err)
	require.Nil(t, got)

	// Removing an absent key is a no-op.
	require.NoError(t, st.Remove(ctx, "users"))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	st, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, st.Write(ctx, "session", []byte(`{"user_id":"u1"}`)))

	reopened, err := NewFile(dir)
	require.NoError(t, err)
	got, err := reopened.Read(ctx, "session")
	require.NoError(t, err)
	require.JSONEq(t, `{"user_id":"u1"}`, string(got))
}

func TestFileStoreSanitizesKeys(t *testing.T) {
	ctx := context.Background()
	st, err := NewFile(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, st.Write(ctx, "../escape", []byte("x")))
	got, err := st.Read(ctx, "../escape")
	require.NoError(t, err)
	require.Equal(t, []byte("x"), got)
}
