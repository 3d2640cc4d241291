package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreIsolatesValues(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	src := []byte(`{"a":1}`)
	require.NoError(t, st.Write(ctx, "k", src))

	// Mutating the caller's slice after the write must not leak in.
	src[2] = 'X'
	got, err := st.Read(ctx, "k")
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(got))

	// Mutating a returned value must not change the stored copy.
	got[2] = 'X'
	again, err := st.Read(ctx, "k")
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(again))

	require.NoError(t, st.Remove(ctx, "k"))
	gone, err := st.Read(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, gone)
}
