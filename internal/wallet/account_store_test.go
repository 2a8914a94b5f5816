package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "account.json")
	store := NewAccountStore(path, true)

	_, _, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok, "missing file means no saved account")

	require.NoError(t, store.Save("0x1111111111111111111111111111111111111111", 4202))

	address, chainID, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", address)
	assert.Equal(t, uint64(4202), chainID)

	require.NoError(t, store.Clear())
	_, _, ok, err = store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, store.Clear(), "clearing twice is fine")
}

func TestAccountStoreDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "account.json")
	store := NewAccountStore(path, false)

	require.NoError(t, store.Save("0x1111111111111111111111111111111111111111", 4202))
	_, _, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "disabled store must not touch disk")
}

func TestAccountStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "account.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, _, _, err := NewAccountStore(path, true).Load()
	assert.Error(t, err)
}
