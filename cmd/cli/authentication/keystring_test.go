package authentication

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestSessionRoundTrip(t *testing.T) {
	keyring.MockInit()

	_, err := GetSession()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	in := &Session{Token: "jwt", User: StoredUser{ID: "u1", Username: "alice", Email: "alice@example.com"}}
	require.NoError(t, StoreSession(in))

	got, err := GetSession()
	require.NoError(t, err)
	assert.Equal(t, in, got)

	require.NoError(t, DeleteSession())
	_, err = GetSession()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	// deleting twice is fine
	assert.NoError(t, DeleteSession())
}

func TestGetSession_CorruptEntryIsCleared(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set(serviceName, sessionKey, "{not json"))

	_, err := GetSession()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = keyring.Get(serviceName, sessionKey)
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}
