package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	return s, path
}

func TestSaveAndReadBack(t *testing.T) {
	s, _ := tempStore(t)

	require.NoError(t, s.Save("tok-1", "Jane Reader"))

	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, "Jane Reader", s.DisplayName())
	assert.True(t, s.LoggedIn())
}

func TestSessionSurvivesReopen(t *testing.T) {
	s, path := tempStore(t)
	require.NoError(t, s.Save("tok-1", "Jane Reader"))

	reopened, err := Open(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "tok-1", reopened.Token())
	assert.Equal(t, "Jane Reader", reopened.DisplayName())
}

func TestDisplayNameTruncatedAtDelimiter(t *testing.T) {
	s, _ := tempStore(t)

	require.NoError(t, s.Save("tok-1", "jane5413a1b2c3"))
	assert.Equal(t, "jane", s.DisplayName())
}

func TestTruncateDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"jane5413suffix", "jane"},
		{"jane", "jane"},
		{"5413suffix", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, TruncateDisplayName(tt.input))
	}
}

func TestClear(t *testing.T) {
	s, path := tempStore(t)
	require.NoError(t, s.Save("tok-1", "Jane Reader"))

	require.NoError(t, s.Clear())

	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.Token())
	assert.Empty(t, s.DisplayName())

	// Cleared state persists across a reopen too.
	reopened, err := Open(path, nil)
	require.NoError(t, err)
	assert.False(t, reopened.LoggedIn())
}

func TestOverwriteSession(t *testing.T) {
	s, _ := tempStore(t)

	require.NoError(t, s.Save("tok-1", "First"))
	require.NoError(t, s.Save("tok-2", "Second"))

	assert.Equal(t, "tok-2", s.Token())
	assert.Equal(t, "Second", s.DisplayName())
}
