package credentials_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/creditrisk/internal/risk/credentials"
	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/pkg/cryptox"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func fastBcrypt(t *testing.T, password string) string {
	t.Helper()
	h, err := cryptox.HashPasswordBcrypt(password, bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func writeJSON(t *testing.T, v any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestAuthenticate(t *testing.T) {
	argon, err := cryptox.HashPassword("s3cret", cryptox.SchemeArgon2id)
	require.NoError(t, err)

	store, err := credentials.New([]credentials.Record{
		{Username: "admin", Password: fastBcrypt(t, "admin123")},
		{Username: "analyst", Password: argon},
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"correct password", "admin", "admin123", true},
		{"wrong password", "admin", "wrong", false},
		{"unknown user", "ghost", "admin123", false},
		{"empty password", "admin", "", false},
		{"case sensitive username", "Admin", "admin123", false},
		{"argon2id user", "analyst", "s3cret", true},
		{"argon2id wrong", "analyst", "s3cret!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, store.Authenticate(tt.username, tt.password))
		})
	}
}

func TestAuthenticate_UnknownSchemeFailsClosed(t *testing.T) {
	store, err := credentials.New([]credentials.Record{{Username: "legacy", Password: "$md5$abc"}})
	require.NoError(t, err)

	require.NotPanics(t, func() {
		require.False(t, store.Authenticate("legacy", "anything"))
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := writeJSON(t, []credentials.Record{
			{Username: "admin", Password: fastBcrypt(t, "admin123")},
			{Username: "user1", Password: fastBcrypt(t, "password1")},
		})

		store, err := credentials.LoadFile(path)
		require.NoError(t, err)
		require.Equal(t, 2, store.Len())
		require.Equal(t, []string{"admin", "user1"}, store.Usernames())
		require.True(t, store.Authenticate("user1", "password1"))
	})

	t.Run("python style prefix", func(t *testing.T) {
		h := fastBcrypt(t, "admin123")
		path := writeJSON(t, []map[string]string{{"username": "admin", "password": "$2b$" + h[4:]}})

		store, err := credentials.LoadFile(path)
		require.NoError(t, err)
		require.True(t, store.Authenticate("admin", "admin123"))
	})

	failures := map[string]func(t *testing.T) string{
		"missing file": func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.json") },
		"malformed json": func(t *testing.T) string {
			path := filepath.Join(t.TempDir(), "users.json")
			require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
			return path
		},
		"empty username": func(t *testing.T) string {
			return writeJSON(t, []credentials.Record{{Username: "", Password: fastBcrypt(t, "x")}})
		},
		"empty hash": func(t *testing.T) string {
			return writeJSON(t, []credentials.Record{{Username: "admin"}})
		},
		"duplicate username": func(t *testing.T) string {
			h := fastBcrypt(t, "x")
			return writeJSON(t, []credentials.Record{{Username: "admin", Password: h}, {Username: "admin", Password: h}})
		},
	}

	for name, setup := range failures {
		t.Run(name, func(t *testing.T) {
			_, err := credentials.LoadFile(setup(t))
			var se *domain.StartupError
			require.ErrorAs(t, err, &se)
			require.Equal(t, "credentials", se.Artifact)
		})
	}
}
