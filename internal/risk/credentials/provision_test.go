package credentials_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/creditrisk/internal/risk/credentials"
	"github.com/aussiebroadwan/creditrisk/pkg/cryptox"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestProvisionRoundTrip(t *testing.T) {
	for _, scheme := range []cryptox.Scheme{cryptox.SchemeBcrypt, cryptox.SchemeArgon2id} {
		t.Run(string(scheme), func(t *testing.T) {
			records, err := credentials.Provision([]credentials.Plaintext{
				{Username: "admin", Password: "admin123"},
				{Username: "user1", Password: "password1"},
			}, credentials.ProvisionOptions{Scheme: scheme, Cost: bcrypt.MinCost})
			require.NoError(t, err)
			require.Len(t, records, 2)
			require.NotEqual(t, "admin123", records[0].Password)

			path := filepath.Join(t.TempDir(), "users.json")
			require.NoError(t, credentials.WriteFile(path, records))

			info, err := os.Stat(path)
			require.NoError(t, err)
			require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

			store, err := credentials.LoadFile(path)
			require.NoError(t, err)
			require.True(t, store.Authenticate("admin", "admin123"))
			require.False(t, store.Authenticate("admin", "admin123x"))
			require.True(t, store.Authenticate("user1", "password1"))
		})
	}
}

func TestProvision_FreshSalts(t *testing.T) {
	records, err := credentials.Provision([]credentials.Plaintext{
		{Username: "a", Password: "same"},
		{Username: "b", Password: "same"},
	}, credentials.ProvisionOptions{Scheme: cryptox.SchemeBcrypt, Cost: bcrypt.MinCost})
	require.NoError(t, err)
	require.NotEqual(t, records[0].Password, records[1].Password)
}

func TestProvision_RejectsDuplicates(t *testing.T) {
	_, err := credentials.Provision([]credentials.Plaintext{
		{Username: "a", Password: "x"},
		{Username: "a", Password: "y"},
	}, credentials.ProvisionOptions{Scheme: cryptox.SchemeBcrypt, Cost: bcrypt.MinCost})
	require.ErrorContains(t, err, "duplicate")
}

func TestWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"username":"old","password":"x"}]`), 0o644))

	records, err := credentials.Provision([]credentials.Plaintext{{Username: "new", Password: "pw"}},
		credentials.ProvisionOptions{Scheme: cryptox.SchemeBcrypt, Cost: bcrypt.MinCost})
	require.NoError(t, err)
	require.NoError(t, credentials.WriteFile(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.False(t, strings.Contains(string(data), `"old"`))
	require.Contains(t, string(data), `"new"`)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestReadPlaintext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"username":"admin","password":"admin123"}]`), 0o600))

	entries, err := credentials.ReadPlaintext(path)
	require.NoError(t, err)
	require.Equal(t, []credentials.Plaintext{{Username: "admin", Password: "admin123"}}, entries)
}
