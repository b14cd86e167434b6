package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/creditrisk/pkg/cryptox"
)

// Plaintext is an unhashed username/password pair fed to Provision.
type Plaintext struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProvisionOptions selects the hash scheme. Cost applies to bcrypt only;
// zero means bcrypt.DefaultCost.
type ProvisionOptions struct {
	Scheme cryptox.Scheme
	Cost   int
}

// Provision hashes every password with a fresh salt, keeping input order.
func Provision(entries []Plaintext, opts ProvisionOptions) ([]Record, error) {
	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		hash, err := hashOne(e.Password, opts)
		if err != nil {
			return nil, fmt.Errorf("hash password for %q: %w", e.Username, err)
		}
		out = append(out, Record{Username: e.Username, Password: hash})
	}

	// Same rules as LoadFile, so a written file always loads.
	if _, err := New(out); err != nil {
		return nil, err
	}
	return out, nil
}

func hashOne(password string, opts ProvisionOptions) (string, error) {
	if opts.Scheme == cryptox.SchemeBcrypt && opts.Cost > 0 {
		return cryptox.HashPasswordBcrypt(password, opts.Cost)
	}
	scheme := opts.Scheme
	if scheme == "" {
		scheme = cryptox.SchemeBcrypt
	}
	return cryptox.HashPassword(password, scheme)
}

// WriteFile replaces the credential file at path with records. The file is
// written to a temporary sibling first and renamed into place.
func WriteFile(path string, records []Record) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadPlaintext reads a JSON list of plaintext pairs.
func ReadPlaintext(path string) ([]Plaintext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []Plaintext
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return entries, nil
}
