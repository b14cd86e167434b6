// Package credentials loads the static login file and checks passwords
// against it.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/pkg/cryptox"
)

const artifact = "credentials"

// Record is one entry of the credential file.
type Record struct {
	Username string `json:"username"`
	Password string `json:"password"` // encoded hash, never plaintext
}

// Store is an immutable, ordered set of credential records.
type Store struct {
	records []Record

	// decoy is verified when the username is unknown so that both
	// outcomes take the same time.
	decoy string
}

// LoadFile reads and validates the credential file at path. A missing file
// is a startup error; there is no empty default.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.StartupError{Artifact: artifact, Path: path, Err: err}
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &domain.StartupError{Artifact: artifact, Path: path, Err: fmt.Errorf("decode: %w", err)}
	}

	s, err := New(records)
	if err != nil {
		return nil, &domain.StartupError{Artifact: artifact, Path: path, Err: err}
	}
	return s, nil
}

// New validates records and builds a Store over a copy of them.
func New(records []Record) (*Store, error) {
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.Username == "" {
			return nil, fmt.Errorf("record %d: empty username", i)
		}
		if r.Password == "" {
			return nil, fmt.Errorf("record %d (%s): empty password hash", i, r.Username)
		}
		if _, dup := seen[r.Username]; dup {
			return nil, fmt.Errorf("record %d: duplicate username %q", i, r.Username)
		}
		seen[r.Username] = struct{}{}
	}

	decoy, err := decoyFor(records)
	if err != nil {
		return nil, err
	}

	return &Store{
		records: append([]Record(nil), records...),
		decoy:   decoy,
	}, nil
}

// decoyFor hashes a random secret with the same scheme and cost as the
// first record, falling back to bcrypt defaults.
func decoyFor(records []Record) (string, error) {
	secret, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", err
	}
	for _, r := range records {
		if h, err := cryptox.HashLike(r.Password, secret); err == nil {
			return h, nil
		}
	}
	return cryptox.HashPassword(secret, cryptox.SchemeBcrypt)
}

// Authenticate reports whether username exists and password matches its
// hash. Unknown users and wrong passwords are indistinguishable.
func (s *Store) Authenticate(username, password string) bool {
	hash, found := s.decoy, false
	for _, r := range s.records {
		if r.Username == username {
			hash, found = r.Password, true
			break
		}
	}

	err := cryptox.VerifyPassword(password, hash)
	return found && err == nil
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Usernames returns the usernames in file order.
func (s *Store) Usernames() []string {
	out := make([]string, len(s.records))
	for i, r := range s.records {
		out[i] = r.Username
	}
	return out
}
