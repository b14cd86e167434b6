package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Scheme names a supported password hash format.
type Scheme string

const (
	// SchemeBcrypt produces "$2a$<cost>$<salt+digest>" strings. Existing
	// credential files carry "$2b$" hashes, which verify the same way.
	SchemeBcrypt Scheme = "bcrypt"

	// SchemeArgon2id produces PHC strings "$argon2id$v=19$m=..,t=..,p=..$salt$hash".
	SchemeArgon2id Scheme = "argon2id"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt
)

var (
	// ErrPasswordMismatch is returned when the password does not verify.
	ErrPasswordMismatch = errors.New("password does not match")

	// ErrUnknownScheme is returned for hashes whose prefix is not recognised.
	ErrUnknownScheme = errors.New("invalid hash format: unknown scheme")
)

// ParseScheme maps a user supplied scheme name onto a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bcrypt":
		return SchemeBcrypt, nil
	case "argon2id", "argon2":
		return SchemeArgon2id, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
	}
}

// DetectScheme reports which scheme produced encodedHash.
func DetectScheme(encodedHash string) (Scheme, error) {
	switch {
	case strings.HasPrefix(encodedHash, "$2a$"),
		strings.HasPrefix(encodedHash, "$2b$"),
		strings.HasPrefix(encodedHash, "$2y$"):
		return SchemeBcrypt, nil
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return SchemeArgon2id, nil
	default:
		return "", ErrUnknownScheme
	}
}

// HashPassword hashes password with a fresh random salt using the given
// scheme. Bcrypt uses bcrypt.DefaultCost.
func HashPassword(password string, scheme Scheme) (string, error) {
	switch scheme {
	case SchemeBcrypt:
		return HashPasswordBcrypt(password, bcrypt.DefaultCost)
	case SchemeArgon2id:
		return hashArgon2id(password)
	default:
		return "", ErrUnknownScheme
	}
}

// HashPasswordBcrypt hashes password with bcrypt at the given cost. Bcrypt
// only considers the first 72 bytes, longer passwords are rejected.
func HashPasswordBcrypt(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// HashLike hashes password with the same scheme and work factor as
// reference. It is used to build decoy hashes whose verification costs the
// same as a real one.
func HashLike(reference, password string) (string, error) {
	scheme, err := DetectScheme(reference)
	if err != nil {
		return "", err
	}
	if scheme == SchemeBcrypt {
		cost, err := bcrypt.Cost([]byte(reference))
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return HashPasswordBcrypt(password, cost)
	}
	return hashArgon2id(password)
}

// VerifyPassword compares a plaintext password against an encoded hash of
// any supported scheme. It returns nil on match, ErrPasswordMismatch on a
// wrong password and a format error for malformed hashes.
func VerifyPassword(password, encodedHash string) error {
	scheme, err := DetectScheme(encodedHash)
	if err != nil {
		return err
	}

	switch scheme {
	case SchemeBcrypt:
		err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
		if err == nil {
			return nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("invalid hash format: %w", err)
	default:
		return verifyArgon2id(password, encodedHash)
	}
}

func hashArgon2id(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifyArgon2id(password, encodedHash string) error {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return errors.New("invalid hash format: expected 6 parts")
	}
	if parts[2] != "v=19" {
		return errors.New("invalid hash format: wrong version")
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("invalid hash format: failed to parse parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("invalid hash format: failed to decode salt: %w", err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("invalid hash format: failed to decode hash: %w", err)
	}
	if len(expected) == 0 {
		return errors.New("invalid hash format: empty digest")
	}

	computed := argon2.IDKey(
		[]byte(password),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115 - digest length is tiny
	)

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}
