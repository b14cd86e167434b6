package app

import (
	"log/slog"
	"time"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/pkg/cryptox"
	"github.com/aussiebroadwan/creditrisk/pkg/jwtx"
)

const (
	sessionKeyID    = "session"
	sessionLeeway   = 30 * time.Second
	sessionAudience = "creditrisk-web"
)

// SessionKeys holds the single signing key of session tokens and its
// verifier.
type SessionKeys struct {
	Signer   *jwtx.EdDSASigner
	KeySet   *jwtx.KeySet
	Verifier jwtx.Verifier
}

// InitSessionKeys loads the Ed25519 session key from cfg.SessionKeyFile,
// creating it on first start.
//
// Without a key file the key is generated in memory and every session
// becomes invalid when the service restarts.
func InitSessionKeys(cfg Config, logger *slog.Logger) (*SessionKeys, error) {
	pemKey, err := cryptox.LoadOrCreateEd25519Key(cfg.SessionKeyFile)
	if err != nil {
		return nil, &domain.StartupError{Artifact: "session key", Path: cfg.SessionKeyFile, Err: err}
	}

	signer, err := jwtx.NewSignerEdDSA(sessionKeyID, pemKey)
	if err != nil {
		return nil, &domain.StartupError{Artifact: "session key", Path: cfg.SessionKeyFile, Err: err}
	}

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	if cfg.SessionKeyFile == "" {
		logger.Warn("using an ephemeral session key, sessions will not survive a restart")
	} else {
		logger.Info("session key loaded", "path", cfg.SessionKeyFile)
	}

	return &SessionKeys{
		Signer: signer,
		KeySet: keys,
		Verifier: jwtx.NewVerifierEdDSA(keys, jwtx.VerifyOptions{
			Issuer:   cfg.Issuer,
			Audience: []string{sessionAudience},
			Leeway:   sessionLeeway,
		}),
	}, nil
}
