package domain

import (
	"time"

	"nextoken/modules/clock"
)

// Limits are the process-wide expiry bounds supplied by configuration.
type Limits struct {
	// DefaultExpiry is used when issuance requests no explicit expiry.
	DefaultExpiry time.Duration

	// MaxExpiry caps the requested expiry. Zero means no cap.
	MaxExpiry time.Duration
}

// Application implements token create/verify/revoke on top of the injected
// collaborators. It holds no mutable state of its own; all per-call state
// lives on the stack, so a single Application serves concurrent requests.
type Application struct {
	signer Signer
	cipher FieldCipher
	store  RevocationStore
	clock  clock.Clock
	limits Limits
}

func NewApp(signer Signer, cipher FieldCipher, store RevocationStore, clk clock.Clock, limits Limits) *Application {
	return &Application{
		signer: signer,
		cipher: cipher,
		store:  store,
		clock:  clk,
		limits: limits,
	}
}
