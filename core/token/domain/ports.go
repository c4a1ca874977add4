// Copyright 2025 Nhat-Nguyen Nguyen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package domain

import (
	"context"
	"time"
)

// Signer signs token bodies and verifies detached signatures. Verification
// failure is a boolean outcome, never an error: invalid signatures are an
// expected result of checking attacker-controlled input.
//
// Implementations hold immutable key material, so they are safe for
// unsynchronized concurrent use. The port exists so a loadable or rotating
// key source can replace the process-lifetime keypair without reshaping
// the token service.
type Signer interface {
	Sign(data []byte) []byte
	Verify(data, signature []byte) bool
}

// FieldCipher encrypts and decrypts individual payload fields. Both
// directions map the empty string to the empty string, and decryption
// failure degrades to "" (absence), never to an error: a token remains
// structurally and cryptographically valid even when this field cannot
// be recovered.
type FieldCipher interface {
	EncryptField(plaintext string) string
	DecryptField(ciphertext string) string
}

// RevocationStore is the domain's view of revocation state. Backing-store
// errors are absorbed by implementations and converted to boolean results,
// so the token-validity decision is always well-defined:
//
//   - PutActive failure is non-fatal to issuance (only stats/lookup degrade)
//   - Revoke failure fails the revoke call
//   - IsRevoked degrades to false when the store is unreachable (fail-open;
//     the signature and expiry checks remain the correctness backstop)
type RevocationStore interface {
	// PutActive records issuance metadata under the token id with a TTL
	// matching the token's remaining validity.
	PutActive(ctx context.Context, tokenID string, meta Metadata, ttl time.Duration) bool

	// Revoke durably writes a marker into the revoked namespace, then
	// removes the active entry. Idempotent.
	Revoke(ctx context.Context, tokenID string) bool

	// IsRevoked is a presence check against the revoked namespace only.
	// Absence from both namespaces means "not revoked".
	IsRevoked(ctx context.Context, tokenID string) bool
}
