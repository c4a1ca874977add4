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

// Package cryptoengine holds the process-lifetime key material for token
// signing and field encryption: an Ed25519 keypair and an AES-256 key with
// a fixed IV. Keys are generated once at startup and are immutable
// afterwards, so the engine is safe for unsynchronized concurrent use.
package cryptoengine

import (
	"crypto/aes"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

const (
	aesKeySize = 32
	aesIVSize  = aes.BlockSize
)

type Engine struct {
	publicKey  ed25519.PublicKey
	privateKey ed25519.PrivateKey

	aesKey []byte
	aesIV  []byte
}

// New generates fresh key material. A failure here means the process has no
// usable entropy source and should abort startup; per-request operations on
// a constructed Engine have no error paths of their own.
func New() (*Engine, error) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptoengine: generating Ed25519 keypair: %w", err)
	}

	aesKey := make([]byte, aesKeySize)
	if _, err := rand.Read(aesKey); err != nil {
		return nil, fmt.Errorf("cryptoengine: generating AES key: %w", err)
	}

	aesIV := make([]byte, aesIVSize)
	if _, err := rand.Read(aesIV); err != nil {
		return nil, fmt.Errorf("cryptoengine: generating AES IV: %w", err)
	}

	return &Engine{
		publicKey:  public,
		privateKey: private,
		aesKey:     aesKey,
		aesIV:      aesIV,
	}, nil
}

// Sign signs data with the engine's Ed25519 private key.
func (e *Engine) Sign(data []byte) []byte {
	return ed25519.Sign(e.privateKey, data)
}

// Verify reports whether signature is a valid Ed25519 signature over data.
// A malformed or mismatched signature is an expected outcome of verifying
// attacker-controlled input, so failure is a boolean, not an error.
func (e *Engine) Verify(data, signature []byte) bool {
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(e.publicKey, data, signature)
}

// PublicKey returns the verification key, e.g. for external verifiers.
func (e *Engine) PublicKey() ed25519.PublicKey {
	return e.publicKey
}
