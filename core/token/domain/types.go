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

import "time"

// Scheme identifiers carried in every token header. Verification rejects
// any algorithm other than AlgorithmEd25519.
const (
	AlgorithmEd25519 = "Ed25519"
	TokenType        = "NexToken"
	TokenVersion     = "1.0"
)

// Header identifies the token scheme.
type Header struct {
	Alg string `cbor:"alg"`
	Typ string `cbor:"typ"`
	Ver string `cbor:"ver"`
}

// Payload is the claim set of a token body. Timestamps are Unix seconds.
// EmailEnc is present iff an email was supplied at issuance; Custom is
// present iff custom claims were supplied.
type Payload struct {
	JTI      string         `cbor:"jti"`
	Sub      string         `cbor:"sub"`
	IAT      int64          `cbor:"iat"`
	EXP      int64          `cbor:"exp"`
	NBF      int64          `cbor:"nbf"`
	EmailEnc string         `cbor:"email_enc,omitempty"`
	Custom   map[string]any `cbor:"custom,omitempty"`
}

// Body is the signed logical content of a token. The signature is computed
// over Body's exact CBOR bytes; the deterministic encoder in modules/codec
// guarantees the same bytes are produced at signing and verification time.
type Body struct {
	Header  Header  `cbor:"header"`
	Payload Payload `cbor:"payload"`
}

// Envelope is the wire object transmitted as the token string: the CBOR
// bytes of the body plus a detached Ed25519 signature over those bytes.
type Envelope struct {
	Data      []byte `cbor:"data"`
	Signature []byte `cbor:"signature"`
}

// CreateParams are the already-validated inputs to token issuance. The
// transport layer owns request validation; the domain trusts these fields.
type CreateParams struct {
	UserID       string
	Email        string
	ExpiresIn    time.Duration
	CustomClaims map[string]any
}

// CreatedToken is the result of a successful issuance.
type CreatedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// VerifyResult is the tagged outcome of verification. When Valid is false,
// Reason holds one of the sentinel errors in errors.go and the remaining
// fields are zero. Verification is total: every input, including arbitrary
// garbage, maps to a VerifyResult.
type VerifyResult struct {
	Valid  bool
	Reason error

	UserID       string
	Email        string
	CustomClaims map[string]any
	IssuedAt     time.Time
	ExpiresAt    time.Time
	TokenID      string
}

// RevokeResult is the outcome of a revocation attempt.
type RevokeResult struct {
	Success bool
	Message string
}

// Metadata is the auxiliary active-token record persisted at issuance. It
// powers lookup and statistics, never the validity decision.
type Metadata struct {
	UserID       string         `json:"user_id"`
	Email        string         `json:"email,omitempty"`
	IssuedAt     int64          `json:"issued_at"`
	ExpiresAt    int64          `json:"expires_at"`
	CustomClaims map[string]any `json:"custom_claims,omitempty"`
}
