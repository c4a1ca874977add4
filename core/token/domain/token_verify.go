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
	"encoding/base64"
	"time"

	"nextoken/modules/codec"
)

// Verify decodes and checks a token string. Checks run in a fixed order
// and short-circuit at the first failure, cheapest and most
// security-critical first: transport decode, signature, algorithm, token
// id, revocation, expiry, not-before. No payload field is trusted before
// the signature check passes.
func (a *Application) Verify(ctx context.Context, tokenString string) VerifyResult {
	wire, err := base64.URLEncoding.DecodeString(tokenString)
	if err != nil {
		return invalid(ErrDecode)
	}

	var envelope Envelope
	if err := codec.Unmarshal(wire, &envelope); err != nil {
		return invalid(ErrDecode)
	}

	if !a.signer.Verify(envelope.Data, envelope.Signature) {
		return invalid(ErrInvalidSignature)
	}

	var body Body
	if err := codec.Unmarshal(envelope.Data, &body); err != nil {
		return invalid(ErrDecode)
	}

	if body.Header.Alg != AlgorithmEd25519 {
		return invalid(ErrUnsupportedAlgorithm)
	}

	tokenID := body.Payload.JTI
	if tokenID == "" {
		return invalid(ErrMissingTokenID)
	}

	if a.store.IsRevoked(ctx, tokenID) {
		return invalid(ErrRevoked)
	}

	now := a.clock.Now().Unix()
	if now > body.Payload.EXP {
		return invalid(ErrExpired)
	}
	if now < body.Payload.NBF {
		return invalid(ErrNotYetValid)
	}

	// An undecryptable email degrades to absence, not to rejection.
	email := ""
	if body.Payload.EmailEnc != "" {
		email = a.cipher.DecryptField(body.Payload.EmailEnc)
	}

	return VerifyResult{
		Valid:        true,
		UserID:       body.Payload.Sub,
		Email:        email,
		CustomClaims: body.Payload.Custom,
		IssuedAt:     time.Unix(body.Payload.IAT, 0),
		ExpiresAt:    time.Unix(body.Payload.EXP, 0),
		TokenID:      tokenID,
	}
}

func invalid(reason error) VerifyResult {
	return VerifyResult{Valid: false, Reason: reason}
}
