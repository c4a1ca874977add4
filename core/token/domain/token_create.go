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
	"fmt"
	"log/slog"
	"time"

	"nextoken/modules/codec"

	"github.com/gofrs/uuid/v5"
)

// Create issues a new token for params.UserID. The token id is a fresh
// random UUID, globally unique by construction and never deduplicated
// against the store.
//
// The active-metadata write is best-effort: it powers statistics and
// lookup, not the validity decision, so its failure does not fail
// issuance. The only error path is encoding failure, which is fatal to
// the call.
func (a *Application) Create(ctx context.Context, params CreateParams) (*CreatedToken, error) {
	tokenID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("token: generating token id: %w", err)
	}

	expiresIn := a.clampExpiry(params.ExpiresIn)
	now := a.clock.Now().Unix()
	expiresAt := now + int64(expiresIn/time.Second)

	payload := Payload{
		JTI: tokenID.String(),
		Sub: params.UserID,
		IAT: now,
		EXP: expiresAt,
		NBF: now,
	}
	if params.Email != "" {
		payload.EmailEnc = a.cipher.EncryptField(params.Email)
	}
	if len(params.CustomClaims) > 0 {
		payload.Custom = params.CustomClaims
	}

	body := Body{
		Header: Header{
			Alg: AlgorithmEd25519,
			Typ: TokenType,
			Ver: TokenVersion,
		},
		Payload: payload,
	}

	data, err := codec.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("token: encoding body: %w", err)
	}

	envelope := Envelope{
		Data:      data,
		Signature: a.signer.Sign(data),
	}

	wire, err := codec.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("token: encoding envelope: %w", err)
	}

	meta := Metadata{
		UserID:       params.UserID,
		Email:        params.Email,
		IssuedAt:     now,
		ExpiresAt:    expiresAt,
		CustomClaims: params.CustomClaims,
	}
	if !a.store.PutActive(ctx, payload.JTI, meta, expiresIn) {
		slog.WarnContext(ctx, "active metadata write failed, token issued without lookup record",
			slog.String("token_id", payload.JTI),
		)
	}

	return &CreatedToken{
		Token:     base64.URLEncoding.EncodeToString(wire),
		TokenID:   payload.JTI,
		ExpiresAt: time.Unix(expiresAt, 0),
	}, nil
}

func (a *Application) clampExpiry(expiresIn time.Duration) time.Duration {
	if expiresIn <= 0 {
		expiresIn = a.limits.DefaultExpiry
	}
	if a.limits.MaxExpiry > 0 && expiresIn > a.limits.MaxExpiry {
		expiresIn = a.limits.MaxExpiry
	}
	return expiresIn
}
