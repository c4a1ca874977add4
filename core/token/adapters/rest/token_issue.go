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

package rest

import (
	"log/slog"
	"net/http"
	"time"

	"nextoken/core/token/domain"
	"nextoken/modules/api/serde"
	"nextoken/modules/middleware/problem"
)

// IssueToken creates a new token for the requested user.
// Returns 201 with the token string, its id and expiry on success.
func (api *TokenAPI) IssueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req IssueRequest
	if err := serde.ParseJsonBody(r.Body, &req); err != nil {
		problem.Write(w, problem.BadRequest("malformed request body"))
		return
	}

	var email string
	if v, err := req.Email.Get(); err == nil {
		email = string(v)
	}

	var expiresIn time.Duration
	if req.ExpiresIn != nil {
		expiresIn = time.Duration(*req.ExpiresIn) * time.Second
	}

	created, err := api.app.Create(ctx, domain.CreateParams{
		UserID:       req.UserID,
		Email:        email,
		ExpiresIn:    expiresIn,
		CustomClaims: req.CustomClaims,
	})
	if err != nil {
		slog.ErrorContext(ctx, "token issuance failed", slog.Any("error", err))
		problem.Write(w, problem.Internal("failed to issue token"))
		return
	}

	api.metrics.RecordIssued(ctx)
	serde.WriteJSON(w, http.StatusCreated, IssueResponse{
		Token:     created.Token,
		TokenID:   created.TokenID,
		ExpiresAt: created.ExpiresAt,
	})
}
