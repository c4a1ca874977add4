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
	"net/http"

	"nextoken/modules/api/serde"
	"nextoken/modules/middleware/problem"
)

// VerifyToken checks a presented token. A rejected token is a normal
// verification outcome, not a transport error, so it is reported as
// 200 with valid=false.
func (api *TokenAPI) VerifyToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req VerifyRequest
	if err := serde.ParseJsonBody(r.Body, &req); err != nil {
		problem.Write(w, problem.BadRequest("malformed request body"))
		return
	}

	result := api.app.Verify(ctx, req.Token)
	if !result.Valid {
		api.metrics.RecordVerification(ctx, false, result.Reason.Error())
		serde.WriteJSON(w, http.StatusOK, VerifyResponse{
			Valid: false,
			Error: result.Reason.Error(),
		})
		return
	}

	api.metrics.RecordVerification(ctx, true, "")
	issuedAt := result.IssuedAt
	expiresAt := result.ExpiresAt
	serde.WriteJSON(w, http.StatusOK, VerifyResponse{
		Valid:        true,
		UserID:       result.UserID,
		Email:        result.Email,
		CustomClaims: result.CustomClaims,
		IssuedAt:     &issuedAt,
		ExpiresAt:    &expiresAt,
	})
}
