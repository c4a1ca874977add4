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

// RevokeToken revokes a presented token. The outcome, including a refusal
// to revoke an invalid token, is reported as 200 with success and message.
func (api *TokenAPI) RevokeToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RevokeRequest
	if err := serde.ParseJsonBody(r.Body, &req); err != nil {
		problem.Write(w, problem.BadRequest("malformed request body"))
		return
	}

	result := api.app.Revoke(ctx, req.Token)
	api.metrics.RecordRevocation(ctx, result.Success)
	serde.WriteJSON(w, http.StatusOK, RevokeResponse{
		Success: result.Success,
		Message: result.Message,
	})
}
