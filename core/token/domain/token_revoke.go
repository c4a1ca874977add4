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
	"fmt"
)

// Revoke authenticates the token via Verify and then moves its id into
// the revoked namespace. A token that cannot be authenticated cannot be
// revoked by this path, which keeps tampered tokens from injecting
// arbitrary ids into the revocation set.
//
// Revocation is idempotent: revoking an already-revoked id reports
// success. Verify rejects revoked tokens before this method reaches the
// store, so the repeat call short-circuits on the revoked reason.
func (a *Application) Revoke(ctx context.Context, tokenString string) RevokeResult {
	result := a.Verify(ctx, tokenString)
	if !result.Valid {
		if result.Reason == ErrRevoked {
			// Already revoked: a repeat revoke is a no-op success.
			return RevokeResult{Success: true, Message: "token already revoked"}
		}
		return RevokeResult{
			Success: false,
			Message: fmt.Sprintf("cannot revoke invalid token: %v", result.Reason),
		}
	}

	if !a.store.Revoke(ctx, result.TokenID) {
		return RevokeResult{Success: false, Message: "failed to revoke token"}
	}

	return RevokeResult{Success: true, Message: "token successfully revoked"}
}
