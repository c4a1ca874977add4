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
	"time"

	"github.com/oapi-codegen/nullable"
	"github.com/oapi-codegen/runtime/types"
)

// IssueRequest asks for a new token. Email distinguishes absent from
// explicit null; both mean "no email claim".
type IssueRequest struct {
	UserID       string                         `json:"user_id"`
	Email        nullable.Nullable[types.Email] `json:"email,omitempty"`
	ExpiresIn    *int64                         `json:"expires_in,omitempty"`
	CustomClaims map[string]any                 `json:"custom_claims,omitempty"`
}

type IssueResponse struct {
	Token     string    `json:"token"`
	TokenID   string    `json:"token_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type VerifyRequest struct {
	Token string `json:"token"`
}

// VerifyResponse reports a verification outcome. Invalid tokens carry only
// Valid=false and Error; claim fields are populated for valid tokens only.
type VerifyResponse struct {
	Valid        bool           `json:"valid"`
	UserID       string         `json:"user_id,omitempty"`
	Email        string         `json:"email,omitempty"`
	CustomClaims map[string]any `json:"custom_claims,omitempty"`
	IssuedAt     *time.Time     `json:"issued_at,omitempty"`
	ExpiresAt    *time.Time     `json:"expires_at,omitempty"`
	Error        string         `json:"error,omitempty"`
}

type RevokeRequest struct {
	Token string `json:"token"`
}

type RevokeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

type StatsResponse struct {
	ActiveTokens  int64     `json:"active_tokens"`
	RevokedTokens int64     `json:"revoked_tokens"`
	TotalTokens   int64     `json:"total_tokens"`
	Timestamp     time.Time `json:"timestamp"`
}
