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
	"nextoken/core/token/adapters/persistence"
	"nextoken/core/token/domain"
	"nextoken/modules/telemetry"
)

// TokenAPI implements the HTTP handlers for token operations. It acts as
// the REST adapter in the hexagonal architecture, translating HTTP requests
// into domain operations.
type TokenAPI struct {
	app     *domain.Application
	store   *persistence.RevocationStore
	metrics *telemetry.TokenMetrics
	version string
}

// NewTokenAPI creates the REST adapter. metrics may be nil, in which case
// operation counters are not recorded.
func NewTokenAPI(app *domain.Application, store *persistence.RevocationStore, metrics *telemetry.TokenMetrics, version string) *TokenAPI {
	return &TokenAPI{
		app:     app,
		store:   store,
		metrics: metrics,
		version: version,
	}
}
