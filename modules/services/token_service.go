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

package services

import (
	"io/fs"
	"net/http"

	"nextoken/core/token/adapters/rest"
	"nextoken/modules/middleware"
	"nextoken/modules/server"
)

var _ server.RegistrableService = (*TokenAPIService)(nil)

// TokenAPIService encapsulates the registration logic for the token API.
type TokenAPIService struct {
	handler    *rest.TokenAPI
	validation func(http.Handler) http.Handler
}

// NewTokenAPIService builds the service and its request-validation
// middleware from the embedded OpenAPI document.
func NewTokenAPIService(h *rest.TokenAPI, specFS fs.FS, specPath string) (*TokenAPIService, error) {
	validation, err := middleware.OpenAPIValidation(specFS, specPath)
	if err != nil {
		return nil, err
	}
	return &TokenAPIService{handler: h, validation: validation}, nil
}

// Register mounts the token API routes.
func (s *TokenAPIService) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /issue", s.handler.IssueToken)
	mux.HandleFunc("POST /verify", s.handler.VerifyToken)
	mux.HandleFunc("POST /revoke", s.handler.RevokeToken)
	mux.HandleFunc("GET /health", s.handler.Health)
	mux.HandleFunc("GET /stats", s.handler.Stats)
}

// Middlewares returns global middlewares required by the token API.
func (s *TokenAPIService) Middlewares() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{s.validation}
}
