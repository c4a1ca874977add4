// Copyright 2025 Nguyen Nhat Nguyen
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

package middleware

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	nethttpmiddleware "github.com/oapi-codegen/nethttp-middleware"

	"nextoken/modules/middleware/problem"
)

// OpenAPIValidation creates a middleware that validates requests against an
// embedded OpenAPI document. Handlers behind it receive only well-formed,
// schema-conforming input, which keeps transport validation out of the
// domain entirely.
func OpenAPIValidation(specFS fs.FS, specPath string) (func(http.Handler) http.Handler, error) {
	data, err := fs.ReadFile(specFS, specPath)
	if err != nil {
		return nil, err
	}

	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, err
	}

	opts := &nethttpmiddleware.Options{
		Options:               openapi3filter.Options{MultiError: true},
		DoNotValidateServers:  true,
		SilenceServersWarning: true,
		ErrorHandlerWithOpts: func(_ context.Context, err error, w http.ResponseWriter, _ *http.Request, eopts nethttpmiddleware.ErrorHandlerOpts) {
			status := eopts.StatusCode
			if status == 0 {
				status = http.StatusBadRequest
			}
			// Body schema violations are 422; malformed requests stay 400.
			if isBodySchemaViolation(err) {
				status = http.StatusUnprocessableEntity
			}
			problem.Write(w, problem.New(
				problem.WithStatus(status),
				problem.WithDetail(err.Error()),
			))
		},
	}

	return nethttpmiddleware.OapiRequestValidatorWithOptions(spec, opts), nil
}

func isBodySchemaViolation(err error) bool {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, e := range multi {
			if isBodySchemaViolation(e) {
				return true
			}
		}
		return false
	}
	var reqErr *openapi3filter.RequestError
	return errors.As(err, &reqErr) && reqErr.RequestBody != nil
}
