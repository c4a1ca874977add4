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
	"log/slog"
	"net/http"

	"nextoken/modules/middleware/problem"
)

// Recovery recovers from handler panics and answers with a problem
// document instead of letting the connection die. Handlers never see a
// token-validity question become a 500: the domain converts all expected
// failures to results, so anything recovered here is a genuine bug.
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic", slog.Any("error", rec), slog.String("path", r.URL.Path))
					problem.Write(w, problem.Internal("internal error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
