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

package rest

import (
	"net/http"
	"time"

	"nextoken/modules/api/serde"
)

// Health reports service liveness. The service keeps answering when the
// backing store is down, so an unreachable store degrades the status
// instead of failing the endpoint.
func (api *TokenAPI) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if !api.store.HealthCheck(r.Context()) {
		status = "degraded"
	}

	serde.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    status,
		Version:   api.version,
		Timestamp: time.Now(),
	})
}
